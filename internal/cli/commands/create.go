package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/spf13/cobra"
)

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "create <definition.yaml>",
		Short: "Create a table from a YAML definition",
		Long: `Create a table from a YAML definition file.

Columns are created in the order they appear in the file:

  table: users
  columns:
    id:    {type: INTEGER, auto: true, primary: true, not_null: true}
    name:  {type: VARCHAR, size: 50, not_null: true}
    email: {type: VARCHAR, size: 120, unique_index: true}
    city:  {type: VARCHAR, size: 40, index: true}

With --dry-run the generated statements are printed instead of run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := adapter.LoadTableDefinition(args[0])
			if err != nil {
				return err
			}

			if dryRun {
				cc, err := newAdapter(cmd)
				if err != nil {
					return err
				}
				if len(def.Indexes) > 0 {
					return &adapter.UnsupportedOperationError{Op: "composite index", Engine: cc.Adapter.DialectName()}
				}
				ddl, err := adapter.BuildCreateTable(cc.Adapter.Dialect(), def.Table, def.Columns)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cc.Renderer.Writer(), ddl.String())
				return err
			}

			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cc.Adapter.CreateTable(cmd.Context(), def.Table, def.Columns, def.Indexes...); err != nil {
				return err
			}
			return cc.Renderer.Message(map[string]any{"table": def.Table, "created": true}, "created table %s", def.Table)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the DDL without running it")
	return cmd
}
