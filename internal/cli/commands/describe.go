package commands

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/spf13/cobra"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	var schema string
	cmd := &cobra.Command{
		Use:   "describe <table>",
		Short: "Describe the columns of a table",
		Long: `Describe the columns of a table: name, type, nullability, whether
it is part of the primary key and whether it has a default.

The table may be qualified as schema.table.`,
		Example: `  leapdb describe users
  leapdb describe sales.orders -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			fields, err := cc.Adapter.DescribeTable(cmd.Context(), args[0], schema)
			if err != nil {
				return err
			}
			return renderFields(cc.Renderer, fields)
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "", "Schema (default: the dialect's default schema)")
	return cmd
}

func renderFields(r *Renderer, fields []core.FieldInfo) error {
	if r.EffectiveMode() == ModeJSON {
		return r.JSON(fields)
	}
	rows := make([][]any, len(fields))
	for i, f := range fields {
		rows[i] = []any{f.Field, f.Type, f.Null, f.Key, f.Default}
	}
	return r.Table([]string{"Field", "Type", "Null", "Key", "Default"}, rows)
}
