package commands

import (
	"github.com/spf13/cobra"
)

// NewExistsCommand creates the exists command.
func NewExistsCommand() *cobra.Command {
	var schema string
	cmd := &cobra.Command{
		Use:   "exists <table>",
		Short: "Check whether a table exists",
		Long: `Print true when the table exists and false otherwise.
Lookups are case-insensitive; the table may be qualified as schema.table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ok, err := cc.Adapter.TableExists(cmd.Context(), args[0], schema)
			if err != nil {
				return err
			}
			return cc.Renderer.Message(map[string]any{"table": args[0], "exists": ok}, "%t", ok)
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "", "Schema (default: the dialect's default schema)")
	return cmd
}
