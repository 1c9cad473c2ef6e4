package commands

import (
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "tables",
		Aliases: []string{"ls"},
		Short:   "List tables",
		Long:    `List the user tables of the configured target.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			tables, err := cc.Adapter.ListTables(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]any, len(tables))
			for i, t := range tables {
				rows[i] = []any{t}
			}
			return cc.Renderer.Table([]string{"table"}, rows)
		},
	}
}
