package commands

import (
	"github.com/spf13/cobra"
)

// NewDropCommand creates the drop command.
func NewDropCommand() *cobra.Command {
	var ifExists bool
	cmd := &cobra.Command{
		Use:   "drop <table>",
		Short: "Drop a table",
		Long: `Drop a table. With --if-exists a missing table is not an error
and no DROP statement is sent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := cc.Adapter.DropTable(cmd.Context(), args[0], ifExists); err != nil {
				return err
			}
			return cc.Renderer.Message(map[string]any{"table": args[0], "dropped": true}, "dropped table %s", args[0])
		},
	}
	cmd.Flags().BoolVar(&ifExists, "if-exists", false, "Do nothing when the table does not exist")
	return cmd
}
