package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewLastIDCommand creates the last-id command.
func NewLastIDCommand() *cobra.Command {
	var insert string
	cmd := &cobra.Command{
		Use:   "last-id <table> <column>",
		Short: "Show the last generated key of an auto column",
		Long: `Show the key most recently generated for table.column.

Generated keys are tracked per session, so the insert must run in the
same connection: pass it with --insert.`,
		Example: `  leapdb last-id users id --insert "INSERT INTO users (name) VALUES ('ana')"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			if stmt := strings.TrimSpace(insert); stmt != "" {
				if _, err := cc.Adapter.Execute(ctx, stmt); err != nil {
					return err
				}
			}

			id, err := cc.Adapter.LastAutoID(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return cc.Renderer.Message(map[string]any{"table": args[0], "column": args[1], "id": id}, "%d", id)
		},
	}
	cmd.Flags().StringVar(&insert, "insert", "", "Statement to run before reading the key")
	return cmd
}
