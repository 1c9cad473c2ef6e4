package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/spf13/cobra"
)

// ExecOptions holds options for the exec command.
type ExecOptions struct {
	Limit  string
	Offset string
	Mode   string
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	opts := &ExecOptions{}
	cmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Execute a SQL statement",
		Long: `Execute a single SQL statement against the configured target.

Queries print their rows; other statements print the number of rows
affected. Use "-" to read the statement from stdin.

--limit and --offset append LIMIT/OFFSET clauses. Values that are not
numeric are ignored.`,
		Example: `  # Run a query
  leapdb exec "SELECT * FROM users"

  # Paginate
  leapdb exec "SELECT * FROM users ORDER BY id" --limit 10 --offset 20

  # Rows as arrays in JSON
  leapdb exec "SELECT id, name FROM users" --mode num -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Limit, "limit", "", "Maximum number of rows")
	cmd.Flags().StringVar(&opts.Offset, "offset", "", "Rows to skip")
	cmd.Flags().StringVar(&opts.Mode, "mode", "assoc", "Row shape: assoc, num or both")

	return cmd
}

func runExec(cmd *cobra.Command, args []string, opts *ExecOptions) error {
	mode, err := core.ParseFetchMode(opts.Mode)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	if query == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read statement: %w", err)
		}
		query = string(data)
	}
	query = strings.TrimSuffix(strings.TrimSpace(query), ";")
	if query == "" {
		return fmt.Errorf("empty statement")
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.Limit != "" || opts.Offset != "" {
		query = cc.Adapter.Limit(query, core.LimitOptions{Limit: opts.Limit, Offset: opts.Offset})
	}

	res, err := cc.Adapter.Execute(cmd.Context(), query)
	if err != nil {
		return err
	}
	return renderResult(cc, res, mode)
}
