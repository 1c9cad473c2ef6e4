package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/spf13/cobra"
)

const (
	shellPrompt     = "leapdb> "
	shellContPrompt = "    ...> "
	historyFileName = ".leapdb_history"
)

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive SQL shell",
		Long: `Start an interactive shell on the configured target.

Statements end with a semicolon and may span several lines. Lines that
start with a dot are shell commands; type .help to list them.`,
		Args: cobra.NoArgs,
		RunE: runShell,
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, historyFileName)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newShellCompleter(ctx, cc.Adapter),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "leapdb shell (%s, environment %s)\n", cc.Adapter.DialectName(), cc.Config.Environment)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	sh := newShell(cc, cmd.ErrOrStderr())
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			sh.reset()
			rl.SetPrompt(shellPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if sh.handleLine(ctx, line) {
			return nil
		}
		rl.SetPrompt(sh.prompt())
	}
}

// shell holds the state of an interactive session.
type shell struct {
	cc     *CommandContext
	errOut io.Writer

	buf   strings.Builder
	mode  core.FetchMode
	limit core.LimitOptions
}

func newShell(cc *CommandContext, errOut io.Writer) *shell {
	return &shell{cc: cc, errOut: errOut, mode: core.FetchAssoc}
}

func (s *shell) reset() {
	s.buf.Reset()
}

func (s *shell) prompt() string {
	if s.buf.Len() > 0 {
		return shellContPrompt
	}
	return shellPrompt
}

// handleLine processes one input line and reports whether the shell should exit.
func (s *shell) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if s.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		quit, err := s.dotCommand(ctx, line)
		if err != nil {
			s.printErr(err)
		}
		return quit
	}

	s.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.buf.WriteString(" ")
		return false
	}

	query := strings.TrimSpace(strings.TrimSuffix(s.buf.String(), ";"))
	s.buf.Reset()
	if query == "" {
		return false
	}
	if err := s.run(ctx, query); err != nil {
		s.printErr(err)
	}
	return false
}

func (s *shell) run(ctx context.Context, query string) error {
	adp := s.cc.Adapter
	if s.limit.Limit != nil || s.limit.Offset != nil {
		query = adp.Limit(query, s.limit)
	}
	res, err := adp.Execute(ctx, query)
	if err != nil {
		return err
	}
	return renderResult(s.cc, res, s.mode)
}

func (s *shell) dotCommand(ctx context.Context, line string) (bool, error) {
	parts := strings.Fields(line)
	adp := s.cc.Adapter
	r := s.cc.Renderer

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true, nil

	case ".help":
		printShellHelp(r.Writer())

	case ".tables":
		tables, err := adp.ListTables(ctx)
		if err != nil {
			return false, err
		}
		rows := make([][]any, len(tables))
		for i, t := range tables {
			rows[i] = []any{t}
		}
		return false, r.Table([]string{"table"}, rows)

	case ".describe", ".schema":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: %s <table>", parts[0])
		}
		fields, err := adp.DescribeTable(ctx, parts[1], "")
		if err != nil {
			return false, err
		}
		return false, renderFields(r, fields)

	case ".exists":
		if len(parts) < 2 {
			return false, errors.New("usage: .exists <table>")
		}
		ok, err := adp.TableExists(ctx, parts[1], "")
		if err != nil {
			return false, err
		}
		return false, r.Message(map[string]any{"table": parts[1], "exists": ok}, "%t", ok)

	case ".mode":
		if len(parts) < 2 {
			return false, r.Message(map[string]any{"mode": s.mode.String()}, "%s", s.mode)
		}
		mode, err := core.ParseFetchMode(parts[1])
		if err != nil {
			return false, err
		}
		s.mode = mode

	case ".limit":
		// .limit clears; .limit N [M] sets limit and offset.
		s.limit = core.LimitOptions{}
		if len(parts) > 1 {
			s.limit.Limit = parts[1]
		}
		if len(parts) > 2 {
			s.limit.Offset = parts[2]
		}

	case ".last":
		_, err := fmt.Fprintln(r.Writer(), adp.LastStatement())
		return false, err

	case ".error":
		_, err := fmt.Fprintln(r.Writer(), adp.LastError(strings.Join(parts[1:], " ")))
		return false, err

	default:
		return false, fmt.Errorf("unknown command: %s (type .help for commands)", parts[0])
	}
	return false, nil
}

func (s *shell) printErr(err error) {
	_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
}

func printShellHelp(w io.Writer) {
	help := `Commands:
  .help               Show this help message
  .tables             List tables
  .describe <table>   Show the columns of a table (alias .schema)
  .exists <table>     Check whether a table exists
  .mode [assoc|num|both]
                      Show or set the row shape
  .limit [N [M]]      Append LIMIT N OFFSET M to queries; no arguments clears
  .last               Show the last statement sent
  .error [context]    Show the last driver error
  .quit / .exit       Exit the shell

Statements must end with a semicolon (;).`
	_, _ = fmt.Fprintln(w, help)
}

// newShellCompleter completes table names and dot-commands.
func newShellCompleter(ctx context.Context, adp adapter.Adapter) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	// Completion is best effort.
	if tables, err := adp.ListTables(ctx); err == nil {
		for _, t := range tables {
			items = append(items, readline.PcItem(t))
		}
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".describe"),
		readline.PcItem(".schema"),
		readline.PcItem(".exists"),
		readline.PcItem(".mode",
			readline.PcItem("assoc"),
			readline.PcItem("num"),
			readline.PcItem("both"),
		),
		readline.PcItem(".limit"),
		readline.PcItem(".last"),
		readline.PcItem(".error"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
