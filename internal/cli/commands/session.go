// Package commands implements the leapdb subcommands.
package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/spf13/cobra"
)

// errNoConfig is returned when a command runs without the root pre-run.
var errNoConfig = errors.New("configuration not loaded")

// CommandContext bundles what most subcommands need.
type CommandContext struct {
	Config   *config.Config
	Logger   *slog.Logger
	Renderer *Renderer
	Adapter  adapter.Adapter
}

// newAdapter builds the target's adapter without connecting.
func newAdapter(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	cfg, ok := config.FromContext(ctx)
	if !ok {
		return nil, errNoConfig
	}
	mode, err := ParseOutputMode(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	logger := config.GetLogger(ctx)
	adp, err := adapter.NewAdapter(cfg.Target.ToAdapterConfig(), logger)
	if err != nil {
		return nil, err
	}
	if t, ok := adp.(adapter.Tracer); ok && cfg.Trace {
		errOut := cmd.ErrOrStderr()
		t.SetTrace(func(sql string) {
			_, _ = fmt.Fprintf(errOut, "-- %s\n", sql)
		})
	}

	return &CommandContext{
		Config:   cfg,
		Logger:   logger,
		Renderer: NewRenderer(cmd.OutOrStdout(), mode),
		Adapter:  adp,
	}, nil
}

// NewCommandContext connects to the configured target. The returned
// cleanup closes the connection.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc, err := newAdapter(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := cc.Adapter.Connect(cmd.Context(), cc.Config.Target.ToAdapterConfig()); err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if _, err := cc.Adapter.Close(); err != nil {
			cc.Logger.Warn("failed to close connection", slog.String("error", err.Error()))
		}
	}
	return cc, cleanup, nil
}

// collectRows drains res.
func collectRows(adp adapter.Adapter, res *adapter.Result, mode core.FetchMode) ([]core.Row, error) {
	var rows []core.Row
	for {
		row, ok, err := adp.FetchRow(res, mode)
		if err != nil {
			return nil, err
		}
		if !ok {
			return rows, nil
		}
		rows = append(rows, row)
	}
}

// renderResult prints rows for queries and the affected count otherwise.
func renderResult(cc *CommandContext, res *adapter.Result, mode core.FetchMode) error {
	if res.ReturnsRows() {
		rows, err := collectRows(cc.Adapter, res, mode)
		if err != nil {
			return err
		}
		return cc.Renderer.Rows(res.Columns(), rows, mode)
	}

	n, _, err := cc.Adapter.AffectedRows(res)
	if err != nil {
		return err
	}
	return cc.Renderer.Message(map[string]any{"affected_rows": n}, "%d row(s) affected", n)
}
