package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Timeout time.Duration
	All     bool
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check connectivity to configured targets",
		Long: `Connect to the active target, run SELECT 1 and report the outcome.

With --all every environment in the config file is checked concurrently.
The command fails when any check fails.`,
		Example: `  # Check the active environment
  leapdb doctor

  # Check every environment
  leapdb doctor --all -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "Per-target timeout")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Check every configured environment")

	return cmd
}

// TargetCheck is the outcome of one connectivity check.
type TargetCheck struct {
	Environment string `json:"environment"`
	Type        string `json:"type"`
	Status      string `json:"status"` // "ok", "unavailable", "error"
	Detail      string `json:"detail,omitempty"`
	Elapsed     string `json:"elapsed"`
}

type doctorTarget struct {
	env    string
	target *config.TargetConfig
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	ctx := cmd.Context()
	cfg, ok := config.FromContext(ctx)
	if !ok {
		return errNoConfig
	}
	mode, err := ParseOutputMode(cfg.OutputFormat)
	if err != nil {
		return err
	}
	r := NewRenderer(cmd.OutOrStdout(), mode)
	logger := config.GetLogger(ctx)

	targets, err := doctorTargets(cfg, opts.All)
	if err != nil {
		return err
	}

	checks := make([]TargetCheck, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, dt := range targets {
		g.Go(func() error {
			checks[i] = checkTarget(gctx, dt, opts.Timeout, logger)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, c := range checks {
		if c.Status != "ok" {
			failed++
		}
	}

	if r.EffectiveMode() == ModeJSON {
		if err := r.JSON(checks); err != nil {
			return err
		}
	} else {
		rows := make([][]any, len(checks))
		for i, c := range checks {
			rows[i] = []any{c.Environment, c.Type, c.Status, c.Elapsed, c.Detail}
		}
		if err := r.Table([]string{"environment", "type", "status", "elapsed", "detail"}, rows); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d target checks failed", failed, len(checks))
	}
	return nil
}

// doctorTargets lists the targets to check, the active one first.
func doctorTargets(cfg *config.Config, all bool) ([]doctorTarget, error) {
	targets := []doctorTarget{{env: cfg.Environment, target: cfg.Target}}
	if !all {
		return targets, nil
	}

	names := make([]string, 0, len(cfg.Environments))
	for name := range cfg.Environments {
		if name != cfg.Environment {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		t, err := cfg.ResolveTarget(name)
		if err != nil {
			return nil, err
		}
		targets = append(targets, doctorTarget{env: name, target: t})
	}
	return targets, nil
}

func checkTarget(ctx context.Context, dt doctorTarget, timeout time.Duration, logger *slog.Logger) (check TargetCheck) {
	check = TargetCheck{Environment: dt.env, Type: dt.target.Type, Status: "ok"}
	start := time.Now()
	defer func() { check.Elapsed = time.Since(start).Round(time.Millisecond).String() }()

	if err := pingTarget(ctx, dt.target, timeout, logger); err != nil {
		check.Status = "error"
		if errors.Is(err, adapter.ErrDriverUnavailable) {
			check.Status = "unavailable"
		}
		check.Detail = err.Error()
		logger.Debug("target check failed", slog.String("environment", dt.env), slog.String("error", err.Error()))
	}
	return check
}

func pingTarget(ctx context.Context, t *config.TargetConfig, timeout time.Duration, logger *slog.Logger) error {
	if err := config.ValidateTarget(t); err != nil {
		return err
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cfg := t.ToAdapterConfig()
	adp, err := adapter.NewAdapter(cfg, logger)
	if err != nil {
		return err
	}
	if err := adp.Connect(ctx, cfg); err != nil {
		return err
	}
	defer func() { _, _ = adp.Close() }()

	_, err = adp.Execute(ctx, "SELECT 1")
	return err
}
