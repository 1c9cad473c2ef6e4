package commands

import (
	"context"
	"testing"
	"time"

	"github.com/leapstack-labs/leapdb/internal/cli/config"
	"github.com/leapstack-labs/leapdb/internal/testutil"
	_ "github.com/leapstack-labs/leapdb/pkg/adapters/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorTargets(t *testing.T) {
	cfg := &config.Config{
		Environment: "dev",
		Target:      &config.TargetConfig{Type: "sqlite", Path: ":memory:"},
		Environments: map[string]config.EnvConfig{
			"prod":    {Target: &config.TargetConfig{Type: "postgres", Host: "db", Name: "app"}},
			"dev":     {},
			"staging": {Target: &config.TargetConfig{Path: "staging.db"}},
		},
	}

	targets, err := doctorTargets(cfg, false)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "dev", targets[0].env)

	targets, err = doctorTargets(cfg, true)
	require.NoError(t, err)
	require.Len(t, targets, 3)
	assert.Equal(t, "dev", targets[0].env)
	assert.Equal(t, "prod", targets[1].env)
	assert.Equal(t, "postgres", targets[1].target.Type)
	assert.Equal(t, 5432, targets[1].target.Port)
	assert.Equal(t, "staging", targets[2].env)
	assert.Equal(t, "sqlite", targets[2].target.Type)
	assert.Equal(t, "staging.db", targets[2].target.Path)
}

func TestCheckTarget(t *testing.T) {
	logger := testutil.NewTestLogger(t)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		check := checkTarget(ctx, doctorTarget{env: "dev", target: &config.TargetConfig{Type: "sqlite", Path: ":memory:"}}, time.Second, logger)
		assert.Equal(t, "ok", check.Status)
		assert.Empty(t, check.Detail)
		assert.NotEmpty(t, check.Elapsed)
	})

	t.Run("invalid target", func(t *testing.T) {
		check := checkTarget(ctx, doctorTarget{env: "prod", target: &config.TargetConfig{Type: "postgres", Host: "db"}}, time.Second, logger)
		assert.Equal(t, "error", check.Status)
		assert.Contains(t, check.Detail, "requires a database name")
		assert.NotEmpty(t, check.Elapsed)
	})

	t.Run("unknown type", func(t *testing.T) {
		check := checkTarget(ctx, doctorTarget{env: "x", target: &config.TargetConfig{Type: "oracle"}}, time.Second, logger)
		assert.Equal(t, "error", check.Status)
		assert.Contains(t, check.Detail, "unknown adapter type")
	})
}
