package sessioncfg

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdcreason/internal/reasonerr"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, StrategyDenseBinary, cfg.HdcStrategy)
	assert.Equal(t, PrioritySymbolic, cfg.ReasoningPriority)
}

func TestValidateRejectsUnknownStrategy(t *testing.T) {
	cfg := Default()
	cfg.HdcStrategy = "not-a-strategy"
	err := cfg.Validate()
	require.Error(t, err)
	var cfgErr *reasonerr.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidateRejectsNonPositiveGeometry(t *testing.T) {
	cfg := Default()
	cfg.Geometry = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownPriority(t *testing.T) {
	cfg := Default()
	cfg.ReasoningPriority = "quantum"
	assert.Error(t, cfg.Validate())
}

func TestFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("REASONER_HDC_STRATEGY", "exact")
	t.Setenv("REASONER_GEOMETRY", "512")
	t.Setenv("REASONER_PRIORITY", "holographic")
	t.Setenv("REASONER_CLOSED_WORLD", "true")
	t.Setenv("REASONER_AUDIT_SQLITE_PATH", "/tmp/audit.db")

	cfg := FromEnv()
	assert.Equal(t, StrategyExact, cfg.HdcStrategy)
	assert.Equal(t, 512, cfg.Geometry)
	assert.Equal(t, PriorityHolographic, cfg.ReasoningPriority)
	assert.True(t, cfg.ClosedWorldAssumption)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, "/tmp/audit.db", cfg.Audit.SQLitePath)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvLeavesDefaultsWhenUnset(t *testing.T) {
	for _, key := range []string{
		"REASONER_HDC_STRATEGY", "REASONER_GEOMETRY", "REASONER_PRIORITY",
		"REASONER_CLOSED_WORLD", "REASONER_AUDIT_SQLITE_PATH",
	} {
		os.Unsetenv(key)
	}
	cfg := FromEnv()
	assert.Equal(t, Default().HdcStrategy, cfg.HdcStrategy)
	assert.False(t, cfg.Audit.Enabled)
}
