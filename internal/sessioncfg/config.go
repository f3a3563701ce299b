// Package sessioncfg provides configuration for the reasoning session:
// environment-variable loading, defaults, and validation, in an
// env-then-validate shape (§10.2).
package sessioncfg

import (
	"os"
	"strconv"
	"strings"

	"hdcreason/internal/reasonerr"
	"hdcreason/internal/storage"
)

// HdcStrategy names one of the five registered vector algebras (§3).
type HdcStrategy string

const (
	StrategyDenseBinary         HdcStrategy = "dense-binary"
	StrategySparsePolynomial    HdcStrategy = "sparse-polynomial"
	StrategyMetricAffine        HdcStrategy = "metric-affine"
	StrategyMetricAffineElastic HdcStrategy = "metric-affine-elastic"
	StrategyExact               HdcStrategy = "exact"
)

var validStrategies = map[HdcStrategy]bool{
	StrategyDenseBinary:         true,
	StrategySparsePolynomial:    true,
	StrategyMetricAffine:        true,
	StrategyMetricAffineElastic: true,
	StrategyExact:               true,
}

// ReasoningPriority selects the symbolic-first or holographic-first proof
// strategy (§4.7.3).
type ReasoningPriority string

const (
	PrioritySymbolic    ReasoningPriority = "symbolic"
	PriorityHolographic ReasoningPriority = "holographic"
)

// AuditConfig configures the audit sink (§4.3, §7 StorageError).
type AuditConfig struct {
	// Enabled turns on SQLite-backed audit persistence. When false the
	// session uses the default in-memory sink.
	Enabled    bool
	SQLitePath string
}

// Config is the complete Session config (§3's "Session config" struct,
// expanded with a storage and audit sub-config per §10.2).
type Config struct {
	HdcStrategy           HdcStrategy
	Geometry              int
	ReasoningPriority     ReasoningPriority
	ReasoningProfile      string
	ClosedWorldAssumption bool
	RejectContradictions  bool

	Storage storage.Config
	Audit   AuditConfig
}

// Default returns the baseline session configuration: dense-binary
// strategy, 10000-dimensional geometry, symbolic-first reasoning, open
// world assumption, contradictions accepted (not rejected), in-memory
// storage and audit sink.
func Default() Config {
	return Config{
		HdcStrategy:           StrategyDenseBinary,
		Geometry:              10000,
		ReasoningPriority:     PrioritySymbolic,
		ReasoningProfile:      "default",
		ClosedWorldAssumption: false,
		RejectContradictions:  false,
		Storage:               storage.DefaultConfig(),
		Audit:                 AuditConfig{Enabled: false},
	}
}

// FromEnv reads REASONER_HDC_STRATEGY, REASONER_GEOMETRY,
// REASONER_PRIORITY, REASONER_REASONING_PROFILE, REASONER_CLOSED_WORLD,
// REASONER_REJECT_CONTRADICTIONS, REASONER_AUDIT_SQLITE_PATH over
// Default(), plus storage.ConfigFromEnv()'s REASONER_STORAGE_TYPE /
// REASONER_SQLITE_PATH / REASONER_SQLITE_TIMEOUT / REASONER_STORAGE_FALLBACK.
func FromEnv() Config {
	cfg := Default()
	cfg.Storage = storage.ConfigFromEnv()

	if v := os.Getenv("REASONER_HDC_STRATEGY"); v != "" {
		cfg.HdcStrategy = HdcStrategy(v)
	}
	if v := os.Getenv("REASONER_GEOMETRY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Geometry = n
		}
	}
	if v := os.Getenv("REASONER_PRIORITY"); v != "" {
		cfg.ReasoningPriority = ReasoningPriority(v)
	}
	if v := os.Getenv("REASONER_REASONING_PROFILE"); v != "" {
		cfg.ReasoningProfile = v
	}
	if v := os.Getenv("REASONER_CLOSED_WORLD"); v != "" {
		cfg.ClosedWorldAssumption = parseBool(v)
	}
	if v := os.Getenv("REASONER_REJECT_CONTRADICTIONS"); v != "" {
		cfg.RejectContradictions = parseBool(v)
	}
	if v := os.Getenv("REASONER_AUDIT_SQLITE_PATH"); v != "" {
		cfg.Audit.Enabled = true
		cfg.Audit.SQLitePath = v
	}

	return cfg
}

// Validate checks every enumerated option against its recognised set
// (§3). An invalid config is a *reasonerr.ConfigError; session
// construction treats this as fatal (§10.2).
func (c Config) Validate() error {
	if !validStrategies[c.HdcStrategy] {
		return &reasonerr.ConfigError{Msg: "unrecognised hdcStrategy: " + string(c.HdcStrategy)}
	}
	if c.Geometry <= 0 {
		return &reasonerr.ConfigError{Msg: "geometry must be positive"}
	}
	if c.ReasoningPriority != PrioritySymbolic && c.ReasoningPriority != PriorityHolographic {
		return &reasonerr.ConfigError{Msg: "unrecognised reasoningPriority: " + string(c.ReasoningPriority)}
	}
	if c.Storage.Type != storage.StorageTypeMemory && c.Storage.Type != storage.StorageTypeSQLite {
		return &reasonerr.ConfigError{Msg: "unrecognised storage type: " + string(c.Storage.Type)}
	}
	return nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on" || s == "enabled"
}
