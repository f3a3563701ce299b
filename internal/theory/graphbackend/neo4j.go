// Package graphbackend implements an optional, durable store for the
// IS_A taxonomic lattice: a GraphBackend persists child/parent edges to
// Neo4j so a lattice survives process restarts, independent of the
// in-memory theory.Lattice a running session actually reasons over.
package graphbackend

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/config"

	"hdcreason/internal/types"
)

// Edge is one persisted "child IS_A parent" relationship.
type Edge struct {
	Child  types.Symbol
	Parent types.Symbol
}

// GraphBackend persists and reloads a taxonomic lattice. Implementations
// must tolerate being asked to save an edge that already exists (an
// idempotent upsert, since re-learning the same KB must not error).
type GraphBackend interface {
	SaveIsA(ctx context.Context, child, parent types.Symbol) error
	LoadLattice(ctx context.Context) ([]Edge, error)
	Close(ctx context.Context) error
}

// Config configures a connection to a Neo4j instance.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
	Timeout  time.Duration
}

// ConfigFromEnv reads NEO4J_URI, NEO4J_USERNAME, NEO4J_PASSWORD,
// NEO4J_DATABASE, NEO4J_TIMEOUT_MS, defaulting to a local instance.
func ConfigFromEnv() Config {
	cfg := Config{
		URI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Username: getEnv("NEO4J_USERNAME", "neo4j"),
		Password: getEnv("NEO4J_PASSWORD", "password"),
		Database: getEnv("NEO4J_DATABASE", "neo4j"),
		Timeout:  5 * time.Second,
	}
	if v := os.Getenv("NEO4J_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.Timeout = time.Duration(ms) * time.Millisecond
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Neo4jBackend is the GraphBackend implementation backed by the official
// Neo4j driver.
type Neo4jBackend struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jBackend opens a driver connection and verifies connectivity.
func NewNeo4jBackend(cfg Config) (*Neo4jBackend, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *config.Config) {
			c.MaxConnectionPoolSize = 50
			c.ConnectionAcquisitionTimeout = cfg.Timeout
			c.SocketConnectTimeout = cfg.Timeout
		},
	)
	if err != nil {
		return nil, fmt.Errorf("graphbackend: create driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("graphbackend: verify connectivity: %w", err)
	}

	return &Neo4jBackend{driver: driver, database: cfg.Database}, nil
}

// SaveIsA upserts a (:Concept {label: child})-[:IS_A]->(:Concept {label:
// parent}) edge. MERGE on both the nodes and the relationship makes this
// safe to call repeatedly for the same edge.
func (b *Neo4jBackend) SaveIsA(ctx context.Context, child, parent types.Symbol) error {
	session := b.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: b.database, AccessMode: neo4j.AccessModeWrite})
	defer func() { _ = session.Close(ctx) }()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		_, err := tx.Run(ctx, `
			MERGE (c:Concept {label: $child})
			MERGE (p:Concept {label: $parent})
			MERGE (c)-[:IS_A]->(p)
		`, map[string]interface{}{"child": string(child), "parent": string(parent)})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("graphbackend: save IS_A %s->%s: %w", child, parent, err)
	}
	return nil
}

// LoadLattice returns every persisted IS_A edge.
func (b *Neo4jBackend) LoadLattice(ctx context.Context) ([]Edge, error) {
	session := b.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: b.database, AccessMode: neo4j.AccessModeRead})
	defer func() { _ = session.Close(ctx) }()

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		res, err := tx.Run(ctx, `MATCH (c:Concept)-[:IS_A]->(p:Concept) RETURN c.label as child, p.label as parent`, nil)
		if err != nil {
			return nil, err
		}
		var edges []Edge
		for res.Next(ctx) {
			rec := res.Record()
			child, _ := rec.Values[0].(string)
			parent, _ := rec.Values[1].(string)
			edges = append(edges, Edge{Child: types.Symbol(child), Parent: types.Symbol(parent)})
		}
		return edges, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("graphbackend: load lattice: %w", err)
	}
	return result.([]Edge), nil
}

// Close closes the underlying driver.
func (b *Neo4jBackend) Close(ctx context.Context) error {
	return b.driver.Close(ctx)
}

var _ GraphBackend = (*Neo4jBackend)(nil)
