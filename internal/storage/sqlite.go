// Package storage provides SQLite persistent storage for the concept
// store: an in-memory ConceptStore as a write-through cache backed by a
// SQLite database, the same cache-plus-durable-backend split the
// teacher's SQLiteStorage uses for thoughts and branches.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"hdcreason/internal/types"
)

// SQLiteConceptStore implements Storage with SQLite-backed durability and
// an in-memory cache for fast reads.
type SQLiteConceptStore struct {
	db    *sql.DB
	cache *ConceptStore
}

// NewSQLiteConceptStore opens (creating if necessary) a SQLite database at
// dbPath, initializes its schema, and warms the in-memory cache from it.
func NewSQLiteConceptStore(dbPath string, timeoutMs int, emitter AuditEmitter) (*SQLiteConceptStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("storage: database path cannot be empty")
	}

	dsn := dbPath + fmt.Sprintf("?_busy_timeout=%d", timeoutMs)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: failed to ping database: %w", err)
	}
	if err := configureSQLite(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: failed to configure SQLite: %w", err)
	}
	if err := initializeSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: failed to initialize schema: %w", err)
	}

	s := &SQLiteConceptStore{db: db, cache: NewConceptStore(emitter)}
	if err := s.warmCache(); err != nil {
		return nil, fmt.Errorf("storage: failed to warm cache: %w", err)
	}
	return s, nil
}

func (s *SQLiteConceptStore) warmCache() error {
	rows, err := s.db.Query(`SELECT subject, relation, object, id, extra, existence, deleted, created_at, updated_at FROM facts`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var subj, rel, obj, id, extraJSON string
		var existence int
		var deletedInt int
		var createdAt, updatedAt int64
		if err := rows.Scan(&subj, &rel, &obj, &id, &extraJSON, &existence, &deletedInt, &createdAt, &updatedAt); err != nil {
			return err
		}
		f := &types.Fact{
			ID: id, Subject: types.Symbol(subj), Relation: types.Symbol(rel), Object: types.Symbol(obj),
			Existence: types.Existence(existence), Deleted: deletedInt != 0,
			CreatedAt: time.Unix(createdAt, 0), UpdatedAt: time.Unix(updatedAt, 0),
		}
		if extraJSON != "" {
			var extra []string
			if err := json.Unmarshal([]byte(extraJSON), &extra); err == nil {
				for _, e := range extra {
					f.Extra = append(f.Extra, types.Symbol(e))
				}
			}
		}
		s.cache.facts[f.Key()] = f
	}

	protRows, err := s.db.Query(`SELECT label FROM protected_concepts`)
	if err != nil {
		return err
	}
	defer protRows.Close()
	for protRows.Next() {
		var label string
		if err := protRows.Scan(&label); err != nil {
			return err
		}
		s.cache.protect[types.Symbol(label)] = true
	}
	return nil
}

func (s *SQLiteConceptStore) persistFact(f *types.Fact) error {
	extraJSON := "[]"
	if len(f.Extra) > 0 {
		strs := make([]string, len(f.Extra))
		for i, e := range f.Extra {
			strs[i] = string(e)
		}
		b, _ := json.Marshal(strs)
		extraJSON = string(b)
	}
	deleted := 0
	if f.Deleted {
		deleted = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO facts (subject, relation, object, id, extra, existence, deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(subject, relation, object) DO UPDATE SET
		   existence=excluded.existence, deleted=excluded.deleted, updated_at=excluded.updated_at`,
		string(f.Subject), string(f.Relation), string(f.Object), f.ID, extraJSON,
		int(f.Existence), deleted, f.CreatedAt.Unix(), f.UpdatedAt.Unix(),
	)
	return err
}

func (s *SQLiteConceptStore) AddFact(f *types.Fact) (*types.Fact, error) {
	stored, err := s.cache.AddFact(f)
	if err != nil {
		return nil, err
	}
	if err := s.persistFact(stored); err != nil {
		return nil, fmt.Errorf("storage: failed to persist fact: %w", err)
	}
	return stored, nil
}

func (s *SQLiteConceptStore) RemoveFact(key types.FactKey) error {
	if err := s.cache.RemoveFact(key); err != nil {
		return err
	}
	f, _ := s.cache.GetFact(key)
	if f == nil {
		f = &types.Fact{Subject: key.Subject, Relation: key.Relation, Object: key.Object, Deleted: true, UpdatedAt: time.Now()}
	}
	return s.persistFact(f)
}

func (s *SQLiteConceptStore) UpgradeExistence(key types.FactKey, e types.Existence) (*types.Fact, error) {
	f, err := s.cache.UpgradeExistence(key, e)
	if err != nil {
		return nil, err
	}
	if err := s.persistFact(f); err != nil {
		return nil, fmt.Errorf("storage: failed to persist existence upgrade: %w", err)
	}
	return f, nil
}

func (s *SQLiteConceptStore) GetFact(key types.FactKey) (*types.Fact, bool) {
	return s.cache.GetFact(key)
}
func (s *SQLiteConceptStore) GetFactsBySubject(subject types.Symbol) []*types.Fact {
	return s.cache.GetFactsBySubject(subject)
}
func (s *SQLiteConceptStore) GetFactsBySubjectAndRelation(subject, relation types.Symbol, minExistence types.Existence) []*types.Fact {
	return s.cache.GetFactsBySubjectAndRelation(subject, relation, minExistence)
}
func (s *SQLiteConceptStore) GetFactsByExistence(min types.Existence) []*types.Fact {
	return s.cache.GetFactsByExistence(min)
}
func (s *SQLiteConceptStore) GetBestExistenceFact(subject, relation types.Symbol, object *types.Symbol) (*types.Fact, bool) {
	return s.cache.GetBestExistenceFact(subject, relation, object)
}
func (s *SQLiteConceptStore) SnapshotFacts() []*types.Fact { return s.cache.SnapshotFacts() }
func (s *SQLiteConceptStore) RestoreFacts(facts []*types.Fact) {
	s.cache.RestoreFacts(facts)
	for _, f := range facts {
		_ = s.persistFact(f)
	}
}

func (s *SQLiteConceptStore) EnsureConcept(label types.Symbol) *types.Concept {
	return s.cache.EnsureConcept(label)
}
func (s *SQLiteConceptStore) UpsertConcept(c *types.Concept) { s.cache.UpsertConcept(c) }
func (s *SQLiteConceptStore) GetConcept(label types.Symbol) (*types.Concept, bool) {
	return s.cache.GetConcept(label)
}
func (s *SQLiteConceptStore) RecordUsage(label types.Symbol, kind UsageKind) {
	s.cache.RecordUsage(label, kind)
}
func (s *SQLiteConceptStore) BoostUsage(label types.Symbol, amount int) {
	s.cache.BoostUsage(label, amount)
}
func (s *SQLiteConceptStore) GetConceptsByUsage(limit int) []*types.Concept {
	return s.cache.GetConceptsByUsage(limit)
}

func (s *SQLiteConceptStore) Protect(label types.Symbol) {
	s.cache.Protect(label)
	_, _ = s.db.Exec(`INSERT OR IGNORE INTO protected_concepts (label) VALUES (?)`, string(label))
}
func (s *SQLiteConceptStore) Unprotect(label types.Symbol) {
	s.cache.Unprotect(label)
	_, _ = s.db.Exec(`DELETE FROM protected_concepts WHERE label = ?`, string(label))
}
func (s *SQLiteConceptStore) IsProtected(label types.Symbol) bool { return s.cache.IsProtected(label) }
func (s *SQLiteConceptStore) ListProtected() []types.Symbol       { return s.cache.ListProtected() }

// Forget delegates to the cache and persists every newly soft-deleted fact.
// A dry run never touches the database, matching the cache's own no-op.
func (s *SQLiteConceptStore) Forget(opts ForgetOptions) (int, error) {
	before := s.cache.SnapshotFacts()
	wasDeleted := make(map[types.FactKey]bool, len(before))
	for _, f := range before {
		wasDeleted[f.Key()] = f.Deleted
	}

	n, err := s.cache.Forget(opts)
	if err != nil || opts.DryRun {
		return n, err
	}

	for _, f := range s.cache.SnapshotFacts() {
		if f.Deleted && !wasDeleted[f.Key()] {
			if perr := s.persistFact(f); perr != nil {
				return n, fmt.Errorf("storage: failed to persist forgotten fact: %w", perr)
			}
		}
	}
	return n, nil
}

func (s *SQLiteConceptStore) GetMetrics() *Metrics { return s.cache.GetMetrics() }

// Close releases the underlying database handle.
func (s *SQLiteConceptStore) Close() error {
	return s.db.Close()
}

var _ Storage = (*SQLiteConceptStore)(nil)
