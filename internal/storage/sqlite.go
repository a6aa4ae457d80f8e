//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"navcore/internal/model"
)

// SQLiteStore persists records in an embedded SQLite database. Payloads are
// stored as JSON blobs with the schema and codec versions broken out into
// columns so future migrations can filter without decoding.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("sqlite open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("sqlite ping: %w", err)
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS concept_models (
			name TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS learning_states (
			id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite create tables: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveConceptModel(ctx context.Context, m model.ConceptModel) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := EncodeConceptModel(m)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO concept_models (name, schema_version, codec_version, payload)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload`,
		m.Name, m.SchemaVersion, m.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetConceptModel(ctx context.Context, name string) (model.ConceptModel, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.ConceptModel{}, false, err
	}
	var payload []byte
	err = db.QueryRowContext(ctx,
		`SELECT payload FROM concept_models WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ConceptModel{}, false, nil
	}
	if err != nil {
		return model.ConceptModel{}, false, err
	}
	m, err := DecodeConceptModel(payload)
	if err != nil {
		return model.ConceptModel{}, false, fmt.Errorf("decode concept model %s: %w", name, err)
	}
	return m, true, nil
}

func (s *SQLiteStore) SaveLearningState(ctx context.Context, state model.LearningState) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := EncodeLearningState(state)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO learning_states (id, schema_version, codec_version, payload)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload`,
		state.ID, state.SchemaVersion, state.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetLearningState(ctx context.Context, id string) (model.LearningState, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.LearningState{}, false, err
	}
	var payload []byte
	err = db.QueryRowContext(ctx,
		`SELECT payload FROM learning_states WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LearningState{}, false, nil
	}
	if err != nil {
		return model.LearningState{}, false, err
	}
	state, err := DecodeLearningState(payload)
	if err != nil {
		return model.LearningState{}, false, fmt.Errorf("decode learning state %s: %w", id, err)
	}
	return state, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}
