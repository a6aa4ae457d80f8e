package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"navcore/internal/model"
)

var (
	bucketConcepts = []byte("concepts")
	bucketLearning = []byte("learning")
)

// BoltStore persists records in an embedded bbolt database, one bucket per
// record kind, JSON payloads keyed by record name. Writes are transactional.
type BoltStore struct {
	path string

	mu sync.RWMutex
	db *bolt.DB
}

func NewBoltStore(path string) *BoltStore {
	return &BoltStore{path: path}
}

func (s *BoltStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("bolt path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := bolt.Open(s.path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return fmt.Errorf("bolt open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketConcepts); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketLearning)
		return err
	})
	if err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *BoltStore) SaveConceptModel(_ context.Context, m model.ConceptModel) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := EncodeConceptModel(m)
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketConcepts).Put([]byte(m.Name), payload)
	})
}

func (s *BoltStore) GetConceptModel(_ context.Context, name string) (model.ConceptModel, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.ConceptModel{}, false, err
	}
	var payload []byte
	err = db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(bucketConcepts).Get([]byte(name)); data != nil {
			payload = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil {
		return model.ConceptModel{}, false, err
	}
	if payload == nil {
		return model.ConceptModel{}, false, nil
	}
	m, err := DecodeConceptModel(payload)
	if err != nil {
		return model.ConceptModel{}, false, fmt.Errorf("decode concept model %s: %w", name, err)
	}
	return m, true, nil
}

func (s *BoltStore) SaveLearningState(_ context.Context, state model.LearningState) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := EncodeLearningState(state)
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLearning).Put([]byte(state.ID), payload)
	})
}

func (s *BoltStore) GetLearningState(_ context.Context, id string) (model.LearningState, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.LearningState{}, false, err
	}
	var payload []byte
	err = db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(bucketLearning).Get([]byte(id)); data != nil {
			payload = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil {
		return model.LearningState{}, false, err
	}
	if payload == nil {
		return model.LearningState{}, false, nil
	}
	state, err := DecodeLearningState(payload)
	if err != nil {
		return model.LearningState{}, false, fmt.Errorf("decode learning state %s: %w", id, err)
	}
	return state, true, nil
}

func (s *BoltStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *BoltStore) getDB() (*bolt.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}
