package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"navcore/internal/model"
)

// FileStore persists records as JSON files under a root directory, one file
// per record. Writes go through a temp file and rename so a crash mid-write
// never corrupts the previous state.
type FileStore struct {
	root string

	mu          sync.Mutex
	initialized bool
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.root == "" {
		return errors.New("file store root is required")
	}
	for _, dir := range []string{s.conceptsDir(), s.learningDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	s.initialized = true
	return nil
}

func (s *FileStore) SaveConceptModel(_ context.Context, m model.ConceptModel) error {
	if err := s.checkInitialized(); err != nil {
		return err
	}
	payload, err := EncodeConceptModel(m)
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(s.conceptsDir(), m.Name+".json"), payload)
}

func (s *FileStore) GetConceptModel(_ context.Context, name string) (model.ConceptModel, bool, error) {
	if err := s.checkInitialized(); err != nil {
		return model.ConceptModel{}, false, err
	}
	data, err := os.ReadFile(filepath.Join(s.conceptsDir(), name+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.ConceptModel{}, false, nil
		}
		return model.ConceptModel{}, false, err
	}
	m, err := DecodeConceptModel(data)
	if err != nil {
		return model.ConceptModel{}, false, fmt.Errorf("decode concept model %s: %w", name, err)
	}
	return m, true, nil
}

func (s *FileStore) SaveLearningState(_ context.Context, state model.LearningState) error {
	if err := s.checkInitialized(); err != nil {
		return err
	}
	payload, err := EncodeLearningState(state)
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(s.learningDir(), state.ID+".json"), payload)
}

func (s *FileStore) GetLearningState(_ context.Context, id string) (model.LearningState, bool, error) {
	if err := s.checkInitialized(); err != nil {
		return model.LearningState{}, false, err
	}
	data, err := os.ReadFile(filepath.Join(s.learningDir(), id+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.LearningState{}, false, nil
		}
		return model.LearningState{}, false, err
	}
	state, err := DecodeLearningState(data)
	if err != nil {
		return model.LearningState{}, false, fmt.Errorf("decode learning state %s: %w", id, err)
	}
	return state, true, nil
}

func (s *FileStore) conceptsDir() string {
	return filepath.Join(s.root, "concepts")
}

func (s *FileStore) learningDir() string {
	return filepath.Join(s.root, "learning")
}

func (s *FileStore) checkInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	return nil
}

func writeAtomic(path string, payload []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
