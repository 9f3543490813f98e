package session

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// FileStore keeps all sessions in a single JSON object keyed by user id.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	// Touch file if not exists
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileStore{path: path}, nil
}

func (s *FileStore) Get(userID int64) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	states, err := s.loadUnlocked()
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	if st, ok := states[key(userID)]; ok {
		st.UserID = userID
		return st, nil
	}
	return Default(userID), nil
}

func (s *FileStore) Put(state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	states, err := s.loadUnlocked()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	states[key(state.UserID)] = state
	if err := s.saveUnlocked(states); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	return nil
}

func (s *FileStore) loadUnlocked() (map[string]State, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	states := make(map[string]State)
	dec := json.NewDecoder(f)
	if err := dec.Decode(&states); err != nil {
		if err == io.EOF {
			return states, nil
		}
		// malformed -> start fresh
		return make(map[string]State), nil
	}
	return states, nil
}

func (s *FileStore) saveUnlocked(states map[string]State) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(states)
}

func key(userID int64) string { return strconv.FormatInt(userID, 10) }
