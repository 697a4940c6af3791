package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Store keeps the VINs a customer has saved, preserving the order they
// were added in. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	vins []string
	idx  map[string]struct{}
}

func NewStore() *Store {
	return &Store{
		idx: make(map[string]struct{}),
	}
}

// Add appends the VIN. Adding an existing VIN is a no-op and keeps its
// original position. Reports whether the VIN was newly added.
func (s *Store) Add(vin string) bool {
	if vin == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.idx[vin]; ok {
		return false
	}
	s.idx[vin] = struct{}{}
	s.vins = append(s.vins, vin)
	return true
}

func (s *Store) Remove(vin string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.idx[vin]; !ok {
		return false
	}
	delete(s.idx, vin)
	for i, v := range s.vins {
		if v == vin {
			s.vins = append(s.vins[:i], s.vins[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store) Contains(vin string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.idx[vin]
	return ok
}

// Toggle flips membership and reports whether the VIN is now saved.
func (s *Store) Toggle(vin string) bool {
	if s.Remove(vin) {
		return false
	}
	return s.Add(vin)
}

// List returns the saved VINs in insertion order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.vins))
	copy(out, s.vins)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vins)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vins = nil
	s.idx = make(map[string]struct{})
}

// Save writes the store as a JSON array.
func (s *Store) Save(w io.Writer) error {
	s.mu.RLock()
	vins := make([]string, len(s.vins))
	copy(vins, s.vins)
	s.mu.RUnlock()

	if vins == nil {
		vins = []string{}
	}
	return json.NewEncoder(w).Encode(vins)
}

// Load replaces the store contents with the JSON array read from r.
// Duplicates in the input are collapsed to their first occurrence.
func (s *Store) Load(r io.Reader) error {
	var vins []string
	if err := json.NewDecoder(r).Decode(&vins); err != nil {
		return fmt.Errorf("failed to decode favorites: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.vins = nil
	s.idx = make(map[string]struct{}, len(vins))
	for _, vin := range vins {
		if vin == "" {
			continue
		}
		if _, ok := s.idx[vin]; ok {
			continue
		}
		s.idx[vin] = struct{}{}
		s.vins = append(s.vins, vin)
	}
	return nil
}

// SaveFile persists the store to path, creating the file if needed.
func (s *Store) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create favorites file: %w", err)
	}
	defer f.Close()

	if err := s.Save(f); err != nil {
		return err
	}
	return f.Close()
}

// LoadFile restores the store from path. A missing file leaves the
// store empty and is not an error.
func (s *Store) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.Clear()
			return nil
		}
		return fmt.Errorf("failed to open favorites file: %w", err)
	}
	defer f.Close()

	return s.Load(f)
}
