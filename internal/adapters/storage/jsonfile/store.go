// Package jsonfile implementa el Repository sobre un único archivo
// json: el dataset completo es un array serializado y cada mutación es
// un ciclo read-modify-write del snapshot entero.
//
// Limitación documentada: no hay protección entre procesos. Dos
// escritores concurrentes pueden pisarse un cambio (lost update). El
// mutex solo serializa dentro del proceso. Para multi-writer usar el
// backend remoto o serializar afuera.
package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"monkey-registry/internal/domain/monkeys"
)

const DefaultPath = "data/monkeys.json"

type Store struct {
	mu   sync.Mutex
	path string
}

// New crea el directorio padre y siembra un array vacío si el archivo
// no existe todavía.
func New(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, err
		}
	}
	return &Store{path: path}, nil
}

// loadAll lee el snapshot completo. Un archivo corrupto se trata como
// dataset vacío (recuperación leniente, sin warning).
func (s *Store) loadAll() ([]monkeys.Monkey, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []monkeys.Monkey{}, nil
		}
		return nil, err
	}

	var items []monkeys.Monkey
	if err := json.Unmarshal(raw, &items); err != nil {
		return []monkeys.Monkey{}, nil
	}
	if items == nil {
		items = []monkeys.Monkey{}
	}
	return items, nil
}

func (s *Store) saveAll(items []monkeys.Monkey) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

func (s *Store) Create(ctx context.Context, m monkeys.Monkey) (monkeys.Monkey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadAll()
	if err != nil {
		return monkeys.Monkey{}, err
	}
	for _, it := range items {
		if it.MonkeyID == m.MonkeyID {
			return monkeys.Monkey{}, monkeys.ErrAlreadyExists
		}
	}
	items = append(items, m)
	if err := s.saveAll(items); err != nil {
		return monkeys.Monkey{}, err
	}
	return m, nil
}

func (s *Store) Get(ctx context.Context, id string) (monkeys.Monkey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadAll()
	if err != nil {
		return monkeys.Monkey{}, false, err
	}
	for _, it := range items {
		if it.MonkeyID == id {
			return it, true, nil
		}
	}
	return monkeys.Monkey{}, false, nil
}

func (s *Store) Update(ctx context.Context, id string, p monkeys.Partial) (monkeys.Monkey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadAll()
	if err != nil {
		return monkeys.Monkey{}, false, err
	}
	for i, it := range items {
		if it.MonkeyID != id {
			continue
		}
		merged := it.Merge(p)
		items[i] = merged
		if err := s.saveAll(items); err != nil {
			return monkeys.Monkey{}, false, err
		}
		return merged, true, nil
	}
	return monkeys.Monkey{}, false, nil
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadAll()
	if err != nil {
		return false, err
	}
	kept := items[:0:0]
	for _, it := range items {
		if it.MonkeyID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	if err := s.saveAll(kept); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) List(ctx context.Context, f monkeys.ListFilter) ([]monkeys.Monkey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	out := make([]monkeys.Monkey, 0, len(items))
	for _, it := range items {
		if it.MatchesFilter(f) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *Store) Search(ctx context.Context, query string) ([]monkeys.Monkey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	out := make([]monkeys.Monkey, 0)
	for _, it := range items {
		if it.MatchesQuery(query) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *Store) FindByNameSpecies(ctx context.Context, name, species string) (monkeys.Monkey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadAll()
	if err != nil {
		return monkeys.Monkey{}, false, err
	}
	for _, it := range items {
		if it.SameNameSpecies(name, species) {
			return it, true, nil
		}
	}
	return monkeys.Monkey{}, false, nil
}
