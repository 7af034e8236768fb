// Package memory implementa el Repository sobre un map en memoria.
// Sirve para desarrollo sin backend real y como fake en tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"monkey-registry/internal/domain/monkeys"
)

type monkeyRepo struct {
	mu   sync.RWMutex
	byID map[string]monkeys.Monkey
}

func NewMonkeyRepo() monkeys.Repository {
	return &monkeyRepo{
		byID: make(map[string]monkeys.Monkey),
	}
}

func (r *monkeyRepo) Create(ctx context.Context, m monkeys.Monkey) (monkeys.Monkey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.MonkeyID) == "" {
		return monkeys.Monkey{}, monkeys.ErrValidation
	}
	if _, exists := r.byID[m.MonkeyID]; exists {
		return monkeys.Monkey{}, monkeys.ErrAlreadyExists
	}
	r.byID[m.MonkeyID] = m
	return m, nil
}

func (r *monkeyRepo) Get(ctx context.Context, id string) (monkeys.Monkey, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	return m, ok, nil
}

func (r *monkeyRepo) Update(ctx context.Context, id string, p monkeys.Partial) (monkeys.Monkey, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return monkeys.Monkey{}, false, nil
	}
	merged := current.Merge(p)
	r.byID[id] = merged
	return merged, true, nil
}

func (r *monkeyRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *monkeyRepo) List(ctx context.Context, f monkeys.ListFilter) ([]monkeys.Monkey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]monkeys.Monkey, 0)
	for _, m := range r.byID {
		if m.MatchesFilter(f) {
			out = append(out, m)
		}
	}
	sortByCreated(out)
	return out, nil
}

func (r *monkeyRepo) Search(ctx context.Context, query string) ([]monkeys.Monkey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]monkeys.Monkey, 0)
	for _, m := range r.byID {
		if m.MatchesQuery(query) {
			out = append(out, m)
		}
	}
	sortByCreated(out)
	return out, nil
}

func (r *monkeyRepo) FindByNameSpecies(ctx context.Context, name, species string) (monkeys.Monkey, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.byID {
		if m.SameNameSpecies(name, species) {
			return m, true, nil
		}
	}
	return monkeys.Monkey{}, false, nil
}
