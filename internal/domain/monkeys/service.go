package monkeys

import (
	"context"
	"fmt"
)

// Service orquesta las reglas independientes del backend: validación
// de modelo, unicidad (name, species) y delegación al Repository.
// Ningún registro parcialmente inválido llega a un store.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ensureUnique falla con ErrDuplicateName si otro registro (distinto
// de excludeID) ya usa el par (name, species).
func (s *Service) ensureUnique(ctx context.Context, name, species, excludeID string) error {
	existing, found, err := s.repo.FindByNameSpecies(ctx, name, species)
	if err != nil {
		return err
	}
	if found && existing.MonkeyID != excludeID {
		return ErrDuplicateName
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Monkey, error) {
	m, err := New(in)
	if err != nil {
		return Monkey{}, err
	}
	if err := s.ensureUnique(ctx, m.Name, string(m.Species), ""); err != nil {
		return Monkey{}, err
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id string) (Monkey, bool, error) {
	return s.repo.Get(ctx, id)
}

// Update carga el registro actual, aplica el patch vía modelo
// (re-validación completa, no solo de los campos tocados) y persiste
// el resultado entero para que timestamps y derivados queden
// consistentes. Nunca manda un patch a medio validar al store.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Monkey, bool, error) {
	current, found, err := s.repo.Get(ctx, id)
	if err != nil || !found {
		return Monkey{}, found, err
	}

	merged, err := ApplyUpdates(current, in)
	if err != nil {
		return Monkey{}, true, err
	}

	if err := s.ensureUnique(ctx, merged.Name, string(merged.Species), id); err != nil {
		return Monkey{}, true, err
	}

	updated, found, err := s.repo.Update(ctx, id, merged.AsPartial())
	if err != nil {
		return Monkey{}, true, fmt.Errorf("persist update: %w", err)
	}
	return updated, found, nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Monkey, error) {
	return s.repo.List(ctx, f)
}

// Search devuelve vacío ante query vacía (no "todo").
func (s *Service) Search(ctx context.Context, query string) ([]Monkey, error) {
	return s.repo.Search(ctx, query)
}
