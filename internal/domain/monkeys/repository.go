package monkeys

import (
	"context"
	"strings"
)

// ListFilter filtra por especie (match exacto, case-insensitive) y
// nombre (substring, case-insensitive). Vacío = sin filtro.
type ListFilter struct {
	Name    string
	Species string
}

// Partial es el patch que reciben los backends en Update: los campos
// no nil pisan el valor almacenado. El servicio siempre manda el
// registro completo ya validado; un caller directo puede mandar menos
// (el store no re-valida, esa regla vive en el servicio).
type Partial struct {
	Name           *string
	Species        *string
	AgeYears       *int
	FavouriteFruit *string
	LastCheckupAt  *string
	UpdatedAt      *string
}

// Repository es el contrato que todos los backends implementan con
// semántica idéntica (jsonfile, dynamo, postgres, memory).
// La ausencia no es error: Get/Update devuelven found=false y Delete
// devuelve false si el id no existía.
type Repository interface {
	Create(ctx context.Context, m Monkey) (Monkey, error)
	Get(ctx context.Context, id string) (Monkey, bool, error)
	Update(ctx context.Context, id string, p Partial) (Monkey, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f ListFilter) ([]Monkey, error)
	Search(ctx context.Context, query string) ([]Monkey, error)
	FindByNameSpecies(ctx context.Context, name, species string) (Monkey, bool, error)
}

// AsPartial arma un Partial con todos los campos del registro. Lo usa
// el servicio para persistir el resultado completo de un update.
func (m Monkey) AsPartial() Partial {
	name := m.Name
	species := string(m.Species)
	age := m.AgeYears
	fruit := m.FavouriteFruit
	checkup := m.LastCheckupAt
	updated := m.UpdatedAt
	return Partial{
		Name:           &name,
		Species:        &species,
		AgeYears:       &age,
		FavouriteFruit: &fruit,
		LastCheckupAt:  &checkup,
		UpdatedAt:      &updated,
	}
}

// Merge aplica los campos no nil del patch sin validar. Es el paso
// común de los backends read-modify-write.
func (m Monkey) Merge(p Partial) Monkey {
	out := m
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Species != nil {
		out.Species = Species(*p.Species)
	}
	if p.AgeYears != nil {
		out.AgeYears = *p.AgeYears
	}
	if p.FavouriteFruit != nil {
		out.FavouriteFruit = *p.FavouriteFruit
	}
	if p.LastCheckupAt != nil {
		out.LastCheckupAt = *p.LastCheckupAt
	}
	if p.UpdatedAt != nil {
		out.UpdatedAt = *p.UpdatedAt
	}
	return out
}

// MatchesFilter implementa la semántica de List compartida por los
// backends que filtran del lado del cliente.
func (m Monkey) MatchesFilter(f ListFilter) bool {
	name := strings.ToLower(strings.TrimSpace(f.Name))
	species := strings.ToLower(strings.TrimSpace(f.Species))

	if name != "" && !strings.Contains(strings.ToLower(m.Name), name) {
		return false
	}
	if species != "" && species != strings.ToLower(string(m.Species)) {
		return false
	}
	return true
}

// MatchesQuery implementa la semántica de Search: substring sobre
// nombre O especie, case-insensitive. El caller ya descartó query vacía.
func (m Monkey) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(m.Name), q) ||
		strings.Contains(strings.ToLower(string(m.Species)), q)
}

// SameNameSpecies compara (name, species) case-insensitive tras trim.
// Se usa para el chequeo de unicidad.
func (m Monkey) SameNameSpecies(name, species string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	s := strings.ToLower(strings.TrimSpace(species))
	return n == strings.ToLower(strings.TrimSpace(m.Name)) &&
		s == strings.ToLower(string(m.Species))
}
