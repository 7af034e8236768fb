package monkeys

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Species define las especies soportadas.
// @Enum capuchin, macaque, marmoset, howler
type Species string

const (
	SpeciesCapuchin Species = "capuchin"
	SpeciesMacaque  Species = "macaque"
	SpeciesMarmoset Species = "marmoset"
	SpeciesHowler   Species = "howler"
)

const (
	minNameLen = 2
	maxNameLen = 40

	maxAge = 45
	// Los marmosets tienen un tope de edad más bajo.
	maxAgeMarmoset = 22
)

// isoSeconds es el formato de timestamps persistidos: iso8601 con
// precisión de segundos, hora local sin zona.
const isoSeconds = "2006-01-02T15:04:05"

// now es reemplazable en tests para controlar timestamps.
var now = time.Now

// Monkey representa un registro del registro de monos. Los tags json
// definen también el formato de archivo/export (objeto plano).
type Monkey struct {
	MonkeyID       string  `json:"monkey_id"`
	Name           string  `json:"name"`
	Species        Species `json:"species"`
	AgeYears       int     `json:"age_years"`
	FavouriteFruit string  `json:"favourite_fruit"`
	LastCheckupAt  string  `json:"last_checkup_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// CreateInput es la entrada de alta. MonkeyID/CreatedAt/UpdatedAt son
// opcionales: si vienen vacíos se generan (el import los trae del archivo).
type CreateInput struct {
	Name           string
	Species        string
	AgeYears       int
	FavouriteFruit string
	LastCheckupAt  string

	MonkeyID  string
	CreatedAt string
	UpdatedAt string
}

// UpdateInput es un patch parcial: nil (o string vacío) = no tocar.
// No se permite limpiar campos desde acá; coincide con el contrato
// de merge parcial del servicio.
type UpdateInput struct {
	Name           *string
	Species        *string
	AgeYears       *int
	FavouriteFruit *string
	LastCheckupAt  *string
}

// NewID genera ids con el esquema monkey_<8 hex de un uuid v4>.
func NewID() string {
	u := uuid.New()
	return "monkey_" + hex.EncodeToString(u[:])[:8]
}

// NowISO devuelve el timestamp actual en el formato persistido.
func NowISO() string {
	return now().Format(isoSeconds)
}

// ParseSpecies normaliza (case-insensitive) y valida una especie.
func ParseSpecies(s string) (Species, error) {
	sp := Species(strings.ToLower(strings.TrimSpace(s)))
	switch sp {
	case SpeciesCapuchin, SpeciesMacaque, SpeciesMarmoset, SpeciesHowler:
		return sp, nil
	}
	return "", fmt.Errorf("%w: species must be one of: capuchin, macaque, marmoset, howler", ErrValidation)
}

// ValidateName exige nombre presente y de 2-40 chars tras trim.
func ValidateName(name string) error {
	cleaned := strings.TrimSpace(name)
	if len(cleaned) < minNameLen || len(cleaned) > maxNameLen {
		return fmt.Errorf("%w: name must be 2-40 characters", ErrValidation)
	}
	return nil
}

// ValidateAge exige 0-45; para marmoset el tope baja a 22.
func ValidateAge(age int, sp Species) error {
	if age < 0 || age > maxAge {
		return fmt.Errorf("%w: age_years must be between 0 and 45", ErrValidation)
	}
	if sp == SpeciesMarmoset && age > maxAgeMarmoset {
		return fmt.Errorf("%w: marmoset age must be <= 22", ErrValidation)
	}
	return nil
}

// validateCheckup acepta iso8601 con "Z" final, offset, o fecha sola.
// Solo verificamos que parsee; se guarda el string tal cual vino.
func validateCheckup(s string) error {
	if s == "" {
		return nil
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: last_checkup_at must be iso8601", ErrValidation)
}

// New construye un registro validado y normalizado. Genera id y
// timestamps si no vienen en la entrada.
func New(in CreateInput) (Monkey, error) {
	if err := ValidateName(in.Name); err != nil {
		return Monkey{}, err
	}
	sp, err := ParseSpecies(in.Species)
	if err != nil {
		return Monkey{}, err
	}
	if err := ValidateAge(in.AgeYears, sp); err != nil {
		return Monkey{}, err
	}
	if err := validateCheckup(in.LastCheckupAt); err != nil {
		return Monkey{}, err
	}

	id := strings.TrimSpace(in.MonkeyID)
	if id == "" {
		id = NewID()
	}
	created := in.CreatedAt
	if created == "" {
		created = NowISO()
	}
	updated := in.UpdatedAt
	if updated == "" {
		updated = created
	}

	return Monkey{
		MonkeyID:       id,
		Name:           strings.TrimSpace(in.Name),
		Species:        sp,
		AgeYears:       in.AgeYears,
		FavouriteFruit: in.FavouriteFruit,
		LastCheckupAt:  in.LastCheckupAt,
		CreatedAt:      created,
		UpdatedAt:      updated,
	}, nil
}

// Normalize re-valida un registro ya serializado (import, backend de
// archivo) conservando id y timestamps existentes.
func Normalize(m Monkey) (Monkey, error) {
	return New(CreateInput{
		Name:           m.Name,
		Species:        string(m.Species),
		AgeYears:       m.AgeYears,
		FavouriteFruit: m.FavouriteFruit,
		LastCheckupAt:  m.LastCheckupAt,
		MonkeyID:       m.MonkeyID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	})
}

// ApplyUpdates produce una copia con el patch aplicado y re-validada
// completa (no solo los campos tocados). Conserva id y created_at,
// refresca updated_at.
func ApplyUpdates(current Monkey, in UpdateInput) (Monkey, error) {
	next := current

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		next.Name = *in.Name
	}
	if in.Species != nil && strings.TrimSpace(*in.Species) != "" {
		next.Species = Species(*in.Species)
	}
	if in.AgeYears != nil {
		next.AgeYears = *in.AgeYears
	}
	if in.FavouriteFruit != nil && *in.FavouriteFruit != "" {
		next.FavouriteFruit = *in.FavouriteFruit
	}
	if in.LastCheckupAt != nil && *in.LastCheckupAt != "" {
		next.LastCheckupAt = *in.LastCheckupAt
	}

	validated, err := New(CreateInput{
		Name:           next.Name,
		Species:        string(next.Species),
		AgeYears:       next.AgeYears,
		FavouriteFruit: next.FavouriteFruit,
		LastCheckupAt:  next.LastCheckupAt,
		MonkeyID:       current.MonkeyID,
		CreatedAt:      current.CreatedAt,
		UpdatedAt:      NowISO(),
	})
	if err != nil {
		return Monkey{}, err
	}
	return validated, nil
}
