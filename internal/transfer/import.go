// Package transfer implementa import/export masivo de registros sobre
// el Service, para mover datos entre backends (json <-> ddb <-> pg).
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"monkey-registry/internal/domain/monkeys"
)

type ImportMode string

const (
	// ModeCreate solo inserta; los duplicados cuentan como skipped.
	ModeCreate ImportMode = "create"
	// ModeUpsert intenta crear y, ante conflicto de nombre, busca el
	// registro existente por (name, species) y lo actualiza.
	ModeUpsert ImportMode = "upsert"
)

func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCreate, "":
		return ModeCreate, nil
	case ModeUpsert:
		return ModeUpsert, nil
	}
	return "", fmt.Errorf("mode must be create or upsert")
}

type ImportOptions struct {
	Path   string
	Mode   ImportMode
	DryRun bool
}

type ImportReport struct {
	Created int
	Updated int
	Skipped int
	Failed  int
	Total   int
}

// record es la forma de archivo. age_years se decodifica como
// json.Number para aceptar valores de precisión arbitraria (p.ej. un
// export que pasó por dynamo) y normalizarlos a entero.
type record struct {
	MonkeyID       string      `json:"monkey_id"`
	Name           string      `json:"name"`
	Species        string      `json:"species"`
	AgeYears       json.Number `json:"age_years"`
	FavouriteFruit string      `json:"favourite_fruit"`
	LastCheckupAt  string      `json:"last_checkup_at"`
	CreatedAt      string      `json:"created_at"`
	UpdatedAt      string      `json:"updated_at"`
}

// ageFromNumber normaliza: entero si el valor es exacto, si no falla
// la validación (las edades son enteras por contrato).
func ageFromNumber(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	if v, err := n.Int64(); err == nil {
		return int(v), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: age_years must be a number", monkeys.ErrValidation)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: age_years must be an integer", monkeys.ErrValidation)
	}
	return int(f), nil
}

func (r record) toCreateInput() (monkeys.CreateInput, error) {
	age, err := ageFromNumber(r.AgeYears)
	if err != nil {
		return monkeys.CreateInput{}, err
	}
	return monkeys.CreateInput{
		Name:           r.Name,
		Species:        r.Species,
		AgeYears:       age,
		FavouriteFruit: r.FavouriteFruit,
		LastCheckupAt:  r.LastCheckupAt,
		MonkeyID:       r.MonkeyID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}, nil
}

// Import procesa un archivo con un array de registros. Cada fila se
// valida vía modelo antes de cualquier escritura; dry-run corta ahí.
func Import(ctx context.Context, svc *monkeys.Service, opts ImportOptions) (ImportReport, error) {
	raw, err := os.ReadFile(opts.Path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("read %s: %w", opts.Path, err)
	}

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var rows []record
	if err := dec.Decode(&rows); err != nil {
		return ImportReport{}, fmt.Errorf("parse %s: json must be an array of objects: %w", opts.Path, err)
	}

	report := ImportReport{Total: len(rows)}

	for _, row := range rows {
		in, err := row.toCreateInput()
		if err == nil {
			_, err = monkeys.New(in)
		}
		if err != nil {
			report.Failed++
			continue
		}

		if opts.DryRun {
			report.Created++
			continue
		}

		_, err = svc.Create(ctx, in)
		switch {
		case err == nil:
			report.Created++

		case errors.Is(err, monkeys.ErrDuplicateName):
			if opts.Mode != ModeUpsert {
				report.Skipped++
				continue
			}
			updated, err := upsertExisting(ctx, svc, in)
			switch {
			case err != nil:
				report.Failed++
			case updated:
				report.Updated++
			default:
				report.Skipped++
			}

		case errors.Is(err, monkeys.ErrAlreadyExists):
			report.Skipped++

		default:
			report.Failed++
		}
	}

	return report, nil
}

// upsertExisting resuelve el destino del update buscando el match
// exacto por (name, species) y le aplica todos los campos de la fila.
func upsertExisting(ctx context.Context, svc *monkeys.Service, in monkeys.CreateInput) (bool, error) {
	matches, err := svc.List(ctx, monkeys.ListFilter{Name: in.Name, Species: in.Species})
	if err != nil {
		return false, err
	}

	var target monkeys.Monkey
	found := false
	for _, m := range matches {
		if m.SameNameSpecies(in.Name, in.Species) {
			target = m
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	name := in.Name
	species := in.Species
	age := in.AgeYears
	fruit := in.FavouriteFruit
	checkup := in.LastCheckupAt

	_, _, err = svc.Update(ctx, target.MonkeyID, monkeys.UpdateInput{
		Name:           &name,
		Species:        &species,
		AgeYears:       &age,
		FavouriteFruit: &fruit,
		LastCheckupAt:  &checkup,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
