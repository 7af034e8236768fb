package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"monkey-registry/internal/domain/monkeys"
)

type ExportOptions struct {
	Path    string
	Name    string
	Species string
	Pretty  bool
	// Force permite pisar un archivo existente; sin Force el export
	// se niega a sobreescribir.
	Force bool
}

// Export lista con los filtros opcionales y escribe un array json
// ordenado por (species, name) para salida determinística. Los valores
// numéricos ya vienen normalizados a entero por los stores.
func Export(ctx context.Context, svc *monkeys.Service, opts ExportOptions) (int, error) {
	rows, err := svc.List(ctx, monkeys.ListFilter{Name: opts.Name, Species: opts.Species})
	if err != nil {
		return 0, err
	}
	if rows == nil {
		rows = []monkeys.Monkey{}
	}

	sort.Slice(rows, func(i, j int) bool {
		si, sj := string(rows[i].Species), string(rows[j].Species)
		if si != sj {
			return si < sj
		}
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}
	if _, err := os.Stat(opts.Path); err == nil && !opts.Force {
		return 0, fmt.Errorf("%s already exists, use force to overwrite", opts.Path)
	}

	var raw []byte
	if opts.Pretty {
		raw, err = json.MarshalIndent(rows, "", "  ")
	} else {
		raw, err = json.Marshal(rows)
	}
	if err != nil {
		return 0, err
	}

	if err := os.WriteFile(opts.Path, raw, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", opts.Path, err)
	}
	return len(rows), nil
}
