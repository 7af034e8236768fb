package main

import (
	"context"
	"flag"
	"fmt"

	"monkey-registry/internal/config"
	"monkey-registry/internal/domain/monkeys"
	"monkey-registry/internal/transfer"
)

func cmdImport(ctx context.Context, svc *monkeys.Service, cfg config.Config, args []string) {
	fs := flag.NewFlagSet("import-json", flag.ExitOnError)
	file := fs.String("file", "data/monkeys.json", "archivo json de origen")
	mode := fs.String("mode", "create", "create = solo insertar; upsert = crear o actualizar")
	dryRun := fs.Bool("dry-run", false, "solo validar, sin escrituras")
	_ = fs.Parse(args)

	m, err := transfer.ParseImportMode(*mode)
	if err != nil {
		fatal("error: %v", err)
	}

	report, err := transfer.Import(ctx, svc, transfer.ImportOptions{
		Path:   *file,
		Mode:   m,
		DryRun: *dryRun,
	})
	if err != nil {
		fatal("error: %v", err)
	}

	fmt.Printf("done on backend=%s. created=%d, updated=%d, skipped=%d, failed=%d, total=%d\n",
		cfg.NormalizedBackend(), report.Created, report.Updated, report.Skipped, report.Failed, report.Total)
}

func cmdExport(ctx context.Context, svc *monkeys.Service, cfg config.Config, args []string) {
	fs := flag.NewFlagSet("export-json", flag.ExitOnError)
	file := fs.String("file", "export/monkeys-export.json", "archivo json de salida")
	species := fs.String("species", "", "filtro opcional por especie")
	name := fs.String("name", "", "filtro opcional por nombre (substring)")
	pretty := fs.Bool("pretty", true, "json indentado")
	force := fs.Bool("force", false, "pisar el archivo de salida si existe")
	_ = fs.Parse(args)

	n, err := transfer.Export(ctx, svc, transfer.ExportOptions{
		Path:    *file,
		Name:    *name,
		Species: *species,
		Pretty:  *pretty,
		Force:   *force,
	})
	if err != nil {
		fatal("error: %v", err)
	}

	fmt.Printf("exported %d record(s) to %s from backend=%s\n", n, *file, cfg.NormalizedBackend())
}
