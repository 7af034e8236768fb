// monkeyctl es la interfaz de línea de comandos del registro:
// crud, búsqueda e import/export contra el backend configurado.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"monkey-registry/internal/config"
	"monkey-registry/internal/domain/monkeys"
)

func main() {
	_ = godotenv.Load()

	backendFlag := flag.String("backend", "", "storage backend: json | ddb | postgres | memory (default: env BACKEND o json)")
	dbFlag := flag.String("db", "", "ruta del archivo json (default: data/monkeys.json)")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg := config.FromEnv().WithOverrides(*backendFlag, *dbFlag)

	ctx := context.Background()
	repo, err := config.Open(ctx, cfg)
	if err != nil {
		fatal("error: %v", err)
	}
	svc := monkeys.NewService(repo)

	switch args[0] {
	case "create":
		cmdCreate(ctx, svc, args[1:])
	case "get":
		cmdGet(ctx, svc, args[1:])
	case "update":
		cmdUpdate(ctx, svc, args[1:])
	case "delete":
		cmdDelete(ctx, svc, args[1:])
	case "list":
		cmdList(ctx, svc, args[1:])
	case "search":
		cmdSearch(ctx, svc, args[1:])
	case "import-json":
		cmdImport(ctx, svc, cfg, args[1:])
	case "export-json":
		cmdExport(ctx, svc, cfg, args[1:])
	default:
		fatal("unknown command %q (run monkeyctl -h)", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `monkeyctl - monkey registry cli

usage: monkeyctl [-backend json|ddb|postgres|memory] [-db path] <command> [flags]

commands:
  create       crear un registro
  get          traer un registro por id
  update       actualizar campos de un registro
  delete       borrar un registro por id
  list         listar (filtros opcionales por nombre/especie)
  search       buscar por nombre o especie
  import-json  importar un array json al backend seleccionado
  export-json  exportar a un array json desde el backend seleccionado`)
}

func fatal(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func cmdCreate(ctx context.Context, svc *monkeys.Service, args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "nombre (2-40 chars)")
	species := fs.String("species", "", "capuchin | macaque | marmoset | howler")
	age := fs.Int("age", -1, "edad en años (0-45; marmoset <= 22)")
	fruit := fs.String("fruit", "", "fruta favorita")
	checkup := fs.String("last-checkup", "", "iso datetime, opcional")
	_ = fs.Parse(args)

	m, err := svc.Create(ctx, monkeys.CreateInput{
		Name:           *name,
		Species:        *species,
		AgeYears:       *age,
		FavouriteFruit: *fruit,
		LastCheckupAt:  *checkup,
	})
	if err != nil {
		fatal("error: %v", err)
	}
	printMonkey(m)
}

func cmdGet(ctx context.Context, svc *monkeys.Service, args []string) {
	if len(args) < 1 {
		fatal("usage: monkeyctl get <monkey_id>")
	}
	m, found, err := svc.Get(ctx, args[0])
	if err != nil {
		fatal("error: %v", err)
	}
	if !found {
		fatal("not found")
	}
	printMonkey(m)
}

func cmdUpdate(ctx context.Context, svc *monkeys.Service, args []string) {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		fatal("usage: monkeyctl update <monkey_id> [flags]")
	}
	id := args[0]

	fs := flag.NewFlagSet("update", flag.ExitOnError)
	name := fs.String("name", "", "nombre")
	species := fs.String("species", "", "especie")
	age := fs.Int("age", -1, "edad en años")
	fruit := fs.String("fruit", "", "fruta favorita")
	checkup := fs.String("last-checkup", "", "iso datetime")
	_ = fs.Parse(args[1:])

	// flags no seteados = no tocar
	in := monkeys.UpdateInput{}
	if *name != "" {
		in.Name = name
	}
	if *species != "" {
		in.Species = species
	}
	if *age >= 0 {
		in.AgeYears = age
	}
	if *fruit != "" {
		in.FavouriteFruit = fruit
	}
	if *checkup != "" {
		in.LastCheckupAt = checkup
	}

	m, found, err := svc.Update(ctx, id, in)
	if err != nil {
		fatal("error: %v", err)
	}
	if !found {
		fatal("not found")
	}
	printMonkey(m)
}

func cmdDelete(ctx context.Context, svc *monkeys.Service, args []string) {
	if len(args) < 1 {
		fatal("usage: monkeyctl delete <monkey_id>")
	}
	ok, err := svc.Delete(ctx, args[0])
	if err != nil {
		fatal("error: %v", err)
	}
	if !ok {
		fatal("not found")
	}
	fmt.Println("deleted")
}

func cmdList(ctx context.Context, svc *monkeys.Service, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	name := fs.String("name", "", "filtro por nombre (substring)")
	species := fs.String("species", "", "filtro por especie (exacto)")
	_ = fs.Parse(args)

	rows, err := svc.List(ctx, monkeys.ListFilter{Name: *name, Species: *species})
	if err != nil {
		fatal("error: %v", err)
	}
	printTable(rows)
}

func cmdSearch(ctx context.Context, svc *monkeys.Service, args []string) {
	if len(args) < 1 {
		fatal("usage: monkeyctl search <query>")
	}
	rows, err := svc.Search(ctx, strings.Join(args, " "))
	if err != nil {
		fatal("error: %v", err)
	}
	fmt.Printf("found %d result(s)\n", len(rows))
	printTable(rows)
}

func printMonkey(m monkeys.Monkey) {
	fmt.Printf("%s  %s  %s  %d  %s\n", m.MonkeyID, m.Name, m.Species, m.AgeYears, m.FavouriteFruit)
}

func printTable(rows []monkeys.Monkey) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MONKEY_ID\tNAME\tSPECIES\tAGE\tFRUIT")
	for _, m := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", m.MonkeyID, m.Name, m.Species, m.AgeYears, m.FavouriteFruit)
	}
	_ = w.Flush()
}
