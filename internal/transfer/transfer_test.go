package transfer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"monkey-registry/internal/adapters/storage/memory"
	"monkey-registry/internal/domain/monkeys"
)

func newService() *monkeys.Service {
	return monkeys.NewService(memory.NewMonkeyRepo())
}

func writeRows(t *testing.T, rows any) string {
	t.Helper()
	raw, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("marshal rows: %v", err)
	}
	path := filepath.Join(t.TempDir(), "monkeys.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	return path
}

func TestImport_CreateModeCounts(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	path := writeRows(t, []map[string]any{
		{"name": "luna", "species": "marmoset", "age_years": 2, "favourite_fruit": "mango"},
		{"name": "coco", "species": "macaque", "age_years": 3.0, "favourite_fruit": "banana"}, // 3.0 se normaliza a 3
		{"name": "luna", "species": "marmoset", "age_years": 4, "favourite_fruit": "kiwi"},    // duplicado => skipped
		{"name": "x", "species": "marmoset", "age_years": 2},                                  // nombre corto => failed
		{"name": "oldie", "species": "marmoset", "age_years": 30},                             // sobre el tope => failed
	})

	report, err := Import(ctx, svc, ImportOptions{Path: path, Mode: ModeCreate})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	want := ImportReport{Created: 2, Updated: 0, Skipped: 1, Failed: 2, Total: 5}
	if report != want {
		t.Fatalf("report mismatch:\n  got  %+v\n  want %+v", report, want)
	}

	rows, err := svc.List(ctx, monkeys.ListFilter{})
	if err != nil || len(rows) != 2 {
		t.Fatalf("expected 2 persisted rows, got %d (err=%v)", len(rows), err)
	}
}

func TestImport_DryRunWritesNothing(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	path := writeRows(t, []map[string]any{
		{"name": "luna", "species": "marmoset", "age_years": 2},
	})

	report, err := Import(ctx, svc, ImportOptions{Path: path, Mode: ModeCreate, DryRun: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Created != 1 {
		t.Fatalf("dry-run should count validated rows as created, got %+v", report)
	}

	rows, err := svc.List(ctx, monkeys.ListFilter{})
	if err != nil || len(rows) != 0 {
		t.Fatalf("dry-run must not persist, got %d rows (err=%v)", len(rows), err)
	}
}

func TestImport_UpsertUpdatesExistingMatch(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	existing, err := svc.Create(ctx, monkeys.CreateInput{Name: "luna", Species: "marmoset", AgeYears: 2, FavouriteFruit: "mango"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	path := writeRows(t, []map[string]any{
		{"name": "LUNA", "species": "Marmoset", "age_years": 5, "favourite_fruit": "papaya"}, // match case-insensitive
		{"name": "coco", "species": "macaque", "age_years": 3},
	})

	report, err := Import(ctx, svc, ImportOptions{Path: path, Mode: ModeUpsert})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Created != 1 || report.Updated != 1 || report.Failed != 0 {
		t.Fatalf("unexpected report %+v", report)
	}

	got, found, err := svc.Get(ctx, existing.MonkeyID)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if got.AgeYears != 5 || got.FavouriteFruit != "papaya" {
		t.Fatalf("upsert did not update in place: %#v", got)
	}
	if got.CreatedAt != existing.CreatedAt {
		t.Fatal("created_at must survive an upsert update")
	}
}

func TestImport_RejectsNonArrayFile(t *testing.T) {
	svc := newService()

	path := filepath.Join(t.TempDir(), "monkeys.json")
	if err := os.WriteFile(path, []byte(`{"name":"luna"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Import(context.Background(), svc, ImportOptions{Path: path, Mode: ModeCreate}); err == nil {
		t.Fatal("expected error for non-array json")
	}
}

func TestAgeFromNumber_Normalization(t *testing.T) {
	if v, err := ageFromNumber(json.Number("7")); err != nil || v != 7 {
		t.Fatalf("whole int: v=%d err=%v", v, err)
	}
	if v, err := ageFromNumber(json.Number("7.0")); err != nil || v != 7 {
		t.Fatalf("whole float: v=%d err=%v", v, err)
	}
	if _, err := ageFromNumber(json.Number("7.5")); err == nil {
		t.Fatal("expected error for fractional age")
	}
}

func TestExport_SortsAndRefusesOverwrite(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	seed := []monkeys.CreateInput{
		{Name: "zoe", Species: "capuchin", AgeYears: 1},
		{Name: "ana", Species: "marmoset", AgeYears: 2},
		{Name: "bob", Species: "capuchin", AgeYears: 3},
	}
	for _, in := range seed {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("seed %s: %v", in.Name, err)
		}
	}

	path := filepath.Join(t.TempDir(), "out", "export.json")
	n, err := Export(ctx, svc, ExportOptions{Path: path, Pretty: true})
	if err != nil || n != 3 {
		t.Fatalf("export: n=%d err=%v", n, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var rows []monkeys.Monkey
	if err := json.Unmarshal(raw, &rows); err != nil {
		t.Fatalf("decode export: %v", err)
	}

	// orden determinístico: (species, name)
	gotOrder := []string{rows[0].Name, rows[1].Name, rows[2].Name}
	wantOrder := []string{"bob", "zoe", "ana"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("bad sort order: got %v want %v", gotOrder, wantOrder)
		}
	}

	// sin force no se pisa
	if _, err := Export(ctx, svc, ExportOptions{Path: path}); err == nil {
		t.Fatal("expected refusal to overwrite without force")
	}
	if _, err := Export(ctx, svc, ExportOptions{Path: path, Force: true}); err != nil {
		t.Fatalf("export with force: %v", err)
	}
}

func TestExport_AppliesFilters(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, monkeys.CreateInput{Name: "luna", Species: "marmoset", AgeYears: 2}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Create(ctx, monkeys.CreateInput{Name: "coco", Species: "macaque", AgeYears: 3}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "export.json")
	n, err := Export(ctx, svc, ExportOptions{Path: path, Species: "marmoset"})
	if err != nil || n != 1 {
		t.Fatalf("filtered export: n=%d err=%v", n, err)
	}
}
