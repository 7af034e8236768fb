package monkeys

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestValidateName_Boundaries(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"a", false},
		{"ab", true},
		{strings.Repeat("x", 40), true},
		{strings.Repeat("x", 41), false},
		{"  luna  ", true}, // trim antes de medir
		{"", false},
	}
	for _, c := range cases {
		err := ValidateName(c.name)
		if c.ok && err != nil {
			t.Errorf("name %q: unexpected error %v", c.name, err)
		}
		if !c.ok && err == nil {
			t.Errorf("name %q: expected error", c.name)
		}
	}
}

func TestParseSpecies_CaseInsensitive(t *testing.T) {
	sp, err := ParseSpecies("  MarMoSet ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp != SpeciesMarmoset {
		t.Fatalf("expected marmoset, got %s", sp)
	}

	if _, err := ParseSpecies("gorilla"); err == nil {
		t.Fatal("expected error for unknown species")
	}
}

func TestValidateAge_RangesPerSpecies(t *testing.T) {
	for _, sp := range []Species{SpeciesCapuchin, SpeciesMacaque, SpeciesHowler} {
		if err := ValidateAge(0, sp); err != nil {
			t.Errorf("%s age 0: %v", sp, err)
		}
		if err := ValidateAge(45, sp); err != nil {
			t.Errorf("%s age 45: %v", sp, err)
		}
		if err := ValidateAge(-1, sp); err == nil {
			t.Errorf("%s age -1: expected error", sp)
		}
		if err := ValidateAge(46, sp); err == nil {
			t.Errorf("%s age 46: expected error", sp)
		}
	}

	// marmoset: tope 22
	if err := ValidateAge(22, SpeciesMarmoset); err != nil {
		t.Errorf("marmoset age 22: %v", err)
	}
	if err := ValidateAge(23, SpeciesMarmoset); err == nil {
		t.Error("marmoset age 23: expected error")
	}
	if err := ValidateAge(45, SpeciesMarmoset); err == nil {
		t.Error("marmoset age 45: expected error")
	}
}

func TestNew_AssignsIDAndTimestamps(t *testing.T) {
	m, err := New(CreateInput{Name: "luna", Species: "marmoset", AgeYears: 2, FavouriteFruit: "mango"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(m.MonkeyID, "monkey_") || len(m.MonkeyID) != len("monkey_")+8 {
		t.Fatalf("unexpected id %q", m.MonkeyID)
	}
	if m.CreatedAt == "" || m.CreatedAt != m.UpdatedAt {
		t.Fatalf("expected created_at == updated_at, got %q / %q", m.CreatedAt, m.UpdatedAt)
	}
	if m.Species != SpeciesMarmoset {
		t.Fatalf("expected canonical species, got %s", m.Species)
	}
}

func TestNew_ChecksLastCheckup(t *testing.T) {
	// sufijo Z aceptado
	if _, err := New(CreateInput{Name: "luna", Species: "howler", AgeYears: 3, LastCheckupAt: "2025-03-01T10:00:00Z"}); err != nil {
		t.Fatalf("Z suffix should be accepted: %v", err)
	}
	// fecha sola aceptada
	if _, err := New(CreateInput{Name: "luna", Species: "howler", AgeYears: 3, LastCheckupAt: "2025-03-01"}); err != nil {
		t.Fatalf("bare date should be accepted: %v", err)
	}
	// fracción de segundo aceptada (time.Parse la toma aunque el layout no la declare)
	if _, err := New(CreateInput{Name: "luna", Species: "howler", AgeYears: 3, LastCheckupAt: "2025-03-01T10:00:00.123"}); err != nil {
		t.Fatalf("fractional seconds should be accepted: %v", err)
	}
	if _, err := New(CreateInput{Name: "luna", Species: "howler", AgeYears: 3, LastCheckupAt: "2025-03-01T10:00:00.123456Z"}); err != nil {
		t.Fatalf("fractional seconds with Z should be accepted: %v", err)
	}
	if _, err := New(CreateInput{Name: "luna", Species: "howler", AgeYears: 3, LastCheckupAt: "not-a-date"}); err == nil {
		t.Fatal("expected error for garbage timestamp")
	}
}

func TestNormalize_RoundTripIsIdempotent(t *testing.T) {
	m, err := New(CreateInput{Name: "  luna ", Species: "MARMOSET", AgeYears: 2, FavouriteFruit: "mango"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Monkey
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	again, err := Normalize(back)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if again != m {
		t.Fatalf("round-trip changed the record:\n  got  %#v\n  want %#v", again, m)
	}
}

func TestApplyUpdates_PartialMerge(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	now = func() time.Time { return base }
	defer func() { now = time.Now }()

	m, err := New(CreateInput{Name: "luna", Species: "marmoset", AgeYears: 2, FavouriteFruit: "mango"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = func() time.Time { return base.Add(90 * time.Second) }

	age := 3
	updated, err := ApplyUpdates(m, UpdateInput{AgeYears: &age})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.AgeYears != 3 {
		t.Fatalf("expected age 3, got %d", updated.AgeYears)
	}
	// campos no tocados quedan igual
	if updated.Name != m.Name || updated.Species != m.Species || updated.FavouriteFruit != m.FavouriteFruit {
		t.Fatalf("untouched fields changed: %#v", updated)
	}
	if updated.MonkeyID != m.MonkeyID {
		t.Fatal("monkey_id must be immutable")
	}
	if updated.CreatedAt != m.CreatedAt {
		t.Fatal("created_at must never change on update")
	}
	if updated.UpdatedAt <= m.UpdatedAt {
		t.Fatalf("updated_at should advance: %q -> %q", m.UpdatedAt, updated.UpdatedAt)
	}
}

func TestApplyUpdates_RevalidatesWholeRecord(t *testing.T) {
	m, err := New(CreateInput{Name: "coco", Species: "macaque", AgeYears: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// cambiar solo la especie dispara el tope de edad del marmoset
	sp := "marmoset"
	if _, err := ApplyUpdates(m, UpdateInput{Species: &sp}); err == nil {
		t.Fatal("expected validation error: macaque age 30 is over the marmoset cap")
	}
}

func TestApplyUpdates_EmptyValuesAreIgnored(t *testing.T) {
	m, err := New(CreateInput{Name: "coco", Species: "macaque", AgeYears: 5, FavouriteFruit: "banana"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := ""
	updated, err := ApplyUpdates(m, UpdateInput{Name: &empty, FavouriteFruit: &empty})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "coco" || updated.FavouriteFruit != "banana" {
		t.Fatalf("empty values must not clear fields: %#v", updated)
	}
}
