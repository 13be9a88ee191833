package drug

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/ivprep/ivprep/internal/platform/db"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()
	store, err := db.OpenMemory(ctx)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if _, err := db.NewMigrator(store).Up(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(NewRepoSQLite(store))
}

func testDrug(trade, generic string) *Drug {
	return &Drug{
		TradeName:   trade,
		GenericName: generic,
		Form:        FormPowder,
		Container:   ContainerVial,
		AmountMg:    500,
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	maxDay := 2000.0
	in := testDrug("Vancocin", "Vancomycin")
	in.ArabicName = "فانكوسين"
	in.MaxDoseMgDay = &maxDay
	in.IsBiohazard = false
	in.ReconDiluentSWI = true

	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TradeName != "Vancocin" || got.ArabicName != "فانكوسين" {
		t.Errorf("names did not round-trip: %+v", got)
	}
	if got.MaxDoseMgDay == nil || *got.MaxDoseMgDay != 2000 {
		t.Errorf("optional limit did not round-trip: %v", got.MaxDoseMgDay)
	}
	if got.MinDoseMgKgDose != nil {
		t.Error("unset optional field must come back nil")
	}
	if !got.ReconDiluentSWI || got.ReconDiluentNS {
		t.Errorf("diluent flags did not round-trip: %+v", got)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*Drug)
	}{
		{"missing trade name", func(d *Drug) { d.TradeName = "" }},
		{"missing generic name", func(d *Drug) { d.GenericName = "" }},
		{"bad form", func(d *Drug) { d.Form = "Tablet" }},
		{"bad container", func(d *Drug) { d.Container = "Bag" }},
		{"zero amount", func(d *Drug) { d.AmountMg = 0 }},
	}
	for _, tc := range cases {
		d := testDrug("Test", "Testine")
		tc.mutate(d)
		if _, err := svc.Create(ctx, d); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestList_SearchAcrossNames(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a := testDrug("Rocephin", "Ceftriaxone")
	b := testDrug("Meronem", "Meropenem")
	b.ArabicName = "ميرونيم"
	for _, d := range []*Drug{a, b} {
		if _, err := svc.Create(ctx, d); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// Case-insensitive substring over trade name.
	got, err := svc.List(ctx, "roce")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].TradeName != "Rocephin" {
		t.Errorf("trade-name search failed: %+v", got)
	}

	// Generic name matches too.
	got, err = svc.List(ctx, "penem")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].TradeName != "Meronem" {
		t.Errorf("generic-name search failed: %+v", got)
	}

	// Arabic name.
	got, err = svc.List(ctx, "ميرون")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].TradeName != "Meronem" {
		t.Errorf("arabic-name search failed: %+v", got)
	}

	// Empty search returns the whole catalog ordered by trade name.
	got, err = svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].TradeName != "Meronem" || got[1].TradeName != "Rocephin" {
		t.Errorf("expected full catalog in trade-name order, got %+v", got)
	}
}

func TestUpdate_UnknownID(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Update(context.Background(), uuid.New(), testDrug("X", "Y")); err != db.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSeedIfEmpty(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	n, err := svc.SeedIfEmpty(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(seedCatalog) {
		t.Errorf("expected %d seeded, got %d", len(seedCatalog), n)
	}

	// A populated catalog is left alone.
	n, err = svc.SeedIfEmpty(ctx)
	if err != nil {
		t.Fatalf("seed again: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no rows on second seed, got %d", n)
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != len(seedCatalog) {
		t.Errorf("expected %d catalog rows, got %d", len(seedCatalog), len(all))
	}
}
