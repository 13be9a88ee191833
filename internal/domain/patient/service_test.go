package patient

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/ivprep/ivprep/internal/platform/db"
)

// purgeRecorder stands in for the preparation repository during cascade
// tests. failOnce lets a test force a mid-transaction failure.
type purgeRecorder struct {
	purged   []uuid.UUID
	failOnce bool
}

func (p *purgeRecorder) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	if p.failOnce {
		p.failOnce = false
		return context.Canceled
	}
	p.purged = append(p.purged, patientID)
	return nil
}

func newTestService(t *testing.T) (*Service, *purgeRecorder, *db.Store) {
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
	purger := &purgeRecorder{}
	return NewService(store, NewRepoSQLite(store), purger), purger, store
}

func testInput(entryDate string) Input {
	w, h := 20.0, 110.0
	return Input{
		HospitalID: "H-1001",
		Name:       "Test Patient",
		DOB:        "2019-03-12",
		Gender:     "female",
		WeightKg:   &w,
		HeightCm:   &h,
		Department: "Oncology",
		EntryDate:  entryDate,
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, testInput("2026-01-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Fatal("expected a generated id")
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Test Patient" || got.EntryDate != "2026-01-05" {
		t.Errorf("unexpected row: %+v", got)
	}
	if got.WeightKg == nil || *got.WeightKg != 20.0 {
		t.Errorf("weight did not round-trip: %v", got.WeightKg)
	}
}

func TestCreate_MandatoryFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, mutate := range []func(*Input){
		func(in *Input) { in.HospitalID = "" },
		func(in *Input) { in.Name = "" },
		func(in *Input) { in.DOB = "" },
		func(in *Input) { in.Gender = "" },
		func(in *Input) { in.EntryDate = "" },
		func(in *Input) { in.EntryDate = "05/01/2026" },
	} {
		in := testInput("2026-01-05")
		mutate(&in)
		if _, err := svc.Create(ctx, in); err == nil {
			t.Errorf("expected validation error for %+v", in)
		}
	}
}

func TestList_ScopedByEntryDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, testInput("2026-01-05")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, testInput("2026-01-05")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, testInput("2026-01-06")); err != nil {
		t.Fatalf("create: %v", err)
	}

	day, err := svc.List(ctx, "2026-01-05")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(day) != 2 {
		t.Errorf("expected 2 rows for the day, got %d", len(day))
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 rows in total, got %d", len(all))
	}
}

func TestDelete_CascadesInOneTransaction(t *testing.T) {
	svc, purger, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, testInput("2026-01-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(purger.purged) != 1 || purger.purged[0] != p.ID {
		t.Errorf("expected preparations purge for %s, got %v", p.ID, purger.purged)
	}
	if _, err := svc.Get(ctx, p.ID); err != db.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDelete_PurgeFailureLeavesPatient(t *testing.T) {
	svc, purger, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, testInput("2026-01-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	purger.failOnce = true

	if err := svc.Delete(ctx, p.ID); err == nil {
		t.Fatal("expected delete to fail")
	}
	if _, err := svc.Get(ctx, p.ID); err != nil {
		t.Errorf("patient must survive a failed cascade: %v", err)
	}
}

func TestCopyToDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, testInput("2026-01-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := svc.Create(ctx, testInput("2026-01-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	missing := uuid.New()

	copied, err := svc.CopyToDate(ctx, []uuid.UUID{a.ID, missing, b.ID}, "2026-01-06")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	// Missing ids are skipped silently; the count reflects actual copies.
	if copied != 2 {
		t.Errorf("expected 2 copies, got %d", copied)
	}

	target, err := svc.List(ctx, "2026-01-06")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(target) != 2 {
		t.Fatalf("expected 2 rows on the target date, got %d", len(target))
	}
	for _, cp := range target {
		if cp.ID == a.ID || cp.ID == b.ID {
			t.Error("copies must get fresh identities")
		}
		if cp.EntryDate != "2026-01-06" {
			t.Errorf("expected target entry date, got %s", cp.EntryDate)
		}
		if cp.Name != a.Name || cp.HospitalID != a.HospitalID {
			t.Errorf("demographics must carry over: %+v", cp)
		}
	}

	// Originals stay where they were.
	source, err := svc.List(ctx, "2026-01-05")
	if err != nil {
		t.Fatalf("list source: %v", err)
	}
	if len(source) != 2 {
		t.Errorf("expected source rows untouched, got %d", len(source))
	}
}

func TestCopyToDate_InvalidDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.CopyToDate(context.Background(), nil, "tomorrow"); err == nil {
		t.Error("expected invalid date error")
	}
}
