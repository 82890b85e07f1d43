package solverrunsstore_test

import (
	"errors"
	"testing"
	"time"

	solverrunsstore "github.com/dalemusser/shiftgrid/internal/app/store/solverruns"
	"github.com/dalemusser/shiftgrid/internal/app/system/indexes"
	"github.com/dalemusser/shiftgrid/internal/domain/models"
	"github.com/dalemusser/shiftgrid/internal/testutil"
	"go.uber.org/zap"
)

func TestStore_Lifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := solverrunsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "run-1", "main", "2026-01-05", "2026-01-11"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	obj := 12.5
	for i := 1; i <= 2; i++ {
		cp := models.SolverCheckpoint{Sequence: i, Objective: &obj, ElapsedMS: int64(i * 100),
			Stats: models.SolverStats{FilledSlots: i, TotalRequiredSlots: 4, OpenSlots: 4 - i}}
		if err := store.AppendCheckpoint(ctx, "run-1", cp); err != nil {
			t.Fatalf("AppendCheckpoint %d failed: %v", i, err)
		}
	}

	if err := store.Finish(ctx, "run-1", models.RunStatusSuccess, "", []string{"optimal"}); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	run, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if run.Status != models.RunStatusSuccess || run.FinishedAt == nil {
		t.Errorf("unexpected terminal state: %+v", run)
	}
	if len(run.Candidates) != 2 || run.Candidates[1].Stats.FilledSlots != 2 {
		t.Errorf("unexpected candidates: %+v", run.Candidates)
	}
	if len(run.Notes) != 1 || run.Notes[0] != "optimal" {
		t.Errorf("unexpected notes: %v", run.Notes)
	}

	// finished runs take no more checkpoints
	err = store.AppendCheckpoint(ctx, "run-1", models.SolverCheckpoint{Sequence: 3})
	if !errors.Is(err, solverrunsstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for finished run, got %v", err)
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := solverrunsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Get(ctx, "nope"); !errors.Is(err, solverrunsstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Finish(ctx, "nope", models.RunStatusError, "x", nil); !errors.Is(err, solverrunsstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound from Finish, got %v", err)
	}
}

func TestStore_ListRecentAndFailStale(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := solverrunsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := store.Create(ctx, id, "main", "2026-01-05", "2026-01-11"); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, err := store.Create(ctx, "other", "elsewhere", "2026-01-05", "2026-01-11"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	runs, err := store.ListRecent(ctx, "main", 2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "c" || runs[1].RunID != "b" {
		t.Errorf("unexpected recent runs: %+v", runs)
	}

	n, err := store.FailStale(ctx, -time.Minute)
	if err != nil {
		t.Fatalf("FailStale failed: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 stale runs, got %d", n)
	}
	run, _ := store.Get(ctx, "a")
	if run.Status != models.RunStatusError {
		t.Errorf("expected error status, got %q", run.Status)
	}
}

func TestStore_Create_DuplicateRunID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := solverrunsstore.New(db)

	if _, err := store.Create(ctx, "run-1", "main", "2026-01-05", "2026-01-11"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := store.Create(ctx, "run-1", "main", "2026-01-05", "2026-01-11")
	if !errors.Is(err, solverrunsstore.ErrDuplicateRun) {
		t.Errorf("second Create error = %v, want ErrDuplicateRun", err)
	}
}
