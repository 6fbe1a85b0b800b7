package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"modelgate/internal/evaluate"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordDecision_RoundTrip(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)

	best := 0.80
	d := evaluate.Decision{TrainedScore: 0.85, BestScore: &best, Accepted: true, Delta: 0.05}
	if err := l.RecordDecision(ctx, d, "artifact/report.yaml"); err != nil {
		t.Fatalf("RecordDecision() error = %v", err)
	}

	entries, err := l.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("List() returned %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.ID == "" {
		t.Error("entry must get a run id")
	}
	if e.TrainedScore != 0.85 || !e.Accepted || e.Delta != 0.05 {
		t.Errorf("entry = %+v", e)
	}
	if e.BestScore == nil || *e.BestScore != 0.80 {
		t.Errorf("BestScore = %v, want 0.80", e.BestScore)
	}
	if e.ReportPath != "artifact/report.yaml" {
		t.Errorf("ReportPath = %q", e.ReportPath)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt must round trip")
	}
}

func TestRecordDecision_NullBestScore(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)

	d := evaluate.Decision{TrainedScore: 0.82, BestScore: nil, Accepted: true, Delta: 0.82}
	if err := l.RecordDecision(ctx, d, "r.yaml"); err != nil {
		t.Fatalf("RecordDecision() error = %v", err)
	}
	entries, _ := l.List(ctx, 0)
	if len(entries) != 1 || entries[0].BestScore != nil {
		t.Errorf("entries = %+v, want one entry with nil BestScore", entries)
	}
}

func TestList_NewestFirstAndLimit(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)

	times := []time.Time{
		time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC),
	}
	for i, ts := range times {
		e := Entry{
			ID:           string(rune('a' + i)),
			TrainedScore: float64(i),
			Accepted:     i%2 == 0,
			ReportPath:   "r.yaml",
			CreatedAt:    ts,
		}
		if err := l.record(ctx, e); err != nil {
			t.Fatalf("record() error = %v", err)
		}
	}

	entries, err := l.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List() returned %d entries, want 3", len(entries))
	}
	if entries[0].ID != "c" || entries[2].ID != "a" {
		t.Errorf("order = %s,%s,%s, want c,b,a", entries[0].ID, entries[1].ID, entries[2].ID)
	}

	limited, err := l.List(ctx, 2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "c" {
		t.Errorf("List(2) = %+v", limited)
	}
}

func TestOpen_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".modelgate", "runs.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	l.Close()
}
