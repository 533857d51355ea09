package journal

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T, opts Options) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "j", "journal.bbolt")
	j, err := Open(path, opts)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j, path
}

func TestAppendAndRecent(t *testing.T) {
	j, _ := openTemp(t, Options{RunID: "run-1"})

	for _, k := range []string{"a", "b", "c"} {
		if _, err := j.Append(k, "inserted", ""); err != nil {
			t.Fatalf("append %s: %v", k, err)
		}
	}
	rec, err := j.Append("d", "inserted_with_eviction", "a")
	if err != nil {
		t.Fatalf("append d: %v", err)
	}
	if rec.Seq != 4 || rec.RunID != "run-1" || rec.At.IsZero() {
		t.Fatalf("record = %+v", rec)
	}

	got, err := j.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].Key != "d" || got[1].Key != "c" {
		t.Fatalf("recent = %+v", got)
	}
	if got[0].Evicted != "a" || got[0].Outcome != "inserted_with_eviction" {
		t.Fatalf("newest = %+v", got[0])
	}

	all, err := j.Recent(0)
	if err != nil || len(all) != 4 {
		t.Fatalf("recent(0) = %d records, %v", len(all), err)
	}
}

func TestMaxRecordsTrimsOldest(t *testing.T) {
	j, _ := openTemp(t, Options{MaxRecords: 3})
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		if _, err := j.Append(k, "inserted", ""); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := j.Recent(0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 || got[0].Key != "e" || got[2].Key != "c" {
		t.Fatalf("recent = %+v", got)
	}
}

func TestReopenContinuesSequenceWithNewRun(t *testing.T) {
	j, path := openTemp(t, Options{})
	if _, err := j.Append("a", "inserted", ""); err != nil {
		t.Fatalf("append: %v", err)
	}
	firstRun := j.RunID()
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	j2, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j2.Close()
	if j2.RunID() == firstRun {
		t.Fatalf("expected a fresh run id")
	}
	rec, err := j2.Append("b", "inserted", "")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if rec.Seq != 2 {
		t.Fatalf("seq = %d, want 2", rec.Seq)
	}
}

func TestClosedJournal(t *testing.T) {
	j, _ := openTemp(t, Options{})
	_ = j.Close()
	if _, err := j.Append("a", "inserted", ""); !errors.Is(err, ErrClosed) {
		t.Fatalf("append err = %v, want ErrClosed", err)
	}
}
