package ingest

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.pdf"))
	touch(t, filepath.Join(dir, "a.PDF"))
	touch(t, filepath.Join(dir, "c.txt"))
	touch(t, filepath.Join(dir, "notes.docx"))
	touch(t, filepath.Join(dir, ".hidden.pdf"))
	if err := os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "nested.pdf", "deep.pdf"))

	scan, err := ScanDirectory(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.PDF"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "c.txt"),
	}
	if !reflect.DeepEqual(scan.Paths, want) {
		t.Fatalf("paths = %v", scan.Paths)
	}
	if scan.Stats != (DirStats{Scanned: 6, Matched: 3, Hidden: 1, Skipped: 2}) {
		t.Fatalf("stats = %+v", scan.Stats)
	}
	if len(scan.Duplicates) != 0 {
		t.Fatalf("unexpected duplicates %v", scan.Duplicates)
	}
}

func TestScanDirectoryDuplicateOutputNames(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "deal.pdf"))
	touch(t, filepath.Join(dir, "deal.txt"))
	// "quote.TXT" sorts before "quote.pdf"; the PDF still owns the name
	touch(t, filepath.Join(dir, "quote.TXT"))
	touch(t, filepath.Join(dir, "quote.pdf"))
	touch(t, filepath.Join(dir, "memo.txt"))

	scan, err := ScanDirectory(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(scan.Paths) != 5 || scan.Stats.Matched != 5 || scan.Stats.Duplicates != 2 {
		t.Fatalf("scan = %+v", scan)
	}
	want := map[string]string{
		filepath.Join(dir, "deal.txt"):  filepath.Join(dir, "deal.pdf"),
		filepath.Join(dir, "quote.TXT"): filepath.Join(dir, "quote.pdf"),
	}
	if !reflect.DeepEqual(scan.Duplicates, want) {
		t.Fatalf("duplicates = %v", scan.Duplicates)
	}
	if owner, dup := scan.Owner(filepath.Join(dir, "deal.pdf")); dup {
		t.Fatalf("deal.pdf reported as duplicate of %s", owner)
	}
}

func TestDuplicatesSameFormatFirstWins(t *testing.T) {
	got := Duplicates([]string{"in/Deal.txt", "in/deal.txt", "in/other.txt"})
	if len(got) != 1 || got["in/deal.txt"] != "in/Deal.txt" {
		t.Fatalf("Duplicates() = %v", got)
	}
}

func TestScanDirectoryMissing(t *testing.T) {
	if _, err := ScanDirectory(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
	if _, err := ScanDirectory(" "); err == nil {
		t.Fatalf("expected error for empty root")
	}
}

func TestAllowedExt(t *testing.T) {
	for ext, want := range map[string]bool{".pdf": true, "PDF": true, ".txt": true, ".jpg": false, "": false} {
		if got := AllowedExt(ext); got != want {
			t.Fatalf("AllowedExt(%q) = %v", ext, got)
		}
	}
}

func TestWatcherEmitsExistingAndNewFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "old.pdf"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{Root: dir, InitialScan: true, Debounce: 10 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}

	next := func() string {
		select {
		case p := <-events:
			return p
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for watcher event")
			return ""
		}
	}
	if got := next(); got != filepath.Join(dir, "old.pdf") {
		t.Fatalf("initial scan emitted %q", got)
	}

	touch(t, filepath.Join(dir, "ignored.png"))
	touch(t, filepath.Join(dir, "new.pdf"))
	if got := next(); got != filepath.Join(dir, "new.pdf") {
		t.Fatalf("watcher emitted %q", got)
	}

	cancel()
	for range events {
	}
}

func TestWatcherRequiresRoot(t *testing.T) {
	if _, _, err := StartWatcher(context.Background(), WatchConfig{}); err == nil {
		t.Fatalf("expected error without root")
	}
}
