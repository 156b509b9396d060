package ops

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	work := t.TempDir()
	src := filepath.Join(work, "data")
	writeFile(t, filepath.Join(src, "planner.json"), `{"selectedDate":"2025-01-01"}`)
	writeFile(t, filepath.Join(src, "nested", "extra.json"), `{}`)

	archive := filepath.Join(work, "backups", "howobot.tar.gz")
	if err := BackupDataDir(src, archive); err != nil {
		t.Fatalf("backup: %v", err)
	}

	target := filepath.Join(work, "restored")
	if err := RestoreDataDir(archive, target); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(target, "planner.json"))
	if err != nil {
		t.Fatalf("read restored: %v", err)
	}
	if string(got) != `{"selectedDate":"2025-01-01"}` {
		t.Fatalf("restored content mismatch: %s", got)
	}
	if _, err := os.Stat(filepath.Join(target, "nested", "extra.json")); err != nil {
		t.Fatalf("nested file missing after restore: %v", err)
	}
}

func TestBackupRejectsMissingSource(t *testing.T) {
	work := t.TempDir()
	if err := BackupDataDir(filepath.Join(work, "nope"), filepath.Join(work, "out.tar.gz")); err == nil {
		t.Fatal("expected error for missing source dir")
	}
}

func TestBackupRejectsFileSource(t *testing.T) {
	work := t.TempDir()
	file := filepath.Join(work, "plain.txt")
	writeFile(t, file, "x")
	if err := BackupDataDir(file, filepath.Join(work, "out.tar.gz")); err == nil {
		t.Fatal("expected error for non-directory source")
	}
}

func TestRestoreRejectsTraversal(t *testing.T) {
	work := t.TempDir()
	archive := filepath.Join(work, "evil.tar.gz")

	f, err := os.Create(archive)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	payload := []byte("owned")
	if err := tw.WriteHeader(&tar.Header{
		Name:     "../escape.txt",
		Mode:     0o644,
		Size:     int64(len(payload)),
		Typeflag: tar.TypeReg,
	}); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if _, err := tw.Write(payload); err != nil {
		t.Fatalf("write body: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	target := filepath.Join(work, "restored")
	if err := RestoreDataDir(archive, target); err == nil {
		t.Fatal("expected traversal entry to be rejected")
	}
	if _, err := os.Stat(filepath.Join(work, "escape.txt")); !os.IsNotExist(err) {
		t.Fatalf("traversal file must not exist: %v", err)
	}
}

func TestSanitizeArchiveRelPath(t *testing.T) {
	valid := []string{"planner.json", "nested/extra.json"}
	for _, name := range valid {
		if _, err := sanitizeArchiveRelPath(name); err != nil {
			t.Fatalf("%s should be accepted: %v", name, err)
		}
	}
	invalid := []string{"", ".", "..", "../x", "/etc/passwd"}
	for _, name := range invalid {
		if _, err := sanitizeArchiveRelPath(name); err == nil {
			t.Fatalf("%s should be rejected", name)
		}
	}
}
