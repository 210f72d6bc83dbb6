package sync

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestListLocalIconsMissingDir(t *testing.T) {
	names, err := ListLocalIcons(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if names != nil {
		t.Fatalf("names: got %v, want nil", names)
	}
}

func TestListLocalIconsSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"a.png", "b.ico"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "cache"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	names, err := ListLocalIcons(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("names: got %v, want 2 files", names)
	}
}

func TestUploadCountsOnlySuccesses(t *testing.T) {
	api := &fakeAPI{uploadIconFn: func(path, name string) error {
		if name == "bad.png" {
			return errors.New("boom")
		}
		return nil
	}}
	ir := &iconReconciler{api: api, iconsDir: t.TempDir(), events: &publisher{}}

	ok := ir.upload([]string{"a.png", "bad.png", "c.png"})
	if ok != 2 {
		t.Fatalf("uploaded: got %d, want 2", ok)
	}
}

func TestDownloadCountsOnlySuccesses(t *testing.T) {
	api := &fakeAPI{downloadIconFn: func(user, name, dest string) error {
		if name == "bad.png" {
			return errors.New("404")
		}
		return os.WriteFile(filepath.Join(dest, name), []byte("x"), 0644)
	}}
	dest := filepath.Join(t.TempDir(), "icons")
	ir := &iconReconciler{api: api, iconsDir: dest, events: &publisher{}}

	ok := ir.download("u1", []string{"a.png", "bad.png"})
	if ok != 1 {
		t.Fatalf("downloaded: got %d, want 1", ok)
	}
	if _, err := os.Stat(filepath.Join(dest, "a.png")); err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
}
