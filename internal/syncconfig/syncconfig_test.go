package syncconfig

import (
	"path/filepath"
	"testing"
)

func TestConfigDirOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	t.Setenv("VUST_CONFIG_DIR", dir)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("config dir: %v", err)
	}
	if got != dir {
		t.Fatalf("dir: got %q, want %q", got, dir)
	}
}

func TestGetServerURLPriority(t *testing.T) {
	t.Setenv("VUST_CONFIG_DIR", t.TempDir())

	t.Setenv("VUST_SERVER_URL", "")
	if got := GetServerURL(); got != "http://localhost:8080" {
		t.Fatalf("default url: got %q", got)
	}

	if err := SaveConfig(&Config{ServerURL: "http://cfg:9090"}); err != nil {
		t.Fatalf("save config: %v", err)
	}
	if got := GetServerURL(); got != "http://cfg:9090" {
		t.Fatalf("config url: got %q", got)
	}

	t.Setenv("VUST_SERVER_URL", "http://env:7070")
	if got := GetServerURL(); got != "http://env:7070" {
		t.Fatalf("env url: got %q", got)
	}
}

func TestGetChunkSizePriority(t *testing.T) {
	t.Setenv("VUST_CONFIG_DIR", t.TempDir())

	t.Setenv("VUST_CHUNK_SIZE", "")
	if got := GetChunkSize(); got != DefaultChunkSize {
		t.Fatalf("default chunk size: got %d", got)
	}

	if err := SaveConfig(&Config{ChunkSize: 250}); err != nil {
		t.Fatalf("save config: %v", err)
	}
	if got := GetChunkSize(); got != 250 {
		t.Fatalf("config chunk size: got %d", got)
	}

	t.Setenv("VUST_CHUNK_SIZE", "50")
	if got := GetChunkSize(); got != 50 {
		t.Fatalf("env chunk size: got %d", got)
	}

	t.Setenv("VUST_CHUNK_SIZE", "not-a-number")
	if got := GetChunkSize(); got != 250 {
		t.Fatalf("bad env should fall through to config: got %d", got)
	}
}

func TestLoadConfigAbsent(t *testing.T) {
	t.Setenv("VUST_CONFIG_DIR", t.TempDir())
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerURL != "" || cfg.ChunkSize != 0 {
		t.Fatalf("absent config should be empty: %+v", cfg)
	}
}
