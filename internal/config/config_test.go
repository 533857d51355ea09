package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvCapacity, "")
	t.Setenv(EnvSocket, "")
	t.Setenv(EnvJournal, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Capacity != 5 {
		t.Fatalf("capacity = %d, want 5", cfg.Capacity)
	}
	if want := filepath.Join(home, ".cache", "recent-mcp", "recent.sock"); cfg.SocketPath != want {
		t.Fatalf("socket = %q, want %q", cfg.SocketPath, want)
	}
	if want := filepath.Join(home, ".cache", "recent-mcp", "journal.bbolt"); cfg.JournalPath != want {
		t.Fatalf("journal = %q, want %q", cfg.JournalPath, want)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvCapacity, "12")
	t.Setenv(EnvSocket, "/tmp/x.sock")
	t.Setenv(EnvJournal, "off")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Capacity != 12 || cfg.SocketPath != "/tmp/x.sock" || cfg.JournalPath != "" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadBadCapacity(t *testing.T) {
	t.Setenv(EnvCapacity, "lots")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric capacity")
	}
}
