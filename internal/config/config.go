package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cast"

	"github.com/leonardcser/recent-mcp/internal/recency"
)

// Environment variables recognized by both binaries.
const (
	EnvCapacity = "RECENT_MCP_CAPACITY"
	EnvSocket   = "RECENT_MCP_SOCK"
	EnvJournal  = "RECENT_MCP_JOURNAL"
)

// journalOff disables the touch journal when set as RECENT_MCP_JOURNAL.
const journalOff = "off"

type Config struct {
	// Capacity is the number of contacts the daemon remembers.
	Capacity int
	// SocketPath is the unix socket the daemon listens on.
	SocketPath string
	// JournalPath is the bbolt file holding touch history; empty disables it.
	JournalPath string
}

// Load reads the environment, falling back to defaults under
// ~/.cache/recent-mcp. Capacity is only parsed here; recency.New decides
// whether it is acceptable.
func Load() (Config, error) {
	cfg := Config{
		Capacity:    recency.DefaultCapacity,
		SocketPath:  defaultString(os.Getenv(EnvSocket), defaultPath("recent.sock")),
		JournalPath: defaultString(os.Getenv(EnvJournal), defaultPath("journal.bbolt")),
	}
	if cfg.JournalPath == journalOff {
		cfg.JournalPath = ""
	}
	if v := os.Getenv(EnvCapacity); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s=%q: %w", EnvCapacity, v, err)
		}
		cfg.Capacity = n
	}
	return cfg, nil
}

func defaultPath(name string) string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "recent-mcp", name)
}

func defaultString(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
