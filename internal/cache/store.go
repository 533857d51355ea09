package cache

import (
	"errors"

	"github.com/leonardcser/recent-mcp/internal/journal"
	"github.com/leonardcser/recent-mcp/internal/recency"
)

// Store is the contract for a recent-contacts list, served in-process by
// Service and over a unix socket by Client.
// Implementations must be safe for concurrent use by multiple goroutines.
type Store interface {
	Touch(key string) (recency.Outcome, error)
	Contains(key string) (bool, error)
	// Snapshot lists keys most recent first.
	Snapshot() ([]string, error)
	// Sorted lists keys alphabetically.
	Sorted() ([]string, error)
	Remove(key string) (bool, error)
	History(limit int) ([]journal.Record, error)
	Stats() (Stats, error)
}

type Stats struct {
	Len int `json:"len"`
	Cap int `json:"cap"`
}

var ErrNoJournal = errors.New("cache: journal disabled")
