package cache

import (
	"github.com/leonardcser/recent-mcp/internal/journal"
	"github.com/leonardcser/recent-mcp/internal/recency"
)

// Simple JSON protocol for the recency daemon over a Unix domain socket.
// Requests and responses alternate on one connection, one JSON object each.

const (
	OpTouch    = "touch"
	OpContains = "contains"
	OpSnapshot = "snapshot"
	OpSorted   = "sorted"
	OpRemove   = "remove"
	OpHistory  = "history"
	OpStats    = "stats"
	OpVerify   = "verify"
)

type Request struct {
	Op    string `json:"op"`
	Key   string `json:"key,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	Outcome  recency.Kind `json:"outcome,omitempty"`
	Promoted bool         `json:"promoted,omitempty"`
	Evicted  string       `json:"evicted,omitempty"`

	Found   bool             `json:"found,omitempty"`
	Keys    []string         `json:"keys,omitempty"`
	History []journal.Record `json:"history,omitempty"`
	Stats   *Stats           `json:"stats,omitempty"`
}
