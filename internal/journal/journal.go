// Package journal keeps an append-only history of touches in a bbolt file.
//
// The history is for inspection only. It is never replayed into a cache, so
// the recent list itself still starts empty on every daemon run.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Record is one journaled touch.
type Record struct {
	Seq     uint64    `json:"seq"`
	RunID   string    `json:"run_id"`
	At      time.Time `json:"at"`
	Key     string    `json:"key"`
	Outcome string    `json:"outcome"`
	Evicted string    `json:"evicted,omitempty"`
}

type Options struct {
	// Bucket is the name of the Bolt bucket to use.
	Bucket string
	// RunID tags every record written through this Journal. A random UUID
	// is used when empty.
	RunID string
	// MaxRecords bounds the history; the oldest records are dropped first.
	// Zero keeps everything.
	MaxRecords uint64
}

var ErrClosed = errors.New("journal: closed")

// Journal is safe for concurrent use; bbolt serializes writers.
type Journal struct {
	db         *bolt.DB
	bucket     []byte
	runID      string
	maxRecords uint64
	now        func() time.Time
}

// Open initializes or opens a Journal at the given path.
func Open(path string, opts Options) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	bucket := []byte("touches")
	if opts.Bucket != "" {
		bucket = []byte(opts.Bucket)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Journal{
		db:         db,
		bucket:     bucket,
		runID:      runID,
		maxRecords: opts.MaxRecords,
		now:        time.Now,
	}, nil
}

// RunID identifies the records written by this Journal.
func (j *Journal) RunID() string { return j.runID }

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Append stores a record for one touch and returns it with its sequence
// number filled in.
func (j *Journal) Append(key, outcome, evicted string) (Record, error) {
	rec := Record{
		RunID:   j.runID,
		At:      j.now().UTC(),
		Key:     key,
		Outcome: outcome,
		Evicted: evicted,
	}
	err := j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(j.bucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		rec.Seq = seq
		buf, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := b.Put(seqKey(seq), buf); err != nil {
			return err
		}
		if j.maxRecords == 0 || seq <= j.maxRecords {
			return nil
		}
		// Keys are big endian sequence numbers, so the cursor walks oldest first.
		cutoff := seq - j.maxRecords
		c := b.Cursor()
		for k, _ := c.First(); k != nil && binary.BigEndian.Uint64(k) <= cutoff; k, _ = c.First() {
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return Record{}, ErrClosed
	}
	if err != nil {
		return Record{}, fmt.Errorf("journal: append: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit records, newest first. limit <= 0 returns all.
func (j *Journal) Recent(limit int) ([]Record, error) {
	var out []Record
	err := j.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(j.bucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("record %d: %w", binary.BigEndian.Uint64(k), err)
			}
			out = append(out, rec)
		}
		return nil
	})
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return nil, ErrClosed
	}
	if err != nil {
		return nil, fmt.Errorf("journal: read: %w", err)
	}
	return out, nil
}

func seqKey(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}
