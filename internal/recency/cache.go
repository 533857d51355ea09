// Package recency keeps a bounded set of keys ordered by how recently each
// one was touched.
//
// A Cache pairs two structures:
//   - a linked list over a slice arena, front = most recent, giving O(1)
//     promotion and O(1) eviction of the oldest key
//   - an AVL tree from key to list handle, giving O(log n) membership checks
//
// The two only change together inside Cache methods, which is why neither is
// exported. A Cache is not safe for concurrent use; hosts that share one
// across goroutines must serialize calls themselves.
package recency

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the length of the classic chat list.
const DefaultCapacity = 5

var (
	ErrCapacity  = errors.New("recency: capacity must be at least 1")
	ErrEmptyKey  = errors.New("recency: empty key")
	ErrInvariant = errors.New("recency: index and list disagree")
)

// Kind says what a Touch did.
type Kind uint8

const (
	// Hit: the key was already present. Outcome.Promoted reports whether it
	// had to move; touching the current front key changes nothing.
	Hit Kind = iota + 1
	// Inserted: the key was new and the cache had room.
	Inserted
	// InsertedWithEviction: the key was new and Outcome.Evicted was dropped
	// to make room.
	InsertedWithEviction
)

func (k Kind) String() string {
	switch k {
	case Hit:
		return "hit"
	case Inserted:
		return "inserted"
	case InsertedWithEviction:
		return "inserted_with_eviction"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Hit, Inserted, InsertedWithEviction:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("recency: unknown kind %d", uint8(k))
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "hit":
		*k = Hit
	case "inserted":
		*k = Inserted
	case "inserted_with_eviction":
		*k = InsertedWithEviction
	default:
		return fmt.Errorf("recency: unknown kind %q", b)
	}
	return nil
}

// Outcome reports the effect of one Touch.
type Outcome struct {
	Kind     Kind
	Promoted bool
	Evicted  string
}

// Cache is a fixed-capacity recency set. The zero value is not usable; build
// one with New.
type Cache struct {
	capacity int
	size     int
	list     *recencyList
	index    *keyIndex
}

// New returns an empty cache holding at most capacity keys. Capacities below
// one are rejected, not clamped.
func New(capacity int) (*Cache, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrCapacity, capacity)
	}
	return &Cache{
		capacity: capacity,
		// one spare slot for the entry that exists between insert and evict
		list:  newRecencyList(capacity + 1),
		index: &keyIndex{},
	}, nil
}

// Touch records an access to key, making it the most recent entry.
//
// A new key is inserted at the front; if that overflows the capacity the
// least recent key is evicted in the same call. Touching the key that is
// already at the front is a Hit with Promoted == false and no state change.
func (c *Cache) Touch(key string) (Outcome, error) {
	if key == "" {
		return Outcome{}, ErrEmptyKey
	}

	if h, ok := c.index.lookup(key); ok {
		if c.list.isFront(h) {
			return Outcome{Kind: Hit}, nil
		}
		c.index.update(key, c.list.moveToFront(h))
		return Outcome{Kind: Hit, Promoted: true}, nil
	}

	c.index.insert(key, c.list.pushFront(key))
	c.size++
	if c.size <= c.capacity {
		return Outcome{Kind: Inserted}, nil
	}

	evicted := c.list.popBack()
	c.index.remove(evicted)
	c.size--
	return Outcome{Kind: InsertedWithEviction, Evicted: evicted}, nil
}

// Remove drops key if present and reports whether it was.
func (c *Cache) Remove(key string) bool {
	h, ok := c.index.lookup(key)
	if !ok {
		return false
	}
	c.list.remove(h)
	c.index.remove(key)
	c.size--
	return true
}

func (c *Cache) Contains(key string) bool {
	_, ok := c.index.lookup(key)
	return ok
}

// Snapshot returns the keys most recent first.
func (c *Cache) Snapshot() []string {
	return c.list.keys()
}

// Sorted returns the keys in byte-wise lexicographic order.
func (c *Cache) Sorted() []string {
	out := make([]string, 0, c.size)
	c.index.ascend(func(key string, _ handle) bool {
		out = append(out, key)
		return true
	})
	return out
}

// Newest returns the most recently touched key.
func (c *Cache) Newest() (string, bool) { return c.list.frontKey() }

// Oldest returns the key that the next overflowing Touch would evict.
func (c *Cache) Oldest() (string, bool) { return c.list.backKey() }

func (c *Cache) Len() int { return c.size }

func (c *Cache) Cap() int { return c.capacity }

// Verify checks that the list and the index describe the same key set with
// matching handles. A non-nil result wraps ErrInvariant and means a bug.
func (c *Cache) Verify() error {
	if c.list.len() != c.size || c.index.len() != c.size {
		return fmt.Errorf("%w: size %d, list %d, index %d",
			ErrInvariant, c.size, c.list.len(), c.index.len())
	}
	if c.size > c.capacity {
		return fmt.Errorf("%w: size %d exceeds capacity %d", ErrInvariant, c.size, c.capacity)
	}

	var (
		err  error
		seen int
	)
	c.list.walk(func(key string, h handle) bool {
		got, ok := c.index.lookup(key)
		switch {
		case !ok:
			err = fmt.Errorf("%w: %q listed but not indexed", ErrInvariant, key)
		case got != h:
			err = fmt.Errorf("%w: %q indexed with a stale handle", ErrInvariant, key)
		default:
			seen++
			return true
		}
		return false
	})
	if err != nil {
		return err
	}
	// Every listed key resolved to its own handle, so the keys are distinct;
	// with equal counts the two key sets are identical.
	if seen != c.size {
		return fmt.Errorf("%w: walked %d entries, want %d", ErrInvariant, seen, c.size)
	}
	return nil
}
