package cache

import (
	"sync"

	"github.com/leonardcser/recent-mcp/internal/journal"
	"github.com/leonardcser/recent-mcp/internal/logger"
	"github.com/leonardcser/recent-mcp/internal/recency"
)

// Service hosts a recency.Cache for concurrent callers. Every call holds one
// mutex, so callers observe operations in a single total order and the
// journal records touches in that same order.
type Service struct {
	mu      sync.Mutex
	rc      *recency.Cache
	journal *journal.Journal // nil when history is disabled
}

func NewService(rc *recency.Cache, j *journal.Journal) *Service {
	return &Service{rc: rc, journal: j}
}

func (s *Service) Touch(key string) (recency.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.rc.Touch(key)
	if err != nil {
		return out, err
	}
	if out.Kind == recency.InsertedWithEviction {
		logger.Infof("touch %q evicted %q", key, out.Evicted)
	} else {
		logger.Debugf("touch %q: %s promoted=%v", key, out.Kind, out.Promoted)
	}
	if s.journal != nil {
		// History is best effort; the touch already happened.
		if _, jerr := s.journal.Append(key, out.Kind.String(), out.Evicted); jerr != nil {
			logger.Warnf("journal append for %q: %v", key, jerr)
		}
	}
	return out, nil
}

func (s *Service) Contains(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rc.Contains(key), nil
}

func (s *Service) Snapshot() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rc.Snapshot(), nil
}

func (s *Service) Sorted() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rc.Sorted(), nil
}

func (s *Service) Remove(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.rc.Remove(key)
	if ok {
		logger.Infof("removed %q", key)
	}
	return ok, nil
}

// History reads the journal, which does its own locking.
func (s *Service) History(limit int) ([]journal.Record, error) {
	if s.journal == nil {
		return nil, ErrNoJournal
	}
	return s.journal.Recent(limit)
}

func (s *Service) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Len: s.rc.Len(), Cap: s.rc.Cap()}, nil
}

// Verify checks the hosted cache's internal consistency.
func (s *Service) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rc.Verify()
}
