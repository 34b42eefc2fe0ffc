package session

import (
	"time"
	"viewer/internal/config"
	"viewer/internal/metrics"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
)

// Store holds live sessions. Sessions idle for longer than the TTL, or
// pushed out by MaxSessions, are evicted.
type Store struct {
	cache  *expirable.LRU[string, *Session]
	logger zerolog.Logger
}

func NewStore(cfg *config.Config, logger zerolog.Logger) *Store {
	s := &Store{logger: logger}
	s.cache = expirable.NewLRU[string, *Session](cfg.MaxSessions, s.onEvict, cfg.SessionTTL)
	return s
}

func (s *Store) onEvict(id string, _ *Session) {
	metrics.ActiveSessions.Dec()
	s.logger.Debug().Str("session_id", id).Msg("session evicted")
}

func (s *Store) Create() *Session {
	sess := newSession(uuid.New().String(), time.Now())
	s.cache.Add(sess.ID, sess)
	metrics.ActiveSessions.Inc()
	s.logger.Debug().Str("session_id", sess.ID).Msg("session created")
	return sess
}

// Get returns the session and refreshes its expiry.
func (s *Store) Get(id string) (*Session, error) {
	sess, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	// re-adding resets the TTL window
	s.cache.Add(id, sess)
	return sess, nil
}

func (s *Store) Delete(id string) bool {
	return s.cache.Remove(id)
}

func (s *Store) Len() int {
	return s.cache.Len()
}
