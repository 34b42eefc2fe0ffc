// Package session keeps per-viewer navigation state in memory.
package session

import (
	"errors"
	"time"
	"viewer/internal/domain"
	"viewer/internal/history"

	"golang.org/x/sync/semaphore"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrBusy            = errors.New("a navigation is already in progress")
)

// Session is the state one viewer navigates through. Navigations on a
// session are serialised by TryBegin/End; fields must only be touched
// between those calls.
type Session struct {
	ID        string
	CreatedAt time.Time

	History *history.Stack

	Page      domain.PageState
	PageReady bool
	Standings domain.StandingsIndex
	LoadedAt  time.Time

	inflight *semaphore.Weighted
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		History:   history.NewStack(),
		inflight:  semaphore.NewWeighted(1),
	}
}

// TryBegin claims the session for one navigation. It fails with ErrBusy
// while another navigation on the same session has not finished.
func (s *Session) TryBegin() error {
	if !s.inflight.TryAcquire(1) {
		return ErrBusy
	}
	return nil
}

func (s *Session) End() {
	s.inflight.Release(1)
}

// StandingsFresh reports whether the cached index is younger than ttl.
// A zero ttl disables the cache.
func (s *Session) StandingsFresh(ttl time.Duration, now time.Time) bool {
	if s.Standings == nil || ttl <= 0 {
		return false
	}
	return now.Sub(s.LoadedAt) < ttl
}

// SetStandings replaces the cached index.
func (s *Session) SetStandings(index domain.StandingsIndex, now time.Time) {
	s.Standings = index
	s.LoadedAt = now
}

// InvalidateStandings drops the cached index so the next view reloads it.
func (s *Session) InvalidateStandings() {
	s.Standings = nil
	s.LoadedAt = time.Time{}
}
