package service

import (
	"context"
	"time"
	"viewer/internal/config"
	"viewer/internal/constants"
	"viewer/internal/domain"
	"viewer/internal/metrics"
	"viewer/internal/session"
	"viewer/internal/standings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const standingsLoadKey = "standings"

type StandingsFetcher interface {
	GetStandings(ctx context.Context) (domain.StandingsIndex, error)
}

type StandingsService struct {
	fetcher  StandingsFetcher
	sessions *session.Store
	loads    singleflight.Group
	cacheTTL time.Duration
	pageSize int
	now      func() time.Time
	logger   zerolog.Logger
}

func NewStandingsService(fetcher StandingsFetcher, sessions *session.Store, cfg *config.Config, logger zerolog.Logger) *StandingsService {
	return &StandingsService{
		fetcher:  fetcher,
		sessions: sessions,
		cacheTTL: cfg.StandingsCacheTTL,
		pageSize: cfg.StandingsPageSize,
		now:      time.Now,
		logger:   logger,
	}
}

// Page renders the session's current page with filter applied.
func (s *StandingsService) Page(ctx context.Context, sessionID, filter string) (domain.Page, error) {
	return s.navigate(ctx, sessionID, filter, "view", false, nil)
}

// Next advances one page if the current page reports HasNext.
func (s *StandingsService) Next(ctx context.Context, sessionID, filter string) (domain.Page, error) {
	return s.navigate(ctx, sessionID, filter, "next", false, func(index domain.StandingsIndex, state domain.PageState, page domain.Page) (domain.PageState, bool) {
		if !page.HasNext {
			return state, false
		}
		return standings.Advance(index, state), true
	})
}

// Previous retreats one page if the current page reports HasPrev.
func (s *StandingsService) Previous(ctx context.Context, sessionID, filter string) (domain.Page, error) {
	return s.navigate(ctx, sessionID, filter, "previous", false, func(index domain.StandingsIndex, state domain.PageState, page domain.Page) (domain.PageState, bool) {
		if !page.HasPrev {
			return state, false
		}
		return standings.Retreat(index, state), true
	})
}

// Reload drops the session's cached index and loads it again.
func (s *StandingsService) Reload(ctx context.Context, sessionID, filter string) (domain.Page, error) {
	return s.navigate(ctx, sessionID, filter, "reload", true, nil)
}

type moveFunc func(index domain.StandingsIndex, state domain.PageState, page domain.Page) (domain.PageState, bool)

func (s *StandingsService) navigate(ctx context.Context, sessionID, filter, action string, force bool, move moveFunc) (domain.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		metrics.Navigations.WithLabelValues("standings", action, "no_session").Inc()
		return domain.Page{}, err
	}
	if err := sess.TryBegin(); err != nil {
		metrics.Navigations.WithLabelValues("standings", action, "busy").Inc()
		s.logger.Warn().Str("session_id", sessionID).Str("action", action).Msg("navigation rejected, another is in flight")
		return domain.Page{}, err
	}
	defer sess.End()

	if force {
		sess.InvalidateStandings()
		// a load already in flight may predate the reload request
		s.loads.Forget(standingsLoadKey)
	}

	index, err := s.index(ctx, sess)
	if err != nil {
		metrics.Navigations.WithLabelValues("standings", action, "error").Inc()
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to load standings")
		return domain.Page{}, err
	}

	if _, ok := index[sess.Page.SelectedYear]; !sess.PageReady || !ok {
		sess.Page = standings.InitialState(index, s.pageSize)
		sess.PageReady = true
	}

	page := standings.ComputeVisiblePage(index, filter, sess.Page)
	result := "ok"
	if move != nil {
		next, moved := move(index, sess.Page, page)
		if moved {
			sess.Page = next
			page = standings.ComputeVisiblePage(index, filter, next)
		} else {
			result = "noop"
		}
	}
	if page.Empty {
		result = "empty"
	}
	metrics.Navigations.WithLabelValues("standings", action, result).Inc()

	s.logger.Debug().
		Str("session_id", sess.ID).
		Str("action", action).
		Int("year", page.Year).
		Int("page", page.Page).
		Int("rows", len(page.Teams)).
		Bool("empty", page.Empty).
		Msg("standings page computed")

	return page, nil
}

// index returns the session's cached index, loading it when stale.
// Concurrent loads across sessions share one fetch.
func (s *StandingsService) index(ctx context.Context, sess *session.Session) (domain.StandingsIndex, error) {
	now := s.now()
	if sess.StandingsFresh(s.cacheTTL, now) {
		metrics.StandingsCache.WithLabelValues("hit").Inc()
		return sess.Standings, nil
	}
	metrics.StandingsCache.WithLabelValues("miss").Inc()

	// the shared load outlives any single caller; each caller waits on its own ctx
	results := s.loads.DoChan(standingsLoadKey, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.RequestTimeout)
		defer cancel()
		return s.fetcher.GetStandings(loadCtx)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-results:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	index := res.Val.(domain.StandingsIndex)
	sess.SetStandings(index, now)
	s.logger.Debug().
		Str("session_id", sess.ID).
		Int("years", len(index)).
		Bool("shared", res.Shared).
		Msg("standings loaded")
	return index, nil
}
