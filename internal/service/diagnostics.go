package service

import (
	"context"
	"time"
	"viewer/internal/api"
	"viewer/internal/constants"
	"viewer/internal/domain"
	"viewer/internal/middleware"
	"viewer/internal/repository"

	"github.com/rs/zerolog"
)

// AttemptRecorder is the api.AttemptObserver used in production: every
// failed attempt is logged and written to the diagnostics table.
type AttemptRecorder struct {
	repo   *repository.AttemptRepository
	logger zerolog.Logger
}

func NewAttemptRecorder(repo *repository.AttemptRepository, logger zerolog.Logger) *AttemptRecorder {
	return &AttemptRecorder{repo: repo, logger: logger}
}

func (r *AttemptRecorder) ObserveFailure(ctx context.Context, a api.FailedAttempt) {
	log := r.logger
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		log = *l
	}

	event := log.Warn().
		Str("source", a.Source).
		Int("attempt", a.Attempt).
		Str("kind", a.Kind.String()).
		Int("status", a.Status).
		Dur("duration", a.Duration)
	if a.Kind == domain.Timeout {
		event.Msg("fetch attempt failed due to timeout")
	} else {
		event.Str("error", a.Message).Msg("fetch attempt failed")
	}

	if r.repo == nil {
		return
	}

	// the request may already be cancelled; the diagnostic row still goes in
	dbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DatabaseTimeout)
	defer cancel()

	err := r.repo.Insert(dbCtx, &repository.Attempt{
		Source:    a.Source,
		URL:       a.URL,
		Attempt:   a.Attempt,
		Kind:      a.Kind.String(),
		Message:   a.Message,
		Status:    a.Status,
		Duration:  a.Duration,
		RequestID: middleware.GetRequestID(ctx),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to record fetch attempt")
	}
}

type DiagnosticsSummary struct {
	Source string               `json:"source"`
	Since  time.Time            `json:"since"`
	Counts map[string]int       `json:"counts"`
	Recent []repository.Attempt `json:"recent"`
}

type DiagnosticsService struct {
	repo   *repository.AttemptRepository
	logger zerolog.Logger
}

func NewDiagnosticsService(repo *repository.AttemptRepository, logger zerolog.Logger) *DiagnosticsService {
	return &DiagnosticsService{repo: repo, logger: logger}
}

// Summary reports failed attempts for source over the trailing window.
func (s *DiagnosticsService) Summary(ctx context.Context, source string, window time.Duration, limit int) (*DiagnosticsSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	since := time.Now().Add(-window)
	counts, err := s.repo.CountByKind(ctx, source, since)
	if err != nil {
		s.logger.Error().Err(err).Str("source", source).Msg("failed to count attempts")
		return nil, err
	}
	recent, err := s.repo.Recent(ctx, source, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("source", source).Msg("failed to list attempts")
		return nil, err
	}

	return &DiagnosticsSummary{Source: source, Since: since, Counts: counts, Recent: recent}, nil
}
