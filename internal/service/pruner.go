package service

import (
	"context"
	"time"
	"viewer/internal/config"
	"viewer/internal/constants"
	"viewer/internal/repository"

	"github.com/rs/zerolog"
)

// Pruner trims the diagnostics table to the configured retention.
type Pruner struct {
	repo      *repository.AttemptRepository
	retention time.Duration
	logger    zerolog.Logger
}

func NewPruner(repo *repository.AttemptRepository, cfg *config.Config, logger zerolog.Logger) *Pruner {
	return &Pruner{repo: repo, retention: cfg.AttemptRetention, logger: logger}
}

// Run prunes once immediately and then periodically until ctx is done.
func (p *Pruner) Run(ctx context.Context) {
	if p.retention <= 0 {
		return
	}

	interval := min(p.retention/10, time.Hour)
	interval = max(interval, time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.prune(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	n, err := p.repo.Prune(ctx, time.Now().Add(-p.retention))
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to prune fetch attempts")
		return
	}
	if n > 0 {
		p.logger.Info().Int64("deleted", n).Msg("pruned fetch attempts")
	}
}
