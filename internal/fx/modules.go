package fx

import (
	"viewer/internal/api"
	"viewer/internal/config"
	"viewer/internal/database"
	"viewer/internal/logger"
	"viewer/internal/repository"
	"viewer/internal/server"
	"viewer/internal/service"
	"viewer/internal/session"

	"go.uber.org/fx"
)

func ProvideProfileFetcher(c *api.Client) service.ProfileFetcher {
	return c
}

func ProvideStandingsFetcher(c *api.Client) service.StandingsFetcher {
	return c
}

// CoreModule is everything but the transport; the CLI commands run on it.
var CoreModule = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewAttemptRepository),
	// api client
	fx.Provide(fx.Annotate(service.NewAttemptRecorder, fx.As(new(api.AttemptObserver)))),
	fx.Provide(api.NewClient),
	fx.Provide(ProvideProfileFetcher),
	fx.Provide(ProvideStandingsFetcher),
	// svc
	fx.Provide(session.NewStore),
	fx.Provide(service.NewProfileService),
	fx.Provide(service.NewStandingsService),
	fx.Provide(service.NewDiagnosticsService),
	fx.Provide(service.NewPruner),
)

var Module = fx.Options(
	CoreModule,
	// server
	fx.Provide(server.NewViewerServer),
)
