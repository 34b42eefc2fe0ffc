package fx

import (
	"testing"
	"viewer/internal/server"
	"viewer/internal/service"

	"go.uber.org/fx"
)

func TestModuleGraph(t *testing.T) {
	err := fx.ValidateApp(
		Module,
		fx.Invoke(func(*server.ViewerServer, *service.Pruner) {}),
	)
	if err != nil {
		t.Fatalf("dependency graph is incomplete: %v", err)
	}
}

func TestCoreModuleGraph(t *testing.T) {
	err := fx.ValidateApp(
		CoreModule,
		fx.Invoke(func(*service.ProfileService, *service.StandingsService, service.StandingsFetcher) {}),
	)
	if err != nil {
		t.Fatalf("dependency graph is incomplete: %v", err)
	}
}
