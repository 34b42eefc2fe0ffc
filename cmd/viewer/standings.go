package main

import (
	"fmt"
	"viewer/internal/config"
	fxmodules "viewer/internal/fx"
	"viewer/internal/render"
	"viewer/internal/service"
	"viewer/internal/standings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func NewStandingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print one page of season standings",
		Long: `Standings loads the configured standings source and prints one page.
Without --year the latest season is shown.

Examples:
  viewer standings
  viewer standings --year 2023 --page 2
  viewer standings --filter hawks`,
		Args: cobra.NoArgs,
		RunE: runStandingsCmd,
	}

	cmd.Flags().IntP("year", "y", 0, "Season year (default latest)")
	cmd.Flags().IntP("page", "p", 1, "Page within the year")
	cmd.Flags().StringP("filter", "f", "", "Case-insensitive team name filter")

	return cmd
}

func runStandingsCmd(cmd *cobra.Command, _ []string) error {
	year, _ := cmd.Flags().GetInt("year")
	page, _ := cmd.Flags().GetInt("page")
	filter, _ := cmd.Flags().GetString("filter")
	if page < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", page)
	}
	quietLogs(cmd)

	var (
		cfg     *config.Config
		fetcher service.StandingsFetcher
	)
	app := fx.New(
		fxmodules.CoreModule,
		fx.NopLogger,
		fx.Populate(&cfg, &fetcher),
	)
	if err := startApp(cmd.Context(), app); err != nil {
		return err
	}
	defer stopApp(app)

	index, err := fetcher.GetStandings(cmd.Context())
	if err != nil {
		return &commandError{msg: render.StandingsErrorMessage(err), err: err}
	}

	state := standings.InitialState(index, cfg.StandingsPageSize)
	if year != 0 {
		state.SelectedYear = year
	}
	state.CurrentPage = page

	fmt.Fprintln(cmd.OutOrStdout(), render.Standings(standings.ComputeVisiblePage(index, filter, state)))
	return nil
}
