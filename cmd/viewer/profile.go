package main

import (
	"context"
	"errors"
	"fmt"
	"viewer/internal/constants"
	fxmodules "viewer/internal/fx"
	"viewer/internal/render"
	"viewer/internal/service"
	"viewer/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Fetch and print random user profiles",
		Long: `Profile fetches random users with the configured retry policy and
prints each one as a card.

Examples:
  viewer profile
  viewer profile --count 3
  viewer profile --name "Jane Doe"`,
		Args: cobra.NoArgs,
		RunE: runProfileCmd,
	}

	cmd.Flags().IntP("count", "n", 1, "Number of profiles to fetch")
	cmd.Flags().String("name", "", `Replace the first profile's name ("First Last")`)

	return cmd
}

func runProfileCmd(cmd *cobra.Command, _ []string) error {
	count, _ := cmd.Flags().GetInt("count")
	name, _ := cmd.Flags().GetString("name")
	if count < 1 {
		return errors.New("--count must be at least 1")
	}
	quietLogs(cmd)

	var (
		sessions *session.Store
		profiles *service.ProfileService
	)
	app := fx.New(
		fxmodules.CoreModule,
		fx.NopLogger,
		fx.Populate(&sessions, &profiles),
	)
	if err := startApp(cmd.Context(), app); err != nil {
		return err
	}
	defer stopApp(app)

	ctx := cmd.Context()
	sess := sessions.Create()

	for i := range count {
		var (
			view service.ProfileView
			err  error
		)
		switch {
		case i == 0 && cmd.Flags().Changed("name"):
			view, err = profiles.Search(ctx, sess.ID, name)
		case i == 0:
			view, err = profiles.Start(ctx, sess.ID)
		default:
			view, err = profiles.Next(ctx, sess.ID, "")
		}
		if err != nil {
			return &commandError{msg: render.ProfileErrorMessage(err), err: err}
		}
		position := fmt.Sprintf("%d of %d", view.Cursor+1, count)
		fmt.Fprintln(cmd.OutOrStdout(), render.Profile(*view.Profile, position))
	}
	return nil
}

func startApp(ctx context.Context, app *fx.App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startCtx, cancel := context.WithTimeout(ctx, constants.ShutdownTimeout)
	defer cancel()
	return app.Start(startCtx)
}

func stopApp(app *fx.App) {
	stopCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	_ = app.Stop(stopCtx)
}
