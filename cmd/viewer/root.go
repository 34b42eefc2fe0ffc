package main

import (
	"fmt"
	"os"
	"viewer/internal/render"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for viewer.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewer",
		Short: "Random profile and sports standings viewer",
		Long: `viewer browses random user profiles with retry and history navigation,
and pages through season standings year by year.

Run 'viewer serve' to expose both viewers over connect, or use the
profile and standings commands for a one-shot terminal view.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable logging for one-shot commands")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewProfileCmd())
	cmd.AddCommand(NewStandingsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render.Error(err))
		os.Exit(1)
	}
}

// commandError carries the text a command wants shown for err.
type commandError struct {
	msg string
	err error
}

func (e *commandError) Error() string { return e.msg }

func (e *commandError) Unwrap() error { return e.err }

// quietLogs silences zerolog for terminal commands unless --verbose is set.
func quietLogs(cmd *cobra.Command) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
}
