package main

import (
	"io"
	"os"

	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"companyfinder/internal/app"
	"companyfinder/internal/config"
	"companyfinder/internal/logger"
)

// cli carries the state shared by every command.
type cli struct {
	cfg     *config.Config
	app     *app.App
	out     io.Writer
	openURL func(string) error
}

func newRootCmd() *cobra.Command {
	return (&cli{openURL: browser.OpenURL}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "companyfinder",
		Short:         "Find which companies asked a LeetCode problem",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger.InitTo(os.Stderr, true)
			if !verbose {
				logger.Log = logger.Log.Level(zerolog.WarnLevel)
			}

			c.out = cmd.OutOrStdout()
			pterm.SetDefaultOutput(c.out)

			c.cfg = config.Load()
			a, err := app.New(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Close()
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log refresh and cache activity to stderr")

	root.AddCommand(
		newLookupCmd(c),
		newRefreshCmd(c),
		newStatusCmd(c),
		newClearCmd(c),
		newOpenCmd(c),
	)
	return root
}
