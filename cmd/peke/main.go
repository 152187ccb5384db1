package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nachokhan/peke-panel/internal/app"
	"github.com/nachokhan/peke-panel/internal/prefs"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "peke: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:           "peke",
		Short:         "Terminal control panel for a container host",
		Long:          `peke shows the containers of a remote host, lets you start, stop and restart them, and opens floating log and shell panels.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file path (default ~/.config/peke/config.toml)")
	root.Flags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file path (default "+prefs.DefaultPath()+")")
	root.Flags().IntVar(&opts.PollEvery, "poll", 0, "status refresh interval in seconds (default from config)")
	root.Flags().StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Remove the saved session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			had, err := app.Logout(opts)
			if err != nil {
				return err
			}
			if had {
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved session.")
			}
			return nil
		},
	})

	root.AddCommand(newLogCmd(&opts))

	return root
}

func newLogCmd(opts *app.Options) *cobra.Command {
	var lines int
	var level string
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the tail of the peke log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, path, err := app.LogTail(*opts, lines, level)
			if err != nil {
				return err
			}
			if len(out) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "no log lines in %s\n", path)
				return nil
			}
			w := cmd.OutOrStdout()
			for _, line := range out {
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "number of lines to show (0 for all)")
	cmd.Flags().StringVar(&level, "level", "", "minimum level to show")
	return cmd
}
