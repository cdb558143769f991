package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wastezero/wastezero/internal/logging"
	"github.com/wastezero/wastezero/internal/profile"
	"github.com/wastezero/wastezero/internal/storage"
)

// storageOpener returns a store and a func releasing it.
type storageOpener func(ctx context.Context) (storage.Storage, func(), error)

func newRootCmd(open storageOpener) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "wzctl",
		Short:         "Inspect the WasteZero local profile store",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level for diagnostics written to stderr")

	withStore := func(cmd *cobra.Command, fn func(ctx context.Context, s *profile.Store, out io.Writer) error) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		kv, closeFn, err := open(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		logger := logging.NewWithWriter(os.Stderr, logLevel)
		return fn(ctx, profile.NewStore(kv, logger), cmd.OutOrStdout())
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "profile",
			Short: "Print the stored profile as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withStore(cmd, func(ctx context.Context, s *profile.Store, out io.Writer) error {
					return printJSON(out, s.Load(ctx))
				})
			},
		},
		&cobra.Command{
			Use:   "session",
			Short: "Print the last login marker",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withStore(cmd, func(ctx context.Context, s *profile.Store, out io.Writer) error {
					sess, ok := s.LoadSession(ctx)
					if !ok {
						_, err := fmt.Fprintln(out, "no session recorded")
						return err
					}
					return printJSON(out, sess)
				})
			},
		},
		&cobra.Command{
			Use:       "theme [light|dark]",
			Short:     "Show or set the theme preference",
			Args:      cobra.MaximumNArgs(1),
			ValidArgs: []string{string(profile.ThemeLight), string(profile.ThemeDark)},
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, func(ctx context.Context, s *profile.Store, out io.Writer) error {
					if len(args) == 0 {
						t, ok := s.LoadTheme(ctx)
						if !ok {
							t = "system"
						}
						_, err := fmt.Fprintln(out, t)
						return err
					}
					t, ok := profile.ParseTheme(args[0])
					if !ok {
						return fmt.Errorf("theme must be light or dark, got %q", args[0])
					}
					if err := s.SaveTheme(ctx, t); err != nil {
						return err
					}
					_, err := fmt.Fprintln(out, t)
					return err
				})
			},
		},
	)

	return root
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
