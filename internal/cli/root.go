// seehuhn.de/go/pdfedit - structural editing of PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package cli implements the pdfedit command line tool.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"seehuhn.de/go/pdfedit/internal/profile"
	"seehuhn.de/go/pdfedit/logging"
)

// RootOptions holds the global flags.
type RootOptions struct {
	Verbose    bool
	LogFormat  string // "text" or "json"
	CPUProfile string
	MemProfile string

	stopProfile func()
}

// NewRootCommand creates the root command of the command line tool.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pdfedit",
		Short: "Structural editing of PDF files",
		Long: `pdfedit merges PDF files, and extracts, deletes, reorders and
rotates pages.  Page contents are copied unchanged.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			logger, err := logging.New(cmd.ErrOrStderr(), opts.LogFormat, level)
			if err != nil {
				return usageError("%v", err)
			}
			logging.SetLogger(logger)

			opts.stopProfile, err = profile.Start(opts.CPUProfile, opts.MemProfile)
			if err != nil {
				return &ExitError{Code: ExitFailure, Message: "profiling", Err: err}
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.stopProfile != nil {
				opts.stopProfile()
			}
		},
	}

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "show debug messages")
	flags.StringVar(&opts.LogFormat, "log-format", "text", "log format (text|json)")
	flags.StringVar(&opts.CPUProfile, "cpuprofile", "", "write a CPU profile to `file`")
	flags.StringVar(&opts.MemProfile, "memprofile", "", "write a memory profile to `file`")

	cmd.AddCommand(NewMergeCommand(opts))
	cmd.AddCommand(NewExtractCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewReorderCommand(opts))
	cmd.AddCommand(NewRotateCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// exactArgs is like [cobra.ExactArgs], but reports a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError("%s: expected %d arguments, got %d",
				cmd.Name(), n, len(args))
		}
		return nil
	}
}

// minArgs is like [cobra.MinimumNArgs], but reports a usage error.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageError("%s: expected at least %d arguments, got %d",
				cmd.Name(), n, len(args))
		}
		return nil
	}
}
