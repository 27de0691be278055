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

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"seehuhn.de/go/pdfedit/internal/server"
	"seehuhn.de/go/pdfedit/logging"
)

type serveOptions struct {
	Config  string
	Addr    string
	Workers int
	TempDir string
	Spool   bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server.

Settings are read from the YAML file given by --config, if any.
Command line flags take precedence over the configuration file.
The server shuts down gracefully on SIGINT and SIGTERM.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := serveConfig(cmd, opts)
			if err != nil {
				return err
			}

			if !rootOpts.Verbose {
				level, err := logging.ParseLevel(cfg.LogLevel)
				if err != nil {
					return usageError("%v", err)
				}
				logger, err := logging.New(cmd.ErrOrStderr(), rootOpts.LogFormat, level)
				if err != nil {
					return usageError("%v", err)
				}
				logging.SetLogger(logger)
			}

			s, err := server.New(cfg, logging.Logger())
			if err != nil {
				return usageError("%v", err)
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err = s.ListenAndServe(ctx)
			if err != nil {
				return &ExitError{Code: ExitFailure, Message: "server", Err: err}
			}
			return nil
		},
	}

	addServeFlags(cmd, opts)
	return cmd
}

func addServeFlags(cmd *cobra.Command, opts *serveOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.Config, "config", "c", "", "YAML configuration `file`")
	flags.StringVar(&opts.Addr, "addr", "", "address to listen on (default \":8080\")")
	flags.IntVar(&opts.Workers, "workers", 0, "number of concurrent operations (default 4)")
	flags.StringVar(&opts.TempDir, "temp-dir", "", "`directory` for temporary files")
	flags.BoolVar(&opts.Spool, "spool", false, "stage results in temporary files")
}

// serveConfig combines the configuration file with the command line
// flags.
func serveConfig(cmd *cobra.Command, opts *serveOptions) (*server.Config, error) {
	cfg := server.DefaultConfig()
	if opts.Config != "" {
		var err error
		cfg, err = server.LoadConfig(opts.Config)
		if err != nil {
			return nil, usageError("%v", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = opts.Addr
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.Workers
	}
	if flags.Changed("temp-dir") {
		cfg.TempDir = opts.TempDir
	}
	if flags.Changed("spool") {
		cfg.Spool = opts.Spool
	}

	err := cfg.Validate()
	if err != nil {
		return nil, usageError("%v", err)
	}
	return cfg, nil
}
