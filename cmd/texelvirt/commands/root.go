// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelvirt/commands/root.go
// Summary: Root command and logging setup.

package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/framegrace/texelvirt/config"
	"github.com/framegrace/texelvirt/internal/devshell"
)

// Version is stamped at build time.
var Version = "dev"

type rootOptions struct {
	logFile string
	logOpen *os.File
}

// NewRootCommand builds the texelvirt command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "texelvirt",
		Short: "Scroll through very long lists in the terminal",
		Long: `texelvirt shows files, query results and command output as a
virtualized list: only the rows near the screen are laid out.

Commands:
  view      Show a file
  sql       Show the result of a SQLite query
  run       Show the output of a command as it arrives
  list      List saved views
  open      Open a saved view
  window    Print the computed window for a scroll offset`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.setupLogging()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.logOpen != nil {
				opts.logOpen.Close()
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "append logs to this file (default: log.file from texelvirt.json)")

	root.AddCommand(newViewCommand(opts))
	root.AddCommand(newSQLCommand(opts))
	root.AddCommand(newRunCommand(opts))
	root.AddCommand(newListCommand())
	root.AddCommand(newOpenCommand(opts))
	root.AddCommand(newWindowCommand())
	root.AddCommand(versionCmd())
	return root
}

func (o *rootOptions) setupLogging() error {
	path := o.logFile
	if path == "" {
		path = config.System().GetString("log", "file", "")
	}
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	o.logOpen = f
	log.SetOutput(f)
	return nil
}

// fullScreen runs builder on the terminal. Logs would corrupt the screen,
// so they are dropped unless a log file is set.
func (o *rootOptions) fullScreen(builder devshell.Builder, args []string) error {
	if o.logOpen == nil {
		prev := log.Writer()
		log.SetOutput(io.Discard)
		defer log.SetOutput(prev)
	}
	return devshell.Run(builder, args)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "texelvirt %s\n", Version)
		},
	}
}
