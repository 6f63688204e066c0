// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelvirt/commands/view.go
// Summary: view, sql and run commands open the list viewer full-screen.

package commands

import (
	"github.com/spf13/cobra"

	"github.com/framegrace/texelvirt/internal/devshell"
	"github.com/framegrace/texelvirt/scroll"
	"github.com/framegrace/texelvirt/source"
	"github.com/framegrace/texelvirt/texel"
)

func newViewCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view FILE",
		Short: "Show a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			builder, err := devshell.Lookup("listview")
			if err != nil {
				return err
			}
			return opts.fullScreen(builder, args)
		},
	}
}

func newSQLCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sql DATABASE QUERY",
		Short: "Show the result of a SQLite query",
		Long: `Run QUERY against the SQLite file DATABASE, opened read-only, and show
one row per result row with the column names as banner.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := source.LoadSQLite(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return opts.fullScreen(func(_ []string, sched scroll.Scheduler) (texel.App, error) {
				return devshell.ListView(rows, sched)
			}, nil)
		},
	}
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run -- COMMAND [ARGS...]",
		Short: "Show the output of a command as it arrives",
		Long: `Start COMMAND on a pseudo terminal and show its output. The view
follows new rows until you scroll up; scroll to the bottom to follow again.
The command is killed when the viewer exits.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			builder, err := devshell.Lookup("run")
			if err != nil {
				return err
			}
			return opts.fullScreen(builder, args)
		},
	}
}
