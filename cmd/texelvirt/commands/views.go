// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelvirt/commands/views.go
// Summary: list and open commands for saved views.

package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/framegrace/texelvirt/config"
	"github.com/framegrace/texelvirt/internal/devshell"
	"github.com/framegrace/texelvirt/registry"
	"github.com/framegrace/texelvirt/scroll"
	"github.com/framegrace/texelvirt/texel"
)

func init() {
	registry.RegisterBuiltInProvider(func(*registry.Registry) *registry.Manifest {
		root, err := config.Root()
		if err != nil {
			return nil
		}
		return &registry.Manifest{
			Name:        "config",
			DisplayName: "System config",
			Description: "The texelvirt.json in use",
			Kind:        registry.KindFile,
			Path:        filepath.Join(root, "texelvirt.json"),
			Category:    "system",
		}
	})
}

func loadViews() (*registry.Registry, error) {
	// Seeds texelvirt.json so the built-in config view has a file to show.
	config.System()

	reg := registry.New()
	registry.RegisterBuiltIns(reg)
	dir, err := config.ViewsDir()
	if err != nil {
		return nil, err
	}
	if err := reg.Scan(dir); err != nil {
		return nil, err
	}
	return reg, nil
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved views",
		Long: `List the built-in views and the views saved under the config root.
Each view is a directory in views/ holding a manifest.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadViews()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			byCategory := reg.ListByCategory()
			categories := make([]string, 0, len(byCategory))
			for c := range byCategory {
				categories = append(categories, c)
			}
			sort.Strings(categories)
			for _, c := range categories {
				fmt.Fprintf(out, "%s:\n", c)
				for _, e := range byCategory[c] {
					m := e.Manifest
					fmt.Fprintf(out, "  %-16s %-8s %s\n", m.Name, m.Kind, m.DisplayName)
				}
			}
			return nil
		},
	}
}

func newOpenCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open NAME",
		Short: "Open a saved view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadViews()
			if err != nil {
				return err
			}
			if reg.Get(args[0]) == nil {
				return fmt.Errorf("view not found: %s", args[0])
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return opts.fullScreen(func(_ []string, sched scroll.Scheduler) (texel.App, error) {
				rows, err := reg.Open(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return devshell.ListView(rows, sched)
			}, nil)
		},
	}
}
