// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelvirt/commands/window.go
// Summary: Headless window computation for a file and scroll offset.
// Usage: texelvirt window FILE --scroll 500 [--height 40] [--width 120] [--print]

package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/framegrace/texelvirt/apps/listview"
	"github.com/framegrace/texelvirt/config"
	"github.com/framegrace/texelvirt/scroll"
	"github.com/framegrace/texelvirt/source"
)

const (
	fallbackWidth  = 80
	fallbackHeight = 24

	// maxSettleRounds bounds the measure/recompute loop.
	maxSettleRounds = 16
)

type windowOptions struct {
	scrollTop float64
	width     int
	height    int
	print     bool
}

func newWindowCommand() *cobra.Command {
	wo := &windowOptions{}
	cmd := &cobra.Command{
		Use:   "window FILE",
		Short: "Print the computed window for a scroll offset",
		Long: `Compute which rows the viewer would materialize for FILE at the given
scroll offset, measuring wrapped rows the way the viewer does. Screen size
defaults to the current terminal, or 80x24 when there is none.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := source.LoadFile(args[0])
			if err != nil {
				return err
			}
			w, h := wo.screenSize()
			settings := config.ListView(config.App(config.ListViewApp))
			return printWindow(cmd.OutOrStdout(), rows, settings, wo.scrollTop, w, h, wo.print)
		},
	}
	cmd.Flags().Float64Var(&wo.scrollTop, "scroll", 0, "scroll offset in screen lines")
	cmd.Flags().IntVar(&wo.width, "width", 0, "screen width (default: terminal width)")
	cmd.Flags().IntVar(&wo.height, "height", 0, "screen height (default: terminal height)")
	cmd.Flags().BoolVar(&wo.print, "print", false, "print the materialized rows")
	return cmd
}

func (wo *windowOptions) screenSize() (int, int) {
	w, h := fallbackWidth, fallbackHeight
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 && th > 0 {
		w, h = tw, th
	}
	if wo.width > 0 {
		w = wo.width
	}
	if wo.height > 0 {
		h = wo.height
	}
	return w, h
}

// printWindow drives a controller synchronously until the window stops
// moving, then prints it. The last screen line is the status line, as in
// the viewer.
func printWindow(out io.Writer, rows *source.Lines, settings config.ListViewSettings, scrollTop float64, width, height int, printRows bool) error {
	var slice scroll.Slice[string]
	ctrl, err := scroll.NewController[string](rows, scroll.Funcs[string]{
		OnSlice: func(s scroll.Slice[string]) { slice = s },
	}, settings.Scroll, scroll.WithInvariantChecks(settings.InvariantChecks))
	if err != nil {
		return err
	}
	defer ctrl.Close()

	contentWidth := listview.ContentWidth(width, rows.Len())
	ctrl.OnScroll(scrollTop, float64(max(height-1, 0)))
	ctrl.Flush()
	for round := 0; round < maxSettleRounds; round++ {
		w := ctrl.Window()
		ctrl.OnMeasuredRange(w.Start, listview.Measure(rows.Slice(w.Start, w.End), contentWidth, settings.Wrap))
		if !ctrl.Flush() {
			break
		}
	}

	w := ctrl.Window()
	fmt.Fprintf(out, "rows [%s, %s) of %s  offset %s  sheet %s\n",
		humanize.Comma(int64(w.Start)),
		humanize.Comma(int64(w.End)),
		humanize.Comma(int64(rows.Len())),
		humanize.Ftoa(w.StartTop),
		humanize.Ftoa(w.TotalHeight))

	if printRows {
		digits := len(strconv.Itoa(max(rows.Len(), 1)))
		for i, r := range slice.Rows {
			fmt.Fprintf(out, "%*d %s\n", digits, slice.Start+i+1, r)
		}
	}
	return nil
}
