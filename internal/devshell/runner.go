// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/devshell/runner.go
// Summary: Runs a single app full-screen on a local tcell screen.

package devshell

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelvirt/apps/listview"
	"github.com/framegrace/texelvirt/config"
	"github.com/framegrace/texelvirt/scroll"
	"github.com/framegrace/texelvirt/source"
	"github.com/framegrace/texelvirt/texel"
)

// Builder constructs a texel.App, optionally using CLI args. sched delivers
// callbacks on the screen loop.
type Builder func(args []string, sched scroll.Scheduler) (texel.App, error)

var registry = map[string]Builder{
	"listview": func(args []string, sched scroll.Scheduler) (texel.App, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("listview: expected one file, got %d args", len(args))
		}
		rows, err := source.LoadFile(args[0])
		if err != nil {
			return nil, err
		}
		return ListView(rows, sched)
	},
	"run": func(args []string, sched scroll.Scheduler) (texel.App, error) {
		cmd, err := source.StartCommand(args, 80, 24)
		if err != nil {
			return nil, err
		}
		return ListView(cmd, sched)
	},
}

// ListView builds a listview app from the user's listview config.
func ListView(rows listview.Rows, sched scroll.Scheduler) (texel.App, error) {
	settings := config.ListView(config.App(config.ListViewApp))
	return listview.New(rows, settings, sched)
}

var screenFactory = tcell.NewScreen

// SetScreenFactory overrides the screen factory used by Run. Passing nil restores the default.
func SetScreenFactory(factory func() (tcell.Screen, error)) {
	if factory == nil {
		screenFactory = tcell.NewScreen
		return
	}
	screenFactory = factory
}

// Run executes the provided builder inside a local tcell screen.
func Run(builder Builder, args []string) error {
	screen, err := screenFactory()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()

	app, err := builder(args, NewEventScheduler(screen))
	if err != nil {
		return err
	}

	screen.Clear()
	screen.EnableMouse()
	defer screen.DisableMouse()
	screen.EnablePaste()

	refreshCh := make(chan bool, 1)
	app.SetRefreshNotifier(refreshCh)
	width, height := screen.Size()
	app.Resize(width, height)

	draw := func() {
		screen.Clear()
		buffer := app.Render()
		for y := 0; y < len(buffer); y++ {
			row := buffer[y]
			for x := 0; x < len(row); x++ {
				cell := row[x]
				if cell.Ch == 0 {
					// Trailing half of a wide rune.
					continue
				}
				screen.SetContent(x, y, cell.Ch, nil, cell.Style)
			}
		}
		screen.Show()
	}

	draw()

	runErr := make(chan error, 1)
	go func() {
		runErr <- app.Run()
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()
	defer app.Stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-refreshCh:
				screen.PostEvent(tcell.NewEventInterrupt(nil))
			case <-done:
				return
			}
		}
	}()

	var pasteBuffer []byte
	var inPaste bool

	for {
		select {
		case err := <-runErr:
			return err
		default:
		}

		ev := screen.PollEvent()
		switch tev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if fn, ok := tev.Data().(func()); ok {
				fn()
			}
			draw()
		case *tcell.EventResize:
			w, h := tev.Size()
			app.Resize(w, h)
			draw()
		case *tcell.EventPaste:
			if tev.Start() {
				inPaste = true
				pasteBuffer = nil
			} else if tev.End() {
				inPaste = false
				if ph, ok := app.(texel.PasteHandler); ok && len(pasteBuffer) > 0 {
					ph.HandlePaste(pasteBuffer)
					draw()
				}
				pasteBuffer = nil
			}
		case *tcell.EventKey:
			if tev.Key() == tcell.KeyCtrlC {
				return nil
			}
			if inPaste {
				if tev.Key() == tcell.KeyRune {
					pasteBuffer = append(pasteBuffer, []byte(string(tev.Rune()))...)
				} else if tev.Key() == tcell.KeyEnter || tev.Key() == 10 {
					pasteBuffer = append(pasteBuffer, '\n')
				}
			} else {
				app.HandleKey(tev)
				draw()
			}
		case *tcell.EventMouse:
			if mh, ok := app.(texel.MouseHandler); ok {
				mh.HandleMouse(tev)
				draw()
			}
		}
	}
}

// Lookup returns the registered builder for name.
func Lookup(name string) (Builder, error) {
	buildApp, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown app %q", name)
	}
	return buildApp, nil
}

// RunApp finds a registered builder by name and runs it.
func RunApp(name string, args []string) error {
	buildApp, err := Lookup(name)
	if err != nil {
		return err
	}
	return Run(buildApp, args)
}
