// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: source/command.go
// Summary: Streams the output of a command running in a pty into rows.
// Usage: The list grows while the command runs; the owner reacts through
// the Lines notify hook.

package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

// ansiPattern matches CSI and OSC escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)

// Command runs a process on a pseudo terminal and collects its output.
type Command struct {
	*Lines

	cmd *exec.Cmd
	tty *os.File

	done     chan struct{}
	err      error
	stopOnce sync.Once
}

// StartCommand starts argv[0] with the remaining arguments on a pty of the
// given size.
func StartCommand(argv []string, cols, rows int) (*Command, error) {
	if len(argv) == 0 {
		return nil, errors.New("no command given")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(),
		"TERM=dumb",
		"COLUMNS="+strconv.Itoa(cols),
		"LINES="+strconv.Itoa(rows),
	)

	tty, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(max(rows, 1)),
		Cols: uint16(max(cols, 1)),
	})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}

	c := &Command{
		Lines: NewLines(strings.Join(argv, " "), nil),
		cmd:   cmd,
		tty:   tty,
		done:  make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Command) readLoop() {
	defer close(c.done)
	r := bufio.NewReader(c.tty)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			if strings.HasSuffix(line, "\n") || err != nil {
				c.Append(stripControls(line))
			}
		}
		if err != nil {
			// Linux reports EIO on the master once the child side closes.
			if !errors.Is(err, io.EOF) && !errors.Is(err, syscall.EIO) && !errors.Is(err, os.ErrClosed) {
				c.err = err
			}
			break
		}
	}
	if werr := c.cmd.Wait(); werr != nil && c.err == nil {
		c.err = werr
	}
	c.tty.Close()
}

func stripControls(s string) string {
	s = strings.TrimRight(s, "\r\n")
	s = ansiPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\r", "")
	return cleanLine(s)
}

// Done is closed once the command exited and all output was collected.
func (c *Command) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the command exits and returns its error.
func (c *Command) Wait() error {
	<-c.done
	return c.err
}

// Resize informs the command of a new terminal size.
func (c *Command) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	pty.Setsize(c.tty, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Stop kills the command if it is still running.
func (c *Command) Stop() {
	c.stopOnce.Do(func() {
		select {
		case <-c.done:
			return
		default:
		}
		if c.cmd.Process != nil {
			c.cmd.Process.Kill()
		}
	})
}
