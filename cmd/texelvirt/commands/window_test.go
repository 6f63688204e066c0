// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framegrace/texelvirt/cmd/texelvirt/commands"
	"github.com/framegrace/texelvirt/config"
)

func writeLines(t *testing.T, n int, long map[int]int) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < n; i++ {
		if w, ok := long[i]; ok {
			b.WriteString(strings.Repeat("x", w))
		} else {
			fmt.Fprintf(&b, "line %d", i)
		}
		b.WriteByte('\n')
	}
	path := filepath.Join(t.TempDir(), "rows.txt")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv(config.DirEnv, t.TempDir())
	require.NoError(t, config.Reload())

	var out bytes.Buffer
	root := commands.NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestWindow_Top(t *testing.T) {
	path := writeLines(t, 100, nil)
	out := execute(t, "window", path, "--width", "40", "--height", "11")
	assert.Equal(t, "rows [0, 14) of 100  offset 0  sheet 102\n", out)
}

func TestWindow_Scrolled(t *testing.T) {
	path := writeLines(t, 100, nil)
	out := execute(t, "window", path, "--width", "40", "--height", "11", "--scroll", "50", "--print")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 21)
	assert.Equal(t, "rows [44, 64) of 100  offset 44  sheet 102", lines[0])
	assert.Equal(t, " 45 line 44", lines[1])
	assert.Equal(t, " 64 line 63", lines[20])
}

func TestWindow_MeasuresWrappedRows(t *testing.T) {
	// Row 0 wraps to three lines at 37 content cells.
	path := writeLines(t, 20, map[int]int{0: 80})
	out := execute(t, "window", path, "--width", "40", "--height", "11")
	assert.Equal(t, "rows [0, 12) of 20  offset 0  sheet 24\n", out)
}

func TestWindow_MissingFile(t *testing.T) {
	t.Setenv(config.DirEnv, t.TempDir())
	root := commands.NewRootCommand()
	root.SetArgs([]string{"window", filepath.Join(t.TempDir(), "nope")})
	root.SetOut(&bytes.Buffer{})
	assert.Error(t, root.Execute())
}

func TestVersion(t *testing.T) {
	out := execute(t, "version")
	assert.Equal(t, "texelvirt dev\n", out)
}
