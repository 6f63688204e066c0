// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines_SliceClamps(t *testing.T) {
	l := NewLines("x", []string{"a", "b", "c"})

	assert.Equal(t, []string{"b", "c"}, l.Slice(1, 10))
	assert.Nil(t, l.Slice(3, 5))
	assert.Nil(t, l.Slice(2, 1))
	assert.Equal(t, "", l.Line(7))
	assert.Equal(t, "a\nb", l.Sample(2))
}

func TestLines_AppendNotifies(t *testing.T) {
	l := NewLines("x", nil)
	var calls atomic.Int32
	l.SetNotify(func() { calls.Add(1) })

	l.Append()
	l.Append("one", "two")
	l.Append("three")

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\r\n\tfunc main() {}\n\nlast"), 0644))

	l, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "main.go", l.Name())
	assert.Equal(t, []string{"package main", "    func main() {}", "", "last"}, l.Slice(0, l.Len()))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT, score REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO notes (body, score) VALUES ('first', 1.5), ('two
lines', NULL), ('third', 3)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	l, err := LoadSQLite(context.Background(), path, `SELECT id, body, score FROM notes ORDER BY id`)
	require.NoError(t, err)

	require.Equal(t, 3, l.Len())
	assert.Equal(t, "id │ body │ score", l.Title())
	assert.Equal(t, "1 │ first │ 1.5", l.Line(0))
	assert.Equal(t, "2 │ two\nlines │ NULL", l.Line(1))
	assert.Equal(t, "rows.db", l.Name())
}

func TestLoadSQLite_IsReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE t (v TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = LoadSQLite(context.Background(), path, `INSERT INTO t VALUES ('x') RETURNING v`)
	assert.Error(t, err)
}

func TestStartCommand_CollectsOutput(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	cmd, err := StartCommand([]string{"/bin/sh", "-c", `printf 'alpha\n\033[1mbold\033[0m\nno newline'`}, 80, 24)
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer cmd.Stop()

	select {
	case <-cmd.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("command did not finish")
	}
	require.NoError(t, cmd.Wait())

	lines := cmd.Slice(0, cmd.Len())
	assert.Equal(t, []string{"alpha", "bold", "no newline"}, lines)
	assert.True(t, strings.HasPrefix(cmd.Name(), "/bin/sh"))
}

func TestStartCommand_Empty(t *testing.T) {
	_, err := StartCommand(nil, 80, 24)
	assert.Error(t, err)
}
