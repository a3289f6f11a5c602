package compilelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

func TestFormatEntry(t *testing.T) {
	got := FormatEntry("PDFLaTeX 1", "stdout\nstderr", fixed)
	assert.Equal(t, "\n=== PDFLaTeX 1 === 2024-03-09 14:05:07\nstdout\nstderr\n", got)
}

func TestSanitizeReplacesInvalidBytes(t *testing.T) {
	in := "ok \xff\xfe done ñ"
	out := Sanitize(in)
	assert.Equal(t, "ok \uFFFD\uFFFD done ñ", out)
}

func TestAppend_DoesNotCreateUntilUsed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compilation_log.txt")
	l := New(path)
	assert.Equal(t, path, l.Path())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAppend_AppendsBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compilation_log.txt")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	l := New(path).WithClock(func() time.Time { return fixed })
	require.NoError(t, l.Append("PDFLaTeX 1", "a\n"))
	require.NoError(t, l.Append("BibTeX", "b\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	assert.True(t, strings.HasPrefix(s, "previous run\n"))
	assert.Equal(t, 2, strings.Count(s, "\n=== "))
	assert.Contains(t, s, "=== BibTeX === 2024-03-09 14:05:07\nb\n\n")
}

func TestAppend_ReportsOpenFailure(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "missing-dir", "log.txt"))
	err := l.Append("x", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open compilation log")
}
