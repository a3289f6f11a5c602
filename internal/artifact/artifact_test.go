package artifact

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_Missing(t *testing.T) {
	info := Inspect(filepath.Join(t.TempDir(), "main.pdf"), nil)
	assert.False(t, info.Exists)
	assert.Zero(t, info.Pages)
}

func TestInspect_DirectoryIsNotAnArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.pdf")
	require.NoError(t, os.Mkdir(path, 0o750))
	assert.False(t, Inspect(path, nil).Exists)
}

func TestInspect_UnreadablePDFStillExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not really a pdf"), 0o644))

	var buf bytes.Buffer
	info := Inspect(path, slog.New(slog.NewTextHandler(&buf, nil)))

	assert.True(t, info.Exists)
	assert.Equal(t, int64(len("not really a pdf")), info.Size)
	assert.Zero(t, info.Pages)
	assert.Contains(t, buf.String(), "Failed to read PDF page count")
}

func TestInspect_NonPDFSkipsPageCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.dvi")
	require.NoError(t, os.WriteFile(path, []byte("dvi"), 0o644))

	var buf bytes.Buffer
	info := Inspect(path, slog.New(slog.NewTextHandler(&buf, nil)))
	assert.True(t, info.Exists)
	assert.Empty(t, buf.String())
}
