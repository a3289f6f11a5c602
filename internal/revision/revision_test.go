package revision

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_NotARepository(t *testing.T) {
	rev, err := Detect(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, rev)
}

func TestDetect_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	rev, err := Detect(dir)
	require.NoError(t, err)
	assert.Empty(t, rev)
}

func TestDetect_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "report"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report", "main.tex"), []byte("\\documentclass{article}"), 0o644))

	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add("report/main.tex")
	require.NoError(t, err)
	hash, err := w.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	rev, err := Detect(filepath.Join(dir, "report"))
	require.NoError(t, err)
	assert.Equal(t, hash.String()[:7], rev)
}
