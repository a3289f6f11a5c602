// Package revision reads the version-control revision of the document sources.
package revision

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const shortLen = 7

// Detect returns the short HEAD commit hash of the git repository containing
// dir. A directory outside any repository, or a repository without commits,
// yields "" and no error.
func Detect(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", nil
		}
		return "", fmt.Errorf("open repository: %w", err)
	}
	ref, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	hash := ref.Hash().String()
	if len(hash) > shortLen {
		hash = hash[:shortLen]
	}
	return hash, nil
}
