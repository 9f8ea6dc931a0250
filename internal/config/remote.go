package config

import (
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// ownerRepoFromRemote opens the checkout at root and parses owner and repo
// from the "origin" remote URL. Handles both https and ssh URL forms.
func ownerRepoFromRemote(root string) (string, string, error) {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", "", fmt.Errorf("not a git repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", "", fmt.Errorf("no origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", "", fmt.Errorf("origin remote has no url")
	}

	return parseRemoteURL(urls[0])
}

// parseRemoteURL extracts owner and repo from a remote URL like
// https://github.com/owner/repo.git or git@github.com:owner/repo.git.
func parseRemoteURL(url string) (string, string, error) {
	path := url

	switch {
	case strings.Contains(path, "://"):
		// https://host/owner/repo(.git)
		parts := strings.SplitN(path, "://", 2)
		path = parts[1]
		if idx := strings.Index(path, "/"); idx >= 0 {
			path = path[idx+1:]
		} else {
			return "", "", fmt.Errorf("cannot parse remote url %q", url)
		}
	case strings.Contains(path, "@") && strings.Contains(path, ":"):
		// git@host:owner/repo(.git)
		parts := strings.SplitN(path, ":", 2)
		path = parts[1]
	default:
		return "", "", fmt.Errorf("cannot parse remote url %q", url)
	}

	path = strings.TrimSuffix(path, ".git")
	path = strings.Trim(path, "/")

	segments := strings.Split(path, "/")
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return "", "", fmt.Errorf("cannot parse owner/repo from remote url %q", url)
	}

	return segments[0], segments[1], nil
}
