// Package git provides repository history access for shiplog: resolving the
// canonical remote into an owner/repository pair, locating the most recent
// release tag, and listing pull-request merge commits since that tag. It uses
// the go-git library so no git CLI installation is required.
package git

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

var (
	// ErrNoRemote is returned when neither a preferred nor a fallback remote
	// is configured for the repository.
	ErrNoRemote = errors.New("no upstream or origin remote configured")

	// ErrNoReleaseTag is returned when no semver-shaped tag is reachable
	// from the current history.
	ErrNoReleaseTag = errors.New("no release tag found in history")
)

// releaseTagPattern matches bare or v-prefixed semantic versions (1.2.3, v1.2.3).
var releaseTagPattern = regexp.MustCompile(`^v?\d+\.\d+\.\d+$`)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Origin identifies the hosted repository a clone tracks.
type Origin struct {
	Owner string
	Repo  string
}

// Scanner reads merge history out of a local repository clone.
type Scanner struct {
	repo           *gogit.Repository
	mergePhrase    string
	remotePriority []string
}

// NewScanner opens the repository at path (or the current working directory
// when path is empty), traversing up the directory tree to find the repo root.
// mergePhrase is the substring identifying pull-request merge commits;
// remotePriority lists remote names to try, most preferred first.
func NewScanner(path, mergePhrase string, remotePriority []string) (*Scanner, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	return &Scanner{
		repo:           repo,
		mergePhrase:    mergePhrase,
		remotePriority: remotePriority,
	}, nil
}

// ResolveOrigin parses the configured remote URL into its owner and repository
// components. Remotes are tried in priority order (upstream before origin by
// default). Returns ErrNoRemote when none of them resolves.
func (s *Scanner) ResolveOrigin() (Origin, error) {
	for _, name := range s.remotePriority {
		remote, err := s.repo.Remote(name)
		if err != nil {
			continue
		}
		urls := remote.Config().URLs
		if len(urls) == 0 {
			continue
		}

		origin, err := ParseRemoteURL(urls[0])
		if err != nil {
			logDebug("[git] remote %q has unparseable URL %q: %v", name, urls[0], err)
			continue
		}

		logDebug("[git] resolved origin %s/%s from remote %q", origin.Owner, origin.Repo, name)
		return origin, nil
	}

	return Origin{}, ErrNoRemote
}

// ParseRemoteURL extracts the owner and repository name from a git remote URL.
// Supported shapes:
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git (scp-style)
//   - ssh://git@github.com/owner/repo.git
func ParseRemoteURL(url string) (Origin, error) {
	path := url

	switch {
	case strings.Contains(path, "://"):
		// https:// or ssh:// - drop scheme and host
		path = path[strings.Index(path, "://")+3:]
		slash := strings.Index(path, "/")
		if slash < 0 {
			return Origin{}, fmt.Errorf("remote URL %q has no path", url)
		}
		path = path[slash+1:]
	case strings.Contains(path, ":"):
		// scp-style git@host:owner/repo.git
		path = path[strings.Index(path, ":")+1:]
	default:
		return Origin{}, fmt.Errorf("unrecognized remote URL %q", url)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Origin{}, fmt.Errorf("remote URL %q does not contain owner/repo", url)
	}

	return Origin{Owner: parts[0], Repo: parts[1]}, nil
}

// LastReleaseTag returns the name of the most recent tag shaped like a
// semantic version (1.2.3 or v1.2.3) that is reachable from HEAD. Recency is
// decided by the tagged commit's committer timestamp. Returns ErrNoReleaseTag
// when no such tag exists.
func (s *Scanner) LastReleaseTag() (string, error) {
	head, err := s.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	headCommit, err := s.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("resolving HEAD commit: %w", err)
	}

	tags, err := s.repo.Tags()
	if err != nil {
		return "", fmt.Errorf("listing tags: %w", err)
	}

	var bestName string
	var bestCommit *object.Commit

	err = tags.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !releaseTagPattern.MatchString(name) {
			return nil
		}

		commit, err := s.tagCommit(ref)
		if err != nil {
			logDebug("[git] skipping tag %q: %v", name, err)
			return nil
		}

		reachable, err := commit.IsAncestor(headCommit)
		if err != nil || !reachable {
			return nil
		}

		if bestCommit == nil || commit.Committer.When.After(bestCommit.Committer.When) {
			bestName = name
			bestCommit = commit
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("iterating tags: %w", err)
	}

	if bestCommit == nil {
		return "", ErrNoReleaseTag
	}

	logDebug("[git] last release tag: %s", bestName)
	return bestName, nil
}

// MergesSince returns the messages of every pull-request merge commit between
// the given tag and HEAD, newest first, each trimmed of surrounding
// whitespace. A commit counts as a merge when its message contains the
// configured merge phrase.
func (s *Scanner) MergesSince(tag string) ([]string, error) {
	tagHash, err := s.resolveTagHash(tag)
	if err != nil {
		return nil, err
	}

	head, err := s.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}

	iter, err := s.repo.Log(&gogit.LogOptions{
		From:  head.Hash(),
		Order: gogit.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer iter.Close()

	var merges []string
	err = iter.ForEach(func(commit *object.Commit) error {
		if commit.Hash == tagHash {
			return storer.ErrStop
		}
		if strings.Contains(commit.Message, s.mergePhrase) {
			merges = append(merges, strings.TrimSpace(commit.Message))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}

	logDebug("[git] found %d merge commits since %s", len(merges), tag)
	return merges, nil
}

// resolveTagHash resolves a tag name to the hash of the commit it points at,
// peeling annotated tags.
func (s *Scanner) resolveTagHash(tag string) (plumbing.Hash, error) {
	ref, err := s.repo.Tag(tag)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving tag %q: %w", tag, err)
	}

	commit, err := s.tagCommit(ref)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return commit.Hash, nil
}

// tagCommit returns the commit a tag reference points at, handling both
// lightweight and annotated tags.
func (s *Scanner) tagCommit(ref *plumbing.Reference) (*object.Commit, error) {
	if tagObj, err := s.repo.TagObject(ref.Hash()); err == nil {
		commit, err := tagObj.Commit()
		if err != nil {
			return nil, fmt.Errorf("peeling annotated tag %q: %w", ref.Name().Short(), err)
		}
		return commit, nil
	}

	commit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("resolving tag %q commit: %w", ref.Name().Short(), err)
	}
	return commit, nil
}
