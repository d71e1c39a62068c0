// Package release orchestrates the changelog generation pipeline: scan merge
// history, extract pull request references, fetch their metadata, classify,
// and render the merged document. Stages run strictly left to right; the
// changelog file is written only after the whole document has been assembled
// in memory, so a failing run never leaves a partial file behind.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/raveheart1/shiplog/internal/changelog"
	"github.com/raveheart1/shiplog/internal/config"
	cliErrors "github.com/raveheart1/shiplog/internal/errors"
	"github.com/raveheart1/shiplog/internal/git"
	"github.com/raveheart1/shiplog/internal/github"
)

// Scanner reads merge history out of the local repository.
// *git.Scanner is the production implementation.
type Scanner interface {
	ResolveOrigin() (git.Origin, error)
	LastReleaseTag() (string, error)
	MergesSince(tag string) ([]string, error)
}

// Fetcher resolves pull request references to metadata.
// *github.Client is the production implementation.
type Fetcher interface {
	FetchAll(ctx context.Context, origin git.Origin, refs []int) []github.Result
}

// Deps bundles the external collaborators so tests can substitute fakes.
type Deps struct {
	Scanner Scanner
	Fetcher Fetcher

	// Now supplies the release date. Defaults to time.Now.
	Now func() time.Time
	// WarnWriter receives per-item fetch failure notices. Defaults to stderr.
	WarnWriter io.Writer
	// Out receives the rendered document in dry-run mode. Defaults to stdout.
	Out io.Writer
	// DryRun renders to Out instead of rewriting the changelog file.
	DryRun bool
}

// Summary reports what a successful run produced.
type Summary struct {
	Version string
	Tag     string
	Added   int
	Changed int
	Fixed   int
	Dropped int
	Path    string
}

// Generate runs the full pipeline for one release version.
func Generate(ctx context.Context, cfg *config.Configuration, deps Deps, version string) (*Summary, error) {
	applyDefaults(&deps)

	origin, err := deps.Scanner.ResolveOrigin()
	if err != nil {
		return nil, cliErrors.NoRemoteConfigured()
	}

	// The existing document is read up front, before any network activity,
	// so a missing or malformed file fails fast.
	doc, err := changelog.LoadDocument(cfg.ChangelogPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cliErrors.MissingChangelogFile(cfg.ChangelogPath)
		}
		return nil, cliErrors.WrapWithMessage(err, cliErrors.Runtime, "parsing changelog document")
	}

	tag, err := deps.Scanner.LastReleaseTag()
	if err != nil {
		return nil, cliErrors.NoReleaseMarkerFound()
	}

	merges, err := deps.Scanner.MergesSince(tag)
	if err != nil {
		return nil, cliErrors.WrapWithMessage(err, cliErrors.History, "scanning merge history")
	}

	refs, err := changelog.ExtractRefs(merges)
	if err != nil {
		var malformed *changelog.MalformedMergeEventError
		if errors.As(err, &malformed) {
			return nil, cliErrors.MalformedMergeEvent(malformed.Event)
		}
		return nil, cliErrors.WrapWithMessage(err, cliErrors.History, "extracting pull request references")
	}

	results := deps.Fetcher.FetchAll(ctx, origin, refs)

	rules := changelog.Rules{Fixed: cfg.FixedKeywords, Changed: cfg.ChangedKeywords}
	var changes changelog.Changes
	dropped := 0
	for _, res := range results {
		if res.Err != nil {
			dropped++
			fmt.Fprintf(deps.WarnWriter, "Warning: dropping %v\n", res.Err)
			continue
		}
		changes.Append(changelog.Classify(res.Record.Title, rules), *res.Record)
	}

	// A run that collected nothing would produce an empty release section;
	// that is a failure, not a success.
	if changes.IsEmpty() {
		return nil, cliErrors.NoChangesCollected()
	}

	rel := &changelog.Release{
		Version: version,
		Date:    deps.Now(),
		Changes: changes,
	}

	opts := changelog.RenderOptions{
		GitHubHost: cfg.GitHubHost,
		Owner:      origin.Owner,
		Repo:       origin.Repo,
	}
	rendered, err := changelog.RenderString(doc, rel, opts)
	if err != nil {
		return nil, cliErrors.WrapWithMessage(err, cliErrors.Runtime, "rendering changelog")
	}

	if deps.DryRun {
		if _, err := io.WriteString(deps.Out, rendered); err != nil {
			return nil, cliErrors.WrapWithMessage(err, cliErrors.Runtime, "writing preview")
		}
	} else if err := os.WriteFile(cfg.ChangelogPath, []byte(rendered), 0o644); err != nil {
		return nil, cliErrors.WrapWithMessage(err, cliErrors.Runtime, "writing changelog file")
	}

	return &Summary{
		Version: version,
		Tag:     tag,
		Added:   len(changes.Added),
		Changed: len(changes.Changed),
		Fixed:   len(changes.Fixed),
		Dropped: dropped,
		Path:    cfg.ChangelogPath,
	}, nil
}

// applyDefaults fills in the optional collaborators.
func applyDefaults(deps *Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.WarnWriter == nil {
		deps.WarnWriter = os.Stderr
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
}
