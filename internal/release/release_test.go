package release

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/shiplog/internal/changelog"
	"github.com/raveheart1/shiplog/internal/config"
	cliErrors "github.com/raveheart1/shiplog/internal/errors"
	"github.com/raveheart1/shiplog/internal/git"
	"github.com/raveheart1/shiplog/internal/github"
)

const seedChangelog = `# Changelog
All notable changes.

## [1.0.0] - 2026-01-05
- first release
`

type fakeScanner struct {
	origin    git.Origin
	originErr error
	tag       string
	tagErr    error
	merges    []string
	mergesErr error
}

func (f *fakeScanner) ResolveOrigin() (git.Origin, error) { return f.origin, f.originErr }
func (f *fakeScanner) LastReleaseTag() (string, error)    { return f.tag, f.tagErr }
func (f *fakeScanner) MergesSince(string) ([]string, error) {
	return f.merges, f.mergesErr
}

// fakeFetcher answers each reference from a canned map; absent numbers
// produce error slots, matching how the client reports failed lookups.
type fakeFetcher struct {
	titles map[int]string
}

func (f *fakeFetcher) FetchAll(_ context.Context, _ git.Origin, refs []int) []github.Result {
	results := make([]github.Result, len(refs))
	for i, ref := range refs {
		title, ok := f.titles[ref]
		if !ok {
			results[i] = github.Result{Err: fmt.Errorf("pull request #%d: api error", ref)}
			continue
		}
		results[i] = github.Result{Record: &changelog.Record{
			Number: ref,
			Title:  title,
			URL:    fmt.Sprintf("https://github.com/acme/widget/pull/%d", ref),
			Author: changelog.Author{Name: "Octo Cat", URL: "https://github.com/octocat"},
		}}
	}
	return results
}

func testConfig(t *testing.T) *config.Configuration {
	t.Helper()
	return &config.Configuration{
		GitHubHost:      "https://github.com",
		GraphQLEndpoint: "https://api.github.com/graphql",
		ChangelogPath:   filepath.Join(t.TempDir(), "CHANGELOG.md"),
		MergePhrase:     "Merge pull request",
		FixedKeywords:   []string{"fix", "resolve"},
		ChangedKeywords: []string{"change"},
		RemotePriority:  []string{"upstream", "origin"},
		TokenEnvVar:     "GITHUB_TOKEN",
	}
}

func workingDeps(titles map[int]string) Deps {
	return Deps{
		Scanner: &fakeScanner{
			origin: git.Origin{Owner: "acme", Repo: "widget"},
			tag:    "1.0.0",
			merges: []string{
				"Merge pull request #11 from acme/dark-mode",
				"Merge pull request #10 from acme/fix-crash",
			},
		},
		Fetcher:    &fakeFetcher{titles: titles},
		Now:        func() time.Time { return time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC) },
		WarnWriter: &bytes.Buffer{},
	}
}

func requireCategory(t *testing.T, err error, want cliErrors.ErrorCategory) {
	t.Helper()
	require.Error(t, err)
	cliErr := cliErrors.AsCLIError(err)
	require.NotNil(t, cliErr, "error should be structured: %v", err)
	assert.Equal(t, want, cliErr.Category)
}

func TestGenerateWritesRelease(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.ChangelogPath, []byte(seedChangelog), 0o644))

	deps := workingDeps(map[int]string{
		10: "Fix crash on startup",
		11: "Add dark mode",
	})

	summary, err := Generate(context.Background(), cfg, deps, "1.1.0")
	require.NoError(t, err)

	assert.Equal(t, "1.1.0", summary.Version)
	assert.Equal(t, "1.0.0", summary.Tag)
	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, 0, summary.Changed)
	assert.Equal(t, 1, summary.Fixed)
	assert.Equal(t, 0, summary.Dropped)
	assert.Equal(t, cfg.ChangelogPath, summary.Path)

	written, err := os.ReadFile(cfg.ChangelogPath)
	require.NoError(t, err)
	updated := string(written)

	assert.Contains(t, updated, "## [1.1.0] - 2026-08-23")
	assert.Contains(t, updated, "### Added\n- [PR #11]")
	assert.Contains(t, updated, "### Fixed\n- [PR #10]")
	assert.Contains(t, updated, "## [1.0.0] - 2026-01-05\n- first release")
}

func TestGenerateDropsFailedFetches(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.ChangelogPath, []byte(seedChangelog), 0o644))

	// #11 resolves, #10 does not.
	deps := workingDeps(map[int]string{11: "Add dark mode"})
	warnings := &bytes.Buffer{}
	deps.WarnWriter = warnings

	summary, err := Generate(context.Background(), cfg, deps, "1.1.0")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, 0, summary.Fixed)
	assert.Equal(t, 1, summary.Dropped)
	assert.Contains(t, warnings.String(), "Warning: dropping")
	assert.Contains(t, warnings.String(), "pull request #10")

	written, err := os.ReadFile(cfg.ChangelogPath)
	require.NoError(t, err)
	assert.NotContains(t, string(written), "PR #10")
}

func TestGenerateAllFetchesFailing(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.ChangelogPath, []byte(seedChangelog), 0o644))

	deps := workingDeps(nil) // every lookup fails

	_, err := Generate(context.Background(), cfg, deps, "1.1.0")
	requireCategory(t, err, cliErrors.Fetch)

	// The file is untouched on failure.
	written, readErr := os.ReadFile(cfg.ChangelogPath)
	require.NoError(t, readErr)
	assert.Equal(t, seedChangelog, string(written))
}

func TestGenerateDryRun(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.ChangelogPath, []byte(seedChangelog), 0o644))

	deps := workingDeps(map[int]string{10: "Fix crash on startup", 11: "Add dark mode"})
	deps.DryRun = true
	out := &bytes.Buffer{}
	deps.Out = out

	_, err := Generate(context.Background(), cfg, deps, "1.1.0")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "## [1.1.0] - 2026-08-23")

	written, err := os.ReadFile(cfg.ChangelogPath)
	require.NoError(t, err)
	assert.Equal(t, seedChangelog, string(written), "dry-run must not rewrite the file")
}

func TestGenerateFailures(t *testing.T) {
	tests := map[string]struct {
		mutate       func(cfg *config.Configuration, deps *Deps)
		wantCategory cliErrors.ErrorCategory
		wantMsg      string
	}{
		"no remote": {
			mutate: func(cfg *config.Configuration, deps *Deps) {
				deps.Scanner.(*fakeScanner).originErr = git.ErrNoRemote
			},
			wantCategory: cliErrors.Configuration,
			wantMsg:      "remote",
		},
		"missing changelog file": {
			mutate: func(cfg *config.Configuration, deps *Deps) {
				cfg.ChangelogPath = filepath.Join(t.TempDir(), "absent.md")
			},
			wantCategory: cliErrors.Configuration,
			wantMsg:      "changelog file not found",
		},
		"malformed changelog document": {
			mutate: func(cfg *config.Configuration, deps *Deps) {
				require.NoError(t, os.WriteFile(cfg.ChangelogPath, []byte("no title here\n"), 0o644))
			},
			wantCategory: cliErrors.Runtime,
			wantMsg:      "parsing changelog",
		},
		"no release tag": {
			mutate: func(cfg *config.Configuration, deps *Deps) {
				deps.Scanner.(*fakeScanner).tagErr = git.ErrNoReleaseTag
			},
			wantCategory: cliErrors.History,
			wantMsg:      "no release tag",
		},
		"history walk failure": {
			mutate: func(cfg *config.Configuration, deps *Deps) {
				deps.Scanner.(*fakeScanner).mergesErr = errors.New("object not found")
			},
			wantCategory: cliErrors.History,
			wantMsg:      "scanning merge history",
		},
		"merge without reference": {
			mutate: func(cfg *config.Configuration, deps *Deps) {
				deps.Scanner.(*fakeScanner).merges = []string{"Merge branch 'main'"}
			},
			wantCategory: cliErrors.History,
			wantMsg:      `merge commit carries no pull request reference: "Merge branch 'main'"`,
		},
		"no merges since tag": {
			mutate: func(cfg *config.Configuration, deps *Deps) {
				deps.Scanner.(*fakeScanner).merges = nil
			},
			wantCategory: cliErrors.Fetch,
			wantMsg:      "no pull request metadata",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t)
			require.NoError(t, os.WriteFile(cfg.ChangelogPath, []byte(seedChangelog), 0o644))

			deps := workingDeps(map[int]string{10: "Fix crash on startup", 11: "Add dark mode"})
			tt.mutate(cfg, &deps)

			_, err := Generate(context.Background(), cfg, deps, "1.1.0")
			requireCategory(t, err, tt.wantCategory)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
