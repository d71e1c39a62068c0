package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"

	"github.com/raveheart1/shiplog/internal/git"
	"github.com/raveheart1/shiplog/internal/github"
	"github.com/raveheart1/shiplog/internal/release"
)

// progressFetcher decorates a Fetcher with a terminal spinner while the
// concurrent metadata fan-out is in flight. Suppressed when stderr is not a
// terminal so CI logs stay clean.
type progressFetcher struct {
	inner release.Fetcher
	out   io.Writer
}

// withProgress wraps the fetcher with spinner feedback.
func withProgress(inner release.Fetcher, out io.Writer) release.Fetcher {
	return &progressFetcher{inner: inner, out: out}
}

func (p *progressFetcher) FetchAll(ctx context.Context, origin git.Origin, refs []int) []github.Result {
	if !isTerminal(p.out) {
		return p.inner.FetchAll(ctx, origin, refs)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(p.out))
	s.Suffix = fmt.Sprintf(" fetching %d pull requests...", len(refs))
	s.Start()
	defer s.Stop()

	return p.inner.FetchAll(ctx, origin, refs)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
