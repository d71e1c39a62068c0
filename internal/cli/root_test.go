package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cliErrors "github.com/raveheart1/shiplog/internal/errors"
	"github.com/raveheart1/shiplog/internal/git"
	"github.com/raveheart1/shiplog/internal/github"
	"github.com/raveheart1/shiplog/internal/release"
)

func executeCommand(args ...string) (stdout, stderr string, err error) {
	cmd := newRootCmd()
	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestRootCommandArgumentValidation(t *testing.T) {
	t.Run("missing version argument", func(t *testing.T) {
		_, _, err := executeCommand()
		require.Error(t, err)

		cliErr := cliErrors.AsCLIError(err)
		require.NotNil(t, cliErr)
		assert.Equal(t, cliErrors.Argument, cliErr.Category)
		assert.Contains(t, cliErr.Message, "release version is required")
		assert.Equal(t, ExitInvalidArguments, ExitCodeFor(err))
	})

	t.Run("too many arguments", func(t *testing.T) {
		_, _, err := executeCommand("1.0.0", "2.0.0")
		require.Error(t, err)
		assert.Equal(t, ExitInvalidArguments, ExitCodeFor(err))
	})
}

func TestRootCommandHelp(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "shiplog <version>")
	assert.Contains(t, stdout, "--dry-run")
	assert.Contains(t, stdout, "--config")
	assert.Contains(t, stdout, "--repo")
}

type recordingFetcher struct {
	calls int
	refs  []int
}

func (r *recordingFetcher) FetchAll(_ context.Context, _ git.Origin, refs []int) []github.Result {
	r.calls++
	r.refs = refs
	return make([]github.Result, len(refs))
}

func TestWithProgressPassesThroughForNonTerminals(t *testing.T) {
	inner := &recordingFetcher{}
	out := &bytes.Buffer{}

	fetcher := withProgress(inner, out)
	results := fetcher.FetchAll(context.Background(), git.Origin{Owner: "acme", Repo: "widget"}, []int{1, 2})

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, []int{1, 2}, inner.refs)
	assert.Len(t, results, 2)
	assert.Empty(t, out.String(), "no spinner output when the writer is not a terminal")
}

// The decorator satisfies the pipeline's Fetcher contract.
var _ release.Fetcher = (*progressFetcher)(nil)
