// Package testutil provides test utilities and helpers for shiplog tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var (
	// shiplogBinaryPath caches the built shiplog binary path.
	shiplogBinaryPath string
	shiplogBuildOnce  sync.Once
	shiplogBuildErr   error
)

// E2EEnv provides an isolated environment for E2E testing: a temp directory
// holding a scripted git repository and a seed changelog, plus a built
// shiplog binary. Environment is sanitized so no real credentials leak into
// the subprocess.
type E2EEnv struct {
	t        *testing.T
	tempDir  string
	repo     *gogit.Repository
	extraEnv []string
}

// CommandResult captures the result of running a shiplog command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment with a seeded repository.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{t: t, tempDir: t.TempDir()}
	env.buildShiplog()
	env.initRepo()

	return env
}

// Dir returns the repository directory commands run in.
func (e *E2EEnv) Dir() string {
	return e.tempDir
}

// Setenv adds an environment variable for subsequent Run calls.
func (e *E2EEnv) Setenv(key, value string) {
	e.extraEnv = append(e.extraEnv, key+"="+value)
}

// WriteChangelog seeds the changelog document in the repo directory.
func (e *E2EEnv) WriteChangelog(content string) {
	e.t.Helper()
	path := filepath.Join(e.tempDir, "CHANGELOG.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing changelog: %v", err)
	}
}

// ReadChangelog returns the current changelog contents, or "" when missing.
func (e *E2EEnv) ReadChangelog() string {
	e.t.Helper()
	data, err := os.ReadFile(filepath.Join(e.tempDir, "CHANGELOG.md"))
	if err != nil {
		return ""
	}
	return string(data)
}

// Commit creates a commit with the given message and returns nothing; the
// repo worktree gets a fresh file per commit so each commit is non-empty.
func (e *E2EEnv) Commit(message string) {
	e.t.Helper()

	wt, err := e.repo.Worktree()
	if err != nil {
		e.t.Fatalf("getting worktree: %v", err)
	}

	name := fmt.Sprintf("file-%d.txt", time.Now().UnixNano())
	if err := os.WriteFile(filepath.Join(e.tempDir, name), []byte(message), 0o644); err != nil {
		e.t.Fatalf("writing commit file: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		e.t.Fatalf("staging file: %v", err)
	}

	_, err = wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	if err != nil {
		e.t.Fatalf("committing: %v", err)
	}
}

// Tag creates a lightweight tag at HEAD.
func (e *E2EEnv) Tag(name string) {
	e.t.Helper()

	head, err := e.repo.Head()
	if err != nil {
		e.t.Fatalf("getting HEAD: %v", err)
	}
	if _, err := e.repo.CreateTag(name, head.Hash(), nil); err != nil {
		e.t.Fatalf("creating tag %s: %v", name, err)
	}
}

// initRepo creates the scripted repository: an initial commit, a release tag,
// and an origin remote pointing at a hosted repository.
func (e *E2EEnv) initRepo() {
	e.t.Helper()

	repo, err := gogit.PlainInit(e.tempDir, false)
	if err != nil {
		e.t.Fatalf("initializing repository: %v", err)
	}
	e.repo = repo

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widget.git"},
	})
	if err != nil {
		e.t.Fatalf("adding remote: %v", err)
	}

	e.Commit("initial commit")
}

func (e *E2EEnv) buildShiplog() {
	e.t.Helper()

	shiplogBuildOnce.Do(func() {
		shiplogBinaryPath, shiplogBuildErr = buildShiplogBinary()
	})

	if shiplogBuildErr != nil {
		e.t.Fatalf("building shiplog: %v", shiplogBuildErr)
	}
}

func buildShiplogBinary() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "shiplog-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "shiplog")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/shiplog")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("building shiplog: %w\nOutput: %s", err, output)
	}

	return binaryPath, nil
}

// Run executes a shiplog command in the isolated E2E environment.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(shiplogBinaryPath, args...)
	cmd.Dir = e.tempDir
	cmd.Env = e.buildIsolatedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("running shiplog: %v", err)
		}
	}

	return result
}

// buildIsolatedEnv returns a minimal environment: no inherited GITHUB_TOKEN,
// HOME pointed inside the temp dir so no user config is picked up.
func (e *E2EEnv) buildIsolatedEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + e.tempDir,
		"NO_COLOR=1",
	}
	return append(env, e.extraEnv...)
}
