// Package cli wires the shiplog command line: argument handling, config
// loading, collaborator construction, and error presentation. The actual
// pipeline lives in internal/release.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raveheart1/shiplog/internal/config"
	"github.com/raveheart1/shiplog/internal/errors"
	"github.com/raveheart1/shiplog/internal/git"
	"github.com/raveheart1/shiplog/internal/github"
	"github.com/raveheart1/shiplog/internal/release"
	"github.com/raveheart1/shiplog/internal/version"
)

var (
	configFlag string
	repoFlag   string
	dryRunFlag bool
	debugFlag  bool
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shiplog <version>",
		Short: "Generate a release changelog section from merged pull requests",
		Long: `shiplog prepends a new release section to your changelog.

It finds every pull request merged since the last release tag, fetches each
PR's metadata from the GitHub API, classifies it as Added, Changed, or Fixed
based on its title, and rewrites the changelog file with the new section on
top. Existing sections are preserved byte-for-byte.

Authentication uses a bearer token read from the GITHUB_TOKEN environment
variable (configurable via token_env_var).

Examples:
  shiplog 1.4.0             # Prepend a [1.4.0] section to CHANGELOG.md
  shiplog 1.4.0 --dry-run   # Print the merged document without writing`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.MissingVersionArgument()
			}
			return nil
		},
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&configFlag, "config", "", "Path to project config file (default: .shiplog.yml)")
	cmd.Flags().StringVar(&repoFlag, "repo", "", "Path to the repository clone (default: current directory)")
	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Print the merged document to stdout without writing")
	cmd.Flags().BoolVar(&debugFlag, "debug", false, "Enable debug logging to stderr")

	cmd.AddCommand(newInitCmd())

	return cmd
}

// runGenerate loads config, builds the collaborators, and runs the pipeline.
func runGenerate(cmd *cobra.Command, versionArg string) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return errors.WrapWithMessage(err, errors.Configuration, "loading configuration")
	}

	if debugFlag {
		git.SetDebugLogger(func(format string, args ...any) {
			fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
		})
	}

	scanner, err := git.NewScanner(repoFlag, cfg.MergePhrase, cfg.RemotePriority)
	if err != nil {
		return errors.WrapWithMessage(err, errors.Configuration, "opening repository",
			"Run shiplog from inside a git clone, or pass --repo")
	}

	token := os.Getenv(cfg.TokenEnvVar)
	client := github.NewClient(cfg.GraphQLEndpoint, token,
		github.WithMaxConcurrent(cfg.MaxConcurrentFetches))

	deps := release.Deps{
		Scanner:    scanner,
		Fetcher:    withProgress(client, cmd.ErrOrStderr()),
		WarnWriter: cmd.ErrOrStderr(),
		Out:        cmd.OutOrStdout(),
		DryRun:     dryRunFlag,
	}

	summary, err := release.Generate(cmd.Context(), cfg, deps, versionArg)
	if err != nil {
		return err
	}

	if !dryRunFlag {
		fmt.Fprintf(cmd.OutOrStdout(), "%s updated with release %s (%d added, %d changed, %d fixed)\n",
			summary.Path, summary.Version, summary.Added, summary.Changed, summary.Fixed)
	}
	return nil
}

// Execute runs the root command and formats any failure for the terminal.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	if cliErr := errors.AsCLIError(err); cliErr != nil {
		errors.FprintError(rootCmd.ErrOrStderr(), cliErr)
	} else {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}
