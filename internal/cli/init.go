package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raveheart1/shiplog/internal/config"
	"github.com/raveheart1/shiplog/internal/errors"
)

// newInitCmd creates the init subcommand, which scaffolds a project config
// file with every option documented.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter " + config.ProjectConfigPath() + " config file",
		Long: `init writes a fully commented ` + config.ProjectConfigPath() + ` into the current
directory so every option and its default is visible. The file is optional;
shiplog runs with built-in defaults when no config exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ProjectConfigPath()

			if _, err := os.Stat(path); err == nil {
				return errors.NewConfigError(
					fmt.Sprintf("%s already exists", path),
					"Edit the existing file instead",
					"Or remove it and rerun shiplog init",
				)
			}

			if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
				return errors.WrapWithMessage(err, errors.Runtime, "writing config file")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}
