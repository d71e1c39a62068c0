// Package config provides hierarchical configuration management for shiplog using koanf.
// Configuration is loaded with priority: environment variables > project config
// (.shiplog.yml) > user config (~/.config/shiplog/config.yml) > defaults. A legacy
// JSON project file (.shiplog.json) is still read, with a migration warning.
//
// The loaded Configuration value is handed to the pipeline entry point; nothing in
// the pipeline reads process-wide state, so tests can substitute endpoints, merge
// phrases, and keyword lists freely.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration holds every tunable the changelog pipeline consumes.
type Configuration struct {
	// GitHubHost is the base URL used when rewriting #N cross references
	// into links ({host}/{owner}/{repo}/issues/{n}).
	GitHubHost string `koanf:"github_host" validate:"required,url"`

	// GraphQLEndpoint is the API endpoint queried for pull-request metadata.
	// Override it to point at a GitHub Enterprise instance or a test server.
	GraphQLEndpoint string `koanf:"graphql_endpoint" validate:"required,url"`

	// ChangelogPath is the Markdown document read at startup and rewritten
	// in place with the new release section prepended.
	ChangelogPath string `koanf:"changelog_path" validate:"required"`

	// MergePhrase is the substring a commit message must contain to count
	// as a pull-request merge.
	MergePhrase string `koanf:"merge_phrase" validate:"required"`

	// FixedKeywords and ChangedKeywords drive title classification.
	// Evaluated in priority order: any fixed keyword wins, then any changed
	// keyword, then the Added catch-all.
	FixedKeywords   []string `koanf:"fixed_keywords" validate:"min=1"`
	ChangedKeywords []string `koanf:"changed_keywords" validate:"min=1"`

	// MaxConcurrentFetches caps the metadata fan-out. 0 means unlimited:
	// one in-flight request per pull request reference.
	MaxConcurrentFetches int `koanf:"max_concurrent_fetches" validate:"min=0"`

	// RemotePriority is the order in which configured remotes are tried
	// when resolving the owner/repository pair.
	RemotePriority []string `koanf:"remote_priority" validate:"min=1"`

	// TokenEnvVar names the environment variable holding the bearer token
	// for the API. When the variable is unset, requests go out without
	// credentials and the API is expected to reject them.
	TokenEnvVar string `koanf:"token_env_var" validate:"required"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .shiplog.yml)
	ProjectConfigPath string
	// WarningWriter receives migration warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses migration warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr.
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values.
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config when present.
func loadUserConfig(k *koanf.Koanf) error {
	userPath, err := UserConfigPath()
	if err != nil {
		return nil
	}
	if !fileExists(userPath) {
		return nil
	}
	return loadYAMLConfig(k, userPath, "user")
}

// loadProjectConfig loads project-level config (YAML preferred, legacy JSON supported).
// Supports custom path override (for testing). Falls back to legacy JSON with warning.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	projectYAMLPath := ProjectConfigPath()
	if customPath != "" {
		projectYAMLPath = customPath
	}
	legacyProjectPath := LegacyProjectConfigPath()

	if fileExists(projectYAMLPath) {
		return loadYAMLConfig(k, projectYAMLPath, "project")
	}

	if fileExists(legacyProjectPath) {
		if err := k.Load(file.Provider(legacyProjectPath), json.Parser()); err != nil {
			return fmt.Errorf("failed to load legacy project config %s: %w", legacyProjectPath, err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyProjectPath)
			fmt.Fprintf(warningWriter, "  Rename it to %s and convert to YAML.\n\n", ProjectConfigPath())
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file.
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider("SHIPLOG_", ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the assembled configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: SHIPLOG_MERGE_PHRASE -> merge_phrase
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "SHIPLOG_"))
}
