package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# Shiplog Configuration
# Environment overrides use the SHIPLOG_ prefix (e.g. SHIPLOG_MERGE_PHRASE).

github_host: https://github.com            # Base URL for #N cross-reference links
graphql_endpoint: https://api.github.com/graphql  # Pull request metadata endpoint
changelog_path: CHANGELOG.md               # Document rewritten in place
merge_phrase: Merge pull request           # Substring marking a PR merge commit
token_env_var: GITHUB_TOKEN                # Env var holding the API bearer token

# Title classification keywords, checked in priority order.
fixed_keywords:                            # Any match files the PR under Fixed
  - fix
  - resolve
changed_keywords:                          # Any match (after Fixed) files under Changed
  - change

max_concurrent_fetches: 0                  # 0 = one concurrent request per PR (unlimited)

remote_priority:                           # Remotes tried when resolving owner/repo
  - upstream
  - origin
`
}

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"github_host":      "https://github.com",
		"graphql_endpoint": "https://api.github.com/graphql",
		"changelog_path":   "CHANGELOG.md",
		"merge_phrase":     "Merge pull request",
		"token_env_var":    "GITHUB_TOKEN",
		// Classification keywords. The Fixed list is consulted first; a title
		// matching none of the lists lands in the Added catch-all.
		"fixed_keywords":   []string{"fix", "resolve"},
		"changed_keywords": []string{"change"},
		// max_concurrent_fetches: 0 keeps the unlimited fan-out, one in-flight
		// request per pull request reference.
		"max_concurrent_fetches": 0,
		"remote_priority":        []string{"upstream", "origin"},
	}
}
