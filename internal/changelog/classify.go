package changelog

import "strings"

// Rules holds the keyword lists driving title classification, evaluated in
// fixed priority order: Fixed keywords first, then Changed, then the Added
// catch-all. Lists come from configuration so tests can substitute them.
type Rules struct {
	Fixed   []string
	Changed []string
}

// Classify assigns a pull request title to a category by case-insensitive
// substring match. Every keyword in the active list is consulted, so a title
// containing "resolve" files under Fixed just like one containing "fix".
// Matching is purely lexical; nothing inspects the change itself.
func Classify(title string, rules Rules) Category {
	lower := strings.ToLower(title)

	if containsAny(lower, rules.Fixed) {
		return CategoryFixed
	}
	if containsAny(lower, rules.Changed) {
		return CategoryChanged
	}
	return CategoryAdded
}

// containsAny reports whether s contains at least one of the keywords.
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
