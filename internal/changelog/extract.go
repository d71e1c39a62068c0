package changelog

import (
	"fmt"
	"regexp"
	"strconv"
)

// refPattern matches a change reference: a hash mark followed by digits
// without a leading zero, e.g. "#42".
var refPattern = regexp.MustCompile(`#([1-9][0-9]*)`)

// MalformedMergeEventError reports a merge commit whose message carries no
// pull request reference. This aborts the run rather than skipping the
// commit: one unparseable merge means the extraction cannot be trusted for
// the whole window.
type MalformedMergeEventError struct {
	Event string
}

func (e *MalformedMergeEventError) Error() string {
	return fmt.Sprintf("merge event contains no pull request reference: %q", e.Event)
}

// ExtractRefs parses the first pull request reference out of each merge
// event text. Output order matches input order, and a number cited by two
// distinct merges appears twice: one merge, one fetch.
func ExtractRefs(events []string) ([]int, error) {
	refs := make([]int, 0, len(events))

	for _, event := range events {
		match := refPattern.FindStringSubmatch(event)
		if match == nil {
			return nil, &MalformedMergeEventError{Event: event}
		}

		n, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, &MalformedMergeEventError{Event: event}
		}
		refs = append(refs, n)
	}

	return refs, nil
}
