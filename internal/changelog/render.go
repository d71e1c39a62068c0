package changelog

import (
	"fmt"
	"io"
	"strings"
)

// RenderOptions carries the repository identity needed to rewrite #N cross
// references into links.
type RenderOptions struct {
	GitHubHost string
	Owner      string
	Repo       string
}

// Render writes the merged changelog: the document header, the new release
// section, then every previously existing section verbatim, in original
// order. Nothing from the original document is reordered, edited, or
// dropped.
func Render(doc *Document, rel *Release, opts RenderOptions, w io.Writer) error {
	if err := renderHeader(doc, w); err != nil {
		return fmt.Errorf("rendering header: %w", err)
	}

	if err := renderRelease(rel, opts, w); err != nil {
		return fmt.Errorf("rendering release %s: %w", rel.Version, err)
	}

	for _, s := range doc.Sections {
		if err := renderSection(&s, w); err != nil {
			return fmt.Errorf("rendering section %s: %w", s.Title, err)
		}
	}

	return nil
}

// RenderString is a convenience function that renders to a string.
func RenderString(doc *Document, rel *Release, opts RenderOptions) (string, error) {
	var b strings.Builder
	if err := Render(doc, rel, opts, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderHeader writes the document title and description.
func renderHeader(doc *Document, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# %s\n", doc.Title); err != nil {
		return err
	}
	if doc.Description != "" {
		if _, err := fmt.Fprintf(w, "%s\n", doc.Description); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// renderRelease writes the new release heading and its non-empty category
// groups in fixed order.
func renderRelease(rel *Release, opts RenderOptions, w io.Writer) error {
	// Days are always zero-padded, like months.
	date := rel.Date.Format("2006-01-02")
	if _, err := fmt.Fprintf(w, "## [%s] - %s\n\n", rel.Version, date); err != nil {
		return err
	}

	for _, cat := range Categories() {
		records := rel.Changes.Group(cat)
		if len(records) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "### %s\n", cat); err != nil {
			return err
		}
		for _, r := range records {
			if _, err := io.WriteString(w, formatRecordLine(r, opts)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}

// formatRecordLine builds the Markdown list line for one pull request.
// When the first line of the PR description cites an issue or PR number,
// that line is appended lower-cased with every reference linkified.
func formatRecordLine(r Record, opts RenderOptions) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "- [PR #%d](%s): %s", r.Number, r.URL, r.Title)

	if first := firstLine(r.Body); refPattern.MatchString(first) {
		sb.WriteString(", ")
		sb.WriteString(linkifyRefs(strings.ToLower(first), opts))
	}

	fmt.Fprintf(&sb, ". Thanks [%s](%s) for the PR!\n", r.Author.Name, r.Author.URL)
	return sb.String()
}

// firstLine returns the first line of s, trimmed of surrounding whitespace.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// linkifyRefs rewrites every #N occurrence into a Markdown link. The issues
// path is used uniformly; GitHub redirects it when the number is actually a
// pull request.
func linkifyRefs(line string, opts RenderOptions) string {
	return refPattern.ReplaceAllStringFunc(line, func(ref string) string {
		number := strings.TrimPrefix(ref, "#")
		return fmt.Sprintf("[%s](%s/%s/%s/issues/%s)", ref, opts.GitHubHost, opts.Owner, opts.Repo, number)
	})
}

// renderSection copies one original section through: heading, verbatim body,
// two trailing blank lines.
func renderSection(s *Section, w io.Writer) error {
	_, err := fmt.Fprintf(w, "## %s\n%s\n\n\n", s.Title, s.Body)
	return err
}
