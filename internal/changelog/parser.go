package changelog

import (
	"fmt"
	"os"
	"strings"
)

// ParseError reports a changelog document that does not follow the expected
// shape: a single "# " title line, a free-text description, and zero or more
// "## " release sections.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// LoadDocument reads and parses the changelog file at the given path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog file: %w", err)
	}
	return Parse(string(data))
}

// Parse decomposes existing changelog Markdown into a Document. Section
// bodies are captured raw, with only trailing newlines dropped, so rendering
// reproduces them byte-for-byte. Parsing the output of Render yields the
// same sections again.
func Parse(text string) (*Document, error) {
	lines := strings.Split(text, "\n")

	titleIdx := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			titleIdx = i
			break
		}
		if strings.TrimSpace(line) != "" {
			break
		}
	}
	if titleIdx < 0 {
		return nil, &ParseError{Message: "changelog document has no '# ' title heading"}
	}

	doc := &Document{Title: strings.TrimSpace(lines[titleIdx][2:])}

	// Description: everything between the title and the first section heading.
	i := titleIdx + 1
	var descLines []string
	for ; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "## ") {
			break
		}
		descLines = append(descLines, lines[i])
	}
	doc.Description = strings.TrimSpace(strings.Join(descLines, "\n"))

	// Sections: a "## " heading line and the raw body up to the next heading.
	for i < len(lines) {
		title := strings.TrimPrefix(lines[i], "## ")
		i++

		start := i
		for i < len(lines) && !strings.HasPrefix(lines[i], "## ") {
			i++
		}
		body := strings.TrimRight(strings.Join(lines[start:i], "\n"), "\n")

		doc.Sections = append(doc.Sections, Section{Title: title, Body: body})
	}

	return doc, nil
}
