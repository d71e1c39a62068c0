package changelog

import (
	"testing"
)

const sampleDocument = `# Changelog
All notable changes to widget are documented here.

## [1.1.0] - 2026-05-02

### Added
- dark mode


## [1.0.0] - 2026-01-05
- first release
`

func TestParse(t *testing.T) {
	doc, err := Parse(sampleDocument)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Title != "Changelog" {
		t.Errorf("Title = %q, want %q", doc.Title, "Changelog")
	}
	if doc.Description != "All notable changes to widget are documented here." {
		t.Errorf("Description = %q", doc.Description)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("Sections = %d, want 2", len(doc.Sections))
	}

	if doc.Sections[0].Title != "[1.1.0] - 2026-05-02" {
		t.Errorf("first section title = %q", doc.Sections[0].Title)
	}
	if doc.Sections[0].Body != "\n### Added\n- dark mode" {
		t.Errorf("first section body = %q", doc.Sections[0].Body)
	}
	if doc.Sections[1].Title != "[1.0.0] - 2026-01-05" {
		t.Errorf("second section title = %q", doc.Sections[1].Title)
	}
	if doc.Sections[1].Body != "- first release" {
		t.Errorf("second section body = %q", doc.Sections[1].Body)
	}
}

func TestParseEdgeCases(t *testing.T) {
	tests := map[string]struct {
		text         string
		wantTitle    string
		wantDesc     string
		wantSections int
		wantErr      bool
	}{
		"title only": {
			text:      "# Changelog\n",
			wantTitle: "Changelog",
		},
		"leading blank lines before title": {
			text:      "\n\n# Changelog\nDescription.\n",
			wantTitle: "Changelog",
			wantDesc:  "Description.",
		},
		"no title heading": {
			text:    "just some text\n",
			wantErr: true,
		},
		"empty input": {
			text:    "",
			wantErr: true,
		},
		"section without body": {
			text:         "# C\nd\n## [1.0.0] - 2026-01-01\n",
			wantTitle:    "C",
			wantDesc:     "d",
			wantSections: 1,
		},
		"three-hash heading belongs to description": {
			text:      "# C\n### not a release section\n",
			wantTitle: "C",
			wantDesc:  "### not a release section",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Parse() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if doc.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", doc.Title, tt.wantTitle)
			}
			if doc.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", doc.Description, tt.wantDesc)
			}
			if len(doc.Sections) != tt.wantSections {
				t.Errorf("Sections = %d, want %d", len(doc.Sections), tt.wantSections)
			}
		})
	}
}
