package citation

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/coolbeans/lagref/pkg/types"
)

// Diagnostics reported on citations that fail to parse.
const (
	ErrorEmptyInput   = "empty input"
	ErrorUnrecognized = "unrecognized format"
)

// subGrammar is one citation family. Families are tried in a fixed order and
// the first whose pattern matches the whole input wins.
type subGrammar struct {
	name    string
	pattern *regexp.Regexp
	build   func(m []string) (ParsedCitation, bool)
}

// Grammar parses Swedish legal citations: SFS statutes, government bills,
// SOU and Ds reports, and court reporter case law.
type Grammar struct {
	grammars []subGrammar
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NewGrammar creates a citation grammar with compiled patterns.
func NewGrammar() *Grammar {
	codes := make([]string, 0, len(courtReporters))
	for _, r := range courtReporters {
		codes = append(codes, regexp.QuoteMeta(r.Code))
	}

	return &Grammar{
		grammars: []subGrammar{
			{
				name:    "statute",
				pattern: regexp.MustCompile(`(?i)^(?:SFS\s*)?(\d{4}:\d+)(?:\s+(?:(\d+)\s*kap\.?\s*(\d+(?:\s*[a-z])?)\s*§|(\d+):(\d+(?:\s*[a-z])?)|(\d+(?:\s*[a-z])?)\s*§))?$`),
				build:   buildStatute,
			},
			{
				name:    "bill",
				pattern: regexp.MustCompile(`(?i)^prop\.?\s*(\d{4}/\d{2}:\d+)$`),
				build: func(m []string) (ParsedCitation, bool) {
					return ParsedCitation{Type: types.DocumentTypeBill, DocumentID: m[1]}, true
				},
			},
			{
				name:    "report",
				pattern: regexp.MustCompile(`(?i)^(SOU|Ds)\s*(\d{4}:\d+)$`),
				build: func(m []string) (ParsedCitation, bool) {
					docType := types.DocumentTypeSOU
					if strings.EqualFold(m[1], "ds") {
						docType = types.DocumentTypeDs
					}
					return ParsedCitation{Type: docType, DocumentID: m[2]}, true
				},
			},
			{
				name:    "case_law",
				pattern: regexp.MustCompile(`(?i)^(` + strings.Join(codes, "|") + `)\s+(\d{4})(?:\s+(s|ref|nr)\.?\s*(\d+))?$`),
				build:   buildCaseLaw,
			},
		},
	}
}

var defaultGrammar = NewGrammar()

// Parse parses a citation with the default grammar.
func Parse(raw string) ParsedCitation {
	return defaultGrammar.Parse(raw)
}

// Parse parses a single free-form citation. It never fails: unparsable input
// yields a citation with Valid=false and a diagnostic in Error.
func (g *Grammar) Parse(raw string) ParsedCitation {
	input := normalizeInput(raw)
	if input == "" {
		return ParsedCitation{Raw: raw, Error: ErrorEmptyInput}
	}

	for _, sg := range g.grammars {
		m := sg.pattern.FindStringSubmatch(input)
		if m == nil {
			continue
		}
		c, ok := sg.build(m)
		if !ok {
			continue
		}
		c.Raw = raw
		c.Valid = true
		return c
	}

	return ParsedCitation{Raw: raw, Error: ErrorUnrecognized}
}

// Family reports which sub-grammar accepts the input, or "" when none does.
func (g *Grammar) Family(raw string) string {
	input := normalizeInput(raw)
	for _, sg := range g.grammars {
		if m := sg.pattern.FindStringSubmatch(input); m != nil {
			if _, ok := sg.build(m); ok {
				return sg.name
			}
		}
	}
	return ""
}

func normalizeInput(raw string) string {
	s := norm.NFC.String(raw)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func buildStatute(m []string) (ParsedCitation, bool) {
	c := ParsedCitation{Type: types.DocumentTypeStatute, DocumentID: m[1]}
	switch {
	case m[2] != "":
		c.Pinpoint = ChapterSection{Chapter: m[2], Section: types.NormalizeSection(m[3])}
	case m[4] != "":
		c.Pinpoint = ChapterSection{Chapter: m[4], Section: types.NormalizeSection(m[5])}
	case m[6] != "":
		c.Pinpoint = FlatSection{Section: types.NormalizeSection(m[6])}
	}
	return c, true
}

func buildCaseLaw(m []string) (ParsedCitation, bool) {
	reporter, ok := LookupCourtReporter(m[1])
	if !ok {
		return ParsedCitation{}, false
	}
	c := ParsedCitation{
		Type:       types.DocumentTypeCaseLaw,
		DocumentID: reporter.Code + " " + m[2],
	}
	if m[4] != "" {
		c.Pinpoint = PagePinpoint{Marker: canonicalMarker(m[3]), Page: m[4]}
	}
	return c, true
}

func canonicalMarker(raw string) string {
	switch strings.ToLower(strings.TrimSuffix(raw, ".")) {
	case "s":
		return "s."
	case "ref":
		return "ref."
	default:
		return "nr"
	}
}
