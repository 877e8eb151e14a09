package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/coolbeans/lagref/pkg/types"
)

// maxHeadingLength is the rune length below which a line directly after a
// section marker is read as the provision's heading instead of its body.
const maxHeadingLength = 80

// Segmenter splits raw statute text into provisions. The compiled patterns
// are read-only, so a Segmenter is safe for concurrent use; all accumulator
// state lives inside a single Segment call.
type Segmenter struct {
	chapterPattern  *regexp.Regexp
	sectionPattern  *regexp.Regexp
	headingPattern  *regexp.Regexp
	chapteredSignal *regexp.Regexp
}

// NewSegmenter creates a Segmenter with the Swedish statute patterns.
func NewSegmenter() *Segmenter {
	return &Segmenter{
		// "3 kap. Behandling av personuppgifter"
		chapterPattern: regexp.MustCompile(`^(\d+)\s*kap\.\s*(.*)$`),
		// "5 §", "5 a § Text", "12a §Text"
		sectionPattern: regexp.MustCompile(`^(\d+(?:\s*[a-zA-Z])?)\s*§\s*(.*)$`),
		headingPattern: regexp.MustCompile(`^[A-ZÅÄÖ]`),
		// Chaptered detection matches anywhere in the text.
		chapteredSignal: regexp.MustCompile(`\d+\s*kap\.`),
	}
}

var defaultSegmenter = NewSegmenter()

// SegmentProvisions splits statute text using the default Segmenter.
func SegmentProvisions(text string) []types.Provision {
	return defaultSegmenter.Segment(text)
}

// IsChaptered reports whether statute text is divided into chapters.
func IsChaptered(text string) bool {
	return defaultSegmenter.IsChaptered(text)
}

// IsChaptered reports whether the chapter pattern occurs anywhere in text.
func (s *Segmenter) IsChaptered(text string) bool {
	return s.chapteredSignal.MatchString(norm.NFC.String(text))
}

// Segment splits text on line breaks and segments the resulting lines.
// Text is NFC-normalised first so decomposed Å/Ä/Ö still count as uppercase.
func (s *Segmenter) Segment(text string) []types.Provision {
	normalized := norm.NFC.String(text)
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	return s.SegmentLines(strings.Split(normalized, "\n"))
}

// SegmentLines runs the provision state machine over an ordered sequence of
// lines. Each trimmed, non-blank line is tested in priority order: chapter
// heading, section start, heading candidate, body content.
//
// A provision is only emitted when a section is open and has body text; a bare
// "7 §" stub left behind by a repeal yields no record. Only the first heading
// candidate is taken as the title.
func (s *Segmenter) SegmentLines(lines []string) []types.Provision {
	provisions := make([]types.Provision, 0)

	currentChapter := types.None[string]()
	currentSection := ""
	currentTitle := types.None[string]()
	var contentParts []string

	flush := func() {
		if currentSection != "" && len(contentParts) > 0 {
			provisions = append(provisions, types.Provision{
				ProvisionRef: types.ProvisionRef(currentChapter, currentSection),
				Chapter:      currentChapter,
				Section:      currentSection,
				Title:        currentTitle,
				Content:      strings.Join(contentParts, " "),
			})
		}
		currentSection = ""
		currentTitle = types.None[string]()
		contentParts = nil
	}

	for _, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if m := s.chapterPattern.FindStringSubmatch(line); m != nil {
			flush()
			currentChapter = types.Some(m[1])
			continue
		}

		if m := s.sectionPattern.FindStringSubmatch(line); m != nil {
			flush()
			currentSection = types.NormalizeSection(m[1])
			if remainder := strings.TrimSpace(m[2]); remainder != "" {
				contentParts = append(contentParts, remainder)
			}
			continue
		}

		if currentSection == "" {
			continue
		}

		if len(contentParts) == 0 && s.isHeading(line) {
			currentTitle = types.Some(line)
			continue
		}

		contentParts = append(contentParts, line)
	}

	flush()
	return provisions
}

func (s *Segmenter) isHeading(line string) bool {
	return s.headingPattern.MatchString(line) && utf8.RuneCountInString(line) < maxHeadingLength
}
