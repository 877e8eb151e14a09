package extract

import (
	"regexp"
	"strings"
)

// articleBody matches one article pinpoint: a number followed by any mix of
// ".1", "(h)", "-15" and a trailing point letter ("6.1 c"). Space-separated
// letters stop at h so the preposition "i" is never swallowed.
const articleBody = `\d+(?:\s*\.\s*\d+|\s*\(\s*[a-zA-Z0-9]+\s*\)|\s*[-‐‑‒–—−]\s*\d+(?:\.\d+)*|\.\s*[a-z]\b|\s+[a-h]\b)*`

var (
	// "artikel 6.1 c", "artiklarna 13–15 och 21", "art. 9(h)"
	articleSegmentPattern = regexp.MustCompile(
		`(?i:\b(?:artik(?:eln|el|larna|lar)|art\.))\s*(` + articleBody + `(?:\s*(?:,|och|samt)\s*` + articleBody + `)*)`)
	articleSeparatorPattern = regexp.MustCompile(`\s*(?:,|\boch\b|\bsamt\b)\s*`)

	dashReplacer          = strings.NewReplacer("‐", "-", "‑", "-", "‒", "-", "–", "-", "—", "-", "−", "-")
	parenthesisedPattern  = regexp.MustCompile(`\(\s*([A-Za-z0-9]+)\s*\)`)
	trailingLetterPattern = regexp.MustCompile(`\s+([A-Za-z])$`)
	repeatedDotPattern    = regexp.MustCompile(`\.{2,}`)
	articlePathShape      = regexp.MustCompile(`^\d+(?:\.\d+)*(?:\.[a-z])?$`)
	articleRangeShape     = regexp.MustCompile(`^\d+(?:\.\d+)*-\d+(?:\.\d+)*$`)
)

// NormalizeArticleToken canonicalises a single article pinpoint. Dash
// variants become "-", parenthesised sub-points become dot suffixes
// ("9(h)" -> "9.h"), whitespace is removed, stray dots are trimmed and the
// result is lower-cased. The token is accepted only if it is a dotted path
// ("6.1.a") or an inclusive numeric range ("13-15").
func NormalizeArticleToken(token string) (string, bool) {
	normalized := dashReplacer.Replace(strings.TrimSpace(token))
	normalized = parenthesisedPattern.ReplaceAllString(normalized, ".$1")
	normalized = trailingLetterPattern.ReplaceAllString(normalized, ".$1")
	normalized = strings.Join(strings.Fields(normalized), "")
	normalized = repeatedDotPattern.ReplaceAllString(normalized, ".")
	normalized = strings.Trim(normalized, ".")
	normalized = strings.ToLower(normalized)

	if articlePathShape.MatchString(normalized) || articleRangeShape.MatchString(normalized) {
		return normalized, true
	}
	return "", false
}

// ExtractArticles finds article pinpoints in text and returns the distinct
// normalised tokens in order of appearance.
func ExtractArticles(text string) []string {
	articles := make([]string, 0)
	seen := make(map[string]bool)

	for _, m := range articleSegmentPattern.FindAllStringSubmatch(text, -1) {
		for _, token := range articleSeparatorPattern.Split(m[1], -1) {
			normalized, ok := NormalizeArticleToken(token)
			if !ok || seen[normalized] {
				continue
			}
			seen[normalized] = true
			articles = append(articles, normalized)
		}
	}

	return articles
}
