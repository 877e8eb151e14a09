package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coolbeans/lagref/pkg/types"
)

// ContextRadius is the number of characters captured on each side of an EU
// reference for audit and for the article/keyword scans.
const ContextRadius = 100

// LeadForm names the surface grammar an EU citation was written in, as
// determined by its first captured group.
type LeadForm int

const (
	// LeadUnparsable means the lead group fits no known grammar.
	LeadUnparsable LeadForm = iota
	// LeadIssuingBody is "Europaparlamentets och rådets direktiv ...".
	LeadIssuingBody
	// LeadCommunity is "direktiv (EU) 2016/680" or "förordning (EG) nr 1049/2001".
	LeadCommunity
	// LeadYearNumber is "direktiv 95/46/EG".
	LeadYearNumber
)

func (f LeadForm) String() string {
	switch f {
	case LeadIssuingBody:
		return "issuing_body"
	case LeadCommunity:
		return "community"
	case LeadYearNumber:
		return "year_number"
	default:
		return "unparsable"
	}
}

const (
	issuingBodyAlternation = `Europaparlamentets\s+och\s+rådets|Europaparlamentets|rådets|kommissionens`
	communityAlternation   = `EU|EG|EEG|Euratom`
)

var (
	issuingBodyVocabulary = regexp.MustCompile(`(?i)(parlament|råd|kommission)`)
	numericLead           = regexp.MustCompile(`^\d+$`)
)

// ClassifyLead applies the disambiguation rule to the first captured group
// of an EU citation match: issuing-body vocabulary wins, then any other
// non-numeric text is a community marker, then a numeric lead is a year.
// Anything else, including an empty lead, is unparsable.
func ClassifyLead(lead string) LeadForm {
	lead = strings.TrimSpace(lead)
	switch {
	case lead == "":
		return LeadUnparsable
	case issuingBodyVocabulary.MatchString(lead):
		return LeadIssuingBody
	case !numericLead.MatchString(lead):
		return LeadCommunity
	case numericLead.MatchString(lead):
		return LeadYearNumber
	default:
		return LeadUnparsable
	}
}

// NormalizeEUYear expands a two-digit year: below 50 is 20xx, otherwise
// 19xx. Years of three or more digits pass through. Non-numeric input is
// rejected.
func NormalizeEUYear(raw string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || year < 0 {
		return 0, false
	}
	switch {
	case year < 50:
		return 2000 + year, true
	case year < 100:
		return 1900 + year, true
	default:
		return year, true
	}
}

// euSubGrammar is one named surface grammar. The decode function reads the
// grammar's own capture layout; form is the LeadForm its first group must
// classify as for a match to be accepted.
type euSubGrammar struct {
	name    string
	actType types.EUActType
	form    LeadForm
	pattern *regexp.Regexp
	decode  func(groups []string) (euCandidate, bool)
}

// euCandidate carries the raw pieces of a match before normalisation.
type euCandidate struct {
	year        string
	number      string
	community   string
	issuingBody string
}

// EUReferenceExtractor locates citations to EU directives and regulations in
// Swedish legal text. Patterns and tables are read-only after construction.
type EUReferenceExtractor struct {
	grammars  []euSubGrammar
	namedActs []namedActPattern
}

// NewEUReferenceExtractor builds the extractor. Sub-grammars run in a fixed
// priority list: directives (issuing body, community, year/number), then
// regulations (issuing body, community), then named-act aliases.
func NewEUReferenceExtractor() *EUReferenceExtractor {
	return &EUReferenceExtractor{
		grammars: []euSubGrammar{
			{
				name:    "directive_issuing_body",
				actType: types.EUDirective,
				form:    LeadIssuingBody,
				pattern: regexp.MustCompile(`(?i)\b(` + issuingBodyAlternation + `)\s+(?:delegerade\s+)?(?:genomförande)?direktiv(?:et)?\s+(?:\((` + communityAlternation + `)\)\s*)?(?:nr\.?\s*)?(\d{2,4})/(\d{1,4})(?:/(` + communityAlternation + `))?`),
				decode: func(g []string) (euCandidate, bool) {
					community := g[2]
					if community == "" {
						community = g[5]
					}
					return euCandidate{issuingBody: g[1], community: community, year: g[3], number: g[4]}, true
				},
			},
			{
				name:    "directive_community",
				actType: types.EUDirective,
				form:    LeadCommunity,
				pattern: regexp.MustCompile(`(?i)\bdirektiv(?:et)?\s+\((` + communityAlternation + `)\)\s*(?:nr\.?\s*)?(\d{2,4})/(\d{1,4})`),
				decode: func(g []string) (euCandidate, bool) {
					return euCandidate{community: g[1], year: g[2], number: g[3]}, true
				},
			},
			{
				name:    "directive_year_number",
				actType: types.EUDirective,
				form:    LeadYearNumber,
				pattern: regexp.MustCompile(`(?i)\bdirektiv(?:et)?\s+(\d{2,4})/(\d{1,4})(?:/(` + communityAlternation + `))?`),
				decode: func(g []string) (euCandidate, bool) {
					return euCandidate{year: g[1], number: g[2], community: g[3]}, true
				},
			},
			{
				name:    "regulation_issuing_body",
				actType: types.EURegulation,
				form:    LeadIssuingBody,
				pattern: regexp.MustCompile(`(?i)\b(` + issuingBodyAlternation + `)\s+(?:delegerade\s+)?(?:genomförande)?förordning(?:en)?\s+\((` + communityAlternation + `)\)\s*(nr\.?\s*)?(\d{1,4})/(\d{1,4})`),
				decode: func(g []string) (euCandidate, bool) {
					year, number := regulationYearNumber(g[3] != "", g[4], g[5])
					return euCandidate{issuingBody: g[1], community: g[2], year: year, number: number}, true
				},
			},
			{
				name:    "regulation_community",
				actType: types.EURegulation,
				form:    LeadCommunity,
				pattern: regexp.MustCompile(`(?i)\bförordning(?:en)?\s+\((` + communityAlternation + `)\)\s*(nr\.?\s*)?(\d{1,4})/(\d{1,4})`),
				decode: func(g []string) (euCandidate, bool) {
					year, number := regulationYearNumber(g[2] != "", g[3], g[4])
					return euCandidate{community: g[1], year: year, number: number}, true
				},
			},
		},
		namedActs: compileNamedActs(namedEUActs),
	}
}

// regulationYearNumber orders the two numbers of a regulation citation.
// Older "nr" citations put the number first ("nr 1049/2001").
func regulationYearNumber(hasNrMarker bool, first, second string) (string, string) {
	if hasNrMarker {
		return second, first
	}
	return first, second
}

var defaultEUExtractor = NewEUReferenceExtractor()

// ExtractEUReferences runs the default extractor over text.
func ExtractEUReferences(text string) []types.EUReference {
	return defaultEUExtractor.Extract(text)
}

// Extract returns every distinct EU reference in text, deduplicated by
// "{id}:{community}", each enhanced with article pinpoints and a reference
// type. Matches whose numbers do not parse are dropped.
func (e *EUReferenceExtractor) Extract(text string) []types.EUReference {
	refs := make([]types.EUReference, 0)
	seen := make(map[string]bool)

	add := func(ref types.EUReference) {
		key := ref.ID + ":" + ref.Community.OrElse("")
		if seen[key] {
			return
		}
		seen[key] = true
		refs = append(refs, ref)
	}

	for _, grammar := range e.grammars {
		for _, idx := range grammar.pattern.FindAllStringSubmatchIndex(text, -1) {
			groups := submatchStrings(text, idx)
			if ClassifyLead(groups[1]) != grammar.form {
				continue
			}
			candidate, ok := grammar.decode(groups)
			if !ok {
				continue
			}
			ref, ok := buildEUReference(grammar.actType, candidate, text, idx[0], idx[1])
			if !ok {
				continue
			}
			add(ref)
		}
	}

	for _, named := range e.namedActs {
		for _, idx := range named.pattern.FindAllStringIndex(text, -1) {
			ref := types.EUReference{
				Type:       named.act.Type,
				ID:         fmt.Sprintf("%d/%d", named.act.Year, named.act.Number),
				Year:       named.act.Year,
				Number:     named.act.Number,
				Community:  types.SomeIfNonEmpty(named.act.Community),
				FullText:   text[idx[0]:idx[1]],
				Context:    contextWindow(text, idx[0], idx[1], ContextRadius),
				TextOffset: idx[0],
			}
			add(ref)
		}
	}

	for i := range refs {
		enhanceEUReference(&refs[i])
	}

	return refs
}

func buildEUReference(actType types.EUActType, candidate euCandidate, text string, start, end int) (types.EUReference, bool) {
	year, ok := NormalizeEUYear(candidate.year)
	if !ok {
		return types.EUReference{}, false
	}
	number, err := strconv.Atoi(candidate.number)
	if err != nil {
		return types.EUReference{}, false
	}

	return types.EUReference{
		Type:        actType,
		ID:          fmt.Sprintf("%d/%d", year, number),
		Year:        year,
		Number:      number,
		Community:   types.SomeIfNonEmpty(canonicalCommunity(candidate.community)),
		IssuingBody: types.SomeIfNonEmpty(strings.Join(strings.Fields(candidate.issuingBody), " ")),
		FullText:    text[start:end],
		Context:     contextWindow(text, start, end, ContextRadius),
		TextOffset:  start,
	}, true
}

// enhanceEUReference fills in article pinpoints and the reference type from
// the reference's context window.
func enhanceEUReference(ref *types.EUReference) {
	articles := ExtractArticles(ref.Context)
	if len(articles) > 0 {
		ref.Article = types.Some(strings.Join(articles, ","))
		ref.ReferenceType = types.EURefCitesArticle
	}

	for _, kp := range implementationKeywordPatterns {
		if kp.pattern.MatchString(ref.Context) {
			ref.ImplementationKeyword = types.Some(kp.keyword.Phrase)
			ref.ReferenceType = kp.keyword.ReferenceType
			break
		}
	}

	if ref.ReferenceType == "" {
		if ref.Type == types.EUDirective {
			ref.ReferenceType = types.EURefImplements
		} else {
			ref.ReferenceType = types.EURefApplies
		}
	}
}

func canonicalCommunity(community string) string {
	switch strings.ToUpper(strings.TrimSpace(community)) {
	case "":
		return ""
	case "EURATOM":
		return "Euratom"
	default:
		return strings.ToUpper(strings.TrimSpace(community))
	}
}

// submatchStrings expands submatch indices into strings, using "" for
// groups that did not participate.
func submatchStrings(text string, idx []int) []string {
	groups := make([]string, len(idx)/2)
	for i := range groups {
		if idx[2*i] >= 0 {
			groups[i] = text[idx[2*i]:idx[2*i+1]]
		}
	}
	return groups
}

// contextWindow returns text from radius characters before start to radius
// characters after end, never splitting a UTF-8 sequence.
func contextWindow(text string, start, end, radius int) string {
	from := start
	for n := 0; n < radius && from > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}
	to := end
	for n := 0; n < radius && to < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}
	return text[from:to]
}
