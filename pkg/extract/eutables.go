package extract

import (
	"regexp"

	"github.com/coolbeans/lagref/pkg/types"
)

// implementationKeyword maps a Swedish phrase describing how a national
// provision relates to an EU act onto a reference type.
type implementationKeyword struct {
	Phrase        string
	ReferenceType types.EUReferenceType
}

// implementationKeywords is scanned in order and the first phrase present in
// the context wins, so specific phrases precede general ones.
var implementationKeywords = []implementationKeyword{
	{Phrase: "kompletterande bestämmelser till", ReferenceType: types.EURefSupplements},
	{Phrase: "kompletterar", ReferenceType: types.EURefSupplements},
	{Phrase: "genomförande av", ReferenceType: types.EURefImplements},
	{Phrase: "genomför", ReferenceType: types.EURefImplements},
	{Phrase: "uppfyller kraven i", ReferenceType: types.EURefCompliesWith},
	{Phrase: "i enlighet med", ReferenceType: types.EURefCompliesWith},
	{Phrase: "ändring av", ReferenceType: types.EURefAmends},
	{Phrase: "ändrar", ReferenceType: types.EURefAmends},
	{Phrase: "med stöd av", ReferenceType: types.EURefApplies},
	{Phrase: "enligt", ReferenceType: types.EURefApplies},
}

// keywordPattern pairs a keyword with a pattern that only matches the phrase
// as whole words, so "genomför" does not fire inside "genomförandeförordning".
type keywordPattern struct {
	keyword implementationKeyword
	pattern *regexp.Regexp
}

var implementationKeywordPatterns = compileKeywords(implementationKeywords)

func compileKeywords(keywords []implementationKeyword) []keywordPattern {
	compiled := make([]keywordPattern, 0, len(keywords))
	for _, keyword := range keywords {
		compiled = append(compiled, keywordPattern{
			keyword: keyword,
			pattern: regexp.MustCompile(`(?i)(?:^|[^\p{L}])` + regexp.QuoteMeta(keyword.Phrase) + `(?:[^\p{L}]|$)`),
		})
	}
	return compiled
}

// namedEUAct is an EU act habitually cited by name rather than by number.
type namedEUAct struct {
	Aliases   []string
	Type      types.EUActType
	Year      int
	Number    int
	Community string
}

var namedEUActs = []namedEUAct{
	{
		Aliases:   []string{"allmänna dataskyddsförordningen", "dataskyddsförordningen", "General Data Protection Regulation", "GDPR"},
		Type:      types.EURegulation,
		Year:      2016,
		Number:    679,
		Community: "EU",
	},
	{
		Aliases:   []string{"dataskyddsdirektivet"},
		Type:      types.EUDirective,
		Year:      1995,
		Number:    46,
		Community: "EG",
	},
	{
		Aliases:   []string{"brottsdatadirektivet", "polisdirektivet"},
		Type:      types.EUDirective,
		Year:      2016,
		Number:    680,
		Community: "EU",
	},
	{
		Aliases:   []string{"e-dataskyddsdirektivet", "ePrivacy-direktivet"},
		Type:      types.EUDirective,
		Year:      2002,
		Number:    58,
		Community: "EG",
	},
	{
		Aliases:   []string{"NIS2-direktivet"},
		Type:      types.EUDirective,
		Year:      2022,
		Number:    2555,
		Community: "EU",
	},
	{
		Aliases:   []string{"NIS-direktivet"},
		Type:      types.EUDirective,
		Year:      2016,
		Number:    1148,
		Community: "EU",
	},
	{
		Aliases:   []string{"AI-förordningen"},
		Type:      types.EURegulation,
		Year:      2024,
		Number:    1689,
		Community: "EU",
	},
	{
		Aliases:   []string{"eIDAS-förordningen"},
		Type:      types.EURegulation,
		Year:      2014,
		Number:    910,
		Community: "EU",
	},
	{
		Aliases:   []string{"förordningen om digitala tjänster"},
		Type:      types.EURegulation,
		Year:      2022,
		Number:    2065,
		Community: "EU",
	},
}

// namedActPattern pairs a compiled alias with the act it denotes.
type namedActPattern struct {
	act     namedEUAct
	pattern *regexp.Regexp
}

// compileNamedActs builds one case-insensitive pattern per alias. A trailing
// genitive "s" is accepted ("dataskyddsförordningens").
func compileNamedActs(acts []namedEUAct) []namedActPattern {
	var compiled []namedActPattern
	for _, act := range acts {
		for _, alias := range act.Aliases {
			compiled = append(compiled, namedActPattern{
				act:     act,
				pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(alias) + `s?\b`),
			})
		}
	}
	return compiled
}
