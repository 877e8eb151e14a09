package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/coolbeans/lagref/pkg/types"
)

func TestNormalizeEUYear(t *testing.T) {
	cases := []struct {
		input    string
		expected int
		ok       bool
	}{
		{"95", 1995, true},
		{"16", 2016, true},
		{"49", 2049, true},
		{"50", 1950, true},
		{"00", 2000, true},
		{"2016", 2016, true},
		{"195", 195, true},
		{"x9", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := NormalizeEUYear(tc.input)
			if got != tc.expected || ok != tc.ok {
				t.Errorf("NormalizeEUYear(%q) = (%d, %v), want (%d, %v)", tc.input, got, ok, tc.expected, tc.ok)
			}
		})
	}
}

func TestClassifyLead(t *testing.T) {
	cases := []struct {
		lead     string
		expected LeadForm
	}{
		{"Europaparlamentets och rådets", LeadIssuingBody},
		{"rådets", LeadIssuingBody},
		{"Kommissionens", LeadIssuingBody},
		{"EU", LeadCommunity},
		{"EEG", LeadCommunity},
		{"Euratom", LeadCommunity},
		{"95", LeadYearNumber},
		{"2016", LeadYearNumber},
		{"", LeadUnparsable},
		{"   ", LeadUnparsable},
	}

	for _, tc := range cases {
		t.Run(tc.lead, func(t *testing.T) {
			if got := ClassifyLead(tc.lead); got != tc.expected {
				t.Errorf("ClassifyLead(%q) = %s, want %s", tc.lead, got, tc.expected)
			}
		})
	}
}

func TestExtractEUReferences(t *testing.T) {
	cases := []struct {
		name          string
		text          string
		actType       types.EUActType
		id            string
		community     string
		issuingBody   string
		article       string
		referenceType types.EUReferenceType
	}{
		{
			name:          "issuing_body_regulation",
			text:          "Denna lag kompletterar Europaparlamentets och rådets förordning (EU) 2016/679 av den 27 april 2016.",
			actType:       types.EURegulation,
			id:            "2016/679",
			community:     "EU",
			issuingBody:   "Europaparlamentets och rådets",
			referenceType: types.EURefSupplements,
		},
		{
			name:          "directive_community_suffix",
			text:          "Personuppgiftslagen byggde på direktiv 95/46/EG.",
			actType:       types.EUDirective,
			id:            "1995/46",
			community:     "EG",
			referenceType: types.EURefImplements,
		},
		{
			name:          "regulation_nr_number_first",
			text:          "Allmänhetens tillgång till handlingar regleras i förordning (EG) nr 1049/2001.",
			actType:       types.EURegulation,
			id:            "2001/1049",
			community:     "EG",
			referenceType: types.EURefApplies,
		},
		{
			name:          "issuing_body_directive_with_community",
			text:          "Lagen genomför Europaparlamentets och rådets direktiv (EU) 2016/680.",
			actType:       types.EUDirective,
			id:            "2016/680",
			community:     "EU",
			issuingBody:   "Europaparlamentets och rådets",
			referenceType: types.EURefImplements,
		},
		{
			name:          "named_alias",
			text:          "Behandlingen ska ske med beaktande av dataskyddsförordningens krav.",
			actType:       types.EURegulation,
			id:            "2016/679",
			community:     "EU",
			referenceType: types.EURefApplies,
		},
		{
			name:          "article_pinpoint",
			text:          "Uppgifter som avses i artikel 9.1 i förordning (EU) 2016/679 är känsliga.",
			actType:       types.EURegulation,
			id:            "2016/679",
			community:     "EU",
			article:       "9.1",
			referenceType: types.EURefCitesArticle,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			refs := ExtractEUReferences(tc.text)
			if len(refs) != 1 {
				for _, ref := range refs {
					t.Logf("  %s %s community=%v text=%q", ref.Type, ref.ID, ref.Community, ref.FullText)
				}
				t.Fatalf("Expected 1 reference, got %d", len(refs))
			}

			ref := refs[0]
			if ref.Type != tc.actType {
				t.Errorf("Type: got %s, want %s", ref.Type, tc.actType)
			}
			if ref.ID != tc.id {
				t.Errorf("ID: got %q, want %q", ref.ID, tc.id)
			}
			if ref.Community.OrElse("") != tc.community {
				t.Errorf("Community: got %v, want %q", ref.Community, tc.community)
			}
			if ref.IssuingBody.OrElse("") != tc.issuingBody {
				t.Errorf("IssuingBody: got %v, want %q", ref.IssuingBody, tc.issuingBody)
			}
			if ref.Article.OrElse("") != tc.article {
				t.Errorf("Article: got %v, want %q", ref.Article, tc.article)
			}
			if ref.ReferenceType != tc.referenceType {
				t.Errorf("ReferenceType: got %s, want %s", ref.ReferenceType, tc.referenceType)
			}
			if !strings.Contains(ref.Context, ref.FullText) {
				t.Errorf("Context %q does not contain FullText %q", ref.Context, ref.FullText)
			}
		})
	}
}

func TestImplementationKeywordsMatchWholeWords(t *testing.T) {
	cases := []struct {
		name          string
		text          string
		id            string
		referenceType types.EUReferenceType
		keyword       string
	}{
		{
			name:          "keyword_inside_act_name",
			text:          "Marknadskontroll sker enligt kommissionens genomförandeförordning (EU) 2019/1020.",
			id:            "2019/1020",
			referenceType: types.EURefApplies,
			keyword:       "enligt",
		},
		{
			name:          "keyword_inside_verb",
			text:          "Tillsynen förändrar inget i förordning (EU) 2016/679.",
			id:            "2016/679",
			referenceType: types.EURefApplies,
		},
		{
			name:          "standalone_keyword",
			text:          "Lagen ändrar tillämpningen av förordning (EU) 2016/679.",
			id:            "2016/679",
			referenceType: types.EURefAmends,
			keyword:       "ändrar",
		},
		{
			name:          "capitalised_keyword",
			text:          "Genomför direktiv (EU) 2016/680 i svensk rätt.",
			id:            "2016/680",
			referenceType: types.EURefImplements,
			keyword:       "genomför",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			refs := ExtractEUReferences(tc.text)
			if len(refs) != 1 {
				t.Fatalf("Expected 1 reference, got %d", len(refs))
			}
			ref := refs[0]
			if ref.ID != tc.id {
				t.Errorf("ID: got %q, want %q", ref.ID, tc.id)
			}
			if ref.ReferenceType != tc.referenceType {
				t.Errorf("ReferenceType: got %s, want %s", ref.ReferenceType, tc.referenceType)
			}
			if got := ref.ImplementationKeyword.OrElse(""); got != tc.keyword {
				t.Errorf("ImplementationKeyword: got %q, want %q", got, tc.keyword)
			}
		})
	}
}

func TestExtractEUReferencesFamilyOrder(t *testing.T) {
	refs := ExtractEUReferences("Se förordning (EU) 2016/679 och direktiv (EU) 2016/680.")

	if len(refs) != 2 {
		t.Fatalf("Expected 2 references, got %d", len(refs))
	}
	if refs[0].Type != types.EUDirective || refs[1].Type != types.EURegulation {
		t.Errorf("Expected directive before regulation, got %s then %s", refs[0].Type, refs[1].Type)
	}
	if refs[1].CELEX() != "32016R0679" || refs[1].LookupKey() != "regulation:2016/679" {
		t.Errorf("derived identifiers: got %s %s", refs[1].CELEX(), refs[1].LookupKey())
	}
}

func TestExtractEUReferencesDedupKeyIncludesCommunity(t *testing.T) {
	refs := ExtractEUReferences("direktiv 95/46/EG och direktiv 95/46/EG samt direktiv 95/46")

	if len(refs) != 2 {
		t.Fatalf("Expected 2 references, got %d", len(refs))
	}
	if refs[0].Community.OrElse("") != "EG" || refs[1].Community.IsSome() {
		t.Errorf("communities: got %v and %v", refs[0].Community, refs[1].Community)
	}
}

func TestExtractEUReferencesIgnoresSwedishOrdinances(t *testing.T) {
	refs := ExtractEUReferences("Enligt förordning (2018:219) och dataskyddsdirektivets regler i lagen (2018:218).")

	// "dataskyddsdirektivets" is an alias; the Swedish ordinance is not an EU act.
	if len(refs) != 1 || refs[0].ID != "1995/46" {
		t.Fatalf("Expected only the aliased directive, got %+v", refs)
	}
}

func TestContextWindow(t *testing.T) {
	padding := strings.Repeat("å", 150)
	text := padding + "direktiv 95/46/EG" + padding

	refs := ExtractEUReferences(text)
	if len(refs) != 1 {
		t.Fatalf("Expected 1 reference, got %d", len(refs))
	}

	want := 2*ContextRadius + utf8.RuneCountInString("direktiv 95/46/EG")
	if got := utf8.RuneCountInString(refs[0].Context); got != want {
		t.Errorf("context length: got %d runes, want %d", got, want)
	}
	if !utf8.ValidString(refs[0].Context) {
		t.Error("context split a UTF-8 sequence")
	}
}
