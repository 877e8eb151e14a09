package citation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/coolbeans/lagref/pkg/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantType   types.DocumentType
		wantDoc    string
		wantPin    Pinpoint
		wantFamily string
	}{
		{"chaptered statute", "SFS 2018:218 3 kap. 5 §", types.DocumentTypeStatute, "2018:218", ChapterSection{Chapter: "3", Section: "5"}, "statute"},
		{"statute without prefix", "2018:218 3 kap. 5 §", types.DocumentTypeStatute, "2018:218", ChapterSection{Chapter: "3", Section: "5"}, "statute"},
		{"statute short form", "2009:400 21:7", types.DocumentTypeStatute, "2009:400", ChapterSection{Chapter: "21", Section: "7"}, "statute"},
		{"statute letter suffix", "SFS 1962:700 4 kap. 9c §", types.DocumentTypeStatute, "1962:700", ChapterSection{Chapter: "4", Section: "9 c"}, "statute"},
		{"flat statute", "SFS 1915:218 36 §", types.DocumentTypeStatute, "1915:218", FlatSection{Section: "36"}, "statute"},
		{"statute without pinpoint", "SFS 2017:900", types.DocumentTypeStatute, "2017:900", nil, "statute"},
		{"extra whitespace", "  SFS   2018:218  3  kap.  5 a  § ", types.DocumentTypeStatute, "2018:218", ChapterSection{Chapter: "3", Section: "5 a"}, "statute"},
		{"bill", "Prop. 2017/18:105", types.DocumentTypeBill, "2017/18:105", nil, "bill"},
		{"sou", "SOU 2017:39", types.DocumentTypeSOU, "2017:39", nil, "report"},
		{"ds", "Ds 2019:5", types.DocumentTypeDs, "2019:5", nil, "report"},
		{"nja page", "NJA 2020 s. 45", types.DocumentTypeCaseLaw, "NJA 2020", PagePinpoint{Marker: "s.", Page: "45"}, "case_law"},
		{"hfd ref", "HFD 2019 ref. 12", types.DocumentTypeCaseLaw, "HFD 2019", PagePinpoint{Marker: "ref.", Page: "12"}, "case_law"},
		{"ad nr", "AD 2021 nr 3", types.DocumentTypeCaseLaw, "AD 2021", PagePinpoint{Marker: "nr", Page: "3"}, "case_law"},
		{"lowercase reporter", "rå 2005 ref. 7", types.DocumentTypeCaseLaw, "RÅ 2005", PagePinpoint{Marker: "ref.", Page: "7"}, "case_law"},
		{"reporter without pinpoint", "NJA 2020", types.DocumentTypeCaseLaw, "NJA 2020", nil, "case_law"},
	}

	g := NewGrammar()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Parse(tt.raw)
			if !got.Valid {
				t.Fatalf("Parse(%q) invalid: %s", tt.raw, got.Error)
			}
			if got.Raw != tt.raw {
				t.Errorf("Raw: got %q, want %q", got.Raw, tt.raw)
			}
			if got.Type != tt.wantType {
				t.Errorf("Type: got %q, want %q", got.Type, tt.wantType)
			}
			if got.DocumentID != tt.wantDoc {
				t.Errorf("DocumentID: got %q, want %q", got.DocumentID, tt.wantDoc)
			}
			if got.Pinpoint != tt.wantPin {
				t.Errorf("Pinpoint: got %#v, want %#v", got.Pinpoint, tt.wantPin)
			}
			if fam := g.Family(tt.raw); fam != tt.wantFamily {
				t.Errorf("Family: got %q, want %q", fam, tt.wantFamily)
			}
		})
	}
}

func TestParseScenarios(t *testing.T) {
	c := Parse("SFS 2018:218 3 kap. 5 §")
	if c.Type != types.DocumentTypeStatute || c.DocumentID != "2018:218" || !c.Valid {
		t.Fatalf("unexpected statute parse: %+v", c)
	}
	if ch, _ := c.Chapter().Get(); ch != "3" {
		t.Errorf("Chapter: got %q, want %q", ch, "3")
	}
	if sec, _ := c.Section().Get(); sec != "5" {
		t.Errorf("Section: got %q, want %q", sec, "5")
	}
	if c.Page().IsSome() {
		t.Error("statute citation should not carry a page")
	}

	nja := Parse("NJA 2020 s. 45")
	if nja.Type != types.DocumentTypeCaseLaw || nja.DocumentID != "NJA 2020" || !nja.Valid {
		t.Fatalf("unexpected case law parse: %+v", nja)
	}
	if page, _ := nja.Page().Get(); page != "45" {
		t.Errorf("Page: got %q, want %q", page, "45")
	}
	if nja.Chapter().IsSome() || nja.Section().IsSome() {
		t.Error("case law citation should not carry chapter or section")
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		raw       string
		wantError string
	}{
		{"", ErrorEmptyInput},
		{"   \t ", ErrorEmptyInput},
		{"lagen om något", ErrorUnrecognized},
		{"SFS 18:218", ErrorUnrecognized},
		{"Prop. 2017:105", ErrorUnrecognized},
		{"XYZ 2020 s. 4", ErrorUnrecognized},
		{"SFS 2018:218 kap. §", ErrorUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Parse(tt.raw)
			if got.Valid {
				t.Fatalf("Parse(%q) should be invalid, got %+v", tt.raw, got)
			}
			if got.Error != tt.wantError {
				t.Errorf("Error: got %q, want %q", got.Error, tt.wantError)
			}
			if got.Raw != tt.raw {
				t.Errorf("Raw: got %q, want %q", got.Raw, tt.raw)
			}
			if got.DocumentID != "" || got.Pinpoint != nil {
				t.Errorf("invalid citation should carry no structure: %+v", got)
			}
		})
	}
}

func TestParsedCitationJSON(t *testing.T) {
	data, err := json.Marshal(Parse("SFS 2018:218 3 kap. 5 §"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(data)
	for _, want := range []string{`"type":"statute"`, `"document_id":"2018:218"`, `"chapter":"3"`, `"section":"5"`, `"page":null`, `"valid":true`} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON %s missing %s", got, want)
		}
	}
}

func TestKnownTables(t *testing.T) {
	s, ok := LookupKnownStatute("2018:218")
	if !ok || s.ShortName != "dataskyddslagen" {
		t.Errorf("LookupKnownStatute(2018:218): got %+v, %v", s, ok)
	}
	if _, ok := LookupKnownStatute("1999:1"); ok {
		t.Error("unexpected known statute 1999:1")
	}

	all := KnownStatutes()
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Errorf("KnownStatutes not sorted at %d: %s >= %s", i, all[i-1].ID, all[i].ID)
		}
	}

	r, ok := LookupCourtReporter("mÖd")
	if !ok || r.Code != "MÖD" {
		t.Errorf("LookupCourtReporter(mÖd): got %+v, %v", r, ok)
	}
}
