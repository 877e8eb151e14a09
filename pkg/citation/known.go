package citation

import (
	"sort"
	"strings"
)

// KnownStatute is static metadata for a frequently cited statute.
type KnownStatute struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	ShortName string `json:"short_name" yaml:"short_name"`
}

// CourtReporter describes a court reporter series accepted by the case-law
// grammar.
type CourtReporter struct {
	Code          string
	Court         string
	DefaultMarker string
}

var knownStatutes = map[string]KnownStatute{
	"2018:218": {ID: "2018:218", Title: "Lag (2018:218) med kompletterande bestämmelser till EU:s dataskyddsförordning", ShortName: "dataskyddslagen"},
	"2009:400": {ID: "2009:400", Title: "Offentlighets- och sekretesslag (2009:400)", ShortName: "OSL"},
	"1962:700": {ID: "1962:700", Title: "Brottsbalk (1962:700)", ShortName: "BrB"},
	"1942:740": {ID: "1942:740", Title: "Rättegångsbalk (1942:740)", ShortName: "RB"},
	"2017:900": {ID: "2017:900", Title: "Förvaltningslag (2017:900)", ShortName: "FL"},
	"1974:152": {ID: "1974:152", Title: "Kungörelse (1974:152) om beslutad ny regeringsform", ShortName: "RF"},
	"1949:105": {ID: "1949:105", Title: "Tryckfrihetsförordning (1949:105)", ShortName: "TF"},
	"1915:218": {ID: "1915:218", Title: "Lag (1915:218) om avtal och andra rättshandlingar på förmögenhetsrättens område", ShortName: "AvtL"},
	"2022:482": {ID: "2022:482", Title: "Lag (2022:482) om elektronisk kommunikation", ShortName: "LEK"},
}

// Order matters only for listing; lookups go through reporterByCode.
var courtReporters = []CourtReporter{
	{Code: "NJA", Court: "Högsta domstolen", DefaultMarker: "s."},
	{Code: "HFD", Court: "Högsta förvaltningsdomstolen", DefaultMarker: "ref."},
	{Code: "RÅ", Court: "Regeringsrätten", DefaultMarker: "ref."},
	{Code: "AD", Court: "Arbetsdomstolen", DefaultMarker: "nr"},
	{Code: "MÖD", Court: "Mark- och miljööverdomstolen", DefaultMarker: "ref."},
	{Code: "MIG", Court: "Migrationsöverdomstolen", DefaultMarker: "ref."},
	{Code: "RH", Court: "Hovrätterna", DefaultMarker: "ref."},
}

var reporterByCode = func() map[string]CourtReporter {
	m := make(map[string]CourtReporter, len(courtReporters))
	for _, r := range courtReporters {
		m[r.Code] = r
	}
	return m
}()

// LookupKnownStatute returns static metadata for an SFS number.
func LookupKnownStatute(id string) (KnownStatute, bool) {
	s, ok := knownStatutes[strings.TrimSpace(id)]
	return s, ok
}

// KnownStatutes lists the static statute table ordered by SFS number.
func KnownStatutes() []KnownStatute {
	out := make([]KnownStatute, 0, len(knownStatutes))
	for _, s := range knownStatutes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LookupCourtReporter resolves a reporter code case-insensitively.
func LookupCourtReporter(code string) (CourtReporter, bool) {
	r, ok := reporterByCode[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

// CourtReporters returns the accepted reporter series.
func CourtReporters() []CourtReporter {
	out := make([]CourtReporter, len(courtReporters))
	copy(out, courtReporters)
	return out
}
