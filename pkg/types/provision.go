package types

import (
	"regexp"
	"strings"
)

var sectionTokenPattern = regexp.MustCompile(`^(\d+)\s*([a-zA-Z])?$`)

// NormalizeSection canonicalises a section token so that "5a", "5 a" and
// "5  A" all become "5 a". Tokens that are not digits with an optional letter
// suffix are returned with whitespace collapsed.
func NormalizeSection(section string) string {
	trimmed := strings.Join(strings.Fields(section), " ")
	m := sectionTokenPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return trimmed
	}
	if m[2] == "" {
		return m[1]
	}
	return m[1] + " " + strings.ToLower(m[2])
}

// NormalizeProvisionRef canonicalises the section part of a provision key,
// so "1:5a" becomes "1:5 a" and "5A" becomes "5 a".
func NormalizeProvisionRef(ref string) string {
	chapter, section, ok := strings.Cut(ref, ":")
	if !ok {
		return NormalizeSection(ref)
	}
	return strings.TrimSpace(chapter) + ":" + NormalizeSection(section)
}

// ProvisionRef builds the canonical provision key: "{chapter}:{section}" for
// chaptered statutes, "{section}" for flat ones.
func ProvisionRef(chapter Option[string], section string) string {
	if c, ok := chapter.Get(); ok {
		return c + ":" + section
	}
	return section
}

// Provision is one section of a statute as it reads in the current snapshot.
// (DocumentID, ProvisionRef) is unique within a snapshot.
type Provision struct {
	DocumentID   string         `json:"document_id,omitempty"`
	ProvisionRef string         `json:"provision_ref"`
	Chapter      Option[string] `json:"chapter"`
	Section      string         `json:"section"`
	Title        Option[string] `json:"title"`
	Content      string         `json:"content"`
}

// ProvisionVersion is one entry in the append-only history of a provision.
// For a given (DocumentID, ProvisionRef) the validity intervals never overlap
// and at most one version is open-ended.
type ProvisionVersion struct {
	ID           int64            `json:"id"`
	DocumentID   string           `json:"document_id"`
	ProvisionRef string           `json:"provision_ref"`
	Title        Option[string]   `json:"title"`
	Content      string           `json:"content"`
	Validity     ValidityInterval `json:"validity"`
}
