package citation

import (
	"fmt"
	"strings"

	"github.com/coolbeans/lagref/pkg/types"
)

// Style selects how a citation is rendered.
type Style string

const (
	// StyleFull renders the document prefix, id and pinpoint ("SFS 2018:218 3 kap. 5 §").
	StyleFull Style = "full"
	// StyleShort renders the compact statute form ("2018:218 3:5").
	StyleShort Style = "short"
	// StylePinpoint renders only the pinpoint ("3 kap. 5 §").
	StylePinpoint Style = "pinpoint"
)

// ParseStyle converts a style name into a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleFull, "":
		return StyleFull, nil
	case StyleShort:
		return StyleShort, nil
	case StylePinpoint:
		return StylePinpoint, nil
	}
	return "", fmt.Errorf("unknown citation style %q (want full, short or pinpoint)", s)
}

// Format renders a parsed citation. Invalid citations are returned as their
// raw input. Unknown styles render as StyleFull.
func Format(c ParsedCitation, style Style) string {
	if !c.Valid {
		return c.Raw
	}

	switch style {
	case StyleShort:
		return formatShort(c)
	case StylePinpoint:
		return formatPinpoint(c.Pinpoint)
	default:
		return formatFull(c)
	}
}

func formatFull(c ParsedCitation) string {
	var b strings.Builder
	switch c.Type {
	case types.DocumentTypeStatute:
		b.WriteString("SFS ")
	case types.DocumentTypeBill:
		b.WriteString("Prop. ")
	case types.DocumentTypeSOU:
		b.WriteString("SOU ")
	case types.DocumentTypeDs:
		b.WriteString("Ds ")
	}
	b.WriteString(c.DocumentID)

	if pin := formatPinpoint(c.Pinpoint); pin != "" {
		b.WriteString(" ")
		b.WriteString(pin)
	}
	return b.String()
}

func formatShort(c ParsedCitation) string {
	if c.Type != types.DocumentTypeStatute {
		return formatFull(c)
	}
	switch p := c.Pinpoint.(type) {
	case ChapterSection:
		return fmt.Sprintf("%s %s:%s", c.DocumentID, p.Chapter, p.Section)
	case FlatSection:
		return fmt.Sprintf("%s %s §", c.DocumentID, p.Section)
	}
	return c.DocumentID
}

func formatPinpoint(pin Pinpoint) string {
	switch p := pin.(type) {
	case ChapterSection:
		return fmt.Sprintf("%s kap. %s §", p.Chapter, p.Section)
	case FlatSection:
		return fmt.Sprintf("%s §", p.Section)
	case PagePinpoint:
		return fmt.Sprintf("%s %s", p.Marker, p.Page)
	}
	return ""
}
