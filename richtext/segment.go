// Package richtext parses the small inline markup dialect used in chat
// messages (bold, italic, links, bare URLs, and inline <img> tags) into a flat
// list of display segments.
package richtext

import (
	"fmt"
	"sort"
	"strings"
)

// Segment is one unit of formatted chat text. Which fields are meaningful
// depends on Kind:
// - PlainText, Bold, Italic: Text
// - Link: Text, Href, and External
// - Image: Src, Alt, and Style
type Segment struct {
	Kind Kind `json:"kind"`

	Text string `json:"text,omitempty"`

	// Href is the link target. External is set for links that were written
	// as a bare absolute URL, which should open in a new browsing context.
	Href     string `json:"href,omitempty"`
	External bool   `json:"external,omitempty"`

	Src   string `json:"src,omitempty"`
	Alt   string `json:"alt,omitempty"`
	Style Style  `json:"style,omitempty"`
}

// Kind determines how a Segment should be displayed.
type Kind int

// Kind constants, in no particular precedence order; see Format for how
// overlapping markup is resolved.
const (
	noKind Kind = iota // 0 value should never be seen by user
	PlainText
	Bold
	Italic
	Link
	Image
)

var kindNames = [...]string{
	noKind:    "None",
	PlainText: "PlainText",
	Bold:      "Bold",
	Italic:    "Italic",
	Link:      "Link",
	Image:     "Image",
}

// String returns the kind's name, e.g. "Bold".
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("InvalidKind%d", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if k <= noKind || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid segment kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name as produced by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	for i := PlainText; int(i) < len(kindNames); i++ {
		if kindNames[i] == string(b) {
			*k = i
			return nil
		}
	}
	return fmt.Errorf("unknown segment kind %q", b)
}

// Text returns the literal display content of all segments concatenated in
// order. Images have no literal content.
//
// For any input s, Text(Format(s)) is s with the consumed markup syntax
// removed.
func Text(segs []Segment) string {
	var sb strings.Builder
	for _, seg := range segs {
		if seg.Kind != Image {
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

// Style holds inline image style properties, keyed by camelCase property
// name (e.g. "borderRadius").
type Style map[string]string

// ParseStyle parses a CSS declaration list like "border-radius: 8px; width:
// 100px". Property names are converted from kebab-case to camelCase.
// Declarations lacking a property or a value are skipped. Returns nil if no
// declaration survives.
func ParseStyle(css string) Style {
	var style Style
	for _, decl := range strings.Split(css, ";") {
		i := strings.IndexByte(decl, ':')
		if i < 0 {
			continue
		}
		prop := strings.TrimSpace(decl[:i])
		val := strings.TrimSpace(decl[i+1:])
		if prop == "" || val == "" {
			continue
		}
		if style == nil {
			style = make(Style)
		}
		style[camelCase(prop)] = val
	}
	return style
}

// String encodes the style back into a CSS declaration list, sorted by
// property so that output is stable.
func (style Style) String() string {
	props := make([]string, 0, len(style))
	for prop := range style {
		props = append(props, prop)
	}
	sort.Strings(props)

	var sb strings.Builder
	for _, prop := range props {
		if sb.Len() > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(kebabCase(prop))
		sb.WriteString(": ")
		sb.WriteString(style[prop])
	}
	return sb.String()
}

// camelCase upper-cases every lowercase ASCII letter that follows a hyphen,
// dropping the hyphen; any other hyphen is kept.
func camelCase(prop string) string {
	if strings.IndexByte(prop, '-') < 0 {
		return prop
	}
	var sb strings.Builder
	sb.Grow(len(prop))
	for i := 0; i < len(prop); i++ {
		if c := prop[i]; c == '-' && i+1 < len(prop) && 'a' <= prop[i+1] && prop[i+1] <= 'z' {
			sb.WriteByte(prop[i+1] - 'a' + 'A')
			i++
		} else {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func kebabCase(prop string) string {
	var sb strings.Builder
	sb.Grow(len(prop) + 4)
	for i := 0; i < len(prop); i++ {
		if c := prop[i]; 'A' <= c && c <= 'Z' {
			sb.WriteByte('-')
			sb.WriteByte(c - 'A' + 'a')
		} else {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
