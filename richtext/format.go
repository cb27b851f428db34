package richtext

import "regexp"

// Format converts chat message text into an ordered list of segments.
//
// The recognized inline markup is, in precedence order:
// 	<img src="URL" alt="ALT" style="CSS" />  Image (style optional, "/" optional)
// 	https://example.com                      Link, External
// 	[label](url)                             Link
// 	**bold** or __bold__                     Bold
// 	*italic* or _italic_                     Italic
//
// Every pattern is matched independently over the whole content. Candidate
// matches are then taken in order of their start offset, with ties going to
// the pattern listed first above. A candidate that starts inside an already
// accepted match is dropped, so markup never nests: "**a*b*c**" is a single
// Bold("a*b*c"). A dropped candidate does not hide later ones from its own
// pattern: in "**b** *i*" the italic "*b*" is dropped, yet "*i*" is still
// found.
//
// Text not covered by any accepted match is returned verbatim as PlainText.
// Malformed or dangling markup is never an error, it just stays plain text.
// If nothing matches, the result is a single PlainText segment holding all of
// content, including when content is empty.
//
// Format is safe to call from parallel goroutines.
func Format(content string) []Segment {
	// next holds each pattern's leftmost match at or after lastEnd; a nil
	// pat means the pattern has no further match.
	var next [len(patterns)]match
	for i := range patterns {
		next[i] = patterns[i].find(content, 0)
	}

	var segs []Segment
	lastEnd := 0
	for {
		best := -1
		for i := range next {
			if next[i].pat != nil && (best < 0 || next[i].start < next[best].start) {
				best = i
			}
		}
		if best < 0 {
			break
		}

		m := next[best]
		if m.start > lastEnd {
			segs = append(segs, Segment{Kind: PlainText, Text: content[lastEnd:m.start]})
		}
		segs = append(segs, m.segment(content))
		lastEnd = m.end

		// any match starting before lastEnd is overlapped; the leftmost
		// match from lastEnd is the first of that pattern's candidates
		// that could still be accepted
		for i := range next {
			if next[i].pat != nil && next[i].start < lastEnd {
				next[i] = patterns[i].find(content, lastEnd)
			}
		}
	}

	if len(segs) == 0 {
		return []Segment{{Kind: PlainText, Text: content}}
	}
	if lastEnd < len(content) {
		segs = append(segs, Segment{Kind: PlainText, Text: content[lastEnd:]})
	}
	return segs
}

// match is a candidate hit of one pattern, prior to overlap resolution.
type match struct {
	start, end int   // byte range within content; start < end
	loc        []int // submatch index pairs, absolute within content
	pat        *pattern
}

func (m match) group(content string, i int) string {
	if j := 2 * i; j+1 < len(m.loc) && m.loc[j] >= 0 {
		return content[m.loc[j]:m.loc[j+1]]
	}
	return ""
}

// firstGroup returns the first non-empty capture group among the given ones;
// used by the alternated bold and italic patterns.
func (m match) firstGroup(content string, is ...int) string {
	for _, i := range is {
		if s := m.group(content, i); s != "" {
			return s
		}
	}
	return ""
}

func (m match) segment(content string) Segment {
	return m.pat.build(m, content)
}

type pattern struct {
	name  string
	re    *regexp.Regexp
	build func(m match, content string) Segment
}

// find returns the leftmost match at or after byte offset off, or the zero
// match if there is none. None of the patterns look behind their start, so a
// match found from any earlier offset is the same match.
func (pat *pattern) find(content string, off int) match {
	loc := pat.re.FindStringSubmatchIndex(content[off:])
	if loc == nil {
		return match{}
	}
	for i := range loc {
		if loc[i] >= 0 {
			loc[i] += off
		}
	}
	return match{
		start: loc[0],
		end:   loc[1],
		loc:   loc,
		pat:   pat,
	}
}

// patterns in precedence order; compiled once, never mutated.
var patterns = [...]pattern{
	{
		name: "image",
		re:   regexp.MustCompile(`<img\s+src="([^"]+)"\s+alt="([^"]*)"(?:\s+style="([^"]*)")?\s*/?>`),
		build: func(m match, content string) Segment {
			alt := m.group(content, 2)
			if alt == "" {
				alt = "Image"
			}
			return Segment{
				Kind:  Image,
				Src:   m.group(content, 1),
				Alt:   alt,
				Style: ParseStyle(m.group(content, 3)),
			}
		},
	},
	{
		name: "url",
		re:   regexp.MustCompile(`https?://\S+`),
		build: func(m match, content string) Segment {
			url := content[m.start:m.end]
			return Segment{Kind: Link, Text: url, Href: url, External: true}
		},
	},
	{
		name: "link",
		re:   regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`),
		build: func(m match, content string) Segment {
			return Segment{Kind: Link, Text: m.group(content, 1), Href: m.group(content, 2)}
		},
	},
	{
		name: "bold",
		re:   regexp.MustCompile(`(?s)\*\*(.+?)\*\*|__(.+?)__`),
		build: func(m match, content string) Segment {
			return Segment{Kind: Bold, Text: m.firstGroup(content, 1, 2)}
		},
	},
	{
		name: "italic",
		re:   regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`),
		build: func(m match, content string) Segment {
			return Segment{Kind: Italic, Text: m.firstGroup(content, 1, 2)}
		},
	},
}
