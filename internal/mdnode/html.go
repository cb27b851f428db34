package mdnode

import (
	"bytes"
	"html"
	"io"

	"github.com/russross/blackfriday"

	"github.com/jcorbin/chatmark/richtext"
)

// HTMLOptions controls WriteHTML.
type HTMLOptions struct {
	// Class, if non-empty, wraps the paragraph in a <div class="...">.
	Class string

	// TargetBlank adds target="_blank" to every absolute link, including
	// written [label](url) ones. Bare URL links always open in a new tab.
	TargetBlank bool

	// NoReferrer adds rel="noreferrer" to absolute links.
	NoReferrer bool

	// Safelink renders links with an unsafe destination, such as
	// "javascript:", as <tt> text instead of an anchor.
	Safelink bool
}

func (opts HTMLOptions) flags() blackfriday.HTMLFlags {
	flags := blackfriday.UseXHTML
	if opts.TargetBlank {
		flags |= blackfriday.HrefTargetBlank
	}
	if opts.NoReferrer {
		flags |= blackfriday.NoreferrerLinks
	}
	if opts.Safelink {
		flags |= blackfriday.Safelink
	}
	return flags
}

func (opts HTMLOptions) externalRel() string {
	if opts.NoReferrer {
		return "noopener noreferrer"
	}
	return "noopener"
}

// WriteHTML renders segments as an HTML paragraph into w.
//
// External links, those recognized from a bare URL, are written with
// target="_blank" and rel="noopener" regardless of opts.TargetBlank.
func WriteHTML(w io.Writer, segs []richtext.Segment, opts HTMLOptions) error {
	var buf bytes.Buffer
	buf.Grow(4096)

	if opts.Class != "" {
		buf.WriteString(`<div class="`)
		buf.WriteString(html.EscapeString(opts.Class))
		buf.WriteString(`">`)
	}

	r := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: opts.flags(),
	})
	Tree(segs).Walk(func(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if n.Type == blackfriday.Link && string(n.Title) == externalTitle {
			if entering {
				buf.WriteString(`<a href="`)
				buf.WriteString(html.EscapeString(string(n.LinkData.Destination)))
				buf.WriteString(`" target="_blank" rel="`)
				buf.WriteString(opts.externalRel())
				buf.WriteString(`">`)
			} else {
				buf.WriteString("</a>")
			}
			return blackfriday.GoToNext
		}
		return r.RenderNode(&buf, n, entering)
	})

	if opts.Class != "" {
		buf.WriteString("</div>\n")
	}

	_, err := buf.WriteTo(w)
	return err
}

// HTML is a convenience around WriteHTML returning a string.
func HTML(segs []richtext.Segment, opts HTMLOptions) string {
	var sb bytes.Buffer
	WriteHTML(&sb, segs, opts) // bytes.Buffer writes never fail
	return sb.String()
}
