// Package mdnode bridges formatted chat segments into blackfriday's node
// tree, so that the blackfriday HTML renderer (and our own markdown writer)
// can be used to display them.
package mdnode

import (
	"html"
	"strings"

	"github.com/russross/blackfriday"

	"github.com/jcorbin/chatmark/richtext"
)

// Tree builds a Document node containing a single Paragraph with one inline
// node per segment:
// - PlainText: Text
// - Bold: Strong > Text
// - Italic: Emph > Text
// - Link: Link > Text, with Destination set; External links carry the title
//   "external"
// - Image: HTMLSpan holding an <img> tag, since blackfriday Image nodes have
//   no way to carry a style attribute
func Tree(segs []richtext.Segment) *blackfriday.Node {
	doc := blackfriday.NewNode(blackfriday.Document)
	para := blackfriday.NewNode(blackfriday.Paragraph)
	doc.AppendChild(para)
	for _, seg := range segs {
		if node := segmentNode(seg); node != nil {
			para.AppendChild(node)
		}
	}
	return doc
}

func segmentNode(seg richtext.Segment) *blackfriday.Node {
	switch seg.Kind {
	case richtext.PlainText:
		if seg.Text == "" {
			return nil
		}
		return textNode(seg.Text)

	case richtext.Bold:
		return wrapText(blackfriday.Strong, seg.Text)

	case richtext.Italic:
		return wrapText(blackfriday.Emph, seg.Text)

	case richtext.Link:
		node := wrapText(blackfriday.Link, seg.Text)
		node.Destination = []byte(seg.Href)
		if seg.External {
			node.Title = []byte(externalTitle)
		}
		return node

	case richtext.Image:
		node := blackfriday.NewNode(blackfriday.HTMLSpan)
		node.Literal = []byte(ImageTag(seg))
		return node
	}
	return nil
}

const externalTitle = "external"

func textNode(s string) *blackfriday.Node {
	node := blackfriday.NewNode(blackfriday.Text)
	node.Literal = []byte(s)
	return node
}

func wrapText(typ blackfriday.NodeType, s string) *blackfriday.Node {
	node := blackfriday.NewNode(typ)
	node.AppendChild(textNode(s))
	return node
}

// ImageTag returns an HTML <img> tag for an Image segment, in the same
// attribute order that richtext.Format recognizes, so that formatting the
// returned tag yields an equivalent segment.
func ImageTag(seg richtext.Segment) string {
	var sb strings.Builder
	sb.WriteString(`<img src="`)
	sb.WriteString(html.EscapeString(seg.Src))
	sb.WriteString(`" alt="`)
	sb.WriteString(html.EscapeString(seg.Alt))
	sb.WriteByte('"')
	if len(seg.Style) > 0 {
		sb.WriteString(` style="`)
		sb.WriteString(html.EscapeString(seg.Style.String()))
		sb.WriteByte('"')
	}
	sb.WriteString(" />")
	return sb.String()
}

// Segments walks a tree built by Tree (or any blackfriday inline content)
// back into segments. Nested emphasis is flattened to the innermost kind
// that richtext can represent; unsupported nodes contribute their literal
// text as PlainText.
func Segments(root *blackfriday.Node) []richtext.Segment {
	var (
		segs  []richtext.Segment
		stack []*blackfriday.Node
	)
	root.Walk(func(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		switch n.Type {
		case blackfriday.Strong, blackfriday.Emph, blackfriday.Link:
			if entering {
				stack = append(stack, n)
			} else if i := len(stack) - 1; i >= 0 {
				stack = stack[:i]
			}

		case blackfriday.Text, blackfriday.Code:
			if !entering {
				break
			}
			seg := richtext.Segment{Kind: richtext.PlainText, Text: string(n.Literal)}
			if i := len(stack) - 1; i >= 0 {
				switch outer := stack[i]; outer.Type {
				case blackfriday.Strong:
					seg.Kind = richtext.Bold
				case blackfriday.Emph:
					seg.Kind = richtext.Italic
				case blackfriday.Link:
					seg.Kind = richtext.Link
					seg.Href = string(outer.Destination)
					seg.External = string(outer.Title) == externalTitle
				}
			}
			segs = appendSegment(segs, seg)

		case blackfriday.HTMLSpan:
			if entering {
				for _, seg := range richtext.Format(string(n.Literal)) {
					segs = appendSegment(segs, seg)
				}
			}

		case blackfriday.Softbreak, blackfriday.Hardbreak:
			if entering {
				segs = appendSegment(segs, richtext.Segment{Kind: richtext.PlainText, Text: "\n"})
			}
		}
		return blackfriday.GoToNext
	})
	return segs
}

// appendSegment coalesces adjacent PlainText, since blackfriday may split
// text runs at punctuation.
func appendSegment(segs []richtext.Segment, seg richtext.Segment) []richtext.Segment {
	if i := len(segs) - 1; i >= 0 && seg.Kind == richtext.PlainText && segs[i].Kind == richtext.PlainText {
		segs[i].Text += seg.Text
		return segs
	}
	return append(segs, seg)
}
