package mdnode

import (
	"bytes"
	"io"
	"strings"

	"github.com/russross/blackfriday"

	"github.com/jcorbin/chatmark/richtext"
)

// WriteMarkdown writes segments back out as chat markup, in a canonical form:
// bold as **text**, italic as *text*, external links as their bare url, other
// links as [text](href), and images as <img> tags.
//
// For well formed markup, formatting the written text yields the same
// segments again. Emphasis is written with '_' markers when its text rules out
// '*' ones; text that rules out both, like bold "a**b__c", is written with
// '*' markers and does not survive a round trip.
func WriteMarkdown(w io.Writer, segs []richtext.Segment) error {
	var mw markdownWriter
	mw.out = w
	mw.buf.Grow(4096)
	return mw.writeNode(Tree(segs))
}

// Markdown is a convenience around WriteMarkdown returning a string.
func Markdown(segs []richtext.Segment) string {
	var sb strings.Builder
	WriteMarkdown(&sb, segs) // strings.Builder writes never fail
	return sb.String()
}

type markdownWriter struct {
	out io.Writer
	buf bytes.Buffer

	// open emphasis markers for Strong and Emph, chosen per node
	strong, emph []string
}

func (mw *markdownWriter) writeNode(node *blackfriday.Node) (err error) {
	defer func() {
		if _, werr := mw.buf.WriteTo(mw.out); err == nil {
			err = werr
		}
	}()

	node.Walk(func(n *blackfriday.Node, entering bool) (status blackfriday.WalkStatus) {
		defer func() {
			if err = mw.maybeFlush(); err != nil {
				status = blackfriday.Terminate
			}
		}()

		switch n.Type {
		case blackfriday.Document, blackfriday.Paragraph:

		case blackfriday.Strong:
			mw.buf.WriteString(mw.delim(&mw.strong, n, entering, "**", "__"))
		case blackfriday.Emph:
			mw.buf.WriteString(mw.delim(&mw.emph, n, entering, "*", "_"))

		case blackfriday.Link:
			if string(n.Title) == externalTitle {
				// written as its bare url by the Text child
				break
			}
			if entering {
				mw.buf.WriteByte('[')
			} else {
				mw.buf.WriteString("](")
				mw.buf.Write(n.Destination)
				mw.buf.WriteByte(')')
			}

		case blackfriday.Text:
			if n.Parent != nil && n.Parent.Type == blackfriday.Link && string(n.Parent.Title) == externalTitle {
				mw.buf.Write(n.Parent.Destination)
			} else {
				mw.buf.Write(n.Literal)
			}

		case blackfriday.HTMLSpan:
			mw.buf.Write(n.Literal)

		case blackfriday.Softbreak, blackfriday.Hardbreak:
			mw.buf.WriteByte('\n')
		}

		return blackfriday.GoToNext
	})

	return err
}

// delim returns the opening or closing delimiter for an emphasis node: primary
// if it can enclose the node's text, else alt if that can, else primary.
func (mw *markdownWriter) delim(stack *[]string, n *blackfriday.Node, entering bool, primary, alt string) string {
	if entering {
		d := primary
		if lit := literal(n); !canDelimit(lit, primary) && canDelimit(lit, alt) {
			d = alt
		}
		*stack = append(*stack, d)
		return d
	}
	i := len(*stack) - 1
	if i < 0 {
		return primary
	}
	d := (*stack)[i]
	*stack = (*stack)[:i]
	return d
}

// canDelimit reports whether d+lit+d formats back to lit: the closing d must
// be the first one after the opening, so lit may neither contain d nor end
// with its marker byte.
func canDelimit(lit []byte, d string) bool {
	return !bytes.Contains(lit, []byte(d)) &&
		(len(lit) == 0 || lit[len(lit)-1] != d[0])
}

func literal(n *blackfriday.Node) []byte {
	if c := n.FirstChild; c != nil && c == n.LastChild && c.Type == blackfriday.Text {
		return c.Literal
	}
	var buf bytes.Buffer
	n.Walk(func(c *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering {
			buf.Write(c.Literal)
		}
		return blackfriday.GoToNext
	})
	return buf.Bytes()
}

func (mw *markdownWriter) maybeFlush() error {
	b := mw.shouldFlush()
	if len(b) == 0 {
		return nil
	}
	n, err := mw.out.Write(b)
	mw.buf.Next(n)
	return err
}

func (mw *markdownWriter) shouldFlush() []byte {
	if mw.buf.Len() == 0 {
		return nil
	}
	b := mw.buf.Bytes()
	i := bytes.LastIndexByte(b, '\n')
	if i < 0 {
		return nil
	}
	return b[:i+1]
}
