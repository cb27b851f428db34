package termfmt

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/jcorbin/chatmark/richtext"
)

// Area is a screen rectangle; a Height <= 0 draws every laid out line.
type Area struct {
	X, Y, Width, Height int
}

// Cell is a single screen cell of laid out text.
type Cell struct {
	Rune  rune
	Comb  []rune
	Style tcell.Style
	Width int
}

// Line is a row of laid out cells.
type Line []Cell

// Width returns the number of screen columns used by the line.
func (ln Line) Width() (w int) {
	for _, c := range ln {
		w += c.Width
	}
	return w
}

// String returns the line text, without styling.
func (ln Line) String() string {
	rs := make([]rune, 0, len(ln))
	for _, c := range ln {
		rs = append(rs, c.Rune)
		rs = append(rs, c.Comb...)
	}
	return string(rs)
}

// SegmentStyle returns the tcell style used to draw a segment over base.
func SegmentStyle(base tcell.Style, seg richtext.Segment) tcell.Style {
	switch seg.Kind {
	case richtext.Bold:
		return base.Bold(true)
	case richtext.Italic:
		return base.Italic(true)
	case richtext.Link:
		return base.Underline(true).Foreground(tcell.ColorBlue).Url(seg.Href)
	case richtext.Image:
		return base.Dim(true)
	}
	return base
}

func segmentText(seg richtext.Segment) string {
	if seg.Kind == richtext.Image {
		return "[" + seg.Alt + "]"
	}
	return seg.Text
}

// Layout word wraps segs into lines at most width columns wide; words wider
// than a whole line are broken between runes. A width <= 0 disables wrapping.
func Layout(segs []richtext.Segment, width int, base tcell.Style) []Line {
	var lw lineWrapper
	lw.width = width
	for _, seg := range segs {
		style := SegmentStyle(base, seg)
		var word Line
		for _, r := range segmentText(seg) {
			switch {
			case r == '\n':
				lw.word(word)
				word = nil
				lw.newline()
			case unicode.IsSpace(r):
				lw.word(word)
				word = nil
				lw.space(Cell{Rune: ' ', Style: style, Width: 1})
			default:
				w := runewidth.RuneWidth(r)
				if w == 0 && len(word) > 0 {
					word[len(word)-1].Comb = append(word[len(word)-1].Comb, r)
					continue
				}
				if w == 0 {
					w = 1
				}
				word = append(word, Cell{Rune: r, Style: style, Width: w})
			}
		}
		// words may continue across segments, e.g. "**foo**bar"
		lw.pending = append(lw.pending, word...)
	}
	lw.word(nil)
	return lw.finish()
}

type lineWrapper struct {
	width   int
	lines   []Line
	cur     Line
	pending Line // word fragment carried over from prior segments
	wrapped bool // cur began by wrapping, so leading spaces are dropped
}

func (lw *lineWrapper) word(word Line) {
	if len(lw.pending) > 0 {
		word = append(lw.pending, word...)
		lw.pending = nil
	}
	if len(word) == 0 {
		return
	}
	if lw.width > 0 {
		ww := word.Width()
		if len(lw.cur) > 0 && lw.cur.Width()+ww > lw.width {
			lw.wrap()
		}
		for len(lw.cur) == 0 && word.Width() > lw.width {
			n, w := 0, 0
			for n < len(word) && w+word[n].Width <= lw.width {
				w += word[n].Width
				n++
			}
			if n == 0 {
				n = 1 // a wide rune in a narrow area
			}
			lw.cur = append(lw.cur, word[:n]...)
			word = word[n:]
			lw.wrap()
		}
	}
	if len(word) > 0 {
		lw.cur = append(lw.cur, word...)
		lw.wrapped = false
	}
}

func (lw *lineWrapper) space(c Cell) {
	lw.word(nil)
	if lw.wrapped && len(lw.cur) == 0 {
		return
	}
	if lw.width > 0 && lw.cur.Width()+c.Width > lw.width {
		lw.wrap()
		return
	}
	lw.cur = append(lw.cur, c)
}

func (lw *lineWrapper) wrap() {
	lw.lines = append(lw.lines, trimTrailingSpace(lw.cur))
	lw.cur = nil
	lw.wrapped = true
}

func (lw *lineWrapper) newline() {
	lw.lines = append(lw.lines, lw.cur)
	lw.cur = nil
	lw.wrapped = false
}

func (lw *lineWrapper) finish() []Line {
	if len(lw.cur) > 0 || len(lw.lines) == 0 || !lw.wrapped {
		lw.lines = append(lw.lines, lw.cur)
	}
	return lw.lines
}

func trimTrailingSpace(ln Line) Line {
	for len(ln) > 0 && ln[len(ln)-1].Rune == ' ' {
		ln = ln[:len(ln)-1]
	}
	return ln
}

// DrawLines draws lines into area, skipping the first skip lines; it returns
// how many rows were drawn.
func DrawLines(s tcell.Screen, area Area, lines []Line, skip int) int {
	if skip > 0 {
		if skip >= len(lines) {
			return 0
		}
		lines = lines[skip:]
	}
	if area.Height > 0 && len(lines) > area.Height {
		lines = lines[:area.Height]
	}
	for i, ln := range lines {
		x := area.X
		for _, c := range ln {
			if area.Width > 0 && x+c.Width > area.X+area.Width {
				break
			}
			s.SetContent(x, area.Y+i, c.Rune, c.Comb, c.Style)
			x += c.Width
		}
	}
	return len(lines)
}

// Draw lays out segs to fit area's width, and draws them in its default style.
// Returns the number of lines the segments need, which may exceed the
// number drawn when area.Height is too small.
func Draw(s tcell.Screen, area Area, segs []richtext.Segment) int {
	lines := Layout(segs, area.Width, tcell.StyleDefault)
	DrawLines(s, area, lines, 0)
	return len(lines)
}
