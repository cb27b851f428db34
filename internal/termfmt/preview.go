package termfmt

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/jcorbin/chatmark/richtext"
)

// PreviewOptions configure Preview.
type PreviewOptions struct {
	// Width limits the message column; zero uses the whole screen.
	Width int
}

// Preview shows messages on an already initialized screen, separated by blank
// lines, until the user quits (q, Esc, or Ctrl-C) or ctx is done. Up/Down,
// j/k, PgUp/PgDn, Home, and End scroll.
//
// Returns nil when the user quits, or ctx.Err() after cancellation.
func Preview(ctx context.Context, screen tcell.Screen, messages [][]richtext.Segment, opts PreviewOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	pv := previewer{screen: screen, messages: messages, opts: opts}
	for {
		pv.draw()
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			pv.lines = nil
			screen.Sync()
		case *tcell.EventKey:
			if pv.handleKey(ev) {
				return nil
			}
		}
	}
}

type previewer struct {
	screen   tcell.Screen
	messages [][]richtext.Segment
	opts     PreviewOptions

	lines  []Line
	width  int
	offset int
}

func (pv *previewer) layout(width int) {
	if pv.lines != nil && pv.width == width {
		return
	}
	pv.width = width
	pv.lines = pv.lines[:0]
	for i, segs := range pv.messages {
		if i > 0 {
			pv.lines = append(pv.lines, nil)
		}
		pv.lines = append(pv.lines, Layout(segs, width, tcell.StyleDefault)...)
	}
	if pv.lines == nil {
		pv.lines = []Line{}
	}
}

func (pv *previewer) draw() {
	w, h := pv.screen.Size()
	width := w
	if pv.opts.Width > 0 && pv.opts.Width < width {
		width = pv.opts.Width
	}
	pv.layout(width)
	pv.clampOffset(h)
	pv.screen.Clear()
	DrawLines(pv.screen, Area{Width: width, Height: h}, pv.lines, pv.offset)
	pv.screen.Show()
}

func (pv *previewer) clampOffset(height int) {
	if last := len(pv.lines) - height; pv.offset > last {
		pv.offset = last
	}
	if pv.offset < 0 {
		pv.offset = 0
	}
}

// handleKey updates scroll state, returning true if the user asked to quit.
func (pv *previewer) handleKey(ev *tcell.EventKey) bool {
	_, h := pv.screen.Size()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		pv.offset--
	case tcell.KeyDown:
		pv.offset++
	case tcell.KeyPgUp:
		pv.offset -= h
	case tcell.KeyPgDn:
		pv.offset += h
	case tcell.KeyHome:
		pv.offset = 0
	case tcell.KeyEnd:
		pv.offset = len(pv.lines)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			pv.offset--
		case 'j':
			pv.offset++
		}
	}
	return false
}
