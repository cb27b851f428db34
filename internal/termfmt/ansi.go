// Package termfmt renders rich text segments for terminals: as ANSI escaped
// strings through termenv, or drawn and word wrapped onto a tcell screen.
package termfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/jcorbin/chatmark/richtext"
)

// Options control ANSI rendering.
type Options struct {
	// Hyperlinks emits OSC 8 hyperlinks for links instead of appending the
	// destination after their text.
	Hyperlinks bool
}

// ParseProfile maps a profile name to a termenv color profile. The name
// "auto" (or empty) returns ok=false, meaning the profile should be detected
// from the environment.
func ParseProfile(name string) (profile termenv.Profile, ok bool, err error) {
	switch name {
	case "", "auto":
		return termenv.Ascii, false, nil
	case "ascii":
		return termenv.Ascii, true, nil
	case "ansi":
		return termenv.ANSI, true, nil
	case "ansi256":
		return termenv.ANSI256, true, nil
	case "truecolor":
		return termenv.TrueColor, true, nil
	}
	return termenv.Ascii, false, fmt.Errorf("unknown terminal profile %q", name)
}

// NewOutput returns a termenv output writing to w with the named profile.
func NewOutput(w io.Writer, profile string) (*termenv.Output, error) {
	p, ok, err := ParseProfile(profile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return termenv.NewOutput(w), nil
	}
	return termenv.NewOutput(w, termenv.WithProfile(p)), nil
}

// ANSI renders segs as a single string escaped for out's profile.
func ANSI(out *termenv.Output, segs []richtext.Segment, opts Options) string {
	var sb strings.Builder
	for _, seg := range segs {
		sb.WriteString(ansiSegment(out, seg, opts))
	}
	return sb.String()
}

// WriteANSI writes the ANSI rendering of segs, plus a final newline, to out.
func WriteANSI(out *termenv.Output, segs []richtext.Segment, opts Options) error {
	_, err := io.WriteString(out, ANSI(out, segs, opts)+"\n")
	return err
}

func ansiSegment(out *termenv.Output, seg richtext.Segment, opts Options) string {
	switch seg.Kind {
	case richtext.Bold:
		return out.String(seg.Text).Bold().String()
	case richtext.Italic:
		return out.String(seg.Text).Italic().String()
	case richtext.Link:
		text := out.String(seg.Text).Underline().Foreground(out.Color("4")).String()
		if opts.Hyperlinks && out.Profile != termenv.Ascii {
			return out.Hyperlink(seg.Href, text)
		}
		if seg.External || seg.Text == seg.Href {
			return text
		}
		return text + " (" + seg.Href + ")"
	case richtext.Image:
		return out.String("[" + seg.Alt + "]").Faint().String()
	}
	return seg.Text
}
