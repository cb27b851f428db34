package richtext

import (
	"fmt"
	"io"
)

// Format writes a textual representation of the receiver, providing improved
// fmt.Printf display. Produces a terse `Kind("text")` form normally, and a
// verbose "Kind attr=value" form when formatted with `%+v`.
func (seg Segment) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, seg.Kind)
	if f.Flag('+') {
		switch seg.Kind {
		case Image:
			fmt.Fprintf(f, " src=%q alt=%q", seg.Src, seg.Alt)
			if len(seg.Style) > 0 {
				fmt.Fprintf(f, " style=%q", seg.Style.String())
			}
		case Link:
			fmt.Fprintf(f, " text=%q href=%q", seg.Text, seg.Href)
			if seg.External {
				io.WriteString(f, " external")
			}
		default:
			fmt.Fprintf(f, " text=%q", seg.Text)
		}
		return
	}
	switch seg.Kind {
	case Image:
		fmt.Fprintf(f, "(%q)", seg.Src)
	case Link:
		fmt.Fprintf(f, "(%q, %q)", seg.Text, seg.Href)
	default:
		fmt.Fprintf(f, "(%q)", seg.Text)
	}
}

// Format writes the kind name.
func (k Kind) Format(f fmt.State, _ rune) {
	io.WriteString(f, k.String())
}
