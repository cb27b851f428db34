package oututil

import (
	"bytes"
	"io"
)

// WriteBuffer combines a byte buffer with a destination writer and flush
// policy. Example use:
//
// 	var buf WriteBuffer
// 	buf.To = os.Stdout
// 	for _, seg := range segs {
// 		fmt.Fprintf(&buf, "%+v\n", seg)
// 		if err := buf.MaybeFlush(); err != nil {
// 			return err
// 		}
// 	}
// 	return buf.Flush()
type WriteBuffer struct {
	FlushPolicy
	To io.Writer
	bytes.Buffer
}

// FlushPolicy determines when a WriteBuffer should flush during its main write
// phase.
type FlushPolicy interface {
	ShouldFlush(b []byte) int
}

// FlushPolicyFunc is a convenience adaptor for FlushPolicy around a compatible
// anonymous function.
type FlushPolicyFunc func(b []byte) int

// ShouldFlush calls the receiver function pointer.
func (f FlushPolicyFunc) ShouldFlush(b []byte) int { return f(b) }

// Flush writes all buffered bytes, regardless of FlushPolicy.
func (buf *WriteBuffer) Flush() error {
	_, err := buf.WriteTo(buf.To)
	return err
}

// MaybeFlush writes the first N buffered bytes if FlushPolicy returns N > 0,
// discarding however many were written. A nil FlushPolicy defaults to
// FlushLineChunks.
func (buf *WriteBuffer) MaybeFlush() error {
	if buf.FlushPolicy == nil {
		buf.FlushPolicy = FlushPolicyFunc(FlushLineChunks)
	}
	b := buf.Bytes()
	if n := buf.ShouldFlush(b); n > 0 {
		m, err := buf.To.Write(b[:n])
		buf.Next(m)
		return err
	}
	return nil
}

// FlushLineChunks is a FlushPolicy(Func) that flushes through the last
// written newline.
func FlushLineChunks(b []byte) int {
	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// ErrWriter wraps a writer, retaining its first error, and refusing any
// further writes after one.
type ErrWriter struct {
	io.Writer
	Err error
}

// Write passes through to Writer if Err is nil, retaining any returned error.
func (ew *ErrWriter) Write(p []byte) (n int, err error) {
	if ew.Err == nil {
		n, ew.Err = ew.Writer.Write(p)
	}
	return n, ew.Err
}

// PrefixWriter returns a writer that prepends prefix to every line written
// through it; it is used to hang-indent multi-line message output under its
// number.
// The caller SHOULD close it to flush any partial final line.
func PrefixWriter(prefix string, w io.Writer) *Prefixer {
	p := &Prefixer{Prefix: prefix}
	p.buf.To = w
	return p
}

// Prefixer is the writer returned by PrefixWriter.
type Prefixer struct {
	buf WriteBuffer

	// Prefix may be changed between writes.
	Prefix string

	// Skip suppresses the prefix for the next line only; set it when the
	// caller has already written something equivalent, like a list number.
	Skip bool
}

// Close flushes any buffered partial line.
func (p *Prefixer) Close() error { return p.buf.Flush() }

// Write buffers b, inserting Prefix at the start of every line, then flushes
// complete lines.
func (p *Prefixer) Write(b []byte) (n int, err error) {
	for len(b) > 0 {
		if i := p.buf.Len() - 1; i < 0 || p.buf.Bytes()[i] == '\n' {
			if p.Skip {
				p.Skip = false
			} else {
				p.buf.WriteString(p.Prefix)
			}
		}
		line := b
		if i := bytes.IndexByte(b, '\n'); i >= 0 {
			line = b[:i+1]
		}
		b = b[len(line):]
		m, _ := p.buf.Write(line)
		n += m
		if err := p.buf.MaybeFlush(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteLines calls next around an internal WriteBuffer, flushing complete
// lines after every true return, and stopping on false return or after the
// first write error.
func WriteLines(to io.Writer, next func(w io.Writer) bool) error {
	ew, _ := to.(*ErrWriter)
	if ew == nil {
		ew = &ErrWriter{Writer: to}
	}
	var buf WriteBuffer
	buf.To = ew
	for ew.Err == nil && next(&buf) {
		buf.MaybeFlush()
	}
	buf.Flush()
	return ew.Err
}
