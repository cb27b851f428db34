/* Package chatui implements request/response handling over chat transcripts.

A request body is a transcript of chat messages, as sent by a host's chat bot.
Messages are split out of the body (by default, on blank lines), then each one
may be formatted into rich text segments by a Handler that writes some
rendering of them into a buffered Response.

*/
package chatui

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/jcorbin/chatmark/internal/oututil"
	"github.com/jcorbin/chatmark/richtext"
)

// Handler is the interface implemented by pieces of transcript handling
// logic, e.g. renderers.
type Handler interface {
	ServeChat(req *Request, resp *Response) error
}

// HandlerFunc is a functional adaptor for Handler.
type HandlerFunc func(req *Request, resp *Response) error

// ServeChat calls the receiver function pointer.
func (f HandlerFunc) ServeChat(req *Request, resp *Response) error { return f(req, resp) }

// Request represents a transcript being handled, providing error tracking and
// message tokenization.
type Request struct {
	err   error
	body  io.Reader
	split Split
	sc    *bufio.Scanner
	n     int
}

// Response represents a response being written by a Handler.
type Response struct {
	oututil.WriteBuffer
}

// NewRequest builds a Request reading messages from body, split per the given
// mode.
func NewRequest(body io.Reader, split Split) Request {
	var req Request
	req.body = body
	req.split = split
	return req
}

// Serve runs the given handler with the receiver request and a new Response
// writing to the given writer.
// Returns any handler, request, or response error (in that order of precedence).
func (req Request) Serve(w io.Writer, handler Handler) (rerr error) {
	if err := req.err; err != nil {
		return err
	}
	var resp Response
	resp.To = w
	defer func() {
		if ferr := resp.Flush(); rerr == nil {
			rerr = ferr
		}
	}()
	if err := handler.ServeChat(&req, &resp); err != nil {
		return err
	}
	return req.err
}

// Err returns any scan error encountered.
func (req *Request) Err() error { return req.err }

// Scan advances to the next message within the body.
func (req *Request) Scan() bool {
	if req.err != nil {
		return false
	}
	if req.sc == nil {
		if req.body == nil {
			return false
		}
		splitFunc, err := req.split.splitFunc()
		if err != nil {
			req.err = err
			return false
		}
		req.sc = bufio.NewScanner(req.body)
		req.sc.Buffer(nil, MaxMessageSize)
		req.sc.Split(splitFunc)
	}
	if req.sc.Scan() {
		req.n++
		return true
	}
	req.err = req.sc.Err()
	return false
}

// MaxMessageSize bounds how large a single scanned message may be.
const MaxMessageSize = 1024 * 1024

// N returns the 1-based number of the current message, or 0 before the first
// Scan.
func (req *Request) N() int { return req.n }

// Message returns the text of the current message.
func (req *Request) Message() string {
	if req.sc == nil {
		return ""
	}
	return req.sc.Text()
}

// Segments returns the current message formatted as rich text.
func (req *Request) Segments() []richtext.Segment {
	return richtext.Format(req.Message())
}

// Split determines how a transcript body is divided into messages.
type Split string

// Split modes.
const (
	// SplitBlank separates messages by one or more blank lines.
	SplitBlank Split = "blank"

	// SplitLine treats every non-empty line as a message.
	SplitLine Split = "line"

	// SplitWhole treats the entire body as a single message.
	SplitWhole Split = "whole"
)

// Splits lists all valid Split modes.
var Splits = []Split{SplitBlank, SplitLine, SplitWhole}

// ParseSplit validates a split mode name; the empty string means SplitBlank.
func ParseSplit(s string) (Split, error) {
	if s == "" {
		return SplitBlank, nil
	}
	split := Split(s)
	if _, err := split.splitFunc(); err != nil {
		return "", err
	}
	return split, nil
}

func (split Split) splitFunc() (bufio.SplitFunc, error) {
	switch split {
	case SplitBlank, "":
		return ScanMessages, nil
	case SplitLine:
		return scanNonEmptyLines, nil
	case SplitWhole:
		return scanWhole, nil
	}
	return nil, fmt.Errorf("invalid split mode %q, expected one of %v", string(split), Splits)
}

// ScanMessages implements a bufio.SplitFunc that tokenizes blank-line
// separated messages. Returned tokens have surrounding blank lines, and any
// final newline, removed; inner newlines are retained. A line containing only
// spaces or tabs counts as blank.
func ScanMessages(data []byte, atEOF bool) (advance int, token []byte, err error) {
	// Skip leading blank lines.
	start := 0
	for start < len(data) {
		end, ok := lineEnd(data[start:], atEOF)
		if !ok {
			return start, nil, nil
		}
		if !isBlank(data[start : start+end]) {
			break
		}
		start += end
	}

	// Scan lines until a blank one.
	for i := start; i < len(data); {
		end, ok := lineEnd(data[i:], atEOF)
		if !ok {
			break
		}
		if isBlank(data[i : i+end]) {
			return i + end, trimEOL(data[start:i]), nil
		}
		i += end
	}

	// If we're at EOF, we have a final, non-empty, message. Return it.
	if atEOF && len(data) > start {
		return len(data), trimEOL(data[start:]), nil
	}
	// Request more data.
	return start, nil, nil
}

// lineEnd returns the length of the first line in data, including its
// newline; at EOF an unterminated line counts.
func lineEnd(data []byte, atEOF bool) (int, bool) {
	for i, c := range data {
		if c == '\n' {
			return i + 1, true
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), true
	}
	return 0, false
}

func isBlank(line []byte) bool {
	for _, c := range line {
		switch c {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}

func trimEOL(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func scanNonEmptyLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for advance < len(data) {
		n, line, err := bufio.ScanLines(data[advance:], atEOF)
		if err != nil || n == 0 {
			return advance, nil, err
		}
		advance += n
		if len(bytes.TrimSpace(line)) > 0 {
			return advance, line, nil
		}
	}
	return advance, nil, nil
}

func scanWhole(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if !atEOF {
		return 0, nil, nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return len(data), nil, nil
	}
	return len(data), trimEOL(data), nil
}
