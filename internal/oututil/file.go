package oututil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

// PendingWriter is an output destination that only becomes visible once
// closed; Cleanup discards anything not yet committed, and is safe to defer
// alongside a successful Close.
type PendingWriter interface {
	io.WriteCloser
	Cleanup() error
}

// CreateFile opens a PendingWriter for path. The empty path or "-" means
// stdout, which is written through directly; any other path is written to a
// temporary file in the same directory, atomically renamed over path on Close.
func CreateFile(path string) (PendingWriter, error) {
	if path == "" || path == "-" {
		return stdoutWriter{os.Stdout}, nil
	}
	f, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return nil, err
	}
	return &pendingFile{PendingFile: f}, nil
}

type pendingFile struct {
	*renameio.PendingFile
	closed bool
}

func (pf *pendingFile) Close() error {
	if pf.closed {
		return nil
	}
	err := pf.CloseAtomicallyReplace()
	pf.closed = err == nil
	return err
}

func (pf *pendingFile) Cleanup() error {
	if pf.closed {
		return nil
	}
	pf.closed = true
	return pf.PendingFile.Cleanup()
}

// stdoutWriter keeps *os.File's Fd, so terminal detection still sees a tty.
type stdoutWriter struct{ *os.File }

func (stdoutWriter) Close() error   { return nil }
func (stdoutWriter) Cleanup() error { return nil }
