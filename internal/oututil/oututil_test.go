package oututil_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/jcorbin/chatmark/internal/oututil"
)

func TestWriteBuffer(t *testing.T) {
	var out bytes.Buffer
	var buf WriteBuffer
	buf.To = &out

	io.WriteString(&buf, "one\ntw")
	require.NoError(t, buf.MaybeFlush())
	assert.Equal(t, "one\n", out.String(), "only complete lines flushed")

	io.WriteString(&buf, "o")
	require.NoError(t, buf.MaybeFlush())
	assert.Equal(t, "one\n", out.String())

	require.NoError(t, buf.Flush())
	assert.Equal(t, "one\ntwo", out.String())
}

func TestPrefixWriter(t *testing.T) {
	var out bytes.Buffer
	pw := PrefixWriter("   ", &out)
	pw.Skip = true
	io.WriteString(pw, "Bold text=\"x\"\nPlain")
	io.WriteString(pw, "Text text=\"y\"\n")
	io.WriteString(pw, "tail")
	assert.Equal(t, "Bold text=\"x\"\n   PlainText text=\"y\"\n", out.String())
	require.NoError(t, pw.Close())
	assert.Equal(t, "Bold text=\"x\"\n   PlainText text=\"y\"\n   tail", out.String())
}

type failWriter struct{}

var errFail = errors.New("nope")

func (failWriter) Write(p []byte) (int, error) { return 0, errFail }

func TestWriteLines(t *testing.T) {
	var out bytes.Buffer
	n := 0
	require.NoError(t, WriteLines(&out, func(w io.Writer) bool {
		if n++; n > 3 {
			return false
		}
		fmt.Fprintf(w, "%v.\n", n)
		return true
	}))
	assert.Equal(t, "1.\n2.\n3.\n", out.String())

	calls := 0
	err := WriteLines(failWriter{}, func(w io.Writer) bool {
		calls++
		io.WriteString(w, "x\n")
		return true
	})
	assert.True(t, errors.Is(err, errFail))
	assert.Equal(t, 1, calls, "must stop after first write error")
}

func TestCreateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.html")

	w, err := CreateFile(path)
	require.NoError(t, err)
	_, err = io.WriteString(w, "<p>hi</p>\n")
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "must not be visible before close")
	require.NoError(t, w.Close())
	require.NoError(t, w.Cleanup(), "cleanup after close is a no-op")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>\n", string(b))

	t.Run("discarded", func(t *testing.T) {
		w, err := CreateFile(path)
		require.NoError(t, err)
		io.WriteString(w, "partial")
		require.NoError(t, w.Cleanup())
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>\n", string(b), "prior content must survive")
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp file must be removed")
	})

	t.Run("stdout", func(t *testing.T) {
		for _, name := range []string{"", "-"} {
			w, err := CreateFile(name)
			require.NoError(t, err)
			assert.NoError(t, w.Close())
			assert.NoError(t, w.Cleanup())
		}
	})
}
