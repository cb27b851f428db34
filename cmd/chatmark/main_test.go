package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pkt.systems/pslog"

	"github.com/jcorbin/chatmark/internal/appconfig"
	"github.com/jcorbin/chatmark/richtext"
)

const transcript = `Welcome! **Check-in** is at *3pm*.

Wifi details: [guide](https://h.example/wifi)
or https://h.example/faq
`

// run executes the root command against stdin, with a config path that does
// not exist so defaults apply unless the args say otherwise.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	logger := pslog.NewWithOptions(&logs, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.InfoLevel,
	})
	ctx := pslog.ContextWithLogger(context.Background(), logger)

	root := newRootCmd()
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	if !hasFlag(args, "--config") {
		args = append(args, "--config", filepath.Join(t.TempDir(), "none.yaml"))
	}
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func hasFlag(args []string, name string) bool {
	for _, arg := range args {
		if arg == name || strings.HasPrefix(arg, name+"=") {
			return true
		}
	}
	return false
}

func TestFormatCmd(t *testing.T) {
	out, err := run(t, transcript, "format")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		`1. PlainText("Welcome! ")`,
		`   Bold("Check-in")`,
		`   PlainText(" is at ")`,
		`   Italic("3pm")`,
		`   PlainText(".")`,
		`2. PlainText("Wifi details: ")`,
		`   Link("guide", "https://h.example/wifi")`,
		`   PlainText("\nor ")`,
		`   Link("https://h.example/faq", "https://h.example/faq")`,
		``,
	}, "\n"), out)
}

func TestFormatCmd_verboseLines(t *testing.T) {
	out, err := run(t, "a _b_\nhttps://x.example", "format", "-v", "--split", "line")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		`1. PlainText text="a "`,
		`   Italic text="b"`,
		`2. Link text="https://x.example" href="https://x.example" external`,
		``,
	}, "\n"), out)
}

func TestFormatCmd_json(t *testing.T) {
	out, err := run(t, transcript, "format", "--json")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	for i, line := range lines {
		var segs []richtext.Segment
		require.NoError(t, json.Unmarshal([]byte(line), &segs), "line %v", i+1)
		assert.NotEmpty(t, segs)
	}
	assert.Contains(t, lines[0], `"kind":"Bold"`)
}

func TestRenderCmd(t *testing.T) {
	t.Run("html", func(t *testing.T) {
		out, err := run(t, transcript, "render", "--format", "html", "--class", "msg")
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(out, `<div class="msg">`))
		assert.Contains(t, out, "<strong>Check-in</strong>")
		assert.Contains(t, out, `<a href="https://h.example/faq" target="_blank" rel="noopener">`)
		assert.Contains(t, out, `<a href="https://h.example/wifi">guide</a>`, "written links stay in place by default")
	})

	t.Run("html safelink", func(t *testing.T) {
		out, err := run(t, "[x](javascript:alert(1))", "render", "--format", "html")
		require.NoError(t, err)
		assert.Contains(t, out, "<tt>x</tt>")
		assert.NotContains(t, out, "href=")
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := run(t, "__a__ _b_\n\nc", "render", "--format", "markdown")
		require.NoError(t, err)
		assert.Equal(t, "**a** *b*\n\nc\n", out)
	})

	t.Run("ansi", func(t *testing.T) {
		out, err := run(t, "**a** [b](/b)", "render", "--format", "ansi")
		require.NoError(t, err)
		assert.Equal(t, "a b (/b)\n", out, "non-terminal output is plain")
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := run(t, "x", "render", "--format", "pdf")
		assert.Error(t, err)
	})
}

type failWriter struct{ n int }

var errWriteFailed = errors.New("write failed")

func (fw *failWriter) Write(p []byte) (int, error) {
	if fw.n <= 0 {
		return 0, errWriteFailed
	}
	fw.n--
	return len(p), nil
}

func TestRenderer_writeErrors(t *testing.T) {
	segs := richtext.Format("*a*")
	for _, format := range []string{appconfig.FormatSegments, appconfig.FormatMarkdown, appconfig.FormatANSI} {
		t.Run(format, func(t *testing.T) {
			r := renderer{format: format}
			if format == appconfig.FormatANSI {
				r.term = termenv.NewOutput(io.Discard, termenv.WithProfile(termenv.Ascii))
			}
			err := r.message(&failWriter{}, 2, segs)
			assert.True(t, errors.Is(err, errWriteFailed), "expected write error, got %v", err)

			var buf bytes.Buffer
			require.NoError(t, r.message(&buf, 2, segs))
			assert.NotEmpty(t, buf.String())
		})
	}
}

func TestRenderCmd_outputFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	in2 := filepath.Join(dir, "in2.txt")
	outPath := filepath.Join(dir, "out.md")
	require.NoError(t, os.WriteFile(in, []byte("*one*"), 0o600))
	require.NoError(t, os.WriteFile(in2, []byte("two"), 0o600))

	out, err := run(t, "", "render", "--format", "markdown", "-o", outPath, in, in2)
	require.NoError(t, err)
	assert.Empty(t, out)

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "*one*\n\ntwo\n", string(b), "files are separate messages")
}

func TestRenderCmd_missingInput(t *testing.T) {
	_, err := run(t, "", "render", filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "opening input")
}

func TestConfigInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatmark", "config.yaml")

	out, err := run(t, "", "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	_, err = run(t, "", "config", "init", "--config", path)
	assert.Error(t, err, "refuses to overwrite")

	_, err = run(t, "", "config", "init", "--config", path, "--force")
	assert.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("config_version: 1\nrender:\n  format: markdown\n"), 0o600))
	out, err = run(t, "**x**", "render", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "**x**\n", out, "format comes from config")
}
