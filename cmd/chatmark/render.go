package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/jcorbin/chatmark/internal/appconfig"
	"github.com/jcorbin/chatmark/internal/chatui"
	"github.com/jcorbin/chatmark/internal/mdnode"
	"github.com/jcorbin/chatmark/internal/oututil"
	"github.com/jcorbin/chatmark/internal/termfmt"
	"github.com/jcorbin/chatmark/richtext"
)

// renderer is a chatui.Handler writing each scanned message in one format.
type renderer struct {
	format  string
	verbose bool

	html     mdnode.HTMLOptions
	term     *termenv.Output
	termOpts termfmt.Options
}

func (r renderer) ServeChat(req *chatui.Request, resp *chatui.Response) error {
	for req.Scan() {
		if err := r.message(resp, req.N(), req.Segments()); err != nil {
			return fmt.Errorf("message #%v: %w", req.N(), err)
		}
		if err := resp.MaybeFlush(); err != nil {
			return err
		}
	}
	return nil
}

func (r renderer) message(w io.Writer, n int, segs []richtext.Segment) error {
	switch r.format {
	case appconfig.FormatSegments:
		width, err := fmt.Fprintf(w, "%v. ", n)
		if err != nil {
			return err
		}
		item := oututil.PrefixWriter(strings.Repeat(" ", width), w)
		item.Skip = true
		for _, seg := range segs {
			if r.verbose {
				fmt.Fprintf(item, "%+v\n", seg)
			} else {
				fmt.Fprintf(item, "%v\n", seg)
			}
		}
		return item.Close()

	case appconfig.FormatJSON:
		return json.NewEncoder(w).Encode(segs)

	case appconfig.FormatHTML:
		return mdnode.WriteHTML(w, segs, r.html)

	case appconfig.FormatMarkdown:
		if err := separate(w, n); err != nil {
			return err
		}
		if err := mdnode.WriteMarkdown(w, segs); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err

	case appconfig.FormatANSI:
		if err := separate(w, n); err != nil {
			return err
		}
		_, err := io.WriteString(w, termfmt.ANSI(r.term, segs, r.termOpts)+"\n")
		return err
	}
	return fmt.Errorf("unsupported format %q", r.format)
}

// separate writes the blank line between message n and its predecessor.
func separate(w io.Writer, n int) error {
	if n > 1 {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

type renderFlags struct {
	format     string
	split      string
	output     string
	class      string
	hyperlinks bool
	verbose    bool
	json       bool

	// fixed overrides the configured format, unless json is set.
	fixed string
}

func (f renderFlags) apply(cmd *cobra.Command, cfg *appconfig.Config) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Render.Format = f.format
	}
	if flags.Changed("split") {
		cfg.Render.Split = f.split
	}
	if flags.Changed("class") {
		cfg.HTML.Class = f.class
	}
	if flags.Changed("hyperlinks") {
		cfg.Term.Hyperlinks = f.hyperlinks
	}
	if f.json {
		cfg.Render.Format = appconfig.FormatJSON
	} else if f.fixed != "" {
		cfg.Render.Format = f.fixed
	}
}

// run renders the input named by args per cfg, after applying flag overrides.
func (f renderFlags) run(cmd *cobra.Command, g *globals, args []string) (rerr error) {
	logger := pslog.Ctx(cmd.Context())

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	f.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	split, err := chatui.ParseSplit(cfg.Render.Split)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeIn(); rerr == nil {
			rerr = cerr
		}
	}()

	var out io.Writer = cmd.OutOrStdout()
	var pending oututil.PendingWriter
	if f.output != "" && f.output != "-" {
		pending, err = oututil.CreateFile(f.output)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer pending.Cleanup()
		out = pending
	}

	r := renderer{
		format:  cfg.Render.Format,
		verbose: f.verbose,
		html: mdnode.HTMLOptions{
			Class:       cfg.HTML.Class,
			TargetBlank: cfg.HTML.TargetBlank,
			Safelink:    cfg.HTML.Safelink,
		},
		termOpts: termfmt.Options{Hyperlinks: cfg.Term.Hyperlinks},
	}
	if r.format == appconfig.FormatANSI {
		if r.term, err = termfmt.NewOutput(out, cfg.Term.Profile); err != nil {
			return err
		}
	}

	logger.Debug("rendering", "format", r.format, "split", split, "output", f.output)
	if err := chatui.NewRequest(in, split).Serve(out, r); err != nil {
		return err
	}
	if pending != nil {
		if err := pending.Close(); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		logger.Info("wrote output", "path", f.output)
	}
	return nil
}

func newFormatCmd(g *globals) *cobra.Command {
	f := renderFlags{fixed: appconfig.FormatSegments}
	cmd := &cobra.Command{
		Use:   "format [files...]",
		Short: "Print the rich text segments of each message",
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, g, args)
		},
	}
	cmd.Flags().BoolVar(&f.json, "json", false, "print segments as JSON, one array per message")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "print every segment attribute")
	cmd.Flags().StringVar(&f.split, "split", "", "message split mode: blank, line, or whole")
	return cmd
}

func newRenderCmd(g *globals) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render messages as HTML, markdown, or ANSI text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, g, args)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "", fmt.Sprintf("output format, one of %v (default from config)", appconfig.Formats))
	flags.StringVar(&f.split, "split", "", "message split mode: blank, line, or whole")
	flags.StringVarP(&f.output, "output", "o", "", "output file, replaced atomically (default stdout)")
	flags.StringVar(&f.class, "class", "", "CSS class for the HTML message wrapper")
	flags.BoolVar(&f.hyperlinks, "hyperlinks", false, "emit terminal hyperlinks in ANSI output")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "print every segment attribute in segments format")
	return cmd
}
