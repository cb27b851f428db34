package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/jcorbin/chatmark/internal/chatui"
	"github.com/jcorbin/chatmark/internal/termfmt"
	"github.com/jcorbin/chatmark/richtext"
)

func newPreviewCmd(g *globals) *cobra.Command {
	var (
		split string
		width int
	)
	cmd := &cobra.Command{
		Use:   "preview [files...]",
		Short: "Preview formatted messages in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("split") {
				cfg.Render.Split = split
			}
			if cmd.Flags().Changed("width") {
				cfg.Preview.Width = width
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			messages, err := readMessages(cmd, args, chatui.Split(cfg.Render.Split))
			if err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Debug("preview", "messages", len(messages))

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("opening terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("opening terminal: %w", err)
			}
			defer screen.Fini()

			err = termfmt.Preview(cmd.Context(), screen, messages, termfmt.PreviewOptions{Width: cfg.Preview.Width})
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&split, "split", "", "message split mode: blank, line, or whole")
	cmd.Flags().IntVar(&width, "width", 0, "message column width (default whole screen)")
	return cmd
}

// readMessages formats every message of the input named by args.
func readMessages(cmd *cobra.Command, args []string, split chatui.Split) (messages [][]richtext.Segment, rerr error) {
	in, closeIn, err := openInput(cmd, args)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := closeIn(); rerr == nil {
			rerr = cerr
		}
	}()
	req := chatui.NewRequest(in, split)
	for req.Scan() {
		messages = append(messages, req.Segments())
	}
	return messages, req.Err()
}
