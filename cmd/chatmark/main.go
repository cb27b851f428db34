// Command chatmark formats chat message transcripts into rich text segments,
// and renders them as HTML, markdown, or for terminals.
package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"

	"github.com/jcorbin/chatmark/internal/appconfig"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("chatmark command failed")
		return 1
	}
	return 0
}

// globals are flags shared by every subcommand.
type globals struct {
	configPath string
}

func (g *globals) loadConfig() (appconfig.Config, error) {
	return appconfig.Load(g.configPath)
}

func newRootCmd() *cobra.Command {
	var g globals
	root := &cobra.Command{
		Use:           "chatmark",
		Short:         "Format chat messages into rich text",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file path (default is the user config dir)")

	root.AddCommand(newFormatCmd(&g))
	root.AddCommand(newRenderCmd(&g))
	root.AddCommand(newPreviewCmd(&g))
	root.AddCommand(newConfigCmd(&g))

	return root
}
