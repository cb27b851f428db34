package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/jcorbin/chatmark/internal/appconfig"
)

func newConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the chatmark config file",
	}
	cmd.AddCommand(newConfigInitCmd(g))
	return cmd
}

func newConfigInitCmd(g *globals) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := appconfig.WriteDefault(g.configPath, force)
			if err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("wrote default config", "path", path)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
