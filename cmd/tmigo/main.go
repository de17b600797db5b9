package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootFlags struct {
	configPath string
	username   string
	token      string
	serverAddr string
	logLevel   string
	admin      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tmigo",
		Short: "tmigo is a command-line client for Twitch chat (TMI)",
	}

	root.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "path to a tmigo.yaml config file")
	root.PersistentFlags().StringVar(&rootFlags.username, "username", "", "Twitch username (leave empty for anonymous)")
	root.PersistentFlags().StringVar(&rootFlags.token, "token", "", "OAuth token (overrides TMIGO_OAUTH_TOKEN)")
	root.PersistentFlags().StringVar(&rootFlags.serverAddr, "server", "", "TMI WebSocket endpoint override")
	root.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&rootFlags.admin, "admin-addr", "", "if set, serve /healthz and /status on this address")

	root.AddCommand(newConnectCmd())
	root.AddCommand(newJoinCmd())
	root.AddCommand(newSayCmd())

	return root
}
