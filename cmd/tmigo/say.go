package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatbridge/tmigo/internal/events"
	"github.com/chatbridge/tmigo/internal/tmi"
)

func newSayCmd() *cobra.Command {
	var action bool

	cmd := &cobra.Command{
		Use:   "say <channel> <text>",
		Short: "Connect, send one chat message to a channel, and disconnect",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, text := args[0], joinArgs(args[1:])

			client, _, err := buildClient(&events.Handlers{})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if !client.Connect(ctx) {
				return fmt.Errorf("failed to connect")
			}
			defer client.Dispose(context.Background())

			if !client.JoinAll(ctx, []string{channel}) {
				return fmt.Errorf("failed to join %s", channel)
			}

			if err := client.SendMessage(ctx, channel, text, tmi.SendOptions{Action: action}); err != nil {
				return fmt.Errorf("send failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&action, "action", false, "send as a /me action message")
	return cmd
}

func joinArgs(args []string) string {
	out := args[0]
	for _, a := range args[1:] {
		out += " " + a
	}
	return out
}
