package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatbridge/tmigo/internal/events"
)

func newJoinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join <channel> [channel...]",
		Short: "Connect, join the given channels, report success, and disconnect",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			ok := client.JoinAll(ctx, args)
			for _, ch := range args {
				fmt.Printf("%s: joined=%v\n", ch, contains(client.JoinedChannels(), ch))
			}
			if !ok {
				return fmt.Errorf("one or more channels failed to join")
			}
			return nil
		},
	}
	return cmd
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
