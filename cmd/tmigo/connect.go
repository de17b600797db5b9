package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chatbridge/tmigo/internal/events"
)

func newConnectCmd() *cobra.Command {
	var channels []string

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect to Twitch chat and print incoming messages until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			handlers := &events.Handlers{
				OnConnect:    func() { fmt.Println("connected") },
				OnReconnect:  func() { fmt.Println("reconnected") },
				OnDisconnect: func(err error) { fmt.Println("disconnected:", err) },
				OnMessage: func(m *events.PrivateMessage) {
					fmt.Printf("#%s <%s> %s\n", m.Channel, m.Source.Username, m.Text)
				},
				OnChannelJoin: func(rs *events.RoomStateChange) {
					fmt.Println("joined", rs.Channel)
				},
			}

			client, logger, err := buildClient(handlers)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			stopAdmin := maybeServeAdmin(client, logger)
			defer stopAdmin()

			if !client.Connect(ctx) {
				return fmt.Errorf("failed to connect")
			}

			if len(channels) > 0 && !client.JoinAll(ctx, channels) {
				logger.Warn("one or more channels failed to join")
			}

			<-ctx.Done()
			client.Dispose(context.Background())
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&channels, "channel", "c", nil, "channel to join on connect (repeatable)")
	return cmd
}
