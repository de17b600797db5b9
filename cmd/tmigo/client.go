package main

import (
	"net/http"

	"github.com/chatbridge/tmigo/internal/admin"
	"github.com/chatbridge/tmigo/internal/config"
	"github.com/chatbridge/tmigo/internal/events"
	"github.com/chatbridge/tmigo/internal/log"
	"github.com/chatbridge/tmigo/internal/tmi"
	"github.com/chatbridge/tmigo/internal/transport/ws"
)

// buildClient loads configuration (file + env, per internal/config.Load),
// layers the CLI flags on top, and wires a tmi.Client over the default
// WebSocket transport.
func buildClient(handlers *events.Handlers) (*tmi.Client, *log.Logger, error) {
	logger := log.New(rootFlags.logLevel, rootFlags.username)

	cfg, _, err := config.Load(nil, rootFlags.configPath)
	if err != nil {
		return nil, nil, err
	}

	cfg.UpdateFrom(config.Config{
		Username:   rootFlags.username,
		OAuthToken: rootFlags.token,
		ServerAddr: rootFlags.serverAddr,
	})

	tp := ws.New(logger)
	client := tmi.New(cfg, tp, handlers, logger)
	return client, logger, nil
}

// clientStatusAdapter adapts *tmi.Client to admin.StatusSource without
// admin needing to import internal/tmi.
type clientStatusAdapter struct{ c *tmi.Client }

func (a clientStatusAdapter) Phase() string            { return a.c.Phase().String() }
func (a clientStatusAdapter) JoinedChannels() []string { return a.c.JoinedChannels() }

// maybeServeAdmin starts the optional admin HTTP surface in the
// background if --admin-addr was set, returning a shutdown func.
func maybeServeAdmin(client *tmi.Client, logger *log.Logger) func() {
	if rootFlags.admin == "" {
		return func() {}
	}

	engine := admin.NewEngine(clientStatusAdapter{c: client})
	server := &http.Server{Addr: rootFlags.admin, Handler: engine}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("admin server exited: %v", err)
		}
	}()

	return func() { _ = server.Close() }
}
