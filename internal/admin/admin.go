// Package admin exposes an optional, read-only gin HTTP surface for
// introspecting a running tmi.Client: current phase, joined-channel
// count, and uptime. It is never on the send or receive path — the
// client can run with no HTTP server at all.
package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusSource is the subset of tmi.Client the admin surface reads from.
// Kept as an interface, with Phase already rendered to a string, so this
// package does not need to import internal/tmi.
type StatusSource interface {
	Phase() string
	JoinedChannels() []string
}

// StatusResponse is the /status payload.
type StatusResponse struct {
	Phase          string   `json:"phase"`
	JoinedChannels []string `json:"joined_channels"`
	ChannelCount   int      `json:"channel_count"`
	UptimeSeconds  float64  `json:"uptime_seconds"`
}

// Handlers serves the admin HTTP surface.
type Handlers struct {
	source    StatusSource
	startedAt time.Time
}

// NewHandlers builds Handlers for source, measuring uptime from the
// moment of construction.
func NewHandlers(source StatusSource) *Handlers {
	return &Handlers{source: source, startedAt: time.Now()}
}

// Register mounts the admin routes on engine.
func (h *Handlers) Register(engine *gin.Engine) {
	engine.GET("/healthz", h.Healthz)
	engine.GET("/status", h.Status)
}

// Healthz reports 200 unconditionally once the process is up; it does
// not reflect TMI connectivity, only that this HTTP server is alive.
// GET /healthz
func (h *Handlers) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Status reports the client's connection phase and joined channels.
// GET /status
func (h *Handlers) Status(c *gin.Context) {
	channels := h.source.JoinedChannels()
	c.JSON(http.StatusOK, StatusResponse{
		Phase:          h.source.Phase(),
		JoinedChannels: channels,
		ChannelCount:   len(channels),
		UptimeSeconds:  time.Since(h.startedAt).Seconds(),
	})
}

// NewEngine builds a gin.Engine in release mode with Handlers mounted,
// for callers that want a ready-to-serve router without composing their
// own gin setup.
func NewEngine(source StatusSource) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	NewHandlers(source).Register(engine)
	return engine
}
