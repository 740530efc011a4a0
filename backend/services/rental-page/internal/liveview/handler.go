package liveview

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"energyrental/backend/services/rental-page/internal/page"
)

// SessionTracker is told about connects and disconnects.
type SessionTracker interface {
	SessionOpened()
	SessionClosed()
}

// Options tunes live sessions.
type Options struct {
	WriteTimeout     time.Duration
	ClipboardTimeout time.Duration
	// AllowedOrigins restricts the Origin header; empty allows any origin.
	AllowedOrigins []string
}

// Handler upgrades HTTP connections to live page sessions.
type Handler struct {
	deps     page.Deps
	opts     Options
	tracker  SessionTracker
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler builds the /ws handler. Every session gets its own controller built from deps.
func NewHandler(deps page.Deps, opts Options, tracker SessionTracker, logger *zap.Logger) *Handler {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.ClipboardTimeout <= 0 {
		opts.ClipboardTimeout = 5 * time.Second
	}
	h := &Handler{
		deps:    deps,
		opts:    opts,
		tracker: tracker,
		logger:  logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if len(h.opts.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range h.opts.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// ServeHTTP handles GET /ws?address=. The request blocks for the session lifetime.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	session := newSession(conn, address, h.deps, h.opts.WriteTimeout, h.opts.ClipboardTimeout, h.logger)
	if h.tracker != nil {
		h.tracker.SessionOpened()
		defer h.tracker.SessionClosed()
	}
	h.logger.Info("live session connected", zap.String("session_id", session.ID()), zap.String("address", address))
	session.Run(r.Context())
	h.logger.Info("live session closed", zap.String("session_id", session.ID()))
}
