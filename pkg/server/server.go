// Package server exposes the Rewind HTTP and websocket server for embedding.
package server

import (
	"github.com/sirupsen/logrus"

	internalserver "github.com/SmitUplenchwar2687/Rewind/internal/server"
	"github.com/SmitUplenchwar2687/Rewind/pkg/capture"
	"github.com/SmitUplenchwar2687/Rewind/pkg/codec"
	"github.com/SmitUplenchwar2687/Rewind/pkg/storage"
)

// Server stores timelines and drives remote record and replay sessions.
type Server = internalserver.Server

// Option configures a Server.
type Option = internalserver.Option

// Hub fans frame events out to monitor clients.
type Hub = internalserver.Hub

// MonitorEvent is broadcast for every frame a session processes.
type MonitorEvent = internalserver.MonitorEvent

type (
	ClientMessage = internalserver.ClientMessage
	ServerMessage = internalserver.ServerMessage
)

// DashboardHTML is the embedded single-page monitor.
const DashboardHTML = internalserver.DashboardHTML

// New creates a new Rewind server backed by store.
func New(addr string, store storage.Store, opts ...Option) *Server {
	return internalserver.New(addr, store, opts...)
}

// NewHub creates a monitor hub.
func NewHub(l logrus.FieldLogger) *Hub {
	return internalserver.NewHub(l)
}

// WithLogger sets the server logger.
func WithLogger(l logrus.FieldLogger) Option {
	return internalserver.WithLogger(l)
}

// WithFormat sets the encoding used for recordings saved by sessions.
func WithFormat(f codec.Format) Option {
	return internalserver.WithFormat(f)
}

// WithModes restricts which modalities sessions record.
func WithModes(m capture.Modes) Option {
	return internalserver.WithModes(m)
}
