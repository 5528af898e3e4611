package listener

import (
	"context"
	"io"
	"log/slog"
)

// Console serves one admin session over a line-oriented connection.
type Console interface {
	Run(ctx context.Context, rw io.ReadWriter) error
}

// ConnectionManager hands accepted telnet and ssh connections to the console.
type ConnectionManager struct {
	console Console
}

func NewConnectionManager(c Console) *ConnectionManager {
	return &ConnectionManager{
		console: c,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.console.Run(ctx, conn); err != nil {
		slog.WarnContext(ctx, "console session", "error", err)
	}
}
