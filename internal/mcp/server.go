// Package mcp exposes call placement as MCP tools over streamable HTTP.
package mcp

import (
	"context"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/example/callsched/internal/calls"
)

const (
	ServerName        = "callsched"
	ServerDescription = "AI scheduling assistant that places voice-AI phone calls and reports the outcome"
)

var Capabilities = []string{"phone_calls", "restaurant_reservations", "appointment_scheduling"}

// Placer places a call for a free-text request.
type Placer interface {
	PlaceCall(ctx context.Context, in calls.Input) (calls.Result, error)
}

type Config struct {
	Version string
	Logger  *zap.Logger
}

type Server struct {
	mcp     *mcp.Server
	placer  Placer
	version string
	logger  *zap.Logger
	now     func() time.Time
}

func NewServer(cfg Config, placer Placer) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	s := &Server{
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    ServerName,
				Version: cfg.Version,
			},
			nil,
		),
		placer:  placer,
		version: cfg.Version,
		logger:  cfg.Logger,
		now:     time.Now,
	}
	s.registerTools()
	return s
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// Handler serves the tools over stateless streamable HTTP.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, &mcp.StreamableHTTPOptions{Stateless: true})
}
