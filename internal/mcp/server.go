// ABOUTME: MCP server setup for the nexusfit plan store.
// ABOUTME: Wraps the MCP server with the store, sync orchestrator, editor, and library service.
package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harperreed/nexusfit/internal/editor"
	"github.com/harperreed/nexusfit/internal/library"
	"github.com/harperreed/nexusfit/internal/store"
	plansync "github.com/harperreed/nexusfit/internal/sync"
)

// ErrAIUnavailable is returned by tools that need the generation service
// when no API key is configured.
var ErrAIUnavailable = errors.New("AI features need an API key (set GEMINI_API_KEY)")

// Deps are the services the MCP tools operate on. Sync and Library may be
// nil when no API key is configured.
type Deps struct {
	Store   *store.Store
	Sync    *plansync.Orchestrator
	Editor  *editor.Editor
	Library *library.Service
	Logger  *zap.Logger
}

// Server wraps the MCP server with nexusfit services.
type Server struct {
	mcpServer *mcp.Server
	store     *store.Store
	sync      *plansync.Orchestrator
	editor    *editor.Editor
	library   *library.Service
	logger    *zap.Logger
	now       func() time.Time
}

// NewServer creates a new MCP server over the given services.
func NewServer(deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("mcp server needs a store")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ed := deps.Editor
	if ed == nil {
		ed = editor.New(deps.Store, nil, editor.WithLogger(logger))
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "nexusfit",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		store:     deps.Store,
		sync:      deps.Sync,
		editor:    ed,
		library:   deps.Library,
		logger:    logger,
		now:       time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
