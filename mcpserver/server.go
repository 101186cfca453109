// Package mcpserver exposes the document graph as MCP tools so MCP
// clients such as Claude Desktop can submit documents and query
// concept relationships.
package mcpserver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/pipeline"
	"github.com/c360studio/semdoc/queue"
)

// Server is the semdoc MCP server.
type Server struct {
	store     *graph.Store
	processor *pipeline.Processor
	publisher *queue.Publisher
	logger    *slog.Logger
	server    *mcp.Server
}

// Option configures a Server.
type Option func(*Server)

// WithProcessor enables in-process document submission. The store
// backing the processor must be the same read-write store the server
// queries.
func WithProcessor(p *pipeline.Processor) Option {
	return func(s *Server) {
		s.processor = p
	}
}

// WithPublisher enables queued document submission for deployments
// where a separate ingest worker owns the write lock.
func WithPublisher(p *queue.Publisher) Option {
	return func(s *Server) {
		s.publisher = p
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates an MCP server over the given store. Submission tools
// require WithProcessor or WithPublisher; queries work with the store
// alone.
func New(store *graph.Store, version string, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("mcpserver: store is required")
	}

	s := &Server{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	impl := &mcp.Implementation{
		Name:    "semdoc",
		Version: version,
	}
	s.server = mcp.NewServer(impl, nil)
	s.registerTools()

	return s, nil
}

// Run serves MCP over stdio until the context is cancelled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server listening on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
