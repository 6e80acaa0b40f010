package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docdig/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// shutdownGrace bounds how long in-flight HTTP requests may finish after
// the context is cancelled.
const shutdownGrace = 5 * time.Second

// Server exposes docdig extraction as MCP tools and resources.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(&mcp.Implementation{Name: "docdig", Version: Version}, nil),
	}
	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves MCP over stdio until ctx is cancelled or the client leaves.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over streamable HTTP on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves MCP over streamable HTTP on ln and closes it on return.
// Cancelling ctx shuts the server down, and a failed shutdown is reported.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler: mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return s.server
		}, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	defer close(done)

	shutdown := make(chan error, 1)
	go func() {
		select {
		case <-done:
			return
		case <-ctx.Done():
		}
		logger.Debug("Shutting down MCP HTTP server on %s", ln.Addr())
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		shutdown <- httpServer.Shutdown(sctx)
	}()

	err := httpServer.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		_ = httpServer.Close()
		return err
	}
	if err := <-shutdown; err != nil {
		return fmt.Errorf("shutting down mcp server: %w", err)
	}
	return nil
}
