// Package mcpserver assembles the MCP server around the browser tool
// catalogue and runs it over stdio or streamable HTTP.
package mcpserver

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/NORMAL-EX/chrome-control/internal/adapter/tools"
	"github.com/NORMAL-EX/chrome-control/internal/application/port/output"
)

const serverName = "chrome-control"

const instructions = "Controls a single Chrome browser through the browser_* tools. " +
	"The browser starts on demand and keeps exactly one page. Navigate first, then " +
	"interact with elements through CSS or XPath selectors. Use browser_get_content " +
	"to read a page and browser_screenshot to see it."

const shutdownGrace = 5 * time.Second

type Config struct {
	Version  string
	HTTPAddr string
	JSONLog  bool
}

type Server struct {
	mcp    *mcp.Server
	logger output.LoggerPort
	cfg    Config
}

func New(t *tools.Tools, cfg Config, logger output.LoggerPort) *Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Title:   "Chrome Control",
		Version: cfg.Version,
	}, &mcp.ServerOptions{
		Instructions: instructions,
	})
	tools.Register(srv, t)

	return &Server{mcp: srv, logger: logger, cfg: cfg}
}

// RunStdio serves one MCP session over stdin and stdout. It blocks
// until the client disconnects or ctx is cancelled.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("Serving MCP over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP surface: the MCP endpoint on /mcp plus a
// health probe on /healthz.
func (s *Server) Handler() http.Handler {
	requestLogger := httplog.NewLogger(serverName, httplog.Options{
		JSON:    s.cfg.JSONLog,
		Concise: true,
	}).Output(os.Stderr)

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(requestLogger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))

	r.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil))

	return r
}

// RunHTTP serves MCP over streamable HTTP on cfg.HTTPAddr. It blocks
// until ctx is cancelled or the listener fails.
func (s *Server) RunHTTP(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	s.logger.Info("Serving MCP over HTTP", "addr", s.cfg.HTTPAddr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
