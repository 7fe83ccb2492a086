package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/moodlog/pkg/app"
)

// Transport selects the mechanism used to expose the mood log.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

const (
	// DefaultAddr is where the HTTP transport listens unless told otherwise.
	DefaultAddr = "127.0.0.1:8080"
	// DefaultPath is the HTTP endpoint path.
	DefaultPath = "/mcp"
)

// Runner serves the mood log to MCP clients until ctx is done.
type Runner struct {
	Service   *app.Service
	Version   string
	Transport Transport

	// Addr and Path locate the HTTP endpoint. Listener, when set, is used
	// instead of listening on Addr.
	Addr     string
	Path     string
	Listener net.Listener

	// Out receives the listening banner of the HTTP transport.
	Out io.Writer
}

// ParseTransport accepts "http" or "stdio"; empty means http.
func ParseTransport(s string) (Transport, error) {
	switch t := Transport(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TransportHTTP, nil
	case TransportHTTP, TransportStdio:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported transport %q (expected http or stdio)", s)
	}
}

// Do executes the runner.
func (r Runner) Do(ctx context.Context) error {
	if r.Service == nil {
		return errors.New("mcp runner requires a mood service")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	srv := NewService(r.Service).NewServer(r.Version)

	switch r.Transport {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv)
	case TransportStdio:
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", r.Transport)
	}
}

func endpointPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	ln := r.Listener
	if ln == nil {
		addr := r.Addr
		if addr == "" {
			addr = DefaultAddr
		}
		var err error
		if ln, err = net.Listen("tcp", addr); err != nil {
			return err
		}
	}

	path := endpointPath(r.Path)
	mux := http.NewServeMux()
	mux.Handle(path, server.NewStreamableHTTPServer(srv))
	httpSrv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if r.Out != nil {
		_, _ = fmt.Fprintf(r.Out, "moodlog MCP server listening on http://%s%s\n", ln.Addr(), path)
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	})
	defer stop()

	if err := httpSrv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
