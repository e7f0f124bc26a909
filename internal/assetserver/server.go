// Package assetserver exposes a conversion's base directory over local
// HTTP so the browser engine can resolve relative URLs (images,
// stylesheets) in the rendered document. Temp-directory diagram images
// are additionally served under a fixed prefix as a fallback for
// documents that reference them by URL.
package assetserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// DiagramPrefix is the URL prefix under which temp-directory diagram
// images are served.
const DiagramPrefix = "/__diagrams__"

// ErrListen indicates the server could not bind its port.
var ErrListen = errors.New("asset server failed to listen")

// shutdownGrace bounds how long Close waits for in-flight requests.
const shutdownGrace = 2 * time.Second

// Server serves a base directory on the loopback interface.
type Server struct {
	srv  *http.Server
	addr string
}

// Start serves basedir (and imageDir under DiagramPrefix) on the given
// loopback port. Port 0 binds an ephemeral port; BaseURL reports the
// address actually bound. It returns once the listener is bound, so a
// caller may navigate the engine to BaseURL immediately.
func Start(basedir string, port int, imageDir string) (*Server, error) {
	r := chi.NewRouter()
	r.Handle(DiagramPrefix+"/*", http.StripPrefix(DiagramPrefix+"/", http.FileServer(http.Dir(imageDir))))
	r.Handle("/*", http.FileServer(http.Dir(basedir)))

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListen, err)
	}

	s := &Server{
		srv:  &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second},
		addr: ln.Addr().String(),
	}

	go func() {
		// ErrServerClosed is the normal shutdown path.
		_ = s.srv.Serve(ln)
	}()

	return s, nil
}

// BaseURL returns the root URL of the served directory.
func (s *Server) BaseURL() string {
	return "http://" + s.addr
}

// DiagramURL returns the URL under which imageDir contents are served.
func (s *Server) DiagramURL() string {
	return s.BaseURL() + DiagramPrefix
}

// Close stops the server, waiting briefly for in-flight requests.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
