package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/quizdash/quizdash-backend/internal/game"
	"github.com/quizdash/quizdash-backend/internal/ws"
)

// Server is the game service's HTTP surface: game creation and status over
// REST, everything else over the websocket endpoint.
type Server struct {
	engine *game.Engine
	wsh    *ws.Handler

	version string
}

func New(engine *game.Engine, wsh *ws.Handler, version string) *Server {
	return &Server{
		engine:  engine,
		wsh:     wsh,
		version: version,
	}
}

// HTTPServer wires the router into a ready-to-run http.Server.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// ListenAddr formats a bind address.
func ListenAddr(bind string, port int) string {
	return fmt.Sprintf("%s:%d", bind, port)
}
