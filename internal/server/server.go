// Package server hosts typing sessions over WebSocket. Every connection owns
// one Session; the resolver and the passage picker are shared.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/pinyipe/internal/passage"
	"github.com/verte-zerg/pinyipe/internal/session"
)

const (
	readLimit     = 4096
	shutdownGrace = 5 * time.Second
)

// Message is sent by clients. Next abandons the current passage.
type Message struct {
	Key  string `json:"key"`
	Next bool   `json:"next,omitempty"`
}

// Server serves /ws and /healthz.
type Server struct {
	resolver session.Resolver
	picker   *passage.Picker
	limit    int
	log      *log.Logger
	mux      *http.ServeMux
}

// New builds a Server. limit caps the candidates of every session.
func New(resolver session.Resolver, picker *passage.Picker, limit int, logger *log.Logger) *Server {
	s := &Server{
		resolver: resolver,
		picker:   picker,
		limit:    limit,
		log:      logger,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /ws", s.handleSession)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("accept failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	ctx := r.Context()
	target := r.URL.Query().Get("text")
	if target == "" {
		target = s.picker.Next()
	}
	sess := session.New(s.resolver, target, s.limit)
	s.log.Debug("session started", "remote", r.RemoteAddr, "length", len([]rune(target)))

	if err := wsjson.Write(ctx, conn, sess.View()); err != nil {
		s.logClose(r, err)
		return
	}
	for {
		var msg Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			s.logClose(r, err)
			return
		}
		var view session.View
		if msg.Next {
			sess = session.New(s.resolver, s.picker.Next(), s.limit)
			view = sess.View()
		} else {
			view = sess.Handle(session.Event{Key: msg.Key})
		}
		if err := wsjson.Write(ctx, conn, view); err != nil {
			s.logClose(r, err)
			return
		}
	}
}

func (s *Server) logClose(r *http.Request, err error) {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		s.log.Debug("session closed", "remote", r.RemoteAddr)
		return
	}
	if errors.Is(err, context.Canceled) {
		s.log.Debug("session cancelled", "remote", r.RemoteAddr)
		return
	}
	s.log.Error("session failed", "remote", r.RemoteAddr, "err", err)
}
