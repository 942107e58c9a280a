// Package httpserver serves cheatsheet panels to the browser and carries
// panel messages back to the host.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const shutdownTimeout = 2 * time.Second

// Option configures a PanelServer.
type Option func(*PanelServer)

// WithLogger sets the server logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *PanelServer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDisposeGrace sets how long a panel survives without a connected page
// before it is disposed. Zero disposes as soon as the page disconnects.
func WithDisposeGrace(d time.Duration) Option {
	return func(s *PanelServer) {
		s.grace = d
	}
}

// WithAttachTimeout disposes a panel whose page has not connected within d
// of being opened. Zero keeps unvisited panels until Stop.
func WithAttachTimeout(d time.Duration) Option {
	return func(s *PanelServer) {
		s.attachTimeout = d
	}
}

// PanelServer hosts any number of independent panels on one HTTP listener.
type PanelServer struct {
	addr          string
	grace         time.Duration
	attachTimeout time.Duration
	logger        *zap.Logger

	mu      sync.Mutex
	started bool
	server  *http.Server
	baseURL string
	panels  map[string]*Panel

	serving sync.WaitGroup
	// readers tracks websocket handlers, which outlive Shutdown once hijacked.
	readers sync.WaitGroup

	upgrader websocket.Upgrader
}

// NewPanelServer creates a panel server bound to addr on first use.
func NewPanelServer(addr string, opts ...Option) *PanelServer {
	s := &PanelServer{
		addr:   addr,
		grace:  3 * time.Second,
		logger: zap.NewNop(),
		panels: make(map[string]*Panel),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the server base URL, or "" before the first panel is opened.
func (s *PanelServer) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL
}

// Open registers a new panel serving document and starts the server if needed.
func (s *PanelServer) Open(title, document string) (*Panel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.startLocked(); err != nil {
		return nil, err
	}

	p := newPanel(uuid.NewString(), title, document, s.baseURL)
	s.panels[p.id] = p
	if s.attachTimeout > 0 {
		p.timer = time.AfterFunc(s.attachTimeout, func() { s.dispose(p) })
	}

	s.logger.Debug("panel opened", zap.String("panel", p.id))
	return p, nil
}

// Lookup returns the live panel with id.
func (s *PanelServer) Lookup(id string) (*Panel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.panels[id]
	return p, ok
}

// Len returns the number of live panels.
func (s *PanelServer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.panels)
}

// Stop disposes every panel and shuts the HTTP server down.
func (s *PanelServer) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	server := s.server
	panels := make([]*Panel, 0, len(s.panels))
	for _, p := range s.panels {
		panels = append(panels, p)
	}
	s.panels = make(map[string]*Panel)
	s.started = false
	s.server = nil
	s.baseURL = ""
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)

	for _, p := range panels {
		p.close()
	}
	s.readers.Wait()
	s.serving.Wait()

	s.logger.Debug("panel server stopped", zap.Int("panels", len(panels)))
	return err
}

func (s *PanelServer) startLocked() error {
	if s.started {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /panel/{id}", s.handlePanel)
	mux.HandleFunc("GET /panel/{id}/ws", s.handleWS)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.baseURL = "http://" + ln.Addr().String()
	s.started = true

	server := s.server
	s.serving.Add(1)
	go func() {
		defer s.serving.Done()
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("panel server failed", zap.Error(err))
		}
	}()

	s.logger.Info("panel server listening", zap.String("url", s.baseURL))
	return nil
}

// handlePanel serves the panel document.
func (s *PanelServer) handlePanel(w http.ResponseWriter, r *http.Request) {
	p, ok := s.Lookup(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(p.document))
}

// handleWS upgrades the connection and forwards page messages to the panel.
func (s *PanelServer) handleWS(w http.ResponseWriter, r *http.Request) {
	s.readers.Add(1)
	defer s.readers.Done()

	p, ok := s.Lookup(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	if !p.attach(conn) {
		_ = conn.Close()
		return
	}

	// Block here until the connection closes / errors out
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if !p.deliver(msg) {
			break
		}
	}

	if p.detach(conn) {
		s.scheduleDispose(p)
	}
}

// scheduleDispose disposes p unless a page reconnects within the grace period.
func (s *PanelServer) scheduleDispose(p *Panel) {
	if s.grace <= 0 {
		s.dispose(p)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed || p.conn != nil {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(s.grace, func() { s.dispose(p) })
}

func (s *PanelServer) dispose(p *Panel) {
	s.mu.Lock()
	if cur, ok := s.panels[p.id]; ok && cur == p {
		delete(s.panels, p.id)
	}
	s.mu.Unlock()

	if p.close() {
		s.logger.Debug("panel disposed", zap.String("panel", p.id))
	}
}
