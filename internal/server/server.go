package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/weaponsim/internal/core/events/relay"
	"github.com/zeusync/weaponsim/internal/core/observability/log"
	"github.com/zeusync/weaponsim/pkg/generic"
)

var encodeBuffers = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

// Server streams HUD notifications to websocket viewers. Every notification
// published on the relay while the server is attached is sent to all
// viewers as an Envelope; new viewers first receive the latest envelope of
// each kind so their display starts in sync.
type Server struct {
	relay  *relay.Relay
	config Config
	logger log.Log

	httpServer *http.Server
	listener   net.Listener

	subsMu sync.Mutex
	subs   []relay.Subscription

	mu      sync.Mutex
	viewers map[*viewer]struct{}
	pending int
	last    map[relay.Kind][]byte
	seq     uint64

	running int32 // atomic bool
	closed  int32 // atomic bool
}

// Config holds server configuration
type Config struct {
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
	Path       string `yaml:"path" json:"path"`
	MaxClients int    `yaml:"max_clients" json:"max_clients"`

	// SendBuffer is how many envelopes may queue per viewer before the
	// viewer is dropped as too slow.
	SendBuffer   int           `yaml:"send_buffer" json:"send_buffer"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`

	// Token, when set, must be passed as the token query parameter.
	Token string `yaml:"token" json:"token"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:   "127.0.0.1:8090",
		Path:         "/hud",
		MaxClients:   64,
		SendBuffer:   64,
		WriteTimeout: 5 * time.Second,
	}
}

func (c Config) Validate() error {
	var problems []string
	if c.ListenAddr == "" {
		problems = append(problems, "listen_addr is empty")
	}
	if !strings.HasPrefix(c.Path, "/") {
		problems = append(problems, fmt.Sprintf("path %q must start with /", c.Path))
	}
	if c.MaxClients <= 0 {
		problems = append(problems, "max_clients must be positive")
	}
	if c.SendBuffer <= 0 {
		problems = append(problems, "send_buffer must be positive")
	}
	if c.WriteTimeout <= 0 {
		problems = append(problems, "write_timeout must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Envelope is the wire form of a forwarded notification.
type Envelope struct {
	Seq     uint64             `json:"seq"`
	Kind    relay.Kind         `json:"kind"`
	Payload relay.Notification `json:"payload"`
}

// NewServer creates a detached server for r.
func NewServer(r *relay.Relay, config Config, logger log.Log) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Server{
		relay:   r,
		config:  config,
		logger:  logger.With(log.String("component", "hud-feed")),
		viewers: make(map[*viewer]struct{}),
		last:    make(map[relay.Kind][]byte),
	}, nil
}

// Attach starts forwarding relay notifications. It is idempotent.
func (s *Server) Attach() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.subs != nil {
		return
	}
	for _, kind := range relay.Kinds() {
		s.subs = append(s.subs, s.relay.Subscribe(kind, s.broadcast))
	}
}

// Detach stops forwarding relay notifications.
func (s *Server) Detach() {
	s.subsMu.Lock()
	subs := s.subs
	s.subs = nil
	s.subsMu.Unlock()

	for _, sub := range subs {
		s.relay.Unsubscribe(sub)
	}
}

// Start listens on the configured address and serves viewers in the
// background.
func (s *Server) Start(_ context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.Attach()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HUD feed stopped serving", log.Error(err))
		}
	}()

	s.logger.Info("HUD feed listening",
		log.String("addr", listener.Addr().String()),
		log.String("path", s.config.Path))
	return nil
}

// Stop detaches from the relay, stops accepting viewers and disconnects the
// connected ones. A stopped server cannot be started again.
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}
	atomic.StoreInt32(&s.closed, 1)

	s.Detach()
	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	for v := range s.viewers {
		v.close()
		delete(s.viewers, v)
	}
	s.mu.Unlock()

	s.logger.Info("HUD feed stopped")
	return err
}

// Run starts the server and stops it once ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.WriteTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Clients returns the number of connected viewers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == s.config.Path {
		s.handleWebSocket(w, r)
		return
	}
	http.NotFound(w, r)
}

func (s *Server) broadcast(n relay.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	buf := encodeBuffers.Get()
	defer encodeBuffers.Put(buf)
	if err := json.NewEncoder(buf).Encode(Envelope{Seq: s.seq, Kind: n.Kind(), Payload: n}); err != nil {
		s.logger.Warn("Failed to encode notification", log.String("kind", string(n.Kind())), log.Error(err))
		return
	}
	data := bytes.Clone(buf.Bytes())
	s.last[n.Kind()] = data

	for v := range s.viewers {
		if !v.enqueue(data) {
			s.logger.Warn("Dropping slow viewer", log.String("viewer", v.id))
			v.close()
			delete(s.viewers, v)
		}
	}
}
