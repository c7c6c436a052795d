package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/weaponsim/internal/core/events/relay"
	"github.com/zeusync/weaponsim/internal/core/observability/log"
)

const maxViewerMessage = 512

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type viewer struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (v *viewer) enqueue(data []byte) bool {
	select {
	case v.send <- data:
		return true
	default:
		return false
	}
}

func (v *viewer) close() {
	v.closeOnce.Do(func() { close(v.done) })
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.config.Token != "" && r.URL.Query().Get("token") != s.config.Token {
		http.Error(w, ErrUnauthorized.Error(), http.StatusUnauthorized)
		return
	}
	if !s.reserve() {
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.release()
		s.logger.Warn("Websocket upgrade failed", log.Error(err))
		return
	}

	v := &viewer{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, s.config.SendBuffer+len(relay.Kinds())),
		done: make(chan struct{}),
	}
	s.register(v)
	s.logger.Debug("Viewer connected",
		log.String("viewer", v.id),
		log.String("remote_addr", conn.RemoteAddr().String()))

	go s.writeLoop(v)
	s.readLoop(v)

	s.unregister(v)
	s.logger.Debug("Viewer disconnected", log.String("viewer", v.id))
}

// reserve claims a viewer slot before the upgrade so the limit holds while
// handshakes are in flight.
func (s *Server) reserve() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.viewers)+s.pending >= s.config.MaxClients {
		return false
	}
	s.pending++
	return true
}

func (s *Server) release() {
	s.mu.Lock()
	s.pending--
	s.mu.Unlock()
}

// register adds v and queues the latest envelope of every kind under the
// same lock broadcast uses, so each notification reaches v exactly once.
func (s *Server) register(v *viewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	for _, kind := range relay.Kinds() {
		if data, ok := s.last[kind]; ok {
			v.enqueue(data)
		}
	}
	s.viewers[v] = struct{}{}
}

func (s *Server) unregister(v *viewer) {
	s.mu.Lock()
	delete(s.viewers, v)
	s.mu.Unlock()
	v.close()
}

// readLoop discards viewer input and returns when the connection closes.
func (s *Server) readLoop(v *viewer) {
	v.conn.SetReadLimit(maxViewerMessage)
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(v *viewer) {
	defer v.conn.Close()
	for {
		select {
		case data := <-v.send:
			_ = v.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := v.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("Viewer write failed", log.String("viewer", v.id), log.Error(err))
				v.close()
				return
			}
		case <-v.done:
			deadline := time.Now().Add(s.config.WriteTimeout)
			_ = v.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return
		}
	}
}
