// Package server streams sandbox snapshots to websocket clients and accepts
// interactive commands (painting, parameter changes, reset) back from them.
package server

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"sandfall/internal/core"
	"sandfall/internal/sims/sandbox"

	"github.com/gorilla/websocket"
)

// Config holds the network and pacing settings for the snapshot server.
type Config struct {
	Addr string
	TPS  int
}

// frameMeta precedes every binary snapshot so clients can decode it.
type frameMeta struct {
	Type      string `json:"type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Tick      uint64 `json:"tick"`
	Particles int    `json:"particles"`
}

// command is the union of messages a client may send.
type command struct {
	Param  string   `json:"param,omitempty"`
	Value  *float64 `json:"value,omitempty"`
	Paint  *paintOp `json:"paint,omitempty"`
	Paused *bool    `json:"paused,omitempty"`
	Reset  *int64   `json:"reset,omitempty"`
	TPS    *int     `json:"tps,omitempty"`
}

type paintOp struct {
	X        int   `json:"x"`
	Y        int   `json:"y"`
	Material uint8 `json:"material"`
	Radius   int   `json:"radius"`
}

// Server steps a sandbox world on a fixed cadence and broadcasts each frame.
type Server struct {
	cfg   Config
	world *sandbox.World

	mu     sync.Mutex // guards world, pacer and paused
	pacer  *core.FixedStep
	paused bool

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex

	upgrader websocket.Upgrader
}

// New constructs a Server around an already reset world.
func New(cfg Config, world *sandbox.World) *Server {
	if cfg.TPS <= 0 {
		cfg.TPS = 30
	}
	return &Server{
		cfg:     cfg,
		world:   world,
		pacer:   core.NewFixedStep(cfg.TPS),
		clients: map[*websocket.Conn]*sync.Mutex{},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run blocks, serving websocket clients until the context is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)

	srv := &http.Server{Addr: s.cfg.Addr, Handler: mux}

	go s.stepLoop(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("serving %q on %s", s.world.Name(), s.cfg.Addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) stepLoop(ctx context.Context) {
	// Poll well above the highest plausible tick rate; the pacer decides
	// when a tick is actually due and absorbs TPS changes from clients.
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if !s.pacer.ShouldStep() {
			s.mu.Unlock()
			continue
		}
		if !s.paused {
			s.world.Step()
		}
		meta, payload := s.snapshotLocked()
		s.mu.Unlock()

		s.broadcast(meta, payload)
	}
}

func (s *Server) snapshotLocked() (frameMeta, []byte) {
	size := s.world.Size()
	meta := frameMeta{
		Type:      "frame",
		Width:     size.W,
		Height:    size.H,
		Tick:      s.world.Tick(),
		Particles: s.world.ActiveParticles(),
	}
	var buf bytes.Buffer
	if err := s.world.WriteSnapshot(&buf); err != nil {
		log.Printf("snapshot: %v", err)
		return meta, nil
	}
	return meta, buf.Bytes()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("websocket upgrade:", err)
		return
	}
	defer conn.Close()

	connMu := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = connMu
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	// Send one frame immediately so a client joining a paused server still
	// has something to draw.
	s.mu.Lock()
	meta, payload := s.snapshotLocked()
	s.mu.Unlock()
	sendFrame(conn, connMu, meta, payload)

	for {
		var cmd command
		if err := conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("websocket read:", err)
			}
			return
		}
		s.apply(cmd)
	}
}

func (s *Server) apply(cmd command) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cmd.Paused != nil {
		s.paused = *cmd.Paused
	}
	if cmd.TPS != nil {
		s.pacer.SetTPS(*cmd.TPS)
	}
	if cmd.Reset != nil {
		s.world.Reset(*cmd.Reset)
	}
	if cmd.Param != "" && cmd.Value != nil {
		if !s.world.SetFloatParameter(cmd.Param, *cmd.Value) {
			s.world.SetIntParameter(cmd.Param, int(*cmd.Value))
		}
	}
	if cmd.Paint != nil {
		s.paint(*cmd.Paint)
	}
}

func (s *Server) paint(op paintOp) {
	r := op.Radius
	if r < 0 {
		r = 0
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			s.world.PlaceMaterial(op.X+dx, op.Y+dy, sandbox.MaterialKind(op.Material))
		}
	}
}

func (s *Server) broadcast(meta frameMeta, payload []byte) {
	if payload == nil {
		return
	}

	s.clientsMu.RLock()
	var failed []*websocket.Conn
	for conn, connMu := range s.clients {
		if err := sendFrame(conn, connMu, meta, payload); err != nil {
			log.Println("websocket write:", err)
			conn.Close()
			failed = append(failed, conn)
		}
	}
	s.clientsMu.RUnlock()

	if len(failed) > 0 {
		s.clientsMu.Lock()
		for _, conn := range failed {
			delete(s.clients, conn)
		}
		s.clientsMu.Unlock()
	}
}

func sendFrame(conn *websocket.Conn, connMu *sync.Mutex, meta frameMeta, payload []byte) error {
	connMu.Lock()
	defer connMu.Unlock()
	if err := conn.WriteJSON(meta); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, payload)
}
