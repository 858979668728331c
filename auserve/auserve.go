// Package auserve implements a live preview server for the aurora shell. Rendered frames are
// pushed to websocket clients as PNG binary messages and clients patch the live
// configuration by sending JSON text messages.
package auserve

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soypat/aurora"
	"github.com/soypat/aurora/aueval"
	"github.com/soypat/aurora/aurender"
)

//go:embed index.html
var indexHTML []byte

type Config struct {
	Width, Height int
	// FrameTime is the period between rendered frames.
	FrameTime  time.Duration
	Camera     aurender.Camera
	Background color.Color
	// Evaluator shades frames. Nil uses an [aueval.CPUEvaluator].
	Evaluator aueval.Evaluator
}

// Message is the JSON text message sent to clients.
type Message struct {
	// Type is "config" after connecting or a successful patch and "error" for a rejected patch.
	Type   string         `json:"type"`
	Config *aurora.Config `json:"config,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Server renders frames of the live configuration and streams them to websocket clients.
type Server struct {
	cfg      Config
	live     *aurender.Live
	shader   aurora.Shader
	renderer *aurender.ImageRenderer
	clock    aurender.Clock
	img      *image.NRGBA
	frame    bytes.Buffer
	upgrader websocket.Upgrader

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex
}

// NewServer creates a preview server over live. density must not be nil. displacement may be nil.
func NewServer(live *aurender.Live, density, displacement aurora.Field, cfg Config) (*Server, error) {
	if live == nil || density == nil {
		return nil, errors.New("live configuration and density field required")
	} else if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("frame dimensions must be positive")
	} else if cfg.FrameTime <= 0 {
		return nil, errors.New("frame time must be positive")
	}
	renderer, err := aurender.NewImageRenderer(max(4096, cfg.Width), cfg.Evaluator)
	if err != nil {
		return nil, err
	}
	renderer.Background = cfg.Background
	s := &Server{
		cfg:      cfg,
		live:     live,
		shader:   aurora.Shader{Density: density, Displacement: displacement},
		renderer: renderer,
		img:      image.NewNRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Local preview tool.
			},
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
	return s, nil
}

// Handler returns the HTTP handler serving the preview page at / and the websocket at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveHome)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Run renders and broadcasts a frame every FrameTime until ctx is done.
// Frames are rendered on the calling goroutine.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.FrameTime)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.closeClients()
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			err := s.Tick(dt)
			if err != nil {
				log.Println("frame error:", err)
			}
			if took := time.Since(now); took > s.cfg.FrameTime {
				log.Printf("slow frame: %v > %v", took, s.cfg.FrameTime)
			}
		}
	}
}

// Tick advances the scroll clock by dt, renders a frame from a single configuration
// snapshot and sends it to every client. It must not be called concurrently.
func (s *Server) Tick(dt time.Duration) error {
	frame, err := s.renderFrame(dt)
	if err != nil {
		return err
	}
	s.broadcast(websocket.BinaryMessage, frame)
	return nil
}

func (s *Server) renderFrame(dt time.Duration) ([]byte, error) {
	sh := s.shader
	sh.Config = s.live.Load()
	sh.Time = s.clock.Advance(dt, sh.Config.Speed)
	err := s.renderer.Render(&sh, s.cfg.Camera, s.img)
	if err != nil {
		return nil, err
	}
	s.frame.Reset()
	err = png.Encode(&s.frame, s.img)
	if err != nil {
		return nil, err
	}
	return s.frame.Bytes(), nil
}

func (s *Server) serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = connMutex
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	cfg := s.live.Load()
	err = s.send(conn, connMutex, Message{Type: "config", Config: &cfg})
	if err != nil {
		return
	}
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("websocket read error:", err)
			}
			return
		} else if kind != websocket.TextMessage {
			continue
		}
		msg := Message{Type: "config"}
		next, err := s.live.Patch(data)
		if err != nil {
			msg = Message{Type: "error", Error: err.Error()}
		} else {
			msg.Config = &next
		}
		err = s.send(conn, connMutex, msg)
		if err != nil {
			return
		}
	}
}

func (s *Server) send(conn *websocket.Conn, mu *sync.Mutex, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) broadcast(kind int, data []byte) {
	s.clientsMu.RLock()
	var failed []*websocket.Conn
	for client, mu := range s.clients {
		mu.Lock()
		err := client.WriteMessage(kind, data)
		mu.Unlock()
		if err != nil {
			log.Println("websocket write error:", err)
			failed = append(failed, client)
		}
	}
	s.clientsMu.RUnlock()
	if len(failed) > 0 {
		s.clientsMu.Lock()
		for _, client := range failed {
			client.Close()
			delete(s.clients, client)
		}
		s.clientsMu.Unlock()
	}
}

func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for client, mu := range s.clients {
		mu.Lock()
		client.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopped"))
		mu.Unlock()
		client.Close()
		delete(s.clients, client)
	}
}
