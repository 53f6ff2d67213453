package ws

import (
	"encoding/json"
	"image/png"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/ledmatrix/internal/diagnostics"
	"github.com/coreman2200/ledmatrix/internal/matrix"
)

// PanelInfo describes one output in /health and the topology message.
type PanelInfo struct {
	Name     string `json:"name"`
	Session  string `json:"session,omitempty"`
	Firmware string `json:"firmware,omitempty"`
}

// State mirrors the render loop to websocket clients. The loop publishes
// into it without blocking; each client has its own writer goroutine.
type State struct {
	mu       sync.Mutex
	Panels   []PanelInfo
	Interval time.Duration
	DrawMode string

	frameID     uint64
	last        []matrix.Grid
	startTime   time.Time
	clients     map[*client]bool
	diagClients map[*client]bool
	diags       []diag.Diagnostic
}

const (
	// keep the last few diagnostics for clients that connect late
	diagBacklog = 32
	sendQueue   = 64
	writeWait   = 200 * time.Millisecond
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, send: make(chan []byte, sendQueue)}
}

// enqueue drops the message when the client is not keeping up.
func (c *client) enqueue(b []byte) bool {
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

func (c *client) writeLoop() {
	for b := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("preview write")
			c.conn.Close()
			return
		}
	}
}

func NewState(panels []PanelInfo, interval time.Duration, drawMode string) *State {
	return &State{
		Panels:      panels,
		Interval:    interval,
		DrawMode:    drawMode,
		startTime:   time.Now(),
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
	}
}

// Handler routes the preview endpoints.
func (s *State) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/frame.png", s.HandleFramePNG)
	return mux
}

type frameMsg struct {
	T       int64         `json:"t"`
	FrameID uint64        `json:"frame_id"`
	Panels  []matrix.Grid `json:"panels"`
}

// Publish stores a copy of the canvases and queues them for frame clients.
func (s *State) Publish(frameID uint64, canvases []matrix.Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameID = frameID
	s.last = append(s.last[:0], canvases...)
	if len(s.clients) == 0 {
		return
	}
	b, _ := json.Marshal(frameMsg{T: time.Now().UnixNano(), FrameID: frameID, Panels: s.last})
	s.broadcast(s.clients, b)
}

// PushDiag records d and queues it for diagnostics clients.
func (s *State) PushDiag(d diag.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diags = append(s.diags, d)
	if len(s.diags) > diagBacklog {
		s.diags = s.diags[len(s.diags)-diagBacklog:]
	}
	b, _ := json.Marshal(d)
	s.broadcast(s.diagClients, b)
}

// broadcast must be called with s.mu held.
func (s *State) broadcast(set map[*client]bool, b []byte) {
	for c := range set {
		if !c.enqueue(b) {
			log.Debug().Msg("preview client behind, message dropped")
		}
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newClient(conn)
	s.mu.Lock()
	c.enqueue(s.topology())
	s.clients[c] = true
	s.mu.Unlock()
	go c.writeLoop()
	go s.drain(c, s.clients)
}

func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newClient(conn)
	s.mu.Lock()
	for _, d := range s.diags {
		b, _ := json.Marshal(d)
		c.enqueue(b)
	}
	s.diagClients[c] = true
	s.mu.Unlock()
	go c.writeLoop()
	go s.drain(c, s.diagClients)
}

// drain discards client messages until the connection drops.
func (s *State) drain(c *client, set map[*client]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, c)
		close(c.send)
		s.mu.Unlock()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{
		"frame_id":    s.frameID,
		"uptime_s":    time.Since(s.startTime).Seconds(),
		"panels":      s.Panels,
		"interval_ms": s.Interval.Milliseconds(),
		"draw_mode":   s.DrawMode,
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// HandleFramePNG serves the last canvas of ?panel=N (default 0) as a
// grayscale PNG.
func (s *State) HandleFramePNG(w http.ResponseWriter, r *http.Request) {
	panel := 0
	if v := r.URL.Query().Get("panel"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "bad panel", http.StatusBadRequest)
			return
		}
		panel = n
	}
	s.mu.Lock()
	if panel < 0 || panel >= len(s.last) {
		s.mu.Unlock()
		http.Error(w, "no such panel", http.StatusNotFound)
		return
	}
	g := s.last[panel]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, g.Image()); err != nil {
		log.Debug().Err(err).Msg("frame png")
	}
}

func (s *State) topology() []byte {
	b, _ := json.Marshal(map[string]any{
		"width":  matrix.Width,
		"height": matrix.Height,
		"panels": s.Panels,
	})
	return b
}
