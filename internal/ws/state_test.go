package ws

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diag "github.com/coreman2200/ledmatrix/internal/diagnostics"
	"github.com/coreman2200/ledmatrix/internal/matrix"
)

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func read(t *testing.T, c *websocket.Conn, v any) {
	t.Helper()
	c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, b, err := c.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, v))
}

func TestFramesStream(t *testing.T) {
	s := NewState([]PanelInfo{{Name: "sim0"}}, time.Second, "brightness")
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	c := dial(t, srv, "/ws")
	var top map[string]any
	read(t, c, &top)
	assert.Equal(t, float64(9), top["width"])
	assert.Equal(t, float64(34), top["height"])

	var g matrix.Grid
	g[1][2] = 60
	// The client is registered once the topology message was sent.
	s.Publish(7, []matrix.Grid{g})

	var f frameMsg
	read(t, c, &f)
	assert.Equal(t, uint64(7), f.FrameID)
	require.Len(t, f.Panels, 1)
	assert.Equal(t, uint8(60), f.Panels[0][1][2])
}

func TestPublishCopies(t *testing.T) {
	s := NewState(nil, time.Second, "")
	canvases := []matrix.Grid{{}}
	s.Publish(1, canvases)
	canvases[0][0][0] = 9
	assert.Equal(t, uint8(0), s.last[0][0][0])
}

func TestDiagBacklog(t *testing.T) {
	s := NewState(nil, time.Second, "")
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	s.PushDiag(diag.Diagnostic{Severity: diag.Warn, Code: "TRANSPORT.WRITE"})
	c := dial(t, srv, "/diag")
	var d diag.Diagnostic
	read(t, c, &d)
	assert.Equal(t, "TRANSPORT.WRITE", d.Code)
}

func TestHealth(t *testing.T) {
	s := NewState([]PanelInfo{{Name: "/dev/ttyACM0", Firmware: "0.5.1"}}, 500*time.Millisecond, "pattern")
	s.Publish(3, nil)

	rec := httptest.NewRecorder()
	s.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(3), resp["frame_id"])
	assert.Equal(t, float64(500), resp["interval_ms"])
	assert.Equal(t, "pattern", resp["draw_mode"])
}

func TestPublishDoesNotWaitForClients(t *testing.T) {
	s := NewState(nil, time.Second, "")
	stuck := &client{send: make(chan []byte, 1)}
	stuck.send <- []byte("backlog")
	s.clients[stuck] = true

	done := make(chan struct{})
	go func() {
		s.Publish(1, []matrix.Grid{{}})
		s.PushDiag(diag.Diagnostic{Code: "GENERIC"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a client that is not reading")
	}
	assert.Len(t, stuck.send, 1)
	assert.Equal(t, uint64(1), s.frameID)
}

func TestFramePNG(t *testing.T) {
	s := NewState(nil, time.Second, "")
	var g matrix.Grid
	g[5][3] = 200
	s.Publish(1, []matrix.Grid{{}, g})

	rec := httptest.NewRecorder()
	s.HandleFramePNG(rec, httptest.NewRequest(http.MethodGet, "/frame.png?panel=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, matrix.Bounds, img.Bounds())
	r, _, _, _ := img.At(3, 5).RGBA()
	assert.Equal(t, uint32(200)*0x101, r)

	for _, q := range []string{"panel=2", "panel=-1"} {
		rec = httptest.NewRecorder()
		s.HandleFramePNG(rec, httptest.NewRequest(http.MethodGet, "/frame.png?"+q, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, q)
	}
	rec = httptest.NewRecorder()
	s.HandleFramePNG(rec, httptest.NewRequest(http.MethodGet, "/frame.png?panel=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
