package widget

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledmatrix/internal/matrix"
)

// Full scale of the throughput bars, in bytes per second.
const (
	maxDownload = 500 * 1024 * 1024 / 8 // 500 Mbit/s
	maxUpload   = 100 * 1024 * 1024 / 8 // 100 Mbit/s
)

// Network draws an 'N' header, then download and upload throughput summed
// over the selected interfaces.
type Network struct {
	src     NetworkSource
	devices []string
	now     func() time.Time

	last     time.Time
	lastRecv uint64
	lastSent uint64
	primed   bool

	shape  matrix.Shape
	matrix []uint8
}

// NewNetwork watches the named interfaces, or every interface except
// loopback and libvirt bridges when devices is empty.
func NewNetwork(src NetworkSource, devices []string, now func() time.Time) *Network {
	if now == nil {
		now = time.Now
	}
	s := matrix.Shape{X: 9, Y: 3}
	return &Network{src: src, devices: devices, now: now, shape: s, matrix: blank(s)}
}

func (n *Network) selected(name string) bool {
	if len(n.devices) == 0 {
		return name != "lo" && !strings.Contains(name, "virbr")
	}
	for _, d := range n.devices {
		if d == name {
			return true
		}
	}
	return false
}

func (n *Network) Update() {
	width := n.shape.X
	n.matrix = blank(n.shape)

	counters, err := n.src.Counters()
	if err != nil {
		log.Debug().Err(err).Str("widget", "network").Msg("source unavailable")
		n.primed = false
		return
	}

	var recv, sent uint64
	for _, c := range counters {
		if n.selected(c.Name) {
			recv += c.BytesRecv
			sent += c.BytesSent
		}
	}
	now := n.now()

	writeChar(n.matrix, 0, 'N')
	if n.primed && recv >= n.lastRecv && sent >= n.lastSent {
		if secs := now.Sub(n.last).Seconds(); secs > 0 {
			drawBar(n.matrix, width, width, float64(recv-n.lastRecv)/secs, maxDownload)
			drawBar(n.matrix, 2*width, width, float64(sent-n.lastSent)/secs, maxUpload)
		}
	}

	n.last, n.lastRecv, n.lastSent, n.primed = now, recv, sent, true
}

func (n *Network) Matrix() []uint8     { return n.matrix }
func (n *Network) Shape() matrix.Shape { return n.shape }
