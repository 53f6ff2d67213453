package ledmatrix

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledmatrix/internal/matrix"
)

var (
	// ErrTimeout is returned when no reply byte arrives in time.
	ErrTimeout = errors.New("ledmatrix: read timed out")
	// ErrClosed is returned by every operation on a closed session.
	ErrClosed = errors.New("ledmatrix: session closed")
)

// Port is the byte stream to a module. go.bug.st/serial ports satisfy it.
// Read must return (0, nil) once the read timeout expires without data.
type Port interface {
	io.ReadWriteCloser
	Drain() error
	ResetInputBuffer() error
	SetReadTimeout(t time.Duration) error
}

// PortInfo identifies the serial endpoint behind a session.
type PortInfo struct {
	Name         string
	VID, PID     uint16
	SerialNumber string
	Product      string
}

// State of a session's protocol exchange.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateAwaitingResponse:
		return "awaiting-response"
	default:
		return "disconnected"
	}
}

const (
	pollInterval   = 10 * time.Millisecond
	versionTimeout = 5 * time.Second
	versionMaxRead = 32
)

// Session owns the port of one physical module. It never reconnects; once
// the link fails the session has to be replaced.
type Session struct {
	ID   uuid.UUID
	Info PortInfo
	// Firmware holds the last successfully queried version.
	Firmware Version

	port  Port
	state State
}

// NewSession wraps an already opened port.
func NewSession(port Port, info PortInfo) *Session {
	return &Session{
		ID:    uuid.New(),
		Info:  info,
		port:  port,
		state: StateConnected,
	}
}

// State reports where the session is in its request/reply cycle.
func (s *Session) State() State { return s.state }

func (s *Session) String() string { return "ledmatrix.Session{" + s.Info.Name + "}" }

// Close releases the port. Further operations return ErrClosed.
func (s *Session) Close() error {
	if s.state == StateDisconnected {
		return nil
	}
	s.state = StateDisconnected
	return s.port.Close()
}

// SendCommand writes one framed command and flushes it to the device.
// Parameter length is defined by the opcode; nothing is validated here.
func (s *Session) SendCommand(op Opcode, params ...byte) error {
	if s.state == StateDisconnected {
		return ErrClosed
	}
	pkt := frame(op, params...)
	n, err := s.port.Write(pkt)
	if err == nil && n < len(pkt) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return fmt.Errorf("ledmatrix: write %s to %s: %w", op, s.Info.Name, err)
	}
	if err := s.port.Drain(); err != nil {
		return fmt.Errorf("ledmatrix: flush %s to %s: %w", op, s.Info.Name, err)
	}
	if op == CmdVersion {
		s.state = StateAwaitingResponse
	}
	return nil
}

// ReadResponse waits up to timeout for the first reply byte, polling the
// port every 10ms, then drains whatever else is buffered up to max bytes.
// It does not know the reply length; callers must.
//
// On timeout it returns ErrTimeout and no data.
func (s *Session) ReadResponse(max int, timeout time.Duration) ([]byte, error) {
	if s.state == StateDisconnected {
		return nil, ErrClosed
	}
	if max < 1 {
		return nil, fmt.Errorf("ledmatrix: read size %d must be at least 1", max)
	}
	defer func() {
		if s.state == StateAwaitingResponse {
			s.state = StateConnected
		}
	}()

	if err := s.port.SetReadTimeout(pollInterval); err != nil {
		return nil, fmt.Errorf("ledmatrix: set read timeout on %s: %w", s.Info.Name, err)
	}

	buf := make([]byte, max)
	deadline := time.Now().Add(timeout)
	n := 0
	for n == 0 {
		m, err := s.port.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("ledmatrix: read from %s: %w", s.Info.Name, err)
		}
		n = m
		if n == 0 && !time.Now().Before(deadline) {
			return nil, ErrTimeout
		}
	}
	for n < max {
		m, err := s.port.Read(buf[n:])
		if err != nil {
			return nil, fmt.Errorf("ledmatrix: read from %s: %w", s.Info.Name, err)
		}
		if m == 0 {
			break
		}
		n += m
	}
	return buf[:n], nil
}

// FirmwareVersion queries the module's firmware version.
func (s *Session) FirmwareVersion() (Version, error) {
	if s.state == StateDisconnected {
		return Version{}, ErrClosed
	}
	// Drop stale bytes from an earlier reply that arrived after its timeout.
	if err := s.port.ResetInputBuffer(); err != nil {
		return Version{}, fmt.Errorf("ledmatrix: reset input of %s: %w", s.Info.Name, err)
	}
	if err := s.SendCommand(CmdVersion); err != nil {
		return Version{}, err
	}
	b, err := s.ReadResponse(versionMaxRead, versionTimeout)
	if err != nil {
		return Version{}, err
	}
	v, err := ParseVersion(b)
	if err != nil {
		return Version{}, err
	}
	s.Firmware = v
	return v, nil
}

// SetBrightness scales every LED of the module, 0 off to 255 full.
func (s *Session) SetBrightness(v uint8) error { return s.SendCommand(CmdBrightness, v) }

// Sleep blanks the module.
func (s *Session) Sleep() error { return s.SendCommand(CmdSleep, 1) }

// Wake brings the module out of sleep.
func (s *Session) Wake() error { return s.SendCommand(CmdSleep, 0) }

// Animate toggles the firmware's built-in scrolling.
func (s *Session) Animate(on bool) error {
	var v byte
	if on {
		v = 1
	}
	return s.SendCommand(CmdAnimate, v)
}

// Pattern shows one of the firmware's built-in patterns (Pattern* constants).
func (s *Session) Pattern(id byte) error { return s.SendCommand(CmdPattern, id) }

// Bootloader reboots the module into its bootloader. The session is
// unusable afterwards.
func (s *Session) Bootloader() error { return s.SendCommand(CmdBootloader) }

// Panic asks the firmware to panic, for testing its recovery.
func (s *Session) Panic() error { return s.SendCommand(CmdPanic) }

// DrawPattern shows an on/off image in a single command. There is no
// brightness control, but it is far less data than DrawMatrix.
func (s *Session) DrawPattern(p matrix.Pattern) error {
	enc := matrix.EncodePattern(p)
	return s.SendCommand(CmdDraw, enc[:]...)
}

// SetColumn stages the brightness of one column, indexed 0-8 from the
// left. Nothing changes on the LEDs until CommitColumns.
func (s *Session) SetColumn(col uint8, data [matrix.Height]uint8) error {
	params := make([]byte, 0, 1+matrix.Height)
	params = append(params, col)
	params = append(params, data[:]...)
	return s.SendCommand(CmdStageColumn, params...)
}

// CommitColumns latches every staged column onto the LEDs at once.
func (s *Session) CommitColumns() error { return s.SendCommand(CmdCommitColumns) }

// DrawMatrix stages all columns of g and commits them. If staging fails the
// commit is not sent, so the display keeps its previous frame.
func (s *Session) DrawMatrix(g matrix.Grid) error {
	cols := matrix.Transpose(g)
	for i, c := range cols {
		if err := s.SetColumn(uint8(i), c); err != nil {
			return err
		}
	}
	if err := s.CommitColumns(); err != nil {
		return err
	}
	log.Trace().Str("session", s.ID.String()).Msg("frame committed")
	return nil
}
