package ledmatrix

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"periph.io/x/conn/v3/physic"
)

// BaudRate of the module's serial port.
const BaudRate = 115200 * physic.Hertz

// Directory finds attached modules.
type Directory struct {
	VendorID  uint16
	ProductID uint16
	Baud      physic.Frequency

	// List enumerates serial ports; Open opens one at a baud rate.
	List func() ([]*enumerator.PortDetails, error)
	Open func(name string, baud int) (Port, error)
}

// NewDirectory returns a Directory backed by the host's serial ports.
func NewDirectory() *Directory {
	return &Directory{
		VendorID:  VendorID,
		ProductID: ProductID,
		Baud:      BaudRate,
		List:      enumerator.GetDetailedPortsList,
		Open:      openSerial,
	}
}

func openSerial(name string, baud int) (Port, error) {
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func parseUSBID(s string) (uint16, bool) {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

// Candidates lists the USB serial ports matching the module's VID/PID.
func (d *Directory) Candidates() ([]PortInfo, error) {
	ports, err := d.List()
	if err != nil {
		return nil, fmt.Errorf("ledmatrix: list serial ports: %w", err)
	}
	var out []PortInfo
	for _, p := range ports {
		if p == nil || !p.IsUSB {
			continue
		}
		vid, okV := parseUSBID(p.VID)
		pid, okP := parseUSBID(p.PID)
		if !okV || !okP || vid != d.VendorID || pid != d.ProductID {
			continue
		}
		out = append(out, PortInfo{
			Name:         p.Name,
			VID:          vid,
			PID:          pid,
			SerialNumber: p.SerialNumber,
			Product:      p.Product,
		})
	}
	return out, nil
}

// Detect opens every matching module and logs its firmware version.
//
// An enumeration failure returns (nil, err). Zero modules returns
// (nil, nil). Ports that fail to open are logged and their errors are
// returned joined, next to the sessions that did open.
func (d *Directory) Detect() ([]*Session, error) {
	candidates, err := d.Candidates()
	if err != nil {
		return nil, err
	}

	baud := int(d.Baud / physic.Hertz)
	var sessions []*Session
	var openErrs []error
	for _, info := range candidates {
		port, err := d.Open(info.Name, baud)
		if err != nil {
			log.Error().Err(err).Str("port", info.Name).Msg("failed to open module")
			openErrs = append(openErrs, fmt.Errorf("ledmatrix: open %s: %w", info.Name, err))
			continue
		}
		s := NewSession(port, info)
		sessions = append(sessions, s)

		fw, err := s.FirmwareVersion()
		if err != nil {
			log.Warn().Err(err).Str("port", info.Name).Str("session", s.ID.String()).Msg("firmware version unavailable")
			continue
		}
		log.Info().Str("port", info.Name).Str("session", s.ID.String()).Stringer("fw", fw).Msg("module found")
	}
	return sessions, errors.Join(openErrs...)
}
