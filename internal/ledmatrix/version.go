package ledmatrix

import (
	"errors"
	"fmt"
)

// ErrShortReply is returned when a reply is shorter than its fixed size.
var ErrShortReply = errors.New("ledmatrix: short reply")

// Version is the firmware version reported by a module.
type Version struct {
	Major      uint8
	Minor      uint8
	Patch      uint8
	PreRelease bool
}

// ParseVersion decodes the 3 byte version reply:
// [major, minor<<4 | patch, pre-release flag].
func ParseVersion(b []byte) (Version, error) {
	if len(b) < 3 {
		return Version{}, fmt.Errorf("%w: version needs 3 bytes, got %d", ErrShortReply, len(b))
	}
	return Version{
		Major:      b[0],
		Minor:      b[1] >> 4,
		Patch:      b[1] & 0x0F,
		PreRelease: b[2] == 1,
	}, nil
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.PreRelease {
		s += "-pre"
	}
	return s
}
