package ledmatrix

import "fmt"

// Opcode is a command byte.
type Opcode byte

const (
	CmdBrightness    Opcode = 0x00
	CmdPattern       Opcode = 0x01
	CmdBootloader    Opcode = 0x02
	CmdSleep         Opcode = 0x03
	CmdAnimate       Opcode = 0x04
	CmdPanic         Opcode = 0x05
	CmdDraw          Opcode = 0x06
	CmdStageColumn   Opcode = 0x07
	CmdCommitColumns Opcode = 0x08
	CmdVersion       Opcode = 0x20
)

var opcodeNames = map[Opcode]string{
	CmdBrightness:    "brightness",
	CmdPattern:       "pattern",
	CmdBootloader:    "bootloader",
	CmdSleep:         "sleep",
	CmdAnimate:       "animate",
	CmdPanic:         "panic",
	CmdDraw:          "draw",
	CmdStageColumn:   "stage-column",
	CmdCommitColumns: "commit-columns",
	CmdVersion:       "version",
}

func (o Opcode) String() string {
	if n, ok := opcodeNames[o]; ok {
		return n
	}
	return fmt.Sprintf("opcode(0x%02x)", byte(o))
}

// magic starts every command.
var magic = [2]byte{0x32, 0xAC}

// USB identity of the module.
const (
	VendorID  uint16 = 0x32AC // 12972
	ProductID uint16 = 0x0020 // 32
)

// Built-in patterns selectable with CmdPattern.
const (
	PatternPercentage byte = 0x00
	PatternGradient   byte = 0x01
	PatternDoubleGrad byte = 0x02
	PatternLotusH     byte = 0x03
	PatternZigzag     byte = 0x04
	PatternFullBright byte = 0x05
	PatternPanic      byte = 0x06
	PatternLotusV     byte = 0x07
)

// frame builds one command packet.
func frame(op Opcode, params ...byte) []byte {
	pkt := make([]byte, 0, len(magic)+1+len(params))
	pkt = append(pkt, magic[:]...)
	pkt = append(pkt, byte(op))
	return append(pkt, params...)
}
