// Package ledmatrix talks to 9x34 LED matrix input modules over their USB
// serial port.
//
// Every command is framed as
//
//	[0x32 0xAC] [opcode] [parameters...]
//
// with no length prefix; each opcode has a fixed parameter layout known to
// both sides. Only the firmware version query produces a reply.
//
// Two draw paths exist. DrawPattern sends a 39 byte on/off bitmap in a
// single command. DrawMatrix sends the brightness of every LED as nine
// set-column commands followed by one commit, which latches all columns at
// once so a partially staged frame is never shown.
//
// A Session is not safe for concurrent use: the protocol has no request
// identifiers, so replies from interleaved commands cannot be told apart.
package ledmatrix
