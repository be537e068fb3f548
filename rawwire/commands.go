package rawwire

// see the hydrafw binary mode guide

// Prompts sent by the board on mode changes. Commands that return no
// data answer with Ack instead.
const (
	PromptMain    = "BBIO1"
	PromptRawWire = "2W01"

	Ack byte = 0x01
)

const (
	CmdMainMode    byte = 0x00
	CmdModeRawWire byte = 0x05
	CmdReadByte    byte = 0x06
	CmdReadBit     byte = 0x07
	CmdResetBoard  byte = 0x0F
)

const (
	CmdClockLow byte = 0x0A + iota
	CmdClockHigh
	CmdDataLow
	CmdDataHigh
)

// Bulk commands carry a count in their low bits, encoded minus one.
const (
	CmdBulkBytes  byte = 0x10 // up to 16 payload bytes follow
	CmdBulkClocks byte = 0x20 // up to 16 clock ticks
	CmdBulkBits   byte = 0x30 // up to 8 bits from one payload byte

	BulkMax = 16
)

// Aux pin commands carry the whole 4-pin nibble in their low bits.
// A clear direction bit makes the pin an output.
const (
	CmdAuxRead     byte = 0xC0
	CmdAuxWrite    byte = 0xD0
	CmdAuxDirWrite byte = 0xF0
)

// CmdConfig applies the wire configuration in its low nibble.
const (
	CmdConfig     byte = 0x80
	ConfigDefault byte = 0x0A // 2-wire, push-pull outputs, LSB first
)
