package pic18

// Auxiliary pin assignments on the adapter.
const (
	AuxMCLR = 0 // /MCLR, active low reset
	AuxPGM  = 1 // PGM, programming mode enable
)

// Wire is the low-level 2-wire interface the programmer drives.
// Bits and bytes travel LSB first.
type Wire interface {
	// SetClock drives the clock line high or low.
	SetClock(high bool) error
	// SetData drives the data line high or low.
	SetData(high bool) error
	// SetAux drives an auxiliary pin high or low.
	SetAux(pin int, high bool) error
	// SetAuxDirection switches an auxiliary pin between output and input.
	SetAuxDirection(pin int, output bool) error
	// SendBits clocks out the low count bits of value, LSB first.
	SendBits(value byte, count int) error
	// SendBytes clocks out p in order, each byte LSB first.
	SendBytes(p []byte) error
	// ReadByte clocks in one byte.
	ReadByte() (byte, error)
	// PulseClock sends count clock ticks with the data line unchanged.
	PulseClock(count int) error
}
