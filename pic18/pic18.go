package pic18

import (
	"encoding/binary"
	"fmt"
	"time"
)

// DefaultProgramPulse is how long the clock is held high after a row
// of code memory is written, while the target commits the row.
const DefaultProgramPulse = time.Second

// PIC18 drives the in-circuit programming protocol of a PIC18 target
// over a 2-wire link. It is not safe for concurrent use, callers must
// serialize access to a target themselves.
type PIC18 struct {
	wire      Wire
	state     State
	pollLimit int
	pulse     time.Duration
	sleep     func(time.Duration)
}

// Option configures a PIC18 at construction.
type Option func(*PIC18)

// WithPollLimit bounds the number of status polls a write waits for
// completion before giving up with ErrPollTimeout. Zero polls forever.
func WithPollLimit(n int) Option {
	return func(p *PIC18) { p.pollLimit = n }
}

// WithProgramPulse overrides the duration of the row programming pulse.
func WithProgramPulse(d time.Duration) Option {
	return func(p *PIC18) { p.pulse = d }
}

// New returns a PIC18 talking over w. Both auxiliary pins are switched
// to outputs so /MCLR and PGM can be driven.
func New(w Wire, opts ...Option) (*PIC18, error) {
	p := &PIC18{
		wire:  w,
		pulse: DefaultProgramPulse,
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.wire.SetAuxDirection(AuxMCLR, true); err != nil {
		return nil, fmt.Errorf("configuring /MCLR pin: %w", err)
	}
	if err := p.wire.SetAuxDirection(AuxPGM, true); err != nil {
		return nil, fmt.Errorf("configuring PGM pin: %w", err)
	}
	return p, nil
}

// State reports whether the target is held in programming mode.
func (p *PIC18) State() State {
	return p.state
}

// Read returns length bytes of code memory starting at addr. The table
// pointer is loaded once and advances through post-increment reads.
func (p *PIC18) Read(addr uint32, length int) ([]byte, error) {
	if length <= 0 {
		return nil, ErrZeroLength
	}
	data := make([]byte, 0, length)
	err := p.withSession(func() error {
		if err := p.setTablePointer(addr); err != nil {
			return err
		}
		for i := 0; i < length; i++ {
			b, err := p.tableRead(CmdTableReadPostInc)
			if err != nil {
				return err
			}
			data = append(data, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ReadEEPROM returns length bytes of data EEPROM starting at addr. The
// address registers are reloaded for every byte.
func (p *PIC18) ReadEEPROM(addr uint16, length int) ([]byte, error) {
	if length <= 0 {
		return nil, ErrZeroLength
	}
	data := make([]byte, 0, length)
	err := p.withSession(func() error {
		if err := p.bcf(RegEECON1, BitEEPGD); err != nil {
			return err
		}
		if err := p.bcf(RegEECON1, BitCFGS); err != nil {
			return err
		}
		for i := 0; i < length; i++ {
			if err := p.setEEPROMAddress(addr + uint16(i)); err != nil {
				return err
			}
			if err := p.bsf(RegEECON1, BitRD); err != nil {
				return err
			}
			if err := p.movf(RegEEDATA); err != nil {
				return err
			}
			if err := p.movwf(RegTABLAT); err != nil {
				return err
			}
			if err := p.nop(2); err != nil {
				return err
			}
			b, err := p.wire.ReadByte()
			if err != nil {
				return err
			}
			data = append(data, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write programs data into code memory at addr, two bytes per table
// write. When erase is set the row is erased and the erase polled to
// completion before any data moves.
func (p *PIC18) Write(addr uint32, data []byte, erase bool) error {
	if len(data) < 2 {
		return ErrShortData
	}
	if len(data)%2 == 1 {
		return ErrOddData
	}
	return p.withSession(func() error {
		if err := p.bsf(RegEECON1, BitEEPGD); err != nil {
			return err
		}
		if err := p.bcf(RegEECON1, BitCFGS); err != nil {
			return err
		}
		if err := p.setTablePointer(addr); err != nil {
			return err
		}
		if err := p.bsf(RegEECON1, BitWREN); err != nil {
			return err
		}
		// FREE is asserted for plain writes too.
		if err := p.bsf(RegEECON1, BitFREE); err != nil {
			return err
		}
		if erase {
			if err := p.bsf(RegEECON1, BitFREE); err != nil {
				return err
			}
			if err := p.bsf(RegEECON1, BitWR); err != nil {
				return err
			}
			if err := p.nop(2); err != nil {
				return err
			}
			if err := p.waitWrite(); err != nil {
				return err
			}
		}
		for i := 0; i < len(data)-2; i += 2 {
			if err := p.sendCommand(CmdTableWritePostInc, []byte{data[i+1], data[i]}); err != nil {
				return err
			}
		}
		last := data[len(data)-2:]
		if err := p.sendCommand(CmdTableWritePgm, []byte{last[1], last[0]}); err != nil {
			return err
		}
		if err := p.programPulse(); err != nil {
			return err
		}
		return p.finishWrite()
	})
}

// WriteEEPROM programs data into the data EEPROM at addr, polling the
// write-in-progress flag after every byte.
func (p *PIC18) WriteEEPROM(addr uint16, data []byte) error {
	if len(data) < 2 {
		return ErrShortData
	}
	if len(data)%2 == 1 {
		return ErrOddData
	}
	return p.withSession(func() error {
		if err := p.bcf(RegEECON1, BitEEPGD); err != nil {
			return err
		}
		if err := p.bcf(RegEECON1, BitCFGS); err != nil {
			return err
		}
		if err := p.setEEPROMAddress(addr); err != nil {
			return err
		}
		if err := p.bsf(RegEECON1, BitWREN); err != nil {
			return err
		}
		for _, b := range data {
			if err := p.sendCommand(CmdTableWriteIncPgm, []byte{b}); err != nil {
				return err
			}
			if err := p.bsf(RegEECON1, BitWREN); err != nil {
				return err
			}
			if err := p.nop(2); err != nil {
				return err
			}
			if err := p.waitWrite(); err != nil {
				return err
			}
		}
		return p.finishWrite()
	})
}

// ErasePanel erases one panel of the chip. Each identifier byte is
// written to its panel selection register duplicated into both payload
// bytes, then two no-ops start the erase. No completion poll follows.
func (p *PIC18) ErasePanel(panel Panel) error {
	return p.withSession(func() error {
		if err := p.setTablePointer(AddrPanelSelHigh); err != nil {
			return err
		}
		if err := p.sendCommand(CmdTableWrite, []byte{panel[0], panel[0]}); err != nil {
			return err
		}
		if err := p.setTablePointer(AddrPanelSelLow); err != nil {
			return err
		}
		if err := p.sendCommand(CmdTableWrite, []byte{panel[1], panel[1]}); err != nil {
			return err
		}
		return p.nop(2)
	})
}

// ReadConfigWords returns the seven configuration words, read as
// little-endian byte pairs from the configuration space.
func (p *PIC18) ReadConfigWords() ([7]uint16, error) {
	var words [7]uint16
	raw, err := p.Read(AddrConfigWords, len(words)*2)
	if err != nil {
		return words, err
	}
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	return words, nil
}

// ReadLocationID returns the four ID location words. The table pointer
// is reloaded with the base address before every byte and the reads do
// not increment, so all eight raw bytes come from the base address.
func (p *PIC18) ReadLocationID() ([4]uint16, error) {
	var id [4]uint16
	raw := make([]byte, 0, len(id)*2)
	err := p.withSession(func() error {
		for i := 0; i < len(id)*2; i++ {
			if err := p.setTablePointer(AddrLocationID); err != nil {
				return err
			}
			b, err := p.tableRead(CmdTableRead)
			if err != nil {
				return err
			}
			raw = append(raw, b)
		}
		return nil
	})
	if err != nil {
		return id, err
	}
	for i := range id {
		id[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	return id, nil
}

// ReadDeviceID returns the two device ID bytes.
func (p *PIC18) ReadDeviceID() ([2]byte, error) {
	var id [2]byte
	raw, err := p.Read(AddrDeviceID, len(id))
	if err != nil {
		return id, err
	}
	copy(id[:], raw)
	return id, nil
}

// pollWrite reads EECON1 back through TABLAT and reports whether the
// write-in-progress bit is still set.
func (p *PIC18) pollWrite() (bool, error) {
	if err := p.movf(RegEECON1); err != nil {
		return false, err
	}
	if err := p.movwf(RegTABLAT); err != nil {
		return false, err
	}
	if err := p.nop(1); err != nil {
		return false, err
	}
	if err := p.sendCommand(CmdTablatOut, []byte{0x00}); err != nil {
		return false, err
	}
	b, err := p.wire.ReadByte()
	if err != nil {
		return false, err
	}
	return (b>>BitWR)&1 == 1, nil
}

// waitWrite polls until the running write completes. A zero poll limit
// waits forever.
func (p *PIC18) waitWrite() error {
	for i := 0; p.pollLimit == 0 || i < p.pollLimit; i++ {
		busy, err := p.pollWrite()
		if err != nil {
			return err
		}
		if !busy {
			return nil
		}
	}
	return ErrPollTimeout
}

// programPulse commits a written row: data low, three clock ticks,
// then clock held high for the programming pulse duration.
func (p *PIC18) programPulse() error {
	if err := p.wire.SetData(false); err != nil {
		return err
	}
	if err := p.wire.PulseClock(3); err != nil {
		return err
	}
	if err := p.wire.SetClock(true); err != nil {
		return err
	}
	p.sleep(p.pulse)
	return nil
}

// finishWrite drops the clock, settles the pipeline with two no-ops
// and clears the write-enable bit.
func (p *PIC18) finishWrite() error {
	if err := p.wire.SetClock(false); err != nil {
		return err
	}
	if err := p.nop(2); err != nil {
		return err
	}
	return p.bcf(RegEECON1, BitWREN)
}
