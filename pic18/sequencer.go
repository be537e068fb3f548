package pic18

// sendCommand clocks out a 4-bit command followed by its payload.
// A two-byte payload holds a 16-bit word high byte first, and is
// swapped here so the word travels low byte first like the target
// expects. A one-byte payload goes out as-is, an empty one sends
// nothing after the command bits.
func (p *PIC18) sendCommand(cmd byte, payload []byte) error {
	if err := p.wire.SendBits(cmd, 4); err != nil {
		return err
	}
	if len(payload)%2 == 0 {
		if len(payload) == 0 {
			return nil
		}
		return p.wire.SendBytes([]byte{payload[1], payload[0]})
	}
	return p.wire.SendBytes(payload[:1])
}

// core executes a core instruction on the target, given as its two
// encoded bytes.
func (p *PIC18) core(hi, lo byte) error {
	return p.sendCommand(CmdCoreInst, []byte{hi, lo})
}

func (p *PIC18) movlw(k byte) error { return p.core(opMovlw, k) }
func (p *PIC18) movwf(f byte) error { return p.core(opMovwf, f) }
func (p *PIC18) movf(f byte) error  { return p.core(opMovf, f) }

func (p *PIC18) bsf(f, bit byte) error { return p.core(opBsf|bit<<1, f) }
func (p *PIC18) bcf(f, bit byte) error { return p.core(opBcf|bit<<1, f) }

func (p *PIC18) nop(count int) error {
	for i := 0; i < count; i++ {
		if err := p.core(0x00, 0x00); err != nil {
			return err
		}
	}
	return nil
}

// loadReg moves an immediate into a file register through WREG.
func (p *PIC18) loadReg(reg, value byte) error {
	if err := p.movlw(value); err != nil {
		return err
	}
	return p.movwf(reg)
}

// setTablePointer loads TBLPTRU:TBLPTRH:TBLPTRL with a 22-bit address.
func (p *PIC18) setTablePointer(addr uint32) error {
	if err := p.loadReg(RegTBLPTRU, byte(addr>>16)); err != nil {
		return err
	}
	if err := p.loadReg(RegTBLPTRH, byte(addr>>8)); err != nil {
		return err
	}
	return p.loadReg(RegTBLPTRL, byte(addr))
}

// setEEPROMAddress loads EEADRH:EEADR with a data EEPROM address.
func (p *PIC18) setEEPROMAddress(addr uint16) error {
	if err := p.loadReg(RegEEADRH, byte(addr>>8)); err != nil {
		return err
	}
	return p.loadReg(RegEEADR, byte(addr))
}

// tableRead issues a read command, clocks eight dummy cycles for the
// payload byte, then clocks in the byte the target shifts out.
func (p *PIC18) tableRead(cmd byte) (byte, error) {
	if err := p.sendCommand(cmd, []byte{0x00}); err != nil {
		return 0, err
	}
	return p.wire.ReadByte()
}
