package pic18

import "fmt"

//go:generate stringer -type=State

// State tells whether the target is currently held in programming mode.
type State int

const (
	Idle State = iota
	Programming
)

// enterProg drives the low-voltage entry sequence: both wire lines low,
// then PGM high, then /MCLR high.
func (p *PIC18) enterProg() error {
	if err := p.wire.SetData(false); err != nil {
		return err
	}
	if err := p.wire.SetClock(false); err != nil {
		return err
	}
	if err := p.wire.SetAux(AuxPGM, true); err != nil {
		return err
	}
	if err := p.wire.SetAux(AuxMCLR, true); err != nil {
		return err
	}
	p.state = Programming
	return nil
}

// exitProg releases the target: both wire lines low, /MCLR low, PGM low.
// All four steps run even when one fails, the first failure is returned.
func (p *PIC18) exitProg() error {
	defer func() { p.state = Idle }()
	var first error
	step := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	step(p.wire.SetData(false))
	step(p.wire.SetClock(false))
	step(p.wire.SetAux(AuxMCLR, false))
	step(p.wire.SetAux(AuxPGM, false))
	return first
}

// withSession runs fn with the target in programming mode. The exit
// sequence runs no matter how fn returns, so a failed operation never
// leaves the chip held in reset with PGM asserted.
func (p *PIC18) withSession(fn func() error) error {
	if err := p.enterProg(); err != nil {
		p.exitProg()
		return fmt.Errorf("entering programming mode: %w", err)
	}
	opErr := fn()
	if err := p.exitProg(); err != nil && opErr == nil {
		return fmt.Errorf("leaving programming mode: %w", err)
	}
	return opErr
}
