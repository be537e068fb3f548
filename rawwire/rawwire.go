// Package rawwire drives the binary raw wire mode of a Hydrabus
// board over its serial interface.
package rawwire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"go.bug.st/serial"
)

var ErrNoPortFound = errors.New("didn't find any board answering the handshake")

var DefaultMode = &serial.Mode{
	BaudRate: 115200,
	Parity:   serial.NoParity,
	DataBits: 8,
	StopBits: serial.OneStopBit,
}

var DefaultTimeout = time.Second

const (
	handshakeRetries = 20
	handshakeProbe   = time.Millisecond * 50
)

// Port is the serial side of a Conn. serial.Port satisfies it.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Conn is a board held in raw wire mode. It is not safe for
// concurrent use.
type Conn struct {
	ReadTimeout time.Duration
	Verbose     bool

	port Port
	path string

	// Shadow nibbles for the aux pins, starting from the reset
	// defaults: everything input, everything low.
	auxValues byte
	auxDirs   byte
}

// Open opens the serial device at path and switches the board into
// raw wire mode. A nil mode selects DefaultMode.
func Open(path string, mode *serial.Mode) (*Conn, error) {
	if mode == nil {
		mode = DefaultMode
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}
	c, err := New(port, path)
	if err != nil {
		port.Close()
		return nil, err
	}
	return c, nil
}

// New switches an already opened port into raw wire mode. The port
// stays open when the mode entry fails, closing it is up to the
// caller.
func New(port Port, path string) (*Conn, error) {
	c := &Conn{
		ReadTimeout: DefaultTimeout,
		port:        port,
		path:        path,
		auxDirs:     0x0F,
	}
	if err := c.handshake(); err != nil {
		return nil, fmt.Errorf("entering binary mode: %w", err)
	}
	if err := c.enterRawWire(); err != nil {
		return nil, fmt.Errorf("entering raw wire mode: %w", err)
	}
	if err := c.command([]byte{CmdConfig | ConfigDefault}); err != nil {
		return nil, fmt.Errorf("configuring raw wire mode: %w", err)
	}
	return c, nil
}

// FindPort tries every available serial port until one completes the
// raw wire handshake. If mode is nil, DefaultMode is used.
func FindPort(mode *serial.Mode) (*Conn, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	if mode == nil {
		mode = DefaultMode
	}
	for _, v := range ports {
		port, err := serial.Open(v, mode)
		if err != nil {
			continue
		}
		log.Printf("trying \"%s\"...", v)
		c, err := New(port, v)
		if err == nil {
			log.Printf("connected to \"%s\"", v)
			return c, nil
		}
		port.Close()
	}
	return nil, ErrNoPortFound
}

// Path returns device name / path of the serial port.
func (c *Conn) Path() string {
	return c.path
}

// Close returns the board to its main binary mode, resets it, then
// closes the serial port.
func (c *Conn) Close() error {
	if err := c.leave(); err != nil {
		log.Printf("leaving binary mode on \"%s\": %s", c.path, err)
	}
	return c.port.Close()
}

// SetClock drives the clock line high or low.
func (c *Conn) SetClock(high bool) error {
	if high {
		return c.command([]byte{CmdClockHigh})
	}
	return c.command([]byte{CmdClockLow})
}

// SetData drives the data line high or low.
func (c *Conn) SetData(high bool) error {
	if high {
		return c.command([]byte{CmdDataHigh})
	}
	return c.command([]byte{CmdDataLow})
}

// SendBits clocks out the low count bits of value, count 1 to 8.
func (c *Conn) SendBits(value byte, count int) error {
	if count < 1 || count > 8 {
		return fmt.Errorf("bit count %d out of range", count)
	}
	return c.command([]byte{CmdBulkBits | byte(count-1), value})
}

// SendBytes clocks out p, in bulk chunks of up to 16 bytes.
func (c *Conn) SendBytes(p []byte) error {
	for len(p) > 0 {
		n := len(p)
		if n > BulkMax {
			n = BulkMax
		}
		cmd := make([]byte, 0, n+1)
		cmd = append(cmd, CmdBulkBytes|byte(n-1))
		cmd = append(cmd, p[:n]...)
		if err := c.command(cmd); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// PulseClock sends count clock ticks, in bulk chunks of up to 16.
func (c *Conn) PulseClock(count int) error {
	for count > 0 {
		n := count
		if n > BulkMax {
			n = BulkMax
		}
		if err := c.command([]byte{CmdBulkClocks | byte(n-1)}); err != nil {
			return err
		}
		count -= n
	}
	return nil
}

// ReadByte clocks in one byte from the data line.
func (c *Conn) ReadByte() (byte, error) {
	if err := c.writeFull([]byte{CmdReadByte}); err != nil {
		return 0, err
	}
	var b [1]byte
	if err := c.readFull(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBytes clocks in count bytes one at a time.
func (c *Conn) ReadBytes(count int) ([]byte, error) {
	p := make([]byte, 0, count)
	for i := 0; i < count; i++ {
		b, err := c.ReadByte()
		if err != nil {
			return p, err
		}
		p = append(p, b)
	}
	return p, nil
}

// ReadBit samples the data line without clocking.
func (c *Conn) ReadBit() (byte, error) {
	if err := c.writeFull([]byte{CmdReadBit}); err != nil {
		return 0, err
	}
	var b [1]byte
	if err := c.readFull(b[:]); err != nil {
		return 0, err
	}
	return b[0] & 1, nil
}

// SetAux drives one auxiliary pin high or low, preserving the others.
func (c *Conn) SetAux(pin int, high bool) error {
	if pin < 0 || pin > 3 {
		return fmt.Errorf("aux pin %d out of range", pin)
	}
	values := c.auxValues
	if high {
		values |= 1 << uint(pin)
	} else {
		values &^= 1 << uint(pin)
	}
	if err := c.command([]byte{CmdAuxWrite | values}); err != nil {
		return err
	}
	c.auxValues = values
	return nil
}

// SetAuxDirection switches one auxiliary pin between output (true)
// and input, preserving the others.
func (c *Conn) SetAuxDirection(pin int, output bool) error {
	if pin < 0 || pin > 3 {
		return fmt.Errorf("aux pin %d out of range", pin)
	}
	dirs := c.auxDirs
	if output {
		dirs &^= 1 << uint(pin)
	} else {
		dirs |= 1 << uint(pin)
	}
	if err := c.command([]byte{CmdAuxDirWrite | dirs}); err != nil {
		return err
	}
	c.auxDirs = dirs
	return nil
}

// AuxRead returns the state of the four auxiliary pins in the low
// nibble.
func (c *Conn) AuxRead() (byte, error) {
	if err := c.writeFull([]byte{CmdAuxRead}); err != nil {
		return 0, err
	}
	var b [1]byte
	if err := c.readFull(b[:]); err != nil {
		return 0, err
	}
	return b[0] & 0x0F, nil
}

// handshake pokes the board with zero bytes until it answers the main
// binary mode prompt. A board already sitting in binary mode answers
// the first poke.
func (c *Conn) handshake() error {
	if err := c.port.SetReadTimeout(handshakeProbe); err != nil {
		return err
	}
	var acc []byte
	for i := 0; i < handshakeRetries; i++ {
		if err := c.writeFull([]byte{CmdMainMode}); err != nil {
			return err
		}
		buf := make([]byte, 8)
		n, err := c.port.Read(buf)
		if err != nil {
			return err
		}
		acc = append(acc, buf[:n]...)
		if bytes.HasSuffix(acc, []byte(PromptMain)) {
			return c.port.ResetInputBuffer()
		}
	}
	return fmt.Errorf("no %q prompt after %d attempts", PromptMain, handshakeRetries)
}

// enterRawWire selects raw wire mode and waits for its prompt.
func (c *Conn) enterRawWire() error {
	if err := c.writeFull([]byte{CmdModeRawWire}); err != nil {
		return err
	}
	prompt := make([]byte, len(PromptRawWire))
	if err := c.readFull(prompt); err != nil {
		return err
	}
	if string(prompt) != PromptRawWire {
		return fmt.Errorf("unexpected prompt %q", prompt)
	}
	return nil
}

// leave steps back to the main binary mode, then resets the board.
func (c *Conn) leave() error {
	if err := c.writeFull([]byte{CmdMainMode}); err != nil {
		return err
	}
	prompt := make([]byte, len(PromptMain))
	if err := c.readFull(prompt); err != nil {
		return err
	}
	if string(prompt) != PromptMain {
		return fmt.Errorf("unexpected prompt %q", prompt)
	}
	return c.writeFull([]byte{CmdResetBoard})
}

// command sends p and checks the single byte acknowledgment.
func (c *Conn) command(p []byte) error {
	if err := c.writeFull(p); err != nil {
		return err
	}
	var ack [1]byte
	if err := c.readFull(ack[:]); err != nil {
		return err
	}
	if ack[0] != Ack {
		return fmt.Errorf("command %#02x refused (%#02x)", p[0], ack[0])
	}
	return nil
}

func (c *Conn) writeFull(p []byte) error {
	if c.Verbose {
		log.Printf("> % x", p)
	}
	n, err := c.port.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}

// readFull reads exactly len(p) bytes, failing on the first timeout.
func (c *Conn) readFull(p []byte) error {
	if err := c.port.SetReadTimeout(c.ReadTimeout); err != nil {
		return err
	}
	for off := 0; off < len(p); {
		n, err := c.port.Read(p[off:])
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("read timeout (%s)", c.ReadTimeout)
		}
		off += n
	}
	if c.Verbose {
		log.Printf("< % x", p)
	}
	return nil
}
