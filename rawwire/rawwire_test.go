package rawwire

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// fakePort serves one scripted response per Read call and records
// everything written. An exhausted script reads like a timeout.
type fakePort struct {
	wr        bytes.Buffer
	responses [][]byte
	resets    int
	closed    bool
}

func (f *fakePort) Read(p []byte) (int, error) {
	if len(f.responses) == 0 {
		return 0, nil
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return copy(p, r), nil
}

func (f *fakePort) Write(p []byte) (int, error) {
	return f.wr.Write(p)
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func (f *fakePort) SetReadTimeout(t time.Duration) error { return nil }

func (f *fakePort) ResetInputBuffer() error {
	f.resets++
	return nil
}

func openResponses(extra ...[]byte) [][]byte {
	return append([][]byte{
		[]byte(PromptMain),
		[]byte(PromptRawWire),
		{Ack},
	}, extra...)
}

// testConn opens a Conn on a fresh fake port with the mode entry
// already scripted, and clears the recorded entry bytes.
func testConn(t *testing.T, extra ...[]byte) (*Conn, *fakePort) {
	t.Helper()
	f := &fakePort{responses: openResponses(extra...)}
	c, err := New(f, "fake")
	if err != nil {
		t.Fatal(err)
	}
	f.wr.Reset()
	return c, f
}

func expectWritten(t *testing.T, f *fakePort, want []byte) {
	t.Helper()
	if !bytes.Equal(f.wr.Bytes(), want) {
		t.Errorf("wrote % x, want % x", f.wr.Bytes(), want)
	}
}

func TestNewEntersRawWire(t *testing.T) {
	f := &fakePort{responses: openResponses()}
	if _, err := New(f, "fake"); err != nil {
		t.Fatal(err)
	}
	expectWritten(t, f, []byte{0x00, 0x05, 0x8A})
	if f.resets != 1 {
		t.Errorf("input buffer reset %d times, want 1", f.resets)
	}
}

func TestHandshakeRepokes(t *testing.T) {
	f := &fakePort{responses: append([][]byte{{}, {}}, openResponses()...)}
	if _, err := New(f, "fake"); err != nil {
		t.Fatal(err)
	}
	expectWritten(t, f, []byte{0x00, 0x00, 0x00, 0x05, 0x8A})
}

func TestHandshakeSplitPrompt(t *testing.T) {
	f := &fakePort{responses: [][]byte{
		[]byte("BBI"),
		[]byte("O1"),
		[]byte(PromptRawWire),
		{Ack},
	}}
	if _, err := New(f, "fake"); err != nil {
		t.Fatal(err)
	}
	expectWritten(t, f, []byte{0x00, 0x00, 0x05, 0x8A})
}

func TestHandshakeGivesUp(t *testing.T) {
	f := &fakePort{}
	_, err := New(f, "fake")
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if f.wr.Len() != handshakeRetries {
		t.Errorf("%d pokes sent, want %d", f.wr.Len(), handshakeRetries)
	}
	for _, b := range f.wr.Bytes() {
		if b != 0x00 {
			t.Fatalf("non-zero poke in % x", f.wr.Bytes())
		}
	}
}

func TestWrongModePrompt(t *testing.T) {
	f := &fakePort{responses: [][]byte{
		[]byte(PromptMain),
		[]byte("SPI1"),
	}}
	_, err := New(f, "fake")
	if err == nil || !strings.Contains(err.Error(), "SPI1") {
		t.Fatalf("got %v, want unexpected prompt error", err)
	}
}

func TestClockAndData(t *testing.T) {
	c, f := testConn(t, []byte{Ack}, []byte{Ack}, []byte{Ack}, []byte{Ack})
	for _, step := range []func() error{
		func() error { return c.SetClock(true) },
		func() error { return c.SetClock(false) },
		func() error { return c.SetData(true) },
		func() error { return c.SetData(false) },
	} {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}
	expectWritten(t, f, []byte{0x0B, 0x0A, 0x0D, 0x0C})
}

func TestSendBits(t *testing.T) {
	c, f := testConn(t, []byte{Ack})
	if err := c.SendBits(0x0D, 4); err != nil {
		t.Fatal(err)
	}
	expectWritten(t, f, []byte{0x33, 0x0D})

	for _, count := range []int{0, 9} {
		if err := c.SendBits(0x00, count); err == nil {
			t.Errorf("bit count %d accepted", count)
		}
	}
}

func TestSendBytesChunking(t *testing.T) {
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}
	c, f := testConn(t, []byte{Ack}, []byte{Ack})
	if err := c.SendBytes(data); err != nil {
		t.Fatal(err)
	}
	want := append([]byte{0x1F}, data[:16]...)
	want = append(want, 0x13)
	want = append(want, data[16:]...)
	expectWritten(t, f, want)
}

func TestPulseClockChunking(t *testing.T) {
	c, f := testConn(t, []byte{Ack}, []byte{Ack})
	if err := c.PulseClock(20); err != nil {
		t.Fatal(err)
	}
	expectWritten(t, f, []byte{0x2F, 0x23})
}

func TestReadByte(t *testing.T) {
	c, f := testConn(t, []byte{0xAB})
	b, err := c.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0xAB {
		t.Errorf("read %#02x, want 0xab", b)
	}
	expectWritten(t, f, []byte{0x06})
}

func TestReadBytes(t *testing.T) {
	c, f := testConn(t, []byte{0x01}, []byte{0x02}, []byte{0x03})
	p, err := c.ReadBytes(3)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("read % x", p)
	}
	// one read command per byte
	expectWritten(t, f, []byte{0x06, 0x06, 0x06})
}

func TestReadBit(t *testing.T) {
	c, f := testConn(t, []byte{0xFF})
	b, err := c.ReadBit()
	if err != nil {
		t.Fatal(err)
	}
	if b != 1 {
		t.Errorf("read bit %d, want 1", b)
	}
	expectWritten(t, f, []byte{0x07})
}

func TestAuxRead(t *testing.T) {
	c, f := testConn(t, []byte{0xA5})
	b, err := c.AuxRead()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0x05 {
		t.Errorf("aux nibble %#02x, want 0x05", b)
	}
	expectWritten(t, f, []byte{0xC0})
}

func TestSetAuxShadow(t *testing.T) {
	c, f := testConn(t, []byte{Ack}, []byte{Ack}, []byte{Ack})
	steps := []struct {
		pin  int
		high bool
	}{
		{1, true},
		{0, true},
		{1, false},
	}
	for _, s := range steps {
		if err := c.SetAux(s.pin, s.high); err != nil {
			t.Fatal(err)
		}
	}
	expectWritten(t, f, []byte{0xD2, 0xD3, 0xD1})
}

func TestSetAuxDirectionShadow(t *testing.T) {
	c, f := testConn(t, []byte{Ack}, []byte{Ack})
	if err := c.SetAuxDirection(0, true); err != nil {
		t.Fatal(err)
	}
	if err := c.SetAuxDirection(1, true); err != nil {
		t.Fatal(err)
	}
	expectWritten(t, f, []byte{0xFE, 0xFC})
}

func TestCommandRefused(t *testing.T) {
	c, _ := testConn(t, []byte{0x00})
	err := c.SetClock(true)
	if err == nil || !strings.Contains(err.Error(), "refused") {
		t.Fatalf("got %v, want refused command error", err)
	}
}

func TestClose(t *testing.T) {
	c, f := testConn(t, []byte(PromptMain))
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	expectWritten(t, f, []byte{0x00, 0x0F})
	if !f.closed {
		t.Error("serial port left open")
	}
}

func TestCloseAlwaysClosesPort(t *testing.T) {
	c, f := testConn(t)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if !f.closed {
		t.Error("serial port left open after failed mode exit")
	}
}
