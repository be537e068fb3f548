// Package pic18 implements the host side of the PIC18 in-circuit
// serial programming protocol over a 2-wire adapter.
//
// The protocol is a 4-bit command followed by an optional payload,
// both clocked least significant bit first. Most operations are built
// from core instructions executed on the target, with the table
// pointer and the EEPROM address registers selecting the address
// space to touch.
//
// A minimal session reads back a few bytes of code memory:
//
//	conn, err := rawwire.Open("/dev/ttyACM0", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	pic, err := pic18.New(conn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, err := pic.Read(0x800, 4)
//
// Every public operation enters programming mode on the target, runs
// its sequence and releases the target again, even when a step fails
// partway through.
package pic18
