package pic18

// 4-bit programming commands, clocked out LSB first before each payload.
const (
	CmdCoreInst          byte = 0x00 // execute the core instruction in the payload
	CmdTablatOut         byte = 0x02 // shift out the TABLAT register
	CmdTableRead         byte = 0x08
	CmdTableReadPostInc  byte = 0x09
	CmdTableReadPostDec  byte = 0x0A
	CmdTableReadPreInc   byte = 0x0B
	CmdTableWrite        byte = 0x0C
	CmdTableWritePostInc byte = 0x0D // write two bytes, post-increment by 2
	CmdTableWriteIncPgm  byte = 0x0E // write two bytes, post-increment by 2, start programming
	CmdTableWritePgm     byte = 0x0F // write two bytes, start programming
)

// File registers used by the programming sequences, access bank addresses.
const (
	RegEECON1  byte = 0xA6
	RegEEDATA  byte = 0xA8
	RegEEADR   byte = 0xA9
	RegEEADRH  byte = 0xAA
	RegTABLAT  byte = 0xF5
	RegTBLPTRL byte = 0xF6
	RegTBLPTRH byte = 0xF7
	RegTBLPTRU byte = 0xF8
)

// EECON1 bit numbers.
const (
	BitRD    = 0 // read request
	BitWR    = 1 // write start / write in progress
	BitWREN  = 2 // write enable
	BitFREE  = 4 // row erase on next write
	BitCFGS  = 6 // configuration space select
	BitEEPGD = 7 // program memory (set) or data EEPROM (clear)
)

// Instruction high bytes emulated over the core-instruction command.
const (
	opMovlw byte = 0x0E // MOVLW k
	opMovwf byte = 0x6E // MOVWF f
	opMovf  byte = 0x50 // MOVF f, W
	opBsf   byte = 0x80 // BSF f, b with b in bits 3:1
	opBcf   byte = 0x90 // BCF f, b
)

// Well-known table pointer addresses.
const (
	AddrConfigWords  uint32 = 0x300000
	AddrLocationID   uint32 = 0x200000
	AddrDeviceID     uint32 = 0x3FFFFE
	AddrPanelSelHigh uint32 = 0x3C0005
	AddrPanelSelLow  uint32 = 0x3C0004
)

// Panel selects an erasable region of the chip. The two bytes are
// written verbatim to the panel selection registers.
type Panel [2]byte

var (
	PanelChip   = Panel{0x0F, 0x8F}
	PanelUserID = Panel{0x00, 0x88}
	PanelEEPROM = Panel{0x00, 0x84}
	PanelBoot   = Panel{0x00, 0x81}
	PanelConfig = Panel{0x00, 0x82}
	PanelBlock0 = Panel{0x01, 0x80}
	PanelBlock1 = Panel{0x02, 0x80}
	PanelBlock2 = Panel{0x04, 0x80}
	PanelBlock3 = Panel{0x08, 0x80}
)

// Panels maps symbolic names to panel select values.
var Panels = map[string]Panel{
	"chip":   PanelChip,
	"userid": PanelUserID,
	"eeprom": PanelEEPROM,
	"boot":   PanelBoot,
	"config": PanelConfig,
	"block0": PanelBlock0,
	"block1": PanelBlock1,
	"block2": PanelBlock2,
	"block3": PanelBlock3,
}
