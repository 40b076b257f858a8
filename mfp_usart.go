// mfp_usart.go - MFP USART framing and pins

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
Buy me a coffee: https://ko-fi.com/intuition/tip

License: GPLv3 or later
*/

package mc68901

import (
	"fmt"
	"log/slog"
	"math/bits"
)

// Direction selects the receive (RC) or transmit (TC) clock input.
type Direction uint8

const (
	Receive Direction = iota
	Transmit
)

func (d Direction) String() string {
	if d == Transmit {
		return "tx"
	}
	return "rx"
}

// Parity is the parity setting of a Framing.
type Parity uint8

const (
	PARITY_NONE Parity = iota
	PARITY_ODD
	PARITY_EVEN
)

// StopBits is the start/stop format of a Framing.
type StopBits uint8

const (
	STOP_SYNC StopBits = iota // synchronous, no start/stop bits on the real chip
	STOP_1
	STOP_1_5
	STOP_2
)

// Framing is the character format selected by UCR.
type Framing struct {
	DataBits int // 5-8
	Parity   Parity
	Stop     StopBits
	Divide16 bool // each bit time is 16 clock pulses
}

// FramingFromUCR decodes a USART control register value.
func FramingFromUCR(ucr uint8) Framing {
	f := Framing{
		DataBits: 8 - int(ucr&UCR_WL)>>5,
		Stop:     StopBits(ucr&UCR_ST) >> 3,
		Divide16: ucr&UCR_CLK != 0,
	}
	switch {
	case ucr&UCR_PE == 0:
		f.Parity = PARITY_NONE
	case ucr&UCR_EVEN != 0:
		f.Parity = PARITY_EVEN
	default:
		f.Parity = PARITY_ODD
	}
	return f
}

// UCR encodes the framing as a USART control register value.
func (f Framing) UCR() uint8 {
	v := uint8(8-f.DataBits)<<5&UCR_WL | uint8(f.Stop)<<3&UCR_ST
	switch f.Parity {
	case PARITY_ODD:
		v |= UCR_PE
	case PARITY_EVEN:
		v |= UCR_PE | UCR_EVEN
	}
	if f.Divide16 {
		v |= UCR_CLK
	}
	return v
}

// ParityBit returns the parity bit transmitted after data, or false when
// parity is off.
func (f Framing) ParityBit(data uint8) bool {
	if f.Parity == PARITY_NONE {
		return false
	}
	odd := bits.OnesCount8(data&f.dataMask())&1 != 0
	return odd != (f.Parity == PARITY_ODD)
}

// StopBitTimes returns the number of whole bit times of stop level. 1.5
// stop bits need the ÷16 clock to be exact and round up to 2 otherwise;
// synchronous format is treated as 1 stop bit.
func (f Framing) StopBitTimes() int {
	switch f.Stop {
	case STOP_1_5, STOP_2:
		return 2
	}
	return 1
}

// stopPulses is the length of the stop level in clock pulses.
func (f Framing) stopPulses() int {
	if !f.Divide16 {
		return f.StopBitTimes()
	}
	switch f.Stop {
	case STOP_1_5:
		return 24
	case STOP_2:
		return 32
	}
	return 16
}

func (f Framing) dataMask() uint8 {
	return uint8(1<<f.DataBits - 1)
}

func (f Framing) String() string {
	p := "N"
	switch f.Parity {
	case PARITY_ODD:
		p = "O"
	case PARITY_EVEN:
		p = "E"
	}
	s := [...]string{"S", "1", "1.5", "2"}[f.Stop]
	if f.Divide16 {
		return fmt.Sprintf("%d%s%s/16", f.DataBits, p, s)
	}
	return fmt.Sprintf("%d%s%s", f.DataBits, p, s)
}

type serialState uint8

const (
	serialStart serialState = iota
	serialData
	serialParity
	serialStop
)

// usart holds the register file and both bit machines.
type usart struct {
	scr uint8
	ucr uint8
	rsr uint8
	tsr uint8

	framing Framing // decoded from ucr on every write

	// Receiver
	si      bool // external SI level
	udrRx   uint8
	nextRSR uint8 // error flags committed on the next UDR read
	rxState serialState
	rxShift uint8
	rxBits  int
	rxBreak bool // every bit of the current character was 0
	rxDiv   int

	// Transmitter
	so       bool // level driven by the transmitter (before the SO loopback override)
	udrTx    uint8
	txState  serialState
	txShift  uint16 // data with the parity bit above the word
	txBits   int
	txWait   int  // clock pulses left in the current bit time
	underrun bool // UE already reported for the current empty-buffer episode
	ending   bool // TE was cleared, END pending on the next pulse
}

func (u *usart) reset() {
	si := u.si
	*u = usart{si: si, tsr: TSR_BE}
	u.framing = FramingFromUCR(0)
	u.so = u.idleLevel()
}

func (u *usart) loopback() bool {
	return u.tsr&TSR_HL == TSR_HL_LOOP
}

// idleLevel is the SO level of a disabled transmitter. Hi-Z reads as the
// pulled-up mark level.
func (u *usart) idleLevel() bool {
	return u.tsr&TSR_HL != TSR_HL_LOW
}

func (c *Chip) idleLevel() bool {
	return c.usart.idleLevel()
}

// SetSerialInput latches the SI pin level, sampled on the next RC pulse.
func (c *Chip) SetSerialInput(level bool) {
	c.usart.si = level
}

// SerialInput returns the SI level last set with SetSerialInput.
func (c *Chip) SerialInput() bool {
	return c.usart.si
}

// TxLevel returns the SO pin level. In loopback the pin idles high while
// the transmitter feeds the receiver internally.
func (c *Chip) TxLevel() bool {
	if c.usart.loopback() {
		return true
	}
	return c.usart.so
}

// Framing returns the character format currently selected by UCR.
func (c *Chip) Framing() Framing {
	return c.usart.framing
}

// SerialClock delivers one pulse on the receive or transmit clock input.
func (c *Chip) SerialClock(dir Direction) {
	if dir == Transmit {
		c.transmitClock()
		return
	}
	c.receiveClock()
}

func (c *Chip) writeUCR(value uint8) {
	c.usart.ucr = value & UCR_WRITE
	c.usart.framing = FramingFromUCR(c.usart.ucr)
	c.debug("usart framing", slog.String("format", c.usart.framing.String()))
}

func (c *Chip) driveSerial(level bool) {
	c.usart.so = level
	if c.serialSink != nil {
		c.serialSink.SerialOutput(c.TxLevel())
	}
}
