// line.go - Asynchronous serial line encoder and decoder

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

package serialhost

import (
	"errors"
	"fmt"

	"github.com/intuitionamiga/mc68901"
)

var (
	ErrParity      = errors.New("parity error")
	ErrFraming     = errors.New("framing error")
	ErrNotTerminal = errors.New("serialhost: not a terminal")
)

// DecodeError reports a character that arrived damaged.
type DecodeError struct {
	Byte uint8
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("serialhost: byte 0x%02X: %v", e.Byte, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encoder turns bytes into line levels, one per bit time.
type Encoder struct {
	Framing mc68901.Framing
}

// Bits returns the levels of one character: a 0 start bit, the data bits
// LSB first, the parity bit if enabled and the stop bits.
func (e Encoder) Bits(b uint8) []bool {
	return e.AppendBits(nil, b)
}

// AppendBits appends the levels of one character to dst.
func (e Encoder) AppendBits(dst []bool, b uint8) []bool {
	f := e.Framing
	dst = append(dst, false)
	for i := 0; i < f.DataBits; i++ {
		dst = append(dst, b>>i&1 != 0)
	}
	if f.Parity != mc68901.PARITY_NONE {
		dst = append(dst, f.ParityBit(b))
	}
	for i := 0; i < f.StopBitTimes(); i++ {
		dst = append(dst, true)
	}
	return dst
}

type decodeState uint8

const (
	decodeIdle decodeState = iota
	decodeData
	decodeParity
	decodeStop
)

// Decoder recovers bytes from line levels sampled once per bit time.
type Decoder struct {
	framing  mc68901.Framing
	state    decodeState
	shift    uint8
	bits     int
	parity   bool
	zeros    bool // no 1 seen since the start bit
	waitMark bool // line must return to 1 before the next start bit
}

func NewDecoder(f mc68901.Framing) *Decoder {
	return &Decoder{framing: f}
}

// Framing returns the format the decoder was built for.
func (d *Decoder) Framing() mc68901.Framing {
	return d.framing
}

// Feed consumes one bit time. It returns ok when a character completed
// cleanly and a *DecodeError when one completed with a parity or framing
// error. A break (all bits 0) is swallowed silently and the decoder then
// waits for the line to return to 1.
func (d *Decoder) Feed(level bool) (b uint8, ok bool, err error) {
	switch d.state {
	case decodeIdle:
		if d.waitMark {
			d.waitMark = !level
			return 0, false, nil
		}
		if !level {
			d.shift = 0
			d.bits = 0
			d.zeros = true
			d.state = decodeData
		}

	case decodeData:
		if level {
			d.shift |= 1 << d.bits
			d.zeros = false
		}
		d.bits++
		if d.bits == d.framing.DataBits {
			d.state = decodeStop
			if d.framing.Parity != mc68901.PARITY_NONE {
				d.state = decodeParity
			}
		}

	case decodeParity:
		d.parity = level
		if level {
			d.zeros = false
		}
		d.state = decodeStop

	case decodeStop:
		d.state = decodeIdle
		if !level {
			d.waitMark = true
			if d.zeros {
				return 0, false, nil
			}
			return 0, false, &DecodeError{Byte: d.shift, Err: ErrFraming}
		}
		if d.framing.Parity != mc68901.PARITY_NONE && d.parity != d.framing.ParityBit(d.shift) {
			return 0, false, &DecodeError{Byte: d.shift, Err: ErrParity}
		}
		return d.shift, true, nil
	}
	return 0, false, nil
}
