// mfp_usart_rx.go - MFP USART receiver

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

import "log/slog"

// receiveClock handles one RC pulse. In ÷16 mode the receiver hunts for 8
// consecutive low samples to find the middle of a start bit, then samples
// every 16th pulse.
func (c *Chip) receiveClock() {
	u := &c.usart
	if u.rsr&RSR_RE == 0 {
		return
	}
	level := u.si
	if u.loopback() {
		level = u.so
	}

	if u.framing.Divide16 {
		u.rxDiv++
		if u.rxState == serialStart {
			if level {
				u.rxDiv = 0
				return
			}
			if u.rxDiv < 8 {
				return
			}
		} else if u.rxDiv < 16 {
			return
		}
		u.rxDiv = 0
	}
	c.receiveBit(level)
}

func (c *Chip) receiveBit(level bool) {
	u := &c.usart
	switch u.rxState {
	case serialStart:
		if level {
			return
		}
		u.rsr |= RSR_CIP
		u.rxShift = 0
		u.rxBits = 0
		u.rxBreak = true
		u.rxState = serialData

	case serialData:
		u.rxShift = setBit(u.rxShift, uint(u.rxBits), level)
		if level {
			u.rxBreak = false
		}
		u.rxBits++
		if u.rxBits == u.framing.DataBits {
			u.rxState = serialStop
			if u.framing.Parity != PARITY_NONE {
				u.rxState = serialParity
			}
		}

	case serialParity:
		if level != u.framing.ParityBit(u.rxShift) {
			u.nextRSR |= RSR_PE
		}
		if level {
			u.rxBreak = false
		}
		u.rxState = serialStop

	case serialStop:
		c.receiveStop(level)
		u.rsr &^= RSR_CIP
		u.rxState = serialStart
	}
}

func (c *Chip) receiveStop(level bool) {
	u := &c.usart
	b := u.rxShift
	if !level {
		if b == 0 && u.rxBreak {
			u.nextRSR |= RSR_B
			c.debug("receive break")
			return
		}
		// The damaged word still goes to the buffer; FE commits with it
		u.nextRSR |= RSR_FE
		c.debug("receive framing error", hexAttr("data", b))
	}

	switch {
	case u.rsr&RSR_SS != 0 && b == u.scr:
		c.trace("sync character stripped", hexAttr("data", b))
	case u.rsr&RSR_BF != 0:
		u.nextRSR |= RSR_OE
		c.debug("receive overrun", hexAttr("data", b))
	default:
		u.udrRx = b
		u.rsr |= RSR_BF
		c.trace("receive", hexAttr("data", b))
		c.rxBufferFull()
	}
}

// readUDR returns the received byte and commits the staged error flags.
func (c *Chip) readUDR() uint8 {
	u := &c.usart
	u.rsr = u.rsr&^(RSR_BF|RSR_ERRORS) | u.nextRSR
	u.nextRSR = 0
	if u.rsr&RSR_ERRORS != 0 {
		c.rxError()
	}
	return u.udrRx
}

func (c *Chip) writeRSR(value uint8) {
	u := &c.usart
	wasEnabled := u.rsr&RSR_RE != 0
	u.rsr = u.rsr&^RSR_WRITE | value&RSR_WRITE
	if wasEnabled && u.rsr&RSR_RE == 0 {
		// Receiver off: drop the character in progress and everything staged
		u.rsr &^= RSR_BF | RSR_ERRORS | RSR_CIP
		u.nextRSR = 0
		u.rxState = serialStart
		u.rxBreak = false
		u.rxDiv = 0
		c.debug("receiver disabled")
	} else if !wasEnabled && u.rsr&RSR_RE != 0 {
		c.debug("receiver enabled", slog.String("format", u.framing.String()))
	}
}
