// mfp_usart_tx.go - MFP USART transmitter

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

// transmitClock handles one TC pulse. The bit machine steps once per bit
// time and every step leaves SO at the level for that bit.
func (c *Chip) transmitClock() {
	u := &c.usart
	if u.txWait > 1 {
		u.txWait--
		return
	}
	u.txWait = 1
	if u.framing.Divide16 {
		u.txWait = 16
	}

	if u.tsr&TSR_TE == 0 {
		if u.ending {
			c.endTransmission()
		}
		u.txWait = 0
		return
	}

	switch u.txState {
	case serialStart:
		c.transmitStart()

	case serialData:
		c.driveSerial(u.txShift&1 != 0)
		u.txShift >>= 1
		u.txBits++
		if u.txBits == u.framing.DataBits {
			u.txState = serialStop
			if u.framing.Parity != PARITY_NONE {
				u.txState = serialParity
			}
		}

	case serialParity:
		// The bit above the word carries the parity
		c.driveSerial(u.txShift&1 != 0)
		u.txState = serialStop

	case serialStop:
		c.driveSerial(true)
		u.txWait = u.framing.stopPulses()
		u.txState = serialStart
	}
}

func (c *Chip) transmitStart() {
	u := &c.usart
	if u.tsr&TSR_B != 0 {
		c.driveSerial(false)
		return
	}
	if u.tsr&TSR_BE != 0 {
		// Nothing written since the last load: hold the line at break
		if !u.underrun {
			u.underrun = true
			u.tsr |= TSR_UE
			c.debug("transmit underrun")
			c.txError()
		}
		c.driveSerial(false)
		return
	}

	data := u.udrTx & u.framing.dataMask()
	u.txShift = uint16(data) | uint16(boolBit(u.framing.ParityBit(data)))<<u.framing.DataBits
	u.txBits = 0
	u.tsr |= TSR_BE
	c.trace("transmit", hexAttr("data", data))
	c.txBufferEmpty()

	c.driveSerial(false)
	u.txState = serialData
}

// endTransmission completes a TE 1->0 transition: END is reported, SO goes
// to the idle level and, with auto turnaround, the receiver is enabled and
// the transmitter restarts.
func (c *Chip) endTransmission() {
	u := &c.usart
	u.ending = false
	u.tsr |= TSR_END
	c.driveSerial(u.idleLevel())
	c.debug("end of transmission")
	c.txError()

	if u.tsr&TSR_AT != 0 {
		u.tsr |= TSR_TE
		c.writeRSR(u.rsr | RSR_RE)
	}
}

// readTSR returns TSR; the underrun flag is cleared by the read.
func (c *Chip) readTSR() uint8 {
	v := c.usart.tsr
	c.usart.tsr &^= TSR_UE
	return v
}

func (c *Chip) writeTSR(value uint8) {
	u := &c.usart
	wasEnabled := u.tsr&TSR_TE != 0
	u.tsr = u.tsr&^TSR_WRITE | value&TSR_WRITE
	enabled := u.tsr&TSR_TE != 0

	switch {
	case wasEnabled && !enabled:
		// Abandon the character in progress
		u.txState = serialStart
		u.txWait = 0
		u.ending = true
	case !wasEnabled && enabled:
		u.tsr &^= TSR_END
		u.txState = serialStart
		u.txWait = 0
		u.ending = false
		c.debug("transmitter enabled", slog.String("format", u.framing.String()))
	case !enabled && !u.ending:
		c.driveSerial(u.idleLevel())
	}
}

// writeUDR refills the transmit buffer.
func (c *Chip) writeUDR(value uint8) {
	u := &c.usart
	u.udrTx = value
	u.tsr &^= TSR_BE
	u.underrun = false
}
