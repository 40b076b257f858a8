// mfp_interrupts.go - MFP interrupt controller

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

// Raise latches an interrupt request from source. The pending bit is only
// set while the channel is enabled in IER; a disabled channel drops the
// event entirely.
func (c *Chip) Raise(source Source) {
	if source >= SOURCE_COUNT || c.ier&source.mask() == 0 {
		return
	}
	c.ipr |= source.mask()
	c.updateIRQ()
}

// Acknowledge runs the interrupt acknowledge cycle: the highest priority
// channel that is both pending and unmasked is taken, its pending bit is
// cleared and, in software end-of-interrupt mode, its in-service bit is set.
// The returned vector is the VR base in the upper nibble and the channel
// number in the lower one.
//
// When no channel qualifies the chip does not respond; Acknowledge returns
// VECTOR_SPURIOUS and ok == false so the caller can run its spurious
// interrupt path.
func (c *Chip) Acknowledge() (vector uint8, ok bool) {
	active := c.ipr & c.imr
	for ch := Source(SOURCE_COUNT - 1); ; ch-- {
		if active&ch.mask() != 0 {
			if c.vr&VR_S != 0 {
				c.isr |= ch.mask()
			}
			c.ipr &^= ch.mask()
			c.updateIRQ()
			vector = c.vr&VR_BASE_MASK | uint8(ch)
			c.trace("acknowledge", slog.String("source", ch.String()), hexAttr("vector", vector))
			return vector, true
		}
		if ch == 0 {
			break
		}
	}
	c.debug("spurious acknowledge")
	return VECTOR_SPURIOUS, false
}

// IRQ reports the interrupt request output.
func (c *Chip) IRQ() bool {
	return c.irq
}

// Enabled, Pending, InService and Mask return the 16-bit interrupt
// registers with channel N in bit N.
func (c *Chip) Enabled() uint16   { return c.ier }
func (c *Chip) Pending() uint16   { return c.ipr }
func (c *Chip) InService() uint16 { return c.isr }
func (c *Chip) Mask() uint16      { return c.imr }

// setIER discards pending requests of every channel that ends up disabled.
func (c *Chip) setIER(v uint16) {
	c.ier = v
	c.ipr &= v
	c.updateIRQ()
}

// setIMR drops the in-service state of every channel that ends up masked.
func (c *Chip) setIMR(v uint16) {
	c.imr = v
	c.isr &= v
	c.updateIRQ()
}

func (c *Chip) setVR(v uint8) {
	prev := c.vr
	c.vr = v & VR_WRITE
	if c.vr&VR_S == 0 {
		c.isr = 0
	}
	if (prev^c.vr)&VR_S != 0 {
		mode := "auto"
		if c.vr&VR_S != 0 {
			mode = "software"
		}
		c.debug("end-of-interrupt mode", slog.String("mode", mode))
	}
}

func (c *Chip) updateIRQ() {
	irq := c.ipr&c.imr != 0
	if irq == c.irq {
		return
	}
	c.irq = irq
	if c.irqSink != nil {
		c.irqSink.SetIRQ(irq)
	}
}

// The USART channels come in pairs. When the error channel is disabled its
// events are delivered on the matching data channel instead.

func (c *Chip) rxBufferFull() {
	c.Raise(SRC_RX_FULL)
}

func (c *Chip) rxError() {
	if c.ier&SRC_RX_ERROR.mask() != 0 {
		c.Raise(SRC_RX_ERROR)
		return
	}
	c.rxBufferFull()
}

func (c *Chip) txBufferEmpty() {
	c.Raise(SRC_TX_EMPTY)
}

func (c *Chip) txError() {
	if c.ier&SRC_TX_ERROR.mask() != 0 {
		c.Raise(SRC_TX_ERROR)
		return
	}
	c.txBufferEmpty()
}
