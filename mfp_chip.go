// mfp_chip.go - MC68901 multi-function peripheral core

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
	"context"
	"log/slog"
)

/*
mfp_chip.go - MC68901 Multi-Function Peripheral

One Chip is one MFP: an 8-line GPIO port with edge interrupts, a 16-channel
vectored interrupt controller, four 8-bit timers and a USART. The chip is
driven entirely from outside:

    ReadRegister / WriteRegister   host CPU bus cycles
    Acknowledge                    host CPU interrupt acknowledge cycle
    Tick                           timer clock (XTAL1) cycles, also paces GPIO sampling
    SetGPIOInput / PollGPIO        external GPIO port level and sample strobe
    TimerInput                     TAI / TBI pin levels
    SetSerialInput / SerialClock   SI level and RC / TC clock pulses

Output pins are reported through the sinks in Config. Nothing here blocks
or spawns goroutines, and there is no locking: callers serialise every call
into a Chip.
*/

// Config selects the clock and the output sinks. The zero value is usable.
type Config struct {
	// ClockHz is the timer clock frequency, used only to convert counts to
	// durations. Zero selects MFP_CLOCK_ATARI_ST.
	ClockHz uint32

	// GPIOPollCycles is the number of Tick cycles between GPIO samples.
	// Zero selects MFP_GPIO_POLL_CYCLES; a negative value turns automatic
	// sampling off and leaves PollGPIO to the host.
	GPIOPollCycles int

	IRQ      IRQSink
	GPIO     GPIOSink
	TimerOut TimerOutputSink
	Serial   SerialSink

	Logger *slog.Logger
}

// Chip is the emulated MC68901.
type Chip struct {
	clockHz    uint32
	pollCycles int
	pollAcc    int

	irqSink    IRQSink
	gpioSink   GPIOSink
	timerSink  TimerOutputSink
	serialSink SerialSink

	logger       *slog.Logger
	traceEnabled bool

	// GPIO port
	gpioIn  uint8 // level presented on the pins by the outside world
	gpioOut uint8 // output latch
	gpip    uint8 // last sampled port value with output lines merged in
	aer     uint8
	ddr     uint8

	// Interrupt controller, bit N = Source N
	ier uint16
	ipr uint16
	isr uint16
	imr uint16
	vr  uint8
	irq bool

	timers [TIMER_COUNT]mfpTimer

	usart usart
}

// New returns a chip in its power-on state.
func New(cfg Config) *Chip {
	c := &Chip{
		clockHz:    cfg.ClockHz,
		pollCycles: cfg.GPIOPollCycles,
		irqSink:    cfg.IRQ,
		gpioSink:   cfg.GPIO,
		timerSink:  cfg.TimerOut,
		serialSink: cfg.Serial,
		logger:     cfg.Logger,
	}
	if c.clockHz == 0 {
		c.clockHz = MFP_CLOCK_ATARI_ST
	}
	if c.pollCycles == 0 {
		c.pollCycles = MFP_GPIO_POLL_CYCLES
	}
	c.traceEnabled = c.logger != nil && c.logger.Handler().Enabled(context.Background(), levelTrace)
	c.usart.si = true // SI idles at mark until the host drives it
	c.Reset()
	return c
}

// Reset restores the register file to its power-on values: everything zero
// except TSR, which reports an empty transmit buffer. Output pins are driven
// to their reset levels. The external GPIO and SI levels are not chip state
// and survive.
func (c *Chip) Reset() {
	c.gpioOut = 0
	c.aer = 0
	c.ddr = 0
	c.gpip = c.gpioIn
	c.pollAcc = 0

	c.ier = 0
	c.ipr = 0
	c.isr = 0
	c.imr = 0
	c.vr = 0

	for i := range c.timers {
		c.timers[i] = mfpTimer{}
	}
	c.usart.reset()

	c.updateIRQ()
	for t := TIMER_A; t < TIMER_COUNT; t++ {
		c.driveTimerOutput(t)
	}
	c.driveGPIO()
	c.driveSerial(c.idleLevel())
	c.info("reset")
}

// ReadRegister performs a CPU read of one register. Offsets outside the
// register file read as 0.
func (c *Chip) ReadRegister(offset int) uint8 {
	var v uint8
	switch offset {
	case MFP_GPIP:
		v = c.gpip
	case MFP_AER:
		v = c.aer
	case MFP_DDR:
		v = c.ddr
	case MFP_IERA:
		v = uint8(c.ier >> 8)
	case MFP_IERB:
		v = uint8(c.ier)
	case MFP_IPRA:
		v = uint8(c.ipr >> 8)
	case MFP_IPRB:
		v = uint8(c.ipr)
	case MFP_ISRA:
		v = uint8(c.isr >> 8)
	case MFP_ISRB:
		v = uint8(c.isr)
	case MFP_IMRA:
		v = uint8(c.imr >> 8)
	case MFP_IMRB:
		v = uint8(c.imr)
	case MFP_VR:
		v = c.vr
	case MFP_TACR:
		v = c.timers[TIMER_A].control
	case MFP_TBCR:
		v = c.timers[TIMER_B].control
	case MFP_TCDCR:
		v = c.timers[TIMER_C].control<<4 | c.timers[TIMER_D].control
	case MFP_TADR, MFP_TBDR, MFP_TCDR, MFP_TDDR:
		v = c.timers[offset-MFP_TADR].counter
	case MFP_SCR:
		v = c.usart.scr
	case MFP_UCR:
		v = c.usart.ucr
	case MFP_RSR:
		v = c.usart.rsr
	case MFP_TSR:
		v = c.readTSR()
	case MFP_UDR:
		v = c.readUDR()
	default:
		c.trace("register out of range", slog.Int("offset", offset))
		return 0
	}
	c.trace("read", regAttr(offset), hexAttr("value", v))
	return v
}

// WriteRegister performs a CPU write of one register. Offsets outside the
// register file are ignored.
func (c *Chip) WriteRegister(offset int, value uint8) {
	if offset < 0 || offset >= MFP_REG_COUNT {
		c.trace("register out of range", slog.Int("offset", offset))
		return
	}
	c.trace("write", regAttr(offset), hexAttr("value", value))

	switch offset {
	case MFP_GPIP:
		c.gpioOut = value
		c.driveGPIO()
	case MFP_AER:
		// Pulse width gates follow the new edge selection from the next tick
		c.aer = value
	case MFP_DDR:
		c.ddr = value
		c.driveGPIO()
	case MFP_IERA:
		c.setIER(uint16(value)<<8 | c.ier&0x00FF)
	case MFP_IERB:
		c.setIER(c.ier&0xFF00 | uint16(value))
	case MFP_IPRA:
		// Writing clears the bits that are 0 in the written value
		c.ipr &= uint16(value)<<8 | 0x00FF
		c.updateIRQ()
	case MFP_IPRB:
		c.ipr &= 0xFF00 | uint16(value)
		c.updateIRQ()
	case MFP_ISRA:
		c.isr &= uint16(value)<<8 | 0x00FF
	case MFP_ISRB:
		c.isr &= 0xFF00 | uint16(value)
	case MFP_IMRA:
		c.setIMR(uint16(value)<<8 | c.imr&0x00FF)
	case MFP_IMRB:
		c.setIMR(c.imr&0xFF00 | uint16(value))
	case MFP_VR:
		c.setVR(value)
	case MFP_TACR:
		c.writeTimerControl(TIMER_A, value)
	case MFP_TBCR:
		c.writeTimerControl(TIMER_B, value)
	case MFP_TCDCR:
		value &= TCDCR_WRITE
		c.writeTimerControl(TIMER_C, value>>4)
		c.writeTimerControl(TIMER_D, value&0x07)
	case MFP_TADR, MFP_TBDR, MFP_TCDR, MFP_TDDR:
		c.writeTimerData(Timer(offset-MFP_TADR), value)
	case MFP_SCR:
		c.usart.scr = value
	case MFP_UCR:
		c.writeUCR(value)
	case MFP_RSR:
		c.writeRSR(value)
	case MFP_TSR:
		c.writeTSR(value)
	case MFP_UDR:
		c.writeUDR(value)
	}
}

// Tick advances the timer clock by n cycles. Delay-mode timers and gated
// pulse-width timers count through their prescalers, and the GPIO port is
// sampled every GPIOPollCycles cycles.
func (c *Chip) Tick(n int) {
	if n <= 0 {
		return
	}
	for t := TIMER_A; t < TIMER_COUNT; t++ {
		c.tickTimer(t, uint32(n))
	}
	if c.pollCycles > 0 {
		c.pollAcc += n
		if c.pollAcc >= c.pollCycles {
			c.pollAcc %= c.pollCycles
			c.PollGPIO()
		}
	}
}

// ClockHz returns the configured timer clock frequency.
func (c *Chip) ClockHz() uint32 {
	return c.clockHz
}
