// mfp_gpio.go - MFP general purpose I/O port

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

// SetGPIOInput presents v on the eight GPIP pins. The chip only looks at the
// pins when it samples the port, so edges are detected on the next poll.
// Lines configured as outputs ignore the external level.
func (c *Chip) SetGPIOInput(v uint8) {
	c.gpioIn = v
}

// GPIOInput returns the level last presented with SetGPIOInput.
func (c *Chip) GPIOInput() uint8 {
	return c.gpioIn
}

// PollGPIO samples the port once. Every input line whose level moved away
// from the AER-selected active level to it raises that line's interrupt:
// AER=0 selects falling edges, AER=1 rising edges. The previous level is
// taken from GPIP, so rewriting AER alone never produces an edge.
func (c *Chip) PollGPIO() {
	inputs := ^c.ddr
	prev := (c.gpip ^ c.aer) & inputs
	next := (c.gpioIn ^ c.aer) & inputs
	fired := prev &^ next

	// TAI and TBI share the GPIO4 and GPIO3 channels with the port; in
	// pulse width mode those channels signal end of pulse instead.
	for t := TIMER_A; t <= TIMER_B; t++ {
		if c.timers[t].mode() == timerModePulse {
			fired = setBit(fired, timerInputLine[t], false)
		}
	}

	for line := uint(0); fired != 0; line++ {
		if fired&1 != 0 {
			c.Raise(gpioSources[line])
		}
		fired >>= 1
	}
	c.gpip = c.gpioIn&inputs | c.gpioOut&c.ddr
}

// GPIOOutput returns the levels the chip drives on its output lines.
func (c *Chip) GPIOOutput() uint8 {
	return c.gpioOut & c.ddr
}

// driveGPIO refreshes the output half of GPIP after a GPIP or DDR write and
// reports the driven lines.
func (c *Chip) driveGPIO() {
	c.gpip = c.gpip&^c.ddr | c.gpioOut&c.ddr
	if c.gpioSink != nil {
		c.gpioSink.GPIOOutput(c.gpioOut & c.ddr)
	}
}
