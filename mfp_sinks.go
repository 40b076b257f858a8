// mfp_sinks.go - Output pin callbacks for the MFP

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

// The chip reports its output pins through these sinks. Every call happens
// synchronously inside the register access, tick or clock pulse that caused
// it; implementations must not call back into the chip.

// IRQSink observes the interrupt request line. It is called only when the
// line changes level.
type IRQSink interface {
	SetIRQ(asserted bool)
}

// GPIOSink observes the GPIP lines configured as outputs. The value carries
// the driven level of every DDR=1 line; input lines read as 0.
type GPIOSink interface {
	GPIOOutput(value uint8)
}

// TimerOutputSink observes the TAO/TBO/TCO/TDO pins.
type TimerOutputSink interface {
	TimerOutput(t Timer, level bool)
}

// SerialSink observes the SO pin. It is called once per transmitter bit
// time and whenever the idle level changes.
type SerialSink interface {
	SerialOutput(level bool)
}

// IRQFunc adapts a function to IRQSink.
type IRQFunc func(asserted bool)

func (f IRQFunc) SetIRQ(asserted bool) { f(asserted) }

// GPIOFunc adapts a function to GPIOSink.
type GPIOFunc func(value uint8)

func (f GPIOFunc) GPIOOutput(value uint8) { f(value) }

// TimerOutputFunc adapts a function to TimerOutputSink.
type TimerOutputFunc func(t Timer, level bool)

func (f TimerOutputFunc) TimerOutput(t Timer, level bool) { f(t, level) }

// SerialFunc adapts a function to SerialSink.
type SerialFunc func(level bool)

func (f SerialFunc) SerialOutput(level bool) { f(level) }
