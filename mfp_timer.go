// mfp_timer.go - MFP timers A to D

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
	"log/slog"
	"time"
)

// Timer selects one of the four counter/timers.
type Timer uint8

const (
	TIMER_A Timer = iota
	TIMER_B
	TIMER_C
	TIMER_D

	TIMER_COUNT
)

func (t Timer) String() string {
	if t < TIMER_COUNT {
		return string(rune('A' + t))
	}
	return "invalid"
}

var timerSources = [TIMER_COUNT]Source{SRC_TIMER_A, SRC_TIMER_B, SRC_TIMER_C, SRC_TIMER_D}

// timerInputLine is the AER bit (and GPIO channel) paired with TAI and TBI.
var timerInputLine = [2]uint{4, 3}

type timerMode uint8

const (
	timerModeStopped timerMode = iota
	timerModeDelay
	timerModeEvent
	timerModePulse
)

var timerModeNames = [...]string{"stopped", "delay", "event", "pulse"}

func (m timerMode) String() string {
	return timerModeNames[m]
}

// mfpTimer represents one MFP timer
type mfpTimer struct {
	control  uint8  // Control register (mode nibble, reset bit not stored)
	data     uint8  // Data register (reload value)
	counter  uint8  // Main counter, 0 counts as 256
	cycleAcc uint32 // Clock cycles accumulated towards the next prescaler output
	input    bool   // TAI/TBI level
	output   bool   // TxO level
	loaded   bool   // Main counter has been loaded since reset
}

func (tm *mfpTimer) mode() timerMode {
	switch {
	case tm.control == TCR_STOPPED:
		return timerModeStopped
	case tm.control < TCR_EVENT:
		return timerModeDelay
	case tm.control == TCR_EVENT:
		return timerModeEvent
	}
	return timerModePulse
}

// prescale returns the clock divisor, or 0 when the prescaler is not used.
func (tm *mfpTimer) prescale() uint32 {
	switch tm.mode() {
	case timerModeDelay, timerModePulse:
		return mfpPrescaler[tm.control&0x07]
	}
	return 0
}

func (c *Chip) writeTimerControl(t Timer, value uint8) {
	tm := &c.timers[t]
	if control := value & TCR_MODE_MASK; control != tm.control {
		tm.control = control
		tm.cycleAcc = 0
		c.debug("timer mode",
			slog.String("timer", t.String()),
			slog.String("mode", tm.mode().String()),
			slog.Uint64("prescale", uint64(tm.prescale())))
	}
	if value&TCR_RESET != 0 && t <= TIMER_B {
		tm.output = false
		c.driveTimerOutput(t)
	}
}

// writeTimerData loads the reload value. A stopped timer, or one whose
// counter was never loaded, takes the value into its main counter at once;
// a running timer picks it up at the next reload.
func (c *Chip) writeTimerData(t Timer, value uint8) {
	tm := &c.timers[t]
	tm.data = value
	if tm.mode() == timerModeStopped || !tm.loaded {
		tm.counter = value
		tm.loaded = true
	}
}

// tickTimer advances one timer by a number of clock cycles.
func (c *Chip) tickTimer(t Timer, cycles uint32) {
	tm := &c.timers[t]
	prescale := tm.prescale()
	if prescale == 0 {
		return // Timer stopped or counting events
	}
	if tm.mode() == timerModePulse && !c.timerGate(t) {
		return
	}
	tm.cycleAcc += cycles
	for tm.cycleAcc >= prescale {
		tm.cycleAcc -= prescale
		c.timerCount(t)
	}
}

// timerCount applies one count pulse. The counter reloads instead of
// passing 1, which toggles the output and requests the timer interrupt.
func (c *Chip) timerCount(t Timer) {
	tm := &c.timers[t]
	if tm.counter != 1 {
		tm.counter--
		return
	}
	tm.counter = tm.data
	tm.loaded = true
	tm.output = !tm.output
	c.driveTimerOutput(t)
	c.Raise(timerSources[t])
}

// timerGate reports whether a pulse width timer is counting: its input pin
// sits at the AER-selected level.
func (c *Chip) timerGate(t Timer) bool {
	active := bit(c.aer, timerInputLine[t]) != 0
	return c.timers[t].input == active
}

// TimerInput sets the level of TAI (TIMER_A) or TBI (TIMER_B). In event
// count mode the transition to the AER-selected level counts once; in pulse
// width mode the level gates the prescaler and the transition away from it
// ends the pulse, requesting the GPIO4 (TAI) or GPIO3 (TBI) interrupt.
// Timers C and D have no input pin.
func (c *Chip) TimerInput(t Timer, level bool) {
	if t > TIMER_B {
		return
	}
	tm := &c.timers[t]
	if tm.input == level {
		return
	}
	tm.input = level
	active := bit(c.aer, timerInputLine[t]) != 0

	switch tm.mode() {
	case timerModeEvent:
		if level == active {
			c.timerCount(t)
		}
	case timerModePulse:
		if level != active {
			c.Raise(gpioSources[timerInputLine[t]])
		}
	}
}

// TimerOutput returns the level of a timer output pin.
func (c *Chip) TimerOutput(t Timer) bool {
	if t >= TIMER_COUNT {
		return false
	}
	return c.timers[t].output
}

// TimerPeriod returns the time between output toggles of a delay mode
// timer at the configured clock, or 0 when the timer is not in delay mode.
func (c *Chip) TimerPeriod(t Timer) time.Duration {
	if t >= TIMER_COUNT || c.timers[t].mode() != timerModeDelay {
		return 0
	}
	tm := &c.timers[t]
	count := uint64(tm.data)
	if count == 0 {
		count = 256
	}
	cycles := count * uint64(tm.prescale())
	return time.Duration(cycles * uint64(time.Second) / uint64(c.clockHz))
}

func (c *Chip) driveTimerOutput(t Timer) {
	if c.timerSink != nil {
		c.timerSink.TimerOutput(t, c.timers[t].output)
	}
}
