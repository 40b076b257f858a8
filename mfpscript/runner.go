// runner.go - Lua scripting for the MFP

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

// Package mfpscript drives a chip from Lua scripts. Scripts poke registers,
// advance clocks and assert on the results, which makes them handy for
// reproducing guest software sequences without a CPU core.
//
// Globals available to a script:
//
//	read(off)                  register value
//	write(off, v)              register write
//	tick(n)                    n timer clock cycles
//	poll()                     sample the GPIO port
//	gpio(v)                    set the external GPIO level
//	timer_input(t, level)      TAI/TBI level, t is "A" or "B"
//	serial_in(level)           SI level
//	serial_clock(dir [, n])    n RC ("rx") or TC ("tx") pulses
//	ack()                      vector, ok
//	irq()                      interrupt request line
//	tx_level()                 SO level
//	log(...)                   write to the runner's logger
//	reg.NAME                   register offsets (reg.TACR, reg.UDR, ...)
//	src.NAME                   interrupt channel numbers (src.TimerA, ...)
package mfpscript

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/intuitionamiga/mc68901"
)

// Runner owns one Lua state bound to one chip. It is not safe for
// concurrent use.
type Runner struct {
	chip   *mc68901.Chip
	L      *lua.LState
	logger *slog.Logger
}

// NewRunner creates a Lua state with the base, table, string and math
// libraries and the chip globals. The file loading functions (dofile,
// loadfile, require) are removed. A nil logger discards.
func NewRunner(chip *mc68901.Chip, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Runner{
		chip:   chip,
		L:      lua.NewState(lua.Options{SkipOpenLibs: true}),
		logger: logger,
	}
	r.openLibs()
	r.register()
	return r
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.L.Close()
}

func (r *Runner) openLibs() {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := r.L.CallByParam(lua.P{
			Fn:      r.L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			panic(err)
		}
	}
	// Scripts see the chip only, never the host filesystem
	for _, name := range []string{"dofile", "loadfile", "require", "module", lua.LoadLibName} {
		r.L.SetGlobal(name, lua.LNil)
	}
}

func (r *Runner) register() {
	L := r.L
	funcs := map[string]lua.LGFunction{
		"read":         r.luaRead,
		"write":        r.luaWrite,
		"tick":         r.luaTick,
		"poll":         r.luaPoll,
		"gpio":         r.luaGPIO,
		"timer_input":  r.luaTimerInput,
		"serial_in":    r.luaSerialIn,
		"serial_clock": r.luaSerialClock,
		"ack":          r.luaAck,
		"irq":          r.luaIRQ,
		"tx_level":     r.luaTxLevel,
		"log":          r.luaLog,
	}
	for name, fn := range funcs {
		L.SetGlobal(name, L.NewFunction(fn))
	}

	reg := L.NewTable()
	for off := 0; off < mc68901.MFP_REG_COUNT; off++ {
		L.SetField(reg, mc68901.RegisterName(off), lua.LNumber(off))
	}
	L.SetGlobal("reg", reg)

	src := L.NewTable()
	for s := mc68901.Source(0); s < mc68901.SOURCE_COUNT; s++ {
		L.SetField(src, s.String(), lua.LNumber(s))
	}
	L.SetGlobal("src", src)
}

// Run executes src. name identifies the script in errors and logs. The
// script is interrupted when ctx is done.
func (r *Runner) Run(ctx context.Context, name, src string) error {
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	start := time.Now()
	r.logger.Debug("script start", "name", name)
	if err := r.L.DoString(src); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("mfpscript: %s: %w", name, ctx.Err())
		}
		return fmt.Errorf("mfpscript: %s: %w", name, err)
	}
	r.logger.Debug("script done", "name", name, "elapsed", time.Since(start))
	return nil
}

// RunFile loads and executes a script file.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("mfpscript: %w", err)
	}
	return r.Run(ctx, filepath.Base(path), string(data))
}

func (r *Runner) luaRead(L *lua.LState) int {
	L.Push(lua.LNumber(r.chip.ReadRegister(L.CheckInt(1))))
	return 1
}

func (r *Runner) luaWrite(L *lua.LState) int {
	off := L.CheckInt(1)
	v := L.CheckInt(2)
	if v < 0 || v > 0xFF {
		L.ArgError(2, "register value must be 0..255")
		return 0
	}
	r.chip.WriteRegister(off, uint8(v))
	return 0
}

func (r *Runner) luaTick(L *lua.LState) int {
	r.chip.Tick(L.CheckInt(1))
	return 0
}

func (r *Runner) luaPoll(L *lua.LState) int {
	r.chip.PollGPIO()
	return 0
}

func (r *Runner) luaGPIO(L *lua.LState) int {
	r.chip.SetGPIOInput(uint8(L.CheckInt(1)))
	return 0
}

func (r *Runner) luaTimerInput(L *lua.LState) int {
	var t mc68901.Timer
	switch strings.ToUpper(L.CheckString(1)) {
	case "A":
		t = mc68901.TIMER_A
	case "B":
		t = mc68901.TIMER_B
	default:
		L.ArgError(1, "timer input must be \"A\" or \"B\"")
		return 0
	}
	r.chip.TimerInput(t, L.CheckBool(2))
	return 0
}

func (r *Runner) luaSerialIn(L *lua.LState) int {
	r.chip.SetSerialInput(L.CheckBool(1))
	return 0
}

func (r *Runner) luaSerialClock(L *lua.LState) int {
	var dir mc68901.Direction
	switch L.CheckString(1) {
	case "rx":
		dir = mc68901.Receive
	case "tx":
		dir = mc68901.Transmit
	default:
		L.ArgError(1, "direction must be \"rx\" or \"tx\"")
		return 0
	}
	for range L.OptInt(2, 1) {
		r.chip.SerialClock(dir)
	}
	return 0
}

func (r *Runner) luaAck(L *lua.LState) int {
	v, ok := r.chip.Acknowledge()
	L.Push(lua.LNumber(v))
	L.Push(lua.LBool(ok))
	return 2
}

func (r *Runner) luaIRQ(L *lua.LState) int {
	L.Push(lua.LBool(r.chip.IRQ()))
	return 1
}

func (r *Runner) luaTxLevel(L *lua.LState) int {
	L.Push(lua.LBool(r.chip.TxLevel()))
	return 1
}

func (r *Runner) luaLog(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	r.logger.Info(strings.Join(parts, " "), "source", "lua")
	return 0
}
