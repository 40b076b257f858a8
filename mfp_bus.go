// mfp_bus.go - Address window mapping for the MC68901 register file

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

// Window maps a range of CPU addresses onto the register file. A 68000 bus
// connects the MFP to the low data byte, so each register sits on an odd
// address two bytes after the previous one.
type Window struct {
	Chip   *Chip
	Base   uint32 // address of GPIP
	Stride uint32 // address step between registers, 0 means 1
}

// Atari ST/TT/Falcon placement.
const (
	MFP_BASE_ATARI_ST   = 0xFFFA01
	MFP_STRIDE_ATARI_ST = 2
)

func (w Window) stride() uint32 {
	if w.Stride == 0 {
		return 1
	}
	return w.Stride
}

// End returns the address of the last register (UDR).
func (w Window) End() uint32 {
	return w.Base + (MFP_REG_COUNT-1)*w.stride()
}

// Offset translates addr into a register offset. Addresses between
// registers or outside the window are not decoded.
func (w Window) Offset(addr uint32) (int, bool) {
	if addr < w.Base || addr > w.End() {
		return 0, false
	}
	d := addr - w.Base
	if d%w.stride() != 0 {
		return 0, false
	}
	return int(d / w.stride()), true
}

// Read8 reads the register at addr; undecoded addresses read as 0.
func (w Window) Read8(addr uint32) uint8 {
	off, ok := w.Offset(addr)
	if !ok {
		return 0
	}
	return w.Chip.ReadRegister(off)
}

// Write8 writes the register at addr; undecoded addresses are ignored.
func (w Window) Write8(addr uint32, value uint8) {
	if off, ok := w.Offset(addr); ok {
		w.Chip.WriteRegister(off, value)
	}
}
