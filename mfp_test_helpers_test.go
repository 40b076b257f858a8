// mfp_test_helpers_test.go - Shared helpers for MC68901 tests

package mc68901

import (
	"io"
	"log/slog"
	"testing"
)

// recorder captures every sink notification.
type recorder struct {
	irq    []bool
	gpio   []uint8
	timer  [TIMER_COUNT][]bool
	serial []bool
}

func (r *recorder) clear() {
	*r = recorder{}
}

// newTestChip returns a chip with recording sinks and trace logging enabled
// into io.Discard, so the log paths run on every access. Notifications from
// the initial reset are discarded.
func newTestChip(tb testing.TB) (*Chip, *recorder) {
	tb.Helper()
	rec := &recorder{}
	c := New(Config{
		IRQ:  IRQFunc(func(asserted bool) { rec.irq = append(rec.irq, asserted) }),
		GPIO: GPIOFunc(func(v uint8) { rec.gpio = append(rec.gpio, v) }),
		TimerOut: TimerOutputFunc(func(t Timer, level bool) {
			rec.timer[t] = append(rec.timer[t], level)
		}),
		Serial: SerialFunc(func(level bool) { rec.serial = append(rec.serial, level) }),
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: levelTrace})),
	})
	rec.clear()
	return c, rec
}

// enableSource sets the IER and IMR bits of one interrupt channel.
func enableSource(c *Chip, s Source) {
	c.setIER(c.ier | s.mask())
	c.setIMR(c.imr | s.mask())
}

// frameBits returns the line levels of one asynchronous character, one per
// bit time: start, data LSB first, parity if enabled, one stop bit.
func frameBits(f Framing, b uint8, parityOK, stop bool) []bool {
	bits := []bool{false}
	for i := 0; i < f.DataBits; i++ {
		bits = append(bits, b>>i&1 != 0)
	}
	if f.Parity != PARITY_NONE {
		bits = append(bits, f.ParityBit(b) == parityOK)
	}
	return append(bits, stop)
}

// receiveBits presents each level on SI and delivers one RC pulse.
func receiveBits(c *Chip, bits []bool) {
	for _, level := range bits {
		c.SetSerialInput(level)
		c.SerialClock(Receive)
	}
	c.SetSerialInput(true)
}

// pump delivers n TX pulses on tx, copying SO into rx's SI and pulsing its
// receiver after each one.
func pump(tx, rx *Chip, n int) {
	for range n {
		tx.SerialClock(Transmit)
		rx.SetSerialInput(tx.TxLevel())
		rx.SerialClock(Receive)
	}
}

func expectReg(t *testing.T, c *Chip, offset int, want uint8) {
	t.Helper()
	if got := c.ReadRegister(offset); got != want {
		t.Errorf("%s = 0x%02X, want 0x%02X", RegisterName(offset), got, want)
	}
}
