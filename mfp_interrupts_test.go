// mfp_interrupts_test.go - Interrupt controller tests

package mc68901

import "testing"

// =============================================================================
// Enable / mask invariants
// =============================================================================

func TestMFP_RaiseRequiresEnable(t *testing.T) {
	c, _ := newTestChip(t)
	c.Raise(SRC_TIMER_A)
	if c.Pending() != 0 {
		t.Errorf("IPR = 0x%04X after raise on disabled channel, want 0", c.Pending())
	}
	c.WriteRegister(MFP_IERA, 0x20)
	c.Raise(SRC_TIMER_A)
	expectReg(t, c, MFP_IPRA, 0x20)
}

func TestMFP_DisableDropsPending(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_IERA, 0xFF)
	c.WriteRegister(MFP_IERB, 0xFF)
	for s := Source(0); s < SOURCE_COUNT; s++ {
		c.Raise(s)
	}
	if c.Pending() != 0xFFFF {
		t.Fatalf("IPR = 0x%04X, want 0xFFFF", c.Pending())
	}

	c.WriteRegister(MFP_IERA, 0x0F)
	expectReg(t, c, MFP_IPRA, 0x0F)
	expectReg(t, c, MFP_IPRB, 0xFF)

	c.WriteRegister(MFP_IERB, 0x00)
	if c.Pending()&^c.Enabled() != 0 {
		t.Errorf("IPR 0x%04X has bits outside IER 0x%04X", c.Pending(), c.Enabled())
	}
}

func TestMFP_MaskDropsInService(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_VR, 0x48)
	enableSource(c, SRC_GPIO7)
	enableSource(c, SRC_GPIO0)
	c.Raise(SRC_GPIO7)
	c.Raise(SRC_GPIO0)
	c.Acknowledge()
	c.Acknowledge()
	if c.InService() != SRC_GPIO7.mask()|SRC_GPIO0.mask() {
		t.Fatalf("ISR = 0x%04X, want 0x8001", c.InService())
	}

	c.WriteRegister(MFP_IMRA, 0x00)
	if c.InService() != SRC_GPIO0.mask() {
		t.Errorf("ISR = 0x%04X after masking A, want 0x0001", c.InService())
	}
	if c.InService()&^c.Mask() != 0 {
		t.Errorf("ISR 0x%04X has bits outside IMR 0x%04X", c.InService(), c.Mask())
	}
}

func TestMFP_PendingWriteClearsZeroBits(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_IERA, 0xFF)
	c.WriteRegister(MFP_IERB, 0xFF)
	c.Raise(SRC_TIMER_A)
	c.Raise(SRC_GPIO7)
	c.Raise(SRC_TIMER_D)

	// Writing 1s leaves bits alone, 0s clear them
	c.WriteRegister(MFP_IPRA, 0xDF)
	expectReg(t, c, MFP_IPRA, 0x80)
	expectReg(t, c, MFP_IPRB, 0x10)

	c.WriteRegister(MFP_IPRB, 0xFF)
	expectReg(t, c, MFP_IPRB, 0x10)
}

func TestMFP_InServiceWriteClearsZeroBits(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_VR, 0x48)
	enableSource(c, SRC_TIMER_C)
	enableSource(c, SRC_TIMER_D)
	c.Raise(SRC_TIMER_C)
	c.Raise(SRC_TIMER_D)
	c.Acknowledge()
	c.Acknowledge()
	expectReg(t, c, MFP_ISRB, 0x30)

	c.WriteRegister(MFP_ISRB, ^uint8(0x20))
	expectReg(t, c, MFP_ISRB, 0x10)
}

// =============================================================================
// Acknowledge
// =============================================================================

func TestMFP_VectorPriority(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_VR, 0x40)
	enableSource(c, SRC_GPIO0)
	enableSource(c, SRC_TIMER_A)
	enableSource(c, SRC_GPIO7)

	c.Raise(SRC_GPIO0)
	c.Raise(SRC_TIMER_A)
	c.Raise(SRC_GPIO7)

	for _, want := range []uint8{0x4F, 0x4D, 0x40} {
		v, ok := c.Acknowledge()
		if !ok || v != want {
			t.Errorf("Acknowledge = 0x%02X, %v, want 0x%02X, true", v, ok, want)
		}
	}
	if v, ok := c.Acknowledge(); ok || v != VECTOR_SPURIOUS {
		t.Errorf("Acknowledge on empty = %d, %v, want %d, false", v, ok, VECTOR_SPURIOUS)
	}
}

func TestMFP_MaskedPendingStaysPending(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_IERA, 0x20)
	c.Raise(SRC_TIMER_A)

	if c.IRQ() {
		t.Error("IRQ asserted for masked channel")
	}
	if _, ok := c.Acknowledge(); ok {
		t.Error("Acknowledge returned a masked channel")
	}
	expectReg(t, c, MFP_IPRA, 0x20)

	c.WriteRegister(MFP_IMRA, 0x20)
	if !c.IRQ() {
		t.Error("IRQ not asserted after unmasking")
	}
}

func TestMFP_AutoEOI(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_VR, 0x40)
	enableSource(c, SRC_TIMER_B)
	c.Raise(SRC_TIMER_B)

	v, ok := c.Acknowledge()
	if !ok || v != 0x48 {
		t.Fatalf("Acknowledge = 0x%02X, %v, want 0x48, true", v, ok)
	}
	if c.InService() != 0 {
		t.Errorf("ISR = 0x%04X in automatic EOI mode, want 0", c.InService())
	}
	if c.Pending() != 0 {
		t.Errorf("IPR = 0x%04X after acknowledge, want 0", c.Pending())
	}
}

func TestMFP_SoftwareEOIClearedByVRWrite(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_VR, 0x48)
	enableSource(c, SRC_TIMER_B)
	c.Raise(SRC_TIMER_B)
	c.Acknowledge()
	expectReg(t, c, MFP_ISRA, 0x01)

	c.WriteRegister(MFP_VR, 0x40)
	expectReg(t, c, MFP_ISRA, 0x00)
	expectReg(t, c, MFP_VR, 0x40)
}

func TestMFP_VRWriteMask(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_VR, 0xFF)
	expectReg(t, c, MFP_VR, 0xF8)
}

// =============================================================================
// IRQ line
// =============================================================================

func TestMFP_IRQSinkOnChangeOnly(t *testing.T) {
	c, rec := newTestChip(t)
	enableSource(c, SRC_GPIO5)
	enableSource(c, SRC_GPIO6)

	c.Raise(SRC_GPIO5)
	c.Raise(SRC_GPIO6)
	c.Raise(SRC_GPIO5)
	if len(rec.irq) != 1 || !rec.irq[0] {
		t.Fatalf("IRQ notifications = %v, want [true]", rec.irq)
	}

	c.Acknowledge()
	if len(rec.irq) != 1 {
		t.Errorf("IRQ notifications = %v, want no change while GPIO5 pending", rec.irq)
	}
	c.Acknowledge()
	if len(rec.irq) != 2 || rec.irq[1] {
		t.Errorf("IRQ notifications = %v, want [true false]", rec.irq)
	}
}

func TestMFP_IRQDropsWithPendingClear(t *testing.T) {
	c, _ := newTestChip(t)
	enableSource(c, SRC_TIMER_A)
	c.Raise(SRC_TIMER_A)
	c.WriteRegister(MFP_IPRA, 0x00)
	if c.IRQ() {
		t.Error("IRQ still asserted after clearing IPRA")
	}
}

// =============================================================================
// Error channel fallback
// =============================================================================

func TestMFP_ErrorFallsBackToDataChannel(t *testing.T) {
	tests := []struct {
		name     string
		raise    func(*Chip)
		errSrc   Source
		fallback Source
	}{
		{"receive", (*Chip).rxError, SRC_RX_ERROR, SRC_RX_FULL},
		{"transmit", (*Chip).txError, SRC_TX_ERROR, SRC_TX_EMPTY},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestChip(t)
			c.setIER(tt.fallback.mask())
			tt.raise(c)
			if c.Pending() != tt.fallback.mask() {
				t.Errorf("IPR = 0x%04X with %v disabled, want %v", c.Pending(), tt.errSrc, tt.fallback)
			}

			c.setIER(tt.fallback.mask() | tt.errSrc.mask())
			c.WriteRegister(MFP_IPRA, 0)
			tt.raise(c)
			if c.Pending() != tt.errSrc.mask() {
				t.Errorf("IPR = 0x%04X with %v enabled, want %v only", c.Pending(), tt.errSrc, tt.errSrc)
			}
		})
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkMFP_RaiseAcknowledge(b *testing.B) {
	c, _ := newTestChip(b)
	enableSource(c, SRC_TIMER_C)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Raise(SRC_TIMER_C)
		c.Acknowledge()
	}
}
