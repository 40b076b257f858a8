// mfp_usart_test.go - USART receiver and transmitter tests

package mc68901

import "testing"

// =============================================================================
// Framing
// =============================================================================

func TestMFP_FramingFromUCR(t *testing.T) {
	tests := []struct {
		ucr  uint8
		want Framing
		str  string
	}{
		{0x08, Framing{DataBits: 8, Parity: PARITY_NONE, Stop: STOP_1}, "8N1"},
		{0x2C, Framing{DataBits: 7, Parity: PARITY_ODD, Stop: STOP_1}, "7O1"},
		{0xFE, Framing{DataBits: 5, Parity: PARITY_EVEN, Stop: STOP_2, Divide16: true}, "5E2/16"},
	}
	for _, tt := range tests {
		f := FramingFromUCR(tt.ucr)
		if f != tt.want {
			t.Errorf("FramingFromUCR(0x%02X) = %+v, want %+v", tt.ucr, f, tt.want)
		}
		if f.String() != tt.str {
			t.Errorf("FramingFromUCR(0x%02X).String() = %q, want %q", tt.ucr, f.String(), tt.str)
		}
		if f.UCR() != tt.ucr {
			t.Errorf("UCR() = 0x%02X, want 0x%02X", f.UCR(), tt.ucr)
		}
	}
}

func TestMFP_FramingParityBit(t *testing.T) {
	even8 := Framing{DataBits: 8, Parity: PARITY_EVEN}
	odd8 := Framing{DataBits: 8, Parity: PARITY_ODD}
	even7 := Framing{DataBits: 7, Parity: PARITY_EVEN}

	if !even8.ParityBit(0x01) {
		t.Error("even parity of 0x01 = 0, want 1")
	}
	if odd8.ParityBit(0x01) {
		t.Error("odd parity of 0x01 = 1, want 0")
	}
	if !even7.ParityBit(0x81) {
		t.Error("7-bit even parity of 0x81 = 0, want 1 (bit 7 ignored)")
	}
	if (Framing{DataBits: 8}).ParityBit(0x01) {
		t.Error("parity bit set with parity off")
	}
}

func TestMFP_UCRWriteMask(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_UCR, 0xFF)
	expectReg(t, c, MFP_UCR, 0xFE)
	if c.Framing().DataBits != 5 {
		t.Errorf("DataBits = %d, want 5", c.Framing().DataBits)
	}
}

// =============================================================================
// Round trips
// =============================================================================

func TestMFP_SerialRoundTrip8E1(t *testing.T) {
	tx, _ := newTestChip(t)
	rx, _ := newTestChip(t)
	for _, c := range []*Chip{tx, rx} {
		c.WriteRegister(MFP_UCR, 0x0E)
	}
	enableSource(rx, SRC_RX_FULL)
	tx.WriteRegister(MFP_UDR, 0xA5)
	tx.WriteRegister(MFP_TSR, TSR_TE)
	rx.WriteRegister(MFP_RSR, RSR_RE)

	pump(tx, rx, 11)

	expectReg(t, rx, MFP_RSR, RSR_BF|RSR_RE)
	if !rx.IRQ() {
		t.Error("receiver IRQ not asserted")
	}
	expectReg(t, rx, MFP_UDR, 0xA5)
	expectReg(t, rx, MFP_RSR, RSR_RE)
}

func TestMFP_SerialLoopback7O1(t *testing.T) {
	c, rec := newTestChip(t)
	c.WriteRegister(MFP_UCR, 0x2C)
	c.WriteRegister(MFP_RSR, RSR_RE)
	c.WriteRegister(MFP_UDR, 0x41)
	c.WriteRegister(MFP_TSR, TSR_HL_LOOP|TSR_TE)

	for range 10 {
		c.SerialClock(Transmit)
		c.SerialClock(Receive)
	}

	if rsr := c.ReadRegister(MFP_RSR); rsr&RSR_BF == 0 || rsr&RSR_ERRORS != 0 {
		t.Fatalf("RSR = 0x%02X, want BF with no errors", rsr)
	}
	expectReg(t, c, MFP_UDR, 0x41)
	if rsr := c.ReadRegister(MFP_RSR); rsr&RSR_ERRORS != 0 {
		t.Errorf("RSR = 0x%02X after read, want no errors", rsr)
	}
	for i, level := range rec.serial {
		if !level {
			t.Fatalf("SO notification %d low in loopback", i)
		}
	}
}

func TestMFP_SerialRoundTripDivide16(t *testing.T) {
	tx, _ := newTestChip(t)
	rx, _ := newTestChip(t)
	for _, c := range []*Chip{tx, rx} {
		c.WriteRegister(MFP_UCR, UCR_CLK|UCR_ST_1)
	}
	tx.WriteRegister(MFP_UDR, 0xC3)
	tx.WriteRegister(MFP_TSR, TSR_TE)
	rx.WriteRegister(MFP_RSR, RSR_RE)

	// Start found after 8 low samples, stop sampled 9 bit times later
	pump(tx, rx, 8+16*9-1)
	expectReg(t, rx, MFP_RSR, RSR_CIP|RSR_RE)
	pump(tx, rx, 1)
	expectReg(t, rx, MFP_RSR, RSR_BF|RSR_RE)
	expectReg(t, rx, MFP_UDR, 0xC3)
}

// =============================================================================
// Receiver errors
// =============================================================================

func TestMFP_ReceiveOverrun(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_UCR, UCR_ST_1)
	c.WriteRegister(MFP_RSR, RSR_RE)
	enableSource(c, SRC_RX_FULL)
	enableSource(c, SRC_RX_ERROR)
	f := c.Framing()

	receiveBits(c, frameBits(f, 0x11, true, true))
	receiveBits(c, frameBits(f, 0x22, true, true))

	// The overrun stays staged until the buffer is read
	expectReg(t, c, MFP_RSR, RSR_BF|RSR_RE)
	expectReg(t, c, MFP_UDR, 0x11)
	expectReg(t, c, MFP_RSR, RSR_OE|RSR_RE)
	if c.Pending()&SRC_RX_ERROR.mask() == 0 {
		t.Errorf("IPR = 0x%04X, want RX error pending", c.Pending())
	}

	c.ReadRegister(MFP_UDR)
	expectReg(t, c, MFP_RSR, RSR_RE)
}

func TestMFP_ReceiveParityError(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_UCR, 0x0E)
	c.WriteRegister(MFP_RSR, RSR_RE)
	enableSource(c, SRC_RX_FULL)
	enableSource(c, SRC_RX_ERROR)

	receiveBits(c, frameBits(c.Framing(), 0xA5, false, true))
	expectReg(t, c, MFP_RSR, RSR_BF|RSR_RE)
	expectReg(t, c, MFP_UDR, 0xA5)
	expectReg(t, c, MFP_RSR, RSR_PE|RSR_RE)
	if want := SRC_RX_FULL.mask() | SRC_RX_ERROR.mask(); c.Pending() != want {
		t.Errorf("IPR = 0x%04X, want 0x%04X", c.Pending(), want)
	}
}

func TestMFP_ReceiveFramingError(t *testing.T) {
	c, _ := newTestChip(t)
	enableSource(c, SRC_RX_FULL)
	enableSource(c, SRC_RX_ERROR)
	c.WriteRegister(MFP_UCR, UCR_ST_1)
	c.WriteRegister(MFP_RSR, RSR_RE)
	f := c.Framing()

	// A missing stop bit still delivers the word, flagged when it is read
	receiveBits(c, frameBits(f, 0x55, true, false))
	expectReg(t, c, MFP_RSR, RSR_BF|RSR_RE)
	if c.Pending() != SRC_RX_FULL.mask() {
		t.Fatalf("IPR = 0x%04X, want RX full", c.Pending())
	}
	if !c.IRQ() {
		t.Error("IRQ not asserted for damaged word")
	}
	c.Acknowledge()

	expectReg(t, c, MFP_UDR, 0x55)
	expectReg(t, c, MFP_RSR, RSR_FE|RSR_RE)
	if c.Pending() != SRC_RX_ERROR.mask() {
		t.Errorf("IPR = 0x%04X after read, want RX error", c.Pending())
	}
	c.Acknowledge()

	// The next clean word carries no error
	receiveBits(c, frameBits(f, 0x66, true, true))
	expectReg(t, c, MFP_UDR, 0x66)
	expectReg(t, c, MFP_RSR, RSR_RE)
}

func TestMFP_ReceiveBreak(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_UCR, UCR_ST_1)
	c.WriteRegister(MFP_RSR, RSR_RE)

	receiveBits(c, frameBits(c.Framing(), 0x00, true, false))
	if c.usart.nextRSR != RSR_B {
		t.Errorf("staged RSR = 0x%02X, want break", c.usart.nextRSR)
	}
	expectReg(t, c, MFP_RSR, RSR_RE)
}

func TestMFP_ReceiveSyncStrip(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_UCR, UCR_ST_1)
	c.WriteRegister(MFP_SCR, 0x16)
	c.WriteRegister(MFP_RSR, RSR_SS|RSR_RE)
	f := c.Framing()

	receiveBits(c, frameBits(f, 0x16, true, true))
	expectReg(t, c, MFP_RSR, RSR_SS|RSR_RE)

	receiveBits(c, frameBits(f, 0x41, true, true))
	expectReg(t, c, MFP_UDR, 0x41)

	c.WriteRegister(MFP_RSR, RSR_RE)
	receiveBits(c, frameBits(f, 0x16, true, true))
	expectReg(t, c, MFP_UDR, 0x16)
}

func TestMFP_ReceiverDisableAbandonsCharacter(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_UCR, UCR_ST_1)
	c.WriteRegister(MFP_RSR, RSR_RE)
	f := c.Framing()

	receiveBits(c, frameBits(f, 0xFF, true, true)[:4])
	expectReg(t, c, MFP_RSR, RSR_CIP|RSR_RE)

	c.WriteRegister(MFP_RSR, 0)
	expectReg(t, c, MFP_RSR, 0)
	receiveBits(c, frameBits(f, 0x33, true, true))
	expectReg(t, c, MFP_RSR, 0)

	c.WriteRegister(MFP_RSR, RSR_RE)
	receiveBits(c, frameBits(f, 0x5A, true, true))
	expectReg(t, c, MFP_UDR, 0x5A)
	expectReg(t, c, MFP_RSR, RSR_RE)
}

// =============================================================================
// Transmitter
// =============================================================================

func TestMFP_TransmitBitSequence(t *testing.T) {
	c, rec := newTestChip(t)
	c.WriteRegister(MFP_UCR, UCR_ST_1)
	enableSource(c, SRC_TX_EMPTY)
	c.WriteRegister(MFP_UDR, 0x5A)
	expectReg(t, c, MFP_TSR, 0x00)
	c.WriteRegister(MFP_TSR, TSR_TE)

	c.SerialClock(Transmit)
	expectReg(t, c, MFP_TSR, TSR_BE|TSR_TE)
	if c.Pending() != SRC_TX_EMPTY.mask() {
		t.Errorf("IPR = 0x%04X after load, want TX buffer empty", c.Pending())
	}
	for range 9 {
		c.SerialClock(Transmit)
	}

	want := frameBits(c.Framing(), 0x5A, true, true)
	if len(rec.serial) != len(want) {
		t.Fatalf("SO notifications = %v, want %v", rec.serial, want)
	}
	for i := range want {
		if rec.serial[i] != want[i] {
			t.Errorf("bit %d = %v, want %v", i, rec.serial[i], want[i])
		}
	}
}

func TestMFP_TransmitStopBitsRoundUp(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_UCR, UCR_ST_15)
	c.WriteRegister(MFP_UDR, 0x00)
	c.WriteRegister(MFP_TSR, TSR_TE)

	c.SerialClock(Transmit)
	c.WriteRegister(MFP_UDR, 0x00)
	for range 10 {
		c.SerialClock(Transmit)
	}
	if !c.TxLevel() {
		t.Fatal("SO low during second stop bit time")
	}
	c.SerialClock(Transmit)
	if c.TxLevel() {
		t.Error("SO high at start of next character")
	}
}

func TestMFP_TransmitUnderrun(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_UCR, UCR_ST_1)
	enableSource(c, SRC_TX_EMPTY)
	c.WriteRegister(MFP_TSR, TSR_TE)

	c.SerialClock(Transmit)
	if c.TxLevel() {
		t.Error("SO not at break level during underrun")
	}
	if c.Pending() != SRC_TX_EMPTY.mask() {
		t.Errorf("IPR = 0x%04X, want TX empty as TX error fallback", c.Pending())
	}

	// Reported once per underrun
	c.WriteRegister(MFP_IPRA, 0)
	c.SerialClock(Transmit)
	if c.Pending() != 0 {
		t.Errorf("IPR = 0x%04X on second underrun pulse, want 0", c.Pending())
	}

	expectReg(t, c, MFP_TSR, TSR_BE|TSR_UE|TSR_TE)
	expectReg(t, c, MFP_TSR, TSR_BE|TSR_TE)
}

func TestMFP_TransmitEndOfTransmission(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_UCR, UCR_ST_1)
	enableSource(c, SRC_TX_ERROR)
	c.WriteRegister(MFP_UDR, 0xFF)
	c.WriteRegister(MFP_TSR, TSR_HL_LOW|TSR_TE)
	c.SerialClock(Transmit)
	c.SerialClock(Transmit)

	c.WriteRegister(MFP_TSR, TSR_HL_LOW)
	if c.Pending() != 0 {
		t.Fatalf("IPR = 0x%04X before next TC pulse", c.Pending())
	}
	c.SerialClock(Transmit)
	expectReg(t, c, MFP_TSR, TSR_BE|TSR_END|TSR_HL_LOW)
	if c.TxLevel() {
		t.Error("SO not at low idle level")
	}
	if c.Pending() != SRC_TX_ERROR.mask() {
		t.Errorf("IPR = 0x%04X, want TX error", c.Pending())
	}

	// Only once
	c.WriteRegister(MFP_IPRA, 0)
	c.SerialClock(Transmit)
	if c.Pending() != 0 {
		t.Errorf("IPR = 0x%04X after second pulse, want 0", c.Pending())
	}
}

func TestMFP_TransmitAutoTurnaround(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_TSR, TSR_AT|TSR_TE)
	c.WriteRegister(MFP_TSR, TSR_AT)
	c.SerialClock(Transmit)

	tsr := c.ReadRegister(MFP_TSR)
	if tsr&TSR_END == 0 || tsr&TSR_TE == 0 {
		t.Errorf("TSR = 0x%02X, want END and TE", tsr)
	}
	if c.ReadRegister(MFP_RSR)&RSR_RE == 0 {
		t.Error("receiver not enabled by turnaround")
	}
}

func TestMFP_TransmitSendBreak(t *testing.T) {
	c, _ := newTestChip(t)
	c.WriteRegister(MFP_UDR, 0xFF)
	c.WriteRegister(MFP_TSR, TSR_B|TSR_TE)
	for range 20 {
		c.SerialClock(Transmit)
		if c.TxLevel() {
			t.Fatal("SO high while sending break")
		}
	}
	expectReg(t, c, MFP_TSR, TSR_B|TSR_TE)
}

func TestMFP_TransmitIdleLevels(t *testing.T) {
	tests := []struct {
		hl   uint8
		want bool
	}{
		{TSR_HL_HIZ, true},
		{TSR_HL_LOW, false},
		{TSR_HL_HIGH, true},
		{TSR_HL_LOOP, true},
	}
	for _, tt := range tests {
		c, rec := newTestChip(t)
		c.WriteRegister(MFP_TSR, tt.hl)
		if c.TxLevel() != tt.want {
			t.Errorf("HL 0x%02X: TxLevel = %v, want %v", tt.hl, c.TxLevel(), tt.want)
		}
		if len(rec.serial) != 1 || rec.serial[0] != tt.want {
			t.Errorf("HL 0x%02X: SO notifications = %v, want [%v]", tt.hl, rec.serial, tt.want)
		}
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkMFP_SerialLoopback(b *testing.B) {
	c, _ := newTestChip(b)
	c.WriteRegister(MFP_UCR, 0x0E)
	c.WriteRegister(MFP_RSR, RSR_RE)
	c.WriteRegister(MFP_TSR, TSR_HL_LOOP|TSR_TE)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.WriteRegister(MFP_UDR, uint8(i))
		for range 11 {
			c.SerialClock(Transmit)
			c.SerialClock(Receive)
		}
		c.ReadRegister(MFP_UDR)
	}
}
