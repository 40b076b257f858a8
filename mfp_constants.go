// mfp_constants.go - MC68901 register offsets and bit definitions

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

import "golang.org/x/exp/constraints"

// Register offsets. Hosts on a 68000 bus usually decode these on odd
// addresses (see Window).
const (
	MFP_GPIP  = 0x00 // General purpose I/O data
	MFP_AER   = 0x01 // Active edge
	MFP_DDR   = 0x02 // Data direction
	MFP_IERA  = 0x03 // Interrupt enable A (sources 15-8)
	MFP_IERB  = 0x04 // Interrupt enable B (sources 7-0)
	MFP_IPRA  = 0x05 // Interrupt pending A
	MFP_IPRB  = 0x06 // Interrupt pending B
	MFP_ISRA  = 0x07 // Interrupt in-service A
	MFP_ISRB  = 0x08 // Interrupt in-service B
	MFP_IMRA  = 0x09 // Interrupt mask A
	MFP_IMRB  = 0x0A // Interrupt mask B
	MFP_VR    = 0x0B // Vector
	MFP_TACR  = 0x0C // Timer A control
	MFP_TBCR  = 0x0D // Timer B control
	MFP_TCDCR = 0x0E // Timers C and D control
	MFP_TADR  = 0x0F // Timer A data
	MFP_TBDR  = 0x10 // Timer B data
	MFP_TCDR  = 0x11 // Timer C data
	MFP_TDDR  = 0x12 // Timer D data
	MFP_SCR   = 0x13 // Sync character
	MFP_UCR   = 0x14 // USART control
	MFP_RSR   = 0x15 // Receiver status
	MFP_TSR   = 0x16 // Transmitter status
	MFP_UDR   = 0x17 // USART data

	MFP_REG_COUNT = 24
)

const (
	// Timer clock of the Atari ST/TT/Falcon MFP crystal.
	MFP_CLOCK_ATARI_ST = 2457600

	// Default GPIO sampling cadence, in timer clock cycles.
	MFP_GPIO_POLL_CYCLES = 4

	// 68000 spurious interrupt vector, returned when an acknowledge finds
	// nothing pending.
	VECTOR_SPURIOUS = 24
)

// Vector register
const (
	VR_BASE_MASK = 0xF0
	VR_S         = 0x08 // 1 = software end-of-interrupt, 0 = automatic
	VR_WRITE     = 0xF8
)

// Timer control register
const (
	TCR_MODE_MASK = 0x0F
	TCR_RESET     = 0x10 // TACR/TBCR only: force the timer output low

	TCR_STOPPED = 0x00
	TCR_EVENT   = 0x08

	TCDCR_WRITE = 0x77
)

// USART control register
const (
	UCR_CLK    = 0x80 // Divide TC/RC by 16
	UCR_WL     = 0x60 // Word length: 00=8, 01=7, 10=6, 11=5
	UCR_ST     = 0x18 // Start/stop format
	UCR_PE     = 0x04 // Parity enable
	UCR_EVEN   = 0x02 // Even parity when set, odd when clear
	UCR_WRITE  = 0xFE
	UCR_ST_SYN = 0x00 // Synchronous
	UCR_ST_1   = 0x08 // 1 stop bit
	UCR_ST_15  = 0x10 // 1.5 stop bits
	UCR_ST_2   = 0x18 // 2 stop bits
)

// Receiver status register
const (
	RSR_BF  = 0x80 // Buffer full
	RSR_OE  = 0x40 // Overrun error
	RSR_PE  = 0x20 // Parity error
	RSR_FE  = 0x10 // Frame error
	RSR_B   = 0x08 // Break
	RSR_CIP = 0x04 // Character in progress
	RSR_SS  = 0x02 // Sync strip enable
	RSR_RE  = 0x01 // Receiver enable

	RSR_ERRORS = RSR_OE | RSR_PE | RSR_FE | RSR_B
	RSR_WRITE  = RSR_SS | RSR_RE
)

// Transmitter status register
const (
	TSR_BE  = 0x80 // Buffer empty
	TSR_UE  = 0x40 // Underrun error
	TSR_AT  = 0x20 // Auto turnaround
	TSR_END = 0x10 // End of transmission
	TSR_B   = 0x08 // Send break
	TSR_HL  = 0x06 // Idle output state
	TSR_TE  = 0x01 // Transmitter enable

	TSR_HL_HIZ  = 0x00
	TSR_HL_LOW  = 0x02
	TSR_HL_HIGH = 0x04
	TSR_HL_LOOP = 0x06

	TSR_WRITE = TSR_AT | TSR_B | TSR_HL | TSR_TE
)

// Source is an interrupt channel number. The value is both the bit position
// in the IER/IPR/ISR/IMR pairs and the low nibble of the vector, and a
// higher number wins arbitration.
type Source uint8

const (
	SRC_GPIO0 Source = iota
	SRC_GPIO1
	SRC_GPIO2
	SRC_GPIO3
	SRC_TIMER_D
	SRC_TIMER_C
	SRC_GPIO4
	SRC_GPIO5
	SRC_TIMER_B
	SRC_TX_ERROR
	SRC_TX_EMPTY
	SRC_RX_ERROR
	SRC_RX_FULL
	SRC_TIMER_A
	SRC_GPIO6
	SRC_GPIO7

	SOURCE_COUNT = 16
)

var sourceNames = [SOURCE_COUNT]string{
	"GPIO0", "GPIO1", "GPIO2", "GPIO3", "TimerD", "TimerC", "GPIO4", "GPIO5",
	"TimerB", "TxError", "TxEmpty", "RxError", "RxFull", "TimerA", "GPIO6", "GPIO7",
}

func (s Source) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "invalid"
}

func (s Source) mask() uint16 {
	return 1 << s
}

// gpioSources maps a GPIP line to its interrupt channel.
var gpioSources = [8]Source{
	SRC_GPIO0, SRC_GPIO1, SRC_GPIO2, SRC_GPIO3,
	SRC_GPIO4, SRC_GPIO5, SRC_GPIO6, SRC_GPIO7,
}

var registerNames = [MFP_REG_COUNT]string{
	"GPIP", "AER", "DDR", "IERA", "IERB", "IPRA", "IPRB", "ISRA",
	"ISRB", "IMRA", "IMRB", "VR", "TACR", "TBCR", "TCDCR", "TADR",
	"TBDR", "TCDR", "TDDR", "SCR", "UCR", "RSR", "TSR", "UDR",
}

// RegisterName returns the mnemonic for a register offset.
func RegisterName(offset int) string {
	if offset < 0 || offset >= MFP_REG_COUNT {
		return "?"
	}
	return registerNames[offset]
}

// MFP timer prescaler divisors (index = control register lower 3 bits)
// 0=stopped, 1=/4, 2=/10, 3=/16, 4=/50, 5=/64, 6=/100, 7=/200
var mfpPrescaler = [8]uint32{0, 4, 10, 16, 50, 64, 100, 200}

func bit[T constraints.Unsigned](v T, n uint) T {
	return (v >> n) & 1
}

func setBit[T constraints.Unsigned](v T, n uint, on bool) T {
	if on {
		return v | 1<<n
	}
	return v &^ (1 << n)
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
