// bridge.go - Host byte stream bridge for the MFP USART

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

package serialhost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/intuitionamiga/mc68901"
)

// Queue depth in each direction.
const bridgeQueue = 256

// Bridge connects the USART of a chip to a host byte stream. Bytes read from
// the host are shifted into SI and characters appearing on SO are decoded
// and written back to the host.
//
// The chip is only touched from Step, which belongs to whichever goroutine
// drives the emulation. Run moves bytes between the host stream and the two
// queues.
type Bridge struct {
	chip   *mc68901.Chip
	r      io.Reader
	w      io.Writer
	logger *slog.Logger

	in  chan byte // host -> SI
	out chan byte // SO -> host

	rxBits []bool // levels of the character being shifted into SI
	dec    *Decoder
}

// NewBridge couples chip to a host reader and writer. A nil logger
// discards.
func NewBridge(chip *mc68901.Chip, r io.Reader, w io.Writer, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bridge{
		chip:   chip,
		r:      r,
		w:      w,
		logger: logger,
		in:     make(chan byte, bridgeQueue),
		out:    make(chan byte, bridgeQueue),
		dec:    NewDecoder(chip.Framing()),
	}
}

// Step delivers one bit time to each direction of the USART: the next SI
// level followed by the RC pulses, then the TC pulses followed by a sample
// of SO. A bit time is 16 pulses when UCR selects the ÷16 clock.
func (b *Bridge) Step() {
	f := b.chip.Framing()
	if f != b.dec.Framing() {
		b.logger.Debug("bridge framing", "format", f.String())
		b.dec = NewDecoder(f)
		b.rxBits = b.rxBits[:0]
	}
	pulses := 1
	if f.Divide16 {
		pulses = 16
	}

	b.chip.SetSerialInput(b.nextLevel(f))
	for range pulses {
		b.chip.SerialClock(mc68901.Receive)
	}
	for range pulses {
		b.chip.SerialClock(mc68901.Transmit)
	}

	v, ok, err := b.dec.Feed(b.chip.TxLevel())
	if err != nil {
		b.logger.Warn("bridge receive", "err", err)
		return
	}
	if !ok {
		return
	}
	select {
	case b.out <- v:
	default:
		b.logger.Warn("bridge output queue full, byte dropped", "byte", v)
	}
}

// nextLevel returns the SI level for this bit time, starting a new host
// byte when the previous one has been shifted out. The line idles at 1.
func (b *Bridge) nextLevel(f mc68901.Framing) bool {
	if len(b.rxBits) == 0 {
		select {
		case v := <-b.in:
			b.rxBits = Encoder{Framing: f}.AppendBits(b.rxBits, v)
		default:
			return true
		}
	}
	level := b.rxBits[0]
	b.rxBits = b.rxBits[1:]
	return level
}

// Run copies host input into the SI queue and the SO queue to the host
// writer until ctx is cancelled or either side fails. Reaching EOF on the
// reader stops input only. A reader that blocks ignores cancellation, so
// close it (Terminal.Close) to make Run return.
func (b *Bridge) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.readLoop(ctx) })
	g.Go(func() error { return b.writeLoop(ctx) })
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (b *Bridge) readLoop(ctx context.Context) error {
	buf := make([]byte, 64)
	for {
		n, err := b.r.Read(buf)
		for _, v := range buf[:n] {
			select {
			case b.in <- v:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if errors.Is(err, io.EOF) {
			b.logger.Debug("bridge input closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("serialhost: read: %w", err)
		}
	}
}

func (b *Bridge) writeLoop(ctx context.Context) error {
	buf := make([]byte, 0, bridgeQueue)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v := <-b.out:
			buf = append(buf[:0], v)
		}
	drain:
		for {
			select {
			case v := <-b.out:
				buf = append(buf, v)
			default:
				break drain
			}
		}
		if _, err := b.w.Write(buf); err != nil {
			return fmt.Errorf("serialhost: write: %w", err)
		}
	}
}
