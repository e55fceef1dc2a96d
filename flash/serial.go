package flash

import (
	"io"
	"syscall"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// Transport is the byte channel to the board. Reads may return fewer bytes
// than requested; a read of zero bytes with no error is treated as a timeout.
type Transport interface {
	io.Reader
	io.Writer
}

// Open will power cycle the board if configured and open its serial port in
// raw 8N1 mode
func (b *Board) Open() error {
	if err := b.powerCycle(); err != nil {
		return err
	}

	port, err := serial.Open(b.TTY(), &serial.Mode{
		BaudRate: b.BaudRate(),
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		b.releasePins()
		return errors.Wrap(err, "could not open serial")
	}

	if err = port.SetReadTimeout(b.config.ReadTimeout); err != nil {
		port.Close()
		b.releasePins()
		return errors.Wrap(err, "could not set read timeout")
	}

	b.port = port
	b.closer = port.Close

	b.log.Debugf("opened %s", b.TTY())

	return nil
}

// Attach will use an already open transport instead of the configured TTY
func (b *Board) Attach(t Transport) {
	b.port = t
	b.closer = nil
	if c, ok := t.(io.Closer); ok {
		b.closer = c.Close
	}
}

// Close will close the connection and release the power pin
func (b *Board) Close() error {
	var err error
	if b.closer != nil {
		err = b.closer()
		b.closer = nil
	}
	b.port = nil

	b.releasePins()

	b.log.Debug("board close")

	return err
}

func (b *Board) IsOpen() bool {
	return b.port != nil
}

// write will write the whole frame to the board
func (b *Board) write(frame []byte) error {
	if !b.IsOpen() {
		return ErrClosed
	}

	written := 0
	for written < len(frame) {
		n, err := b.port.Write(frame[written:])
		written += n
		if isRetryableSyscallError(err) {
			continue
		}
		if err != nil {
			return &TransportError{Op: "write", Want: len(frame), Got: written, Err: err}
		}
		if n == 0 {
			return &TransportError{Op: "write", Want: len(frame), Got: written}
		}
	}

	b.log.Tracef("board tx: %x", frame)

	return nil
}

// readN will read exactly n bytes from the board
func (b *Board) readN(n int) ([]byte, error) {
	if !b.IsOpen() {
		return nil, ErrClosed
	}

	bs := make([]byte, n)
	got := 0
	for got < n {
		m, err := b.port.Read(bs[got:])
		got += m
		if isRetryableSyscallError(err) {
			continue
		}
		if err != nil {
			return nil, &TransportError{Op: "read", Want: n, Got: got, Err: err}
		}
		if m == 0 {
			return nil, &TransportError{Op: "read", Want: n, Got: got, Err: ErrTimeout}
		}
	}

	b.log.Tracef("board rx: %x", bs)

	return bs, nil
}

func isRetryableSyscallError(err error) bool {
	return errors.Is(err, syscall.EINTR)
}
