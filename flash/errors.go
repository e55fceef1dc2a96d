package flash

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrTimeout = errors.New("timed out reading from board")
var ErrClosed = errors.New("serial port is closed")
var ErrOutOfRange = errors.New("image is outside the flash address range")
var ErrImageTooLarge = errors.New("image does not fit in flash at the requested offset")

// VersionMismatchError is returned when the board does not answer GET_VER with
// the iceFUN magic byte
type VersionMismatchError struct {
	Magic   byte
	Version byte
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("unexpected version magic %d (want %d), is this an iceFUN board?", e.Magic, versionMagic)
}

// TransportError reports a short or failed transfer on the serial link
type TransportError struct {
	Op   string
	Want int
	Got  int
	Err  error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("serial %s: %d of %d bytes: %v", e.Op, e.Got, e.Want, e.Err)
	}
	return fmt.Sprintf("serial %s: %d of %d bytes", e.Op, e.Got, e.Want)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// EraseFailedError is returned when the board reports a nonzero status for a
// sector erase
type EraseFailedError struct {
	Sector byte
	Status byte
}

func (e *EraseFailedError) Error() string {
	return fmt.Sprintf("erase failed for sector %02X0000, status %02X", e.Sector, e.Status)
}

// PageError is returned when a program or verify page reports a mismatch
type PageError struct {
	Op       Opcode
	Address  uint32
	Expected byte
	Actual   byte
}

func (e *PageError) Error() string {
	what := "program"
	if e.Op == OpVerifyPage {
		what = "verify"
	}
	return fmt.Sprintf("%s failed at %06X, %02X expected, %02X read", what, e.Address, e.Expected, e.Actual)
}

// ReleaseFailedError is returned when RELEASE_FPGA answers with a nonzero status
type ReleaseFailedError struct {
	Status byte
}

func (e *ReleaseFailedError) Error() string {
	return fmt.Sprintf("release fpga failed, status %02X", e.Status)
}

// FileError is returned when an image file cannot be read
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("could not read image %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
