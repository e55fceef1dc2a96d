package flash

import (
	"github.com/pkg/errors"
)

// exchange will send one frame and read the fixed length answer for its opcode
func (b *Board) exchange(frame []byte) ([]byte, error) {
	op := Opcode(frame[0])
	if err := b.write(frame); err != nil {
		return nil, errors.Wrapf(err, "send %s", op)
	}
	resp, err := b.readN(responseLength(op))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s response", op)
	}
	return resp, nil
}

// cmdGetVersion will check the board answers with the iceFUN magic byte and
// return its firmware version
func (b *Board) cmdGetVersion() (byte, error) {
	resp, err := b.exchange(encodeCommand(OpGetVersion))
	if err != nil {
		return 0, err
	}
	if resp[0] != versionMagic {
		return 0, &VersionMismatchError{Magic: resp[0], Version: resp[1]}
	}
	return resp[1], nil
}

// cmdResetFPGA will hold the FPGA in reset and return the flash ID bytes
func (b *Board) cmdResetFPGA() ([3]byte, error) {
	var id [3]byte
	resp, err := b.exchange(encodeCommand(OpResetFPGA))
	if err != nil {
		return id, err
	}
	copy(id[:], resp)
	return id, nil
}

// cmdErase64k will erase a single 64k sector
func (b *Board) cmdErase64k(sector byte) error {
	resp, err := b.exchange(encodeErase(sector))
	if err != nil {
		return err
	}
	if resp[0] != 0 {
		return &EraseFailedError{Sector: sector, Status: resp[0]}
	}
	return nil
}

// cmdPage will send a PROG_PAGE or VERIFY_PAGE frame for the page at addr
func (b *Board) cmdPage(op Opcode, addr uint32, data []byte) error {
	resp, err := b.exchange(encodePage(op, addr, data))
	if err != nil {
		return err
	}
	ps := decodePageStatus(addr, resp)
	if !ps.OK() {
		return &PageError{Op: op, Address: ps.Address, Expected: ps.Expected, Actual: ps.Actual}
	}
	return nil
}

// cmdReleaseFPGA will let the FPGA boot from flash
func (b *Board) cmdReleaseFPGA() error {
	resp, err := b.exchange(encodeCommand(OpReleaseFPGA))
	if err != nil {
		return err
	}
	if resp[0] != 0 {
		return &ReleaseFailedError{Status: resp[0]}
	}
	return nil
}
