package flash

import (
	"fmt"

	"github.com/pkg/errors"
)

// progressEvery is the number of pages between progress reports
const progressEvery = 10

// Phase names the step of a programming session
type Phase string

const (
	PhaseErase   Phase = "erase"
	PhaseProgram Phase = "program"
	PhaseVerify  Phase = "verify"
)

// Progress is passed to the progress callback. Done counts finished units
// (sectors while erasing, pages otherwise) out of Total.
type Progress struct {
	Phase Phase
	Done  int
	Total int
}

// ProgressFunc is called from the programming loop and must return quickly
type ProgressFunc func(Progress)

// sectorRange will return the first and last sector touched by an image of
// length bytes at offset. The last sector is inclusive, so an image ending
// exactly on a boundary also erases the next sector unless that sector is past
// the end of the flash.
func sectorRange(offset, length, capacity uint32) (first, last uint32) {
	first = offset >> sectorShift
	last = min((offset+length)>>sectorShift, capacity>>sectorShift-1)
	return
}

// pageCount will return the number of pages needed for length bytes
func pageCount(length uint32) uint32 {
	return divCeil(length, uint32(PageSize))
}

// checkRange will make sure the image lies inside the flash and that buf
// holds every full page the loops will read
func (b *Board) checkRange(buf []byte, offset, length uint32) error {
	if b.config.Capacity > maxCapacity {
		return errors.Wrapf(ErrOutOfRange, "capacity %d exceeds 24-bit addressing", b.config.Capacity)
	}
	end := uint64(offset) + uint64(length)
	if end > uint64(b.config.Capacity) {
		return errors.Wrapf(ErrOutOfRange, "%06X+%d exceeds %d bytes", offset, length, b.config.Capacity)
	}
	if padded := uint64(offset) + uint64(alignUp(length, uint32(PageSize))); padded > uint64(len(buf)) {
		return errors.Wrapf(ErrOutOfRange, "buffer of %d bytes is short of page end %06X", len(buf), padded)
	}
	return nil
}

func (b *Board) report(phase Phase, done, total int) {
	if b.config.Progress == nil {
		return
	}
	if done%progressEvery == 0 || done == total {
		b.config.Progress(Progress{Phase: phase, Done: done, Total: total})
	}
}

// Program will write length bytes of buf starting at offset into flash. buf
// is indexed by absolute flash address. The sequence is version check, reset,
// sector erase, page program, optional page verify and release; it stops at
// the first failure and nothing is retried.
func (b *Board) Program(buf []byte, offset, length uint32, verify bool) error {
	if err := b.checkRange(buf, offset, length); err != nil {
		return err
	}

	version, err := b.cmdGetVersion()
	if err != nil {
		return errors.Wrap(err, "could not get version")
	}
	b.version = version
	b.log.Infof("iceFUN v%d", version)

	if b.flashID, err = b.cmdResetFPGA(); err != nil {
		return errors.Wrap(err, "could not reset fpga")
	}
	b.log.Infof("flash ID %02X %02X %02X", b.flashID[0], b.flashID[1], b.flashID[2])

	if err := b.eraseSectors(offset, length); err != nil {
		return errors.Wrap(err, "could not erase flash")
	}

	b.log.Infof("file size: %d", length)

	if err := b.pages(OpProgramPage, PhaseProgram, buf, offset, length); err != nil {
		return err
	}

	if verify {
		if err := b.pages(OpVerifyPage, PhaseVerify, buf, offset, length); err != nil {
			return err
		}
	} else {
		b.log.Info("skipping verify")
	}

	if err := b.cmdReleaseFPGA(); err != nil {
		return errors.Wrap(err, "could not release fpga")
	}
	b.log.Info("done")

	return nil
}

func (b *Board) eraseSectors(offset, length uint32) error {
	first, last := sectorRange(offset, length, b.config.Capacity)
	total := int(last - first + 1)

	for s := first; s <= last; s++ {
		b.log.Infof("erasing sector %02X0000", s)
		if err := b.cmdErase64k(byte(s)); err != nil {
			return err
		}
		b.report(PhaseErase, int(s-first+1), total)
	}

	return nil
}

// pages will run op over every page of the image, always sending a full page
// from buf even when the image ends part way through it
func (b *Board) pages(op Opcode, phase Phase, buf []byte, offset, length uint32) error {
	total := int(pageCount(length))
	end := offset + length

	b.log.Debugf("starting %s of %d pages at %06X", phase, total, offset)

	done := 0
	for addr := offset; addr < end; addr += PageSize {
		if err := b.cmdPage(op, addr, buf[addr:addr+PageSize]); err != nil {
			return errors.Wrap(err, fmt.Sprintf("could not %s page %06X", phase, addr))
		}
		done++
		b.report(phase, done, total)
	}

	return nil
}
