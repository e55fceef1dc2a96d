package flash

import (
	"bytes"

	"github.com/sirupsen/logrus"
)

// fakeBoard simulates the iceFUN firmware and its flash chip. Requests are
// collected from Write and answered into a buffer drained by Read; an empty
// buffer reads as a timeout.
type fakeBoard struct {
	flash []byte

	magic   byte
	version byte
	id      [3]byte

	eraseStatus   byte
	releaseStatus byte

	// failProgram makes PROG_PAGE at the given page address answer with the
	// status and echoed index
	failProgram map[uint32][2]byte
	// stuckZero is ANDed into every programmed byte to model a bad cell
	stuckZero byte

	// mute stops all answers once set
	mute bool

	in  bytes.Buffer
	out bytes.Buffer

	ops     []Opcode
	erased  []byte
	written []uint32
	checked []uint32
}

func newFakeBoard(capacity int) *fakeBoard {
	f := &fakeBoard{
		flash:       bytes.Repeat([]byte{0xff}, capacity),
		magic:       versionMagic,
		version:     2,
		id:          [3]byte{0xef, 0x40, 0x14},
		stuckZero:   0xff,
		failProgram: map[uint32][2]byte{},
	}
	return f
}

func (f *fakeBoard) Write(p []byte) (int, error) {
	f.in.Write(p)
	for f.step() {
	}
	return len(p), nil
}

func (f *fakeBoard) Read(p []byte) (int, error) {
	if f.out.Len() == 0 {
		return 0, nil
	}
	return f.out.Read(p)
}

func (f *fakeBoard) answer(bs ...byte) {
	if !f.mute {
		f.out.Write(bs)
	}
}

// step will handle one complete request if one is buffered
func (f *fakeBoard) step() bool {
	buf := f.in.Bytes()
	if len(buf) == 0 {
		return false
	}

	op := Opcode(buf[0])
	need := 1
	switch op {
	case OpErase64k:
		need = 2
	case OpProgramPage, OpVerifyPage:
		need = pageFrameLen
	}
	if len(buf) < need {
		return false
	}
	frame := make([]byte, need)
	f.in.Read(frame)
	f.ops = append(f.ops, op)

	switch op {
	case OpGetVersion:
		f.answer(f.magic, f.version)
	case OpResetFPGA:
		f.answer(f.id[:]...)
	case OpErase64k:
		sector := frame[1]
		f.erased = append(f.erased, sector)
		start := int(sector) * SectorSize
		for i := start; i < start+SectorSize && i < len(f.flash); i++ {
			f.flash[i] = 0xff
		}
		f.answer(f.eraseStatus)
	case OpProgramPage:
		addr := uint32(frame[1])<<16 | uint32(frame[2])<<8 | uint32(frame[3])
		f.written = append(f.written, addr)
		if fail, ok := f.failProgram[addr]; ok {
			idx := int(fail[1])
			f.answer(fail[0], fail[1], frame[idx], ^frame[idx])
			return true
		}
		for i, b := range frame[pageHeaderLen:] {
			f.flash[int(addr)+i] &= b & f.stuckZero
		}
		f.answer(0, 0, 0, 0)
	case OpVerifyPage:
		addr := uint32(frame[1])<<16 | uint32(frame[2])<<8 | uint32(frame[3])
		f.checked = append(f.checked, addr)
		for i, b := range frame[pageHeaderLen:] {
			if got := f.flash[int(addr)+i]; got != b {
				f.answer(1, byte(i+pageHeaderLen), b, got)
				return true
			}
		}
		f.answer(0, 0, 0, 0)
	case OpReleaseFPGA:
		f.answer(f.releaseStatus)
	}

	return true
}

func (f *fakeBoard) count(op Opcode) int {
	n := 0
	for _, o := range f.ops {
		if o == op {
			n++
		}
	}
	return n
}

func (f *fakeBoard) reset() {
	f.ops, f.erased, f.written, f.checked = nil, nil, nil, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestBoard(f *fakeBoard, c *Config) *Board {
	if c == nil {
		c = &Config{}
	}
	if c.Logger == nil {
		c.Logger = quietLogger()
	}
	b := NewBoard(c)
	b.Attach(f)
	return b
}

// testImage will fill length bytes at offset with a counting pattern
func testImage(capacity int, offset, length uint32) []byte {
	buf := make([]byte, capacity)
	for i := uint32(0); i < length; i++ {
		buf[offset+i] = byte(i*7 + 1)
	}
	return buf
}
