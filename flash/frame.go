package flash

// Opcode is the first byte of every request sent to the iceFUN firmware
type Opcode byte

const (
	OpDone Opcode = 0xb0 + iota
	OpGetVersion
	OpResetFPGA
	OpEraseChip
	OpErase64k
	OpProgramPage
	OpReadPage
	OpVerifyPage
	OpGetCDONE
	OpReleaseFPGA
)

const (
	PageSize   = 256
	SectorSize = 64 * 1024

	pageShift   = 8
	sectorShift = 16

	// addressable range of a 24-bit address with a one byte sector index
	maxCapacity = 1 << 24

	versionMagic byte = 38

	pageHeaderLen = 4
	pageFrameLen  = pageHeaderLen + PageSize
)

var opcodeNames = map[Opcode]string{
	OpDone:        "DONE",
	OpGetVersion:  "GET_VER",
	OpResetFPGA:   "RESET_FPGA",
	OpEraseChip:   "ERASE_CHIP",
	OpErase64k:    "ERASE_64k",
	OpProgramPage: "PROG_PAGE",
	OpReadPage:    "READ_PAGE",
	OpVerifyPage:  "VERIFY_PAGE",
	OpGetCDONE:    "GET_CDONE",
	OpReleaseFPGA: "RELEASE_FPGA",
}

func (o Opcode) String() string {
	if s, ok := opcodeNames[o]; ok {
		return s
	}
	return "UNKNOWN"
}

// responseLength will return the number of bytes the board answers with for
// the given opcode, or 0 for opcodes the programmer never sends
func responseLength(op Opcode) int {
	switch op {
	case OpGetVersion:
		return 2
	case OpResetFPGA:
		return 3
	case OpErase64k, OpReleaseFPGA:
		return 1
	case OpProgramPage, OpVerifyPage:
		return 4
	}
	return 0
}

func encodeCommand(op Opcode) []byte {
	return []byte{byte(op)}
}

func encodeErase(sector byte) []byte {
	return []byte{byte(OpErase64k), sector}
}

// encodePage will build a PROG_PAGE or VERIFY_PAGE frame carrying one page of
// data at a 24-bit big endian address. data must be exactly one page.
func encodePage(op Opcode, addr uint32, data []byte) []byte {
	if len(data) != PageSize {
		panic("page frame needs exactly one page of data")
	}
	frame := make([]byte, pageFrameLen)
	frame[0] = byte(op)
	frame[1] = byte(addr >> 16)
	frame[2] = byte(addr >> 8)
	frame[3] = byte(addr)
	copy(frame[pageHeaderLen:], data)
	return frame
}

// pageStatus is the decoded answer to a PROG_PAGE or VERIFY_PAGE frame
type pageStatus struct {
	Status   byte
	Address  uint32
	Expected byte
	Actual   byte
}

func (ps pageStatus) OK() bool {
	return ps.Status == 0
}

// decodePageStatus will decode a 4 byte page response. The second byte is the
// index of the offending byte within the request frame, so the header length
// is taken off to get back to a flash address.
func decodePageStatus(pageAddr uint32, resp []byte) pageStatus {
	ps := pageStatus{
		Status:   resp[0],
		Address:  pageAddr,
		Expected: resp[2],
		Actual:   resp[3],
	}
	if idx := int(resp[1]); idx >= pageHeaderLen {
		ps.Address += uint32(idx - pageHeaderLen)
	}
	return ps
}
