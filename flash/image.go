package flash

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcinbor85/gohex"
	"github.com/pkg/errors"
)

// Image is the flash contents to be programmed, indexed by absolute flash
// address. Offset and Length mark the part loaded from the image file.
type Image struct {
	Data   []byte
	Offset uint32
	Length uint32
}

// NewImage will allocate an empty image for a flash of the given size
func NewImage(capacity uint32) (*Image, error) {
	if capacity == 0 || capacity%SectorSize != 0 {
		return nil, errors.Errorf("flash capacity %d is not a whole number of 64k sectors", capacity)
	}
	if capacity > maxCapacity {
		return nil, errors.Errorf("flash capacity %d exceeds 24-bit addressing", capacity)
	}
	return &Image{Data: make([]byte, capacity)}, nil
}

// Capacity will return the size of the flash the image was made for
func (img *Image) Capacity() uint32 {
	return uint32(len(img.Data))
}

// Bytes will return the loaded part of the image
func (img *Image) Bytes() []byte {
	return img.Data[img.Offset : img.Offset+img.Length]
}

// LoadReader will copy a raw binary image from r into flash at offset and
// return the number of bytes read
func (img *Image) LoadReader(r io.Reader, offset uint32) (uint32, error) {
	if offset > img.Capacity() {
		return 0, errors.Wrapf(ErrImageTooLarge, "offset %06X", offset)
	}

	n, err := io.ReadFull(r, img.Data[offset:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, err
	}
	if err == nil {
		// filled to the end of flash, anything more does not fit
		var probe [1]byte
		if m, _ := r.Read(probe[:]); m > 0 {
			return 0, errors.Wrapf(ErrImageTooLarge, "offset %06X", offset)
		}
	}

	img.Offset = offset
	img.Length = uint32(n)

	return img.Length, nil
}

// Load will read a raw binary image file into flash at offset
func (img *Image) Load(path string, offset uint32) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &FileError{Path: path, Err: err}
	}
	defer f.Close()

	n, err := img.LoadReader(f, offset)
	if err != nil {
		if errors.Is(err, ErrImageTooLarge) {
			return 0, err
		}
		return 0, &FileError{Path: path, Err: err}
	}
	return n, nil
}

// LoadHex will read an Intel HEX image. Record addresses are relative to
// offset, and the loaded range spans the lowest to the highest data byte.
func (img *Image) LoadHex(path string, offset uint32) (uint32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, &FileError{Path: path, Err: err}
	}

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(bytes.NewReader(raw)); err != nil {
		return 0, &FileError{Path: path, Err: err}
	}

	segs := mem.GetDataSegments()
	if len(segs) == 0 {
		img.Offset, img.Length = offset, 0
		return 0, nil
	}

	lo, hi := uint64(segs[0].Address), uint64(0)
	for _, s := range segs {
		if a := uint64(s.Address); a < lo {
			lo = a
		}
		if e := uint64(s.Address) + uint64(len(s.Data)); e > hi {
			hi = e
		}
	}
	if uint64(offset)+hi > uint64(img.Capacity()) {
		return 0, errors.Wrapf(ErrImageTooLarge, "hex data ends at %06X", uint64(offset)+hi)
	}

	for _, s := range segs {
		copy(img.Data[offset+s.Address:], s.Data)
	}

	img.Offset = offset + uint32(lo)
	img.Length = uint32(hi - lo)

	return img.Length, nil
}

// isHexFile will report whether the path names an Intel HEX file
func isHexFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihx":
		return true
	}
	return false
}

// LoadImageFile will allocate an image for a flash of the given capacity and
// load path into it at offset, as Intel HEX when the extension says so and as
// raw binary otherwise
func LoadImageFile(path string, offset, capacity uint32) (*Image, error) {
	img, err := NewImage(capacity)
	if err != nil {
		return nil, err
	}

	if isHexFile(path) {
		_, err = img.LoadHex(path, offset)
	} else {
		_, err = img.Load(path, offset)
	}
	if err != nil {
		return nil, err
	}

	return img, nil
}
