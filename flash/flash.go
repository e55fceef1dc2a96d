package flash

// FlashFile will load the requested image file and program it into flash at
// the provided offset
func (b *Board) FlashFile(filePath string, offset uint32, verify bool) error {
	img, err := LoadImageFile(filePath, offset, b.Capacity())
	if err != nil {
		return err
	}
	return b.FlashImage(img, verify)
}

// FlashImage will program the loaded part of the image into flash
func (b *Board) FlashImage(img *Image, verify bool) error {
	if !b.IsOpen() {
		if err := b.Open(); err != nil {
			return err
		}
		defer b.Close()
	}

	return b.Program(img.Data, img.Offset, img.Length, verify)
}
