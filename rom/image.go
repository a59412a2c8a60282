// Package rom composes and writes flat CPU8 ROM images.
package rom

import (
	"os"

	"github.com/draklowell/Cpu8/translate"
)

var f = translate.From

type ErrImageTooLarge struct {
	Size    int
	RomSize uint32
}

func (err ErrImageTooLarge) Error() string {
	return f("ROM image exceeds configured size (%v > %v)", err.Size, err.RomSize)
}

// MakeFlatROM concatenates text and rodata and, when romSize is
// non-zero, pads the result with fill to exactly romSize bytes.
func MakeFlatROM(text, rodata []byte, romSize uint32, fill byte) ([]byte, error) {
	image := make([]byte, 0, len(text)+len(rodata))
	image = append(image, text...)
	image = append(image, rodata...)

	if romSize == 0 {
		return image, nil
	}
	if uint64(len(image)) > uint64(romSize) {
		return nil, ErrImageTooLarge{Size: len(image), RomSize: romSize}
	}
	for uint32(len(image)) < romSize {
		image = append(image, fill)
	}
	return image, nil
}

// WriteBIN writes the image to path in one shot.
func WriteBIN(path string, image []byte) error {
	return os.WriteFile(path, image, 0o644)
}
