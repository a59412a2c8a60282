package rom

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeFlatROM(t *testing.T) {
	assert := assert.New(t)

	image, err := MakeFlatROM([]byte{1, 2}, []byte{3}, 6, 0xFF)
	assert.NoError(err)
	assert.Equal([]byte{1, 2, 3, 0xFF, 0xFF, 0xFF}, image)
}

func TestMakeFlatROMUnpadded(t *testing.T) {
	assert := assert.New(t)

	image, err := MakeFlatROM([]byte{1, 2}, []byte{3}, 0, 0xFF)
	assert.NoError(err)
	assert.Equal([]byte{1, 2, 3}, image)
}

func TestMakeFlatROMTooLarge(t *testing.T) {
	assert := assert.New(t)

	_, err := MakeFlatROM([]byte{1, 2, 3}, []byte{4}, 3, 0x00)
	var toolarge ErrImageTooLarge
	assert.ErrorAs(err, &toolarge)
	assert.Equal(4, toolarge.Size)
	assert.Equal(uint32(3), toolarge.RomSize)
}

func TestWriteBIN(t *testing.T) {
	assert := assert.New(t)

	path := t.TempDir() + "/unit.bin"
	assert.NoError(WriteBIN(path, []byte{0xDE, 0xAD}))

	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal([]byte{0xDE, 0xAD}, data)
}
