package boot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBootROM(t *testing.T) {
	b := make([]byte, Size)
	b[0x00] = 0x31
	b[0xFF] = 0x50

	rom, err := LoadBootROM(b)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x31), rom.Read(0x00))
	assert.Equal(t, uint8(0x50), rom.Read(0xFF))
	assert.Len(t, rom.Checksum(), 32)
	assert.Equal(t, "unknown", rom.Model())

	// the ROM is copied
	b[0] = 0
	assert.Equal(t, uint8(0x31), rom.Read(0x00))
}

func TestLoadBootROM_InvalidSize(t *testing.T) {
	_, err := LoadBootROM(make([]byte, 2304))
	var sizeErr *InvalidSizeError
	require.True(t, errors.As(err, &sizeErr))
	assert.Equal(t, 2304, sizeErr.Size)
}

func TestROM_Nil(t *testing.T) {
	var rom *ROM
	assert.Equal(t, "", rom.Checksum())
	assert.Equal(t, "none", rom.Model())
}
