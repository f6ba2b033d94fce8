package ram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRAM(t *testing.T) {
	r := NewRAM(0x80)
	assert.Equal(t, 0x80, r.Size())
	assert.Equal(t, uint8(0), r.Read(0x7F))

	r.Write(0x7F, 0x42)
	assert.Equal(t, uint8(0x42), r.Read(0x7F))
	assert.Panics(t, func() { r.Read(0x80) })
}
