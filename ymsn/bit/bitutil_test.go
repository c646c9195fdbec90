package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	assert.Equal(t, uint16(0xBEEF), Combine(0xBE, 0xEF))
	assert.Equal(t, uint16(0x0001), Combine(0x00, 0x01))
}

func TestCombine12(t *testing.T) {
	tests := []struct {
		name      string
		high, low uint8
		expected  uint16
	}{
		{"low byte only", 0x00, 0xC2, 0x0C2},
		{"full 12 bits", 0x0F, 0xFF, 0xFFF},
		{"effect bits masked", 0xF1, 0xC2, 0x1C2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Combine12(tt.high, tt.low))
		})
	}
}

func TestIsSet(t *testing.T) {
	assert.True(t, IsSet(0, 0x01))
	assert.True(t, IsSet(7, 0x80))
	assert.False(t, IsSet(3, 0xF7))
}

func TestLowHigh(t *testing.T) {
	assert.Equal(t, uint8(0xEF), Low(0xBEEF))
	assert.Equal(t, uint8(0xBE), High(0xBEEF))
}

func TestExtractBits(t *testing.T) {
	assert.Equal(t, uint8(0b101), ExtractBits(0b11010110, 6, 4))
	assert.Equal(t, uint8(0b11), ExtractBits(0b11010110, 2, 1))
}
