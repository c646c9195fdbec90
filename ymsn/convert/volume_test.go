package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWideLevel(t *testing.T) {
	// The 4-bit register level expands to the envelope's 5-bit scale
	// with the low bit filled, so 15 reaches true full volume.
	assert.Equal(t, uint8(0), wideLevel(0))
	assert.Equal(t, uint8(20), wideLevel(10))
	assert.Equal(t, uint8(24), wideLevel(12))
	assert.Equal(t, uint8(31), wideLevel(15))
}

func TestAttenuationTableMode(t *testing.T) {
	m := volumeMapper{}
	tests := []struct {
		name     string
		level    uint8
		expected uint8
	}{
		{"silence", 0, 15},
		{"full volume", 31, 0},
		{"fixed level 10", wideLevel(10), 7},
		{"fixed level 12", wideLevel(12), 4},
		{"fixed level 8", wideLevel(8), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.Attenuation(tt.level))
		})
	}
}

func TestAttenuationNeverQuieterThanTarget(t *testing.T) {
	// The table match rounds toward the louder SN step so converted
	// tunes never lose presence.
	m := volumeMapper{}
	for level := uint8(1); level < 32; level++ {
		a := m.Attenuation(level)
		target := int32(ymAmplitude[level] * 32767.0)
		assert.GreaterOrEqual(t, snAmplitude[15-a], target, "level %d", level)
	}
}

func TestAttenuationMonotonic(t *testing.T) {
	m := volumeMapper{}
	prev := m.Attenuation(1)
	for level := uint8(2); level < 32; level++ {
		cur := m.Attenuation(level)
		assert.LessOrEqual(t, cur, prev, "level %d", level)
		prev = cur
	}
}

func TestAttenuationForcedMode(t *testing.T) {
	m := volumeMapper{forceAttenuation: true}
	// YM runs -0.75 dB per 5-bit step against the SN's -2 dB steps.
	assert.Equal(t, uint8(15), m.Attenuation(0))
	assert.Equal(t, uint8(0), m.Attenuation(31))
	assert.Equal(t, uint8(4), m.Attenuation(20)) // 11 * 0.75 / 2 = 4.125
	assert.Equal(t, uint8(11), m.Attenuation(1)) // 30 * 0.75 / 2 = 11.25
}
