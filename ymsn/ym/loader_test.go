package ym

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildYM5 assembles a minimal interleaved YM5 container.
func buildYM5(t *testing.T, frames []Frame, loopFrame int) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("YM5!")
	buf.WriteString("LeOnArD!")
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(len(frames))))
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(1))) // interleaved
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint16(0))) // digidrums
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(2000000)))
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint16(50)))
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(loopFrame)))
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint16(0))) // extra data
	buf.WriteString("Test Song\x00")
	buf.WriteString("Test Author\x00")
	buf.WriteString("Test Comment\x00")

	// 16 register streams, register-major.
	for r := 0; r < 16; r++ {
		for _, f := range frames {
			if r < RegCount {
				buf.WriteByte(f.Regs[r])
			} else {
				buf.WriteByte(0)
			}
		}
	}
	buf.WriteString("End!")
	return buf.Bytes()
}

func TestLoadYM5(t *testing.T) {
	frames := []Frame{
		{Regs: [RegCount]uint8{0xC2, 0x01, 0, 0, 0xFF, 0x0F, 0x10, 0x3E, 0x0F, 0, 0, 0x34, 0x12, 0xFF}},
		{Regs: [RegCount]uint8{0x1C, 0x01, 0, 0, 0, 0, 0, 0x3F, 0x10, 0, 0, 0, 0x08, 0x0C}},
	}
	song, err := Load(bytes.NewReader(buildYM5(t, frames, 1)))
	require.NoError(t, err)

	h := song.Header
	assert.Equal(t, "YM5!", h.Format)
	assert.Equal(t, 2, h.FrameCount)
	assert.Equal(t, 2000000, h.ChipClock)
	assert.Equal(t, 50, h.FrameRate)
	assert.Equal(t, 1, h.LoopFrame)
	assert.True(t, h.Interleaved)
	assert.Equal(t, "Test Song", h.Title)
	assert.Equal(t, "Test Author", h.Author)
	assert.Equal(t, "Test Comment", h.Comment)

	require.Len(t, song.Frames, 2)
	assert.Equal(t, frames[0], song.Frames[0])
	assert.Equal(t, frames[1], song.Frames[1])
}

func TestLoadYM3(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("YM3!")
	// 3 frames, register-major: R0 = 1,2,3 and the rest zero.
	buf.Write([]byte{1, 2, 3})
	buf.Write(make([]byte, 13*3))

	song, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, "YM3!", song.Header.Format)
	assert.Equal(t, 3, song.Header.FrameCount)
	assert.Equal(t, defaultClock, song.Header.ChipClock)
	assert.Equal(t, defaultFrameRate, song.Header.FrameRate)
	require.Len(t, song.Frames, 3)
	assert.Equal(t, uint8(2), song.Frames[1].Regs[RegToneALo])
}

func TestLoadRejectsCompressed(t *testing.T) {
	// LHA archives carry "-lh5-" at offset 2.
	_, err := Load(bytes.NewReader([]byte{0x1E, 0x0D, '-', 'l', 'h', '5', '-', 0}))
	assert.ErrorIs(t, err, ErrCompressed)
}

func TestLoadRejectsUnknownMagic(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("MOD!xxxxxxxx")))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFrameAccessors(t *testing.T) {
	var f Frame
	f.Regs[RegToneALo] = 0xC2
	f.Regs[RegToneAHi] = 0x01
	f.Regs[RegToneCLo] = 0xFF
	f.Regs[RegToneCHi] = 0xFF // effect bits in the top nibble
	f.Regs[RegNoise] = 0xF0   // timer bits above the 5-bit divider
	f.Regs[RegMixer] = 0x3E   // tone A on, everything else off
	f.Regs[RegLevelA] = 0x1F  // envelope mode
	f.Regs[RegLevelB] = 0x0A
	f.Regs[RegEnvLo] = 0x34
	f.Regs[RegEnvHi] = 0x12
	f.Regs[RegEnvShape] = 0xFF

	assert.Equal(t, uint16(0x1C2), f.TonePeriod(0))
	assert.Equal(t, uint16(0xFFF), f.TonePeriod(2))
	assert.Equal(t, uint8(0x10), f.NoisePeriod())

	assert.True(t, f.ToneEnabled(0))
	assert.False(t, f.ToneEnabled(1))
	assert.False(t, f.NoiseEnabled(0))

	assert.True(t, f.EnvSelected(0))
	assert.False(t, f.EnvSelected(1))
	assert.Equal(t, uint8(0x0F), f.Level(0))
	assert.Equal(t, uint8(0x0A), f.Level(1))

	assert.Equal(t, uint16(0x1234), f.EnvPeriod())
	assert.False(t, f.ShapeWritten())

	f.Regs[RegEnvShape] = 0x0C
	assert.True(t, f.ShapeWritten())
	assert.Equal(t, uint8(0x0C), f.EnvShape())
}
