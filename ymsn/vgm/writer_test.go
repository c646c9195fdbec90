package vgm

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psgtools/go-ym2sn/ymsn/convert"
	"github.com/psgtools/go-ym2sn/ymsn/sn"
)

func testResult() *convert.Result {
	return &convert.Result{
		Commands: []sn.Command{
			sn.Write{Byte: 0x8F},
			sn.Wait{Samples: 882},
			sn.LoopStart{},
			sn.Write{Byte: 0x90},
			sn.Wait{Samples: 882},
			sn.End{},
		},
		FrameRate:     50,
		TargetClockHz: 4000000,
		LFSRTapBit:    15,
		TotalSamples:  1764,
		LoopSamples:   882,
		HasLoop:       true,
	}
}

func u32(data []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(data[off:])
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testResult(), Metadata{Title: "Tune"}))
	data := buf.Bytes()

	assert.Equal(t, "Vgm ", string(data[:4]))
	assert.Equal(t, uint32(len(data)-4), u32(data, 0x04))
	assert.Equal(t, uint32(0x151), u32(data, 0x08))
	assert.Equal(t, uint32(4000000), u32(data, 0x0C))
	assert.Equal(t, uint32(1764), u32(data, 0x18))
	assert.Equal(t, uint32(882), u32(data, 0x20))
	assert.Equal(t, uint32(50), u32(data, 0x24))
	assert.Equal(t, uint16(0x0003), binary.LittleEndian.Uint16(data[0x28:]))
	assert.Equal(t, uint8(15), data[0x2A])
	// Data begins right after the 0x40-byte header.
	assert.Equal(t, uint32(0x0C), u32(data, 0x34))
}

func TestWriteCommands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testResult(), Metadata{}))
	data := buf.Bytes()

	// 0x50 0x8F write, 0x63 frame wait, then the post-loop commands.
	assert.Equal(t, []byte{0x50, 0x8F, 0x63, 0x50, 0x90, 0x63, 0x66}, data[0x40:0x47])
}

func TestWriteLoopOffset(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testResult(), Metadata{}))
	data := buf.Bytes()

	// The loop lands after the first write (2 bytes) and wait (1 byte).
	assert.Equal(t, uint32(0x40+3-0x1C), u32(data, 0x1C))
}

func TestWriteNoLoop(t *testing.T) {
	res := testResult()
	res.HasLoop = false
	res.Commands = []sn.Command{sn.Write{Byte: 0x8F}, sn.Wait{Samples: 882}, sn.End{}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res, Metadata{}))
	data := buf.Bytes()
	assert.Equal(t, uint32(0), u32(data, 0x1C))
	assert.Equal(t, uint32(0), u32(data, 0x20))
}

func TestWaitEncodings(t *testing.T) {
	tests := []struct {
		name     string
		samples  int
		expected []byte
	}{
		{"50Hz frame", 882, []byte{0x63}},
		{"60Hz frame", 735, []byte{0x62}},
		{"short wait", 3, []byte{0x72}},
		{"sixteen", 16, []byte{0x7F}},
		{"general", 1000, []byte{0x61, 0xE8, 0x03}},
		{"split", 0x10000, []byte{0x61, 0xFF, 0xFF, 0x70}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeWait(&buf, tt.samples)
			assert.Equal(t, tt.expected, buf.Bytes())
		})
	}
}

func TestGD3Tag(t *testing.T) {
	var buf bytes.Buffer
	meta := Metadata{Title: "Mad Max Tüne", Author: "Author"}
	require.NoError(t, Write(&buf, testResult(), meta))
	data := buf.Bytes()

	gd3Off := int(u32(data, 0x14)) + 0x14
	require.Less(t, gd3Off, len(data))
	assert.Equal(t, "Gd3 ", string(data[gd3Off:gd3Off+4]))
	assert.Equal(t, uint32(0x100), u32(data, gd3Off+4))

	// Strings are UTF-16LE with non-ASCII squashed, so the Atari
	// charset never leaks into players.
	payload := data[gd3Off+12:]
	title := decodeUTF16String(t, payload)
	assert.Equal(t, "Mad Max T?ne", title)
}

func decodeUTF16String(t *testing.T, b []byte) string {
	t.Helper()
	var out []rune
	for i := 0; i+1 < len(b); i += 2 {
		v := binary.LittleEndian.Uint16(b[i:])
		if v == 0 {
			return string(out)
		}
		out = append(out, rune(v))
	}
	t.Fatal("unterminated GD3 string")
	return ""
}

func TestSanitizeASCII(t *testing.T) {
	assert.Equal(t, "plain", sanitizeASCII("plain"))
	assert.Equal(t, "a?b", sanitizeASCII("a\tb"))
	assert.Equal(t, "caf?", sanitizeASCII("café"))
}
