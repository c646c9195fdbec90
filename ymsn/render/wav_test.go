package render

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psgtools/go-ym2sn/ymsn/convert"
	"github.com/psgtools/go-ym2sn/ymsn/sn"
)

func TestWAVHeaderAndLength(t *testing.T) {
	res := &convert.Result{
		Commands: []sn.Command{
			sn.Write{Byte: 0x82}, // ch0 tone low nibble
			sn.Write{Byte: 0x1C}, // ch0 tone high bits -> divider 450
			sn.Write{Byte: 0x90}, // ch0 full volume
			sn.Wait{Samples: 882},
			sn.End{},
		},
		TargetClockHz: 4000000,
		LFSRTapBit:    15,
		FrameRate:     50,
		TotalSamples:  882,
	}

	var buf bytes.Buffer
	require.NoError(t, WAV(&buf, res))
	data := buf.Bytes()

	require.Greater(t, len(data), 44)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, uint32(len(data)-8), binary.LittleEndian.Uint32(data[4:]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:]))  // mono
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(data[24:]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(data[34:])) // bit depth

	dataLen := binary.LittleEndian.Uint32(data[40:])
	assert.Equal(t, int(dataLen), len(data)-44)

	// One 882-sample frame plus the tail-off after End.
	samples := int(dataLen) / 2
	assert.InDelta(t, 882+4410, samples, 2)
}

func TestWAVProducesSignal(t *testing.T) {
	res := &convert.Result{
		Commands: []sn.Command{
			sn.Write{Byte: 0x82},
			sn.Write{Byte: 0x1C},
			sn.Write{Byte: 0x90},
			sn.Wait{Samples: 4410},
			sn.End{},
		},
		TargetClockHz: 4000000,
		LFSRTapBit:    15,
	}

	var buf bytes.Buffer
	require.NoError(t, WAV(&buf, res))
	pcm := buf.Bytes()[44:]

	nonZero := 0
	for i := 0; i+1 < len(pcm); i += 2 {
		if int16(binary.LittleEndian.Uint16(pcm[i:])) != 0 {
			nonZero++
		}
	}
	// A 278 Hz square wave at full volume spends about half its time
	// high; a silent render would mean the chip never saw the writes.
	assert.Greater(t, nonZero, len(pcm)/8)
}
