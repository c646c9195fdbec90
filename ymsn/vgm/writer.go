// Package vgm encodes a converted SN command stream as a VGM 1.51
// file: fixed header, command data, optional loop point and GD3 tag.
package vgm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf16"

	"github.com/psgtools/go-ym2sn/ymsn/convert"
	"github.com/psgtools/go-ym2sn/ymsn/sn"
)

const (
	version      = 0x00000151
	headerSize   = 0x40
	sampleRate   = 44100
	snFeedback   = 0x0003 // white-noise tap mask for the TI/BBC part
	creditString = "go-ym2sn"

	cmdPSGWrite  = 0x50
	cmdWait      = 0x61
	cmdWait60th  = 0x62
	cmdWait50th  = 0x63
	cmdEnd       = 0x66
	cmdWaitShort = 0x70 // 0x7n waits n+1 samples
)

// Metadata fills the GD3 tag. Empty fields are written as empty
// strings, which players render as unknown; an empty System is
// written as "YM2149".
type Metadata struct {
	Title   string
	Author  string
	Comment string
	System  string
}

// Write encodes the result as a complete VGM file.
func Write(w io.Writer, res *convert.Result, meta Metadata) error {
	data, loopOffset := encodeCommands(res.Commands)

	gd3 := encodeGD3(meta)
	gd3Offset := headerSize + len(data)

	var hdr bytes.Buffer
	hdr.WriteString("Vgm ")
	writeU32 := func(v uint32) { binary.Write(&hdr, binary.LittleEndian, v) }

	writeU32(uint32(headerSize + len(data) + len(gd3) - 4)) // EoF offset
	writeU32(version)
	writeU32(uint32(res.TargetClockHz))
	writeU32(0)                        // YM2413 clock
	writeU32(uint32(gd3Offset - 0x14)) // GD3 offset
	writeU32(uint32(res.TotalSamples))
	if res.HasLoop && loopOffset >= 0 {
		writeU32(uint32(headerSize + loopOffset - 0x1C))
		writeU32(uint32(res.LoopSamples))
	} else {
		writeU32(0)
		writeU32(0)
	}
	writeU32(uint32(res.FrameRate))
	binary.Write(&hdr, binary.LittleEndian, uint16(snFeedback))
	hdr.WriteByte(uint8(res.LFSRTapBit))
	hdr.WriteByte(0)                       // SN flags
	writeU32(0)                            // YM2612 clock
	writeU32(0)                            // YM2151 clock
	writeU32(uint32(headerSize - 0x34))    // VGM data offset
	writeU32(0)                            // Sega PCM clock
	writeU32(0)                            // Sega PCM interface

	if hdr.Len() != headerSize {
		return fmt.Errorf("vgm: header size %d, want %d", hdr.Len(), headerSize)
	}

	for _, chunk := range [][]byte{hdr.Bytes(), data, gd3} {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("vgm: writing output: %w", err)
		}
	}
	return nil
}

// encodeCommands lowers the logical stream to wire bytes and returns
// the loop point's offset into the data block (-1 when no loop).
func encodeCommands(cmds []sn.Command) ([]byte, int) {
	var buf bytes.Buffer
	loopOffset := -1

	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case sn.Write:
			buf.WriteByte(cmdPSGWrite)
			buf.WriteByte(c.Byte)
		case sn.Wait:
			writeWait(&buf, c.Samples)
		case sn.LoopStart:
			loopOffset = buf.Len()
		case sn.End:
			buf.WriteByte(cmdEnd)
		}
	}
	return buf.Bytes(), loopOffset
}

// writeWait picks the shortest encoding for a wait: the dedicated
// 50/60 Hz singles, the 0x7n nibble waits, or the 16-bit form.
func writeWait(buf *bytes.Buffer, samples int) {
	for samples > 0 {
		switch {
		case samples == sampleRate/50:
			buf.WriteByte(cmdWait50th)
			return
		case samples == sampleRate/60:
			buf.WriteByte(cmdWait60th)
			return
		case samples <= 16:
			buf.WriteByte(uint8(cmdWaitShort + samples - 1))
			return
		case samples <= 0xFFFF:
			buf.WriteByte(cmdWait)
			buf.WriteByte(uint8(samples))
			buf.WriteByte(uint8(samples >> 8))
			return
		default:
			buf.WriteByte(cmdWait)
			buf.WriteByte(0xFF)
			buf.WriteByte(0xFF)
			samples -= 0xFFFF
		}
	}
}

// encodeGD3 builds the GD3 1.00 tag. Strings are UTF-16LE and
// sanitised to printable ASCII first: YM rips carry Atari-charset
// bytes that would otherwise land as mojibake in players.
func encodeGD3(meta Metadata) []byte {
	system := meta.System
	if system == "" {
		system = "YM2149"
	}
	fields := []string{
		meta.Title, "", // title en/jp
		system, "", // game/system en/jp
		"", "", // console en/jp
		meta.Author, "", // author en/jp
		"",           // release date
		creditString, // converter
		meta.Comment, // notes
	}

	var payload bytes.Buffer
	for _, f := range fields {
		for _, r := range utf16.Encode([]rune(sanitizeASCII(f))) {
			binary.Write(&payload, binary.LittleEndian, r)
		}
		payload.WriteByte(0)
		payload.WriteByte(0)
	}

	var out bytes.Buffer
	out.WriteString("Gd3 ")
	binary.Write(&out, binary.LittleEndian, uint32(0x100))
	binary.Write(&out, binary.LittleEndian, uint32(payload.Len()))
	out.Write(payload.Bytes())
	return out.Bytes()
}

// sanitizeASCII replaces anything outside printable ASCII with '?'.
func sanitizeASCII(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r < 0x20 || r > 0x7E {
			r = '?'
		}
		out = append(out, r)
	}
	return string(out)
}
