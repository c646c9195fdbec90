package ym

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var (
	// ErrCompressed is returned for LHA-packed YM files. Decompression
	// is the caller's job (e.g. `lha x tune.ym`); the loader only
	// consumes raw containers.
	ErrCompressed = errors.New("ym: file is LHA-compressed, decompress it first")

	// ErrUnsupportedFormat is returned when the magic id is not one of
	// the YM2!/YM3!/YM5!/YM6! variants.
	ErrUnsupportedFormat = errors.New("ym: unsupported file format")
)

const (
	checkString = "LeOnArD!"
	endMarker   = "End!"

	// Defaults for the headerless YM2/YM3 variants (Atari ST).
	defaultClock     = 2000000
	defaultFrameRate = 50
)

// Load parses an uncompressed YM container into a Song.
func Load(r io.Reader) (*Song, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ym: reading input: %w", err)
	}
	if len(data) >= 5 && bytes.Equal(data[2:5], []byte("-lh")) {
		return nil, ErrCompressed
	}
	if len(data) < 4 {
		return nil, ErrUnsupportedFormat
	}

	magic := string(data[:4])
	switch magic {
	case "YM2!", "YM3!":
		return loadYM3(magic, data[4:])
	case "YM5!", "YM6!":
		return loadYM5(magic, data[4:])
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, magic)
	}
}

// loadYM3 handles the headerless early variants: the payload is 14
// register streams, register-major, one byte per frame.
func loadYM3(magic string, data []byte) (*Song, error) {
	frames := len(data) / RegCount
	if frames == 0 {
		return nil, fmt.Errorf("ym: %s file has no frames", magic)
	}
	song := &Song{
		Header: Header{
			Format:      magic,
			FrameCount:  frames,
			ChipClock:   defaultClock,
			FrameRate:   defaultFrameRate,
			Interleaved: true,
		},
	}
	song.Frames = deinterleave(data, frames, RegCount)
	return song, nil
}

func loadYM5(magic string, data []byte) (*Song, error) {
	rd := bytes.NewReader(data)

	var fixed struct {
		Check      [8]byte
		FrameCount uint32
		Attributes uint32
		DigiDrums  uint16
		ChipClock  uint32
		FrameRate  uint16
		LoopFrame  uint32
		ExtraData  uint16
	}
	if err := binary.Read(rd, binary.BigEndian, &fixed); err != nil {
		return nil, fmt.Errorf("ym: short %s header: %w", magic, err)
	}
	if string(fixed.Check[:]) != checkString {
		return nil, fmt.Errorf("ym: bad check string %q", fixed.Check)
	}

	h := Header{
		Format:      magic,
		FrameCount:  int(fixed.FrameCount),
		ChipClock:   int(fixed.ChipClock),
		FrameRate:   int(fixed.FrameRate),
		LoopFrame:   int(fixed.LoopFrame),
		DigiDrums:   int(fixed.DigiDrums),
		Interleaved: fixed.Attributes&0x01 != 0,
		DrumsSigned: fixed.Attributes&0x02 != 0,
		Drums4BitST: fixed.Attributes&0x04 != 0,
	}

	// Digidrum sample blocks are skipped: playing 4-bit PCM through a
	// YM voice is out of scope for the conversion.
	for i := 0; i < h.DigiDrums; i++ {
		var size uint32
		if err := binary.Read(rd, binary.BigEndian, &size); err != nil {
			return nil, fmt.Errorf("ym: short digidrum block %d: %w", i, err)
		}
		if _, err := rd.Seek(int64(size), io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("ym: short digidrum sample %d: %w", i, err)
		}
	}

	var err error
	if h.Title, err = readCString(rd); err != nil {
		return nil, fmt.Errorf("ym: reading title: %w", err)
	}
	if h.Author, err = readCString(rd); err != nil {
		return nil, fmt.Errorf("ym: reading author: %w", err)
	}
	if h.Comment, err = readCString(rd); err != nil {
		return nil, fmt.Errorf("ym: reading comment: %w", err)
	}

	// YM5/YM6 store 16 register streams: the 14 chip registers plus two
	// virtual registers for timer effects, which are dropped here.
	const fileRegs = 16
	payload := make([]byte, h.FrameCount*fileRegs)
	if _, err := io.ReadFull(rd, payload); err != nil {
		return nil, fmt.Errorf("ym: truncated frame data: %w", err)
	}

	song := &Song{Header: h}
	if h.Interleaved {
		song.Frames = deinterleave(payload, h.FrameCount, fileRegs)
	} else {
		song.Frames = make([]Frame, h.FrameCount)
		for i := range song.Frames {
			copy(song.Frames[i].Regs[:], payload[i*fileRegs:i*fileRegs+RegCount])
		}
	}

	// Plenty of rips in the wild are missing the End! trailer; the
	// frame data is already complete at this point, so a bad marker is
	// logged rather than fatal.
	marker := make([]byte, 4)
	if _, err := io.ReadFull(rd, marker); err != nil || string(marker) != endMarker {
		slog.Debug("ym: End! marker not found after frames")
	}
	return song, nil
}

// deinterleave converts register-major data (all of R0, then all of
// R1, ...) into per-frame register sets. Streams beyond the 14 chip
// registers are ignored.
func deinterleave(data []byte, frames, regs int) []Frame {
	out := make([]Frame, frames)
	for r := 0; r < regs && r < RegCount; r++ {
		stream := data[r*frames:]
		for i := 0; i < frames; i++ {
			out[i].Regs[r] = stream[i]
		}
	}
	return out
}

func readCString(rd *bytes.Reader) (string, error) {
	var buf bytes.Buffer
	for {
		b, err := rd.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			return buf.String(), nil
		}
		buf.WriteByte(b)
	}
}
