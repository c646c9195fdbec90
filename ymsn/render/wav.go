// Package render plays a converted command stream through an emulated
// SN76489 and writes the result as a WAV file. It gives an audible
// check of a conversion without any real-time playback machinery.
package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	sn76489 "github.com/user-none/go-chip-sn76489"

	"github.com/psgtools/go-ym2sn/ymsn/convert"
	"github.com/psgtools/go-ym2sn/ymsn/sn"
)

const (
	sampleRate = 44100
	chunkSize  = 1024
)

// WAV renders the command stream once through (loops are not
// unrolled) and writes a 16-bit mono RIFF file.
func WAV(w io.Writer, res *convert.Result) error {
	cfg := sn76489.TI
	if res.LFSRTapBit == 16 {
		cfg = sn76489.Sega
	}
	// The converter never writes a zero divider, so the TI/Sega
	// tone-zero difference does not matter here.
	cfg.ToneZero = sn76489.ToneZeroAsOne

	chip := sn76489.New(res.TargetClockHz, sampleRate, chunkSize, cfg)
	cps := chip.ClocksPerSample()

	var pcm []int16
	var clockDebt float64

	renderSamples := func(samples int) {
		for samples > 0 {
			n := samples
			if n > chunkSize {
				n = chunkSize
			}
			clockDebt += float64(n) * cps
			clocks := int(clockDebt)
			clockDebt -= float64(clocks)

			chip.GenerateSamples(clocks)
			buf, got := chip.GetBuffer()
			for i := 0; i < got; i++ {
				s := buf[i]
				if s > 1 {
					s = 1
				} else if s < -1 {
					s = -1
				}
				pcm = append(pcm, int16(s*32767))
			}
			samples -= n
		}
	}

	for _, cmd := range res.Commands {
		switch c := cmd.(type) {
		case sn.Write:
			chip.Write(c.Byte)
		case sn.Wait:
			renderSamples(c.Samples)
		case sn.End:
			// Let the final register state ring out briefly.
			renderSamples(sampleRate / 10)
		}
	}

	return writeRIFF(w, pcm)
}

func writeRIFF(w io.Writer, pcm []int16) error {
	dataLen := len(pcm) * 2

	var hdr bytes.Buffer
	hdr.WriteString("RIFF")
	binary.Write(&hdr, binary.LittleEndian, uint32(36+dataLen))
	hdr.WriteString("WAVEfmt ")
	binary.Write(&hdr, binary.LittleEndian, uint32(16))
	binary.Write(&hdr, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&hdr, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&hdr, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&hdr, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&hdr, binary.LittleEndian, uint16(2))  // block align
	binary.Write(&hdr, binary.LittleEndian, uint16(16)) // bits per sample
	hdr.WriteString("data")
	binary.Write(&hdr, binary.LittleEndian, uint32(dataLen))

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return fmt.Errorf("render: writing wav header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, pcm); err != nil {
		return fmt.Errorf("render: writing wav data: %w", err)
	}
	return nil
}
