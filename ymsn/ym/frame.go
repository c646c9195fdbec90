// Package ym models the YM2149 register stream: the file container
// header, the per-frame register dump, and the hardware envelope
// generator.
package ym

import (
	"github.com/psgtools/go-ym2sn/ymsn/bit"
)

// YM2149 register indices.
//
// R00 = Channel A Pitch LO (8 bits)
// R01 = Channel A Pitch HI (4 bits)
// R02 = Channel B Pitch LO (8 bits)
// R03 = Channel B Pitch HI (4 bits)
// R04 = Channel C Pitch LO (8 bits)
// R05 = Channel C Pitch HI (4 bits)
// R06 = Noise Frequency    (5 bits)
// R07 = I/O & Mixer        (IOB|IOA|NoiseC|NoiseB|NoiseA|ToneC|ToneB|ToneA)
// R08 = Channel A Level    (M | 4 bits) (where M selects envelope mode)
// R09 = Channel B Level    (M | 4 bits)
// R10 = Channel C Level    (M | 4 bits)
// R11 = Envelope Freq LO   (8 bits)
// R12 = Envelope Freq HI   (8 bits)
// R13 = Envelope Shape     (CONT|ATT|ALT|HOLD)
const (
	RegToneALo = iota
	RegToneAHi
	RegToneBLo
	RegToneBHi
	RegToneCLo
	RegToneCHi
	RegNoise
	RegMixer
	RegLevelA
	RegLevelB
	RegLevelC
	RegEnvLo
	RegEnvHi
	RegEnvShape

	// RegCount is the number of registers the chip itself has. YM5/YM6
	// containers store two extra virtual registers for digidrum effects.
	RegCount = 14
)

// shapeNotWritten is the value YM containers store in R13 on frames
// where the shape register must not be rewritten, since a write
// retriggers the envelope.
const shapeNotWritten = 0xFF

// Frame is one tick of the register stream: the 14 chip registers
// (virtual effect registers are handled at load time and not carried).
type Frame struct {
	Regs [RegCount]uint8
}

// TonePeriod returns the 12-bit tone divider for voice 0..2.
func (f Frame) TonePeriod(voice int) uint16 {
	return bit.Combine12(f.Regs[RegToneAHi+voice*2], f.Regs[RegToneALo+voice*2])
}

// NoisePeriod returns the 5-bit noise divider.
func (f Frame) NoisePeriod() uint8 {
	return f.Regs[RegNoise] & 0x1F
}

// ToneEnabled reports whether the mixer routes the tone generator to
// voice 0..2. The hardware bit is active-low; this accessor is
// normalised active-high.
func (f Frame) ToneEnabled(voice int) bool {
	return !bit.IsSet(uint8(voice), f.Regs[RegMixer])
}

// NoiseEnabled reports whether the mixer routes the noise generator to
// voice 0..2, normalised active-high.
func (f Frame) NoiseEnabled(voice int) bool {
	return !bit.IsSet(uint8(voice+3), f.Regs[RegMixer])
}

// Level returns the fixed 4-bit volume for voice 0..2.
func (f Frame) Level(voice int) uint8 {
	return f.Regs[RegLevelA+voice] & 0x0F
}

// EnvSelected reports whether voice 0..2 is driven by the envelope
// generator instead of its fixed level.
func (f Frame) EnvSelected(voice int) bool {
	return bit.IsSet(4, f.Regs[RegLevelA+voice])
}

// EnvPeriod returns the 16-bit envelope divider.
func (f Frame) EnvPeriod() uint16 {
	return bit.Combine(f.Regs[RegEnvHi], f.Regs[RegEnvLo])
}

// EnvShape returns the 4-bit CONT|ATT|ALT|HOLD shape value.
func (f Frame) EnvShape() uint8 {
	return f.Regs[RegEnvShape] & 0x0F
}

// ShapeWritten reports whether R13 was written this frame. A write
// retriggers the envelope, so containers store 0xFF on frames where
// the register is untouched.
func (f Frame) ShapeWritten() bool {
	return f.Regs[RegEnvShape] != shapeNotWritten
}

// Header carries the container metadata the converter needs.
type Header struct {
	Format     string // "YM2!", "YM3!", "YM5!", "YM6!"
	FrameCount int
	ChipClock  int // Hz
	FrameRate  int // Hz
	LoopFrame  int
	DigiDrums  int

	// Attribute bits from YM5/YM6 containers.
	Interleaved bool
	DrumsSigned bool
	Drums4BitST bool

	Title   string
	Author  string
	Comment string
}

// Song is a fully decoded YM tune: header plus one Frame per tick.
type Song struct {
	Header Header
	Frames []Frame
}
