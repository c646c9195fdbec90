// Package convert implements the frame-synchronous translation of a
// YM2149 register stream into an SN76489 command stream: envelope
// simulation, frequency re-ranging, noise collapse and per-frame
// channel arbitration.
package convert

import (
	"errors"
	"fmt"
)

var (
	// ErrSampleRateNotDivisible is returned when the envelope sample
	// rate is not an integer multiple of the song frame rate.
	ErrSampleRateNotDivisible = errors.New("convert: envelope sample rate must be a multiple of the frame rate")

	// ErrBadLFSRTap is returned for tap bits other than 15 or 16.
	ErrBadLFSRTap = errors.New("convert: LFSR tap bit must be 15 or 16")
)

// Channel identifies one of the three YM voices or the noise source
// for filtering purposes.
type Channel uint8

const (
	ChannelA Channel = 1 << iota
	ChannelB
	ChannelC
	ChannelNoise

	// AllChannels leaves nothing muted.
	AllChannels = ChannelA | ChannelB | ChannelC | ChannelNoise
)

// Config is the conversion option surface. The zero value is not
// usable; start from Default.
type Config struct {
	// TargetClockHz is the SN76489 clock written into the output.
	TargetClockHz int

	// SourceClockHz overrides the YM clock from the container header
	// when non-zero. PAL Atari ST machines run the chip at 2 MHz.
	SourceClockHz int

	// LFSRTapBit selects which bit of the SN shift register is tapped
	// (15 or 16); it scales the periodic-noise pitch used for bass.
	LFSRTapBit int

	// EnvelopeSampleRateHz sets how often envelope-driven volumes are
	// re-emitted. 0 means once per frame. Must be an integer multiple
	// of the frame rate.
	EnvelopeSampleRateHz int

	// Filter is the set of channels that stay audible.
	Filter Channel

	// SoftwareBass flags out-of-range low tones for a cooperating
	// player instead of substituting periodic noise.
	SoftwareBass bool

	// TunedWhiteNoise sacrifices tone channel 2 to pitch the white
	// noise, instead of picking the nearest fixed rate.
	TunedWhiteNoise bool

	// DisableEnvelopes replaces envelope-driven volumes with full
	// volume instead of simulating the generator.
	DisableEnvelopes bool

	// ForceAttenuationMapping maps YM levels to SN attenuation by dB
	// scaling instead of the amplitude-table match.
	ForceAttenuationMapping bool

	// BassBias pre-scans the tune and biases bass-channel ties toward
	// the voice that plays low tones most often.
	BassBias bool
}

// Default returns the standard conversion options: 4 MHz SN clock,
// bit-15 LFSR, all channels audible, envelopes on, bass bias on.
func Default() Config {
	return Config{
		TargetClockHz: 4000000,
		LFSRTapBit:    15,
		Filter:        AllChannels,
		BassBias:      true,
	}
}

// validate checks the config against the song's frame rate. Config
// errors are fatal before any frame is processed.
func (c Config) validate(frameRate int) error {
	if c.TargetClockHz <= 0 {
		return fmt.Errorf("convert: target clock %d is not positive", c.TargetClockHz)
	}
	if c.LFSRTapBit != 15 && c.LFSRTapBit != 16 {
		return fmt.Errorf("%w: got %d", ErrBadLFSRTap, c.LFSRTapBit)
	}
	if frameRate <= 0 {
		return fmt.Errorf("convert: frame rate %d is not positive", frameRate)
	}
	if c.EnvelopeSampleRateHz != 0 && c.EnvelopeSampleRateHz%frameRate != 0 {
		return fmt.Errorf("%w: %d Hz against %d Hz frames",
			ErrSampleRateNotDivisible, c.EnvelopeSampleRateHz, frameRate)
	}
	return nil
}

// subdivision returns how many output frames each input frame expands
// to under the configured envelope sample rate.
func (c Config) subdivision(frameRate int) int {
	if c.EnvelopeSampleRateHz == 0 {
		return 1
	}
	return c.EnvelopeSampleRateHz / frameRate
}
