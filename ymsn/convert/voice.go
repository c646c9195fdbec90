package convert

import "github.com/psgtools/go-ym2sn/ymsn/ym"

// Voice is the per-frame derived state of one YM tone generator.
// Voices are rebuilt every frame; only the envelope persists.
type Voice struct {
	Period      uint16 // 12-bit divider, 0 normalised to 1
	FreqMilliHz int64
	Level       uint8 // 5-bit, envelope-sampled when EnvSelected
	EnvSelected bool
	ToneOn      bool
	NoiseOn     bool
}

// Silent reports whether the voice contributes nothing this frame.
func (v Voice) Silent() bool {
	return (!v.ToneOn && !v.NoiseOn) || v.Level == 0
}

var voiceFilter = [3]Channel{ChannelA, ChannelB, ChannelC}

// buildVoices derives the three voices from a frame. Envelope levels
// are filled in later, per volume sample; here EnvSelected voices get
// a placeholder.
func (c *Converter) buildVoices(f ym.Frame) [3]Voice {
	var out [3]Voice
	for i := range out {
		v := &out[i]
		v.Period = f.TonePeriod(i)
		if v.Period == 0 {
			v.Period = 1
		}
		v.FreqMilliHz = c.fm.ymToneMilliHz(v.Period)
		v.EnvSelected = f.EnvSelected(i)
		v.ToneOn = f.ToneEnabled(i)
		v.NoiseOn = f.NoiseEnabled(i)
		v.Level = wideLevel(f.Level(i))

		// Some rips enable the envelope on a voice whose tone mix is
		// off; audibly the tone is meant to play (seen on nd-ui.ym).
		if v.EnvSelected && !v.ToneOn {
			v.ToneOn = true
		}

		if c.cfg.Filter&voiceFilter[i] == 0 {
			v.ToneOn = false
			v.NoiseOn = false
			v.Level = 0
			v.EnvSelected = false
		}
	}
	if c.cfg.Filter&ChannelNoise == 0 {
		for i := range out {
			out[i].NoiseOn = false
		}
	}
	return out
}

// sampleLevels applies the current envelope level to envelope-driven
// voices. With envelopes disabled they run at full volume, which keeps
// enveloped leads audible instead of mute.
func (c *Converter) sampleLevels(voices *[3]Voice) {
	level := c.env.Level()
	for i := range voices {
		if !voices[i].EnvSelected {
			continue
		}
		if c.cfg.DisableEnvelopes {
			voices[i].Level = 31
		} else {
			voices[i].Level = level
		}
	}
}
