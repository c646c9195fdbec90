package convert

import (
	"github.com/psgtools/go-ym2sn/ymsn/sn"
	"github.com/psgtools/go-ym2sn/ymsn/ym"
)

// tonePlan is the per-frame channel assignment. Tone registers and the
// noise control value are fixed for the whole frame; only attenuation
// varies across envelope sub-samples.
type tonePlan struct {
	mapped   [3]MappedTone
	chanOf   [3]int // SN tone channel assigned to each YM voice
	silenced [3]bool

	bassVoice  int // voice owning periodic-noise bass, -1 if none
	tunedNoise bool
	noiseOn    bool
	noiseCtrl  uint8
	tunedReg   uint16 // channel-2 divider when tunedNoise
}

// planFrame decides how the three YM voices and the collapsed noise
// source share the four SN channels this frame.
//
// Priority: percussive tuned noise claims channel 2 first, then
// periodic-noise bass, then the identity mapping. When noise and bass
// contend, noise wins and the bass drops out for the frame (audible
// compromise, counted in the report).
func (c *Converter) planFrame(frame ym.Frame, voices [3]Voice) tonePlan {
	plan := tonePlan{
		chanOf:    [3]int{0, 1, 2},
		bassVoice: -1,
		noiseCtrl: c.lastNoiseCtrl,
	}

	for i, v := range voices {
		plan.mapped[i] = c.fm.MapTone(v.FreqMilliHz, v.Period)
		if !v.ToneOn {
			continue
		}
		switch plan.mapped[i].Class {
		case ClassTooHigh:
			c.report.FoldedHigh[i]++
		case ClassTooLow:
			if plan.mapped[i].SoftwareBass {
				c.report.SoftwareBassFrames++
			} else {
				c.report.FoldedLow[i]++
			}
		}
	}

	_, plan.noiseOn = collapseNoise(voices)
	if plan.noiseOn {
		c.report.NoiseFrames++
	}

	var bassCandidates []int
	for i, v := range voices {
		if v.ToneOn && plan.mapped[i].Class == ClassBassViaPN {
			bassCandidates = append(bassCandidates, i)
		}
	}

	noisePeriod := frame.NoisePeriod()
	if c.cfg.TunedWhiteNoise && plan.noiseOn && noisePeriod != 0 {
		plan.tunedNoise = true
		plan.noiseCtrl = sn.NoiseWhiteTone2
		plan.tunedReg = c.noiseToneReg(noisePeriod)
		c.report.TunedNoiseFrames++
		if len(bassCandidates) > 0 {
			c.report.BassContention++
			for _, i := range bassCandidates {
				plan.silenced[i] = true
				c.report.DroppedBass[i]++
			}
		}
		return plan
	}

	if len(bassCandidates) > 0 {
		bass := c.pickBassVoice(voices, bassCandidates)
		plan.bassVoice = bass
		c.report.BassFrames[bass]++

		// The bass voice takes SN channel 2 (the only divider that can
		// drive the noise generator); the voice that held channel 2
		// moves to the freed slot.
		plan.chanOf[bass], plan.chanOf[2] = 2, plan.chanOf[bass]
		plan.noiseCtrl = sn.NoisePeriodicTone2

		for _, i := range bassCandidates {
			if i != bass {
				plan.silenced[i] = true
				c.report.DroppedBass[i]++
			}
		}
		return plan
	}

	if plan.noiseOn {
		if noisePeriod == 0 {
			c.report.ZeroNoisePeriod++
			noisePeriod = 1
		}
		plan.noiseCtrl = nearestNoiseControl(int64(c.cfg.TargetClockHz), c.fm.ymNoiseMilliHz(noisePeriod))
	}
	return plan
}

// pickBassVoice selects which of the qualifying voices becomes the
// periodic-noise bass: the pre-scan bias channel when several compete,
// otherwise the lowest frequency, ties resolving by voice order.
func (c *Converter) pickBassVoice(voices [3]Voice, candidates []int) int {
	if len(candidates) > 1 && c.cfg.BassBias && c.biasVoice >= 0 {
		for _, i := range candidates {
			if i == c.biasVoice {
				return i
			}
		}
	}
	best := candidates[0]
	for _, i := range candidates[1:] {
		if voices[i].FreqMilliHz < voices[best].FreqMilliHz {
			best = i
		}
	}
	return best
}

// noiseToneReg computes the channel-2 divider whose rate reproduces
// the YM noise pitch when the LFSR is clocked from tone 2. YM noise
// frequencies always land inside the SN tone band, so no folding.
func (c *Converter) noiseToneReg(noisePeriod uint8) uint16 {
	n := c.fm.snToneReg(c.fm.ymNoiseMilliHz(noisePeriod), 0)
	if n < 1 {
		n = 1
	}
	if n > maxToneReg {
		n = maxToneReg
	}
	return uint16(n)
}

// snState is the absolute register state one output frame wants; the
// packetizer diffs it against what the chip last saw.
type snState struct {
	tone      [3]uint16
	bassFlag  [3]bool
	noiseCtrl uint8
	atten     [4]uint8
}

// resolve lowers the plan plus the current voice levels into register
// state. Called once per volume sub-sample.
func (c *Converter) resolve(plan tonePlan, voices [3]Voice) snState {
	st := snState{noiseCtrl: plan.noiseCtrl}

	noiseLevel, noiseActive := collapseNoise(voices)

	for i, v := range voices {
		ch := plan.chanOf[i]
		st.tone[ch] = plan.mapped[i].Reg
		st.bassFlag[ch] = plan.mapped[i].SoftwareBass

		level := v.Level
		if !v.ToneOn || plan.silenced[i] {
			level = 0
		}
		st.atten[ch] = c.vm.Attenuation(level)
	}

	switch {
	case plan.tunedNoise:
		st.tone[2] = plan.tunedReg
		st.bassFlag[2] = false
		st.atten[2] = 15
		st.atten[sn.NoiseChannel] = c.vm.Attenuation(noiseLevel)
	case plan.bassVoice >= 0:
		st.atten[2] = 15
		st.atten[sn.NoiseChannel] = c.vm.Attenuation(voices[plan.bassVoice].Level)
	case noiseActive:
		st.atten[sn.NoiseChannel] = c.vm.Attenuation(noiseLevel)
	default:
		st.atten[sn.NoiseChannel] = 15
	}

	if c.cfg.Filter&ChannelNoise == 0 {
		st.atten[sn.NoiseChannel] = 15
	}
	return st
}
