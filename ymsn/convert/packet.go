package convert

import "github.com/psgtools/go-ym2sn/ymsn/sn"

// vgmSampleRate is the VGM reference rate all waits are expressed in.
const vgmSampleRate = 44100

// packetizer turns absolute register states into differential write
// packets. It carries the last value written to every SN register, so
// an unchanged register costs no bytes (E6: a static tune is pure
// waits after its first frame).
type packetizer struct {
	primed    bool
	tone      [3]uint16
	bassFlag  [3]bool
	noiseCtrl uint8
	atten     [4]uint8

	outRate int64 // output frames per second
	frames  int64
	emitted int64 // samples covered by waits so far
}

// emitState appends the writes needed to move the chip from its last
// known state to st. Order: tone dividers, noise control, attenuation.
func (p *packetizer) emitState(st snState, cmds *[]sn.Command) {
	for ch := 0; ch < 3; ch++ {
		if p.primed && p.tone[ch] == st.tone[ch] && p.bassFlag[ch] == st.bassFlag[ch] {
			continue
		}
		p.tone[ch] = st.tone[ch]
		p.bassFlag[ch] = st.bassFlag[ch]
		data := sn.DataTone(st.tone[ch])
		if st.bassFlag[ch] {
			data |= sn.SoftwareBassFlag
		}
		*cmds = append(*cmds,
			sn.Write{Byte: sn.LatchTone(ch, st.tone[ch])},
			sn.Write{Byte: data})
	}

	// Rewriting the noise register resets the LFSR, so it is only
	// touched on a real change.
	if !p.primed || p.noiseCtrl != st.noiseCtrl {
		p.noiseCtrl = st.noiseCtrl
		*cmds = append(*cmds, sn.Write{Byte: sn.LatchNoise(st.noiseCtrl)})
	}

	for ch := 0; ch < 4; ch++ {
		if p.primed && p.atten[ch] == st.atten[ch] {
			continue
		}
		p.atten[ch] = st.atten[ch]
		*cmds = append(*cmds, sn.Write{Byte: sn.LatchVolume(ch, st.atten[ch])})
	}
	p.primed = true
}

// emitWait appends this output frame's wait. Waits derive from the
// cumulative ideal sample position, so rounding drift never exceeds
// one sample over the whole tune.
func (p *packetizer) emitWait(cmds *[]sn.Command) {
	p.frames++
	target := p.frames * vgmSampleRate / p.outRate
	w := target - p.emitted
	p.emitted = target
	if w > 0 {
		*cmds = append(*cmds, sn.Wait{Samples: int(w)})
	}
}
