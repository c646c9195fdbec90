package convert

import "github.com/psgtools/go-ym2sn/ymsn/sn"

// collapseNoise reduces the three YM noise mixers to the single SN
// noise channel.
//
// The noise level is the maximum over contributing voices, not the
// average: the loudest source dominates perceptually, and averaging
// audibly attenuated mixed noise in practice.
func collapseNoise(voices [3]Voice) (level uint8, active bool) {
	for _, v := range voices {
		if !v.NoiseOn {
			continue
		}
		active = true
		if v.Level > level {
			level = v.Level
		}
	}
	return level, active
}

// nearestNoiseControl picks the fixed white-noise rate closest to the
// YM noise frequency. The SN shifts its LFSR at clock/512, clock/1024
// or clock/2048.
func nearestNoiseControl(clock int64, ymNoiseMilliHz int64) uint8 {
	best := uint8(sn.NoiseWhiteRate0)
	bestDist := int64(-1)
	for rate := 0; rate < 3; rate++ {
		f := clock * 1000 / (512 << uint(rate))
		d := f - ymNoiseMilliHz
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = uint8(sn.NoiseWhiteRate0 + rate)
		}
	}
	return best
}
