package convert

// ymAmplitude is the normalised linear amplitude of each 5-bit YM
// level, as measured from the chip (-0.75 dB per envelope step, with
// the characteristic flattening near silence).
var ymAmplitude = [32]float64{
	0.0, 0.0,
	0.00465400167849, 0.00772106507973,
	0.0109559777218, 0.0139620050355,
	0.0169985503929, 0.0200198367285,
	0.024368657969, 0.029694056611,
	0.0350652323186, 0.0403906309606,
	0.0485389486534, 0.0583352407111,
	0.0680552376593, 0.0777752346075,
	0.0925154497597, 0.111085679408,
	0.129747463188, 0.148485542077,
	0.17666895552, 0.211551079576,
	0.246387426566, 0.281101701381,
	0.333730067903, 0.400427252613,
	0.467383840696, 0.53443198291,
	0.635172045472, 0.75800717174,
	0.879926756695, 1.0,
}

// snAmplitude is the 16.15-scaled amplitude of each SN volume index
// (index 15 loudest); the chip attenuates 2 dB per register step.
var snAmplitude = [16]int32{
	0, 1304, 1642, 2067, 2603, 3277, 4125, 5193,
	6568, 8231, 10362, 13045, 16422, 20675, 26028, 32767,
}

// ymToSNVolume maps a 5-bit YM level to the SN volume index whose
// amplitude is nearest without being quieter, so the conversion never
// loses presence.
var ymToSNVolume [32]uint8

func init() {
	for v := 0; v < 32; v++ {
		target := int32(ymAmplitude[v] * 32767.0)
		bestDist := int64(1) << 62
		best := 0
		for i, amp := range snAmplitude {
			if amp < target {
				continue
			}
			d := int64(amp-target) * int64(amp-target)
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		ymToSNVolume[v] = uint8(best)
	}
}

// volumeMapper lowers 5-bit YM levels into 4-bit SN attenuation
// (0 loud, 15 silent).
type volumeMapper struct {
	forceAttenuation bool
}

// Attenuation converts one level. Level 0 is always full silence.
func (m volumeMapper) Attenuation(level uint8) uint8 {
	level &= 31
	if m.forceAttenuation {
		if level == 0 {
			return 15
		}
		// YM steps -0.75 dB per 5-bit level, SN steps -2 dB.
		a := roundDiv(int64(31-level)*3, 8)
		if a > 15 {
			a = 15
		}
		return uint8(a)
	}
	return 15 - ymToSNVolume[level]
}

// wideLevel expands a fixed 4-bit register level to the 5-bit scale
// the envelope generator uses, filling the low bit so 15 reaches 31.
func wideLevel(level4 uint8) uint8 {
	l := (level4 & 0x0F) << 1
	return l | (l >> 1 & 1)
}
