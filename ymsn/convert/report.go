package convert

import "log/slog"

// Report accumulates per-frame conversion compromises. Frame-level
// issues never abort a run; they end up here.
type Report struct {
	Frames int

	// FoldedHigh counts frames where a voice was transposed down into
	// the SN range; FoldedLow counts upward folds of low tones that
	// could not be served by periodic noise or software bass.
	FoldedHigh [3]int
	FoldedLow  [3]int

	// BassFrames counts frames where a voice owned the periodic-noise
	// bass channel. DroppedBass counts bass-range voices silenced
	// because the channel was already taken.
	BassFrames  [3]int
	DroppedBass [3]int

	// BassContention counts frames where percussive noise and bass
	// both wanted channel 2 (noise wins).
	BassContention int

	NoiseFrames        int
	TunedNoiseFrames   int
	SoftwareBassFrames int
	EnvelopeFrames     int

	// ZeroNoisePeriod counts fixed-rate noise frames with the noise
	// mixer open at period 0, which the hardware clocks as period 1.
	// Bass frames, whose noise channel plays the bass, are not counted.
	ZeroNoisePeriod int

	// ZeroEnvelopePeriod counts frames that ran the envelope with a
	// zero divider (degenerate, treated as 1).
	ZeroEnvelopePeriod int
}

// LogSummary emits the interesting counters at Info level.
func (r *Report) LogSummary(log *slog.Logger) {
	log.Info("conversion summary",
		"frames", r.Frames,
		"envelope_frames", r.EnvelopeFrames,
		"noise_frames", r.NoiseFrames,
		"bass_frames", r.BassFrames[0]+r.BassFrames[1]+r.BassFrames[2],
		"software_bass_frames", r.SoftwareBassFrames)
	for v := 0; v < 3; v++ {
		if r.FoldedHigh[v] > 0 || r.FoldedLow[v] > 0 || r.DroppedBass[v] > 0 {
			log.Info("range compromises",
				"voice", string(rune('A'+v)),
				"folded_down", r.FoldedHigh[v],
				"folded_up", r.FoldedLow[v],
				"dropped_bass", r.DroppedBass[v])
		}
	}
	if r.BassContention > 0 {
		log.Info("bass lost channel 2 to percussive noise", "frames", r.BassContention)
	}
}
