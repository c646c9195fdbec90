package convert

import "github.com/psgtools/go-ym2sn/ymsn/ym"

// BassStats is the result of the optional pre-scan pass: how often
// each voice plays tones below the SN floor. The arbiter uses it to
// break ties when more than one voice wants the bass channel at once.
type BassStats struct {
	LowFrames [3]int
	// MultiLowFrames counts frames where more than one voice was below
	// the floor, i.e. frames where the tie-break actually matters.
	MultiLowFrames int
}

// BiasVoice returns the voice that plays low most often, or -1 when no
// voice ever goes below the floor. Ties keep the earlier voice.
func (s BassStats) BiasVoice() int {
	bias := -1
	best := 0
	for v, n := range s.LowFrames {
		if n > best {
			best = n
			bias = v
		}
	}
	return bias
}

// Prescan walks the whole tune counting sub-floor tone frames per
// voice. Memory stays O(1); only counters survive.
func Prescan(song *ym.Song, cfg Config) BassStats {
	fm := freqMapper{
		clock:       int64(cfg.TargetClockHz),
		sourceClock: int64(sourceClock(cfg, song.Header)),
		lfsr:        int64(cfg.LFSRTapBit),
	}

	var stats BassStats
	for _, frame := range song.Frames {
		low := 0
		for v := 0; v < 3; v++ {
			if !frame.ToneEnabled(v) {
				continue
			}
			if fm.belowFloor(fm.ymToneMilliHz(frame.TonePeriod(v))) {
				stats.LowFrames[v]++
				low++
			}
		}
		if low > 1 {
			stats.MultiLowFrames++
		}
	}
	return stats
}

// sourceClock resolves the YM clock: config override first, container
// header second, the 2 MHz Atari ST default last.
func sourceClock(cfg Config, h ym.Header) int {
	if cfg.SourceClockHz > 0 {
		return cfg.SourceClockHz
	}
	if h.ChipClock > 0 {
		return h.ChipClock
	}
	return 2000000
}
