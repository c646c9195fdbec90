package convert

import (
	"github.com/psgtools/go-ym2sn/ymsn/sn"
	"github.com/psgtools/go-ym2sn/ymsn/ym"
)

// Converter carries all state a conversion needs: options, the
// envelope generator, the differential register cache and the report.
// A Converter is single-use; conversion is strictly sequential and a
// pure function of (song, config).
type Converter struct {
	cfg  Config
	fm   freqMapper
	vm   volumeMapper
	env  *ym.Envelope
	pack packetizer

	report        Report
	biasVoice     int
	lastNoiseCtrl uint8
}

// Result is the converted command stream plus everything an encoder
// needs to wrap it.
type Result struct {
	Commands []sn.Command
	Report   Report

	FrameRate     int
	TargetClockHz int
	LFSRTapBit    int

	TotalSamples int
	LoopSamples  int
	HasLoop      bool
}

// New returns a Converter for the given options.
func New(cfg Config) *Converter {
	return &Converter{
		cfg:       cfg,
		vm:        volumeMapper{forceAttenuation: cfg.ForceAttenuationMapping},
		env:       ym.NewEnvelope(),
		biasVoice: -1,
		// The stream opens with periodic noise latched, so a bass
		// frame at the very start needs no extra control write.
		lastNoiseCtrl: sn.NoisePeriodicTone2,
	}
}

// Convert runs the full pipeline over a decoded song. Configuration
// problems fail before any frame is processed; everything after that
// accumulates in the report and never aborts.
func (c *Converter) Convert(song *ym.Song) (*Result, error) {
	rate := song.Header.FrameRate
	if err := c.cfg.validate(rate); err != nil {
		return nil, err
	}

	srcClock := sourceClock(c.cfg, song.Header)
	c.fm = freqMapper{
		clock:        int64(c.cfg.TargetClockHz),
		sourceClock:  int64(srcClock),
		lfsr:         int64(c.cfg.LFSRTapBit),
		softwareBass: c.cfg.SoftwareBass,
	}

	if c.cfg.BassBias {
		c.biasVoice = Prescan(song, c.cfg).BiasVoice()
	}

	subdiv := c.cfg.subdivision(rate)
	clocksPerSample := int64(srcClock) / int64(rate*subdiv)
	c.pack.outRate = int64(rate * subdiv)

	loopFrame := -1
	if song.Header.LoopFrame > 0 && song.Header.LoopFrame < len(song.Frames) {
		loopFrame = song.Header.LoopFrame
	}

	res := &Result{
		FrameRate:     rate,
		TargetClockHz: c.cfg.TargetClockHz,
		LFSRTapBit:    c.cfg.LFSRTapBit,
	}
	var loopMark int64

	for i, frame := range song.Frames {
		if i == loopFrame {
			res.Commands = append(res.Commands, sn.LoopStart{})
			res.HasLoop = true
			loopMark = c.pack.emitted
		}

		c.stepEnvelopeRegs(frame)
		voices := c.buildVoices(frame)
		plan := c.planFrame(frame, voices)
		c.lastNoiseCtrl = plan.noiseCtrl

		for s := 0; s < subdiv; s++ {
			c.sampleLevels(&voices)
			st := c.resolve(plan, voices)
			c.pack.emitState(st, &res.Commands)
			c.pack.emitWait(&res.Commands)
			if !c.cfg.DisableEnvelopes {
				c.env.Advance(clocksPerSample)
			}
		}
		c.report.Frames++
	}
	res.Commands = append(res.Commands, sn.End{})

	res.TotalSamples = int(c.pack.emitted)
	if res.HasLoop {
		res.LoopSamples = int(c.pack.emitted - loopMark)
	}
	res.Report = c.report
	return res, nil
}

// stepEnvelopeRegs feeds this frame's envelope registers into the
// generator. A shape write retriggers before any of the frame's clocks
// elapse: when a retrigger lands on the same frame the envelope would
// have expired naturally, the retrigger wins.
func (c *Converter) stepEnvelopeRegs(frame ym.Frame) {
	envInUse := false
	for v := 0; v < 3; v++ {
		if frame.EnvSelected(v) {
			envInUse = true
		}
	}
	if envInUse {
		c.report.EnvelopeFrames++
		if frame.EnvPeriod() == 0 {
			c.report.ZeroEnvelopePeriod++
		}
	}

	if c.cfg.DisableEnvelopes {
		return
	}
	c.env.SetPeriod(frame.EnvPeriod())
	if frame.ShapeWritten() {
		c.env.SetShape(frame.EnvShape())
	}
}
