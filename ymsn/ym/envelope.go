package ym

// Envelope shape register bits (CONT|ATT|ALT|HOLD).
const (
	EnvHold = 1 << 0
	EnvAlt  = 1 << 1
	EnvAtt  = 1 << 2
	EnvCont = 1 << 3
)

// The envelope generator is a 5-bit counter stepped once every
// 8 * env_period master clocks, giving the documented 32-step ramp
// at clock / (256 * env_period). Each of the 16 CAAH shapes is two
// 32-step phases: a ramp (up or down) followed by a second ramp or a
// hold level. Shapes with HOLD set or CONT clear freeze at the end of
// the second phase; the rest wrap.
//
//	CONT|ATT|ALT|HOLD
//	0 0 x x  \___
//	0 1 x x  /___
//	1 0 0 0  \\\\
//	1 0 0 1  \___
//	1 0 1 0  \/\/
//	1 0 1 1  \‾‾‾
//	1 1 0 0  ////
//	1 1 0 1  /‾‾‾
//	1 1 1 0  /\/\
//	1 1 1 1  /___
var envShapes [16][64]uint8

func init() {
	var rampUp, rampDn, holdHi, holdLo [32]uint8
	for i := 0; i < 32; i++ {
		rampUp[i] = uint8(i)
		rampDn[i] = uint8(31 - i)
		holdHi[i] = 31
		holdLo[i] = 0
	}

	pair := func(shape int, first, second [32]uint8) {
		copy(envShapes[shape][:32], first[:])
		copy(envShapes[shape][32:], second[:])
	}

	for shape := 0; shape < 4; shape++ {
		pair(shape, rampDn, holdLo)
	}
	for shape := 4; shape < 8; shape++ {
		pair(shape, rampUp, holdLo)
	}
	pair(8, rampDn, rampDn)
	pair(9, rampDn, holdLo)
	pair(10, rampDn, rampUp)
	pair(11, rampDn, holdHi)
	pair(12, rampUp, rampUp)
	pair(13, rampUp, holdHi)
	pair(14, rampUp, rampDn)
	pair(15, rampUp, holdLo)
}

// clocksPerStep is the number of master clocks per envelope counter
// step, before the period divider is applied.
const clocksPerStep = 8

// Envelope simulates the YM2149 hardware envelope generator at
// register-write granularity. It is advanced in master-clock units and
// sampled as a 5-bit level.
type Envelope struct {
	period uint16
	shape  uint8

	pos      int   // index into the active 64-entry shape table
	holds    bool  // shape freezes at the table end instead of wrapping
	residual int64 // master clocks not yet converted into steps
}

// NewEnvelope returns a generator in the shape-0 (one-shot decay)
// state, matching the chip after reset.
func NewEnvelope() *Envelope {
	e := &Envelope{}
	e.SetShape(0)
	return e
}

// SetPeriod sets the 16-bit envelope divider. Period 0 behaves as 1,
// the fastest rate the divider can run at.
func (e *Envelope) SetPeriod(period uint16) {
	e.period = period
}

// SetShape writes the shape register. On hardware any write retriggers
// the envelope, so the counter restarts from the top of the shape.
func (e *Envelope) SetShape(shape uint8) {
	e.shape = shape & 0x0F
	e.pos = 0
	e.residual = 0
	e.holds = e.shape&EnvHold != 0 || e.shape&EnvCont == 0
}

// Shape returns the last written shape value.
func (e *Envelope) Shape() uint8 {
	return e.shape
}

// Level returns the current 5-bit output level, 0..31.
func (e *Envelope) Level() uint8 {
	return envShapes[e.shape][e.pos]
}

// Advance moves the generator forward by the given number of master
// clocks. The step count is derived by division so that very long
// envelope periods cost the same as short ones.
func (e *Envelope) Advance(clocks int64) {
	period := int64(e.period)
	if period == 0 {
		period = 1
	}
	interval := clocksPerStep * period

	e.residual += clocks
	steps := e.residual / interval
	e.residual -= steps * interval
	if steps == 0 {
		return
	}

	if e.holds {
		if steps > int64(63-e.pos) {
			e.pos = 63
		} else {
			e.pos += int(steps)
		}
	} else {
		e.pos = int((int64(e.pos) + steps) & 63)
	}
}
