package synth

import "math"

// Env is an ADSR envelope. Attack, Decay and Release are segment lengths in
// seconds and may be zero or infinite; Sustain is a level in 0..1. The curve
// exponents shape each segment; 1 is linear and the zero value is treated
// as 1.
type Env struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64

	AttackCurve  float64
	DecayCurve   float64
	ReleaseCurve float64
}

// Value evaluates the envelope at time t for a note switched on at on and
// off at off (off == 0 means the note is still held). onAmp is the amplitude
// the envelope had when the note was (re)triggered, offAmp the amplitude it
// had when the note was released, so a retrigger or release continues from
// wherever the previous arc left off instead of jumping.
func (e Env) Value(t, on, off, onAmp, offAmp float64) float64 {
	if off != 0 {
		if e.Release <= 0 || t >= off+e.Release {
			return 0
		}
		return interp((t-off)/e.Release, offAmp, 0, e.ReleaseCurve)
	}
	dt := t - on
	if dt < 0 {
		return onAmp
	}
	if dt < e.Attack {
		return interp(dt/e.Attack, onAmp, 1, e.AttackCurve)
	}
	dt -= e.Attack
	if dt < e.Decay {
		return interp(dt/e.Decay, 1, e.Sustain, e.DecayCurve)
	}
	return e.Sustain
}

// interp maps progress x in 0..1 from one level to another. The curve bends
// toward whichever endpoint is higher, independent of direction.
func interp(x, from, to, curve float64) float64 {
	if curve <= 0 {
		curve = 1
	}
	if to > from {
		return from + math.Pow(x, curve)*(to-from)
	}
	return to + math.Pow(1-x, curve)*(from-to)
}
