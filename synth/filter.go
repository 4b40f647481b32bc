package synth

import "math"

// filter is a 2-pole resonant low-pass. The two state registers persist
// across blocks and across retriggers of the owning voice; resetting them
// on retrigger would click.
type filter struct {
	v0, v1 float64
}

// process filters buf in place. cutoff and resonance are normalized 0..1.
func (f *filter) process(buf []float64, cutoff, resonance float64) {
	c := math.Pow(0.5, (1-cutoff)/0.125)
	r := math.Pow(0.5, (resonance+0.125)/0.125)
	mrc := 1 - r*c

	v0, v1 := f.v0, f.v1
	for i, x := range buf {
		v0 = mrc*v0 - c*v1 + c*x
		v1 = mrc*v1 + c*v0
		buf[i] = v1
	}
	f.v0, f.v1 = v0, v1
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
