package synth

import (
	"math"
	"testing"
)

// The filter must stay bounded for any cutoff and resonance setting when
// fed a bounded signal.
func TestFilterStability(t *testing.T) {
	for _, tt := range []struct {
		cutoff, resonance float64
	}{
		{0, 0},
		{1, 0},
		{0, 1},
		{1, 1}, // worst case
		{0.5, 0.9},
	} {
		var f filter
		buf := make([]float64, BlockSize)
		peak := 0.0
		phase := 0.0
		for n := 0; n < 10000/BlockSize+1; n++ {
			for i := range buf {
				// full-scale square wave, rich in harmonics
				if phase < 0.5 {
					buf[i] = 1
				} else {
					buf[i] = -1
				}
				phase += 100.0 / SampleRate
				if phase >= 1 {
					phase -= 1
				}
			}
			f.process(buf, tt.cutoff, tt.resonance)
			for _, v := range buf {
				if a := math.Abs(v); a > peak {
					peak = a
				}
			}
		}
		if peak > 100 || math.IsNaN(peak) {
			t.Errorf("cutoff=%v resonance=%v: output grew to %v", tt.cutoff, tt.resonance, peak)
		}
	}
}

func TestFilterStatePersists(t *testing.T) {
	var f filter
	buf := make([]float64, BlockSize)
	for i := range buf {
		buf[i] = 1
	}
	f.process(buf, 0.5, 0.5)
	if f.v0 == 0 && f.v1 == 0 {
		t.Error("filter state should carry over between blocks")
	}
}

// A low cutoff must attenuate a high frequency harder than a high cutoff.
func TestFilterCutoffAttenuation(t *testing.T) {
	energy := func(cutoff float64) float64 {
		var f filter
		buf := make([]float64, 2048)
		for i := range buf {
			buf[i] = math.Sin(2 * math.Pi * 8000 * float64(i) / SampleRate)
		}
		f.process(buf, cutoff, 0)
		var sum float64
		for _, v := range buf[1024:] {
			sum += v * v
		}
		return sum
	}
	low, high := energy(0.1), energy(1.0)
	if low >= high {
		t.Errorf("8kHz energy with cutoff 0.1 (%v) should be below cutoff 1.0 (%v)", low, high)
	}
}
