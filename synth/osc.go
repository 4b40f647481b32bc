package synth

import (
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
)

type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Saw
	Pulse
	Noise
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Saw:
		return "saw"
	case Pulse:
		return "pulse"
	case Noise:
		return "noise"
	}
	return "unknown"
}

func ParseWaveform(s string) (Waveform, error) {
	switch s {
	case "sine":
		return Sine, nil
	case "triangle":
		return Triangle, nil
	case "saw":
		return Saw, nil
	case "pulse":
		return Pulse, nil
	case "noise":
		return Noise, nil
	}
	return 0, fmt.Errorf("not a valid waveform type: %v", s)
}

func setWaveform(v interface{}, dest *atomic.Value) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("value is not a string: %v", v)
	}
	w, err := ParseWaveform(s)
	if err != nil {
		return err
	}
	dest.Store(w)
	return nil
}

// oscParams holds the settings of one oscillator in the bank, copied into a
// voice when a note is triggered.
type oscParams struct {
	wave   Waveform
	volume float64
	detune float64 // cents
	duty   float64 // pulse duty cycle, 0..1
	sync   float64 // hard sync detune in cents, 0 disables sync
	env    Env
}

// oscState is the per-voice phase state of one oscillator.
type oscState struct {
	phase     float64
	syncPhase float64
}

// generate adds one block of the oscillator's waveform to buf. freq is the
// instantaneous frequency in Hz, already including detune and pitch envelope
// modulation. amp0 and amp1 are the amplitudes at block start and end; the
// gain ramps linearly between them across the block to avoid clicks at
// block boundaries.
func (p oscParams) generate(st *oscState, buf []float64, freq, amp0, amp1 float64) {
	step := freq / SampleRate
	syncStep := freq * math.Pow(2, p.sync/1200.0) / SampleRate
	slope := (amp1 - amp0) / float64(len(buf))
	for i := range buf {
		amp := amp0 + slope*float64(i)
		buf[i] += p.volume * amp * waveSample(p.wave, st.phase, p.duty)
		st.phase += step
		if st.phase >= 1 {
			st.phase -= 1
		}
		if p.sync != 0 {
			st.syncPhase += syncStep
			if st.syncPhase >= 1 {
				st.syncPhase -= 1
				st.phase = 0
			}
		}
	}
}

func waveSample(w Waveform, phase, duty float64) float64 {
	switch w {
	case Sine:
		return math.Sin(2 * math.Pi * phase)
	case Triangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	case Saw:
		return 2*phase - 1
	case Pulse:
		if phase < duty {
			return 1
		}
		return -1
	case Noise:
		return 2*rand.Float64() - 1
	}
	return 0
}
