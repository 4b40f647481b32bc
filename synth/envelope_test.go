package synth

import (
	"math"
	"testing"
)

func TestEnvelopeSegments(t *testing.T) {
	e := Env{Attack: 0.1, Decay: 0.2, Sustain: 0.5, Release: 0.4}

	for _, tt := range []struct {
		t    float64
		want float64
	}{
		{0.0, 0.0},    // attack start
		{0.05, 0.5},   // halfway through a linear attack
		{0.2, 0.75},   // halfway through decay from 1 to 0.5
		{0.3, 0.5},    // sustain
		{10.0, 0.5},   // sustain holds as long as the note does
	} {
		if got := e.Value(tt.t, 0, 0, 0, 0); !closeTo(got, tt.want, 1e-9) {
			t.Errorf("held value at t=%v: got %v, want %v", tt.t, got, tt.want)
		}
	}

	// released at t=1 from the sustain level
	for _, tt := range []struct {
		t    float64
		want float64
	}{
		{1.2, 0.25}, // halfway through release from 0.5
		{1.4, 0.0},  // fully released
		{5.0, 0.0},
	} {
		if got := e.Value(tt.t, 0, 1, 0, 0.5); !closeTo(got, tt.want, 1e-9) {
			t.Errorf("released value at t=%v: got %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestEnvelopeZeroSegments(t *testing.T) {
	e := Env{Sustain: 0.7}
	if got := e.Value(0, 0, 0, 0, 0); got != 0.7 {
		t.Errorf("zero attack and decay should jump to sustain, got %v", got)
	}
	if got := e.Value(3, 0, 3, 0, 0.7); got != 0 {
		t.Errorf("zero release should cut to 0, got %v", got)
	}
}

func TestEnvelopeInfiniteAttack(t *testing.T) {
	e := Env{Attack: math.Inf(1), Sustain: 1}
	if got := e.Value(100, 0, 0, 0.25, 0); got != 0.25 {
		t.Errorf("infinite attack should hold the trigger amplitude, got %v", got)
	}
}

func TestEnvelopeCurve(t *testing.T) {
	// with exponent 2 the attack bends toward the higher endpoint
	e := Env{Attack: 1, Sustain: 1, AttackCurve: 2}
	if got, want := e.Value(0.5, 0, 0, 0, 0), 0.25; !closeTo(got, want, 1e-9) {
		t.Errorf("curved attack at midpoint: got %v, want %v", got, want)
	}
	// decay from 1 down to 0: same exponent bends toward 1, the higher end
	e = Env{Decay: 1, Sustain: 0, DecayCurve: 2}
	if got, want := e.Value(0.5, 0, 0, 0, 0), 0.25; !closeTo(got, want, 1e-9) {
		t.Errorf("curved decay at midpoint: got %v, want %v", got, want)
	}
}

// A retrigger during release must resume from the amplitude at release,
// not restart the attack at zero.
func TestEnvelopeRetriggerContinuity(t *testing.T) {
	e := Env{Attack: 0.1, Sustain: 0.4, Release: 1.0}

	// held since t=0, released at t=1 while sitting at sustain 0.4
	offAmp := e.Value(1, 0, 0, 0, 0)
	if !closeTo(offAmp, 0.4, 1e-9) {
		t.Fatalf("amplitude at release = %v, want 0.4", offAmp)
	}

	// 0.01s into the release, a new note-on snapshots the current value
	onAmp := e.Value(1.01, 0, 1, 0, offAmp)
	if onAmp < 0.35 || onAmp > 0.4 {
		t.Fatalf("amplitude 0.01s into release = %v, want just under 0.4", onAmp)
	}

	// the new attack starts from onAmp, not from 0
	if got := e.Value(1.01, 1.01, 0, onAmp, 0); !closeTo(got, onAmp, 1e-9) {
		t.Errorf("retriggered attack starts at %v, want %v", got, onAmp)
	}
	// and still climbs toward 1 by the end of the attack
	if got := e.Value(1.109, 1.01, 0, onAmp, 0); got < 0.9 {
		t.Errorf("retriggered attack reached only %v, want close to 1", got)
	}
}
