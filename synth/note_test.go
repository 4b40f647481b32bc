package synth

import (
	"sync"
	"testing"
)

func TestNotePooling(t *testing.T) {
	if GetNote(60) != GetNote(60) {
		t.Error("expected the same *Note for the same number")
	}
	if GetNote(-1) != nil || GetNote(128) != nil {
		t.Error("expected nil for out of range note numbers")
	}
}

// Lookups happen concurrently from the REPL and the render callback, so
// they must not write to the pool. Run with -race.
func TestNoteLookupConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10000; i++ {
				if GetNote(60).Number() != 60 {
					t.Error("wrong note from concurrent lookup")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNoteNameRoundTrip(t *testing.T) {
	for _, name := range []string{"C4", "C#4", "A0", "G#7", "B-1"} {
		note, err := ParseNote(name)
		if err != nil {
			t.Fatalf("ParseNote(%q): %v", name, err)
		}
		if got := note.Name(); got != name {
			t.Errorf("ParseNote(%q).Name() = %q", name, got)
		}
	}
}

func TestNoteNumbers(t *testing.T) {
	for _, tt := range []struct {
		name   string
		number int
	}{
		{"C-1", 0},
		{"C4", 60},
		{"A4", 69},
		{"G9", 127},
	} {
		note, err := ParseNote(tt.name)
		if err != nil {
			t.Fatalf("ParseNote(%q): %v", tt.name, err)
		}
		if got := note.Number(); got != tt.number {
			t.Errorf("ParseNote(%q).Number() = %d, want %d", tt.name, got, tt.number)
		}
	}
	if _, err := ParseNote("H2"); err == nil {
		t.Error("expected an error for an invalid note letter")
	}
	if _, err := ParseNote("C10"); err == nil {
		t.Error("expected an error for a note above the MIDI range")
	}
}

func TestNoteFreq(t *testing.T) {
	if got := GetNote(69).Freq(); got != 440.0 {
		t.Errorf("A4 frequency = %v, want exactly 440", got)
	}
	// one octave up doubles the frequency
	if got, want := GetNote(81).Freq(), 880.0; !closeTo(got, want, 1e-9) {
		t.Errorf("A5 frequency = %v, want %v", got, want)
	}
	// +1200 cents is also an octave
	if got, want := GetNote(69).FreqCents(1200), 880.0; !closeTo(got, want, 1e-9) {
		t.Errorf("A4 +1200 cents = %v, want %v", got, want)
	}
}

func closeTo(got, want, tol float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol
}
