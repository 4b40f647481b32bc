package synth

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note is an immutable pitch in the MIDI range 0-127. Notes are pooled by
// number: two lookups of the same number return the same *Note, and voice
// matching relies on that identity.
type Note struct {
	number int
}

// notes is populated once at init and read-only afterwards, so lookups
// are safe from both the authoring and the render goroutine.
var notes [128]Note

func init() {
	for i := range notes {
		notes[i].number = i
	}
}

// GetNote returns the pooled note for a MIDI note number, or nil if the
// number is out of range.
func GetNote(number int) *Note {
	if number < 0 || number >= len(notes) {
		return nil
	}
	return &notes[number]
}

// ParseNote parses a note name like "C4", "F#2" or "A-1".
func ParseNote(name string) (*Note, error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	if len(s) < 2 {
		return nil, fmt.Errorf("invalid note name: %q", name)
	}
	pitch := s[:1]
	if len(s) > 1 && s[1] == '#' {
		pitch = s[:2]
	}
	index := -1
	for i, n := range noteNames {
		if n == pitch {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("invalid note name: %q", name)
	}
	octave, err := strconv.Atoi(s[len(pitch):])
	if err != nil {
		return nil, fmt.Errorf("invalid note octave: %q", name)
	}
	number := (octave+1)*12 + index
	if note := GetNote(number); note != nil {
		return note, nil
	}
	return nil, fmt.Errorf("note out of range: %q", name)
}

func (n *Note) Number() int { return n.number }

func (n *Note) Octave() int { return n.number/12 - 1 }

func (n *Note) Name() string {
	return noteNames[n.number%12] + strconv.Itoa(n.Octave())
}

// Freq returns the note's frequency in Hz, with A4 (69) at exactly 440.
func (n *Note) Freq() float64 {
	if n.number == 69 {
		return 440.0
	}
	return n.FreqCents(0)
}

// FreqCents returns the note's frequency detuned by the given number of
// cents.
func (n *Note) FreqCents(cents float64) float64 {
	return 440 * math.Pow(2, float64(n.number-69)/12.0+cents/1200.0)
}

func (n *Note) String() string { return n.Name() }
