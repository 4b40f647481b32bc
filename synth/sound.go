package synth

import (
	"io"
	"os"

	wav "github.com/youpy/go-wav"
)

// Sound is a decoded mono sample buffer with values in -1..1. Sounds are
// delivered by an external loader; an empty Sound behaves as "not loaded"
// and note-ons for it are ignored.
type Sound struct {
	buf  []float64
	file string
}

func (s *Sound) File() string { return s.file }
func (s *Sound) Len() int     { return len(s.buf) }

// NewSound wraps an already decoded buffer, for collaborators that do
// their own I/O.
func NewSound(name string, buf []float64) *Sound {
	return &Sound{file: name, buf: buf}
}

// LoadSound reads a WAV file, keeping the first channel.
func LoadSound(file string) (*Sound, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snd := Sound{file: file}
	r := wav.NewReader(f)
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, sample := range samples {
			snd.buf = append(snd.buf, r.FloatValue(sample, 0))
		}
	}
	return &snd, nil
}
