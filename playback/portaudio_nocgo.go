//go:build !cgo

package playback

import (
	"errors"

	"wavegraph/synth"
)

// The portaudio backend is a cgo binding and is unavailable when cgo is
// disabled.
func newPortAudio(engine *synth.Engine) (Driver, error) {
	return nil, errors.New("portaudio backend requires cgo")
}
