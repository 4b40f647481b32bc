// Package playback connects an engine to a host audio device. Two backends
// are available; both pull fixed-size buffers from Engine.Render on the
// device's render thread.
package playback

import (
	"fmt"

	"wavegraph/synth"
)

// bufferSize is the hardware buffer in samples per channel. It must be a
// multiple of the engine block size.
const bufferSize = 512

const numChannels = 2

type Driver interface {
	Start() error
	Stop() error
}

// New opens the named backend ("portaudio" or "oto") for the engine.
func New(name string, engine *synth.Engine) (Driver, error) {
	switch name {
	case "portaudio":
		return newPortAudio(engine)
	case "oto":
		return newOto(engine)
	}
	return nil, fmt.Errorf("unknown audio backend: %s", name)
}
