//go:build linux && !cgo

package playback

import (
	"errors"

	"wavegraph/synth"
)

// The oto backend drives ALSA through cgo on Linux and is unavailable when
// cgo is disabled.
func newOto(engine *synth.Engine) (Driver, error) {
	return nil, errors.New("oto backend requires cgo on linux")
}
