//go:build cgo

package playback

import (
	"log"

	"github.com/gordonklaus/portaudio"

	"wavegraph/synth"
)

type paDriver struct {
	stream *portaudio.Stream
}

func newPortAudio(engine *synth.Engine) (*paDriver, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	stream, err := portaudio.OpenDefaultStream(0, numChannels, synth.SampleRate, bufferSize,
		func(out [][]float32) {
			if err := engine.Render(out); err != nil {
				for ch := range out {
					for i := range out[ch] {
						out[ch][i] = 0
					}
				}
				log.Printf("portaudio: render: %v", err)
			}
		})
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	return &paDriver{stream: stream}, nil
}

func (d *paDriver) Start() error {
	return d.stream.Start()
}

func (d *paDriver) Stop() error {
	d.stream.Close()
	return portaudio.Terminate()
}
