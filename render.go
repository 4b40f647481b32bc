package main

import (
	"fmt"
	"os"

	wav "github.com/youpy/go-wav"

	"wavegraph/synth"
)

const (
	renderChannels = 2
	renderBits     = 16
)

// bounce plays the piece from the top and writes the given number of
// seconds of output to a 16-bit stereo WAV file. It pulls blocks through
// the same Render path the live backends use.
func bounce(engine *synth.Engine, file string, seconds float64) error {
	blocks := int(seconds*synth.SampleRate) / synth.BlockSize
	if blocks < 1 {
		return fmt.Errorf("render length too short: %vs", seconds)
	}
	numSamples := blocks * synth.BlockSize

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	w := wav.NewWriter(f, uint32(numSamples), renderChannels, synth.SampleRate, renderBits)

	engine.Play()
	defer engine.Stop()

	buf := make([][]float32, renderChannels)
	for ch := range buf {
		buf[ch] = make([]float32, synth.BlockSize)
	}
	samples := make([]wav.Sample, synth.BlockSize)
	for n := 0; n < blocks; n++ {
		if err := engine.Render(buf); err != nil {
			return err
		}
		for i := range samples {
			for ch := 0; ch < renderChannels; ch++ {
				samples[i].Values[ch] = pcm16(buf[ch][i])
			}
		}
		if err := w.WriteSamples(samples); err != nil {
			return err
		}
	}
	return nil
}

const pcmScale = 1 << 15

func pcm16(v float32) int {
	n := int(v * pcmScale)
	if n > pcmScale-1 {
		return pcmScale - 1
	}
	if n < -pcmScale {
		return -pcmScale
	}
	return n
}
