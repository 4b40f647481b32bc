//go:build !linux || cgo

package playback

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/ebitengine/oto/v3"

	"wavegraph/synth"
)

type otoDriver struct {
	ctx    *oto.Context
	player *oto.Player
}

func newOto(engine *synth.Engine) (*otoDriver, error) {
	op := &oto.NewContextOptions{
		SampleRate:   synth.SampleRate,
		ChannelCount: numChannels,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	d := &otoDriver{ctx: ctx}
	d.player = ctx.NewPlayer(newOtoReader(engine))
	return d, nil
}

func (d *otoDriver) Start() error {
	d.player.Play()
	return nil
}

func (d *otoDriver) Stop() error {
	return d.player.Close()
}

// otoReader renders whole engine buffers and serves them as interleaved
// little-endian float32 bytes, carrying any remainder to the next Read
// since oto reads arbitrary amounts.
type otoReader struct {
	engine  *synth.Engine
	chans   [][]float32
	pending []byte
}

func newOtoReader(engine *synth.Engine) *otoReader {
	chans := make([][]float32, numChannels)
	for ch := range chans {
		chans[ch] = make([]float32, bufferSize)
	}
	return &otoReader{engine: engine, chans: chans}
}

func (r *otoReader) Read(p []byte) (int, error) {
	for len(r.pending) < len(p) {
		if err := r.engine.Render(r.chans); err != nil {
			log.Printf("oto: render: %v", err)
			for ch := range r.chans {
				for i := range r.chans[ch] {
					r.chans[ch][i] = 0
				}
			}
		}
		var frame [4]byte
		for i := 0; i < bufferSize; i++ {
			for ch := range r.chans {
				binary.LittleEndian.PutUint32(frame[:], math.Float32bits(r.chans[ch][i]))
				r.pending = append(r.pending, frame[:]...)
			}
		}
	}
	n := copy(p, r.pending)
	rest := copy(r.pending, r.pending[n:])
	r.pending = r.pending[:rest]
	return n, nil
}
