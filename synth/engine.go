package synth

import (
	"fmt"
	"sync"
)

const (
	SampleRate = 44100
	// BlockSize is the scheduling quantum: events are dispatched and nodes
	// updated once per block. Hosts must render in multiples of it.
	BlockSize = 64
)

// Engine ties a network and a piece together into one session with its own
// clock. The host audio callback drives it through Render; authoring calls
// go through Edit, which takes the same lock, so track lists are never
// mutated while a dispatch is searching them.
type Engine struct {
	mu      sync.Mutex
	net     *Network
	piece   *Piece
	clock   float64 // audio time in seconds, never loops
	playing bool
}

func NewEngine(net *Network, piece *Piece) (*Engine, error) {
	if net.Sink() == nil {
		return nil, configErrorf("network has no output node")
	}
	return &Engine{net: net, piece: piece}, nil
}

func (e *Engine) Network() *Network { return e.net }

// Edit runs an authoring function under the engine lock, serialized
// against the render callback.
func (e *Engine) Edit(f func(p *Piece)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f(e.piece)
}

// Play rewinds the piece and starts dispatching events.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.piece.Rewind()
	e.playing = true
}

// Stop silences every node immediately and parks the playhead; rendering
// continues but no further events dispatch.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.net.Broadcast(Event{Kind: AllNotesOff, Time: e.clock}, e.clock)
	e.piece.park()
	e.playing = false
}

func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Render fills the host's channel buffers. The buffer length must be a
// multiple of BlockSize and the graph order must have been computed; both
// are collaborator mistakes, reported as errors. Past validation, the
// per-block path cannot fail.
func (e *Engine) Render(out [][]float32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(out) == 0 {
		return nil
	}
	numSamples := len(out[0])
	for _, ch := range out {
		if len(ch) != numSamples {
			return fmt.Errorf("render: channel buffers differ in length")
		}
	}
	if numSamples%BlockSize != 0 {
		return fmt.Errorf("render: %d samples is not a multiple of the block size %d", numSamples, BlockSize)
	}
	if !e.net.valid {
		return ErrNoOrder
	}

	sink := e.net.Sink()
	blockDur := BlockSize / float64(SampleRate)
	for off := 0; off < numSamples; off += BlockSize {
		if e.playing {
			e.piece.advance(e.clock)
		}
		e.net.step(e.clock)
		for ch := range out {
			src := sink.Channel(ch % sink.NumChannels())
			for i := 0; i < BlockSize; i++ {
				out[ch][off+i] = float32(src[i])
			}
		}
		e.clock += blockDur
	}
	return nil
}
