package synth

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Mixer sums its inputs, each scaled by a per-input gain, then applies a
// master level. Gains are in dB like everything else on the desk.
type Mixer struct {
	nodeBase
	*Props

	out    *Output
	gains  []*atomic.Value
	master *atomic.Value
}

func NewMixer(props *Props, name string, numInputs, channels int) *Mixer {
	m := &Mixer{
		nodeBase: nodeBase{name: name},
		Props:    props,
	}
	for n := 1; n <= numInputs; n++ {
		m.addInput(m, fmt.Sprintf("in%d", n), channels)
		m.gains = append(m.gains, props.register(fmt.Sprintf("gain.%d", n), setLevel, 0.))
	}
	m.out = m.addOutput(m, "out", channels)
	m.master = props.register("level", setLevel, 0.)
	return m
}

// In returns the i'th input, counting from 0.
func (m *Mixer) In(i int) *Input { return m.ins[i] }
func (m *Mixer) Out() *Output    { return m.out }

func (m *Mixer) ProcessEvent(ev Event, t float64) {
	switch ev.Kind {
	case NoteOn, NoteOff, AllNotesOff:
	}
}

func (m *Mixer) Update(t float64) {
	m.out.clear()
	for i, in := range m.ins {
		gain := math.Pow(10, getFloat(m.gains[i])/20.0)
		for ch := range m.out.bufs {
			src := in.buffer(ch)
			out := m.out.bufs[ch]
			for n := range out {
				out[n] += gain * src[n]
			}
		}
	}
	master := math.Pow(10, getFloat(m.master)/20.0)
	for _, buf := range m.out.bufs {
		for n := range buf {
			buf[n] *= master
		}
	}
	m.out.hasData = true
}

// OutputNode is the sink of the network. It does no processing: each block
// it copies its input into per-channel buffers that the host render loop
// reads back. A network accepts exactly one.
type OutputNode struct {
	nodeBase

	in    *Input
	chans [][]float64
}

func NewOutputNode(name string, channels int) *OutputNode {
	o := &OutputNode{nodeBase: nodeBase{name: name}}
	o.in = o.addInput(o, "in", channels)
	o.chans = make([][]float64, channels)
	for ch := range o.chans {
		o.chans[ch] = make([]float64, BlockSize)
	}
	return o
}

func (o *OutputNode) In() *Input { return o.in }

// NumChannels reports the sink's channel count.
func (o *OutputNode) NumChannels() int { return len(o.chans) }

// Channel returns the rendered samples for one channel of the current
// block.
func (o *OutputNode) Channel(ch int) []float64 { return o.chans[ch] }

func (o *OutputNode) ProcessEvent(ev Event, t float64) {
	switch ev.Kind {
	case NoteOn, NoteOff, AllNotesOff:
	}
}

func (o *OutputNode) Update(t float64) {
	for ch := range o.chans {
		copy(o.chans[ch], o.in.buffer(ch))
	}
}
