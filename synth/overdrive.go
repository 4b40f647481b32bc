package synth

import (
	"math"
	"sync/atomic"
)

// Overdrive is a soft-clipping waveshaper: out = tanh(drive * in), scaled
// by an output level. With nothing connected upstream it passes silence.
type Overdrive struct {
	nodeBase
	*Props

	in    *Input
	out   *Output
	drive *atomic.Value
	level *atomic.Value
}

func NewOverdrive(props *Props, name string, channels int) *Overdrive {
	d := &Overdrive{
		nodeBase: nodeBase{name: name},
		Props:    props,
	}
	d.in = d.addInput(d, "in", channels)
	d.out = d.addOutput(d, "out", channels)
	d.drive = props.register("drive", setFloat64(0, 10), 2.0)
	d.level = props.register("level", setLevel, 0.)
	return d
}

func (d *Overdrive) In() *Input   { return d.in }
func (d *Overdrive) Out() *Output { return d.out }

func (d *Overdrive) ProcessEvent(ev Event, t float64) {
	switch ev.Kind {
	case NoteOn, NoteOff, AllNotesOff:
		// effects hold no voices
	}
}

func (d *Overdrive) Update(t float64) {
	drive := getFloat(d.drive)
	gain := math.Pow(10, getFloat(d.level)/20.0)
	for ch := range d.out.bufs {
		in := d.in.buffer(ch)
		out := d.out.bufs[ch]
		for i := range out {
			out[i] = math.Tanh(drive*in[i]) * gain
		}
	}
	d.out.hasData = true
}
