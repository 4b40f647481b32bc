package synth

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"sync/atomic"
)

const (
	kitKeys = 25
	kitRoot = 48 // C3
)

// SoundMapping assigns a Sound to each key of a SampleKit. Updates go
// through the props registry with a copied mapping, never in place.
type SoundMapping [kitKeys]*Sound

func (m *SoundMapping) Put(key int, snd *Sound) {
	if key >= kitRoot && key < kitRoot+kitKeys {
		m[key-kitRoot] = snd
	}
}

func setSoundMapping(v interface{}, dest *atomic.Value) error {
	m, ok := v.(*SoundMapping)
	if !ok {
		return fmt.Errorf("property value is not a sound mapping: %v", v)
	}
	dest.Store(m)
	return nil
}

func setSound(v interface{}, dest *atomic.Value) error {
	s, ok := v.(*Sound)
	if !ok {
		return fmt.Errorf("property value is not a sound: %v", v)
	}
	dest.Store(s)
	return nil
}

// PropSoundMap is the key under which a SampleKit's mapping is registered.
const PropSoundMap = "sounds.map"

// SampleKit plays one-shot samples mapped to a range of keys, drum machine
// style. Note-offs are ignored; a sounding sample runs to its end. A key
// without a loaded sound ignores the note-on.
type SampleKit struct {
	nodeBase
	*Props

	out    *Output
	sounds *atomic.Value
	levels [kitKeys]*atomic.Value

	voices []*kitVoice
}

type kitVoice struct {
	pitch int
	buf   []float64
	pos   int
	gain  float64
}

func NewSampleKit(props *Props, name string) *SampleKit {
	k := &SampleKit{
		nodeBase: nodeBase{name: name},
		Props:    props,
	}
	k.out = k.addOutput(k, "out", 1)
	k.sounds = props.register(PropSoundMap, setSoundMapping, &SoundMapping{})
	for n := 0; n < kitKeys; n++ {
		key := strconv.Itoa(kitRoot + n)
		k.levels[n] = props.register("level."+key, setLevel, 0.)
	}
	return k
}

func (k *SampleKit) Out() *Output { return k.out }

func (k *SampleKit) ProcessEvent(ev Event, t float64) {
	switch ev.Kind {
	case NoteOn:
		k.noteOn(ev)
	case NoteOff:
		// one-shot samples play out
	case AllNotesOff:
		k.voices = k.voices[:0]
	}
}

func (k *SampleKit) noteOn(ev Event) {
	pitch := ev.Note.Number()
	if pitch < kitRoot || pitch >= kitRoot+kitKeys {
		return
	}
	mapping := k.sounds.Load().(*SoundMapping)
	snd := mapping[pitch-kitRoot]
	if snd == nil || len(snd.buf) == 0 {
		log.Printf("kit: no sound mapped to pitch %d", pitch)
		return
	}
	db := getFloat(k.levels[pitch-kitRoot])
	k.voices = append(k.voices, &kitVoice{
		pitch: pitch,
		buf:   snd.buf,
		gain:  math.Pow(10, db/20.0) * ev.Velocity,
	})
}

func (k *SampleKit) Update(t float64) {
	k.out.clear()
	out := k.out.bufs[0]

	keep := k.voices[:0]
	for _, v := range k.voices {
		n := len(out)
		if rest := len(v.buf) - v.pos; rest < n {
			n = rest
		}
		for i := 0; i < n; i++ {
			out[i] += v.buf[v.pos] * v.gain
			v.pos++
		}
		if v.pos < len(v.buf) {
			keep = append(keep, v)
		}
	}
	k.voices = keep
	k.out.hasData = true
}

// SamplePitch plays a single sample chromatically, resampling it by the
// ratio of the played note's frequency to the root note's. A note-off
// starts a short fade instead of a full release envelope.
type SamplePitch struct {
	nodeBase
	*Props

	out   *Output
	sound *atomic.Value
	root  *atomic.Value
	level *atomic.Value

	voices []*pitchVoice
}

type pitchVoice struct {
	note *Note
	buf  []float64
	pos  float64
	step float64
	gain float64
	fade float64 // 1 while held, ramps to 0 after note-off
	off  bool
}

const pitchFadeTime = 0.005 // seconds

func NewSamplePitch(props *Props, name string) *SamplePitch {
	p := &SamplePitch{
		nodeBase: nodeBase{name: name},
		Props:    props,
	}
	p.out = p.addOutput(p, "out", 1)
	p.sound = props.register("sound", setSound, &Sound{})
	p.root = props.register("root", setInt, 60)
	p.level = props.register("level", setLevel, 0.)
	return p
}

func (p *SamplePitch) Out() *Output { return p.out }

func (p *SamplePitch) ProcessEvent(ev Event, t float64) {
	switch ev.Kind {
	case NoteOn:
		p.noteOn(ev)
	case NoteOff:
		for _, v := range p.voices {
			if v.note == ev.Note && !v.off {
				v.off = true
			}
		}
	case AllNotesOff:
		p.voices = p.voices[:0]
	}
}

func (p *SamplePitch) noteOn(ev Event) {
	snd := p.sound.Load().(*Sound)
	if len(snd.buf) == 0 {
		log.Printf("%s: sample not loaded, ignoring note %s", p.name, ev.Note)
		return
	}
	root := GetNote(p.root.Load().(int))
	if root == nil {
		return
	}
	db := getFloat(p.level)
	for _, v := range p.voices {
		if v.note == ev.Note {
			// retrigger restarts the sample
			v.buf = snd.buf
			v.pos = 0
			v.step = ev.Note.Freq() / root.Freq()
			v.gain = math.Pow(10, db/20.0) * ev.Velocity
			v.fade = 1
			v.off = false
			return
		}
	}
	p.voices = append(p.voices, &pitchVoice{
		note: ev.Note,
		buf:  snd.buf,
		step: ev.Note.Freq() / root.Freq(),
		gain: math.Pow(10, db/20.0) * ev.Velocity,
		fade: 1,
	})
}

func (p *SamplePitch) Update(t float64) {
	p.out.clear()
	out := p.out.bufs[0]
	fadeStep := 1 / (pitchFadeTime * SampleRate)

	keep := p.voices[:0]
	for _, v := range p.voices {
		for i := range out {
			if v.off {
				v.fade -= fadeStep
				if v.fade <= 0 {
					v.fade = 0
					break
				}
			}
			j := int(v.pos)
			if j+1 >= len(v.buf) {
				v.pos = float64(len(v.buf))
				break
			}
			frac := v.pos - float64(j)
			sample := v.buf[j]*(1-frac) + v.buf[j+1]*frac
			out[i] += sample * v.gain * v.fade
			v.pos += v.step
		}
		if v.fade > 0 && int(v.pos)+1 < len(v.buf) {
			keep = append(keep, v)
		}
	}
	p.voices = keep
	p.out.hasData = true
}
