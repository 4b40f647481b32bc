package synth

import (
	"fmt"
	"sync/atomic"
)

// oscProps holds the registered parameters of one oscillator slot.
type oscProps struct {
	wave         *atomic.Value
	volume       *atomic.Value
	detune       *atomic.Value
	duty         *atomic.Value
	sync         *atomic.Value
	attack       *atomic.Value
	decay        *atomic.Value
	sustain      *atomic.Value
	release      *atomic.Value
	attackCurve  *atomic.Value
	decayCurve   *atomic.Value
	releaseCurve *atomic.Value
}

type envProps struct {
	attack  *atomic.Value
	decay   *atomic.Value
	sustain *atomic.Value
	release *atomic.Value
}

func registerEnv(props *Props, prefix string, attack, decay, sustain, release float64) envProps {
	return envProps{
		attack:  props.register(prefix+".attack", setEnvTime, attack),
		decay:   props.register(prefix+".decay", setEnvTime, decay),
		sustain: props.register(prefix+".sustain", setEnvLevel, sustain),
		release: props.register(prefix+".release", setEnvTime, release),
	}
}

func (ep envProps) env() Env {
	return Env{
		Attack:  getFloat(ep.attack),
		Decay:   getFloat(ep.decay),
		Sustain: getFloat(ep.sustain),
		Release: getFloat(ep.release),
	}
}

// AnalogSynth is a polyphonic subtractive instrument node: a bank of
// oscillators per voice, an amplitude envelope per oscillator, a shared
// pitch envelope, and a resonant low-pass filter swept by its own envelope.
// It has a single mono output and no inputs.
type AnalogSynth struct {
	nodeBase
	*Props

	out  *Output
	oscs []oscProps

	cutoff    *atomic.Value
	resonance *atomic.Value
	filterAmt *atomic.Value
	filterEnv envProps

	pitchAmt *atomic.Value // cents
	pitchEnv envProps

	voices  []*voice
	scratch []float64
}

func NewAnalogSynth(props *Props, name string, numOscs int) *AnalogSynth {
	s := &AnalogSynth{
		nodeBase: nodeBase{name: name},
		Props:    props,
		scratch:  make([]float64, BlockSize),
	}
	s.out = s.addOutput(s, "out", 1)

	for n := 1; n <= numOscs; n++ {
		prefix := fmt.Sprintf("osc%d", n)
		op := oscProps{
			wave:         props.register(prefix+".wave", setWaveform, "saw"),
			volume:       props.register(prefix+".volume", setEnvLevel, defaultOscVolume(n)),
			detune:       props.register(prefix+".detune", setCents, 0.0),
			duty:         props.register(prefix+".duty", setFloat64(0.01, 0.99), 0.5),
			sync:         props.register(prefix+".sync", setFloat64(0, 2400), 0.0),
			attack:       props.register(prefix+".attack", setEnvTime, 0.01),
			decay:        props.register(prefix+".decay", setEnvTime, 0.5),
			sustain:      props.register(prefix+".sustain", setEnvLevel, 1.0),
			release:      props.register(prefix+".release", setEnvTime, 0.1),
			attackCurve:  props.register(prefix+".attack.curve", setCurve, 1.0),
			decayCurve:   props.register(prefix+".decay.curve", setCurve, 1.0),
			releaseCurve: props.register(prefix+".release.curve", setCurve, 1.0),
		}
		s.oscs = append(s.oscs, op)
	}

	s.cutoff = props.register("filter.cutoff", setFloat64(0, 1), 1.0)
	s.resonance = props.register("filter.resonance", setFloat64(0, 1), 0.0)
	s.filterAmt = props.register("filter.env", setFloat64(0, 1), 0.0)
	s.filterEnv = registerEnv(props, "filter.envelope", 0.01, 0.5, 1.0, 0.1)

	s.pitchAmt = props.register("pitch.env", setCents, 0.0)
	s.pitchEnv = registerEnv(props, "pitch.envelope", 0.0, 0.3, 0.0, 0.0)

	return s
}

func defaultOscVolume(n int) float64 {
	if n == 1 {
		return 1.0
	}
	return 0.0
}

func (s *AnalogSynth) Out() *Output { return s.out }

func (s *AnalogSynth) oscParams(i int) oscParams {
	op := s.oscs[i]
	return oscParams{
		wave:   op.wave.Load().(Waveform),
		volume: getFloat(op.volume),
		detune: getFloat(op.detune),
		duty:   getFloat(op.duty),
		sync:   getFloat(op.sync),
		env: Env{
			Attack:       getFloat(op.attack),
			Decay:        getFloat(op.decay),
			Sustain:      getFloat(op.sustain),
			Release:      getFloat(op.release),
			AttackCurve:  getFloat(op.attackCurve),
			DecayCurve:   getFloat(op.decayCurve),
			ReleaseCurve: getFloat(op.releaseCurve),
		},
	}
}

// voice is the state of one sounding note. Envelope parameters are copied
// in at (re)trigger time so edits apply to the next note, like the other
// instruments do. The filter registers deliberately survive retriggers.
type voice struct {
	note     *Note
	velocity float64
	onTime   float64
	offTime  float64 // 0 while held

	oscs []voiceOsc

	filterEnv  Env
	fOn, fOff  float64
	pitchEnv   Env
	pOn, pOff  float64
	filterAmt  float64
	pitchCents float64
	filt       filter
}

type voiceOsc struct {
	params oscParams
	state  oscState

	// envelope amplitudes at the last note-on and note-off, so envelopes
	// continue from where they were instead of restarting at 0 or 1
	onAmp, offAmp float64
}

func (s *AnalogSynth) ProcessEvent(ev Event, t float64) {
	switch ev.Kind {
	case NoteOn:
		s.noteOn(ev, t)
	case NoteOff:
		s.noteOff(ev, t)
	case AllNotesOff:
		s.voices = s.voices[:0]
	}
}

func (s *AnalogSynth) findVoice(note *Note) *voice {
	for _, v := range s.voices {
		if v.note == note {
			return v
		}
	}
	return nil
}

func (s *AnalogSynth) noteOn(ev Event, t float64) {
	v := s.findVoice(ev.Note)
	if v == nil {
		v = &voice{note: ev.Note, velocity: ev.Velocity, onTime: t}
		v.oscs = make([]voiceOsc, len(s.oscs))
		for i := range v.oscs {
			v.oscs[i].params = s.oscParams(i)
		}
		v.filterEnv = s.filterEnv.env()
		v.pitchEnv = s.pitchEnv.env()
		v.filterAmt = getFloat(s.filterAmt)
		v.pitchCents = getFloat(s.pitchAmt)
		s.voices = append(s.voices, v)
		return
	}

	// Retrigger of a note that is still sounding: capture each envelope's
	// current value so the new attack starts from the present amplitude.
	for i := range v.oscs {
		o := &v.oscs[i]
		o.onAmp = o.params.env.Value(t, v.onTime, v.offTime, o.onAmp, o.offAmp)
		o.params = s.oscParams(i)
	}
	v.fOn = v.filterEnv.Value(t, v.onTime, v.offTime, v.fOn, v.fOff)
	v.pOn = v.pitchEnv.Value(t, v.onTime, v.offTime, v.pOn, v.pOff)
	v.filterEnv = s.filterEnv.env()
	v.pitchEnv = s.pitchEnv.env()
	v.filterAmt = getFloat(s.filterAmt)
	v.pitchCents = getFloat(s.pitchAmt)
	v.onTime = t
	v.offTime = 0
	v.velocity = ev.Velocity
}

func (s *AnalogSynth) noteOff(ev Event, t float64) {
	v := s.findVoice(ev.Note)
	if v == nil {
		return
	}
	for i := range v.oscs {
		o := &v.oscs[i]
		o.offAmp = o.params.env.Value(t, v.onTime, v.offTime, o.onAmp, o.offAmp)
	}
	v.fOff = v.filterEnv.Value(t, v.onTime, v.offTime, v.fOn, v.fOff)
	v.pOff = v.pitchEnv.Value(t, v.onTime, v.offTime, v.pOn, v.pOff)
	v.offTime = t
}

func (s *AnalogSynth) Update(t float64) {
	s.out.clear()
	out := s.out.bufs[0]
	t1 := t + BlockSize/float64(SampleRate)

	cutoff := getFloat(s.cutoff)
	resonance := getFloat(s.resonance)

	keep := s.voices[:0]
	for _, v := range s.voices {
		for i := range s.scratch {
			s.scratch[i] = 0
		}

		pitch := v.pitchEnv.Value(t, v.onTime, v.offTime, v.pOn, v.pOff) * v.pitchCents
		maxAmp := 0.0
		for i := range v.oscs {
			o := &v.oscs[i]
			a0 := o.params.env.Value(t, v.onTime, v.offTime, o.onAmp, o.offAmp)
			a1 := o.params.env.Value(t1, v.onTime, v.offTime, o.onAmp, o.offAmp)
			if a1 > maxAmp {
				maxAmp = a1
			}
			freq := v.note.FreqCents(o.params.detune + pitch)
			o.params.generate(&o.state, s.scratch, freq, a0*v.velocity, a1*v.velocity)
		}

		fenv := v.filterEnv.Value(t, v.onTime, v.offTime, v.fOn, v.fOff)
		v.filt.process(s.scratch, clamp01(cutoff+fenv*(1-cutoff)*v.filterAmt), resonance)

		for i := range out {
			out[i] += s.scratch[i]
		}

		// Retire only released voices. A held voice whose attack starts
		// at amplitude 0 must not be mistaken for one that has decayed.
		if v.offTime == 0 || maxAmp > 0 {
			keep = append(keep, v)
		}
	}
	s.voices = keep
	s.out.hasData = true
}

// ActiveVoices reports how many notes are currently sounding.
func (s *AnalogSynth) ActiveVoices() int { return len(s.voices) }
