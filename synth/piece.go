package synth

import (
	"sort"
)

// Track owns a time-ordered sequence of events and points at the node that
// should receive them. Events may be inserted out of order while editing;
// the slice is kept sorted on insert.
type Track struct {
	target Node
	events []Event
}

func (t *Track) Target() Node { return t.target }

// Events returns a copy of the track's event list, for read-only
// collaborators such as exporters.
func (t *Track) Events() []Event {
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// AddEvent inserts an event keeping the list sorted by time.
func (t *Track) AddEvent(ev Event) {
	i := sort.Search(len(t.events), func(i int) bool {
		return t.events[i].Time > ev.Time
	})
	t.events = append(t.events, Event{})
	copy(t.events[i+1:], t.events[i:])
	t.events[i] = ev
}

// dispatch delivers all events with time in [from, to), in order, to the
// track's target node. realTime is the engine clock, which unlike piece
// time never loops.
func (t *Track) dispatch(from, to, realTime float64) {
	i := sort.Search(len(t.events), func(i int) bool {
		return t.events[i].Time >= from
	})
	for ; i < len(t.events) && t.events[i].Time < to; i++ {
		t.target.ProcessEvent(t.events[i], realTime)
	}
}

// Piece owns the tracks, the tempo, and the playback position. Time
// advances in quanta of one block and wraps at the loop point.
type Piece struct {
	tracks []*Track

	bpm         float64
	beatsPerBar float64
	noteValue   float64

	playTime float64
	prevTime float64
	loopTime float64 // 0 means no loop
}

func NewPiece(bpm, beatsPerBar, noteValue float64) *Piece {
	return &Piece{bpm: bpm, beatsPerBar: beatsPerBar, noteValue: noteValue}
}

func (p *Piece) SetTempo(bpm, beatsPerBar, noteValue float64) {
	p.bpm = bpm
	p.beatsPerBar = beatsPerBar
	p.noteValue = noteValue
}

func (p *Piece) Tempo() (bpm, beatsPerBar, noteValue float64) {
	return p.bpm, p.beatsPerBar, p.noteValue
}

// SetLoop makes playback wrap to 0 when it reaches t seconds; 0 disables
// looping.
func (p *Piece) SetLoop(t float64) { p.loopTime = t }

func (p *Piece) Loop() float64 { return p.loopTime }

func (p *Piece) Tracks() []*Track { return p.tracks }

func (p *Piece) AddTrack(target Node) *Track {
	t := &Track{target: target}
	p.tracks = append(p.tracks, t)
	return t
}

// BeatLen is the length of one beat in seconds.
func (p *Piece) BeatLen() float64 { return 60 / p.bpm }

// NoteLen converts a written note length multiplier to seconds. The 0.99
// keeps a note's off event just short of the next note's on event so they
// never collide at the same timestamp.
func (p *Piece) NoteLen(mult float64) float64 {
	return mult * (p.BeatLen() * p.beatsPerBar / p.noteValue) * 0.99
}

// AddNote writes a note-on at the given beat and the matching note-off
// after the note's written length.
func (p *Piece) AddNote(t *Track, beat float64, note *Note, lengthMult, velocity float64) {
	if note == nil {
		return
	}
	on := beat * p.BeatLen()
	t.AddEvent(Event{Kind: NoteOn, Time: on, Note: note, Velocity: velocity})
	t.AddEvent(Event{Kind: NoteOff, Time: on + p.NoteLen(lengthMult), Note: note})
}

// Rewind resets playback to the top of the piece.
func (p *Piece) Rewind() {
	p.playTime = 0
	p.prevTime = 0
}

// park moves the playhead past any event so nothing further dispatches.
func (p *Piece) park() {
	p.playTime = unreachableTime
	p.prevTime = unreachableTime
}

const unreachableTime = 1e18

const loopEpsilon = 1e-9

// advance moves the playhead one block forward and dispatches every event
// whose time falls inside the block. When the block end crosses the loop
// point, events up to and including the boundary are flushed first and
// playback resumes at 0 on the next block.
func (p *Piece) advance(realTime float64) {
	prev := p.playTime
	cur := prev + BlockSize/float64(SampleRate)

	if p.loopTime > 0 && cur > p.loopTime {
		for _, t := range p.tracks {
			t.dispatch(prev, p.loopTime+loopEpsilon, realTime)
		}
		p.prevTime = prev
		p.playTime = 0
		return
	}
	for _, t := range p.tracks {
		t.dispatch(prev, cur, realTime)
	}
	p.prevTime = prev
	p.playTime = cur
}

// PlayTime reports the playhead position in piece seconds.
func (p *Piece) PlayTime() float64 { return p.playTime }
