package synth

// EventKind discriminates the variants of Event. Every node handles all
// three kinds in its event handler.
type EventKind int

const (
	NoteOn EventKind = iota
	NoteOff
	AllNotesOff
)

func (k EventKind) String() string {
	switch k {
	case NoteOn:
		return "note-on"
	case NoteOff:
		return "note-off"
	case AllNotesOff:
		return "all-notes-off"
	}
	return "unknown"
}

// Event is a timestamped musical event. Time is in piece seconds. Note is
// nil and Velocity zero for AllNotesOff. Events are immutable once created.
type Event struct {
	Kind     EventKind
	Time     float64
	Note     *Note
	Velocity float64 // 0..1
}
