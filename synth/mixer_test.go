package synth

import "testing"

// srcNode emits a constant value on every channel of its single output.
type srcNode struct {
	nodeBase
	out   *Output
	value float64
}

func newSrcNode(name string, channels int, value float64) *srcNode {
	n := &srcNode{nodeBase: nodeBase{name: name}, value: value}
	n.out = n.addOutput(n, "out", channels)
	return n
}

func (n *srcNode) ProcessEvent(ev Event, t float64) {}

func (n *srcNode) Update(t float64) {
	n.out.clear()
	for _, buf := range n.out.bufs {
		for i := range buf {
			buf[i] = n.value
		}
	}
	n.out.hasData = true
}

func TestMixerSumsInputs(t *testing.T) {
	a := newSrcNode("a", 1, 0.25)
	b := newSrcNode("b", 1, 0.5)
	m := NewMixer(NewProps(), "mix", 2, 1)
	if err := a.out.Connect(m.In(0)); err != nil {
		t.Fatal(err)
	}
	if err := b.out.Connect(m.In(1)); err != nil {
		t.Fatal(err)
	}

	a.Update(0)
	b.Update(0)
	m.Update(0)
	if got, want := m.out.bufs[0][0], 0.75; !closeTo(got, want, 1e-9) {
		t.Errorf("mix = %v, want %v", got, want)
	}
}

func TestMixerGains(t *testing.T) {
	a := newSrcNode("a", 1, 1)
	b := newSrcNode("b", 1, 1)
	m := NewMixer(NewProps(), "mix", 2, 1)
	if err := a.out.Connect(m.In(0)); err != nil {
		t.Fatal(err)
	}
	if err := b.out.Connect(m.In(1)); err != nil {
		t.Fatal(err)
	}
	if err := m.Set("gain.1", -20.0); err != nil {
		t.Fatal(err)
	}
	if err := m.Set("gain.2", -40.0); err != nil {
		t.Fatal(err)
	}
	if err := m.Set("level", -20.0); err != nil {
		t.Fatal(err)
	}

	a.Update(0)
	b.Update(0)
	m.Update(0)
	// (0.1 + 0.01) scaled by the 0.1 master
	if got, want := m.out.bufs[0][0], 0.011; !closeTo(got, want, 1e-9) {
		t.Errorf("mix = %v, want %v", got, want)
	}
}

func TestMixerSilentInput(t *testing.T) {
	a := newSrcNode("a", 1, 0.5)
	m := NewMixer(NewProps(), "mix", 2, 1)
	if err := a.out.Connect(m.In(0)); err != nil {
		t.Fatal(err)
	}

	// in2 is unconnected and must read as silence
	a.Update(0)
	m.Update(0)
	if got, want := m.out.bufs[0][0], 0.5; !closeTo(got, want, 1e-9) {
		t.Errorf("mix with one silent input = %v, want %v", got, want)
	}
}

func TestOutputNodeCopiesInput(t *testing.T) {
	a := newSrcNode("a", 2, 0.25)
	o := NewOutputNode("out", 2)
	if err := a.out.Connect(o.In()); err != nil {
		t.Fatal(err)
	}

	a.Update(0)
	o.Update(0)
	if o.NumChannels() != 2 {
		t.Fatalf("NumChannels = %v, want 2", o.NumChannels())
	}
	for ch := 0; ch < 2; ch++ {
		if got := o.Channel(ch)[BlockSize-1]; got != 0.25 {
			t.Errorf("channel %d = %v, want 0.25", ch, got)
		}
	}
}

func TestOutputNodeMonoBroadcast(t *testing.T) {
	a := newSrcNode("a", 1, 0.5)
	o := NewOutputNode("out", 2)
	if err := a.out.Connect(o.In()); err != nil {
		t.Fatal(err)
	}

	a.Update(0)
	o.Update(0)
	if l, r := o.Channel(0)[0], o.Channel(1)[0]; l != 0.5 || r != 0.5 {
		t.Errorf("mono source should feed both channels, got %v and %v", l, r)
	}
}
