package synth

import (
	"errors"
	"reflect"
	"testing"
)

// testNode is a minimal node for graph tests: it copies its input to its
// output so data flow and ordering can be observed.
type testNode struct {
	nodeBase
	in      *Input
	out     *Output
	updates *[]string
}

func newTestNode(name string, updates *[]string) *testNode {
	n := &testNode{nodeBase: nodeBase{name: name}, updates: updates}
	n.in = n.addInput(n, "in", 1)
	n.out = n.addOutput(n, "out", 1)
	return n
}

func (n *testNode) ProcessEvent(ev Event, t float64) {}

func (n *testNode) Update(t float64) {
	if n.updates != nil {
		*n.updates = append(*n.updates, n.name)
	}
	copy(n.out.bufs[0], n.in.buffer(0))
	n.out.hasData = true
}

func position(order []Node, name string) int {
	for i, n := range order {
		if n.Name() == name {
			return i
		}
	}
	return -1
}

func TestComputeOrder(t *testing.T) {
	g := NewNetwork()
	a := newTestNode("a", nil)
	b := newTestNode("b", nil)
	c := newTestNode("c", nil)
	mix := NewMixer(NewProps(), "mix", 2, 1)
	for _, n := range []Node{mix, c, b, a} { // deliberately not in dependency order
		if _, err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	// a -> b -> mix, a -> c -> mix
	for _, conn := range []struct {
		from *Output
		to   *Input
	}{
		{a.out, b.in},
		{b.out, mix.In(0)},
		{a.out, c.in},
		{c.out, mix.In(1)},
	} {
		if err := conn.from.Connect(conn.to); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.ComputeOrder(); err != nil {
		t.Fatal(err)
	}

	order := g.Order()
	if len(order) != 4 {
		t.Fatalf("order has %d nodes, want 4", len(order))
	}
	for _, dep := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "mix"}, {"c", "mix"}} {
		if position(order, dep[0]) > position(order, dep[1]) {
			t.Errorf("%s must come before %s in %v", dep[0], dep[1], order)
		}
	}

	// recomputing with no topology change yields the identical order
	if err := g.ComputeOrder(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(order, g.Order()) {
		t.Error("ComputeOrder is not stable for an unchanged graph")
	}
}

func TestComputeOrderCycle(t *testing.T) {
	g := NewNetwork()
	a := newTestNode("a", nil)
	b := newTestNode("b", nil)
	for _, n := range []Node{a, b} {
		if _, err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.out.Connect(b.in); err != nil {
		t.Fatal(err)
	}
	if err := b.out.Connect(a.in); err != nil {
		t.Fatal(err)
	}
	err := g.ComputeOrder()
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	var cfg *ConfigError
	if !errors.As(err, &cfg) {
		t.Errorf("cycle should be a ConfigError, got %T", err)
	}
	if g.valid {
		t.Error("a failed ComputeOrder must not validate the order")
	}
}

func TestConnectRules(t *testing.T) {
	a := newTestNode("a", nil)
	b := newTestNode("b", nil)
	c := newTestNode("c", nil)

	if err := a.out.Connect(b.in); err != nil {
		t.Fatal(err)
	}
	// connecting the same pair twice is rejected
	if err := a.out.Connect(b.in); err == nil {
		t.Error("expected an error for a duplicate connection")
	}
	// an input takes exactly one source
	if err := c.out.Connect(b.in); err == nil {
		t.Error("expected an error for a second source on one input")
	}
	// fan-out from one output is fine
	if err := a.out.Connect(c.in); err != nil {
		t.Errorf("fan-out: %v", err)
	}
}

func TestConnectChannelCounts(t *testing.T) {
	stereoOut := NewOutputNode("out", 2)
	mixStereo := NewMixer(NewProps(), "stereo", 1, 2)
	mixMono := NewMixer(NewProps(), "mono", 1, 1)

	// matching counts connect
	if err := mixStereo.Out().Connect(stereoOut.In()); err != nil {
		t.Errorf("stereo to stereo: %v", err)
	}
	// mono broadcasts to any width
	if err := mixMono.Out().Connect(mixStereo.In(0)); err != nil {
		t.Errorf("mono broadcast: %v", err)
	}
	// anything else is a config error
	wide := NewMixer(NewProps(), "wide", 1, 4)
	if err := wide.Out().Connect(mixMono.In(0)); err == nil {
		t.Error("expected an error for mismatched channel counts")
	}
}

func TestSingleOutputNode(t *testing.T) {
	g := NewNetwork()
	if _, err := g.AddNode(NewOutputNode("out", 2)); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddNode(NewOutputNode("out2", 2)); err == nil {
		t.Error("expected an error adding a second output node")
	}
}

func TestPortNameCollision(t *testing.T) {
	n := newTestNode("a", nil)
	n.addInput(n, "out", 1) // clashes with the output port
	g := NewNetwork()
	_, err := g.AddNode(n)
	if err == nil {
		t.Fatal("expected an error for two ports with one name")
	}
	var cfg *ConfigError
	if !errors.As(err, &cfg) {
		t.Errorf("port collision should be a ConfigError, got %T", err)
	}
}

func TestAddNodeTwice(t *testing.T) {
	g := NewNetwork()
	a := newTestNode("a", nil)
	if _, err := g.AddNode(a); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddNode(a); err == nil {
		t.Error("expected an error adding a node twice")
	}
}

func TestTopologyChangeInvalidatesOrder(t *testing.T) {
	g := NewNetwork()
	a := newTestNode("a", nil)
	b := newTestNode("b", nil)
	if _, err := g.AddNode(a); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddNode(b); err != nil {
		t.Fatal(err)
	}
	if err := g.ComputeOrder(); err != nil {
		t.Fatal(err)
	}
	if !g.valid {
		t.Fatal("order should be valid after ComputeOrder")
	}
	if err := a.out.Connect(b.in); err != nil {
		t.Fatal(err)
	}
	if g.valid {
		t.Error("a new connection must invalidate the cached order")
	}
}

func TestMissingInputReadsSilence(t *testing.T) {
	g := NewNetwork()
	var updates []string
	a := newTestNode("a", &updates)
	if _, err := g.AddNode(a); err != nil {
		t.Fatal(err)
	}
	if err := g.ComputeOrder(); err != nil {
		t.Fatal(err)
	}
	g.step(0)
	for i, v := range a.out.bufs[0] {
		if v != 0 {
			t.Fatalf("unconnected input produced %v at %d, want silence", v, i)
		}
	}
}

func TestStaleOutputReadsSilence(t *testing.T) {
	a := newTestNode("a", nil)
	b := newTestNode("b", nil)
	if err := a.out.Connect(b.in); err != nil {
		t.Fatal(err)
	}
	a.out.bufs[0][0] = 0.5
	a.out.hasData = true
	if got := b.in.buffer(0)[0]; got != 0.5 {
		t.Fatalf("expected upstream data, got %v", got)
	}
	a.out.hasData = false
	if got := b.in.buffer(0)[0]; got != 0 {
		t.Errorf("stale output should read as silence, got %v", got)
	}
}
