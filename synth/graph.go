package synth

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid graph or port configuration. All
// configuration problems surface while the graph is being built; the render
// path never sees one.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func configErrorf(format string, args ...interface{}) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// ErrNoOrder is returned when rendering is attempted before ComputeOrder,
// or after a topology change invalidated the cached order.
var ErrNoOrder = errors.New("synth: no valid node order, call ComputeOrder after building the graph")

// Network owns the node list, the single output node and the cached
// topological order. Adding a node or making a connection invalidates the
// order; ComputeOrder must be called again before the next render.
type Network struct {
	nodes []Node
	sink  *OutputNode
	order []Node
	valid bool
}

func NewNetwork() *Network {
	return &Network{}
}

// AddNode registers a node with the network and returns it. At most one
// OutputNode may be added.
func (g *Network) AddNode(n Node) (Node, error) {
	b := n.base()
	if b.net == g {
		return nil, configErrorf("node %s added twice", n.Name())
	}
	if b.net != nil {
		return nil, configErrorf("node %s already belongs to another network", n.Name())
	}
	if sink, ok := n.(*OutputNode); ok {
		if g.sink != nil {
			return nil, configErrorf("network already has an output node: %s", g.sink.Name())
		}
		g.sink = sink
	}
	names := make(map[string]bool)
	for _, in := range n.Inputs() {
		if names[in.name] {
			return nil, configErrorf("node %s has two ports named %s", n.Name(), in.name)
		}
		names[in.name] = true
	}
	for _, out := range n.Outputs() {
		if names[out.name] {
			return nil, configErrorf("node %s has two ports named %s", n.Name(), out.name)
		}
		names[out.name] = true
	}
	b.net = g
	g.nodes = append(g.nodes, n)
	g.invalidate()
	return n, nil
}

func (g *Network) Sink() *OutputNode { return g.sink }

func (g *Network) invalidate() { g.valid = false }

// ComputeOrder derives the node execution order with Kahn's algorithm over
// the port connections. A cycle is a configuration error; it is reported
// here, before any audio is produced, and never discovered mid-stream.
// With an unchanged topology the computed order is stable.
func (g *Network) ComputeOrder() error {
	indegree := make(map[Node]int, len(g.nodes))
	for _, n := range g.nodes {
		deg := 0
		for _, in := range n.Inputs() {
			if in.src != nil {
				deg++
			}
		}
		indegree[n] = deg
	}

	var ready []Node
	for _, n := range g.nodes {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}

	order := make([]Node, 0, len(g.nodes))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, out := range n.Outputs() {
			for _, in := range out.dests {
				m := in.node
				indegree[m]--
				if indegree[m] == 0 {
					ready = append(ready, m)
				}
			}
		}
	}
	if len(order) != len(g.nodes) {
		return configErrorf("connection graph contains a cycle")
	}
	g.order = order
	g.valid = true
	return nil
}

// Order returns the cached execution order, for inspection.
func (g *Network) Order() []Node {
	out := make([]Node, len(g.order))
	copy(out, g.order)
	return out
}

// step runs one block: all output flags are cleared so stale buffers from
// the previous block read as silence, then every node updates in
// dependency order.
func (g *Network) step(t float64) {
	for _, n := range g.nodes {
		for _, out := range n.Outputs() {
			out.hasData = false
		}
	}
	for _, n := range g.order {
		n.Update(t)
	}
}

// Broadcast delivers an event to every node, connected or not. Stopping
// playback uses it to cut all voices at once.
func (g *Network) Broadcast(ev Event, t float64) {
	for _, n := range g.nodes {
		n.ProcessEvent(ev, t)
	}
}
