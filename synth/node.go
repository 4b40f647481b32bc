package synth

// Node is a processing unit in the network. Ports are declared at
// construction and enumerated through Inputs and Outputs; the scheduler
// never discovers connections any other way. ProcessEvent receives
// dispatched timeline events with the engine's real (non-looping) time;
// Update is invoked exactly once per block in topological order.
type Node interface {
	Name() string
	Inputs() []*Input
	Outputs() []*Output
	ProcessEvent(ev Event, t float64)
	Update(t float64)

	base() *nodeBase
}

// nodeBase carries the port registry shared by all node types.
type nodeBase struct {
	name string
	net  *Network
	ins  []*Input
	outs []*Output
}

func (b *nodeBase) Name() string       { return b.name }
func (b *nodeBase) Inputs() []*Input   { return b.ins }
func (b *nodeBase) Outputs() []*Output { return b.outs }
func (b *nodeBase) base() *nodeBase    { return b }

func (b *nodeBase) addInput(owner Node, name string, channels int) *Input {
	in := &Input{name: name, node: owner, channels: channels}
	b.ins = append(b.ins, in)
	return in
}

func (b *nodeBase) addOutput(owner Node, name string, channels int) *Output {
	out := &Output{name: name, node: owner}
	out.bufs = make([][]float64, channels)
	for ch := range out.bufs {
		out.bufs[ch] = make([]float64, BlockSize)
	}
	b.outs = append(b.outs, out)
	return out
}

// Output is a producing port. It owns one block-sized buffer per channel
// and a flag marking whether the owning node wrote data this block. An
// output may feed any number of inputs.
type Output struct {
	name    string
	node    Node
	bufs    [][]float64
	hasData bool
	dests   []*Input
}

func (o *Output) Name() string  { return o.name }
func (o *Output) Channels() int { return len(o.bufs) }

// Connect wires this output to an input. An input accepts exactly one
// source, and channel counts must match unless the source is mono, which
// broadcasts to every destination channel.
func (o *Output) Connect(in *Input) error {
	if in.src == o {
		return configErrorf("output %s.%s is already connected to input %s.%s",
			o.node.Name(), o.name, in.node.Name(), in.name)
	}
	if in.src != nil {
		return configErrorf("input %s.%s already has a source", in.node.Name(), in.name)
	}
	if len(o.bufs) != in.channels && len(o.bufs) != 1 {
		return configErrorf("cannot connect %d-channel output %s.%s to %d-channel input %s.%s",
			len(o.bufs), o.node.Name(), o.name, in.channels, in.node.Name(), in.name)
	}
	in.src = o
	o.dests = append(o.dests, in)
	if net := o.node.base().net; net != nil {
		net.invalidate()
	}
	if net := in.node.base().net; net != nil {
		net.invalidate()
	}
	return nil
}

// clear zeroes the output's buffers. Producing nodes call it at the top of
// Update before accumulating into the buffers.
func (o *Output) clear() {
	for _, buf := range o.bufs {
		for i := range buf {
			buf[i] = 0
		}
	}
}

// Input is a consuming port holding a reference to at most one output.
type Input struct {
	name     string
	node     Node
	channels int
	src      *Output
}

func (in *Input) Name() string { return in.name }

// zeroBlock is what an input without fresh upstream data reads. It is
// shared; nodes must never write through an input.
var zeroBlock = make([]float64, BlockSize)

// buffer returns the samples feeding channel ch this block. A missing or
// silent source reads as silence, never garbage, so effect and mixer nodes
// need no special cases for unconnected inputs. A mono source fans out to
// every channel.
func (in *Input) buffer(ch int) []float64 {
	if in.src == nil || !in.src.hasData {
		return zeroBlock
	}
	if len(in.src.bufs) == 1 {
		return in.src.bufs[0]
	}
	return in.src.bufs[ch]
}
