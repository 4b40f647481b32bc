package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"wavegraph/script"
	"wavegraph/synth"
)

type command struct {
	name  string
	run   func(*env, []script.Node, io.Writer) error
	arity int // -n means len(args) must be >= n
}

var commands = []command{
	{"set", setCommand, 3},
	{"get", getCommand, 2},
	{"tempo", tempoCommand, -1},
	{"loop", loopCommand, 1},
	{"track", trackCommand, 2},
	{"note", noteCommand, -3},
	{"seq", seqCommand, 3},
	{"load-sound", loadSoundCommand, 3},
	{"sample", sampleCommand, 2},
	{"preset", presetCommand, 2},
	{"props", propsCommand, 1},
	{"render", renderCommand, 2},
	{"play", playCommand, 0},
	{"stop", stopCommand, 0},
	{"show", showCommand, 0},
	{"exit", exitCommand, 0},
}

// errExit asks the REPL loop to terminate.
var errExit = errors.New("exit")

func setCommand(env *env, args []script.Node, _ io.Writer) error {
	var device, prop string
	if err := readArgs(args[:2], &device, &prop); err != nil {
		return err
	}
	dev, err := env.device(device)
	if err != nil {
		return err
	}
	switch v := args[2].(type) {
	case script.Number:
		return dev.Set(prop, float64(v))
	case script.String:
		return dev.Set(prop, string(v))
	case script.Identifier:
		return dev.Set(prop, string(v))
	default:
		return fmt.Errorf("unsupported property type: %v", v)
	}
}

func getCommand(env *env, args []script.Node, out io.Writer) error {
	var device, prop string
	if err := readArgs(args, &device, &prop); err != nil {
		return err
	}
	dev, err := env.device(device)
	if err != nil {
		return err
	}
	v, err := dev.Get(prop)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, v)
	return nil
}

func tempoCommand(env *env, args []script.Node, _ io.Writer) error {
	env.engine.Edit(func(p *synth.Piece) {
		bpm, beats, value := p.Tempo()
		slots := []*float64{&bpm, &beats, &value}
		for i := 0; i < len(args) && i < len(slots); i++ {
			if n, ok := args[i].(script.Number); ok {
				*slots[i] = float64(n)
			}
		}
		p.SetTempo(bpm, beats, value)
	})
	return nil
}

func loopCommand(env *env, args []script.Node, _ io.Writer) error {
	var seconds float64
	if err := readArgs(args, &seconds); err != nil {
		return err
	}
	env.engine.Edit(func(p *synth.Piece) {
		p.SetLoop(seconds)
	})
	return nil
}

func trackCommand(env *env, args []script.Node, _ io.Writer) error {
	var name, device string
	if err := readArgs(args, &name, &device); err != nil {
		return err
	}
	node, ok := env.nodes[device]
	if !ok {
		return fmt.Errorf("device is not an instrument: %s", device)
	}
	if _, ok := env.tracks[name]; ok {
		return fmt.Errorf("track already exists: %s", name)
	}
	env.engine.Edit(func(p *synth.Piece) {
		env.tracks[name] = p.AddTrack(node)
	})
	return nil
}

func noteCommand(env *env, args []script.Node, _ io.Writer) error {
	var trackName string
	var beat float64
	if err := readArgs(args[:2], &trackName, &beat); err != nil {
		return err
	}
	note, err := parseNoteArg(args[2])
	if err != nil {
		return err
	}
	length, velocity := 1.0, 0.8
	rest := args[3:]
	if len(rest) > 0 {
		if err := readArgs(rest[:1], &length); err != nil {
			return err
		}
	}
	if len(rest) > 1 {
		if err := readArgs(rest[1:2], &velocity); err != nil {
			return err
		}
	}
	track, err := env.track(trackName)
	if err != nil {
		return err
	}
	env.engine.Edit(func(p *synth.Piece) {
		p.AddNote(track, beat, note, length, velocity)
	})
	return nil
}

// seqCommand spreads a pattern of pitches evenly over a number of beats.
// Nested arrays subdivide their slot, so [60 [62 64] 67] over 3 beats puts
// 62 and 64 in the second beat.
func seqCommand(env *env, args []script.Node, _ io.Writer) error {
	var trackName string
	var beats float64
	var pattern []script.Node
	if err := readArgs(args, &trackName, &beats, &pattern); err != nil {
		return err
	}
	track, err := env.track(trackName)
	if err != nil {
		return err
	}
	var evalErr error
	env.engine.Edit(func(p *synth.Piece) {
		evalErr = evalPattern(p, track, pattern, 0, beats)
	})
	return evalErr
}

func evalPattern(p *synth.Piece, track *synth.Track, pattern []script.Node, start, beats float64) error {
	slot := beats / float64(len(pattern))
	for i, item := range pattern {
		at := start + slot*float64(i)
		switch v := item.(type) {
		case script.Array:
			if err := evalPattern(p, track, v, at, slot); err != nil {
				return err
			}
		default:
			note, err := parseNoteArg(item)
			if err != nil {
				return err
			}
			if note != nil {
				p.AddNote(track, at, note, slot, 0.8)
			}
		}
	}
	return nil
}

func loadSoundCommand(env *env, args []script.Node, _ io.Writer) error {
	var device, file string
	var key int
	if err := readArgs(args, &device, &file, &key); err != nil {
		return err
	}
	dev, err := env.device(device)
	if err != nil {
		return err
	}
	v, err := dev.Get(synth.PropSoundMap)
	if err != nil {
		return err
	}
	mapping, ok := v.(*synth.SoundMapping)
	if !ok {
		return fmt.Errorf("cannot convert %v to sound mapping", v)
	}
	sound, err := synth.LoadSound(file)
	if err != nil {
		return err
	}
	copy := *mapping
	copy.Put(key, sound)
	return dev.Set(synth.PropSoundMap, &copy)
}

func sampleCommand(env *env, args []script.Node, _ io.Writer) error {
	var device, file string
	if err := readArgs(args, &device, &file); err != nil {
		return err
	}
	dev, err := env.device(device)
	if err != nil {
		return err
	}
	sound, err := synth.LoadSound(file)
	if err != nil {
		return err
	}
	return dev.Set("sound", sound)
}

// propsCommand lists a device's registered parameters and their current
// values.
func propsCommand(env *env, args []script.Node, out io.Writer) error {
	var device string
	if err := readArgs(args, &device); err != nil {
		return err
	}
	dev, err := env.device(device)
	if err != nil {
		return err
	}
	for _, key := range dev.Keys() {
		v, err := dev.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %v\n", key, v)
	}
	return nil
}

func renderCommand(env *env, args []script.Node, _ io.Writer) error {
	var file string
	var seconds float64
	if err := readArgs(args, &file, &seconds); err != nil {
		return err
	}
	return bounce(env.engine, file, seconds)
}

func presetCommand(env *env, args []script.Node, _ io.Writer) error {
	var device, name string
	if err := readArgs(args, &device, &name); err != nil {
		return err
	}
	dev, err := env.device(device)
	if err != nil {
		return err
	}
	return loadPreset(name, dev)
}

func playCommand(env *env, _ []script.Node, _ io.Writer) error {
	env.engine.Play()
	return nil
}

func stopCommand(env *env, _ []script.Node, _ io.Writer) error {
	env.engine.Stop()
	return nil
}

func exitCommand(_ *env, _ []script.Node, _ io.Writer) error {
	return errExit
}

func showCommand(env *env, _ []script.Node, out io.Writer) error {
	names := make([]string, 0, len(env.tracks))
	for name := range env.tracks {
		names = append(names, name)
	}
	sort.Strings(names)
	playing := env.engine.Playing()

	env.engine.Edit(func(p *synth.Piece) {
		bpm, beats, value := p.Tempo()
		fmt.Fprintf(out, "tempo: %g bpm, %g/%g\n", bpm, beats, value)
		if loop := p.Loop(); loop > 0 {
			fmt.Fprintf(out, "loop: %gs\n", loop)
		}
		for _, name := range names {
			track := env.tracks[name]
			fmt.Fprintf(out, "track %s -> %s: %d events\n",
				name, track.Target().Name(), len(track.Events()))
		}
		if playing {
			fmt.Fprintf(out, "playing at %.2fs\n", p.PlayTime())
		}
	})
	return nil
}

// parseNoteArg accepts a MIDI note number or a note name like c#3. The
// number 0 in a pattern means a rest and maps to nil.
func parseNoteArg(arg script.Node) (*synth.Note, error) {
	switch v := arg.(type) {
	case script.Number:
		if v == 0 {
			return nil, nil
		}
		note := synth.GetNote(int(v))
		if note == nil {
			return nil, fmt.Errorf("note number out of range: %v", float64(v))
		}
		return note, nil
	case script.Identifier:
		return synth.ParseNote(string(v))
	default:
		return nil, fmt.Errorf("expected a note name or number, got %v", arg)
	}
}

func readArgs(args []script.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case script.String:
				*p = string(s)
			case script.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			n, ok := arg.(script.Number)
			if !ok {
				return fmt.Errorf("argument error: expected a number")
			}
			*p = float64(n)
		case *int:
			n, ok := arg.(script.Number)
			if !ok {
				return fmt.Errorf("argument error: expected a number")
			}
			*p = int(n)
		case *[]script.Node:
			arr, ok := arg.(script.Array)
			if !ok {
				return fmt.Errorf("argument error: expected an array")
			}
			*p = arr
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
