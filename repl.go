package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"wavegraph/script"
	"wavegraph/synth"
)

type env struct {
	engine  *synth.Engine
	devices map[string]synth.Device
	nodes   map[string]synth.Node
	tracks  map[string]*synth.Track
}

func (e *env) device(name string) (synth.Device, error) {
	dev, ok := e.devices[name]
	if !ok {
		return nil, fmt.Errorf("unknown device: %s", name)
	}
	return dev, nil
}

func (e *env) track(name string) (*synth.Track, error) {
	t, ok := e.tracks[name]
	if !ok {
		return nil, fmt.Errorf("unknown track: %s", name)
	}
	return t, nil
}

func (e *env) eval(input string, out io.Writer) error {
	command, err := script.Parse(input)
	if err != nil {
		return err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if cmd.arity < 0 {
			arity := -cmd.arity
			if len(command.Args) < arity {
				return fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					cmd.name, arity, len(command.Args))
			}
		} else if len(command.Args) != cmd.arity {
			return fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(command.Args))
		}
		if err := cmd.run(e, command.Args, out); err != nil {
			if err == errExit {
				return err
			}
			return fmt.Errorf("%s: %w", cmd.name, err)
		}
		return nil
	}
	return fmt.Errorf("unknown command: %s", name)
}

func repl(env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			return err
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if err := env.eval(line, rl.Stdout()); err == errExit {
			return nil
		} else if err != nil {
			fmt.Println(err)
		}
	}
}
