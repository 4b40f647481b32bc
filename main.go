package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"wavegraph/playback"
	"wavegraph/synth"
)

func main() {
	var (
		backend = flag.String("backend", "portaudio", "audio backend: portaudio or oto")
		bpm     = flag.Float64("bpm", 120, "initial tempo")
		run     = flag.String("run", "", "script file to evaluate before the prompt")
	)
	flag.Parse()

	net := synth.NewNetwork()

	lead := synth.NewAnalogSynth(synth.NewProps(), "lead", 2)
	keys := synth.NewSamplePitch(synth.NewProps(), "keys")
	kit := synth.NewSampleKit(synth.NewProps(), "kit")
	drive := synth.NewOverdrive(synth.NewProps(), "drive", 1)
	mix := synth.NewMixer(synth.NewProps(), "mix", 3, 1)
	out := synth.NewOutputNode("out", 2)

	for _, n := range []synth.Node{lead, keys, kit, drive, mix, out} {
		if _, err := net.AddNode(n); err != nil {
			log.Fatal(err)
		}
	}

	connections := []struct {
		from *synth.Output
		to   *synth.Input
	}{
		{lead.Out(), drive.In()},
		{drive.Out(), mix.In(0)},
		{kit.Out(), mix.In(1)},
		{keys.Out(), mix.In(2)},
		{mix.Out(), out.In()},
	}
	for _, c := range connections {
		if err := c.from.Connect(c.to); err != nil {
			log.Fatal(err)
		}
	}
	if err := net.ComputeOrder(); err != nil {
		log.Fatal(err)
	}

	piece := synth.NewPiece(*bpm, 4, 4)
	engine, err := synth.NewEngine(net, piece)
	if err != nil {
		log.Fatal(err)
	}

	driver, err := playback.New(*backend, engine)
	if err != nil {
		log.Fatal(err)
	}
	if err := driver.Start(); err != nil {
		log.Fatal(err)
	}
	defer driver.Stop()
	defer engine.Stop()

	env := &env{
		engine: engine,
		devices: map[string]synth.Device{
			"lead":  lead,
			"keys":  keys,
			"kit":   kit,
			"drive": drive,
			"mix":   mix,
		},
		nodes: map[string]synth.Node{
			"lead": lead,
			"keys": keys,
			"kit":  kit,
		},
		tracks: make(map[string]*synth.Track),
	}

	if *run != "" {
		f, err := os.Open(*run)
		if err != nil {
			log.Fatal(err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if err := env.eval(line, os.Stdout); err == errExit {
				return
			} else if err != nil {
				log.Fatal(err)
			}
		}
		f.Close()
		if err := scanner.Err(); err != nil {
			log.Fatal(err)
		}
	}

	if err := repl(env); err != nil && err != io.EOF {
		fmt.Println(err)
		os.Exit(1)
	}
}
