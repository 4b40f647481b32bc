package main

import (
	"fmt"

	"wavegraph/synth"
)

type preset map[string]interface{}

var presets = map[string]preset{
	"fat-bass": {
		"osc1.wave":        "saw",
		"osc2.wave":        "saw",
		"osc2.volume":      0.6,
		"osc2.detune":      -1200.,
		"osc1.decay":       0.4,
		"osc1.sustain":     0.4,
		"filter.cutoff":    0.3,
		"filter.resonance": 0.4,
		"filter.env":       0.5,
	},
	"soft-keys": {
		"osc1.wave":     "triangle",
		"osc1.attack":   0.05,
		"osc1.release":  0.8,
		"osc2.wave":     "sine",
		"osc2.volume":   0.4,
		"osc2.detune":   7.,
		"filter.cutoff": 0.7,
	},
	"sync-lead": {
		"osc1.wave":     "saw",
		"osc1.sync":     700.,
		"osc1.release":  0.3,
		"filter.cutoff": 0.8,
	},
}

func loadPreset(name string, d synth.Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	for k, v := range p {
		if err := d.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
