package synth

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// Props holds a node's parameters as atomic values so that the REPL or any
// other authoring thread can tweak them while the render callback is
// reading. All keys must be registered before any reads take place.
type Props struct {
	values  map[string]*atomic.Value
	setters map[string]setter
}

// Device is anything with settable properties.
type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
	Keys() []string
}

func NewProps() *Props {
	return &Props{
		values:  make(map[string]*atomic.Value),
		setters: make(map[string]setter),
	}
}

// Set updates a registered property after validating the value.
func (p *Props) Set(key string, value interface{}) error {
	dest, ok := p.values[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	if err := p.setters[key](value, dest); err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	return nil
}

func (p *Props) Get(key string) (interface{}, error) {
	v, ok := p.values[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	return v.Load(), nil
}

// Keys returns all registered property names, sorted.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p *Props) register(key string, set setter, init interface{}) *atomic.Value {
	if _, ok := p.values[key]; ok {
		panic("property registered twice: " + key)
	}
	var v atomic.Value
	if err := set(init, &v); err != nil {
		panic(fmt.Sprintf("register property %s: %v", key, err))
	}
	p.values[key] = &v
	p.setters[key] = set
	return &v
}

type setter func(val interface{}, dest *atomic.Value) error

var (
	setEnvTime  = setFloat64(0, 60)
	setEnvLevel = setFloat64(0, 1)
	setCurve    = setFloat64(0.1, 10)
	setLevel    = setFloat64(-40, 10) // dB
	setCents    = setFloat64(-2400, 2400)
)

func setFloat64(min, max float64) setter {
	return func(v interface{}, dest *atomic.Value) error {
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		default:
			return fmt.Errorf("value is not a float64: %v", v)
		}
		if f < min || f > max {
			return fmt.Errorf("property value is not in valid range %v - %v: %v", min, max, f)
		}
		dest.Store(f)
		return nil
	}
}

func setInt(v interface{}, dest *atomic.Value) error {
	switch n := v.(type) {
	case float64:
		dest.Store(int(n))
	case int:
		dest.Store(n)
	default:
		return fmt.Errorf("value is not an int: %v", v)
	}
	return nil
}

func getFloat(v *atomic.Value) float64 { return v.Load().(float64) }
