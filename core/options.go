package core

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Options is a search configuration: recognized option names mapped to
// values. Options are handed to the engine unmodified; the typed accessors
// below exist for engines that need to read them.
type Options map[string]any

// LoadOptionsFile reads search options from a YAML document.
// An empty file yields empty Options.
func LoadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOptions(data)
}

// ParseOptions decodes search options from YAML (or JSON, which is valid YAML).
func ParseOptions(data []byte) (Options, error) {
	opts := Options{}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	return opts, nil
}

// Merge returns a new Options holding o overlaid with other.
// Values in other win.
func (o Options) Merge(other Options) Options {
	merged := make(Options, len(o)+len(other))
	for k, v := range o {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Has reports whether the option is set.
func (o Options) Has(name string) bool {
	_, ok := o[name]
	return ok
}

// Int returns an integer option, or def if the option is absent.
func (o Options) Int(name string, def int) (int, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint, uint32, uint64:
		u, _ := o.Uint64(name, 0)
		if u > math.MaxInt {
			return 0, optionError(name, v)
		}
		return int(u), nil
	case float64:
		// float64(math.MaxInt) rounds up to 2^63, which does not fit.
		if n != math.Trunc(n) || n < math.MinInt || n >= math.MaxInt {
			return 0, optionError(name, v)
		}
		return int(n), nil
	}
	return 0, optionError(name, v)
}

// Uint64 returns a non-negative integer option, or def if the option is absent.
func (o Options) Uint64(name string, def uint64) (uint64, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case int, int32, int64:
		i, _ := o.Int(name, 0)
		if i < 0 {
			return 0, optionError(name, v)
		}
		return uint64(i), nil
	case float64:
		// float64(math.MaxUint64) rounds up to 2^64, which does not fit.
		if n < 0 || n != math.Trunc(n) || n >= math.MaxUint64 {
			return 0, optionError(name, v)
		}
		return uint64(n), nil
	}
	return 0, optionError(name, v)
}

// Float returns a numeric option as float64, or def if the option is absent.
func (o Options) Float(name string, def float64) (float64, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, optionError(name, v)
}

// Bool returns a flag option, or def if the option is absent.
func (o Options) Bool(name string, def bool) (bool, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, optionError(name, v)
	}
	return b, nil
}

// String returns a text option, or def if the option is absent.
func (o Options) String(name string, def string) (string, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", optionError(name, v)
	}
	return s, nil
}

// Duration returns a duration option, or def if the option is absent.
// Strings are parsed with time.ParseDuration; bare numbers are milliseconds.
func (o Options) Duration(name string, def time.Duration) (time.Duration, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return def, nil
	}
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, optionError(name, v)
		}
		return parsed, nil
	}
	ms, err := o.Float(name, 0)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}

func optionError(name string, value any) error {
	return fmt.Errorf("%w: %s has unsupported value %v (%T)", ErrInvalidOption, name, value, value)
}
