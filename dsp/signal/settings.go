package signal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-tsgen/dsp/core"
)

// Settings key names.
const (
	KeyComponents      = "num_components"
	KeyOutputs         = "num_outputs"
	KeyVariantOverTime = "variant_over_time"
	KeyAmplitudeDecay  = "amplitude_decay"
	KeyNoiseStd        = "noise_std"
	KeyFrequencyRange  = "frequency_range"
	KeySampleRate      = "sampling_frequency"
	KeySequenceLength  = "sequence_length"
	KeyTemporal        = "temporal"
)

// settingKeys lists the keys in the order defaults are reported.
var settingKeys = []string{
	KeyComponents,
	KeyOutputs,
	KeyVariantOverTime,
	KeyAmplitudeDecay,
	KeyNoiseStd,
	KeySequenceLength,
	KeyFrequencyRange,
	KeySampleRate,
	KeyTemporal,
}

// settingAliases maps accepted spellings to canonical keys.
var settingAliases = map[string]string{
	KeyComponents:      KeyComponents,
	KeyOutputs:         KeyOutputs,
	KeyVariantOverTime: KeyVariantOverTime,
	KeyAmplitudeDecay:  KeyAmplitudeDecay,
	KeyNoiseStd:        KeyNoiseStd,
	KeyFrequencyRange:  KeyFrequencyRange,
	KeySampleRate:      KeySampleRate,
	KeySequenceLength:  KeySequenceLength,
	KeyTemporal:        KeyTemporal,

	"num_freqs":         KeyComponents,
	"amplitude_dropoff": KeyAmplitudeDecay,
	"st_deviation":      KeyNoiseStd,
	"freq_range":        KeyFrequencyRange,
}

// Settings is a partial configuration. Nil fields keep the value the
// generator options (or DefaultConfig) provide.
//
// In YAML, amplitude_decay, noise_std and frequency_range accept either a
// scalar or a two-element [low, high] list.
type Settings struct {
	NumComponents   *int
	NumOutputs      *int
	VariantOverTime *bool
	AmplitudeDecay  *core.Range
	NoiseStd        *core.Range
	FrequencyRange  *core.Range
	SampleRate      *float64
	SequenceLength  *float64
	Temporal        *bool
}

// ParseSettings decodes YAML settings.
func ParseSettings(data []byte) (*Settings, error) {
	s := &Settings{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("signal: failed to parse settings: %w", err)
	}
	return s, nil
}

// LoadSettings reads YAML settings from path.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("signal: failed to read settings file: %w", err)
	}
	return ParseSettings(data)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Settings) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: settings must be a mapping", node.Line)
	}
	given := make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		key, ok := settingAliases[keyNode.Value]
		if !ok {
			return fmt.Errorf("line %d: unknown setting %q", keyNode.Line, keyNode.Value)
		}
		if prev, dup := given[key]; dup {
			return fmt.Errorf("line %d: duplicate setting %q (already given as %q)", keyNode.Line, keyNode.Value, prev)
		}
		given[key] = keyNode.Value
		if err := s.decode(key, valNode); err != nil {
			return fmt.Errorf("line %d: setting %q: %w", valNode.Line, keyNode.Value, err)
		}
	}
	return nil
}

func (s *Settings) decode(key string, node *yaml.Node) error {
	switch key {
	case KeyComponents:
		return decodeInto(node, &s.NumComponents)
	case KeyOutputs:
		return decodeInto(node, &s.NumOutputs)
	case KeyVariantOverTime:
		return decodeInto(node, &s.VariantOverTime)
	case KeyTemporal:
		return decodeInto(node, &s.Temporal)
	case KeySampleRate:
		return decodeInto(node, &s.SampleRate)
	case KeySequenceLength:
		return decodeInto(node, &s.SequenceLength)
	case KeyAmplitudeDecay:
		return decodeRange(node, &s.AmplitudeDecay)
	case KeyNoiseStd:
		return decodeRange(node, &s.NoiseStd)
	case KeyFrequencyRange:
		return decodeRange(node, &s.FrequencyRange)
	}
	return fmt.Errorf("unhandled setting %q", key)
}

func decodeInto[T any](node *yaml.Node, dst **T) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*dst = &v
	return nil
}

// decodeRange accepts a scalar v, normalized to (v, v), or a [low, high] list.
func decodeRange(node *yaml.Node, dst **core.Range) error {
	var r core.Range
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return err
		}
		r = core.Fixed(v)
	case yaml.SequenceNode:
		var pair []float64
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("range needs exactly 2 values, got %d", len(pair))
		}
		r = core.NewRange(pair[0], pair[1])
	default:
		return fmt.Errorf("range must be a number or a [low, high] list")
	}
	*dst = &r
	return nil
}

// NewGeneratorFromSettings creates a generator whose configuration starts from
// DefaultConfig and opts and is then overlaid with every non-nil field of s.
// Each key s leaves unset is logged at debug level with the value in effect.
func NewGeneratorFromSettings(s *Settings, opts ...Option) (*Generator, error) {
	g := newGenerator(opts)
	if s == nil {
		s = &Settings{}
	}
	s.apply(g)
	if err := g.init(); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Settings) apply(g *Generator) {
	cfg := &g.cfg
	for _, key := range settingKeys {
		var set bool
		var current any
		switch key {
		case KeyComponents:
			set, current = overlay(s.NumComponents, &cfg.NumComponents)
		case KeyOutputs:
			set, current = overlay(s.NumOutputs, &cfg.NumOutputs)
		case KeyVariantOverTime:
			set, current = overlay(s.VariantOverTime, &cfg.VariantOverTime)
		case KeyAmplitudeDecay:
			set, current = overlay(s.AmplitudeDecay, &cfg.AmplitudeDecay)
		case KeyNoiseStd:
			set, current = overlay(s.NoiseStd, &cfg.NoiseStd)
		case KeyFrequencyRange:
			set, current = overlay(s.FrequencyRange, &cfg.FrequencyRange)
		case KeySampleRate:
			set, current = overlay(s.SampleRate, &cfg.TimeBase.SampleRate)
		case KeySequenceLength:
			set, current = overlay(s.SequenceLength, &cfg.TimeBase.Duration)
		case KeyTemporal:
			set, current = overlay(s.Temporal, &cfg.Temporal)
		}
		if !set && g.logger != nil {
			g.logger.Debug("no setting for parameter, using default",
				"key", key, "default", fmt.Sprint(current))
		}
	}
}

func overlay[T any](src *T, dst *T) (bool, any) {
	if src == nil {
		return false, *dst
	}
	*dst = *src
	return true, *dst
}
