package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coilworks/springlab/internal/search"
	"github.com/coilworks/springlab/internal/spring"
)

const (
	DefaultMaxCandidates = 300
	DefaultCurveSamples  = 60
	DefaultWorkers       = 4
)

// Config is one search job as written in a YAML file.
type Config struct {
	Topology string                 `yaml:"topology"`
	Material string                 `yaml:"material"`
	Ranges   map[string]RangeConfig `yaml:"ranges"`
	Envelope EnvelopeConfig         `yaml:"envelope"`
	Targets  []TargetConfig         `yaml:"targets"`
	Search   SearchConfig           `yaml:"search"`
}

type RangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type EnvelopeConfig struct {
	MaxOuterDiameter float64 `yaml:"max_outer_diameter"`
	MinInnerDiameter float64 `yaml:"min_inner_diameter"`
	MaxLength        float64 `yaml:"max_length"`
}

type TargetConfig struct {
	Input     float64 `yaml:"input"`
	Mode      string  `yaml:"mode"`
	Output    float64 `yaml:"output"`
	Tolerance float64 `yaml:"tolerance"`
}

type SearchConfig struct {
	MaxCandidates int `yaml:"max_candidates"`
	Workers       int `yaml:"workers"`
	CurveSamples  int `yaml:"curve_samples"`
}

func DefaultConfig() *Config {
	return &Config{
		Topology: string(spring.Compression),
		Material: "music_wire",
		Search: SearchConfig{
			MaxCandidates: DefaultMaxCandidates,
			Workers:       DefaultWorkers,
			CurveSamples:  DefaultCurveSamples,
		},
	}
}

// Load reads a YAML job file over the defaults, so partial files work.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Space converts the job into a design space ready for generation.
func (c *Config) Space() (search.DesignSpace, error) {
	topo := spring.Topology(c.Topology)
	known := false
	for _, t := range spring.Topologies() {
		if t == topo {
			known = true
			break
		}
	}
	if !known {
		return search.DesignSpace{}, fmt.Errorf("config: unknown topology %q", c.Topology)
	}

	ranges := make(map[string]spring.Range, len(c.Ranges))
	for key, r := range c.Ranges {
		ranges[key] = spring.Range{Min: r.Min, Max: r.Max}
	}

	targets := make([]spring.Target, 0, len(c.Targets))
	for i, t := range c.Targets {
		mode, err := parseMode(t.Mode)
		if err != nil {
			return search.DesignSpace{}, fmt.Errorf("config: target %d: %w", i, err)
		}
		targets = append(targets, spring.Target{
			Input:     t.Input,
			Mode:      mode,
			Output:    t.Output,
			Tolerance: t.Tolerance,
		})
	}

	return search.DesignSpace{
		Topology: topo,
		Ranges:   ranges,
		Envelope: search.Envelope{
			MaxOuterDiameter: c.Envelope.MaxOuterDiameter,
			MinInnerDiameter: c.Envelope.MinInnerDiameter,
			MaxLength:        c.Envelope.MaxLength,
		},
		Targets: targets,
	}, nil
}

// SpringMaterial resolves the named material from the catalog.
func (c *Config) SpringMaterial() (spring.Material, error) {
	m, ok := MaterialByName(c.Material)
	if !ok {
		return spring.Material{}, fmt.Errorf("config: unknown material %q", c.Material)
	}
	return m, nil
}

func parseMode(s string) (spring.InputMode, error) {
	switch spring.InputMode(s) {
	case spring.ModeHeight, spring.ModeDeflection, spring.ModeAngle, spring.ModeTorque:
		return spring.InputMode(s), nil
	case "":
		return spring.ModeDeflection, nil
	}
	return "", fmt.Errorf("unknown input mode %q", s)
}
