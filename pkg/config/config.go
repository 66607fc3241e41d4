// Package config loads a repair profile from a YAML file, letting a
// batch job describe tolerance/iteration/stage settings once instead of
// repeating flags on every invocation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kestrelcad/meshrepair/pkg/meshrepair"
)

// Profile is the on-disk shape of a repair options file. FixedTolerance
// is a pointer so an absent key (auto tolerance) is distinguishable
// from an explicit zero.
type Profile struct {
	FixedTolerance        *float32 `yaml:"fixed_tolerance"`
	ToleranceIncrement    float32  `yaml:"tolerance_increment"`
	MaxIterations         uint32   `yaml:"max_iterations"`
	FillHoles             bool     `yaml:"fill_holes"`
	CheckNormalDirections bool     `yaml:"check_normal_directions"`
	CheckNormalValues     bool     `yaml:"check_normal_values"`
	RemoveUnconnected     bool     `yaml:"remove_unconnected"`
	Verbose               bool     `yaml:"verbose"`
}

// Load reads and parses a YAML profile from path.
func Load(path string) (Profile, error) {
	var p Profile
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return p, nil
}

// Options converts the profile into meshrepair.Options, leaving Logger
// unset (the caller wires diagnostics separately).
func (p Profile) Options() meshrepair.Options {
	return meshrepair.Options{
		FixedTolerance:        p.FixedTolerance,
		ToleranceIncrement:    p.ToleranceIncrement,
		MaxIterations:         p.MaxIterations,
		FillHoles:             p.FillHoles,
		CheckNormalDirections: p.CheckNormalDirections,
		CheckNormalValues:     p.CheckNormalValues,
		RemoveUnconnected:     p.RemoveUnconnected,
		Verbose:               p.Verbose,
	}
}
