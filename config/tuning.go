// Package config loads the tuning knobs for every pile component.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/milk9111/gravitypile/interaction"
	"github.com/milk9111/gravitypile/lifecycle"
	"github.com/milk9111/gravitypile/physics"
	"github.com/milk9111/gravitypile/render"
	"gopkg.in/yaml.v3"
)

// DiskPath is checked before the embedded defaults, so a checkout can be
// tuned without rebuilding.
var DiskPath = filepath.Join("config", "tuning.yaml")

var ErrInvalidTuning = errors.New("config: invalid tuning")

//go:embed tuning.yaml
var embedded []byte

type Host struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type Tuning struct {
	Host        Host               `yaml:"host"`
	Physics     physics.Config     `yaml:"physics"`
	Interaction interaction.Config `yaml:"interaction"`
	Lifecycle   lifecycle.Config   `yaml:"lifecycle"`
	Sync        render.SyncConfig  `yaml:"sync"`
}

func Default() Tuning {
	return Tuning{
		Host:        Host{Title: "gravity pile", Width: 960, Height: 720},
		Physics:     physics.DefaultConfig(),
		Interaction: interaction.DefaultConfig(),
		Lifecycle:   lifecycle.DefaultConfig(),
		Sync:        render.DefaultSyncConfig(),
	}
}

// Load reads tuning from path. An empty path tries DiskPath and then the
// embedded file. Keys missing from the file keep their defaults.
func Load(path string) (Tuning, error) {
	data, src, err := read(path)
	if err != nil {
		return Tuning{}, err
	}
	t, err := Parse(data)
	if err != nil {
		return Tuning{}, fmt.Errorf("config: %s: %w", src, err)
	}
	return t, nil
}

func read(path string) ([]byte, string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, path, fmt.Errorf("config: load %s: %w", path, err)
		}
		return data, path, nil
	}
	if data, err := os.ReadFile(DiskPath); err == nil {
		return data, DiskPath, nil
	}
	return embedded, "embedded tuning.yaml", nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Tuning, error) {
	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if err := t.Physics.Validate(); err != nil {
		return err
	}
	switch {
	case t.Host.Width <= 0 || t.Host.Height <= 0:
		return fmt.Errorf("%w: host size must be positive, got %dx%d", ErrInvalidTuning, t.Host.Width, t.Host.Height)
	case t.Interaction.TapDistance <= 0 || t.Interaction.TapDuration <= 0:
		return fmt.Errorf("%w: tap thresholds must be positive", ErrInvalidTuning)
	case t.Interaction.Stiffness <= 0 || t.Interaction.Stiffness > 1:
		return fmt.Errorf("%w: stiffness must be in (0, 1], got %v", ErrInvalidTuning, t.Interaction.Stiffness)
	case t.Interaction.Damping < 0 || t.Interaction.Damping > 1:
		return fmt.Errorf("%w: damping must be in [0, 1], got %v", ErrInvalidTuning, t.Interaction.Damping)
	case t.Lifecycle.ResizeDebounce < 0 || t.Lifecycle.RefreshDelay < 0:
		return fmt.Errorf("%w: lifecycle delays must not be negative", ErrInvalidTuning)
	case t.Sync.Overflow < 0:
		return fmt.Errorf("%w: sync overflow must not be negative, got %v", ErrInvalidTuning, t.Sync.Overflow)
	}
	return nil
}
