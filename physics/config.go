package physics

import (
	"fmt"
	"time"
)

// Material constants shared by every post body.
type Material struct {
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
	Density     float64 `yaml:"density"`
}

// SpawnConfig controls where new bodies enter the world.
type SpawnConfig struct {
	Margin      float64       `yaml:"margin"`
	FreshWindow time.Duration `yaml:"fresh_window"`
	FreshOffset float64       `yaml:"fresh_offset"`
	FreshSpeed  float64       `yaml:"fresh_speed"`
	BulkMin     float64       `yaml:"bulk_min"`
	BulkRange   float64       `yaml:"bulk_range"`
	MaxTilt     float64       `yaml:"max_tilt"`
}

// Config tunes the simulation. Units are pixels and seconds.
type Config struct {
	Gravity       float64     `yaml:"gravity"`
	StepRate      int         `yaml:"step_rate"`
	Iterations    int         `yaml:"iterations"`
	Damping       float64     `yaml:"damping"`
	WallThickness float64     `yaml:"wall_thickness"`
	WallSpan      float64     `yaml:"wall_span"`
	Material      Material    `yaml:"material"`
	Spawn         SpawnConfig `yaml:"spawn"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:       1000,
		StepRate:      60,
		Iterations:    20,
		Damping:       0.6,
		WallThickness: 100,
		WallSpan:      5,
		Material: Material{
			Restitution: 0.3,
			Friction:    0.6,
			Density:     0.001,
		},
		Spawn: SpawnConfig{
			Margin:      10,
			FreshWindow: 2 * time.Second,
			FreshOffset: 100,
			FreshSpeed:  600,
			BulkMin:     200,
			BulkRange:   2500,
			MaxTilt:     0.25,
		},
	}
}

// Timestep is the fixed logical step in seconds.
func (c Config) Timestep() float64 {
	return 1.0 / float64(c.StepRate)
}

func (c Config) Validate() error {
	switch {
	case c.StepRate <= 0:
		return fmt.Errorf("%w: step_rate must be positive, got %d", ErrInvalidConfig, c.StepRate)
	case c.Iterations <= 0:
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidConfig, c.Iterations)
	case c.Damping <= 0 || c.Damping > 1:
		return fmt.Errorf("%w: damping must be in (0, 1], got %v", ErrInvalidConfig, c.Damping)
	case c.WallThickness <= 0:
		return fmt.Errorf("%w: wall_thickness must be positive, got %v", ErrInvalidConfig, c.WallThickness)
	case c.WallSpan < 1:
		return fmt.Errorf("%w: wall_span must be at least 1, got %v", ErrInvalidConfig, c.WallSpan)
	case c.Material.Density <= 0:
		return fmt.Errorf("%w: density must be positive, got %v", ErrInvalidConfig, c.Material.Density)
	case c.Material.Restitution < 0 || c.Material.Friction < 0:
		return fmt.Errorf("%w: restitution and friction must not be negative", ErrInvalidConfig)
	case c.Spawn.Margin < 0 || c.Spawn.BulkMin < 0 || c.Spawn.BulkRange < 0:
		return fmt.Errorf("%w: spawn distances must not be negative", ErrInvalidConfig)
	case c.Spawn.FreshWindow < 0:
		return fmt.Errorf("%w: fresh_window must not be negative", ErrInvalidConfig)
	}
	return nil
}
