package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	AppName        = "fieldtimer"
	configFileName = "config.yaml"
)

// Config holds the user settings read from config.yaml.
type Config struct {
	Drill   DrillConfig   `yaml:"drill"`
	Dial    DialConfig    `yaml:"dial"`
	Cues    CueConfig     `yaml:"cues"`
	Storage StorageConfig `yaml:"storage"`
}

type DrillConfig struct {
	FireDuration    int `yaml:"fire_duration_seconds"`
	FireDurationMin int `yaml:"fire_duration_min"`
	FireDurationMax int `yaml:"fire_duration_max"`
	FrameIntervalMS int `yaml:"frame_interval_ms"`
}

type DialConfig struct {
	GapAngle      float64 `yaml:"gap_angle_degrees"`
	Radius        int     `yaml:"radius_rows"`
	RingThickness float64 `yaml:"ring_thickness_rows"`
	BadgeRadius   float64 `yaml:"badge_radius_rows"`
	BadgesVisible bool    `yaml:"badges_visible"`
}

type CueConfig struct {
	// Output is "bell", "log" or "none".
	Output      string `yaml:"output"`
	Silent      bool   `yaml:"silent"`
	VibrationMS int    `yaml:"vibration_ms"`
}

type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	LogPath      string `yaml:"log_path"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Drill: DrillConfig{
			FireDuration:    5,
			FireDurationMin: 1,
			FireDurationMax: 27,
			FrameIntervalMS: 33,
		},
		Dial: DialConfig{
			GapAngle:      30,
			Radius:        11,
			RingThickness: 3,
			BadgeRadius:   1.2,
			BadgesVisible: true,
		},
		Cues: CueConfig{
			Output:      "bell",
			VibrationMS: 300,
		},
		Storage: StorageConfig{
			DatabasePath: "fieldtimer.db",
			LogPath:      "fieldtimer.log",
		},
	}
}

func (c Config) FrameInterval() time.Duration {
	return time.Duration(c.Drill.FrameIntervalMS) * time.Millisecond
}

func (c Config) Vibration() time.Duration {
	return time.Duration(c.Cues.VibrationMS) * time.Millisecond
}

// DefaultPath is config.yaml in the user config directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName, configFileName), nil
}

// Load reads the config at path. A missing file yields the defaults; fields that are missing or
// out of bounds keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	fileData := Default()
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}

	apply(&cfg, fileData)
	return cfg, nil
}

// Save writes cfg to path, creating its directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func apply(cfg *Config, fileData Config) {
	d := fileData.Drill
	if d.FireDurationMin >= 1 && d.FireDurationMax >= d.FireDurationMin {
		cfg.Drill.FireDurationMin = d.FireDurationMin
		cfg.Drill.FireDurationMax = d.FireDurationMax
	}
	if d.FireDuration >= cfg.Drill.FireDurationMin && d.FireDuration <= cfg.Drill.FireDurationMax {
		cfg.Drill.FireDuration = d.FireDuration
	} else if cfg.Drill.FireDuration > cfg.Drill.FireDurationMax {
		cfg.Drill.FireDuration = cfg.Drill.FireDurationMax
	} else if cfg.Drill.FireDuration < cfg.Drill.FireDurationMin {
		cfg.Drill.FireDuration = cfg.Drill.FireDurationMin
	}
	if d.FrameIntervalMS >= 5 && d.FrameIntervalMS <= 1000 {
		cfg.Drill.FrameIntervalMS = d.FrameIntervalMS
	}

	dl := fileData.Dial
	if dl.GapAngle >= 0 && dl.GapAngle < 360 {
		cfg.Dial.GapAngle = dl.GapAngle
	}
	if dl.Radius >= 5 && dl.Radius <= 40 {
		cfg.Dial.Radius = dl.Radius
	}
	if dl.RingThickness >= 1 && dl.RingThickness < float64(cfg.Dial.Radius) {
		cfg.Dial.RingThickness = dl.RingThickness
	}
	if dl.BadgeRadius > 0 && dl.BadgeRadius < float64(cfg.Dial.Radius) {
		cfg.Dial.BadgeRadius = dl.BadgeRadius
	}
	cfg.Dial.BadgesVisible = dl.BadgesVisible

	switch fileData.Cues.Output {
	case "bell", "log", "none":
		cfg.Cues.Output = fileData.Cues.Output
	}
	cfg.Cues.Silent = fileData.Cues.Silent
	if fileData.Cues.VibrationMS > 0 {
		cfg.Cues.VibrationMS = fileData.Cues.VibrationMS
	}

	if fileData.Storage.DatabasePath != "" {
		cfg.Storage.DatabasePath = fileData.Storage.DatabasePath
	}
	if fileData.Storage.LogPath != "" {
		cfg.Storage.LogPath = fileData.Storage.LogPath
	}
}
