package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

const (
	DefaultGravity = 50.0
	DefaultDrag    = 0.982

	DefaultBudgetHigh = 6000
	DefaultBudgetLow  = 3000

	DefaultCharset = " .,-~:;=!*a#$@"
)

type Config struct {
	Seed      int64           `yaml:"seed"`
	Theme     string          `yaml:"theme"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Fireworks FireworksConfig `yaml:"fireworks"`
	ASCII     ASCIIConfig     `yaml:"ascii"`
	Quality   QualityConfig   `yaml:"quality"`
	Starfield StarfieldConfig `yaml:"starfield"`
	Ticker    TickerConfig    `yaml:"ticker"`
	Input     InputConfig     `yaml:"input"`
	Log       LogConfig       `yaml:"log"`
}

type PhysicsConfig struct {
	Gravity float64 `yaml:"gravity"` // px/s²
	Drag    float64 `yaml:"drag"`    // per-frame velocity retention at 60 fps
}

// FireworksConfig holds spawn and shape tuning for the simulation.
type FireworksConfig struct {
	CountBase     int `yaml:"count_base"`
	CountVariance int `yaml:"count_variance"`

	BurstThreshold      float64 `yaml:"burst_threshold"`
	BurstSpeedBase      float64 `yaml:"burst_speed_base"`
	BurstSpeedVariance  float64 `yaml:"burst_speed_variance"`
	NormalSpeedBase     float64 `yaml:"normal_speed_base"`
	NormalSpeedVariance float64 `yaml:"normal_speed_variance"`
	BurstTTLMin         float64 `yaml:"burst_ttl_min"`
	BurstTTLVariance    float64 `yaml:"burst_ttl_variance"`
	NormalTTLMin        float64 `yaml:"normal_ttl_min"`
	NormalTTLVariance   float64 `yaml:"normal_ttl_variance"`

	AngleJitter     float64 `yaml:"angle_jitter"`
	RingAngleJitter float64 `yaml:"ring_angle_jitter"`

	BrightnessBase     float64 `yaml:"brightness_base"`
	BrightnessVariance float64 `yaml:"brightness_variance"`
	DecayExponent      float64 `yaml:"decay_exponent"`
	AlphaBuckets       int     `yaml:"alpha_buckets"`
	SizeMin            float64 `yaml:"size_min"`
	SizeMax            float64 `yaml:"size_max"`

	StrobeChance     float64 `yaml:"strobe_chance"`
	StrobeHzMin      float64 `yaml:"strobe_hz_min"`
	StrobeHzVariance float64 `yaml:"strobe_hz_variance"`
	WhiteHotFraction float64 `yaml:"white_hot_fraction"`

	WillowTTLFactor     float64 `yaml:"willow_ttl_factor"`
	WillowSpeedFactor   float64 `yaml:"willow_speed_factor"`
	WillowGravityFactor float64 `yaml:"willow_gravity_factor"`
	WillowDragFactor    float64 `yaml:"willow_drag_factor"`

	SplitThreshold   float64 `yaml:"split_threshold"`
	SplitSpeedFactor float64 `yaml:"split_speed_factor"`
	SplitLifeFactor  float64 `yaml:"split_life_factor"`

	ShellTTLSlack  float64 `yaml:"shell_ttl_slack"`
	ShellDrift     float64 `yaml:"shell_drift"`
	ShellSize      float64 `yaml:"shell_size"`
	TrailInterval  float64 `yaml:"trail_interval"`
	TrailTTL       float64 `yaml:"trail_ttl"`
	TrailSize      float64 `yaml:"trail_size"`
	FlashTTL       float64 `yaml:"flash_ttl"`
	FlashSize      float64 `yaml:"flash_size"`
	FlashIntensity float64 `yaml:"flash_intensity"`
}

type ASCIIConfig struct {
	Charset            string  `yaml:"charset"`
	BaseCellWidth      int     `yaml:"base_cell_width"`
	BaseCellHeight     int     `yaml:"base_cell_height"`
	TermCellWidth      int     `yaml:"term_cell_width"`
	TermCellHeight     int     `yaml:"term_cell_height"`
	MinColumns         int     `yaml:"min_columns"`
	MinRows            int     `yaml:"min_rows"`
	FadeAlpha          float64 `yaml:"fade_alpha"`
	DirtyEpsilon       int     `yaml:"dirty_brightness_epsilon"`
	DirtyFullRedrawPct float64 `yaml:"dirty_full_redraw_ratio"`
	FPSLabelOffset     int     `yaml:"fps_label_offset"`
}

// Tier is a named quality bundle selected by the quality controller.
type Tier struct {
	Name           string  `yaml:"name"`
	Scale          float64 `yaml:"scale"`
	Budget         int     `yaml:"budget"`
	SampleInterval int     `yaml:"sample_interval"`
}

type QualityConfig struct {
	DowngradeFPS    float64 `yaml:"downgrade_fps"`
	UpgradeFPS      float64 `yaml:"upgrade_fps"`
	SampleSize      int     `yaml:"sample_size"`
	DefaultFPS      float64 `yaml:"default_fps"`
	MinAvgFrameTime float64 `yaml:"min_avg_frame_time"`
	High            Tier    `yaml:"high"`
	Low             Tier    `yaml:"low"`
}

type StarfieldConfig struct {
	Density           float64 `yaml:"density"`
	MinStars          int     `yaml:"min_stars"`
	TwinkleSpeedBase  float64 `yaml:"twinkle_speed_base"`
	TwinkleSpeedVar   float64 `yaml:"twinkle_speed_variance"`
	BrightnessBase    float64 `yaml:"brightness_base"`
	BrightnessVar     float64 `yaml:"brightness_variance"`
	TwinkleAmplitude  float64 `yaml:"twinkle_amplitude"`
	TwinkleOffset     float64 `yaml:"twinkle_offset"`
	StarSize          float64 `yaml:"star_size"`
	UpdateIntervalLow int     `yaml:"update_interval_low"`
}

type TickerConfig struct {
	TargetFPS int     `yaml:"target_fps"`
	MaxDelta  float64 `yaml:"max_delta"` // seconds
}

type InputConfig struct {
	RapidFireHz       float64       `yaml:"rapid_fire_hz"`
	MaxBurstsPerFrame int           `yaml:"max_bursts_per_frame"`
	ResizeThrottle    time.Duration `yaml:"resize_throttle"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme: "cyberpunk",
		Physics: PhysicsConfig{
			Gravity: DefaultGravity,
			Drag:    DefaultDrag,
		},
		Fireworks: FireworksConfig{
			CountBase:           120,
			CountVariance:       100,
			BurstThreshold:      0.7,
			BurstSpeedBase:      240,
			BurstSpeedVariance:  400,
			NormalSpeedBase:     120,
			NormalSpeedVariance: 320,
			BurstTTLMin:         0.6,
			BurstTTLVariance:    0.8,
			NormalTTLMin:        0.9,
			NormalTTLVariance:   1.2,
			AngleJitter:         0.15,
			RingAngleJitter:     0.02,
			BrightnessBase:      0.5,
			BrightnessVariance:  0.5,
			DecayExponent:       1.5,
			AlphaBuckets:        16,
			SizeMin:             8,
			SizeMax:             32,
			StrobeChance:        0.3,
			StrobeHzMin:         8,
			StrobeHzVariance:    12,
			WhiteHotFraction:    0.15,
			WillowTTLFactor:     1.5,
			WillowSpeedFactor:   0.6,
			WillowGravityFactor: 1.8,
			WillowDragFactor:    1.6,
			SplitThreshold:      0.45,
			SplitSpeedFactor:    0.6,
			SplitLifeFactor:     0.8,
			ShellTTLSlack:       1.2,
			ShellDrift:          12,
			ShellSize:           6,
			TrailInterval:       0.02,
			TrailTTL:            0.25,
			TrailSize:           4,
			FlashTTL:            0.12,
			FlashSize:           48,
			FlashIntensity:      1.0,
		},
		ASCII: ASCIIConfig{
			Charset:            DefaultCharset,
			BaseCellWidth:      8,
			BaseCellHeight:     16,
			TermCellWidth:      8,
			TermCellHeight:     16,
			MinColumns:         20,
			MinRows:            12,
			FadeAlpha:          0.18,
			DirtyEpsilon:       8,
			DirtyFullRedrawPct: 0.55,
			FPSLabelOffset:     8,
		},
		Quality: QualityConfig{
			DowngradeFPS:    42,
			UpgradeFPS:      54,
			SampleSize:      50,
			DefaultFPS:      60,
			MinAvgFrameTime: 0.0001,
			High:            Tier{Name: "high", Scale: 1.0, Budget: DefaultBudgetHigh, SampleInterval: 1},
			Low:             Tier{Name: "low", Scale: 0.8, Budget: DefaultBudgetLow, SampleInterval: 3},
		},
		Starfield: StarfieldConfig{
			Density:           0.0016,
			MinStars:          80,
			TwinkleSpeedBase:  0.7,
			TwinkleSpeedVar:   1.5,
			BrightnessBase:    0.2,
			BrightnessVar:     0.6,
			TwinkleAmplitude:  0.35,
			TwinkleOffset:     0.35,
			StarSize:          3,
			UpdateIntervalLow: 3,
		},
		Ticker: TickerConfig{
			TargetFPS: 60,
			MaxDelta:  1.0 / 20,
		},
		Input: InputConfig{
			RapidFireHz:       20,
			MaxBurstsPerFrame: 4,
			ResizeThrottle:    80 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver overlays the file at path onto base. Keys missing from the file
// keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Capacity is the physical particle capacity: the largest tier budget.
func (c *Config) Capacity() int {
	return max(c.Quality.High.Budget, c.Quality.Low.Budget)
}

func (c *Config) Validate() error {
	if c.Physics.Gravity <= 0 {
		return fmt.Errorf("%w: gravity must be positive, got %f", ErrInvalidConfig, c.Physics.Gravity)
	}
	if c.Physics.Drag <= 0 || c.Physics.Drag > 1 {
		return fmt.Errorf("%w: drag must be in (0, 1], got %f", ErrInvalidConfig, c.Physics.Drag)
	}
	if c.Fireworks.CountBase < 0 || c.Fireworks.CountVariance < 1 {
		return fmt.Errorf("%w: count_base must be >= 0 and count_variance >= 1", ErrInvalidConfig)
	}
	if len([]rune(c.ASCII.Charset)) < 2 {
		return fmt.Errorf("%w: charset needs at least two glyphs", ErrInvalidConfig)
	}
	if c.ASCII.BaseCellWidth < 1 || c.ASCII.BaseCellHeight < 1 || c.ASCII.TermCellWidth < 1 || c.ASCII.TermCellHeight < 1 {
		return fmt.Errorf("%w: cell dimensions must be positive", ErrInvalidConfig)
	}
	if c.ASCII.FadeAlpha < 0 || c.ASCII.FadeAlpha > 1 {
		return fmt.Errorf("%w: fade_alpha must be in [0, 1], got %f", ErrInvalidConfig, c.ASCII.FadeAlpha)
	}
	if c.Quality.UpgradeFPS <= c.Quality.DowngradeFPS {
		return fmt.Errorf("%w: upgrade_fps (%.1f) must exceed downgrade_fps (%.1f)",
			ErrInvalidConfig, c.Quality.UpgradeFPS, c.Quality.DowngradeFPS)
	}
	if c.Quality.SampleSize < 1 {
		return fmt.Errorf("%w: sample_size must be positive", ErrInvalidConfig)
	}
	for _, t := range []Tier{c.Quality.High, c.Quality.Low} {
		if t.Scale <= 0 || t.Scale > 1 {
			return fmt.Errorf("%w: tier %q scale must be in (0, 1]", ErrInvalidConfig, t.Name)
		}
		if t.Budget < 1 {
			return fmt.Errorf("%w: tier %q budget must be positive", ErrInvalidConfig, t.Name)
		}
		if t.SampleInterval < 1 {
			return fmt.Errorf("%w: tier %q sample_interval must be positive", ErrInvalidConfig, t.Name)
		}
	}
	if c.Ticker.MaxDelta <= 0 {
		return fmt.Errorf("%w: max_delta must be positive", ErrInvalidConfig)
	}
	if c.Ticker.TargetFPS < 1 {
		return fmt.Errorf("%w: target_fps must be positive", ErrInvalidConfig)
	}
	return nil
}
