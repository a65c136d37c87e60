package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"shortvid-pipeline/types"
)

type Config struct {
	Video    VideoConfig    `yaml:"video"`
	Captions CaptionsConfig `yaml:"captions"`
	Footage  FootageConfig  `yaml:"footage"`
	Upload   UploadConfig   `yaml:"upload"`
	Paths    PathsConfig    `yaml:"paths"`
}

type VideoConfig struct {
	Orientation types.Orientation `yaml:"orientation"`
	FPS         int               `yaml:"fps"`
	Preset      string            `yaml:"preset"`
}

type CaptionsConfig struct {
	WhisperModel       string  `yaml:"whisper_model"`
	MaxWordsPerCaption int     `yaml:"max_words_per_caption"`
	FontSize           int     `yaml:"font_size"`
	StrokeWidth        float64 `yaml:"stroke_width"`
	BottomMargin       int     `yaml:"bottom_margin"`
}

type FootageConfig struct {
	PageSize        int     `yaml:"page_size"`
	MinDurationSec  float64 `yaml:"min_duration_sec"`
	MaxDurationSec  float64 `yaml:"max_duration_sec"`
	IdealDuration   float64 `yaml:"ideal_duration_sec"`
	DownloadWorkers int     `yaml:"download_workers"`
}

type UploadConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Visibility        string `yaml:"visibility"`
	CategoryID        string `yaml:"category_id"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
	MadeForKids       bool   `yaml:"made_for_kids"`
	DefaultLanguage   string `yaml:"default_language"`
}

type PathsConfig struct {
	Output string `yaml:"output"`
	Logs   string `yaml:"logs"`
}

// Load reads config.yaml and returns a Config struct
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Video.Orientation.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Video.Orientation == "" {
		c.Video.Orientation = types.Portrait
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = 25
	}
	if c.Video.Preset == "" {
		c.Video.Preset = "veryfast"
	}
	if c.Captions.WhisperModel == "" {
		c.Captions.WhisperModel = "base"
	}
	if c.Captions.MaxWordsPerCaption == 0 {
		c.Captions.MaxWordsPerCaption = 3
	}
	if c.Captions.FontSize == 0 {
		c.Captions.FontSize = 100
	}
	if c.Captions.StrokeWidth == 0 {
		c.Captions.StrokeWidth = 3
	}
	if c.Captions.BottomMargin == 0 {
		c.Captions.BottomMargin = 280
	}
	if c.Footage.PageSize == 0 {
		c.Footage.PageSize = 25
	}
	if c.Footage.MinDurationSec == 0 {
		c.Footage.MinDurationSec = 3
	}
	if c.Footage.MaxDurationSec == 0 {
		c.Footage.MaxDurationSec = 20
	}
	if c.Footage.IdealDuration == 0 {
		c.Footage.IdealDuration = 15
	}
	if c.Footage.DownloadWorkers == 0 {
		c.Footage.DownloadWorkers = 4
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "output"
	}
	if c.Paths.Logs == "" {
		c.Paths.Logs = ".logs"
	}
}
