package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  Server  `yaml:"server" json:"server"`
	Storage Storage `yaml:"storage" json:"storage"`
	Planner Planner `yaml:"planner" json:"planner"`
	UI      UI      `yaml:"ui" json:"ui"`
}

type Server struct {
	Addr string `yaml:"addr" json:"addr"`
}

type Storage struct {
	// Driver: "file" (one JSON document per key) or "sqlite".
	Driver   string `yaml:"driver" json:"driver"`
	DataDir  string `yaml:"data_dir" json:"data_dir"`
	StateKey string `yaml:"state_key" json:"state_key"`
}

type Planner struct {
	BumpStep         int    `yaml:"bump_step" json:"bump_step"`
	PlaceholderTitle string `yaml:"placeholder_title" json:"placeholder_title"`
}

type UI struct {
	Labels Labels `yaml:"labels" json:"labels"`
}

// Labels carry the display phrases for the finish estimate.
// Single display locale; replace wholesale to relabel.
type Labels struct {
	AllDone          string `yaml:"all_done" json:"all_done"`
	Today            string `yaml:"today" json:"today"`
	Tomorrow         string `yaml:"tomorrow" json:"tomorrow"`
	DayAfterTomorrow string `yaml:"day_after_tomorrow" json:"day_after_tomorrow"`
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8745"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Storage.StateKey == "" {
		c.Storage.StateKey = "planner"
	}
	if c.Planner.BumpStep == 0 {
		c.Planner.BumpStep = 10
	}
	if c.Planner.PlaceholderTitle == "" {
		c.Planner.PlaceholderTitle = "Task"
	}
}

func Default() *Config {
	var c Config
	c.ApplyDefaults()
	return &c
}

// Load reads a yaml config file. A missing file is not an error: the planner
// must run with zero setup, so defaults apply.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}
