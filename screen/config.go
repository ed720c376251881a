package screen

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/oyarzun/hoteltv/category"
)

// Config is the per-device configuration for one display screen. Each
// device is bound to exactly one category.
type Config struct {
	APIURL              string       `toml:"api_url"`
	Category            string       `toml:"category"`
	PollIntervalSeconds int          `toml:"poll_interval_seconds"`
	Player              PlayerConfig `toml:"player"`
	Output              OutputConfig `toml:"output"`
}

type PlayerConfig struct {
	Binary string   `toml:"binary"`
	Args   []string `toml:"args"`
}

type OutputConfig struct {
	// Name is the wlr-randr output driving the TV panel.
	Name string `toml:"name"`
	// ManageRotation rotates the physical output; disable when the panel
	// is mounted with hardware rotation.
	ManageRotation bool `toml:"manage_rotation"`
}

func defaultConfig() Config {
	return Config{
		APIURL:              "http://localhost:5000",
		PollIntervalSeconds: 5,
		Player: PlayerConfig{
			Binary: "mpv",
			Args:   []string{"--fullscreen", "--loop-file=inf", "--no-osc", "--really-quiet"},
		},
		Output: OutputConfig{
			Name:           "HDMI-A-1",
			ManageRotation: true,
		},
	}
}

// ReadConfig decodes a Config from the provided reader, filling defaults
// for absent keys.
func ReadConfig(r io.Reader) (*Config, error) {
	cfg := defaultConfig()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := category.Validate(cfg.Category); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ReadConfigFromFile reads a Config from the specified file path.
func ReadConfigFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := ReadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}
