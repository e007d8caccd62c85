package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config represents the main configuration
type Config struct {
	Camera CameraConfig `yaml:"camera"`
	Light  LightConfig  `yaml:"light"`
	Style  StyleConfig  `yaml:"style"`
}

// CameraConfig contains camera-related configuration
type CameraConfig struct {
	// Elevation is the viewing angle above the ground plane in degrees
	Elevation float64 `yaml:"elevation"`
	// Zoom scales the framed model; values above 1.0 leave a margin
	Zoom float64 `yaml:"zoom"`
}

// LightConfig contains light-related configuration
type LightConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
	// Color is the light color as RRGGBB or RRGGBBAA hex
	Color string `yaml:"color"`
	// Ambient is the ambient floor color as RRGGBB or RRGGBBAA hex
	Ambient string `yaml:"ambient"`
}

// StyleConfig contains the colors used for the rendered model
type StyleConfig struct {
	ModelColor      string `yaml:"model_color"`      // RRGGBB or RRGGBBAA hex
	BackgroundColor string `yaml:"background_color"` // RRGGBB or RRGGBBAA hex
	GridColor       string `yaml:"grid_color"`       // RRGGBB or RRGGBBAA hex
	GridVisible     bool   `yaml:"grid_visible"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Camera: CameraConfig{
			Elevation: 25.0,
			Zoom:      1.05, // ~5% margin around the model
		},
		Light: LightConfig{
			X:       -5.0,
			Y:       5.0,
			Z:       -7.5,
			Color:   "B3B3B3",
			Ambient: "666666",
		},
		Style: StyleConfig{
			ModelColor:      "0073FF",
			BackgroundColor: "00000000", // transparent, thumbnails composite onto the desktop
			GridColor:       "000000",
			GridVisible:     false,
		},
	}
}

// LoadConfig loads the configuration from a file
func LoadConfig(filePath string) (*Config, error) {
	// Create default config
	config := DefaultConfig()

	// Read file
	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %v", err)
	}

	// Parse YAML
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return config, fmt.Errorf("error parsing config: %v", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	// Convert to YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %v", err)
	}

	// Write file
	err = os.WriteFile(filePath, data, 0644)
	if err != nil {
		return fmt.Errorf("error writing config file: %v", err)
	}

	return nil
}
