package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings       `yaml:"settings"`
	Storage  StorageConfig  `yaml:"storage"`
	Recorder RecorderConfig `yaml:"recorder"`
	Flight   FlightConfig   `yaml:"flight"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
}

// RecorderConfig represents recording pipeline settings
type RecorderConfig struct {
	MaxBatchSize        int     `yaml:"maxBatchSize"`
	FlushInterval       float64 `yaml:"flushInterval"` // seconds
	MinFlightSeconds    float64 `yaml:"minFlightSeconds"`
	DiscardShortFlights bool    `yaml:"discardShortFlights"`
}

// FlightConfig describes the simulated flight path flown by the demo
// adapters.
type FlightConfig struct {
	CenterLatitude  float64 `yaml:"centerLatitude"`
	CenterLongitude float64 `yaml:"centerLongitude"`
	Altitude        float64 `yaml:"altitude"` // meters
	Radius          float64 `yaml:"radius"`   // meters
	Period          float64 `yaml:"period"`   // seconds per circuit
	Accuracy        float64 `yaml:"accuracy"` // reported GPS accuracy in meters
}

// LoadConfig reads and parses the YAML configuration file
func LoadConfig(path string) (*Config, error) {
	p, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	var config Config
	if err = yaml.Unmarshal(p, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration file: %w", err)
	}

	return &config, nil
}
