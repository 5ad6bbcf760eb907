// Package config loads and saves daemon configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/ir-receiver/internal/adc"
	"github.com/sweeney/ir-receiver/internal/led"
	"github.com/sweeney/ir-receiver/internal/signal"
)

// Config represents the daemon configuration.
type Config struct {
	Serial    SerialConfig    `yaml:"serial"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Detection DetectionConfig `yaml:"detection"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	HTTP      HTTPConfig      `yaml:"http"`
	LED       LEDConfig       `yaml:"led"`
	Monitor   MonitorConfig   `yaml:"monitor"`
	Heartbeat time.Duration   `yaml:"heartbeat"`  // 0 disables heartbeat events
	LogEvery  int             `yaml:"log_every"`  // log one sample line every N ticks
}

// SerialConfig contains serial port configuration for the sampler MCU.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// SamplingConfig contains sample pacing parameters.
type SamplingConfig struct {
	RateHz int `yaml:"rate_hz"`
}

// DetectionConfig contains detection and reconstruction tuning.
type DetectionConfig struct {
	Threshold       int           `yaml:"threshold"`
	LossTimeout     int           `yaml:"loss_timeout"`
	BaselineSamples int           `yaml:"baseline_samples"`
	CalibrateDelay  time.Duration `yaml:"calibrate_delay"` // settle time before baseline sampling
	ClampWindow     int           `yaml:"clamp_window"`
	DropoutPolicy   string        `yaml:"dropout_policy"` // "hold" or "fade"
}

// MQTTConfig contains MQTT broker configuration.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// HTTPConfig contains the status server configuration.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LEDConfig contains the signal indicator LED configuration.
type LEDConfig struct {
	Chip string `yaml:"chip"`
	Pin  int    `yaml:"pin"`
}

// MonitorConfig contains the local audio monitor configuration.
type MonitorConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "/dev/ttyACM0",
			Baud: adc.DefaultBaudRate,
		},
		Sampling: SamplingConfig{
			RateHz: 8000,
		},
		Detection: DetectionConfig{
			Threshold:       20,
			LossTimeout:     50,
			BaselineSamples: 100,
			CalibrateDelay:  500 * time.Millisecond,
			ClampWindow:     150,
			DropoutPolicy:   string(signal.PolicyFade),
		},
		MQTT: MQTTConfig{
			Broker:   "tcp://localhost:1883",
			ClientID: "ir-receiver",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		LED: LEDConfig{
			Chip: "gpiochip0",
			Pin:  led.DefaultPin,
		},
		Monitor: MonitorConfig{
			Enabled: false,
		},
		Heartbeat: 15 * time.Minute,
		LogEvery:  8000,
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SampleInterval returns the interval between sample deadlines.
func (c *Config) SampleInterval() time.Duration {
	return time.Second / time.Duration(c.Sampling.RateHz)
}

// Policy returns the configured dropout policy as a signal.DropoutPolicy.
func (c *Config) Policy() signal.DropoutPolicy {
	return signal.DropoutPolicy(c.Detection.DropoutPolicy)
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}

	if c.Sampling.RateHz == 0 {
		c.Sampling.RateHz = def.Sampling.RateHz
	}

	if c.Detection.Threshold == 0 {
		c.Detection.Threshold = def.Detection.Threshold
	}
	if c.Detection.LossTimeout == 0 {
		c.Detection.LossTimeout = def.Detection.LossTimeout
	}
	if c.Detection.BaselineSamples == 0 {
		c.Detection.BaselineSamples = def.Detection.BaselineSamples
	}
	if c.Detection.CalibrateDelay == 0 {
		c.Detection.CalibrateDelay = def.Detection.CalibrateDelay
	}
	if c.Detection.ClampWindow == 0 {
		c.Detection.ClampWindow = def.Detection.ClampWindow
	}
	if c.Detection.DropoutPolicy == "" {
		c.Detection.DropoutPolicy = def.Detection.DropoutPolicy
	}

	if c.MQTT.Broker == "" {
		c.MQTT.Broker = def.MQTT.Broker
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = def.MQTT.ClientID
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = def.HTTP.Addr
	}

	if c.LED.Chip == "" {
		c.LED.Chip = def.LED.Chip
	}
	if c.LED.Pin == 0 {
		c.LED.Pin = def.LED.Pin
	}

	if c.LogEvery == 0 {
		c.LogEvery = def.LogEvery
	}
}

func (c *Config) validate() error {
	switch signal.DropoutPolicy(c.Detection.DropoutPolicy) {
	case signal.PolicyHold, signal.PolicyFade:
	default:
		return fmt.Errorf("invalid dropout_policy %q (want %q or %q)",
			c.Detection.DropoutPolicy, signal.PolicyHold, signal.PolicyFade)
	}
	if c.Sampling.RateHz < 0 {
		return fmt.Errorf("invalid sample rate %d", c.Sampling.RateHz)
	}
	return nil
}
