package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/ir-receiver/internal/signal"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 921600, cfg.Serial.Baud)
	assert.Equal(t, 8000, cfg.Sampling.RateHz)
	assert.Equal(t, 20, cfg.Detection.Threshold)
	assert.Equal(t, 50, cfg.Detection.LossTimeout)
	assert.Equal(t, 100, cfg.Detection.BaselineSamples)
	assert.Equal(t, 500*time.Millisecond, cfg.Detection.CalibrateDelay)
	assert.Equal(t, 150, cfg.Detection.ClampWindow)
	assert.Equal(t, "fade", cfg.Detection.DropoutPolicy)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "ir-receiver", cfg.MQTT.ClientID)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "gpiochip0", cfg.LED.Chip)
	assert.Equal(t, 17, cfg.LED.Pin)
	assert.False(t, cfg.Monitor.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Heartbeat)
	assert.Equal(t, 8000, cfg.LogEvery)
}

func TestSampleInterval(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 125*time.Microsecond, cfg.SampleInterval())

	cfg.Sampling.RateHz = 4000
	assert.Equal(t, 250*time.Microsecond, cfg.SampleInterval())
}

func TestPolicy(t *testing.T) {
	cfg := Default()
	assert.Equal(t, signal.PolicyFade, cfg.Policy())

	cfg.Detection.DropoutPolicy = "hold"
	assert.Equal(t, signal.PolicyHold, cfg.Policy())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyUSB1"
  baud: 115200

sampling:
  rate_hz: 4000

detection:
  threshold: 30
  loss_timeout: 100
  baseline_samples: 200
  calibrate_delay: 1s
  clamp_window: 200
  dropout_policy: "hold"

mqtt:
  broker: "tcp://192.168.1.200:1883"
  client_id: "ir-receiver-lab"

http:
  addr: ":9090"

led:
  chip: "gpiochip1"
  pin: 22

monitor:
  enabled: true

heartbeat: 5m
log_every: 4000
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.Baud)
	assert.Equal(t, 4000, cfg.Sampling.RateHz)
	assert.Equal(t, 30, cfg.Detection.Threshold)
	assert.Equal(t, 100, cfg.Detection.LossTimeout)
	assert.Equal(t, 200, cfg.Detection.BaselineSamples)
	assert.Equal(t, time.Second, cfg.Detection.CalibrateDelay)
	assert.Equal(t, 200, cfg.Detection.ClampWindow)
	assert.Equal(t, "hold", cfg.Detection.DropoutPolicy)
	assert.Equal(t, "tcp://192.168.1.200:1883", cfg.MQTT.Broker)
	assert.Equal(t, "ir-receiver-lab", cfg.MQTT.ClientID)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "gpiochip1", cfg.LED.Chip)
	assert.Equal(t, 22, cfg.LED.Pin)
	assert.True(t, cfg.Monitor.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Heartbeat)
	assert.Equal(t, 4000, cfg.LogEvery)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyUSB0"
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// Should use defaults for missing fields
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
	assert.Equal(t, 921600, cfg.Serial.Baud)      // default
	assert.Equal(t, 8000, cfg.Sampling.RateHz)    // default
	assert.Equal(t, 20, cfg.Detection.Threshold)  // default
	assert.Equal(t, "fade", cfg.Detection.DropoutPolicy)
}

func TestLoad_InvalidDropoutPolicy(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
detection:
  dropout_policy: "linger"
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Detection.Threshold = 35

	tmpfile, err := os.CreateTemp("", "test_save_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	err = cfg.Save(tmpfile.Name())
	require.NoError(t, err)

	// Load it back and verify
	loaded, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", loaded.Serial.Port)
	assert.Equal(t, 35, loaded.Detection.Threshold)
}
