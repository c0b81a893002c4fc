package alloctrack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.NoError(t, config.Validate())
	assert.Equal(t, 5*time.Second, config.Reporter.Interval())
	assert.Equal(t, VendorLog, config.Telemetry.Vendor)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(*Config)
		expectErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:      "non-positive interval",
			mutate:    func(c *Config) { c.Reporter.IntervalMs = 0 },
			expectErr: true,
		},
		{
			name:      "unknown vendor",
			mutate:    func(c *Config) { c.Telemetry.Vendor = "kafka" },
			expectErr: true,
		},
		{
			name:   "memory vendor",
			mutate: func(c *Config) { c.Telemetry.Vendor = VendorMemory },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			err := config.Validate()
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewConfigFromYAML(t *testing.T) {
	data := []byte(`
reporter:
  intervalMs: 1000
telemetry:
  vendor: memory
  queueBuffer: 16
`)
	config, err := NewConfigFromYAML(data)
	assert.NoError(t, err)
	assert.Equal(t, time.Second, config.Reporter.Interval())
	assert.Equal(t, VendorMemory, config.Telemetry.Vendor)
	assert.Equal(t, 16, config.Telemetry.QueueBuffer)

	// Partial documents keep defaults for everything unmentioned.
	config, err = NewConfigFromYAML([]byte("reporter:\n  intervalMs: 250\n"))
	assert.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, config.Reporter.Interval())
	assert.Equal(t, VendorLog, config.Telemetry.Vendor)

	_, err = NewConfigFromYAML([]byte("reporter:\n  intervalMs: -5\n"))
	assert.Error(t, err)
}
