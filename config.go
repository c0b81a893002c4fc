package alloctrack

import (
	"fmt"
	"time"

	"github.com/viant/alloctrack/messaging"
	"gopkg.in/yaml.v3"
)

// Telemetry vendors supported out of the box.
const (
	// VendorLog emits usage records through the standard logger.
	VendorLog messaging.Vendor = "log"

	// VendorMemory publishes usage records onto an in-memory queue that
	// subscribers drain via Service.Subscribe.
	VendorMemory messaging.Vendor = "memory"
)

// Config is a serialisable representation of the service configuration. It
// can be populated from JSON or YAML. The zero-value is not useful on its
// own; start from DefaultConfig or NewConfigFromYAML.
type Config struct {
	Reporter  ReporterConfig  `json:"reporter" yaml:"reporter"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`
}

// ReporterConfig controls the reporting loop cadence.
type ReporterConfig struct {
	IntervalMs int `json:"intervalMs" yaml:"intervalMs"`
}

// Interval returns the reporting cadence as a duration.
func (c ReporterConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// TelemetryConfig selects the sink vendor the reporter emits to.
type TelemetryConfig struct {
	Vendor      messaging.Vendor `json:"vendor" yaml:"vendor"`
	QueueBuffer int              `json:"queueBuffer" yaml:"queueBuffer"`
}

// DefaultConfig returns a Config populated with the defaults: the reference
// 5 second reporting cadence and log-based emission.
func DefaultConfig() *Config {
	return &Config{
		Reporter: ReporterConfig{
			IntervalMs: 5000,
		},
		Telemetry: TelemetryConfig{
			Vendor:      VendorLog,
			QueueBuffer: 100,
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Reporter.IntervalMs <= 0 {
		return fmt.Errorf("reporter.intervalMs must be > 0")
	}
	switch c.Telemetry.Vendor {
	case VendorLog, VendorMemory:
	default:
		return fmt.Errorf("unsupported telemetry vendor: %s", c.Telemetry.Vendor)
	}
	return nil
}

// NewConfigFromYAML decodes configuration on top of the defaults, so a
// partial document only overrides what it mentions.
func NewConfigFromYAML(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
