package config

import (
	"time"

	"familytree/internal/domain"
)

// Config is the root configuration structure
type Config struct {
	Version   int             `yaml:"version"`
	Log       LogConfig       `yaml:"log"`
	Inference InferenceConfig `yaml:"inference"`
	Report    ReportConfig    `yaml:"report"`
	Watch     WatchConfig     `yaml:"watch"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Env   string `yaml:"env"`   // development or production
}

// InferenceConfig tunes the relationship-inference engine
type InferenceConfig struct {
	PartnerPolicy domain.PartnerPolicy `yaml:"partner_policy"`
	// RederiveOnImport runs a full pass after every import
	RederiveOnImport bool `yaml:"rederive_on_import"`
}

// ReportConfig holds report rendering settings
type ReportConfig struct {
	Format string `yaml:"format"` // text, yaml, json
}

// WatchConfig holds file watcher settings
type WatchConfig struct {
	Debounce *Duration `yaml:"debounce,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
