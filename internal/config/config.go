// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/humantyper/internal/humanoid"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Typing() humanoid.Config
	Device() DeviceConfig
	Browser() BrowserConfig

	// Typing Setters
	SetTypingLayout(string)
	SetTypingAverageCPM(float64)
	SetTypingSink(humanoid.SinkKind)
	SetTypingStrict(bool)

	// Device Setters
	SetDeviceBackend(string)

	// Browser Setters
	SetBrowserHeadless(bool)
	SetBrowserURL(string)
	SetBrowserSelector(string)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg  LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	TypingCfg  humanoid.Config `mapstructure:"typing" yaml:"typing"`
	DeviceCfg  DeviceConfig    `mapstructure:"device" yaml:"device"`
	BrowserCfg BrowserConfig   `mapstructure:"browser" yaml:"browser"`
}

var _ Interface = (*Config)(nil)

func (c *Config) Logger() LoggerConfig    { return c.LoggerCfg }
func (c *Config) Typing() humanoid.Config { return c.TypingCfg }
func (c *Config) Device() DeviceConfig    { return c.DeviceCfg }
func (c *Config) Browser() BrowserConfig  { return c.BrowserCfg }

// -- Typing Setters --
func (c *Config) SetTypingLayout(l string)          { c.TypingCfg.Layout = l }
func (c *Config) SetTypingAverageCPM(cpm float64)   { c.TypingCfg.AverageCPM = cpm }
func (c *Config) SetTypingSink(k humanoid.SinkKind) { c.TypingCfg.Sink = k }
func (c *Config) SetTypingStrict(b bool)            { c.TypingCfg.Strict = b }

// -- Device Setters --
func (c *Config) SetDeviceBackend(b string) { c.DeviceCfg.Backend = b }

// -- Browser Setters --
func (c *Config) SetBrowserHeadless(b bool)   { c.BrowserCfg.Headless = b }
func (c *Config) SetBrowserURL(u string)      { c.BrowserCfg.URL = u }
func (c *Config) SetBrowserSelector(s string) { c.BrowserCfg.Selector = s }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// DeviceConfig selects and tunes the direct-device sink.
type DeviceConfig struct {
	// Backend is one of "stdout", "pty" or "buffer".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Command is started on a pseudo-terminal by the pty backend.
	Command []string `mapstructure:"command" yaml:"command"`

	// Backspace overrides the erase sequence written by the stdout backend.
	Backspace string `mapstructure:"backspace" yaml:"backspace"`
}

// BrowserConfig holds settings for the browser used by the element sink.
type BrowserConfig struct {
	Headless bool     `mapstructure:"headless" yaml:"headless"`
	ExecPath string   `mapstructure:"exec_path" yaml:"exec_path"`
	Args     []string `mapstructure:"args" yaml:"args"`
	URL      string   `mapstructure:"url" yaml:"url"`
	Selector string   `mapstructure:"selector" yaml:"selector"`

	// Timeout bounds navigation; keystrokes are never timed out.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "humantyper")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Typing --
	setTypingDefaults(v)

	// -- Device --
	v.SetDefault("device.backend", "stdout")
	v.SetDefault("device.command", []string{})
	v.SetDefault("device.backspace", "")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.args", []string{})
	v.SetDefault("browser.url", "")
	v.SetDefault("browser.selector", "")
	v.SetDefault("browser.timeout", "30s")
}

// setTypingDefaults mirrors humanoid.DefaultConfig so the two never drift.
func setTypingDefaults(v *viper.Viper) {
	d := humanoid.DefaultConfig()
	v.SetDefault("typing.layout", d.Layout)
	v.SetDefault("typing.average_cpm", d.AverageCPM)
	v.SetDefault("typing.sink", string(d.Sink))
	v.SetDefault("typing.strict", d.Strict)
	v.SetDefault("typing.error_rate", d.ErrorRate)
	v.SetDefault("typing.error_multiplier_min", d.ErrorMultiplierMin)
	v.SetDefault("typing.error_multiplier_max", d.ErrorMultiplierMax)
	v.SetDefault("typing.modify_probability", d.ModifyProbability)
	v.SetDefault("typing.neighbor_count", d.NeighborCount)
	v.SetDefault("typing.recognition_pause.min", d.RecognitionPause.Min)
	v.SetDefault("typing.recognition_pause.max", d.RecognitionPause.Max)
	v.SetDefault("typing.reposition_pause.min", d.RepositionPause.Min)
	v.SetDefault("typing.reposition_pause.max", d.RepositionPause.Max)
}

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. HUMANTYPER_TYPING_AVERAGE_CPM.
const EnvPrefix = "HUMANTYPER"

// BindEnv makes every defaulted key overridable from the environment.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.TypingCfg.Validate(); err != nil {
		return fmt.Errorf("typing configuration invalid: %w", err)
	}
	if err := c.DeviceCfg.Validate(); err != nil {
		return fmt.Errorf("device configuration invalid: %w", err)
	}
	if c.BrowserCfg.Timeout < 0 {
		return errors.New("browser.timeout must not be negative")
	}
	return nil
}

// Validate checks the device backend settings.
func (d *DeviceConfig) Validate() error {
	switch strings.ToLower(d.Backend) {
	case "stdout", "buffer":
		return nil
	case "pty":
		if len(d.Command) == 0 {
			return errors.New("device.command is required by the pty backend")
		}
		return nil
	default:
		return fmt.Errorf("device.backend %q must be one of stdout, pty, buffer", d.Backend)
	}
}
