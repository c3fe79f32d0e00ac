package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"EnigmaNetz/Enigma-Capture-Console/internal/logger"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. CAPTURE_LOGGING_LEVEL.
	EnvPrefix = "CAPTURE"

	maxInterfaceNameLength = 255

	TemplateBackendJSON   = "json"
	TemplateBackendSQLite = "sqlite"
)

var interfaceNamePattern = interfaceNamePatternFor(runtime.GOOS)

// interfaceNamePatternFor returns the allowed device-name characters. Npcap
// names devices like \Device\NPF_{GUID}.
func interfaceNamePatternFor(goos string) *regexp.Regexp {
	if goos == "windows" {
		return regexp.MustCompile(`^[a-zA-Z0-9._\\{}-]+$`)
	}
	return regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
}

// Config represents the application configuration
type Config struct {
	// Logging configuration
	Logging struct {
		// Level is the minimum log level to output (debug, info, warn, error)
		Level string `mapstructure:"level" json:"level"`
		// File is the path to the log file. If empty, logs to stderr only
		File string `mapstructure:"file" json:"file"`
		// MaxSizeMB is the maximum size of log file before rotation
		MaxSizeMB int `mapstructure:"max_size_mb" json:"max_size_mb"`
		// MaxAgeDays is how long rotated log files are kept
		MaxAgeDays int `mapstructure:"max_age_days" json:"max_age_days"`
	} `mapstructure:"logging" json:"logging"`

	// Capture configuration
	Capture struct {
		// Interface is captured when none is given on the command line.
		// If empty, the default-route interface is used
		Interface string `mapstructure:"interface" json:"interface"`
		// DurationSeconds is the capture length when no template sets one
		DurationSeconds int `mapstructure:"duration_seconds" json:"duration_seconds"`
		// SnapLen is the maximum number of bytes kept per packet
		SnapLen int `mapstructure:"snaplen" json:"snaplen"`
		// Promiscuous puts the device in promiscuous mode
		Promiscuous bool `mapstructure:"promiscuous" json:"promiscuous"`
	} `mapstructure:"capture" json:"capture"`

	// Templates configuration
	Templates struct {
		// Backend selects the user template store (json, sqlite)
		Backend string `mapstructure:"backend" json:"backend"`
		// Path overrides the store location under the user config directory
		Path string `mapstructure:"path" json:"path"`
	} `mapstructure:"templates" json:"templates"`

	// Metrics configuration
	Metrics struct {
		// Listen is the address for the Prometheus endpoint. Empty disables it
		Listen string `mapstructure:"listen" json:"listen"`
	} `mapstructure:"metrics" json:"metrics"`

	// File is the config file that was loaded, if any
	File string `mapstructure:"-" json:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_age_days", 7)
	v.SetDefault("capture.interface", "")
	v.SetDefault("capture.duration_seconds", 10)
	v.SetDefault("capture.snaplen", 1600)
	v.SetDefault("capture.promiscuous", true)
	v.SetDefault("templates.backend", TemplateBackendJSON)
	v.SetDefault("templates.path", "")
	v.SetDefault("metrics.listen", "")
}

// LoadConfig loads configuration from a JSON file, then applies CAPTURE_*
// environment overrides. With an empty path, config.json in the working
// directory is used when present and defaults otherwise.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.ValidateAndSetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateAndSetDefaults fills zero values left by a partial config.
func (c *Config) ValidateAndSetDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 100
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 7
	}
	if c.Capture.DurationSeconds <= 0 {
		c.Capture.DurationSeconds = 10
	}
	if c.Capture.SnapLen <= 0 {
		c.Capture.SnapLen = 1600
	}
	c.Templates.Backend = strings.ToLower(strings.TrimSpace(c.Templates.Backend))
	if c.Templates.Backend == "" {
		c.Templates.Backend = TemplateBackendJSON
	}
	c.Capture.Interface = strings.TrimSpace(c.Capture.Interface)
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	if _, err := logger.ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch c.Templates.Backend {
	case TemplateBackendJSON, TemplateBackendSQLite:
	default:
		return fmt.Errorf("unknown template backend %q", c.Templates.Backend)
	}
	if c.Capture.Interface != "" {
		if err := ValidateInterfaceName(c.Capture.Interface); err != nil {
			return fmt.Errorf("invalid interface '%s': %w", c.Capture.Interface, err)
		}
	}
	return nil
}

// ValidateInterfaceName rejects names that are not plain device identifiers.
func ValidateInterfaceName(name string) error {
	return validateInterfaceName(name, interfaceNamePattern)
}

func validateInterfaceName(name string, pattern *regexp.Regexp) error {
	if name == "" {
		return errors.New("interface name cannot be empty")
	}
	if len(name) > maxInterfaceNameLength {
		return fmt.Errorf("interface name too long: %d characters", len(name))
	}
	if !pattern.MatchString(name) {
		return errors.New("interface name contains invalid characters")
	}
	return nil
}

// InitializeLogging sets up logging based on config
func (c *Config) InitializeLogging() error {
	level, err := logger.ParseLogLevel(c.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %v", err)
	}

	if c.Logging.File != "" {
		logDir := filepath.Dir(c.Logging.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %v", err)
		}
	}

	logConfig := logger.Config{
		LogLevel:   level,
		LogFile:    c.Logging.File,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxAgeDays: c.Logging.MaxAgeDays,
		// stdout carries capture output
		Output: os.Stderr,
	}

	if err := logger.Initialize(logConfig); err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	return nil
}
