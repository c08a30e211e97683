package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/titanous/json5"
)

const defaultInlineDelay = 500 * time.Millisecond

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Host: "0.0.0.0",
			Port: 8443,
		},
		Media: MediaConfig{
			PhotoPath:   filepath.Join("Files", "tux.png"),
			DownloadDir: "Files",
			InlineDelay: defaultInlineDelay.String(),
		},
		Telemetry: TelemetryConfig{
			Protocol:    "grpc",
			ServiceName: "tgwebhook",
		},
	}
}

// Load reads config from a JSON5 file, then overlays env vars.
// A missing file is not an error: defaults plus env are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides overlays env vars onto the config.
// Env vars take precedence over file values.
func (c *Config) applyEnvOverrides() {
	envStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	envBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			*dst = v == "true" || v == "1"
		}
	}

	envStr("TGWEBHOOK_BOT_TOKEN", &c.Telegram.Token)
	envStr("TGWEBHOOK_HOST_ADDRESS", &c.Telegram.HostAddress)
	envStr("TGWEBHOOK_PROXY", &c.Telegram.Proxy)
	envBool("TGWEBHOOK_DROP_PENDING_UPDATES", &c.Telegram.DropPendingUpdates)

	// Gateway host/port
	envStr("TGWEBHOOK_HOST", &c.Gateway.Host)
	if v := os.Getenv("TGWEBHOOK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Gateway.Port = port
		}
	}

	envStr("TGWEBHOOK_PHOTO_PATH", &c.Media.PhotoPath)
	envStr("TGWEBHOOK_DOWNLOAD_DIR", &c.Media.DownloadDir)
	envStr("TGWEBHOOK_INLINE_DELAY", &c.Media.InlineDelay)

	// Telemetry
	envStr("TGWEBHOOK_TELEMETRY_ENDPOINT", &c.Telemetry.Endpoint)
	envStr("TGWEBHOOK_TELEMETRY_PROTOCOL", &c.Telemetry.Protocol)
	envStr("TGWEBHOOK_TELEMETRY_SERVICE_NAME", &c.Telemetry.ServiceName)
	envBool("TGWEBHOOK_TELEMETRY_ENABLED", &c.Telemetry.Enabled)
	envBool("TGWEBHOOK_TELEMETRY_INSECURE", &c.Telemetry.Insecure)
}

// ApplyEnvOverrides is the exported form used by onboarding to pre-fill values.
func (c *Config) ApplyEnvOverrides() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyEnvOverrides()
}

// Validate reports the settings the gateway cannot serve without.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("telegram.token is required (or TGWEBHOOK_BOT_TOKEN)"))
	}
	if c.Telegram.HostAddress == "" {
		errs = append(errs, errors.New("telegram.host_address is required (or TGWEBHOOK_HOST_ADDRESS)"))
	} else if !strings.HasPrefix(c.Telegram.HostAddress, "https://") && !strings.HasPrefix(c.Telegram.HostAddress, "http://") {
		errs = append(errs, fmt.Errorf("telegram.host_address %q must be an absolute http(s) URL", c.Telegram.HostAddress))
	}
	if c.Gateway.Port <= 0 || c.Gateway.Port > 65535 {
		errs = append(errs, fmt.Errorf("gateway.port %d out of range", c.Gateway.Port))
	}
	return errors.Join(errs...)
}

// Addr returns the host:port the gateway listens on.
func (c *Config) Addr() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fmt.Sprintf("%s:%d", c.Gateway.Host, c.Gateway.Port)
}

// Save writes the config to a JSON file.
func Save(path string, cfg *Config) error {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// MaskToken returns the bot token with everything but its bot id prefix hidden,
// e.g. "123456:ABC..." → "123456:***". Used for log output.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if id, _, ok := strings.Cut(token, ":"); ok {
		return id + ":***"
	}
	return "***"
}
