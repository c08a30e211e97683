package config

import (
	"sync"
	"time"
)

// Config is the root configuration for the tgwebhook gateway.
type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	Gateway   GatewayConfig   `json:"gateway"`
	Media     MediaConfig     `json:"media"`
	Telemetry TelemetryConfig `json:"telemetry,omitempty"`
	mu        sync.RWMutex
}

// TelegramConfig holds the bot identity and the public address Telegram pushes updates to.
type TelegramConfig struct {
	Token              string `json:"token"`
	HostAddress        string `json:"host_address"`                   // public base URL, e.g. "https://bot.example.com"
	Proxy              string `json:"proxy,omitempty"`                // outbound HTTP proxy for Bot API calls
	DropPendingUpdates bool   `json:"drop_pending_updates,omitempty"` // discard queued updates on set/delete webhook
}

// GatewayConfig configures the local HTTP listener.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// MediaConfig configures the files used by the /photo and video commands.
type MediaConfig struct {
	PhotoPath   string `json:"photo_path"`
	DownloadDir string `json:"download_dir"`
	InlineDelay string `json:"inline_delay,omitempty"` // Go duration; pause before the /inline reply
}

// TelemetryConfig configures OpenTelemetry export for dispatch spans.
type TelemetryConfig struct {
	Enabled     bool              `json:"enabled,omitempty"`
	Endpoint    string            `json:"endpoint,omitempty"`     // OTLP endpoint (e.g. "localhost:4317")
	Protocol    string            `json:"protocol,omitempty"`     // "grpc" (default) or "http"
	Insecure    bool              `json:"insecure,omitempty"`     // plaintext transport, for local collectors
	ServiceName string            `json:"service_name,omitempty"` // default "tgwebhook"
	Headers     map[string]string `json:"headers,omitempty"`
}

// InlineDelayDuration parses Media.InlineDelay, falling back to the default on empty or bad input.
func (c *Config) InlineDelayDuration() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.Media.InlineDelay == "" {
		return defaultInlineDelay
	}
	d, err := time.ParseDuration(c.Media.InlineDelay)
	if err != nil || d < 0 {
		return defaultInlineDelay
	}
	return d
}
