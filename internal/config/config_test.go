package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gateway.Port != 8443 {
		t.Errorf("Gateway.Port = %d, want 8443", cfg.Gateway.Port)
	}
	if cfg.Media.PhotoPath != filepath.Join("Files", "tux.png") {
		t.Errorf("Media.PhotoPath = %q", cfg.Media.PhotoPath)
	}
	if got := cfg.InlineDelayDuration(); got != 500*time.Millisecond {
		t.Errorf("InlineDelayDuration() = %v, want 500ms", got)
	}
}

func TestLoad_JSON5File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		// comments and trailing commas are allowed
		telegram: { token: "123:abc", host_address: "https://bot.example.com", },
		gateway: { port: 9000 },
		media: { inline_delay: "0s" },
	}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("Telegram.Token = %q", cfg.Telegram.Token)
	}
	if cfg.Gateway.Port != 9000 {
		t.Errorf("Gateway.Port = %d, want 9000", cfg.Gateway.Port)
	}
	if cfg.Gateway.Host != "0.0.0.0" {
		t.Errorf("Gateway.Host = %q, want default to survive partial override", cfg.Gateway.Host)
	}
	if got := cfg.InlineDelayDuration(); got != 0 {
		t.Errorf("InlineDelayDuration() = %v, want 0", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"telegram":{"token":"file-token"}}`), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TGWEBHOOK_BOT_TOKEN", "env-token")
	t.Setenv("TGWEBHOOK_HOST_ADDRESS", "https://env.example.com")
	t.Setenv("TGWEBHOOK_PORT", "8080")
	t.Setenv("TGWEBHOOK_TELEMETRY_ENABLED", "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "env-token" {
		t.Errorf("Telegram.Token = %q, want env-token", cfg.Telegram.Token)
	}
	if cfg.Telegram.HostAddress != "https://env.example.com" {
		t.Errorf("Telegram.HostAddress = %q", cfg.Telegram.HostAddress)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = false, want true")
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{telegram: `), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty token and host")
	}
	for _, want := range []string{"telegram.token", "telegram.host_address"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %q, missing %q", err, want)
		}
	}

	cfg.Telegram.Token = "1:x"
	cfg.Telegram.HostAddress = "bot.example.com"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "absolute") {
		t.Errorf("Validate() = %v, want scheme error", err)
	}
}

func TestInlineDelayDuration_BadValueFallsBack(t *testing.T) {
	cfg := Default()
	cfg.Media.InlineDelay = "soon"
	if got := cfg.InlineDelayDuration(); got != defaultInlineDelay {
		t.Errorf("InlineDelayDuration() = %v, want %v", got, defaultInlineDelay)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Telegram.Token = "42:secret"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Telegram.Token != "42:secret" {
		t.Errorf("Telegram.Token = %q after round trip", loaded.Telegram.Token)
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"123456:ABCdef", "123456:***"},
		{"nocolon", "***"},
	}
	for _, tt := range tests {
		if got := MaskToken(tt.in); got != tt.want {
			t.Errorf("MaskToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
