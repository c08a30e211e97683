package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/mymmrac/telego"

	"github.com/nextlevelbuilder/tgwebhook/internal/channels"
	"github.com/nextlevelbuilder/tgwebhook/internal/config"
)

// Channel owns the webhook registration for one bot identity and the
// dispatcher that handles the updates Telegram pushes to it.
type Channel struct {
	*channels.BaseChannel
	platform   Platform
	config     config.TelegramConfig
	dispatcher *Dispatcher
	logger     *slog.Logger

	mu         sync.Mutex
	registered bool
}

// NewBot creates a telego client for the configured token and optional proxy.
func NewBot(cfg config.TelegramConfig) (*telego.Bot, error) {
	var opts []telego.BotOption

	if cfg.Proxy != "" {
		proxyURL, parseErr := url.Parse(cfg.Proxy)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", cfg.Proxy, parseErr)
		}
		opts = append(opts, telego.WithHTTPClient(&http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyURL(proxyURL),
			},
		}))
	}

	bot, err := telego.NewBot(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return bot, nil
}

// New creates a webhook-mode Telegram channel. dispatcher may be nil for
// one-shot lifecycle commands that never receive updates.
func New(cfg config.TelegramConfig, platform Platform, dispatcher *Dispatcher, logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		BaseChannel: channels.NewBaseChannel("telegram"),
		platform:    platform,
		config:      cfg,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// WebhookPath is the secret callback path for a bot token. Only Telegram and
// the operator know the token, so requests on this path are from Telegram.
func WebhookPath(token string) string {
	return "/bot/" + token
}

// WebhookURL joins the public host address with the secret callback path.
func WebhookURL(hostAddress, token string) string {
	return strings.TrimRight(hostAddress, "/") + WebhookPath(token)
}

// URL returns the callback URL this channel registers.
func (c *Channel) URL() string {
	return WebhookURL(c.config.HostAddress, c.config.Token)
}

// MaskedURL is URL with the token secret hidden, for output.
func (c *Channel) MaskedURL() string {
	return WebhookURL(c.config.HostAddress, config.MaskToken(c.config.Token))
}

// Dispatcher returns the dispatcher handling this channel's updates.
func (c *Channel) Dispatcher() *Dispatcher { return c.dispatcher }

// Registered reports whether Start succeeded and Stop has not run since.
func (c *Channel) Registered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registered
}

// Start registers the callback URL with Telegram for all update types.
// Failure is returned to the caller: without a webhook nothing is delivered.
func (c *Channel) Start(ctx context.Context) error {
	masked := c.MaskedURL()
	c.logger.Info("setting telegram webhook", "url", masked)

	err := c.platform.SetWebhook(ctx, &telego.SetWebhookParams{
		URL:                c.URL(),
		AllowedUpdates:     AllowedUpdates(),
		DropPendingUpdates: c.config.DropPendingUpdates,
	})
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	c.mu.Lock()
	c.registered = true
	c.mu.Unlock()
	c.SetRunning(true)

	c.logger.Info("telegram webhook registered", "url", masked)
	return nil
}

// Stop removes the webhook. Errors are logged, never returned, so shutdown
// always proceeds.
func (c *Channel) Stop(ctx context.Context) error {
	c.logger.Info("removing telegram webhook")
	c.SetRunning(false)

	c.mu.Lock()
	wasRegistered := c.registered
	c.registered = false
	c.mu.Unlock()

	err := c.platform.DeleteWebhook(ctx, &telego.DeleteWebhookParams{
		DropPendingUpdates: c.config.DropPendingUpdates,
	})
	if err != nil {
		c.logger.Warn("failed to remove telegram webhook",
			"was_registered", wasRegistered,
			"error", DescribeError(err),
		)
		return nil
	}

	c.logger.Info("telegram webhook removed")
	return nil
}
