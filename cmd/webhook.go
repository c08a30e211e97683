package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/tgwebhook/internal/channels/telegram"
	"github.com/nextlevelbuilder/tgwebhook/internal/config"
)

const webhookCallTimeout = 30 * time.Second

func webhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram webhook registration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set",
			Short: "Register the callback URL with Telegram",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTelegramChannel(func(ctx context.Context, ch *telegram.Channel) error {
					if err := ch.Start(ctx); err != nil {
						return err
					}
					fmt.Printf("Webhook set: %s\n", ch.MaskedURL())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the webhook registration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTelegramChannel(func(ctx context.Context, ch *telegram.Channel) error {
					ch.Stop(ctx)
					fmt.Println("Webhook delete requested.")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show the current webhook status reported by Telegram",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runWebhookInfo()
			},
		},
	)
	return cmd
}

func loadTelegramConfig() (*config.Config, error) {
	setupLogging()
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withTelegramChannel runs fn against a lifecycle-only channel (no dispatcher).
func withTelegramChannel(fn func(ctx context.Context, ch *telegram.Channel) error) error {
	cfg, err := loadTelegramConfig()
	if err != nil {
		return err
	}
	bot, err := telegram.NewBot(cfg.Telegram)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), webhookCallTimeout)
	defer cancel()
	return fn(ctx, telegram.New(cfg.Telegram, bot, nil, nil))
}

func runWebhookInfo() error {
	cfg, err := loadTelegramConfig()
	if err != nil {
		return err
	}
	bot, err := telegram.NewBot(cfg.Telegram)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), webhookCallTimeout)
	defer cancel()

	info, err := bot.GetWebhookInfo(ctx)
	if err != nil {
		return fmt.Errorf("get webhook info: %w", err)
	}

	url := info.URL
	if url == "" {
		url = "(not set)"
	} else {
		url = strings.ReplaceAll(url, cfg.Telegram.Token, config.MaskToken(cfg.Telegram.Token))
	}
	fmt.Fprintf(os.Stdout, "  %-22s %s\n", "URL:", url)
	fmt.Fprintf(os.Stdout, "  %-22s %d\n", "Pending updates:", info.PendingUpdateCount)
	if info.LastErrorDate != 0 {
		fmt.Fprintf(os.Stdout, "  %-22s %s (%s)\n", "Last error:", info.LastErrorMessage,
			time.Unix(info.LastErrorDate, 0).Format(time.RFC3339))
	}
	if len(info.AllowedUpdates) > 0 {
		fmt.Fprintf(os.Stdout, "  %-22s %v\n", "Allowed updates:", info.AllowedUpdates)
	}
	return nil
}
