package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/tgwebhook/internal/channels/telegram"
	"github.com/nextlevelbuilder/tgwebhook/internal/config"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check system environment and configuration health",
		Run: func(cmd *cobra.Command, args []string) {
			runDoctor()
		},
	}
}

func runDoctor() {
	fmt.Println("tgwebhook doctor")
	fmt.Printf("  Version:  %s\n", Version)
	fmt.Printf("  OS:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go:       %s\n", runtime.Version())
	fmt.Println()

	// Config
	cfgPath := resolveConfigPath()
	fmt.Printf("  Config:   %s", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Println(" (NOT FOUND)")
	} else {
		fmt.Println(" (OK)")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  Config load error: %s\n", err)
		return
	}

	fmt.Println()
	fmt.Println("  Telegram:")
	checkValue("Token:", config.MaskToken(cfg.Telegram.Token))
	checkValue("Host:", cfg.Telegram.HostAddress)
	if cfg.Telegram.Token != "" && cfg.Telegram.HostAddress != "" {
		checkValue("Webhook:", telegram.WebhookURL(cfg.Telegram.HostAddress, config.MaskToken(cfg.Telegram.Token)))
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("    %-12s %s\n", "Invalid:", err)
	} else {
		checkBotAPI(cfg)
	}

	fmt.Println()
	fmt.Println("  Gateway:")
	checkValue("Listen:", cfg.Addr())

	fmt.Println()
	fmt.Println("  Media:")
	checkPath("Photo:", cfg.Media.PhotoPath)
	checkPath("Downloads:", cfg.Media.DownloadDir)
	checkValue("Delay:", cfg.InlineDelayDuration().String())

	fmt.Println()
	fmt.Println("  Telemetry:")
	if cfg.Telemetry.Enabled {
		checkValue("Endpoint:", cfg.Telemetry.Endpoint)
	} else {
		checkValue("Status:", "disabled")
	}

	fmt.Println()
	fmt.Println("Doctor check complete.")
}

func checkValue(label, value string) {
	if value == "" {
		value = "(not configured)"
	}
	fmt.Printf("    %-12s %s\n", label, value)
}

func checkPath(label, path string) {
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("    %-12s %s (NOT FOUND)\n", label, path)
		return
	}
	fmt.Printf("    %-12s %s (OK)\n", label, path)
}

// checkBotAPI verifies the token with getMe and reports the live webhook state.
func checkBotAPI(cfg *config.Config) {
	bot, err := telegram.NewBot(cfg.Telegram)
	if err != nil {
		fmt.Printf("    %-12s %s\n", "Bot API:", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	me, err := bot.GetMe(ctx)
	if err != nil {
		fmt.Printf("    %-12s FAILED (%s)\n", "Bot API:", err)
		return
	}
	fmt.Printf("    %-12s @%s (id %d)\n", "Bot API:", me.Username, me.ID)

	info, err := bot.GetWebhookInfo(ctx)
	if err != nil {
		fmt.Printf("    %-12s FAILED (%s)\n", "Registered:", err)
		return
	}
	switch {
	case info.URL == "":
		fmt.Printf("    %-12s no\n", "Registered:")
	case info.URL == telegram.WebhookURL(cfg.Telegram.HostAddress, cfg.Telegram.Token):
		fmt.Printf("    %-12s yes (%d pending)\n", "Registered:", info.PendingUpdateCount)
	default:
		fmt.Printf("    %-12s different URL\n", "Registered:")
	}
}
