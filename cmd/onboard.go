package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/tgwebhook/internal/config"
)

func onboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Interactive setup wizard that writes the config file",
		Run: func(cmd *cobra.Command, args []string) {
			runOnboard()
		},
	}
}

// canAutoOnboard returns true when the token and host address come from the
// environment, indicating non-interactive configuration (e.g. Docker).
func canAutoOnboard() bool {
	return os.Getenv("TGWEBHOOK_BOT_TOKEN") != "" && os.Getenv("TGWEBHOOK_HOST_ADDRESS") != ""
}

func runOnboard() {
	cfgPath := resolveConfigPath()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("Error loading %s: %s\n", cfgPath, err)
		os.Exit(1)
	}

	if canAutoOnboard() {
		fmt.Println("Auto-onboard: environment variables detected, running non-interactive setup...")
	} else {
		port := strconv.Itoa(cfg.Gateway.Port)
		if err := onboardForm(cfg, &port).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("Setup cancelled.")
				return
			}
			fmt.Printf("Setup failed: %s\n", err)
			os.Exit(1)
		}
		cfg.Gateway.Port, _ = strconv.Atoi(port)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Configuration is incomplete: %s\n", err)
		os.Exit(1)
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		fmt.Printf("Error writing %s: %s\n", cfgPath, err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("  Config:  %s\n", cfgPath)
	fmt.Printf("  Token:   %s\n", config.MaskToken(cfg.Telegram.Token))
	fmt.Printf("  Listen:  %s\n", cfg.Addr())
	fmt.Println()
	fmt.Println("Start the bot with:  ./tgwebhook")
}

func onboardForm(cfg *config.Config, port *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bot token").
				Description("From @BotFather, e.g. 123456:ABC-DEF...").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Telegram.Token).
				Validate(func(s string) error {
					if !strings.Contains(s, ":") {
						return errors.New("token must look like <bot id>:<secret>")
					}
					return nil
				}),
			huh.NewInput().
				Title("Public host address").
				Description("HTTPS base URL Telegram can reach, e.g. https://bot.example.com").
				Value(&cfg.Telegram.HostAddress).
				Validate(func(s string) error {
					if !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "http://") {
						return errors.New("host address must start with https://")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Listen port").
				Value(port).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 || n > 65535 {
						return errors.New("port must be between 1 and 65535")
					}
					return nil
				}),
			huh.NewInput().
				Title("Photo file").
				Description("Sent by /photo").
				Value(&cfg.Media.PhotoPath),
		),
	)
}
