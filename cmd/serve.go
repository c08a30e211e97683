package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nextlevelbuilder/tgwebhook/internal/channels"
	"github.com/nextlevelbuilder/tgwebhook/internal/channels/telegram"
	"github.com/nextlevelbuilder/tgwebhook/internal/config"
	"github.com/nextlevelbuilder/tgwebhook/internal/gateway"
	httpapi "github.com/nextlevelbuilder/tgwebhook/internal/http"
	"github.com/nextlevelbuilder/tgwebhook/internal/media"
	"github.com/nextlevelbuilder/tgwebhook/internal/tracing"
)

const stopTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Register the webhook and serve Telegram updates (default)",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}

func runServe() {
	setupLogging()

	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		if _, statErr := os.Stat(cfgPath); os.IsNotExist(statErr) {
			fmt.Println("No configuration found. Run the setup wizard:  ./tgwebhook onboard")
			fmt.Println()
		}
		slog.Error("invalid config", "path", cfgPath, "error", err)
		os.Exit(1)
	}

	if err := serve(cfg); err != nil {
		slog.Error("tgwebhook stopped with error", "error", telegram.DescribeError(err))
		os.Exit(1)
	}
}

// serve runs the gateway until SIGINT/SIGTERM. The listener is bound before
// the webhook is registered, and the webhook is removed before the listener
// shuts down.
func serve(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}()

	bot, err := telegram.NewBot(cfg.Telegram)
	if err != nil {
		return err
	}

	dispatcher := telegram.NewDispatcher(bot,
		telegram.WithMediaFetcher(media.NewYouTubeFetcher()),
		telegram.WithPhotoPath(cfg.Media.PhotoPath),
		telegram.WithDownloadDir(cfg.Media.DownloadDir),
		telegram.WithInlineDelay(cfg.InlineDelayDuration()),
	)

	tg := telegram.New(cfg.Telegram, bot, dispatcher, nil)
	channelMgr := channels.NewManager()
	channelMgr.RegisterChannel(tg.Name(), tg)

	server := gateway.NewServer(cfg, httpapi.NewWebhookHandler(cfg.Telegram.Token, tg.Dispatcher()), channelMgr)

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("gateway listen: %w", err)
	}

	serverCtx, stopServer := context.WithCancel(context.Background())
	defer stopServer()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(serverCtx, ln)
	})

	if err := channelMgr.StartAll(ctx); err != nil {
		stopServer()
		g.Wait()
		return err
	}

	slog.Info("tgwebhook started",
		"version", Version,
		"addr", ln.Addr().String(),
		"channels", channelMgr.GetEnabledChannels(),
	)

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("graceful shutdown initiated")

		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		channelMgr.StopAll(stopCtx)

		stopServer()
		return nil
	})

	return g.Wait()
}
