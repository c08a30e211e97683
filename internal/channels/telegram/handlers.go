package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nextlevelbuilder/tgwebhook/internal/channels"
)

const tracerName = "github.com/nextlevelbuilder/tgwebhook/internal/channels/telegram"

// errNoOriginMessage is returned when a callback query arrives without the
// message its button was attached to (e.g. buttons on inline-mode messages).
var errNoOriginMessage = errors.New("callback query has no origin message")

// updateHandler handles one update variant.
type updateHandler func(ctx context.Context, update telego.Update) error

// Dispatcher routes each update to exactly one handler and isolates its failures.
// It holds no per-update state and is safe for concurrent use.
type Dispatcher struct {
	platform    Platform
	media       MediaFetcher
	photoPath   string
	downloadDir string
	inlineDelay time.Duration
	logger      *slog.Logger
	tracer      trace.Tracer

	handlers map[UpdateType]updateHandler
	commands map[string]commandFunc
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithMediaFetcher sets the collaborator used by the video command.
func WithMediaFetcher(m MediaFetcher) DispatcherOption {
	return func(d *Dispatcher) { d.media = m }
}

// WithPhotoPath sets the local file sent by /photo.
func WithPhotoPath(path string) DispatcherOption {
	return func(d *Dispatcher) { d.photoPath = path }
}

// WithDownloadDir sets the directory video downloads are written to.
func WithDownloadDir(dir string) DispatcherOption {
	return func(d *Dispatcher) { d.downloadDir = dir }
}

// WithInlineDelay sets the pause between the typing indicator and the /inline reply.
func WithInlineDelay(delay time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.inlineDelay = delay }
}

// WithLogger overrides slog.Default().
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher builds the update and command tables around a platform client.
func NewDispatcher(platform Platform, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		platform:    platform,
		photoPath:   "Files/tux.png",
		downloadDir: "Files",
		inlineDelay: 500 * time.Millisecond,
		logger:      slog.Default(),
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.handlers = map[UpdateType]updateHandler{
		UpdateMessage: func(ctx context.Context, u telego.Update) error {
			return d.handleMessage(ctx, u.Message)
		},
		UpdateEditedMessage: func(ctx context.Context, u telego.Update) error {
			return d.handleMessage(ctx, u.EditedMessage)
		},
		UpdateCallbackQuery: func(ctx context.Context, u telego.Update) error {
			return d.handleCallbackQuery(ctx, u.CallbackQuery)
		},
		UpdateInlineQuery: func(ctx context.Context, u telego.Update) error {
			return d.handleInlineQuery(ctx, u.InlineQuery)
		},
		UpdateChosenInlineResult: func(ctx context.Context, u telego.Update) error {
			return d.handleChosenInlineResult(ctx, u.ChosenInlineResult)
		},
	}
	d.commands = d.commandTable()

	return d
}

// Dispatch handles a single update. It never returns an error and never
// panics: every failure ends in HandleError.
func (d *Dispatcher) Dispatch(ctx context.Context, update telego.Update) {
	kind := TypeOf(update)

	ctx, span := d.tracer.Start(ctx, "telegram.dispatch", trace.WithAttributes(
		attribute.String("update.type", string(kind)),
		attribute.Int("update.id", update.UpdateID),
	))
	defer span.End()

	handler, ok := d.handlers[kind]
	if !ok {
		handler = d.handleUnknown
	}

	d.logger.Debug("dispatching telegram update", "type", kind, "update_id", update.UpdateID)

	if err := invoke(ctx, handler, update); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, DescribeError(err))
		d.HandleError(err)
	}
}

// invoke runs a handler and converts a panic into an error.
func invoke(ctx context.Context, h updateHandler, update telego.Update) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v\n%s", r, debug.Stack())
		}
	}()
	return h(ctx, update)
}

// handleMessage routes text messages through the command table; other
// content types are accepted and ignored.
func (d *Dispatcher) handleMessage(ctx context.Context, message *telego.Message) error {
	kind := MessageType(message)
	d.logger.Info("received message",
		"type", kind,
		"chat_id", message.Chat.ID,
		"text_preview", channels.Truncate(message.Text, 60),
	)
	if kind != MessageText {
		return nil
	}

	command := d.route(message.Text)
	sent, err := command(ctx, message)
	if err != nil {
		return err
	}

	d.logger.Info("message sent", "chat_id", message.Chat.ID, "message_id", sent.MessageID)
	return nil
}

// handleCallbackQuery answers the button press and echoes its payload to the
// originating chat. The echo is attempted even when the answer fails.
func (d *Dispatcher) handleCallbackQuery(ctx context.Context, query *telego.CallbackQuery) error {
	text := "Received " + query.Data

	ackErr := d.platform.AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).WithText(text))
	if ackErr != nil {
		ackErr = fmt.Errorf("answer callback query: %w", ackErr)
	}

	var echoErr error
	if query.Message == nil {
		echoErr = errNoOriginMessage
	} else {
		chatID := query.Message.GetChat().ID
		if _, err := d.platform.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
			echoErr = fmt.Errorf("echo callback data: %w", err)
		}
	}

	return errors.Join(ackErr, echoErr)
}

// handleInlineQuery answers every inline query with the same single article.
func (d *Dispatcher) handleInlineQuery(ctx context.Context, query *telego.InlineQuery) error {
	d.logger.Info("received inline query", "from_id", query.From.ID)

	// cache_time is omitempty in telego: 0 is not sent on the wire and Telegram
	// applies its own default (300s).
	params := tu.InlineQuery(query.ID,
		tu.ResultArticle("3", "TgBots", tu.TextMessage("hello")),
	).WithIsPersonal().WithCacheTime(0)

	if err := d.platform.AnswerInlineQuery(ctx, params); err != nil {
		return fmt.Errorf("answer inline query: %w", err)
	}
	return nil
}

func (d *Dispatcher) handleChosenInlineResult(_ context.Context, result *telego.ChosenInlineResult) error {
	d.logger.Info("received inline result", "result_id", result.ResultID)
	return nil
}

func (d *Dispatcher) handleUnknown(_ context.Context, update telego.Update) error {
	d.logger.Info("unknown update type", "type", TypeOf(update), "update_id", update.UpdateID)
	return nil
}
