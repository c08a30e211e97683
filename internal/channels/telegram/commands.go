package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// videoLinkMarker matches youtube.com and youtu.be links anywhere in a message body.
const videoLinkMarker = "youtu"

const usageText = "Usage:\n" +
	"/inline   - send inline keyboard\n" +
	"/keyboard - send custom keyboard\n" +
	"/remove   - remove custom keyboard\n" +
	"/photo    - send a photo\n" +
	"/request  - request location or contact"

// commandFunc performs the outbound actions for one command and returns the
// final message it sent.
type commandFunc func(ctx context.Context, message *telego.Message) (*telego.Message, error)

func (d *Dispatcher) commandTable() map[string]commandFunc {
	return map[string]commandFunc{
		"/inline":   d.sendInlineKeyboard,
		"/keyboard": d.sendReplyKeyboard,
		"/remove":   d.removeKeyboard,
		"/photo":    d.sendPhoto,
		"/request":  d.requestContactAndLocation,
	}
}

// route picks the command for a text body: exact match on the leading token
// first, then a video link anywhere in the body, then usage.
func (d *Dispatcher) route(text string) commandFunc {
	if command, ok := d.commands[leadingToken(text)]; ok {
		return command
	}
	if strings.Contains(text, videoLinkMarker) {
		return d.sendVideo
	}
	return d.usage
}

// leadingToken returns the first whitespace-delimited token of text.
func leadingToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (d *Dispatcher) chatAction(ctx context.Context, chatID int64, action string) error {
	if err := d.platform.SendChatAction(ctx, tu.ChatAction(tu.ID(chatID), action)); err != nil {
		return fmt.Errorf("send chat action %s: %w", action, err)
	}
	return nil
}

func (d *Dispatcher) sendText(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	sent, err := d.platform.SendMessage(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return sent, nil
}

// sendInlineKeyboard replies with a 2x2 grid of callback buttons.
// Presses come back as callback queries.
func (d *Dispatcher) sendInlineKeyboard(ctx context.Context, message *telego.Message) (*telego.Message, error) {
	chatID := message.Chat.ID
	if err := d.chatAction(ctx, chatID, telego.ChatActionTyping); err != nil {
		return nil, err
	}

	// Simulate a slow operation.
	if d.inlineDelay > 0 {
		time.Sleep(d.inlineDelay)
	}

	keyboard := tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("1.1").WithCallbackData("11"),
			tu.InlineKeyboardButton("1.2").WithCallbackData("12"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("2.1").WithCallbackData("21"),
			tu.InlineKeyboardButton("2.2").WithCallbackData("22"),
		),
	)

	return d.sendText(ctx, tu.Message(tu.ID(chatID), "Choose").WithReplyMarkup(keyboard))
}

func (d *Dispatcher) sendReplyKeyboard(ctx context.Context, message *telego.Message) (*telego.Message, error) {
	keyboard := tu.Keyboard(
		tu.KeyboardRow(tu.KeyboardButton("1.1"), tu.KeyboardButton("1.2")),
		tu.KeyboardRow(tu.KeyboardButton("2.1"), tu.KeyboardButton("2.2")),
	).WithResizeKeyboard()

	return d.sendText(ctx, tu.Message(tu.ID(message.Chat.ID), "Choose").WithReplyMarkup(keyboard))
}

func (d *Dispatcher) removeKeyboard(ctx context.Context, message *telego.Message) (*telego.Message, error) {
	return d.sendText(ctx, tu.Message(tu.ID(message.Chat.ID), "Removing keyboard").
		WithReplyMarkup(tu.ReplyKeyboardRemove()))
}

func (d *Dispatcher) requestContactAndLocation(ctx context.Context, message *telego.Message) (*telego.Message, error) {
	keyboard := tu.Keyboard(
		tu.KeyboardRow(
			tu.KeyboardButton("Location").WithRequestLocation(),
			tu.KeyboardButton("Contact").WithRequestContact(),
		),
	)

	return d.sendText(ctx, tu.Message(tu.ID(message.Chat.ID), "Who or Where are you?").WithReplyMarkup(keyboard))
}

// usage is the fallback for anything the router does not recognise. It also
// clears any reply keyboard left over from /keyboard or /request.
func (d *Dispatcher) usage(ctx context.Context, message *telego.Message) (*telego.Message, error) {
	return d.sendText(ctx, tu.Message(tu.ID(message.Chat.ID), usageText).
		WithReplyMarkup(tu.ReplyKeyboardRemove()))
}
