package telegram

import (
	"context"

	"github.com/mymmrac/telego"
)

// Platform is the subset of the Telegram Bot API the dispatcher and the
// webhook lifecycle call. *telego.Bot satisfies it; tests substitute a fake.
type Platform interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error)
	SendVideo(ctx context.Context, params *telego.SendVideoParams) (*telego.Message, error)
	SendChatAction(ctx context.Context, params *telego.SendChatActionParams) error
	AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error
	AnswerInlineQuery(ctx context.Context, params *telego.AnswerInlineQueryParams) error
	SetWebhook(ctx context.Context, params *telego.SetWebhookParams) error
	DeleteWebhook(ctx context.Context, params *telego.DeleteWebhookParams) error
}

var _ Platform = (*telego.Bot)(nil)

// MediaFetcher resolves a media reference (URL or id) and downloads the best
// combined audio+video stream into dir, returning the local file path.
type MediaFetcher interface {
	Fetch(ctx context.Context, ref, dir string) (string, error)
}
