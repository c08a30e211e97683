package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// errNoMediaFetcher is returned by the video command when no collaborator is wired.
var errNoMediaFetcher = errors.New("video download is not configured")

// sendPhoto uploads the configured local picture.
func (d *Dispatcher) sendPhoto(ctx context.Context, message *telego.Message) (*telego.Message, error) {
	chatID := message.Chat.ID
	if err := d.chatAction(ctx, chatID, telego.ChatActionUploadPhoto); err != nil {
		return nil, err
	}

	file, err := os.Open(d.photoPath)
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	defer file.Close()

	sent, err := d.platform.SendPhoto(ctx, tu.Photo(tu.ID(chatID), tu.File(file)).WithCaption("Nice Picture"))
	if err != nil {
		return nil, fmt.Errorf("send photo: %w", err)
	}
	return sent, nil
}

// sendVideo downloads the video referenced by the first token of the message
// and uploads it. The download is removed once the upload finishes or fails.
func (d *Dispatcher) sendVideo(ctx context.Context, message *telego.Message) (*telego.Message, error) {
	chatID := message.Chat.ID
	if err := d.chatAction(ctx, chatID, telego.ChatActionUploadVideo); err != nil {
		return nil, err
	}
	if d.media == nil {
		return nil, errNoMediaFetcher
	}

	ref := leadingToken(message.Text)
	path, err := d.media.Fetch(ctx, ref, d.downloadDir)
	if err != nil {
		return nil, fmt.Errorf("fetch video %q: %w", ref, err)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			d.logger.Warn("failed to remove downloaded video", "path", path, "error", rmErr)
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}
	defer file.Close()

	sent, err := d.platform.SendVideo(ctx, tu.Video(tu.ID(chatID), tu.File(file)).WithCaption("Nice Video"))
	if err != nil {
		return nil, fmt.Errorf("send video: %w", err)
	}
	return sent, nil
}
