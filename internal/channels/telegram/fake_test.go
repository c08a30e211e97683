package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mymmrac/telego"
)

type platformCall struct {
	method string
	params any
}

// fakePlatform records every Bot API call in order. errs maps a method name
// to the error it should return; panicOn makes one method panic.
type fakePlatform struct {
	mu      sync.Mutex
	calls   []platformCall
	errs    map[string]error
	panicOn string
	nextID  int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{errs: make(map[string]error)}
}

func (f *fakePlatform) record(method string, params any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, platformCall{method: method, params: params})
	if f.panicOn == method {
		panic("fake platform: " + method)
	}
	return f.errs[method]
}

func (f *fakePlatform) sent(chatID int64) *telego.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return &telego.Message{MessageID: f.nextID, Chat: telego.Chat{ID: chatID}}
}

func (f *fakePlatform) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.method)
	}
	return out
}

func (f *fakePlatform) call(i int) platformCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

func (f *fakePlatform) SendMessage(_ context.Context, p *telego.SendMessageParams) (*telego.Message, error) {
	if err := f.record("sendMessage", p); err != nil {
		return nil, err
	}
	return f.sent(p.ChatID.ID), nil
}

func (f *fakePlatform) SendPhoto(_ context.Context, p *telego.SendPhotoParams) (*telego.Message, error) {
	if err := f.record("sendPhoto", p); err != nil {
		return nil, err
	}
	return f.sent(p.ChatID.ID), nil
}

func (f *fakePlatform) SendVideo(_ context.Context, p *telego.SendVideoParams) (*telego.Message, error) {
	if err := f.record("sendVideo", p); err != nil {
		return nil, err
	}
	return f.sent(p.ChatID.ID), nil
}

func (f *fakePlatform) SendChatAction(_ context.Context, p *telego.SendChatActionParams) error {
	return f.record("sendChatAction:"+p.Action, p)
}

func (f *fakePlatform) AnswerCallbackQuery(_ context.Context, p *telego.AnswerCallbackQueryParams) error {
	return f.record("answerCallbackQuery", p)
}

func (f *fakePlatform) AnswerInlineQuery(_ context.Context, p *telego.AnswerInlineQueryParams) error {
	return f.record("answerInlineQuery", p)
}

func (f *fakePlatform) SetWebhook(_ context.Context, p *telego.SetWebhookParams) error {
	return f.record("setWebhook", p)
}

func (f *fakePlatform) DeleteWebhook(_ context.Context, p *telego.DeleteWebhookParams) error {
	return f.record("deleteWebhook", p)
}

// fakeFetcher writes a small file into dir and reports the refs it was asked for.
type fakeFetcher struct {
	mu   sync.Mutex
	refs []string
	err  error
	n    int
}

func (f *fakeFetcher) Fetch(_ context.Context, ref, dir string) (string, error) {
	f.mu.Lock()
	f.refs = append(f.refs, ref)
	f.n++
	n := f.n
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(dir, fmt.Sprintf("video-%d.mp4", n))
	if err := os.WriteFile(path, []byte("not really a video"), 0600); err != nil {
		return "", err
	}
	return path, nil
}

// logSink captures structured log output for assertions.
type logSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *logSink) logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(s, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func (s *logSink) records(t *testing.T) []map[string]any {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []map[string]any
	dec := json.NewDecoder(bytes.NewReader(s.buf.Bytes()))
	for dec.More() {
		var rec map[string]any
		if err := dec.Decode(&rec); err != nil {
			t.Fatalf("decode log record: %v", err)
		}
		out = append(out, rec)
	}
	return out
}

func (s *logSink) withLevel(t *testing.T, level string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, rec := range s.records(t) {
		if rec["level"] == level {
			out = append(out, rec)
		}
	}
	return out
}

func textUpdate(chatID int64, text string) telego.Update {
	return telego.Update{
		UpdateID: 1,
		Message: &telego.Message{
			MessageID: 10,
			Chat:      telego.Chat{ID: chatID, Type: "private"},
			Text:      text,
		},
	}
}
