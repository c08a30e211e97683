package gateway

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mymmrac/telego"

	"github.com/nextlevelbuilder/tgwebhook/internal/config"
	httpapi "github.com/nextlevelbuilder/tgwebhook/internal/http"
)

type countingDispatcher struct{ n int }

type staticStatus map[string]interface{}

func (s staticStatus) GetStatus() map[string]interface{} { return s }

func (d *countingDispatcher) Dispatch(context.Context, telego.Update) { d.n++ }

func TestBuildMux(t *testing.T) {
	d := &countingDispatcher{}
	status := staticStatus{"telegram": map[string]interface{}{"running": true}}
	s := NewServer(config.Default(), httpapi.NewWebhookHandler("1:x", d), status)
	mux := s.BuildMux()

	if s.BuildMux() != mux {
		t.Error("BuildMux() did not cache the mux")
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if got := strings.TrimSpace(rec.Body.String()); rec.Code != http.StatusOK ||
		got != `{"channels":{"telegram":{"running":true}},"status":"ok"}` {
		t.Errorf("health = %d %s", rec.Code, got)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bot/1:x", strings.NewReader(`{"update_id":3}`)))
	if rec.Code != http.StatusOK || d.n != 1 {
		t.Errorf("webhook = %d, dispatched %d", rec.Code, d.n)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	s := NewServer(config.Default(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "ok") {
		t.Errorf("health = %d %s", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
