package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mymmrac/telego"

	"github.com/nextlevelbuilder/tgwebhook/internal/channels/telegram"
)

// maxUpdateBytes bounds a single update body.
const maxUpdateBytes = 1 << 20

// UpdateDispatcher handles one decoded update.
type UpdateDispatcher interface {
	Dispatch(ctx context.Context, update telego.Update)
}

// WebhookHandler receives updates pushed by Telegram on the secret callback path.
type WebhookHandler struct {
	token      string
	dispatcher UpdateDispatcher
}

// NewWebhookHandler creates a handler for the bot identified by token.
func NewWebhookHandler(token string, dispatcher UpdateDispatcher) *WebhookHandler {
	return &WebhookHandler{token: token, dispatcher: dispatcher}
}

// RegisterRoutes registers the callback route on the given mux.
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST "+telegram.WebhookPath(h.token), h.handleUpdate)
}

// handleUpdate decodes the update and dispatches it before acknowledging.
// Handler failures never change the response: Telegram would redeliver
// the update on a non-2xx status.
func (h *WebhookHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var update telego.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes)).Decode(&update); err != nil {
		slog.Warn("webhook: invalid update body", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid update"})
		return
	}

	h.dispatcher.Dispatch(context.WithoutCancel(r.Context()), update)

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
