package support

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

type Handler struct {
	svc    Service
	secret string
}

// NewHandler: пустой secret отключает проверку заголовка.
func NewHandler(svc Service, secret string) *Handler {
	return &Handler{svc: svc, secret: secret}
}

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		MessageID int64 `json:"message_id"`
		From      *struct {
			ID        int64  `json:"id"`
			IsBot     bool   `json:"is_bot"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Username  string `json:"username"`
		} `json:"from"`
		Chat struct {
			ID   int64  `json:"id"`
			Type string `json:"type"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

// HandleWebhook: вход от Telegram
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" {
		got := r.Header.Get(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
	}

	var u update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	// Не текст (фото, стикеры, правки): просто ACK.
	if u.Message == nil || u.Message.From == nil || u.Message.From.IsBot || strings.TrimSpace(u.Message.Text) == "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	from := u.Message.From
	msg := &Message{
		ChatID: u.Message.Chat.ID,
		Sender: SenderClient,
		Text:   u.Message.Text,
		Client: Client{
			ID:        from.ID,
			FirstName: from.FirstName,
			LastName:  from.LastName,
			Username:  from.Username,
		},
	}

	if err := h.svc.HandleIncoming(r.Context(), msg); err != nil {
		// только лог: на не-2xx Telegram повторит апдейт
		log.Printf("[telegram] update=%d: %v", u.UpdateID, err)
	}

	w.WriteHeader(http.StatusOK)
}
