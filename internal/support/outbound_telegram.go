package support

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Vovarama1992/intickets-support/internal/intent"
)

const DefaultTelegramURL = "https://api.telegram.org"

type TelegramOutbound struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewTelegramOutbound(token, baseURL string) *TelegramOutbound {
	if baseURL == "" {
		baseURL = DefaultTelegramURL
	}
	return &TelegramOutbound{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type keyboardButton struct {
	Text string `json:"text"`
}

type replyKeyboard struct {
	Keyboard              [][]keyboardButton `json:"keyboard"`
	ResizeKeyboard        bool               `json:"resize_keyboard"`
	InputFieldPlaceholder string             `json:"input_field_placeholder,omitempty"`
}

func replyMarkup(kb intent.Keyboard) *replyKeyboard {
	layout, ok := kb.Layout()
	if !ok {
		return nil
	}
	rows := make([][]keyboardButton, len(layout.Rows))
	for i, row := range layout.Rows {
		rows[i] = make([]keyboardButton, len(row))
		for j, text := range row {
			rows[i][j] = keyboardButton{Text: text}
		}
	}
	return &replyKeyboard{
		Keyboard:              rows,
		ResizeKeyboard:        true,
		InputFieldPlaceholder: layout.Placeholder,
	}
}

// SendMessage: ответ клиенту с клавиатурой.
func (c *TelegramOutbound) SendMessage(ctx context.Context, chatID int64, text string, kb intent.Keyboard) error {
	body := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if markup := replyMarkup(kb); markup != nil {
		body["reply_markup"] = markup
	}
	return c.call(ctx, "sendMessage", body)
}

func (c *TelegramOutbound) SendChatAction(ctx context.Context, chatID int64, action string) error {
	return c.call(ctx, "sendChatAction", map[string]any{
		"chat_id": chatID,
		"action":  action,
	})
}

// SendOperator: уведомление в чат операторов, без клавиатуры.
func (c *TelegramOutbound) SendOperator(ctx context.Context, chatID int64, text string) error {
	return c.SendMessage(ctx, chatID, text, intent.KeyboardNone)
}

// Typing показывает «печатает». В личном чате chat_id совпадает с id пользователя.
func (c *TelegramOutbound) Typing(ctx context.Context, userID int64) {
	if err := c.SendChatAction(ctx, userID, "typing"); err != nil {
		log.Printf("[telegram] typing user=%d: %v", userID, err)
	}
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *TelegramOutbound) call(ctx context.Context, method string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/bot"+c.token+"/"+method,
		bytes.NewReader(b),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// url.Error содержит путь с токеном
		return fmt.Errorf("telegram %s: %w", method, redact(err, c.token))
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		return errors.New(
			"telegram api error: " + method + " " +
				resp.Status +
				" body=" + string(respBody),
		)
	}

	var out apiResponse
	if err := json.Unmarshal(respBody, &out); err == nil && !out.OK {
		return errors.New("telegram api error: " + method + " " + out.Description)
	}

	return nil
}

func redact(err error, token string) error {
	if token == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "<token>"))
}
