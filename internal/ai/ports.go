package ai

import (
	"context"
	"errors"
	"time"

	"github.com/Vovarama1992/intickets-support/internal/dialog"
)

var (
	ErrEmptyReply   = errors.New("ai: empty reply")
	ErrInvalidParam = errors.New("ai: invalid parameter")
)

// LLM: внешняя модель, не знает ни про Telegram, ни про БД
type LLM interface {
	GetReply(
		ctx context.Context,
		systemPrompt string,
		history []Message,
		userText string,
	) (string, error)
}

// Message: универсальный формат диалога для AI
type Message struct {
	Role string // "user" | "assistant" | "system"
	Text string
}

const ContextPaymentIssue = "payment_issue"

// PaymentFacts: то, что удалось узнать о проблеме с оплатой.
type PaymentFacts struct {
	OrderNumber string               `json:"order_number,omitempty"`
	Method      dialog.PaymentMethod `json:"payment_method,omitempty"`
	Time        *dialog.TimeExpr     `json:"time,omitempty"`
}

// UserContext: короткоживущий контекст пользователя, независимый от диалогов.
type UserContext struct {
	Type      string       `json:"type"`
	Data      PaymentFacts `json:"data"`
	CreatedAt time.Time    `json:"created_at"`
}

// ContextStore хранит UserContext не дольше ContextTTL.
type ContextStore interface {
	// Get возвращает nil, nil если контекста нет или он истёк.
	Get(ctx context.Context, userID int64) (*UserContext, error)
	Save(ctx context.Context, userID int64, uc UserContext) error
	Delete(ctx context.Context, userID int64) error
	// PurgeExpired удаляет контексты старше ContextTTL.
	PurgeExpired(ctx context.Context, now time.Time)
}

const ContextTTL = 30 * time.Minute
