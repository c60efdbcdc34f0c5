package support

import (
	"context"
	"time"

	"github.com/Vovarama1992/intickets-support/internal/ai"
	"github.com/Vovarama1992/intickets-support/internal/dialog"
	"github.com/Vovarama1992/intickets-support/internal/intent"
)

type Sender string

const (
	SenderClient Sender = "client"
	SenderBot    Sender = "bot"
)

// Client: автор сообщения в Telegram.
type Client struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

type Message struct {
	ID        int64
	ChatID    int64
	Sender    Sender
	Text      string
	CreatedAt time.Time

	Client Client
}

// Outbound: Bot API.
type Outbound interface {
	SendMessage(ctx context.Context, chatID int64, text string, kb intent.Keyboard) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
}

// Repo: persistence. Ошибки репозитория не мешают отвечать пользователю.
type Repo interface {
	EnsureSchema(ctx context.Context) error
	SaveClient(ctx context.Context, c Client, chatID int64) error
	SaveMessage(ctx context.Context, msg *Message) error
	// GetHistory: последние limit сообщений чата, от старых к новым.
	GetHistory(ctx context.Context, chatID int64, limit int) ([]Message, error)
	dialog.RequestSink
}

// Router: каскад намерений.
type Router interface {
	Route(ctx context.Context, userID int64, text string, history []ai.Message) intent.Reply
}

// Service: оркестрация (без return ответа наружу)
type Service interface {
	HandleIncoming(ctx context.Context, msg *Message) error
}
