package dialog

import (
	"context"
	"time"

	"github.com/Vovarama1992/intickets-support/internal/phrases"
)

// Handler: общий контракт диалога.
type Handler interface {
	Name() string
	// Start открывает (или перезаписывает) сессию на начальном шаге.
	Start(userID int64)
	// Intro: текст, которым диалог открывается с кнопки или команды.
	Intro() string
	// Open открывает сессию по триггеру из каскада: если в тексте уже есть
	// данные для первого шага, они сразу обрабатываются, иначе: вступление.
	Open(ctx context.Context, userID int64, text string) string
	// Process продвигает сессию. ok=false: сессии нет.
	Process(ctx context.Context, userID int64, text string) (reply string, ok bool)
	HasActiveSession(userID int64) bool
	ClearSession(userID int64)
}

// Notifier: канал вызова оператора. Best-effort, ошибок не возвращает.
type Notifier interface {
	Notify(ctx context.Context, userID int64, problem string)
}

// RequestSink принимает завершённые заявки.
type RequestSink interface {
	SaveRequest(ctx context.Context, req Request) error
}

type RequestKind string

const (
	KindRefund        RequestKind = "refund"
	KindPartialRefund RequestKind = "partial_refund"
	KindWrongEvent    RequestKind = "wrong_event_refund"
	KindEmailChange   RequestKind = "email_change"
	KindRecovery      RequestKind = "ticket_recovery"
)

// Request: заявка, собранная диалогом.
type Request struct {
	ID           string
	Kind         RequestKind
	UserID       int64
	OrderNumber  string
	TicketNumber string
	Reason       string
	Phone        string
	Email        string
	CreatedAt    time.Time
}

// Deps: общие зависимости обработчиков. Нулевые поля заменяются заглушками.
type Deps struct {
	Phrases  *phrases.Source
	Notifier Notifier
	Requests RequestSink
	Now      func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Phrases == nil {
		d.Phrases = phrases.Static(phrases.Default())
	}
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Requests == nil {
		d.Requests = nopSink{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, int64, string) {}

type nopSink struct{}

func (nopSink) SaveRequest(context.Context, Request) error { return nil }
