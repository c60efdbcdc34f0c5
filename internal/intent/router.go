package intent

import (
	"context"
	"log"
	"math/rand"
	"strings"

	"github.com/Vovarama1992/intickets-support/internal/ai"
	"github.com/Vovarama1992/intickets-support/internal/dialog"
	"github.com/Vovarama1992/intickets-support/internal/orders"
	"github.com/Vovarama1992/intickets-support/internal/phrases"
)

// Assistant: последняя ступень каскада.
type Assistant interface {
	GetResponse(ctx context.Context, userID int64, text string, history []ai.Message) (string, error)
	ClearContext(ctx context.Context, userID int64)
}

// Typer показывает пользователю «печатает» перед медленным ответом.
type Typer interface {
	Typing(ctx context.Context, userID int64)
}

// Message: входящее сообщение в том виде, в каком его видят классификаторы.
type Message struct {
	UserID  int64
	Text    string
	Lower   string
	History []ai.Message

	phrases *phrases.Set
}

// Classifier: одна ступень каскада. Handle может отказаться (ok=false),
// тогда каскад идёт дальше.
type Classifier interface {
	Name() string
	Match(m *Message) bool
	Handle(ctx context.Context, m *Message) (reply Reply, ok bool)
}

// Handlers: семь диалогов, каждый со своим хранилищем сессий.
type Handlers struct {
	Payment       *dialog.Payment
	Refund        *dialog.Refund
	PartialRefund *dialog.PartialRefund
	WrongEvent    *dialog.WrongEventRefund
	EmailChange   *dialog.EmailChange
	Recovery      *dialog.TicketRecovery
	Operator      *dialog.Operator
}

func NewHandlers(deps dialog.Deps) Handlers {
	return Handlers{
		Payment:       dialog.NewPayment(nil, deps),
		Refund:        dialog.NewRefund(nil, deps),
		PartialRefund: dialog.NewPartialRefund(nil, deps),
		WrongEvent:    dialog.NewWrongEventRefund(nil, deps),
		EmailChange:   dialog.NewEmailChange(nil, deps),
		Recovery:      dialog.NewTicketRecovery(nil, deps),
		Operator:      dialog.NewOperator(nil, deps),
	}
}

// byPriority: порядок проверки активных сессий.
func (h Handlers) byPriority() []dialog.Handler {
	return []dialog.Handler{
		h.Operator,
		h.Recovery,
		h.WrongEvent,
		h.EmailChange,
		h.PartialRefund,
		h.Refund,
		h.Payment,
	}
}

type Config struct {
	Phrases   *phrases.Source
	Handlers  Handlers
	Orders    *orders.Catalog
	Assistant Assistant
	Notifier  dialog.Notifier
	Typer     Typer
}

// Router прогоняет сообщение через фиксированный список классификаторов.
type Router struct {
	phrases   *phrases.Source
	handlers  Handlers
	sessions  []dialog.Handler
	orders    *orders.Catalog
	assistant Assistant
	notifier  dialog.Notifier
	typer     Typer
	pick      func(n int) int

	commands map[string]func(ctx context.Context, m *Message) Reply
	stages   []Classifier
}

func NewRouter(cfg Config) *Router {
	if cfg.Phrases == nil {
		cfg.Phrases = phrases.Static(phrases.Default())
	}
	if cfg.Orders == nil {
		cfg.Orders = orders.NewCatalog()
	}
	if cfg.Handlers.Payment == nil {
		cfg.Handlers = NewHandlers(dialog.Deps{Phrases: cfg.Phrases, Notifier: cfg.Notifier})
	}

	r := &Router{
		phrases:   cfg.Phrases,
		handlers:  cfg.Handlers,
		sessions:  cfg.Handlers.byPriority(),
		orders:    cfg.Orders,
		assistant: cfg.Assistant,
		notifier:  cfg.Notifier,
		typer:     cfg.Typer,
		pick:      rand.Intn,
	}
	r.commands = r.buildCommands()
	r.stages = r.buildStages()
	return r
}

// Stages: имена ступеней в порядке проверки.
func (r *Router) Stages() []string {
	names := make([]string, len(r.stages))
	for i, s := range r.stages {
		names[i] = s.Name()
	}
	return names
}

func (r *Router) newMessage(userID int64, text string, history []ai.Message) *Message {
	return &Message{
		UserID:  userID,
		Text:    text,
		Lower:   phrases.Normalize(text),
		History: history,
		phrases: r.phrases.Current(),
	}
}

// Classify возвращает имя первой ступени, чей Match срабатывает. Без побочных эффектов.
func (r *Router) Classify(userID int64, text string) string {
	m := r.newMessage(userID, text, nil)
	for _, s := range r.stages {
		if s.Match(m) {
			return s.Name()
		}
	}
	return ""
}

// Route обрабатывает одно сообщение пользователя.
func (r *Router) Route(ctx context.Context, userID int64, text string, history []ai.Message) Reply {
	m := r.newMessage(userID, text, history)

	for _, s := range r.stages {
		if !s.Match(m) {
			continue
		}
		reply, ok := s.Handle(ctx, m)
		if !ok {
			log.Printf("[router] user=%d stage=%s declined", userID, s.Name())
			continue
		}
		log.Printf("[router] user=%d stage=%s", userID, s.Name())
		return reply
	}

	return mainReply(notUnderstoodText)
}

// Restart очищает все сессии пользователя и контекст ассистента.
func (r *Router) Restart(ctx context.Context, userID int64) {
	for _, h := range r.sessions {
		h.ClearSession(userID)
	}
	if r.assistant != nil {
		r.assistant.ClearContext(ctx, userID)
	}
	log.Printf("[router] user=%d restarted", userID)
}

func (r *Router) notify(ctx context.Context, userID int64, problem string) {
	if r.notifier != nil {
		r.notifier.Notify(ctx, userID, problem)
	}
}

func (r *Router) typing(ctx context.Context, userID int64) {
	if r.typer != nil {
		r.typer.Typing(ctx, userID)
	}
}

// commandKey приводит «/start@bot» к «/start».
func commandKey(text string) string {
	key := strings.TrimSpace(text)
	if strings.HasPrefix(key, "/") {
		if i := strings.IndexByte(key, '@'); i > 0 {
			key = key[:i]
		}
		key = strings.ToLower(key)
	}
	return key
}
