package intent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/Vovarama1992/intickets-support/internal/dialog"
)

// stage: Classifier из пары функций.
type stage struct {
	name   string
	match  func(m *Message) bool
	handle func(ctx context.Context, m *Message) (Reply, bool)
}

func (s stage) Name() string          { return s.name }
func (s stage) Match(m *Message) bool { return s.match(m) }

func (s stage) Handle(ctx context.Context, m *Message) (Reply, bool) {
	return s.handle(ctx, m)
}

// answer: ступень, которая всегда отвечает текстом.
func answer(fn func(ctx context.Context, m *Message) Reply) func(context.Context, *Message) (Reply, bool) {
	return func(ctx context.Context, m *Message) (Reply, bool) {
		return fn(ctx, m), true
	}
}

// open: ступень, открывающая диалог и отдающая ему текущее сообщение.
func open(h dialog.Handler) func(context.Context, *Message) (Reply, bool) {
	return func(ctx context.Context, m *Message) (Reply, bool) {
		return mainReply(h.Open(ctx, m.UserID, m.Text)), true
	}
}

var bareOrderRe = regexp.MustCompile(`^\d{6}$`)

func (r *Router) buildStages() []Classifier {
	h := r.handlers

	return []Classifier{
		stage{
			name:   "command",
			match:  func(m *Message) bool { _, ok := r.commands[commandKey(m.Text)]; return ok },
			handle: answer(func(ctx context.Context, m *Message) Reply { return r.commands[commandKey(m.Text)](ctx, m) }),
		},
		stage{
			name:   "about",
			match:  func(m *Message) bool { return m.phrases.AsksAboutBot(m.Lower) },
			handle: answer(func(context.Context, *Message) Reply { return mainReply(aboutText) }),
		},
		stage{
			name:   "session",
			match:  func(m *Message) bool { return r.activeSession(m.UserID) != nil },
			handle: r.continueSession,
		},
		stage{
			name:  "thanks",
			match: func(m *Message) bool { return m.phrases.IsThanks(m.Lower) },
			handle: answer(func(context.Context, *Message) Reply {
				return mainReply(thanksReplies[r.pick(len(thanksReplies))])
			}),
		},
		stage{
			name:  "dissatisfaction",
			match: func(m *Message) bool { return m.phrases.IsDissatisfied(m.Lower) },
			handle: answer(func(ctx context.Context, m *Message) Reply {
				r.notify(ctx, m.UserID, "Недовольство: "+m.Text)
				return mainReply(dissatisfactionText)
			}),
		},
		stage{
			name:  "need_help",
			match: func(m *Message) bool { return m.phrases.NeedsHelp(m.Lower) },
			handle: answer(func(ctx context.Context, m *Message) Reply {
				r.notify(ctx, m.UserID, "Не может разобраться: "+m.Text)
				return mainReply(needHelpText)
			}),
		},
		stage{
			name:  "farewell",
			match: func(m *Message) bool { return m.phrases.IsFarewell(m.Lower) },
			handle: answer(func(context.Context, *Message) Reply {
				return mainReply(farewellReplies[r.pick(len(farewellReplies))])
			}),
		},
		stage{
			name:  "positive",
			match: func(m *Message) bool { return m.phrases.IsPositive(m.Lower) },
			handle: answer(func(context.Context, *Message) Reply {
				return mainReply(positiveReplies[r.pick(len(positiveReplies))])
			}),
		},
		stage{
			name:   "purchase",
			match:  func(m *Message) bool { return m.phrases.AsksPurchase(m.Lower) },
			handle: answer(func(context.Context, *Message) Reply { return mainReply(purchaseText) }),
		},
		stage{
			name:   "payment",
			match:  func(m *Message) bool { return m.phrases.MentionsPayment(m.Lower) },
			handle: open(h.Payment),
		},
		stage{
			name:   "refund",
			match:  func(m *Message) bool { return m.phrases.MentionsRefund(m.Lower) },
			handle: open(h.Refund),
		},
		stage{
			name:   "wrong_event",
			match:  func(m *Message) bool { return m.phrases.IsWrongEvent(m.Lower) },
			handle: open(h.WrongEvent),
		},
		stage{
			name:   "partial_refund",
			match:  func(m *Message) bool { return m.phrases.IsPartialRefund(m.Lower) },
			handle: open(h.PartialRefund),
		},
		stage{
			name:   "email_change",
			match:  func(m *Message) bool { return m.phrases.WantsEmailChange(m.Lower) },
			handle: open(h.EmailChange),
		},
		stage{
			name:   "ticket_problem",
			match:  func(m *Message) bool { return m.phrases.TicketProblem(m.Lower) },
			handle: open(h.Recovery),
		},
		stage{
			name:   "payment_problem",
			match:  func(m *Message) bool { return m.phrases.PaymentProblem(m.Lower) },
			handle: open(h.Payment),
		},
		stage{
			name:  "order_clarify",
			match: func(m *Message) bool { return bareOrderRe.MatchString(strings.TrimSpace(m.Text)) },
			handle: answer(func(_ context.Context, m *Message) Reply {
				return mainReply(fmt.Sprintf(clarifyOrderText, strings.TrimSpace(m.Text)))
			}),
		},
		stage{
			name:  "order_status",
			match: func(m *Message) bool { _, ok := dialog.ExtractOrderNumber(m.Text); return ok },
			handle: answer(func(_ context.Context, m *Message) Reply {
				number, _ := dialog.ExtractOrderNumber(m.Text)
				return mainReply(r.orders.Response(number))
			}),
		},
		stage{
			name:   "assistant",
			match:  func(*Message) bool { return true },
			handle: answer(r.askAssistant),
		},
	}
}

func (r *Router) activeSession(userID int64) dialog.Handler {
	for _, h := range r.sessions {
		if h.HasActiveSession(userID) {
			return h
		}
	}
	return nil
}

func (r *Router) continueSession(ctx context.Context, m *Message) (Reply, bool) {
	h := r.activeSession(m.UserID)
	if h == nil {
		return Reply{}, false
	}
	reply, ok := h.Process(ctx, m.UserID, m.Text)
	if !ok {
		return Reply{}, false
	}
	return mainReply(reply), true
}

func (r *Router) askAssistant(ctx context.Context, m *Message) Reply {
	if r.assistant == nil {
		return mainReply(notUnderstoodText)
	}

	r.typing(ctx, m.UserID)

	text, err := r.assistant.GetResponse(ctx, m.UserID, m.Text, m.History)
	if err != nil {
		log.Printf("[router] assistant user=%d: %v", m.UserID, err)
		return mainReply(notUnderstoodText)
	}
	return mainReply(text)
}

func (r *Router) buildCommands() map[string]func(ctx context.Context, m *Message) Reply {
	h := r.handlers

	restart := func(ctx context.Context, m *Message) Reply {
		r.Restart(ctx, m.UserID)
		return mainReply(restartText)
	}
	operator := func(kb Keyboard) func(context.Context, *Message) Reply {
		return func(_ context.Context, m *Message) Reply {
			h.Operator.Start(m.UserID)
			return Reply{Text: h.Operator.Intro(), Keyboard: kb}
		}
	}
	start := func(d dialog.Handler) func(context.Context, *Message) Reply {
		return func(_ context.Context, m *Message) Reply {
			d.Start(m.UserID)
			return mainReply(d.Intro())
		}
	}

	return map[string]func(ctx context.Context, m *Message) Reply{
		"/start":       func(context.Context, *Message) Reply { return mainReply(welcomeText) },
		"/restart":     restart,
		ButtonRestart:  restart,
		"/operator":    operator(KeyboardMain),
		ButtonOperator: operator(KeyboardHelp),
		ButtonPayment:  start(h.Payment),
		ButtonRefund:   start(h.Refund),
		ButtonRecovery: start(h.Recovery),
		ButtonPurchase: func(context.Context, *Message) Reply { return mainReply(purchaseText) },
		ButtonHelp:     func(context.Context, *Message) Reply { return helpReply(helpText) },
		ButtonSite:     func(context.Context, *Message) Reply { return helpReply(siteText) },
		ButtonBack:     func(context.Context, *Message) Reply { return mainReply(backText) },
	}
}
