package dialog

import (
	"context"
	"strings"
)

type OperatorData struct {
	ProblemDescription string
}

// Operator собирает описание проблемы и передаёт его оператору.
type Operator struct {
	base[OperatorData]
}

func NewOperator(store *Store[OperatorData], deps Deps) *Operator {
	h := &Operator{base: newBase("operator", StepWaitingProblem, store, deps)}
	h.steps = map[Step]stepFunc[OperatorData]{
		StepWaitingProblem: h.problem,
	}
	return h
}

const operatorIntro = "📞 Связь с оператором\n\n" +
	"Пожалуйста, опишите вашу проблему подробнее, чтобы оператор мог быстрее вам помочь:\n\n" +
	"• Что именно произошло?\n" +
	"• Номер заказа (если есть)\n" +
	"• Какая помощь требуется?\n\n" +
	"Опишите проблему одним сообщением:"

func (h *Operator) Intro() string { return operatorIntro }

// Open всегда отвечает вступлением: текст вызова описанием проблемы не считается.
func (h *Operator) Open(ctx context.Context, userID int64, text string) string {
	return h.openWith(ctx, userID, text, operatorIntro, false)
}

func (h *Operator) problem(ctx context.Context, userID int64, sess *Session[OperatorData], text string) (string, bool) {
	if IsGibberish(text) {
		return "Не совсем понял ваш запрос. Пожалуйста, опишите вашу проблему более подробно и понятно.\n\n" +
			"Пример: 'У меня проблема с оплатой заказа 123456' или 'Не пришли билеты на email'", false
	}

	sess.Data.ProblemDescription = strings.TrimSpace(text)
	h.deps.Notifier.Notify(ctx, userID, sess.Data.ProblemDescription)

	return "Оператор уведомлен. Ожидайте подключения в течение 2-5 минут. ⏰", true
}
