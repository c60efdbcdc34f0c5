package dialog

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Vovarama1992/intickets-support/internal/phrases"
)

type PaymentData struct {
	OrderNumber string
	Method      PaymentMethod
	Time        *TimeExpr
	Problem     ProblemType
}

// merge дополняет накопленные данные новыми; новое значение поля побеждает.
func (d PaymentData) merge(n PaymentData) PaymentData {
	if n.OrderNumber != "" {
		d.OrderNumber = n.OrderNumber
	}
	if n.Method != "" {
		d.Method = n.Method
	}
	if n.Time != nil {
		d.Time = n.Time
	}
	if n.Problem != "" {
		d.Problem = n.Problem
	}
	return d
}

// Payment разбирает проблему с оплатой за один шаг: нужен номер заказа
// и хотя бы одно из (способ оплаты, время).
type Payment struct {
	base[PaymentData]
}

func NewPayment(store *Store[PaymentData], deps Deps) *Payment {
	h := &Payment{base: newBase("payment", StepWaitingDetails, store, deps)}
	h.steps = map[Step]stepFunc[PaymentData]{
		StepWaitingDetails: h.details,
	}
	return h
}

const paymentIntro = "💳 Проблема с оплатой\n\n" +
	"Чтобы мы могли помочь, опишите вашу проблему одним сообщением, указав:\n\n" +
	"• Номер заказа (6 цифр, например: 123456)\n\n" +
	"• Способ оплаты (карта/приложение/QR-код)\n\n" +
	"• Время оплаты (например: 30 минут назад, вчера, 25.12.2024)\n\n" +
	"• Описание проблемы:\n" +
	"- Деньги списались, статус заказа \"ожидает оплаты\"\n" +
	"- Двойное списание средств за один заказ.\n" +
	"- На email не пришел кассовый чек за оплаченный заказ\n" +
	"- Платеж не прошел, деньги вернулись на карту \n" +
	"- Не понятно, прошел ли платеж.\n" +
	"- Другое"

func (h *Payment) Intro() string { return paymentIntro }

// Open для оплаты всегда обрабатывает текст: триггер сам по себе и есть описание проблемы.
func (h *Payment) Open(ctx context.Context, userID int64, text string) string {
	if !h.HasActiveSession(userID) {
		h.Start(userID)
	}
	reply, _ := h.Process(ctx, userID, text)
	return reply
}

// Extract вынимает из сообщения всё, что относится к оплате.
func (h *Payment) Extract(text string) PaymentData {
	var d PaymentData
	d.OrderNumber, _ = ExtractOrderNumber(text)
	if te, ok := ExtractTime(text, h.deps.Now()); ok {
		d.Time = &te
	}
	d.Method, _ = ExtractPaymentMethod(text)
	d.Problem, _ = ClassifyPaymentProblem(text)
	return d
}

func (h *Payment) details(ctx context.Context, userID int64, sess *Session[PaymentData], text string) (string, bool) {
	sess.Data = sess.Data.merge(h.Extract(text))
	d := sess.Data

	log.Printf("[dialog] payment user=%d order=%q method=%q time=%v problem=%q",
		userID, d.OrderNumber, d.Method, d.Time != nil, d.Problem)

	if d.OrderNumber != "" && (d.Method != "" || d.Time != nil) {
		return h.solution(ctx, userID, d, text), true
	}
	return missingFieldsPrompt(d), false
}

func missingFieldsPrompt(d PaymentData) string {
	var missing []string
	if d.OrderNumber == "" {
		missing = append(missing, "номер заказа (6 цифр)")
	}
	if d.Method == "" {
		missing = append(missing, "способ оплаты")
	}
	if d.Time == nil {
		missing = append(missing, "время оплаты")
	}

	return "Уточните, пожалуйста:\n\n" +
		"Для решения проблемы нужен " + strings.Join(missing, " и ") + "\n\n" +
		"Пример правильного формата:\n" +
		"• Номер заказа: 123456 (ровно 6 цифр)\n" +
		"• Оплатил картой/приложением/QR-кодом\n" +
		"• Время оплаты: 30 минут назад, вчера, 25.12.2024"
}

type paymentSolution struct {
	problem ProblemType
	// фразы, повторно проверяемые по исходному сообщению
	recheck []string
	text    string
}

var paymentSolutions = []paymentSolution{
	{
		problem: ProblemDoubleCharge,
		recheck: []string{"дважды", "двойн", "два раза", "списалась дважды"},
		text: "⚠️ По заказу №%s обнаружено двойное списание\n\n" +
			"Проблема: Произошло двойное списание средств\n\n" +
			"💡 Решение:\n" +
			"• Один из платежей будет автоматически возвращен\n" +
			"• Возврат займет 3-5 рабочих дней\n" +
			"• Билеты активны по первому успешному платежу\n\n" +
			"📞 Для ускорения возврата обратитесь в поддержку\n" +
			"⏰ Возврат произойдет автоматически в течение 5 дней",
	},
	{
		problem: ProblemStatusPending,
		recheck: []string{"деньги списались", "статус ожидает оплаты", "статус не изменился"},
		text: "✅ По заказу №%s разобрался!\n\n" +
			"Проблема: Деньги списались, но статус не обновился\n\n" +
			"💡 Решение:\n" +
			"• Это временная задержка синхронизации (15-30 минут)\n" +
			"• Статус автоматически обновится\n" +
			"• Билеты придут после обновления статуса\n\n" +
			"⏰ Подождите еще 20 минут\n" +
			"📧 Проверьте email и папку «Спам»\n" +
			"🔄 Если не помогло - обратитесь в поддержку",
	},
	{
		problem: ProblemReceiptMissing,
		recheck: []string{"чек не пришел", "кассовый чек", "email не пришел"},
		text: "📧 По заказу №%s проблема с чеком\n\n" +
			"Проблема: Кассовый чек не пришел на email\n\n" +
			"💡 Решение:\n" +
			"• Чек отправляется отдельно от билетов\n" +
			"• Проверьте папку «Спам» и «Рассылки»\n" +
			"• Чек может прийти с задержкой до 2 часов\n\n" +
			"🔄 Чек будет отправлен повторно в течение часа\n" +
			"📞 Если не придет - обратитесь в поддержку",
	},
	{
		problem: ProblemPaymentFailed,
		recheck: []string{"платеж не прошел", "деньги вернулись", "сначала списались"},
		text: "🔄 По заказу №%s проблема с платежом\n\n" +
			"Проблема: Платеж не завершился, деньги вернулись\n\n" +
			"💡 Решение:\n" +
			"• Это временный холд (блокировка) средств\n" +
			"• Деньги автоматически разблокируются в течение 24 часов\n" +
			"• Повторите оплату через 30-60 минут\n\n" +
			"💳 Используйте тот же способ оплаты\n" +
			"⏰ Подождите разблокировки перед повторной оплатой",
	},
	{
		problem: ProblemUnclearStatus,
		recheck: []string{"ошибка в процессе оплаты", "не понятно прошел ли платеж", "ошибка при оплате"},
		text: "❓ По заказу №%s неясный статус платежа\n\n" +
			"Проблема: Непонятно, прошел ли платеж\n\n" +
			"💡 Решение:\n" +
			"• Проверьте историю операций в банковском приложении\n" +
			"• Подождите 15 минут для обновления статуса\n" +
			"• Если есть списание - платеж прошел\n\n" +
			"📱 Проверьте мобильное банковское приложение\n" +
			"⏰ Статус обновится в течение 15 минут\n" +
			"📞 Если сомнения остаются - обратитесь в поддержку",
	},
}

const paymentNeedsOperator = "🤔 По заказу №%s требуется уточнение\n\n" +
	"Я вижу, что вам нужна помощь, но проблема не совсем ясна.\n\n" +
	"📞 Подключаю оператора для детальной консультации\n" +
	"⏰ Ожидайте ответа в течение 2-5 минут\n\n" +
	"Оператор поможет:\n" +
	"• Разобраться с вашей конкретной ситуацией\n" +
	"• Проверить статус платежа в системе\n" +
	"• Предоставить персонализированное решение"

// solution строит ответ по категории проблемы. Просьба о помощи в самом
// сообщении важнее категории и уводит к оператору.
func (h *Payment) solution(ctx context.Context, userID int64, d PaymentData, text string) string {
	lower := phrases.Normalize(text)

	if h.deps.Phrases.Current().NeedsHelp(lower) {
		h.deps.Notifier.Notify(ctx, userID,
			fmt.Sprintf("Неясная проблема с оплатой заказа %s. Сообщение: %s", d.OrderNumber, text))
		return fmt.Sprintf(paymentNeedsOperator, d.OrderNumber)
	}

	for _, s := range paymentSolutions {
		if d.Problem == s.problem || phrases.ContainsAny(lower, s.recheck) {
			return fmt.Sprintf(s.text, d.OrderNumber) + "\n\n" + helpMore
		}
	}

	timeDesc := "неизвестно"
	if d.Time != nil {
		timeDesc = d.Time.Description
	}

	return fmt.Sprintf("✅ По заказу №%s разобрался!\n\n", d.OrderNumber) +
		"• Оплата через: " + d.Method.Label() + "\n" +
		"• Время оплаты: " + timeDesc + "\n" +
		"• Статус: Обрабатывается\n\n" +
		"💡 Рекомендации:\n" +
		"1️⃣ Подождите 15-20 минут\n" +
		"2️⃣ Проверьте email и папку «Спам»\n" +
		"3️⃣ Если статус не изменится - обратитесь в поддержку\n\n" +
		"Телефон поддержки: +7 (999) 123-45-67" +
		"\n\n" + helpMore
}
