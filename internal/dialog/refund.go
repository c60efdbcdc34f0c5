package dialog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Vovarama1992/intickets-support/internal/phrases"
)

type RefundData struct {
	OrderNumber string
	Reason      string
}

// Refund: номер заказа → причина → контакты.
type Refund struct {
	base[RefundData]
}

func NewRefund(store *Store[RefundData], deps Deps) *Refund {
	h := &Refund{base: newBase("refund", StepWaitingOrder, store, deps)}
	h.steps = map[Step]stepFunc[RefundData]{
		StepWaitingOrder:    h.order,
		StepWaitingReason:   h.reason,
		StepWaitingContacts: h.contacts,
	}
	return h
}

const refundIntro = "🔄 Возврат билетов\n\n" +
	"Для оформления возврата укажите, пожалуйста, номер вашего заказа (6 цифр).\n\n" +
	"Пример: 456321"

func (h *Refund) Intro() string { return refundIntro }

func (h *Refund) Open(ctx context.Context, userID int64, text string) string {
	_, has := ExtractOrderNumber(text)
	return h.openWith(ctx, userID, text, refundIntro, has)
}

func (h *Refund) order(_ context.Context, _ int64, sess *Session[RefundData], text string) (string, bool) {
	order, ok := ExtractOrderNumber(text)
	if !ok {
		return invalidOrderText, false
	}
	sess.Data.OrderNumber = order
	sess.Step = StepWaitingReason

	return "Теперь укажите причину возврата:\n\n" +
		"• Болезнь\n" +
		"• Изменение планов\n" +
		"• Отмена мероприятия\n" +
		"• Другая причина\n\n" +
		"Опишите подробнее, почему хотите вернуть билеты:", false
}

// refundPolicies: дополнительные условия к запросу контактов, по подстроке причины.
var refundPolicies = []struct {
	marker string
	text   string
}{
	{
		marker: "болезн",
		text: "🏥 Для возврата по болезни:\n" +
			"Пожалуйста, отправьте документы, подтверждающие болезнь, на нашу рабочую почту: info@intickets.ru\n\n" +
			"Подходящие документы:\n" +
			"• Справка от врача\n" +
			"• Больничный лист\n" +
			"• Выписка из медицинской карты\n\n" +
			"После получения документов мы обработаем ваш возврат в течение 24 часов.",
	},
	{
		marker: "изменение планов",
		text: "📅 Условия возврата при изменении планов:\n\n" +
			"Обратите внимание, что при возврате билетов действуют следующие условия:\n\n" +
			"• Менее, чем за 3 дня до начала мероприятия - деньги не возвращаются\n" +
			"• от 3 до 5 дней до начала мероприятия - возвращается 30% стоимости\n" +
			"• от 5 до 10 дней до начала мероприятия - возвращается 50% стоимости\n" +
			"• от 10 дней и более - возвращается 100% стоимости\n\n" +
			"Сроки рассчитываются от даты мероприятия.",
	},
	{
		marker: "отмена мероприятия",
		text: "❌ Возврат при отмене мероприятия:\n\n" +
			"Если мероприятие отменено:\n\n" +
			"✅ Автоматический возврат:\n" +
			"• Деньги вернутся на карту, с которой была оплата, в течение 5–10 рабочих дней.\n" +
			"• Уведомление придет на ваш email.\n" +
			"• Никаких дополнительных действий не требуется.",
	},
}

func (h *Refund) reason(_ context.Context, _ int64, sess *Session[RefundData], text string) (string, bool) {
	sess.Data.Reason = text
	sess.Step = StepWaitingContacts

	reply := askContactsText
	lower := phrases.Normalize(strings.TrimSpace(text))
	for _, p := range refundPolicies {
		if strings.Contains(lower, p.marker) {
			reply += "\n\n" + p.text
			break
		}
	}
	return reply, false
}

func (h *Refund) contacts(ctx context.Context, userID int64, sess *Session[RefundData], text string) (string, bool) {
	c := ExtractContacts(text, true)
	if c.Empty() {
		return invalidContactsText, false
	}

	d := sess.Data
	submit(ctx, h.deps, Request{
		Kind:        KindRefund,
		UserID:      userID,
		OrderNumber: d.OrderNumber,
		Reason:      d.Reason,
		Phone:       c.Phone,
		Email:       c.Email,
	})

	return "Заявка на возврат принята!\n\n" +
		"Детали заявки:\n" +
		"• Номер заказа: " + orDefault(d.OrderNumber, "неизвестен") + "\n" +
		"• Причина возврата: " + orDefault(d.Reason, "не указана") + "\n" +
		"• Контактные данные: " + ContactsDisplay(c) + "\n\n" +
		requestFooter + urgentContact + helpMore, true
}

type PartialRefundData struct {
	OrderNumber  string
	TicketNumber string
	Reason       string
}

// PartialRefund: заказ, билет и причина одним сообщением → контакты.
type PartialRefund struct {
	base[PartialRefundData]
}

func NewPartialRefund(store *Store[PartialRefundData], deps Deps) *PartialRefund {
	h := &PartialRefund{base: newBase("partial_refund", StepWaitingTicket, store, deps)}
	h.steps = map[Step]stepFunc[PartialRefundData]{
		StepWaitingTicket:   h.ticketDetails,
		StepWaitingContacts: h.contacts,
	}
	return h
}

const partialRefundIntro = "🔄 Возврат одного билета из заказа\n\n" +
	"Да, можно вернуть только один билет из заказа!\n\n" +
	"Для оформления возврата укажите:\n\n" +
	"1️⃣ Номер заказа (6 цифр)\n" +
	"2️⃣ Номер или описание возвращаемого билета\n" +
	"3️⃣ Причину возврата\n\n" +
	"Пример:\n" +
	"Заказ 123456, билет 323243, по болезни\n\n" +
	"Пожалуйста, введите данные:"

func (h *PartialRefund) Intro() string { return partialRefundIntro }

func (h *PartialRefund) Open(ctx context.Context, userID int64, text string) string {
	_, has := ExtractOrderNumber(text)
	return h.openWith(ctx, userID, text, partialRefundIntro, has)
}

func (h *PartialRefund) ticketDetails(_ context.Context, _ int64, sess *Session[PartialRefundData], text string) (string, bool) {
	order, ok := ExtractOrderNumber(text)
	if !ok {
		return invalidOrderText, false
	}

	lower := phrases.Normalize(text)
	sess.Data.OrderNumber = order
	sess.Data.TicketNumber, _ = ExtractTicketNumber(lower)
	sess.Data.Reason = partialReason(lower, order)
	sess.Step = StepWaitingContacts

	return fmt.Sprintf("Заявка на возврат одного билета из заказа №%s принята!\n\n", order) + askContactsText, false
}

var ticketRefRe = regexp.MustCompile(`(?:билет|билета|номер)\s*\d+`)

const maxReasonRunes = 50

// partialReason сводит текст к одной из известных причин, иначе берёт сам текст без номеров.
func partialReason(lower, order string) string {
	switch {
	case strings.Contains(lower, "болезн"):
		return "Болезнь"
	case strings.Contains(lower, "изменение планов"):
		return "Изменение планов"
	case strings.Contains(lower, "отмена мероприятия"):
		return "Отмена мероприятия"
	case strings.Contains(lower, "ошибк"):
		return "Ошибка при покупке"
	}

	clean := ticketRefRe.ReplaceAllString(lower, "")
	clean = strings.Replace(clean, order, "", 1)
	clean = strings.Trim(clean, " ,.;:\t\n")

	if r := []rune(clean); len(r) > maxReasonRunes {
		return string(r[:maxReasonRunes]) + "..."
	}
	return clean
}

func (h *PartialRefund) contacts(ctx context.Context, userID int64, sess *Session[PartialRefundData], text string) (string, bool) {
	c := ExtractContacts(text, true)
	if c.Empty() {
		return invalidContactsText, false
	}

	d := sess.Data
	submit(ctx, h.deps, Request{
		Kind:         KindPartialRefund,
		UserID:       userID,
		OrderNumber:  orDefault(d.OrderNumber, c.OrderNumber),
		TicketNumber: d.TicketNumber,
		Reason:       d.Reason,
		Phone:        c.Phone,
		Email:        c.Email,
	})

	return "✅ Заявка на возврат одного билета принята!\n\n" +
		"Детали заявки:\n" +
		"• Номер заказа: " + orDefault(d.OrderNumber, "неизвестен") + "\n" +
		"• Возвращаемый билет: " + orDefault(d.TicketNumber, "не указан") + "\n" +
		"• Причина возврата: " + orDefault(d.Reason, "не указана") + "\n" +
		"• Контактные данные: " + ContactsDisplay(c) + "\n\n" +
		requestFooter + urgentContact + helpMore, true
}

type WrongEventData struct {
	OrderNumber string
}

// WrongEventRefund: возврат билетов, купленных не на то мероприятие.
type WrongEventRefund struct {
	base[WrongEventData]
}

func NewWrongEventRefund(store *Store[WrongEventData], deps Deps) *WrongEventRefund {
	h := &WrongEventRefund{base: newBase("wrong_event_refund", StepWaitingOrder, store, deps)}
	h.steps = map[Step]stepFunc[WrongEventData]{
		StepWaitingOrder:    h.order,
		StepWaitingContacts: h.contacts,
	}
	return h
}

const wrongEventIntro = "🔄 Покупка на другое мероприятие по ошибке\n\n" +
	"Понимаю ситуацию! Вот что можно сделать:\n\n" +
	"✅ Вариант 1 - Возврат и новая покупка:\n" +
	"1. Оформите возврат ошибочных билетов\n" +
	"2. Дождитесь подтверждения возврата\n" +
	"3. Купите билеты на нужное мероприятие\n\n" +
	"✅ Вариант 2 - Обмен через оператора:\n" +
	"• Подключу оператора для решения вопроса\n" +
	"• Возможен обмен на другое мероприятие\n" +
	"• При наличии свободных мест\n\n" +
	"Рекомендую оформить возврат:\n" +
	"• Укажите номер заказа (6 цифр)\n" +
	"• Затем укажите контактные данные\n\n" +
	"Пожалуйста, введите номер заказа:"

func (h *WrongEventRefund) Intro() string { return wrongEventIntro }

func (h *WrongEventRefund) Open(ctx context.Context, userID int64, text string) string {
	_, has := ExtractOrderNumber(text)
	return h.openWith(ctx, userID, text, wrongEventIntro, has)
}

func (h *WrongEventRefund) order(_ context.Context, _ int64, sess *Session[WrongEventData], text string) (string, bool) {
	order, ok := ExtractOrderNumber(text)
	if !ok {
		return invalidOrderText, false
	}
	sess.Data.OrderNumber = order
	sess.Step = StepWaitingContacts

	return fmt.Sprintf("✅ Заказ №%s принят для возврата ошибочных билетов!\n\n", order) +
		askContactsText + "\n\nПожалуйста, введите контактные данные:", false
}

func (h *WrongEventRefund) contacts(ctx context.Context, userID int64, sess *Session[WrongEventData], text string) (string, bool) {
	c := ExtractContacts(text, true)
	if c.Empty() {
		return invalidContactsText, false
	}

	const reason = "Покупка на другое мероприятие по ошибке"
	d := sess.Data
	submit(ctx, h.deps, Request{
		Kind:        KindWrongEvent,
		UserID:      userID,
		OrderNumber: d.OrderNumber,
		Reason:      reason,
		Phone:       c.Phone,
		Email:       c.Email,
	})

	return "✅ Заявка на возврат ошибочных билетов принята!\n\n" +
		"Детали заявки:\n" +
		"• Номер заказа: " + orDefault(d.OrderNumber, "неизвестен") + "\n" +
		"• Причина возврата: " + reason + "\n" +
		"• Контактные данные: " + ContactsDisplay(c) + "\n\n" +
		requestFooter +
		"После возврата вы сможете купить билеты на нужное мероприятие!\n\n" +
		urgentContact + helpMore, true
}
