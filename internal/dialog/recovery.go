package dialog

import (
	"context"
	"strings"
)

type RecoveryData struct {
	Contacts Contacts
}

// TicketRecovery: повторная отправка билетов по номеру заказа, телефону или email.
type TicketRecovery struct {
	base[RecoveryData]
}

func NewTicketRecovery(store *Store[RecoveryData], deps Deps) *TicketRecovery {
	h := &TicketRecovery{base: newBase("ticket_recovery", StepWaitingContactInfo, store, deps)}
	h.steps = map[Step]stepFunc[RecoveryData]{
		StepWaitingContactInfo: h.contactInfo,
	}
	return h
}

const recoveryIntro = "📧 Проблемы с билетами\n\n" +
	"🔍 Сначала попробуйте восстановить билеты самостоятельно:\n" +
	"1. Зайдите на сайт Intickets.ru\n" +
	"2. Перейдите во вкладку Для зрителей\n" +
	"3. Воспользуйтесь сервисом восстановления билетов\n\n" +
	"---\n\n" +
	"🔄 Если не получилось восстановить билеты:\n" +
	"Для повторной отправки билетов укажите:\n\n" +
	"• Номер заказа (6 цифр) ИЛИ\n" +
	"• Номер телефона, который использовали при заказе ИЛИ\n" +
	"• Email, на который покупали билеты\n\n" +
	"✅ Пример номера заказа: 123456\n" +
	"✅ Пример телефона: +7 (912) 345-67-89\n" +
	"✅ Пример email: example@mail.ru\n\n" +
	"Билеты будут отправлены повторно в течение 15 минут!"

func (h *TicketRecovery) Intro() string { return recoveryIntro }

func (h *TicketRecovery) Open(ctx context.Context, userID int64, text string) string {
	has := !ExtractContacts(text, true).Empty()
	return h.openWith(ctx, userID, text, recoveryIntro, has)
}

func (h *TicketRecovery) contactInfo(ctx context.Context, userID int64, sess *Session[RecoveryData], text string) (string, bool) {
	c := ExtractContacts(text, true)
	if c.Empty() {
		return "Не удалось распознать контактные данные. Пожалуйста, укажите:\n\n" +
			"• Номер заказа (6 цифр) ИЛИ\n" +
			"• Номер телефона ИЛИ\n" +
			"• Email\n\n" +
			"Пример: 123456, +79123456789 или example@mail.ru", false
	}
	sess.Data.Contacts = c

	var found []string
	if c.OrderNumber != "" {
		found = append(found, "номеру заказа: "+c.OrderNumber)
	}
	if c.Phone != "" {
		found = append(found, "номеру телефона: "+FormatPhone(c.Phone))
	}
	if c.Email != "" {
		found = append(found, "email: "+c.Email)
	}

	submit(ctx, h.deps, Request{
		Kind:        KindRecovery,
		UserID:      userID,
		OrderNumber: c.OrderNumber,
		Phone:       c.Phone,
		Email:       c.Email,
	})

	return "✅ Принято! Ищем ваши билеты по " + strings.Join(found, ", ") + "\n\n" +
		"🔍 Проверяем в системе...\n\n" +
		"Что проверяем:\n" +
		"• Статус отправки билетов\n" +
		"• Корректность email-адреса\n" +
		"• Время отправки\n\n" +
		"✅ Билеты отправлены на указанный email адрес\n" +
		"📧 Проверьте папку «Спам», если не нашли письмо", true
}
