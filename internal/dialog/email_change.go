package dialog

import (
	"context"
	"fmt"
	"strings"
)

type EmailChangeData struct {
	OrderNumber string
	NewEmail    string
}

// EmailChange: номер заказа → новый email.
type EmailChange struct {
	base[EmailChangeData]
}

func NewEmailChange(store *Store[EmailChangeData], deps Deps) *EmailChange {
	h := &EmailChange{base: newBase("email_change", StepWaitingOrder, store, deps)}
	h.steps = map[Step]stepFunc[EmailChangeData]{
		StepWaitingOrder:    h.order,
		StepWaitingNewEmail: h.newEmail,
	}
	return h
}

const emailChangeIntro = "📧 Изменение email для получения билетов\n\n" +
	"Да, можно изменить email!\n\n" +
	"Для смены email укажите:\n\n" +
	"1️⃣ Номер заказа (6 цифр)\n" +
	"2️⃣ Новый email адрес\n\n" +
	"Пример:\n" +
	"Заказ 123456, новый email example@mail.ru\n\n" +
	"Пожалуйста, введите номер заказа:"

const emailExamples = "Примеры:\n" +
	"• example@mail.ru\n" +
	"• myemail@gmail.com\n" +
	"• name@yandex.ru\n\n"

func (h *EmailChange) Intro() string { return emailChangeIntro }

func (h *EmailChange) Open(ctx context.Context, userID int64, text string) string {
	_, has := ExtractOrderNumber(text)
	return h.openWith(ctx, userID, text, emailChangeIntro, has)
}

func (h *EmailChange) order(_ context.Context, _ int64, sess *Session[EmailChangeData], text string) (string, bool) {
	order, ok := ExtractOrderNumber(text)
	if !ok {
		return invalidOrderText, false
	}
	sess.Data.OrderNumber = order
	sess.Step = StepWaitingNewEmail

	return fmt.Sprintf("Заказ №%s принят для смены email\n\n", order) +
		"Теперь укажите новый email адрес:\n\n" +
		emailExamples +
		"Пожалуйста, введите новый email:", false
}

// newEmail принимает только сообщение, целиком являющееся адресом.
func (h *EmailChange) newEmail(ctx context.Context, userID int64, sess *Session[EmailChangeData], text string) (string, bool) {
	email := strings.TrimSpace(text)
	if !IsValidEmail(email) {
		return "Неверный формат email!\n\n" +
			"Пожалуйста, введите корректный email адрес:\n\n" +
			emailExamples +
			"Введите email еще раз:", false
	}

	sess.Data.NewEmail = email
	order := orDefault(sess.Data.OrderNumber, "неизвестен")

	submit(ctx, h.deps, Request{
		Kind:        KindEmailChange,
		UserID:      userID,
		OrderNumber: sess.Data.OrderNumber,
		Email:       email,
	})

	return "✅ Email успешно изменен!\n\n" +
		"Детали изменения:\n" +
		"• Номер заказа: " + order + "\n" +
		"• Новый email: " + email + "\n\n" +
		"Что дальше:\n" +
		"📧 Билеты будут отправлены на новый адрес в течение 15 минут\n" +
		"🔄 Старые билеты (если отправлены) станут недействительными\n" +
		"✅ Новые билеты придут на указанный email\n\n" +
		"Если билеты не пришли в течение 30 минут:\n" +
		"• Проверьте папку «Спам»\n" +
		"• Убедитесь в правильности email\n" +
		"• Обратитесь к оператору\n\n" +
		helpMore, true
}
