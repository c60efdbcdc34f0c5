package dialog

import (
	"fmt"
	"math/rand"
	"strings"
)

// FormatPhone приводит номер к виду +7 (XXX) XXX-XX-XX.
// Неизвестный формат возвращается без изменений.
func FormatPhone(raw string) string {
	p := CleanPhone(raw)
	switch {
	case len(p) == 11 && (p[0] == '7' || p[0] == '8'):
		return fmt.Sprintf("+7 (%s) %s-%s-%s", p[1:4], p[4:7], p[7:9], p[9:])
	case len(p) == 10:
		return fmt.Sprintf("+7 (%s) %s-%s-%s", p[0:3], p[3:6], p[6:8], p[8:])
	default:
		return raw
	}
}

// ContactsDisplay: «Телефон: ..., Email: ...» для итоговой заявки.
// Номер заказа показывается, только если это единственный контакт.
func ContactsDisplay(c Contacts) string {
	parts := make([]string, 0, 2)
	if c.Phone != "" {
		parts = append(parts, "Телефон: "+FormatPhone(c.Phone))
	}
	if c.Email != "" {
		parts = append(parts, "Email: "+c.Email)
	}
	if len(parts) == 0 && c.OrderNumber != "" {
		parts = append(parts, "Номер заказа: "+c.OrderNumber)
	}
	return strings.Join(parts, ", ")
}

// Pick выбирает одну из равнозначных формулировок.
func Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[rand.Intn(len(options))]
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

const helpMore = "Нужна помощь с чем-то еще?"

const invalidOrderText = "Неверный номер заказа!\n\n" +
	"Номер заказа должен состоять из 6 цифр.\n" +
	"Пожалуйста, введите правильный номер заказа:"

const contactExamples = "Примеры телефонов:\n" +
	"• 89991234567\n" +
	"• +7 (999) 123-45-67\n" +
	"• 8(999)123-45-67\n\n" +
	"Пример email:\n" +
	"• example@mail.ru"

const askContactsText = "Теперь укажите ваши контактные данные:\n\n" +
	"• Номер телефона (российский формат)\n" +
	"• Email для связи\n\n" +
	contactExamples

const invalidContactsText = "Не удалось распознать валидные контактные данные.\n\n" +
	"Пожалуйста, укажите:\n" +
	"• Российский номер телефона (10-11 цифр)\n" +
	"• Или email адрес\n\n" +
	contactExamples + "\n\n" +
	"Пожалуйста, введите контактные данные в правильном формате:"

// requestFooter: общий хвост заявок на возврат.
const requestFooter = "Что дальше:\n" +
	"⏰ Ожидайте звонка от специалиста в течение 24 часов\n" +
	"📧 Или письмо на указанный email\n" +
	"💰 Возврат денег займет до 10 рабочих дней\n\n"

const urgentContact = "Для срочных вопросов: +7 (999) 123-45-67\n\n"
