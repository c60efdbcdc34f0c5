package ai

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/Vovarama1992/intickets-support/internal/dialog"
	"github.com/Vovarama1992/intickets-support/internal/phrases"
)

const requestTimeout = 30 * time.Second

const systemPrompt = "Ты - AI-помощник службы поддержки Intickets. Отвечай вежливо и профессионально.\n" +
	"Если не знаешь ответа - предложи подключить оператора.\n" +
	"При недовольстве клиента сразу извинись и предложи оператора."

// Assistant отвечает на последней ступени каскада: контекст оплаты, приветствия,
// быстрые ответы и только потом запрос к модели.
type Assistant struct {
	llm      LLM
	contexts ContextStore
	now      func() time.Time
	pick     func(n int) int
}

func NewAssistant(llm LLM, contexts ContextStore) *Assistant {
	if contexts == nil {
		contexts = NewMemoryStore()
	}
	return &Assistant{
		llm:      llm,
		contexts: contexts,
		now:      time.Now,
		pick:     rand.Intn,
	}
}

// GetResponse возвращает ответ или ошибку; ошибка значит «ответа нет»,
// вызывающий подставляет своё сообщение.
func (a *Assistant) GetResponse(ctx context.Context, userID int64, text string, history []Message) (string, error) {
	a.contexts.PurgeExpired(ctx, a.now())

	if reply, ok := a.continueContext(ctx, userID, text); ok {
		return reply, nil
	}

	if reply, ok := a.greeting(text); ok {
		return reply, nil
	}

	if reply, ok := a.quickResponse(ctx, userID, text); ok {
		return reply, nil
	}

	if a.llm == nil {
		return "", ErrEmptyReply
	}

	log.Printf("[ai] request user=%d text=%q", userID, short(text))

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	reply, err := a.llm.GetReply(reqCtx, systemPrompt, history, text)
	if err != nil {
		return "", fmt.Errorf("llm reply: %w", err)
	}
	return reply, nil
}

// ClearContext сбрасывает контекст пользователя (перезапуск).
func (a *Assistant) ClearContext(ctx context.Context, userID int64) {
	if err := a.contexts.Delete(ctx, userID); err != nil {
		log.Printf("[ai] clear context user=%d: %v", userID, err)
	}
}

func (a *Assistant) continueContext(ctx context.Context, userID int64, text string) (string, bool) {
	uc, err := a.contexts.Get(ctx, userID)
	if err != nil {
		log.Printf("[ai] load context user=%d: %v", userID, err)
		return "", false
	}
	if uc == nil || uc.Type != ContextPaymentIssue {
		return "", false
	}

	facts := mergeFacts(uc.Data, a.extractFacts(text))
	log.Printf("[ai] payment context user=%d order=%q method=%q time=%v",
		userID, facts.OrderNumber, facts.Method, facts.Time != nil)

	if facts.known() >= 2 {
		a.ClearContext(ctx, userID)
		return paymentSolution(facts), true
	}

	uc.Data = facts
	if err := a.contexts.Save(ctx, userID, *uc); err != nil {
		log.Printf("[ai] save context user=%d: %v", userID, err)
	}
	return missingFacts(facts), true
}

func (a *Assistant) extractFacts(text string) PaymentFacts {
	var f PaymentFacts
	f.OrderNumber, _ = dialog.ExtractOrderNumber(text)
	f.Method, _ = dialog.ExtractPaymentMethod(text)
	if te, ok := dialog.ExtractTime(text, a.now()); ok {
		f.Time = &te
	}
	return f
}

func mergeFacts(old, n PaymentFacts) PaymentFacts {
	if n.OrderNumber != "" {
		old.OrderNumber = n.OrderNumber
	}
	if n.Method != "" {
		old.Method = n.Method
	}
	if n.Time != nil {
		old.Time = n.Time
	}
	return old
}

func (f PaymentFacts) known() int {
	n := 0
	if f.OrderNumber != "" {
		n++
	}
	if f.Method != "" {
		n++
	}
	if f.Time != nil {
		n++
	}
	return n
}

func paymentSolution(f PaymentFacts) string {
	timeDesc := "30 минут"
	if f.Time != nil {
		timeDesc = f.Time.Description
	}
	order := f.OrderNumber
	if order == "" {
		order = "неизвестен"
	}

	return "✅ Отлично, разобрался!\n\n" +
		"По вашему заказу №" + order + ":\n" +
		"• Оплата через: " + f.Method.Label() + "\n" +
		"• Время оплаты: " + timeDesc + "\n" +
		"• Деньги списались\n\n" +
		"Рекомендую:\n" +
		"1️⃣ Подождите еще 15-20 минут - иногда бывают задержки\n" +
		"2️⃣ Проверьте email - должно прийти подтверждение\n" +
		"3️⃣ Если статус не изменится - обратитесь в поддержку\n\n" +
		"📞 Телефон поддержки: +7 (999) 123-45-67\n" +
		"⏰ Время работы: 9:00-21:00\n\n" +
		"Нужна помощь с чем-то еще?"
}

func missingFacts(f PaymentFacts) string {
	var missing []string
	if f.OrderNumber == "" {
		missing = append(missing, "номер заказа")
	}
	if f.Method == "" {
		missing = append(missing, "способ оплаты")
	}
	if f.Time == nil {
		missing = append(missing, "время оплаты")
	}

	return "🔍 Уточните, пожалуйста:\n\n" +
		"Для решения проблемы нужен " + strings.Join(missing, " и ") + "\n\n" +
		"Например:\n" +
		"• Номер заказа: 123456\n" +
		"• Оплатил картой/приложением/QR-кодом\n" +
		"• Время оплаты: 30 минут назад"
}

var greetingWords = []string{
	"привет", "здравствуй", "добрый", "hello", "hi", "начать",
	"здравствуйте", "добрый день", "доброе утро", "добрый вечер",
	"здрасьте", "приветствую", "доброго времени",
}

var greetingReplies = []string{
	"🎭 Добро пожаловать в поддержку Intickets! Я ваш AI-помощник. Чем могу помочь?",
	"👋 Здравствуйте! Я помощник по билетам и мероприятиям. Задайте ваш вопрос!",
	"✨ Приветствую! Готов помочь с билетами, мероприятиями и ответить на вопросы.",
}

// greeting срабатывает, если приветствия составляют хотя бы половину слов.
func (a *Assistant) greeting(text string) (string, bool) {
	words := strings.Fields(phrases.Normalize(text))
	if len(words) == 0 {
		return "", false
	}

	hits := 0
	for _, w := range words {
		for _, g := range greetingWords {
			if strings.Contains(w, g) {
				hits++
				break
			}
		}
	}
	if hits == 0 || hits*2 < len(words) {
		return "", false
	}
	return greetingReplies[a.pick(len(greetingReplies))], true
}

var (
	paymentWords  = []string{"оплат", "платеж", "деньг", "списал", "не прошел", "завис", "платил", "оплатил"}
	problemWords  = []string{"проблем", "не работ", "ошибк", "сломал", "не меняется"}
	thankfulWords = []string{"спасибо", "благодарю", "помог", "сработало", "получилось", "thanks", "решилось"}
)

var thankfulReplies = []string{
	"🎉 Рад был помочь! Обращайтесь, если нужна помощь!",
	"✅ Отлично! Если что-то ещё понадобится - я здесь!",
	"🤝 Пожалуйста! Хорошего дня и приятного мероприятия!",
}

// порядок важен: первое совпадение по подстроке выигрывает
var quickReplies = []struct {
	keyword string
	reply   string
}{
	{"билеты", "💰 Билеты доступны на сайте. Какое мероприятие вас интересует?"},
	{"купить билет", "💳 Для покупки билетов выберите мероприятие на сайте и следуйте инструкциям"},
	{"помощь", "🔧 Расскажите о вашей проблеме, и я постараюсь помочь!"},
	{"вернуть билет", "🔄 Возврат возможен за 3 дня до мероприятия. Напишите номер заказа."},
	{"не пришел билет", "📧 Проверьте папку 'Спам'. Если нет - напишите номер заказа."},
	{"оплата", "💳 Принимаем карты, электронные кошельки. Какая проблема с оплатой?"},
	{"контакты", "📞 Support: support@intickets.ru, +7 (999) 123-45-67"},
	{"сайт", "🌐 Наш сайт: https://intickets.ru"},
}

const paymentHelp = "💳 Помощь с оплатой:\n\n" +
	"Частые проблемы и решения:\n\n" +
	"✅ Платеж не прошел:\n" +
	"• Проверьте баланс карты\n" +
	"• Подождите 15 минут - иногда бывают задержки\n" +
	"• Проверьте email - должно прийти уведомление\n\n" +
	"✅ Деньги списались, но билетов нет:\n" +
	"• Проверьте папку 'Спам' в почте\n" +
	"• Напишите номер заказа для проверки\n\n" +
	"✅ Не принимается карта:\n" +
	"• Попробуйте другую карту\n" +
	"• Используйте электронный кошелек\n\n" +
	"📞 Если проблема осталась:\n" +
	"Напишите номер заказа и описание проблемы"

func (a *Assistant) quickResponse(ctx context.Context, userID int64, text string) (string, bool) {
	norm := strings.Join(strings.Fields(phrases.Normalize(text)), " ")

	if phrases.ContainsAny(norm, paymentWords) && phrases.ContainsAny(norm, problemWords) {
		uc := UserContext{Type: ContextPaymentIssue, CreatedAt: a.now()}
		if err := a.contexts.Save(ctx, userID, uc); err != nil {
			log.Printf("[ai] open payment context user=%d: %v", userID, err)
		} else {
			log.Printf("[ai] payment context opened user=%d", userID)
		}
		return paymentHelp, true
	}

	if phrases.ContainsAny(norm, thankfulWords) {
		return thankfulReplies[a.pick(len(thankfulReplies))], true
	}

	for _, q := range quickReplies {
		if strings.Contains(norm, q.keyword) {
			return q.reply, true
		}
	}
	return "", false
}
