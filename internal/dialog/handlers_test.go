package dialog

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeNotifier) Notify(_ context.Context, _ int64, problem string) {
	f.mu.Lock()
	f.calls = append(f.calls, problem)
	f.mu.Unlock()
}

type fakeSink struct {
	mu   sync.Mutex
	reqs []Request
}

func (f *fakeSink) SaveRequest(_ context.Context, req Request) error {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	return nil
}

func testDeps() (Deps, *fakeNotifier, *fakeSink) {
	n := &fakeNotifier{}
	s := &fakeSink{}
	return Deps{
		Notifier: n,
		Requests: s,
		Now:      func() time.Time { return fixedNow },
	}, n, s
}

const user int64 = 42

func mustContain(t *testing.T, reply string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(reply, p) {
			t.Fatalf("reply does not contain %q:\n%s", p, reply)
		}
	}
}

func TestPaymentSingleMessage(t *testing.T) {
	deps, _, _ := testDeps()
	h := NewPayment(nil, deps)
	ctx := context.Background()

	reply := h.Open(ctx, user, "Оплатил картой заказ 123456, 30 минут назад")

	mustContain(t, reply, "№123456", "Оплата через: банковская карта", "Время оплаты: 30 минут")
	if !strings.HasSuffix(reply, helpMore) {
		t.Fatalf("reply must end with the follow-up question:\n%s", reply)
	}
	if h.HasActiveSession(user) {
		t.Fatal("session must be closed after solution")
	}
	if _, ok := h.Process(ctx, user, "ещё раз"); ok {
		t.Fatal("closed session must not process messages")
	}
}

func TestPaymentAccumulatesAcrossTurns(t *testing.T) {
	deps, _, _ := testDeps()
	h := NewPayment(nil, deps)
	ctx := context.Background()

	h.Start(user)
	reply, ok := h.Process(ctx, user, "заказ 123456")
	if !ok {
		t.Fatal("expected active session")
	}
	mustContain(t, reply, "Уточните, пожалуйста", "способ оплаты и время оплаты")
	if !h.HasActiveSession(user) {
		t.Fatal("session must stay open while fields are missing")
	}

	reply, _ = h.Process(ctx, user, "оплатил картой")
	mustContain(t, reply, "№123456", "банковская карта")
	if h.HasActiveSession(user) {
		t.Fatal("session must be closed after solution")
	}
}

func TestPaymentProblemCategories(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"заказ 123456, картой, деньги списались дважды", "двойное списание"},
		{"заказ 123456, вчера, кассовый чек не пришел", "проблема с чеком"},
		{"заказ 123456 через приложение, платеж не прошел", "проблема с платежом"},
	}

	for _, tt := range tests {
		deps, _, _ := testDeps()
		h := NewPayment(nil, deps)
		reply := h.Open(context.Background(), user, tt.text)
		mustContain(t, reply, tt.want)
	}
}

func TestPaymentNeedsOperator(t *testing.T) {
	deps, n, _ := testDeps()
	h := NewPayment(nil, deps)

	reply := h.Open(context.Background(), user, "заказ 123456 оплатил картой, не могу разобраться")

	mustContain(t, reply, "требуется уточнение")
	if len(n.calls) != 1 || !strings.Contains(n.calls[0], "Неясная проблема с оплатой заказа 123456") {
		t.Fatalf("notifier calls = %q", n.calls)
	}
}

func TestRefundFlow(t *testing.T) {
	deps, _, sink := testDeps()
	h := NewRefund(nil, deps)
	ctx := context.Background()

	if got := h.Open(ctx, user, "хочу вернуть билеты"); got != refundIntro {
		t.Fatalf("Open without order = %q", got)
	}

	reply, _ := h.Process(ctx, user, "12345")
	if reply != invalidOrderText {
		t.Fatalf("short order accepted: %q", reply)
	}

	reply, _ = h.Process(ctx, user, "123456")
	mustContain(t, reply, "причину возврата")

	reply, _ = h.Process(ctx, user, "изменение планов")
	mustContain(t, reply, "контактные данные", "30% стоимости")

	reply, _ = h.Process(ctx, user, "телефон 12345")
	if reply != invalidContactsText {
		t.Fatalf("invalid phone accepted: %q", reply)
	}

	reply, _ = h.Process(ctx, user, "мой телефон 89991234567")
	mustContain(t, reply, "Заявка на возврат принята", "Номер заказа: 123456",
		"Причина возврата: изменение планов", "Телефон: +7 (999) 123-45-67")

	if h.HasActiveSession(user) {
		t.Fatal("session must be closed")
	}
	if len(sink.reqs) != 1 {
		t.Fatalf("saved %d requests, want 1", len(sink.reqs))
	}
	req := sink.reqs[0]
	if req.Kind != KindRefund || req.OrderNumber != "123456" || req.Phone != "89991234567" || req.ID == "" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !req.CreatedAt.Equal(fixedNow) {
		t.Fatalf("CreatedAt = %v", req.CreatedAt)
	}
}

func TestRefundOpenWithOrder(t *testing.T) {
	deps, _, _ := testDeps()
	h := NewRefund(nil, deps)

	reply := h.Open(context.Background(), user, "хочу вернуть заказ 654321")
	mustContain(t, reply, "причину возврата")

	sess, ok := h.store.Get(user)
	if !ok || sess.Step != StepWaitingReason || sess.Data.OrderNumber != "654321" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestRefundSicknessPolicy(t *testing.T) {
	deps, _, _ := testDeps()
	h := NewRefund(nil, deps)
	ctx := context.Background()

	h.Open(ctx, user, "заказ 123456")
	reply, _ := h.Process(ctx, user, "Болезнь")
	mustContain(t, reply, "info@intickets.ru")
}

func TestPartialRefundFlow(t *testing.T) {
	deps, _, sink := testDeps()
	h := NewPartialRefund(nil, deps)
	ctx := context.Background()

	h.Start(user)
	reply, _ := h.Process(ctx, user, "Заказ 123456, билет 323243, по болезни")
	mustContain(t, reply, "из заказа №123456 принята")

	reply, _ = h.Process(ctx, user, "a@b.ru")
	mustContain(t, reply, "Возвращаемый билет: 323243", "Причина возврата: Болезнь", "Email: a@b.ru")

	if len(sink.reqs) != 1 || sink.reqs[0].Kind != KindPartialRefund || sink.reqs[0].TicketNumber != "323243" {
		t.Fatalf("unexpected requests: %+v", sink.reqs)
	}
}

func TestPartialReason(t *testing.T) {
	tests := []struct {
		lower string
		want  string
	}{
		{"заказ 123456 билет 1 по болезни", "Болезнь"},
		{"заказ 123456 купил с ошибкой", "Ошибка при покупке"},
		{"123456 билет 42, перенесли концерт", "перенесли концерт"},
		{"123456 " + strings.Repeat("я", 60), strings.Repeat("я", 50) + "..."},
	}

	for _, tt := range tests {
		if got := partialReason(tt.lower, "123456"); got != tt.want {
			t.Errorf("partialReason(%q) = %q, want %q", tt.lower, got, tt.want)
		}
	}
}

func TestWrongEventRefundFlow(t *testing.T) {
	deps, _, sink := testDeps()
	h := NewWrongEventRefund(nil, deps)
	ctx := context.Background()

	if got := h.Open(ctx, user, "купил не на то мероприятие"); got != wrongEventIntro {
		t.Fatalf("Open = %q", got)
	}

	reply, _ := h.Process(ctx, user, "123456")
	mustContain(t, reply, "Заказ №123456 принят для возврата ошибочных билетов")

	reply, _ = h.Process(ctx, user, "+7 (912) 345-67-89")
	mustContain(t, reply, "Покупка на другое мероприятие по ошибке", "Телефон: +7 (912) 345-67-89")

	if len(sink.reqs) != 1 || sink.reqs[0].Kind != KindWrongEvent {
		t.Fatalf("unexpected requests: %+v", sink.reqs)
	}
}

func TestContactsStepAcceptsOrderNumber(t *testing.T) {
	deps, _, sink := testDeps()
	h := NewWrongEventRefund(nil, deps)
	ctx := context.Background()

	h.Start(user)
	h.Process(ctx, user, "123456")

	reply, ok := h.Process(ctx, user, "привет")
	if !ok || reply != invalidContactsText || !h.HasActiveSession(user) {
		t.Fatalf("contacts without data must re-prompt, got %q", reply)
	}

	reply, _ = h.Process(ctx, user, "заказ 654321")
	mustContain(t, reply, "Контактные данные: Номер заказа: 654321")
	if h.HasActiveSession(user) || len(sink.reqs) != 1 {
		t.Fatalf("session must complete, requests: %+v", sink.reqs)
	}
}

func TestEmailChangeFlow(t *testing.T) {
	deps, _, sink := testDeps()
	h := NewEmailChange(nil, deps)
	ctx := context.Background()

	if got := h.Open(ctx, user, "изменить email"); got != emailChangeIntro {
		t.Fatalf("Open = %q", got)
	}

	reply, _ := h.Process(ctx, user, "123456")
	mustContain(t, reply, "Заказ №123456 принят для смены email")

	reply, _ = h.Process(ctx, user, "мой новый ящик new@mail.ru")
	mustContain(t, reply, "Неверный формат email")
	if !h.HasActiveSession(user) {
		t.Fatal("session must stay open after invalid email")
	}

	reply, _ = h.Process(ctx, user, " new@mail.ru ")
	mustContain(t, reply, "Email успешно изменен", "Новый email: new@mail.ru", "Номер заказа: 123456")

	if len(sink.reqs) != 1 || sink.reqs[0].Email != "new@mail.ru" {
		t.Fatalf("unexpected requests: %+v", sink.reqs)
	}
}

func TestTicketRecovery(t *testing.T) {
	deps, _, sink := testDeps()
	h := NewTicketRecovery(nil, deps)
	ctx := context.Background()

	reply := h.Open(ctx, user, "билеты не пришли, заказ 123456")
	mustContain(t, reply, "Ищем ваши билеты по номеру заказа: 123456")
	if h.HasActiveSession(user) {
		t.Fatal("session must complete on the first message with contacts")
	}

	if got := h.Open(ctx, user, "билеты не пришли"); got != recoveryIntro {
		t.Fatalf("Open = %q", got)
	}
	reply, _ = h.Process(ctx, user, "ничего нет")
	mustContain(t, reply, "Не удалось распознать контактные данные")

	reply, _ = h.Process(ctx, user, "89991234567 и a@b.ru")
	mustContain(t, reply, "номеру телефона: +7 (999) 123-45-67", "email: a@b.ru")

	if len(sink.reqs) != 2 {
		t.Fatalf("saved %d requests, want 2", len(sink.reqs))
	}
}

func TestOperatorDialog(t *testing.T) {
	deps, n, _ := testDeps()
	h := NewOperator(nil, deps)
	ctx := context.Background()

	if got := h.Open(ctx, user, "позовите оператора"); got != operatorIntro {
		t.Fatalf("Open = %q", got)
	}

	reply, _ := h.Process(ctx, user, "ааааааа")
	mustContain(t, reply, "Не совсем понял ваш запрос")
	if len(n.calls) != 0 {
		t.Fatal("gibberish must not reach the operator")
	}

	reply, _ = h.Process(ctx, user, "  Не пришли билеты на заказ 123456 ")
	mustContain(t, reply, "Оператор уведомлен")
	if len(n.calls) != 1 || n.calls[0] != "Не пришли билеты на заказ 123456" {
		t.Fatalf("notifier calls = %q", n.calls)
	}
	if h.HasActiveSession(user) {
		t.Fatal("session must be closed")
	}
}

func TestHandlersClearSession(t *testing.T) {
	deps, _, _ := testDeps()
	handlers := []Handler{
		NewPayment(nil, deps),
		NewRefund(nil, deps),
		NewPartialRefund(nil, deps),
		NewWrongEventRefund(nil, deps),
		NewEmailChange(nil, deps),
		NewTicketRecovery(nil, deps),
		NewOperator(nil, deps),
	}

	for _, h := range handlers {
		t.Run(h.Name(), func(t *testing.T) {
			h.Start(user)
			if !h.HasActiveSession(user) {
				t.Fatal("Start did not open a session")
			}
			if h.HasActiveSession(user + 1) {
				t.Fatal("sessions leak between users")
			}
			h.ClearSession(user)
			if h.HasActiveSession(user) {
				t.Fatal("ClearSession did not remove the session")
			}
			if _, ok := h.Process(context.Background(), user, "123456"); ok {
				t.Fatal("Process without session must report ok=false")
			}
		})
	}
}

func TestUnknownStepDropsSession(t *testing.T) {
	deps, _, _ := testDeps()
	h := NewRefund(nil, deps)
	h.store.Put(user, Session[RefundData]{Step: "bogus"})

	if _, ok := h.Process(context.Background(), user, "123456"); ok {
		t.Fatal("unknown step must not be processed")
	}
	if h.HasActiveSession(user) {
		t.Fatal("session with unknown step must be dropped")
	}
}
