package intent

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Vovarama1992/intickets-support/internal/ai"
	"github.com/Vovarama1992/intickets-support/internal/dialog"
)

type fakeAssistant struct {
	reply   string
	err     error
	calls   int
	cleared []int64
}

func (f *fakeAssistant) GetResponse(_ context.Context, _ int64, _ string, _ []ai.Message) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeAssistant) ClearContext(_ context.Context, userID int64) {
	f.cleared = append(f.cleared, userID)
}

type fakeNotifier struct{ calls []string }

func (f *fakeNotifier) Notify(_ context.Context, _ int64, problem string) {
	f.calls = append(f.calls, problem)
}

type fakeTyper struct{ calls int }

func (f *fakeTyper) Typing(context.Context, int64) { f.calls++ }

type fixture struct {
	router    *Router
	assistant *fakeAssistant
	notifier  *fakeNotifier
	typer     *fakeTyper
}

func newFixture() fixture {
	f := fixture{
		assistant: &fakeAssistant{reply: "ответ ассистента"},
		notifier:  &fakeNotifier{},
		typer:     &fakeTyper{},
	}
	f.router = NewRouter(Config{
		Handlers:  NewHandlers(dialog.Deps{Notifier: f.notifier}),
		Assistant: f.assistant,
		Notifier:  f.notifier,
		Typer:     f.typer,
	})
	f.router.pick = func(int) int { return 0 }
	return f
}

const uid int64 = 100

func TestStagesOrder(t *testing.T) {
	want := []string{
		"command", "about", "session",
		"thanks", "dissatisfaction", "need_help", "farewell", "positive",
		"purchase", "payment", "refund", "wrong_event", "partial_refund", "email_change",
		"ticket_problem", "payment_problem", "order_clarify", "order_status", "assistant",
	}
	if got := newFixture().router.Stages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Stages() = %v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/start", "command"},
		{"/start@intickets_bot", "command"},
		{ButtonHelp, "command"},
		{"что ты умеешь?", "about"},
		{"спасибо, но это ужасный сервис", "thanks"},
		{"ужасный сервис", "dissatisfaction"},
		{"я запутался", "need_help"},
		{"Пока", "farewell"},
		{"да", "positive"},
		{"как купить билеты на концерт", "purchase"},
		{"Оплатил картой заказ 123456, 30 минут назад", "payment"},
		{"вернуть билет", "refund"},
		{"купил по ошибке", "wrong_event"},
		{"хочу изменить email", "email_change"},
		{"билеты не пришли", "ticket_problem"},
		{"123456", "order_clarify"},
		{"статус заказа 999999", "order_status"},
		{"когда начнется концерт", "assistant"},
	}

	r := newFixture().router
	for _, tt := range tests {
		if got := r.Classify(uid, tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestRefundScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	reply := f.router.Route(ctx, uid, "вернуть билет", nil)
	if !strings.Contains(reply.Text, "номер вашего заказа") || reply.Keyboard != KeyboardMain {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	reply = f.router.Route(ctx, uid, "123456", nil)
	if !strings.Contains(reply.Text, "причину возврата") {
		t.Fatalf("order step: %q", reply.Text)
	}

	reply = f.router.Route(ctx, uid, "изменение планов", nil)
	if !strings.Contains(reply.Text, "возвращается 30% стоимости") {
		t.Fatalf("reason step: %q", reply.Text)
	}

	reply = f.router.Route(ctx, uid, "89991234567", nil)
	if !strings.Contains(reply.Text, "+7 (999) 123-45-67") {
		t.Fatalf("contacts step: %q", reply.Text)
	}

	reply = f.router.Route(ctx, uid, "89991234567", nil)
	if reply.Text != "ответ ассистента" {
		t.Fatalf("completed session must fall through the cascade, got %q", reply.Text)
	}
	if f.typer.calls != 1 {
		t.Fatalf("typing sent %d times", f.typer.calls)
	}
}

func TestPaymentScenario(t *testing.T) {
	f := newFixture()

	reply := f.router.Route(context.Background(), uid, "Оплатил картой заказ 123456, 30 минут назад", nil)
	for _, want := range []string{"123456", "банковская карта", "Нужна помощь с чем-то еще?"} {
		if !strings.Contains(reply.Text, want) {
			t.Fatalf("reply %q does not contain %q", reply.Text, want)
		}
	}
	if f.router.handlers.Payment.HasActiveSession(uid) {
		t.Fatal("payment session must be closed")
	}
}

func TestActiveSessionWinsOverSentiment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.router.Route(ctx, uid, ButtonRefund, nil)
	f.router.Route(ctx, uid, "123456", nil)

	reply := f.router.Route(ctx, uid, "спасибо", nil)
	if !strings.Contains(reply.Text, "контактные данные") {
		t.Fatalf("refund session did not consume the reason: %q", reply.Text)
	}
}

func TestSessionPriority(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.router.Route(ctx, uid, ButtonPayment, nil)
	f.router.Route(ctx, uid, "/operator", nil)

	reply := f.router.Route(ctx, uid, "Не пришли билеты на заказ 123456", nil)
	if !strings.Contains(reply.Text, "Оператор уведомлен") {
		t.Fatalf("operator session must win: %q", reply.Text)
	}
	if len(f.notifier.calls) != 1 || f.notifier.calls[0] != "Не пришли билеты на заказ 123456" {
		t.Fatalf("notifier calls = %q", f.notifier.calls)
	}
	if !f.router.handlers.Payment.HasActiveSession(uid) {
		t.Fatal("lower priority session must stay open")
	}
}

func TestSentimentNotifiesOperator(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if got := f.router.Route(ctx, uid, "ужасный сервис", nil); got.Text != dissatisfactionText {
		t.Fatalf("got %q", got.Text)
	}
	if got := f.router.Route(ctx, uid, "я запутался", nil); got.Text != needHelpText {
		t.Fatalf("got %q", got.Text)
	}

	want := []string{"Недовольство: ужасный сервис", "Не может разобраться: я запутался"}
	if !reflect.DeepEqual(f.notifier.calls, want) {
		t.Fatalf("notifier calls = %q", f.notifier.calls)
	}
}

func TestOrderLookup(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if got := f.router.Route(ctx, uid, "статус заказа 999999", nil); !strings.HasPrefix(got.Text, "❌ Заказ не найден") {
		t.Fatalf("got %q", got.Text)
	}
	if got := f.router.Route(ctx, uid, "статус заказа 123456", nil); !strings.Contains(got.Text, "Заказ №123456") {
		t.Fatalf("got %q", got.Text)
	}
	if got := f.router.Route(ctx, uid, " 123456 ", nil); !strings.Contains(got.Text, "Вижу, что вы ввели номер заказа: 123456") {
		t.Fatalf("got %q", got.Text)
	}
}

func TestCommandsAndButtons(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		text     string
		want     string
		keyboard Keyboard
	}{
		{"/start", welcomeText, KeyboardMain},
		{ButtonHelp, helpText, KeyboardHelp},
		{ButtonSite, siteText, KeyboardHelp},
		{ButtonBack, backText, KeyboardMain},
		{ButtonPurchase, purchaseText, KeyboardMain},
		{"расскажи о себе", aboutText, KeyboardMain},
	}

	for _, tt := range tests {
		got := f.router.Route(ctx, uid, tt.text, nil)
		if got.Text != tt.want || got.Keyboard != tt.keyboard {
			t.Errorf("Route(%q) = %q / %v", tt.text, got.Text, got.Keyboard)
		}
	}

	got := f.router.Route(ctx, uid, ButtonOperator, nil)
	if got.Keyboard != KeyboardHelp || !f.router.handlers.Operator.HasActiveSession(uid) {
		t.Fatalf("operator button: %+v", got)
	}
}

func TestRestartClearsEverything(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := f.router.handlers

	for _, d := range h.byPriority() {
		d.Start(uid)
	}

	got := f.router.Route(ctx, uid, ButtonRestart, nil)
	if got.Text != restartText {
		t.Fatalf("got %q", got.Text)
	}
	for _, d := range h.byPriority() {
		if d.HasActiveSession(uid) {
			t.Errorf("%s session survived restart", d.Name())
		}
	}
	if !reflect.DeepEqual(f.assistant.cleared, []int64{uid}) {
		t.Fatalf("assistant context not cleared: %v", f.assistant.cleared)
	}
}

func TestAssistantFailureFallsBack(t *testing.T) {
	f := newFixture()
	f.assistant.err = errors.New("timeout")

	got := f.router.Route(context.Background(), uid, "когда начнется концерт", nil)
	if got.Text != notUnderstoodText {
		t.Fatalf("got %q", got.Text)
	}
}

func TestKeyboardLayouts(t *testing.T) {
	layout, ok := KeyboardMain.Layout()
	if !ok || len(layout.Rows) != 3 || layout.Rows[2][1] != ButtonRestart {
		t.Fatalf("main layout: %+v", layout)
	}
	if _, ok := KeyboardNone.Layout(); ok {
		t.Fatal("KeyboardNone must have no layout")
	}
}
