package phrases

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultParses(t *testing.T) {
	s := Default()

	if len(s.ticketProblem) != len(s.TicketProblemPatterns) {
		t.Fatalf("ticket patterns compiled %d of %d", len(s.ticketProblem), len(s.TicketProblemPatterns))
	}
	if len(s.paymentProblem) != len(s.PaymentProblemPatterns) {
		t.Fatalf("payment patterns compiled %d of %d", len(s.paymentProblem), len(s.PaymentProblemPatterns))
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize("ВЕРНУТЬ Билет 123456")
	if got != "вернуть билет 123456" {
		t.Fatalf("Normalize = %q", got)
	}
}

func TestDetectors(t *testing.T) {
	s := Default()

	tests := []struct {
		name string
		fn   func(string) bool
		text string
		want bool
	}{
		{"thanks", s.IsThanks, "большое спасибо", true},
		{"thanks miss", s.IsThanks, "где мои билеты", false},
		{"dissatisfied", s.IsDissatisfied, "позовите оператора", true},
		{"needs help", s.NeedsHelp, "я запутался", true},
		{"farewell exact", s.IsFarewell, " пока ", true},
		{"farewell substring is not enough", s.IsFarewell, "пока не ясно", false},
		{"positive", s.IsPositive, "давай", true},
		{"purchase", s.AsksPurchase, "подскажите как купить", true},
		{"refund", s.MentionsRefund, "хочу вернуть билет", true},
		{"wrong event", s.IsWrongEvent, "я перепутал мероприятие", true},
		{"partial", s.IsPartialRefund, "нужен частичный возврат", true},
		{"email change", s.WantsEmailChange, "хочу изменить email", true},
		{"ticket problem", s.TicketProblem, "билеты не пришли", true},
		{"ticket problem spaced", s.TicketProblem, "мне непришли билеты", true},
		{"payment problem", s.PaymentProblem, "заказ 123456 оплата прошла", true},
		{"payment problem money", s.PaymentProblem, "деньги вчера списались", true},
		{"payment problem miss", s.PaymentProblem, "какая погода", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.text); got != tt.want {
				t.Fatalf("%q: got %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseRejectsEmptyTable(t *testing.T) {
	_, err := Parse([]byte("thanks: [спасибо]\n"))
	if !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
}

func TestParseRejectsBadRegex(t *testing.T) {
	data := bytes.Replace(defaultYAML,
		[]byte("ticket_problem_patterns:\n"),
		[]byte("ticket_problem_patterns:\n  - '('\n"), 1)

	if _, err := Parse(data); err == nil {
		t.Fatal("expected regex compile error")
	}
}

func TestSourceReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phrases.yaml")
	if err := os.WriteFile(path, defaultYAML, 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := NewSource(path)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	defer src.Close()

	before := src.Current()

	if err := os.WriteFile(path, []byte("thanks: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := src.Reload(); err == nil {
		t.Fatal("expected reload error for broken yaml")
	}
	if src.Current() != before {
		t.Fatal("broken file replaced the working set")
	}
}

func TestStaticSourceWatchReturns(t *testing.T) {
	src := Static(Default())
	src.Watch(context.Background())
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
