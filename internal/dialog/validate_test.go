package dialog

import "testing"

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"89991234567", true},
		{"+7 (999) 123-45-67", true},
		{"7999123456", true},
		{"9991234567", false},
		{"8999123", false},
		{"8999123456a", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidPhone(tt.phone); got != tt.want {
			t.Errorf("IsValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.ru", true},
		{"first.last+tag@mail-box.example.com", true},
		{"a@b", false},
		{" a@b.ru", false},
		{"a@b.ru x", false},
		{"почта@mail.ru", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestIsGibberish(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"ab", true},
		{"  a b ", true},
		{"аааааа", true},
		{"!!!???", true},
		{"12345", true},
		{"ааа", false},
		{"Не пришли билеты", false},
	}

	for _, tt := range tests {
		if got := IsGibberish(tt.text); got != tt.want {
			t.Errorf("IsGibberish(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"89991234567", "+7 (999) 123-45-67"},
		{"79991234567", "+7 (999) 123-45-67"},
		{"+7 999 123 45 67", "+7 (999) 123-45-67"},
		{"9991234567", "+7 (999) 123-45-67"},
		{"123", "123"},
	}

	for _, tt := range tests {
		if got := FormatPhone(tt.raw); got != tt.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestContactsDisplay(t *testing.T) {
	got := ContactsDisplay(Contacts{Phone: "89991234567", Email: "a@b.ru"})
	want := "Телефон: +7 (999) 123-45-67, Email: a@b.ru"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := ContactsDisplay(Contacts{Email: "a@b.ru"}); got != "Email: a@b.ru" {
		t.Fatalf("got %q", got)
	}
	if got := ContactsDisplay(Contacts{OrderNumber: "123456", Email: "a@b.ru"}); got != "Email: a@b.ru" {
		t.Fatalf("got %q", got)
	}
	if got := ContactsDisplay(Contacts{OrderNumber: "123456"}); got != "Номер заказа: 123456" {
		t.Fatalf("got %q", got)
	}
}
