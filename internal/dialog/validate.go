package dialog

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	phoneJunkRe  = regexp.MustCompile(`[\s()\-+]`)
	emailExactRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	letterRe     = regexp.MustCompile(`[а-яА-ЯёЁa-zA-Z]`)
)

// CleanPhone убирает пробелы, скобки, дефисы и плюс.
func CleanPhone(raw string) string {
	return phoneJunkRe.ReplaceAllString(raw, "")
}

// IsValidPhone проверяет российский номер: 10 или 11 цифр, начинается с 7 или 8.
func IsValidPhone(raw string) bool {
	p := CleanPhone(raw)
	if len(p) != 10 && len(p) != 11 {
		return false
	}
	if p[0] != '7' && p[0] != '8' {
		return false
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func IsValidEmail(raw string) bool {
	return emailExactRe.MatchString(raw)
}

// IsGibberish отсекает пустые, повторяющиеся и безбуквенные описания.
func IsGibberish(text string) bool {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	runes := []rune(clean)
	if len(runes) < 3 {
		return true
	}

	distinct := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		distinct[r] = struct{}{}
	}
	if len(distinct) <= 2 && len(runes) > 5 {
		return true
	}

	return !letterRe.MatchString(text)
}
