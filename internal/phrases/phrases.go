package phrases

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed phrases.yaml
var defaultYAML []byte

var ErrEmptyTable = errors.New("phrases: empty table")

// Set: неизменяемый набор фраз, по которому работает каскад намерений.
// После Parse не модифицируется, поэтому его можно читать из любых горутин.
type Set struct {
	Thanks          []string `yaml:"thanks"`
	Dissatisfaction []string `yaml:"dissatisfaction"`
	NeedHelp        []string `yaml:"need_help"`
	Farewell        []string `yaml:"farewell"`
	Positive        []string `yaml:"positive"`
	AboutBot        []string `yaml:"about_bot"`
	Purchase        []string `yaml:"purchase"`
	PaymentKeywords []string `yaml:"payment_keywords"`
	Refund          []string `yaml:"refund"`
	WrongEvent      []string `yaml:"wrong_event"`
	PartialRefund   []string `yaml:"partial_refund"`
	EmailChange     []string `yaml:"email_change"`

	TicketProblemPatterns  []string `yaml:"ticket_problem_patterns"`
	PaymentProblemPatterns []string `yaml:"payment_problem_patterns"`

	ticketProblem  []*regexp.Regexp
	paymentProblem []*regexp.Regexp
}

// Parse разбирает YAML и компилирует регулярные выражения.
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("phrases: decode yaml: %w", err)
	}

	tables := map[string][]string{
		"thanks":           s.Thanks,
		"dissatisfaction":  s.Dissatisfaction,
		"need_help":        s.NeedHelp,
		"farewell":         s.Farewell,
		"positive":         s.Positive,
		"purchase":         s.Purchase,
		"payment_keywords": s.PaymentKeywords,
		"refund":           s.Refund,
	}
	for name, list := range tables {
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyTable, name)
		}
	}

	var err error
	if s.ticketProblem, err = compileAll(s.TicketProblemPatterns); err != nil {
		return nil, fmt.Errorf("phrases: ticket_problem_patterns: %w", err)
	}
	if s.paymentProblem, err = compileAll(s.PaymentProblemPatterns); err != nil {
		return nil, fmt.Errorf("phrases: payment_problem_patterns: %w", err)
	}

	return &s, nil
}

// Default возвращает встроенный набор фраз.
func Default() *Set {
	s, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return s
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

var lowerCaser = cases.Lower(language.Russian)

// Normalize приводит текст к NFC и нижнему регистру.
// Цифры не меняются, поэтому номера заказов можно искать и в нормализованном тексте.
func Normalize(text string) string {
	return lowerCaser.String(norm.NFC.String(text))
}

// ContainsAny: есть ли в text хотя бы одна подстрока из list.
func ContainsAny(text string, list []string) bool {
	for _, p := range list {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// EqualsAny: совпадает ли сообщение целиком с одной из фраз.
func EqualsAny(text string, list []string) bool {
	text = strings.TrimSpace(text)
	for _, p := range list {
		if text == p {
			return true
		}
	}
	return false
}

func (s *Set) IsThanks(lower string) bool         { return ContainsAny(lower, s.Thanks) }
func (s *Set) IsDissatisfied(lower string) bool   { return ContainsAny(lower, s.Dissatisfaction) }
func (s *Set) NeedsHelp(lower string) bool        { return ContainsAny(lower, s.NeedHelp) }
func (s *Set) IsFarewell(lower string) bool       { return EqualsAny(lower, s.Farewell) }
func (s *Set) IsPositive(lower string) bool       { return EqualsAny(lower, s.Positive) }
func (s *Set) AsksAboutBot(lower string) bool     { return ContainsAny(lower, s.AboutBot) }
func (s *Set) AsksPurchase(lower string) bool     { return ContainsAny(lower, s.Purchase) }
func (s *Set) MentionsPayment(lower string) bool  { return ContainsAny(lower, s.PaymentKeywords) }
func (s *Set) MentionsRefund(lower string) bool   { return ContainsAny(lower, s.Refund) }
func (s *Set) IsWrongEvent(lower string) bool     { return ContainsAny(lower, s.WrongEvent) }
func (s *Set) IsPartialRefund(lower string) bool  { return ContainsAny(lower, s.PartialRefund) }
func (s *Set) WantsEmailChange(lower string) bool { return ContainsAny(lower, s.EmailChange) }
func (s *Set) TicketProblem(lower string) bool    { return matchAny(s.ticketProblem, lower) }
func (s *Set) PaymentProblem(lower string) bool   { return matchAny(s.paymentProblem, lower) }

func matchAny(res []*regexp.Regexp, text string) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
