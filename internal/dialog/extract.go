package dialog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Vovarama1992/intickets-support/internal/phrases"
)

var (
	orderRe = regexp.MustCompile(`\b(\d{6})\b`)
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// порядок важен: более специфичные форматы раньше
	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\+7\s?\(?\d{3}\)?\s?\d{3}[\s\-]?\d{2}[\s\-]?\d{2}`),
		regexp.MustCompile(`8\s?\(?\d{3}\)?\s?\d{3}[\s\-]?\d{2}[\s\-]?\d{2}`),
		regexp.MustCompile(`7\s?\(?\d{3}\)?\s?\d{3}[\s\-]?\d{2}[\s\-]?\d{2}`),
		regexp.MustCompile(`\b\d{10,11}\b`),
		regexp.MustCompile(`\b\d\s?\d{3}\s?\d{3}\s?\d{2}\s?\d{2}\b`),
	}

	ticketRe = regexp.MustCompile(`(?:билет|билета|номер)\s*(\d+)`)

	clockRe   = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	minutesRe = regexp.MustCompile(`(\d+)\s*(?:мин|минут|минуты|мин\.|минут\.)`)
	hoursRe   = regexp.MustCompile(`(\d+)\s*(?:час|часа|часов|час\.)`)
	daysRe    = regexp.MustCompile(`(\d+)\s*(?:день|дня|дней|дн\.|день\.)`)
	dateRe    = regexp.MustCompile(`(\d{1,2})[.\-/](\d{1,2})[.\-/](\d{4})`)
)

// ExtractOrderNumber ищет первые ровно 6 цифр подряд. Текст передаётся как есть.
func ExtractOrderNumber(text string) (string, bool) {
	m := orderRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractPhone возвращает первый кандидат, прошедший IsValidPhone.
func ExtractPhone(text string) (string, bool) {
	for _, re := range phoneRes {
		for _, cand := range re.FindAllString(text, -1) {
			if IsValidPhone(cand) {
				return cand, true
			}
		}
	}
	return "", false
}

func ExtractEmail(text string) (string, bool) {
	m := emailRe.FindString(text)
	return m, m != ""
}

// ExtractTicketNumber: номер билета после слов «билет»/«номер».
func ExtractTicketNumber(lower string) (string, bool) {
	m := ticketRe.FindStringSubmatch(lower)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Contacts: контактные данные из одного сообщения.
type Contacts struct {
	OrderNumber string
	Phone       string
	Email       string
}

func (c Contacts) Empty() bool {
	return c.OrderNumber == "" && c.Phone == "" && c.Email == ""
}

// ExtractContacts собирает телефон и email; номер заказа только если withOrder.
func ExtractContacts(text string, withOrder bool) Contacts {
	var c Contacts
	c.Email, _ = ExtractEmail(text)
	c.Phone, _ = ExtractPhone(text)
	if withOrder {
		c.OrderNumber, _ = ExtractOrderNumber(text)
	}
	return c
}

// TimeExpr: давность оплаты.
type TimeExpr struct {
	Minutes     int
	Description string
}

// ExtractTime пробует правила по очереди: время суток, «N минут/часов/дней»,
// относительные слова, дата. Срабатывает первое подходящее.
func ExtractTime(text string, now time.Time) (TimeExpr, bool) {
	lower := phrases.Normalize(text)

	rules := []func(string, time.Time) (TimeExpr, bool){
		clockTime,
		exactTime,
		relativeTime,
		dateTime,
	}
	for _, rule := range rules {
		if te, ok := rule(lower, now); ok {
			return te, true
		}
	}
	return TimeExpr{}, false
}

func clockTime(lower string, now time.Time) (TimeExpr, bool) {
	m := clockRe.FindStringSubmatch(lower)
	if m == nil {
		return TimeExpr{}, false
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if h > 23 || mm > 59 {
		return TimeExpr{}, false
	}

	paid := time.Date(now.Year(), now.Month(), now.Day(), h, mm, 0, 0, now.Location())
	day := "сегодня"
	if paid.After(now) {
		paid = paid.AddDate(0, 0, -1)
		day = "вчера"
	}

	return TimeExpr{
		Minutes:     int(now.Sub(paid) / time.Minute),
		Description: fmt.Sprintf("%s в %02d:%02d", day, h, mm),
	}, true
}

func exactTime(lower string, _ time.Time) (TimeExpr, bool) {
	if m := minutesRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return TimeExpr{Minutes: n, Description: fmt.Sprintf("%d минут", n)}, true
	}
	if m := hoursRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return TimeExpr{Minutes: n * 60, Description: fmt.Sprintf("%d %s", n, plural(n, "час", "часа", "часов"))}, true
	}
	if m := daysRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return TimeExpr{Minutes: n * 24 * 60, Description: fmt.Sprintf("%d %s", n, plural(n, "день", "дня", "дней"))}, true
	}
	return TimeExpr{}, false
}

func plural(n int, one, few, many string) string {
	switch {
	case n == 1:
		return one
	case n >= 2 && n <= 4:
		return few
	default:
		return many
	}
}

type relativeDay struct {
	phrase string
	days   int
}

// «позавчера» проверяется раньше «вчера», иначе подстрока даст не тот день.
var relativeDays = []relativeDay{
	{"позавчера", 2},
	{"позавчеа", 2},
	{"позафчера", 2},
	{"позачвера", 2},
	{"позачверя", 2},
	{"позачвеа", 2},
	{"сегодня", 0},
	{"седня", 0},
	{"севодня", 0},
	{"севоня", 0},
	{"вчера", 1},
	{"вчеоа", 1},
	{"фчера", 1},
	{"на прошлой неделе", 7},
	{"прошлая неделя", 7},
	{"неделю назад", 7},
	{"недели назад", 7},
	{"неделя назад", 7},
}

func relativeTime(lower string, now time.Time) (TimeExpr, bool) {
	for _, rd := range relativeDays {
		if strings.Contains(lower, rd.phrase) {
			return daysAgo(rd.days, now), true
		}
	}
	for _, rd := range relativeDays {
		if fuzzyMatch(rd.phrase, lower) {
			return daysAgo(rd.days, now), true
		}
	}
	return TimeExpr{}, false
}

func daysAgo(days int, now time.Time) TimeExpr {
	return TimeExpr{
		Minutes:     days * 24 * 60,
		Description: now.AddDate(0, 0, -days).Format("02.01.2006"),
	}
}

// fuzzyMatch: не меньше половины слов фразы (длиннее 3 символов) встречаются в тексте.
func fuzzyMatch(phrase, text string) bool {
	words := strings.Fields(phrase)
	found := 0
	for _, w := range words {
		if len([]rune(w)) > 3 && strings.Contains(text, w) {
			found++
		}
	}
	return found > 0 && found*2 >= len(words)
}

func dateTime(lower string, now time.Time) (TimeExpr, bool) {
	m := dateRe.FindStringSubmatch(lower)
	if m == nil {
		return TimeExpr{}, false
	}
	d, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	y, _ := strconv.Atoi(m[3])

	paid := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, now.Location())
	// time.Date нормализует 31.02 в март; такие даты отбрасываем
	if paid.Day() != d || int(paid.Month()) != mo || paid.Year() != y {
		return TimeExpr{}, false
	}
	if paid.After(now) {
		return TimeExpr{}, false
	}

	days := int(now.Sub(paid) / (24 * time.Hour))
	return TimeExpr{
		Minutes:     days * 24 * 60,
		Description: fmt.Sprintf("%02d.%02d.%d", d, mo, y),
	}, true
}

// PaymentMethod: способ оплаты.
type PaymentMethod string

const (
	MethodMobileApp PaymentMethod = "mobile_app"
	MethodQRCode    PaymentMethod = "qr_code"
	MethodBankCard  PaymentMethod = "bank_card"
)

var methodLabels = map[PaymentMethod]string{
	MethodMobileApp: "мобильное приложение",
	MethodQRCode:    "QR-код",
	MethodBankCard:  "банковская карта",
}

func (m PaymentMethod) Label() string {
	if l, ok := methodLabels[m]; ok {
		return l
	}
	return "неизвестен"
}

var methodKeywords = []struct {
	method   PaymentMethod
	keywords []string
}{
	{MethodMobileApp, []string{"приложен", "приложени", "мобильн", "телефон", "приложении", "приложение", "апп", "app"}},
	{MethodQRCode, []string{"qr", "код", "qr-код", "кьюар", "кюар", "по qr"}},
	{MethodBankCard, []string{"карт", "картой", "карту", "карта", "карточк", "кард", "card"}},
}

// ExtractPaymentMethod: приложение проверяется раньше QR, QR раньше карты.
func ExtractPaymentMethod(text string) (PaymentMethod, bool) {
	lower := phrases.Normalize(text)
	for _, mk := range methodKeywords {
		if phrases.ContainsAny(lower, mk.keywords) {
			return mk.method, true
		}
	}
	return "", false
}

// ProblemType: категория проблемы с оплатой.
type ProblemType string

const (
	ProblemDoubleCharge   ProblemType = "double_charge"
	ProblemStatusPending  ProblemType = "money_taken_status_pending"
	ProblemReceiptMissing ProblemType = "receipt_not_received"
	ProblemPaymentFailed  ProblemType = "payment_failed"
	ProblemUnclearStatus  ProblemType = "unclear_status"
)

var problemKeywords = []struct {
	problem  ProblemType
	keywords []string
}{
	{ProblemDoubleCharge, []string{"дважды", "двойн", "два раза", "двойное", "списалась дважды"}},
	{ProblemStatusPending, []string{"списались", "статус ожидает оплаты", "статус не изменился"}},
	{ProblemReceiptMissing, []string{"чек не пришел", "кассовый чек", "email не пришел"}},
	{ProblemPaymentFailed, []string{"платеж не прошел", "деньги вернулись", "сначала списались"}},
	{ProblemUnclearStatus, []string{"ошибка в процессе оплаты", "не понятно прошел ли платеж", "ошибка при оплате"}},
}

func ClassifyPaymentProblem(text string) (ProblemType, bool) {
	lower := phrases.Normalize(text)
	for _, pk := range problemKeywords {
		if phrases.ContainsAny(lower, pk.keywords) {
			return pk.problem, true
		}
	}
	return "", false
}
