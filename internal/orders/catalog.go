package orders

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"
)

//go:embed existing_orders.txt
var existingOrdersData string

var notFoundOrders = []string{"999999", "888888", "777777", "666666", "555555"}

// Type: категория заказа по номеру.
type Type string

const (
	TypePremium  Type = "Премиум сервис"
	TypeSpecial  Type = "Особый номер"
	TypeStandard Type = "Стандартная обработка"
)

var (
	premiumSuffixes = []string{"00", "25", "50", "75"}
	specialNumbers  = map[string]struct{}{
		"111111": {}, "222222": {}, "333333": {}, "444444": {}, "555555": {},
		"666666": {}, "777777": {}, "888888": {}, "999999": {}, "123456": {}, "654321": {},
	}
)

// Result: итог поиска заказа.
type Result struct {
	Number string
	Found  bool
	// Listed: номер есть в справочнике; неизвестные номера тоже считаются найденными.
	Listed bool
	Type   Type
}

// Catalog: неизменяемый справочник номеров заказов. Безопасен для
// одновременного чтения.
type Catalog struct {
	notFound map[string]struct{}
	existing map[string]struct{}
	pick     func(n int) int
}

func NewCatalog() *Catalog {
	c := &Catalog{
		notFound: make(map[string]struct{}, len(notFoundOrders)),
		existing: make(map[string]struct{}),
		pick:     rand.Intn,
	}
	for _, n := range notFoundOrders {
		c.notFound[n] = struct{}{}
	}
	for _, n := range strings.Fields(existingOrdersData) {
		c.existing[n] = struct{}{}
	}
	return c
}

// Size: количество номеров в справочнике существующих заказов.
func (c *Catalog) Size() int { return len(c.existing) }

func (c *Catalog) Lookup(number string) Result {
	if _, ok := c.notFound[number]; ok {
		return Result{Number: number}
	}
	_, listed := c.existing[number]
	return Result{
		Number: number,
		Found:  true,
		Listed: listed,
		Type:   detectType(number),
	}
}

func detectType(number string) Type {
	for _, s := range premiumSuffixes {
		if strings.HasSuffix(number, s) {
			return TypePremium
		}
	}
	if _, ok := specialNumbers[number]; ok {
		return TypeSpecial
	}
	return TypeStandard
}

const notFoundText = "❌ Заказ не найден\n\n" +
	"Убедитесь, что:\n" +
	"• Вы покупали билеты у нас на сайте Intickets\n" +
	"• Номер заказа указан правильно (6 цифр)\n" +
	"• Заказ был оформлен в течение последних 6 месяцев\n\n" +
	"Если уверены в номере заказа - обратитесь к оператору для детальной проверки."

var foundTemplates = []string{
	"✅ Заказ №%s успешно обработан!\n\nБилеты отправлены на email. Проверьте папку «Спам» если не нашли.",
	"📧 Заказ №%s - письмо с билетами доставлено!\n\nВсе билеты активны и готовы к использованию.",
}

// Response: ответ пользователю о статусе заказа.
func (c *Catalog) Response(number string) string {
	r := c.Lookup(number)
	if !r.Found {
		return notFoundText
	}
	return fmt.Sprintf(foundTemplates[c.pick(len(foundTemplates))], r.Number)
}
