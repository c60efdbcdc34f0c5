package intent

// Keyboard: какую клавиатуру показать вместе с ответом.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardMain
	KeyboardHelp
)

const (
	ButtonPayment  = "💳 Проблема с оплатой"
	ButtonRefund   = "🔄 Возврат билетов"
	ButtonRecovery = "📧 Билеты не пришли/Восстановить"
	ButtonPurchase = "🎫 Как купить билеты"
	ButtonHelp     = "🆘 Помощь"
	ButtonRestart  = "🔄 Перезапустить"
	ButtonOperator = "📞 Связаться с оператором"
	ButtonSite     = "🌐 Сайт Intickets"
	ButtonBack     = "⬅️ Назад"
)

// Layout: раскладка кнопок для транспорта.
type Layout struct {
	Rows        [][]string
	Placeholder string
}

var layouts = map[Keyboard]Layout{
	KeyboardMain: {
		Rows: [][]string{
			{ButtonPayment, ButtonRefund},
			{ButtonRecovery, ButtonPurchase},
			{ButtonHelp, ButtonRestart},
		},
		Placeholder: "Выберите действие или напишите вопрос...",
	},
	KeyboardHelp: {
		Rows: [][]string{
			{ButtonOperator, ButtonSite},
			{ButtonBack},
		},
		Placeholder: "Выберите вопрос или напишите свой...",
	},
}

// Layout возвращает раскладку; для KeyboardNone ok=false.
func (k Keyboard) Layout() (Layout, bool) {
	l, ok := layouts[k]
	return l, ok
}

func (k Keyboard) String() string {
	switch k {
	case KeyboardMain:
		return "main"
	case KeyboardHelp:
		return "help"
	default:
		return "none"
	}
}

// Reply: ответ пользователю.
type Reply struct {
	Text     string
	Keyboard Keyboard
}

func mainReply(text string) Reply { return Reply{Text: text, Keyboard: KeyboardMain} }
func helpReply(text string) Reply { return Reply{Text: text, Keyboard: KeyboardHelp} }
