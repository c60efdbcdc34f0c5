package intent

const welcomeText = "Добро пожаловать в поддержку Intickets!\n\n" +
	"Я ваш AI-помощник. Помогу с:\n" +
	"• Покупкой и оплатой билетов\n" +
	"• Возвратом билетов\n" +
	"• Ответами на вопросы\n\n" +
	"Просто напишите ваш вопрос или используйте кнопки ниже!\n\n" +
	"🔄 Чтобы перезапустить бот, используйте команду /restart или кнопку \"🔄 Перезапустить\""

const restartText = "🔄 Бот перезапущен!\n\n" +
	"Все активные сессии очищены. Чем могу помочь?\n\n" +
	"Выберите действие или напишите вопрос:"

const aboutText = "🤖 Обо мне:\n\n" +
	"Я AI-помощник службы поддержки Intickets. Вот что я умею:\n\n" +
	"💳 Помощь с оплатой:\n" +
	"• Проверка статуса платежа\n" +
	"• Решение проблем с двойным списанием\n" +
	"• Восстановление чеков\n" +
	"• Консультация по способам оплаты\n\n" +
	"🎫 Работа с билетами:\n" +
	"• Проверка статуса заказа\n" +
	"• Восстановление билетов\n" +
	"• Повторная отправка на email\n" +
	"• Консультация по получению\n\n" +
	"🔄 Возвраты:\n" +
	"• Оформление возврата билетов\n" +
	"• Консультация по условиям возврата\n" +
	"• Помощь с возвратом ошибочных покупок\n" +
	"• Частичный возврат\n\n" +
	"📞 Связь с оператором:\n" +
	"• Быстрый вызов специалиста\n" +
	"• Помощь в сложных ситуациях\n" +
	"• Консультация по уникальным случаям\n\n" +
	"Я постоянно учусь и улучшаюсь, чтобы помогать вам лучше! ✨"

const purchaseText = "🎫 Как купить билеты:\n\n" +
	"1. Перейдите на официальный сайт наших партнеров (Театр Моссовета, Сфера и др.)\n" +
	"2. Выберите мероприятие и дату\n" +
	"3. Выберите места в зале\n" +
	"4. Заполните данные для получения билетов\n" +
	"5. Оплатите заказ картой или другим способом\n" +
	"6. Билеты придут на указанный email\n\n" +
	"Если возникли проблемы с оплатой или билеты не пришли - обращайтесь!"

const helpText = "🆘 Помощь\n\n" +
	"Частые вопросы и разделы:\n\n" +
	"💳 Проблемы с оплатой - помощь с платежами\n" +
	"🔄 Возврат билетов - условия и процедура возврата\n" +
	"📧 Билеты не пришли/Восстановить - решение проблем с доставкой\n" +
	"🎫 Как купить билеты - инструкция по покупке\n\n" +
	"Дополнительные опции:\n" +
	"📞 Связаться с оператором - связь со специалистом\n" +
	"🌐 Сайт Intickets - официальные ресурсы\n" +
	"🔄 Перезапустить - очистить все сессии\n\n" +
	"Выберите нужный раздел или напишите вопрос!"

const siteText = "🌐 Официальные ресурсы Intickets:\n\n" +
	"• Основной сайт: https://intickets.ru\n" +
	"• FAQ с вопросами: https://intickets.ru/faq\n" +
	"• Поддержка: support@intickets.ru\n\n" +
	"Выберите нужный раздел или задайте вопрос!"

const backText = "Главное меню. Чем могу помочь?"

const dissatisfactionText = "Понимаю ваше недовольство. Сейчас подключу оператора для решения вопроса!"

const needHelpText = "Понимаю, что вам сложно разобраться самостоятельно!\n\n" +
	"📞 Подключаю оператора для помощи\n" +
	"⏰ Ожидайте ответа в течение 2-5 минут\n\n" +
	"Оператор поможет разобраться с вашей проблемой и найдет решение!"

const clarifyOrderText = "🔍 Вижу, что вы ввели номер заказа: %s\n\n" +
	"Что именно вас интересует?\n\n" +
	"• Проверить статус заказа\n" +
	"• Проблема с билетами\n" +
	"• Вопрос по оплате\n" +
	"• Возврат билетов\n\n" +
	"Опишите, пожалуйста, вашу проблему подробнее, чтобы я мог помочь эффективнее."

const notUnderstoodText = "🤔 Не совсем понял ваш вопрос. Чем могу помочь?\n\n" +
	"Выберите один из вариантов:\n\n" +
	"💳 Проблема с оплатой - помощь с платежами и возвратами\n" +
	"📧 Билеты не пришли - восстановление и повторная отправка\n" +
	"🔄 Возврат билетов - оформление возврата\n" +
	"🎫 Как купить билеты - инструкция по покупке\n" +
	"📞 Оператор - связь со специалистом\n\n" +
	"Или просто опишите вашу проблему подробнее!"

// ErrorText: ответ на непредвиденную ошибку обработки.
const ErrorText = "Произошла ошибка. Попробуйте еще раз или используйте кнопки ниже."

var thanksReplies = []string{
	"Ого, спасибо за такие теплые слова! 😊 Очень приятно слышать! Рад, что смог помочь!",
	"Вау, спасибо за комплимент! 🤗 Это мотивирует становиться еще лучше!",
	"Офигенно! Спасибо за отзыв! 🎉 Рад, что все работает как надо!",
	"Благодарю за добрые слова! 😇 Очень приятно помогать таким отзывчивым пользователям!",
	"Спасибо! Вы делаете мой день лучше! ✨ Рад, что смог быть полезен!",
	"Вау, как приятно! Спасибо за обратную связь! 🌟 Продолжаем в том же духе!",
	"Огромное спасибо! Такие слова вдохновляют на новые свершения! 🚀",
	"Благодарю! Очень рад, что вам понравилось! 😎 Буду и дальше стараться!",
	"Спасибо за высокую оценку! 💫 Это лучшая награда для меня!",
	"Вау, я растроган! Спасибо за такие слова! 🥰 Буду и дальше помогать!",
}

var farewellReplies = []string{
	"Хорошо! Если возникнут вопросы - обращайтесь! Хорошего дня! 👋",
	"Понял! Буду рад помочь снова, если понадобится. Всего доброго! 😊",
	"Ясно! Не стесняйтесь обращаться, если нужна помощь. До свидания! 👍",
	"Окей! Желаю удачного дня! Если что-то понадобится - я здесь 🤗",
}

var positiveReplies = []string{
	"Отлично! Чем еще могу помочь? Выберите действие или напишите вопрос! 😊",
	"Рад помочь! Что вас интересует? Можете выбрать кнопку ниже или задать вопрос! 👍",
	"Хорошо! Расскажите, с чем нужна помощь? Я здесь, чтобы помочь! 🤗",
	"Отлично! Чем могу быть полезен? Выберите раздел или опишите проблему! 💫",
}
