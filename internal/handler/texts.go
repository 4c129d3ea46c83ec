package handler

const (
	textAskPhone = "Чтобы начать работу, отправьте номер телефона (кнопка ниже).\n" +
		"Роль можно будет менять в любой момент."
	textForeignContact = "Пожалуйста, отправьте свой телефон кнопкой ниже."
	textInvalidPhone   = "Нужен российский номер: 11 цифр, начиная с 7 или 8. Отправьте телефон кнопкой ниже."
	textPhoneAccepted  = "Номер принят ✅ Теперь выберите роль:"
	textChooseRole     = "Выберите, кто вы:"
	textChooseNewRole  = "Выберите новую роль:"
	textMenuReady      = "Готово ✅ Текущая роль: %s"
	textOpenMenu       = "Откройте меню ниже."
	textOpenMap        = "Открывай карту:"

	textOrderHow        = "Как оформить заказ?"
	textOrderClientOnly = "Заказ доступен только для клиента. Смените роль."
	textTextOrderOnly   = "Текстовый заказ доступен только клиенту."
	textOrderByText     = "📝 Текстовый заказ\n\n" +
		"Отправьте одним сообщением маршрут в формате:\n" +
		"Откуда -> Остановка (опционально) -> Куда\n\n" +
		"Пример:\n" +
		"Вилючинск, Профсоюзная 10 -> Петропавловск-Камчатский, Аэропорт\n\n" +
		"Комментарий можно добавить через | (палка).\n" +
		"Пример: ... -> ... | Детское кресло"
	textRouteNotUnderstood = "Не понял маршрут. Пример: Адрес 1 -> Адрес 2"
	textOrdersClientOnly   = "Заказы создаёт только клиент."
	textMiniAppMalformed   = "Не смог прочитать данные с карты. Попробуйте ещё раз."
	textMiniAppEndpoints   = "Нужно указать Откуда и Куда."
	textOrderFailed        = "Ошибка создания заказа: %s"
	textOrderCreated       = "✅ Заказ создан. ID: %s\nОткуда: %s\nКуда: %s\nОжидайте назначения водителя."

	textDriverOnlyButton = "Эта кнопка для водителей. Смените роль."
	textSendGeo          = "Нажмите кнопку ниже и отправьте геопозицию:"
	textGeoDriversOnly   = "Геопозицию принимаю только от водителей."
	textGeoUpdated       = "✅ Геопозиция водителя обновлена."
	textKeyboardClosed   = "✅"
	textGeoFailed        = "Не удалось отправить геопозицию: %s\nПопробуйте ещё раз."
	textDriverReg        = "Регистрация водителя:"
	textDriverRegMissing = "Ссылка на регистрацию водителя пока не настроена."

	textPhoneFailed = "Не удалось сохранить телефон: %s\nПопробуйте ещё раз."
	textRoleFailed  = "Не удалось сохранить роль: %s\nПопробуйте ещё раз."
)
