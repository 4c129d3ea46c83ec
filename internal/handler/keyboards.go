package handler

import (
	"github.com/go-telegram/bot/models"
)

// Callback data of inline buttons.
const (
	cbRoleClient = "role:client"
	cbRoleDriver = "role:driver"
	cbRolePrefix = "role:"
	cbMenuMain   = "menu:main"
	cbOrder      = "c:order"
	cbSwitchRole = "c:switch_role"
	cbOrderText  = "order:text"
	cbDriverGeo  = "d:geo"
	cbDriverReg  = "d:reg"
)

// Reply-keyboard button texts recognized as shortcuts.
const (
	btnSendPhone  = "📱 Отправить телефон"
	btnSendGeo    = "📍 Отправить геопозицию"
	btnBack       = "⬅️ Назад"
	btnSwitchRole = "🔁 Сменить роль"
	btnMap        = "🗺️ Карта (MiniApp)"
)

func (h *Handler) phoneKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: btnSendPhone, RequestContact: true}},
		},
		IsPersistent:    true,
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

func (h *Handler) driverGeoKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: btnSendGeo, RequestLocation: true}},
			{{Text: btnBack}},
		},
		IsPersistent:   true,
		ResizeKeyboard: true,
	}
}

func (h *Handler) roleKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "🙋 Я клиент", CallbackData: cbRoleClient}},
			{{Text: "🚖 Я водитель", CallbackData: cbRoleDriver}},
		},
	}
}

func (h *Handler) mapButton(text string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:   text,
		WebApp: &models.WebAppInfo{URL: h.cfg.MiniAppURL()},
	}
}

func (h *Handler) openMapKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{h.mapButton("🗺️ Открыть карту")},
			{{Text: "⬅️ В меню", CallbackData: cbMenuMain}},
		},
	}
}

func (h *Handler) clientMenu() *models.InlineKeyboardMarkup {
	rows := [][]models.InlineKeyboardButton{
		{{Text: "🚕 Заказать", CallbackData: cbOrder}},
		{h.mapButton(btnMap)},
		{{Text: btnSwitchRole, CallbackData: cbSwitchRole}},
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: h.withVPN(rows)}
}

func (h *Handler) driverMenu() *models.InlineKeyboardMarkup {
	rows := [][]models.InlineKeyboardButton{
		{{Text: "📍 Поделиться гео", CallbackData: cbDriverGeo}},
		{h.mapButton(btnMap)},
		{{Text: "🧑‍✈️ Стать водителем", CallbackData: cbDriverReg}},
		{{Text: btnSwitchRole, CallbackData: cbSwitchRole}},
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: h.withVPN(rows)}
}

func (h *Handler) withVPN(rows [][]models.InlineKeyboardButton) [][]models.InlineKeyboardButton {
	if h.cfg.VPNBotLink == "" {
		return rows
	}
	return append(rows, []models.InlineKeyboardButton{{Text: "🛡️ Обход/ВПН", URL: h.cfg.VPNBotLink}})
}

func (h *Handler) orderMenu() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{h.mapButton("🗺️ Оформить через карту")},
			{{Text: "📝 Оформить текстом", CallbackData: cbOrderText}},
			{{Text: btnBack, CallbackData: cbMenuMain}},
		},
	}
}

func (h *Handler) backToMenuKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "⬅️ В меню", CallbackData: cbMenuMain}},
		},
	}
}

func (h *Handler) driverRegKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "🧑‍✈️ Стать водителем", URL: h.cfg.DriverRegLink}},
			{{Text: "⬅️ В меню", CallbackData: cbMenuMain}},
		},
	}
}
