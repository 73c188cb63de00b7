package handler

import (
	"shopbot/internal/domain/model"
	"shopbot/internal/gateway"
	"shopbot/internal/usecase"
)

// ボタンラベル。受信テキストはこれらと完全一致で照合する。
const (
	btnCatalog    = "📦 Каталог"
	btnCart       = "🛒 Корзина"
	btnContacts   = "📞 Контакты"
	btnAbout      = "ℹ️ О нас"
	btnReviews    = "⭐ Отзывы"
	btnAdminPanel = "👑 Админ-панель"

	btnBack             = "⬅️ Назад"
	btnMainMenu         = "⬅️ Главное меню"
	btnBackToMenu       = "⬅️ Назад в меню"
	btnCancelDelete     = "⬅️ Отмена"
	btnContinueShopping = "⬅️ Продолжить покупки"

	btnAddProduct    = "➕ Добавить товар"
	btnEditProduct   = "✏️ Редактировать товар"
	btnDeleteProduct = "❌ Удалить товар"
	btnStats         = "📊 Статистика"
	btnAuditLog      = "📋 Журнал действий"

	btnAllProducts = "📦 Все товары"

	btnCheckout  = "✅ Оформить заказ"
	btnClearCart = "🔄 Очистить корзину"

	btnGenderMale   = "👕 Мужское"
	btnGenderFemale = "👚 Женское"
	btnGenderKids   = "👶 Детское"
	btnGenderUnisex = "👥 Унисекс"
	btnSkip         = "Пропустить ➡️"
	btnAddPhoto     = "📷 Добавить фото"
	btnSkipPhoto    = "Пропустить фото ➡️"

	btnConfirmAdd = "✅ Да, добавить товар"
	btnRejectAdd  = "❌ Нет, отменить"

	btnFieldName     = "📝 Название"
	btnFieldPrice    = "💰 Цена"
	btnFieldStock    = "📦 Количество"
	btnFieldCategory = "📂 Категория"
	btnFieldGender   = "👤 Пол"
	btnFieldPhoto    = "📷 Фото"

	btnPayCash = "💵 Наличные"
	btnPayCard = "💳 Карта"

	btnLeaveReview = "✍️ Оставить отзыв"
)

// カートに入れるボタンの接頭辞（"➕ Название — цена"）。
const addPrefix = "➕ "

// 編集のカテゴリ選択ボタンの接頭辞。
const editPrefix = "✏️ "

// ボタンラベルと性別タグの対応。
var genderLabels = map[string]model.Gender{
	btnGenderMale:   model.GenderMale,
	btnGenderFemale: model.GenderFemale,
	btnGenderKids:   model.GenderKids,
	btnGenderUnisex: model.GenderUnisex,
}

// インラインの注文アクション。
var orderActionLabels = map[usecase.OrderAction]string{
	usecase.OrderActionConfirm:  "✅ Подтвердить",
	usecase.OrderActionShip:     "🚚 Отправить",
	usecase.OrderActionComplete: "🎉 Завершить",
	usecase.OrderActionCancel:   "❌ Отменить",
}

func mainKeyboard(isAdmin bool) *gateway.ReplyKeyboard {
	rows := [][]string{
		{btnCatalog, btnCart},
		{btnContacts, btnAbout},
		{btnReviews, btnLeaveReview},
	}
	if isAdmin {
		rows = append(rows, []string{btnAdminPanel})
	}
	return &gateway.ReplyKeyboard{Rows: rows}
}

func backKeyboard() *gateway.ReplyKeyboard {
	return &gateway.ReplyKeyboard{Rows: [][]string{{btnBack}}}
}

func adminKeyboard() *gateway.ReplyKeyboard {
	return &gateway.ReplyKeyboard{Rows: [][]string{
		{btnAddProduct, btnEditProduct},
		{btnDeleteProduct, btnStats},
		{btnAuditLog},
		{btnMainMenu},
	}}
}

// カテゴリを2個ずつ並べる。
func categoriesKeyboard(categories []string, prefix string, lastRow []string) *gateway.ReplyKeyboard {
	var rows [][]string
	var row []string
	for i, c := range categories {
		row = append(row, prefix+c)
		if (i+1)%2 == 0 || i == len(categories)-1 {
			rows = append(rows, row)
			row = nil
		}
	}
	rows = append(rows, lastRow)
	return &gateway.ReplyKeyboard{Rows: rows}
}

func cartKeyboard() *gateway.ReplyKeyboard {
	return &gateway.ReplyKeyboard{Rows: [][]string{
		{btnCheckout, btnClearCart},
		{btnContinueShopping},
	}}
}

func subdivisionKeyboard() *gateway.ReplyKeyboard {
	return &gateway.ReplyKeyboard{Rows: [][]string{
		{btnGenderMale, btnGenderFemale},
		{btnGenderKids, btnAllProducts},
		{btnBack},
	}}
}

func genderKeyboard() *gateway.ReplyKeyboard {
	return &gateway.ReplyKeyboard{Rows: [][]string{
		{btnGenderMale, btnGenderFemale},
		{btnGenderKids, btnGenderUnisex},
		{btnSkip},
	}}
}

func photoKeyboard() *gateway.ReplyKeyboard {
	return &gateway.ReplyKeyboard{Rows: [][]string{
		{btnAddPhoto},
		{btnSkipPhoto},
		{btnBack},
	}}
}

func confirmKeyboard() *gateway.ReplyKeyboard {
	return &gateway.ReplyKeyboard{Rows: [][]string{
		{btnConfirmAdd},
		{btnRejectAdd},
	}}
}

func editFieldKeyboard() *gateway.ReplyKeyboard {
	return &gateway.ReplyKeyboard{Rows: [][]string{
		{btnFieldName, btnFieldPrice},
		{btnFieldStock, btnFieldCategory},
		{btnFieldGender, btnFieldPhoto},
		{btnBack},
	}}
}

func paymentKeyboard() *gateway.ReplyKeyboard {
	return &gateway.ReplyKeyboard{Rows: [][]string{
		{btnPayCash, btnPayCard},
		{btnBack},
	}}
}

func ratingKeyboard() *gateway.ReplyKeyboard {
	return &gateway.ReplyKeyboard{Rows: [][]string{
		{"1⭐", "2⭐", "3⭐", "4⭐", "5⭐"},
		{btnBack},
	}}
}

// 注文ライフサイクル操作のインラインボタン。
func orderActionsKeyboard(orderID int64) *gateway.InlineKeyboard {
	row1 := []gateway.InlineButton{
		{Label: orderActionLabels[usecase.OrderActionConfirm], Data: gateway.EncodeCallback(string(usecase.OrderActionConfirm), orderID)},
		{Label: orderActionLabels[usecase.OrderActionCancel], Data: gateway.EncodeCallback(string(usecase.OrderActionCancel), orderID)},
	}
	row2 := []gateway.InlineButton{
		{Label: orderActionLabels[usecase.OrderActionShip], Data: gateway.EncodeCallback(string(usecase.OrderActionShip), orderID)},
		{Label: orderActionLabels[usecase.OrderActionComplete], Data: gateway.EncodeCallback(string(usecase.OrderActionComplete), orderID)},
	}
	return &gateway.InlineKeyboard{Rows: [][]gateway.InlineButton{row1, row2}}
}
