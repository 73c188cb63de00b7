package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shopbot/internal/domain/model"
	"shopbot/internal/gateway"
	repo "shopbot/internal/repository"
	"shopbot/internal/session"
	"shopbot/internal/usecase"

	"github.com/shopspring/decimal"
)

// "… ID:5 - Название" 形式のラベルからIDを取り出す。
func parseIDLabel(text string) (int64, bool) {
	_, rest, ok := strings.Cut(text, "ID:")
	if !ok {
		return 0, false
	}
	idPart := rest
	if i := strings.Index(rest, " -"); i >= 0 {
		idPart = rest[:i]
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ==================== 追加 ====================

func (h *Router) startAddProduct(ctx context.Context, ev gateway.Event) {
	if !h.isAdmin(ev.UserID) {
		return
	}

	if err := h.sessions.Begin(ev.UserID, session.AddProduct{Step: session.AddStepCategory}); err != nil {
		h.sendText(ctx, ev.ChatID, "Сначала завершите или отмените текущую операцию.")
		return
	}

	h.send(ctx, ev.ChatID, gateway.Message{
		Text:  "➕ ДОБАВЛЕНИЕ ТОВАРА\n\nВведите название категории (например: Одежда, Электроника):",
		Reply: backKeyboard(),
	})
}

func (h *Router) addProductStep(ctx context.Context, ev gateway.Event, s session.AddProduct) {
	switch s.Step {
	case session.AddStepCategory:
		s.Draft.Category = strings.TrimSpace(ev.Text)
		s.Step = session.AddStepGender
		h.sessions.Set(ev.UserID, s)

		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "Выберите пол (для кого товар):",
			Reply: genderKeyboard(),
		})

	case session.AddStepGender:
		if ev.Text == btnSkip {
			s.Draft.Gender = nil
		} else if g, ok := genderLabels[ev.Text]; ok {
			s.Draft.Gender = &g
		} else {
			//既知ラベル以外はそのまま保存（元実装どおり）
			g := model.Gender(ev.Text)
			s.Draft.Gender = &g
		}
		s.Step = session.AddStepName
		h.sessions.Set(ev.UserID, s)

		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "📝 Введите название товара:",
			Reply: backKeyboard(),
		})

	case session.AddStepName:
		s.Draft.Name = strings.TrimSpace(ev.Text)
		s.Step = session.AddStepPrice
		h.sessions.Set(ev.UserID, s)

		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "💰 Введите цену товара (в сомах, только число):",
			Reply: backKeyboard(),
		})

	case session.AddStepPrice:
		price, err := decimal.NewFromString(strings.TrimSpace(ev.Text))
		if err != nil || !price.IsPositive() {
			//再入力を促し、ステップは進めない
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "❌ Неверная цена! Введите положительное число:",
				Reply: backKeyboard(),
			})
			return
		}
		s.Draft.Price = price
		s.Step = session.AddStepStock
		h.sessions.Set(ev.UserID, s)

		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "📦 Введите количество товара (только число):",
			Reply: backKeyboard(),
		})

	case session.AddStepStock:
		stock, err := strconv.ParseInt(strings.TrimSpace(ev.Text), 10, 64)
		if err != nil || stock < 0 {
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "❌ Неверное количество! Введите целое неотрицательное число:",
				Reply: backKeyboard(),
			})
			return
		}
		s.Draft.InStock = stock
		s.Step = session.AddStepPhoto
		h.sessions.Set(ev.UserID, s)

		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "📷 Хотите добавить фото товара?\nОтправьте фото или нажмите 'Пропустить фото':",
			Reply: photoKeyboard(),
		})

	case session.AddStepPhoto:
		switch {
		case ev.Text == btnSkipPhoto:
			s.Draft.Photo = nil
		case ev.PhotoID != "":
			photo := ev.PhotoID
			s.Draft.Photo = &photo
		case ev.Text == btnAddPhoto:
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "📎 Пожалуйста, отправьте фото товара:",
				Reply: backKeyboard(),
			})
			return
		default:
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "❌ Пожалуйста, отправьте фото или выберите действие:",
				Reply: photoKeyboard(),
			})
			return
		}

		s.Step = session.AddStepConfirm
		h.sessions.Set(ev.UserID, s)
		h.sendAddConfirmation(ctx, ev, s.Draft)

	case session.AddStepConfirm:
		if ev.Text == btnRejectAdd {
			//下書きを丸ごと破棄（項目単位の修正は無い）
			h.sessions.Reset(ev.UserID)
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "❌ Добавление товара отменено.",
				Reply: adminKeyboard(),
			})
			return
		}

		created, err := h.products.AddProduct(ctx, ev.UserID, usecase.AddProductInput{
			Category: s.Draft.Category,
			Gender:   s.Draft.Gender,
			Name:     s.Draft.Name,
			Price:    s.Draft.Price,
			InStock:  s.Draft.InStock,
			Photo:    s.Draft.Photo,
		})
		if err != nil {
			h.storeFailure(ctx, ev, err)
			return
		}

		h.sessions.Reset(ev.UserID)
		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  fmt.Sprintf("✅ Товар успешно добавлен!\nID товара: %d", created.ID),
			Reply: adminKeyboard(),
		})
	}
}

func (h *Router) sendAddConfirmation(ctx context.Context, ev gateway.Event, d session.ProductDraft) {
	gender := "Не указан"
	if d.Gender != nil {
		gender = string(*d.Gender)
	}
	photo := "Нет"
	if d.Photo != nil {
		photo = "Есть"
	}

	text := "✅ ПОДТВЕРЖДЕНИЕ ДОБАВЛЕНИЯ ТОВАРА\n\n" +
		fmt.Sprintf("📂 Категория: %s\n", d.Category) +
		fmt.Sprintf("👤 Пол: %s\n", gender) +
		fmt.Sprintf("📝 Название: %s\n", d.Name) +
		fmt.Sprintf("💰 Цена: %s сом\n", d.Price.String()) +
		fmt.Sprintf("📦 Количество: %d шт.\n", d.InStock) +
		fmt.Sprintf("📷 Фото: %s\n\n", photo) +
		"Всё верно?"

	h.send(ctx, ev.ChatID, gateway.Message{Text: text, Reply: confirmKeyboard()})
}

// ==================== 編集 ====================

func (h *Router) startEditProduct(ctx context.Context, ev gateway.Event) {
	if !h.isAdmin(ev.UserID) {
		return
	}

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		h.storeFailure(ctx, ev, err)
		return
	}
	if len(categories) == 0 {
		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "❌ Нет товаров для редактирования.",
			Reply: adminKeyboard(),
		})
		return
	}

	if err := h.sessions.Begin(ev.UserID, session.EditProduct{Step: session.EditStepChooseCategory}); err != nil {
		h.sendText(ctx, ev.ChatID, "Сначала завершите или отмените текущую операцию.")
		return
	}

	h.send(ctx, ev.ChatID, gateway.Message{
		Text:  "✏️ РЕДАКТИРОВАНИЕ ТОВАРА\n\nВыберите категорию для редактирования:",
		Reply: categoriesKeyboard(categories, editPrefix, []string{btnBack}),
	})
}

func (h *Router) editProductStep(ctx context.Context, ev gateway.Event, s session.EditProduct) {
	switch s.Step {
	case session.EditStepChooseCategory:
		category := strings.TrimPrefix(ev.Text, editPrefix)

		products, err := h.catalog.Products(ctx, category, nil)
		if err != nil {
			h.storeFailure(ctx, ev, err)
			return
		}
		if len(products) == 0 {
			h.sessions.Reset(ev.UserID)
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  fmt.Sprintf("❌ В категории '%s' нет товаров.", category),
				Reply: adminKeyboard(),
			})
			return
		}

		var b strings.Builder
		fmt.Fprintf(&b, "📦 Товары в категории '%s':\n\n", category)

		var rows [][]string
		for _, p := range products {
			status := "❌"
			if p.Available() {
				status = "✅"
			}
			fmt.Fprintf(&b, "%s ID:%d - %s (%s сом)\n", status, p.ID, p.Name, p.Price.String())
			rows = append(rows, []string{fmt.Sprintf("🔄 ID:%d - %s", p.ID, p.Name)})
		}
		rows = append(rows, []string{btnBack})

		s.Draft.Category = category
		s.Step = session.EditStepChooseProduct
		h.sessions.Set(ev.UserID, s)

		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  b.String(),
			Reply: &gateway.ReplyKeyboard{Rows: rows},
		})

	case session.EditStepChooseProduct:
		id, ok := parseIDLabel(ev.Text)
		if !ok {
			h.sessions.Reset(ev.UserID)
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "❌ Неверный формат. Выберите товар из списка.",
				Reply: adminKeyboard(),
			})
			return
		}

		p, err := h.catalog.ProductByID(ctx, id)
		if errors.Is(err, usecase.ErrNotFound) {
			//一覧表示後に消えた：ウィザードを中断してメニューへ
			h.sessions.Reset(ev.UserID)
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "❌ Товар не найден.",
				Reply: adminKeyboard(),
			})
			return
		}
		if err != nil {
			h.storeFailure(ctx, ev, err)
			return
		}

		s.Draft.ProductID = p.ID
		s.Step = session.EditStepChooseField
		h.sessions.Set(ev.UserID, s)

		gender := "Не указан"
		if p.Gender != nil {
			gender = string(*p.Gender)
		}
		photo := "Нет"
		if p.Photo != nil {
			photo = "Есть"
		}

		text := "✏️ РЕДАКТИРОВАНИЕ ТОВАРА\n\n" +
			fmt.Sprintf("ID: %d\n", p.ID) +
			fmt.Sprintf("Название: %s\n", p.Name) +
			fmt.Sprintf("Цена: %s сом\n", p.Price.String()) +
			fmt.Sprintf("Количество: %d шт.\n", p.InStock) +
			fmt.Sprintf("Категория: %s\n", p.Category) +
			fmt.Sprintf("Пол: %s\n", gender) +
			fmt.Sprintf("Фото: %s\n\n", photo) +
			"Выберите что редактировать:"

		h.send(ctx, ev.ChatID, gateway.Message{Text: text, Reply: editFieldKeyboard()})

	case session.EditStepChooseField:
		fieldMap := map[string]repo.ProductField{
			btnFieldName:     repo.ProductFieldName,
			btnFieldPrice:    repo.ProductFieldPrice,
			btnFieldStock:    repo.ProductFieldStock,
			btnFieldCategory: repo.ProductFieldCategory,
			btnFieldGender:   repo.ProductFieldGender,
			btnFieldPhoto:    repo.ProductFieldPhoto,
		}

		field, ok := fieldMap[ev.Text]
		if !ok {
			h.sessions.Reset(ev.UserID)
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "❌ Неверный выбор. Попробуйте снова.",
				Reply: adminKeyboard(),
			})
			return
		}

		s.Draft.Field = field
		s.Step = session.EditStepEnterValue
		h.sessions.Set(ev.UserID, s)

		if field == repo.ProductFieldPhoto {
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "📷 Отправьте новое фото товара (или отправьте 'удалить' чтобы удалить текущее фото):",
				Reply: backKeyboard(),
			})
		} else {
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  fmt.Sprintf("Введите новое значение для '%s':", ev.Text),
				Reply: backKeyboard(),
			})
		}

	case session.EditStepEnterValue:
		h.editProductSave(ctx, ev, s)
	}
}

// 項目ごとの検証は追加ウィザードと同じ規則。
func (h *Router) editProductSave(ctx context.Context, ev gateway.Event, s session.EditProduct) {
	var value any

	switch s.Draft.Field {
	case repo.ProductFieldPrice:
		price, err := decimal.NewFromString(strings.TrimSpace(ev.Text))
		if err != nil || !price.IsPositive() {
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "❌ Неверная цена! Введите положительное число:",
				Reply: backKeyboard(),
			})
			return
		}
		value = price

	case repo.ProductFieldStock:
		stock, err := strconv.ParseInt(strings.TrimSpace(ev.Text), 10, 64)
		if err != nil || stock < 0 {
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "❌ Неверное количество! Введите целое неотрицательное число:",
				Reply: backKeyboard(),
			})
			return
		}
		value = stock

	case repo.ProductFieldPhoto:
		switch {
		case strings.EqualFold(strings.TrimSpace(ev.Text), "удалить"):
			value = nil
		case ev.PhotoID != "":
			value = ev.PhotoID
		default:
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "❌ Пожалуйста, отправьте фото или 'удалить':",
				Reply: backKeyboard(),
			})
			return
		}

	case repo.ProductFieldGender:
		if strings.EqualFold(strings.TrimSpace(ev.Text), "удалить") {
			value = nil
		} else if g, ok := genderLabels[ev.Text]; ok {
			value = string(g)
		} else {
			value = ev.Text
		}

	default:
		value = ev.Text
	}

	err := h.products.UpdateField(ctx, ev.UserID, s.Draft.ProductID, s.Draft.Field, value)
	if errors.Is(err, usecase.ErrNotFound) {
		h.sessions.Reset(ev.UserID)
		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "❌ Товар не найден.",
			Reply: adminKeyboard(),
		})
		return
	}
	if err != nil {
		h.storeFailure(ctx, ev, err)
		return
	}

	h.sessions.Reset(ev.UserID)
	h.send(ctx, ev.ChatID, gateway.Message{
		Text: fmt.Sprintf("✅ Товар ID:%d успешно обновлен!\nИзменено поле: %s",
			s.Draft.ProductID, fieldTitles[s.Draft.Field]),
		Reply: adminKeyboard(),
	})
}

var fieldTitles = map[repo.ProductField]string{
	repo.ProductFieldName:     "Название",
	repo.ProductFieldPrice:    "Цена",
	repo.ProductFieldStock:    "Количество",
	repo.ProductFieldCategory: "Категория",
	repo.ProductFieldGender:   "Пол",
	repo.ProductFieldPhoto:    "Фото",
}

// ==================== 削除 ====================

func (h *Router) startDeleteProduct(ctx context.Context, ev gateway.Event) {
	if !h.isAdmin(ev.UserID) {
		return
	}

	products, err := h.catalog.AllProducts(ctx)
	if err != nil {
		h.storeFailure(ctx, ev, err)
		return
	}
	if len(products) == 0 {
		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "❌ Нет товаров для удаления.",
			Reply: adminKeyboard(),
		})
		return
	}

	if err := h.sessions.Begin(ev.UserID, session.DeleteProduct{}); err != nil {
		h.sendText(ctx, ev.ChatID, "Сначала завершите или отмените текущую операцию.")
		return
	}

	var b strings.Builder
	b.WriteString("❌ УДАЛЕНИЕ ТОВАРА\n\n")

	var rows [][]string
	for _, p := range products {
		fmt.Fprintf(&b, "ID:%d - %s (%s) - %s сом\n", p.ID, p.Name, p.Category, p.Price.String())
		rows = append(rows, []string{fmt.Sprintf("🗑️ ID:%d - %s", p.ID, p.Name)})
	}
	rows = append(rows, []string{btnCancelDelete})

	h.send(ctx, ev.ChatID, gateway.Message{
		Text:  b.String(),
		Reply: &gateway.ReplyKeyboard{Rows: rows},
	})
}

// 選択即削除。二段確認は無く、唯一の逃げ道はキャンセルボタン。
func (h *Router) deleteProductStep(ctx context.Context, ev gateway.Event) {
	id, ok := parseIDLabel(ev.Text)
	if !ok {
		//再入力待ち。一覧のキーボードはそのまま
		h.sendText(ctx, ev.ChatID, "❌ Неверный формат. Выберите товар из списка.")
		return
	}

	deleted, err := h.products.DeleteProduct(ctx, ev.UserID, id)
	if errors.Is(err, usecase.ErrNotFound) {
		//一覧表示後に消えた：ウィザードを中断してメニューへ
		h.sessions.Reset(ev.UserID)
		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "❌ Товар не найден.",
			Reply: adminKeyboard(),
		})
		return
	}
	if err != nil {
		h.storeFailure(ctx, ev, err)
		return
	}

	h.sessions.Reset(ev.UserID)
	h.send(ctx, ev.ChatID, gateway.Message{
		Text:  fmt.Sprintf("✅ Товар '%s' (ID:%d) успешно удален!", deleted.Name, deleted.ID),
		Reply: adminKeyboard(),
	})
}
