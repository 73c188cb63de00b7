package handler

import (
	"context"
	"fmt"
	"strings"

	"shopbot/internal/domain/model"
	"shopbot/internal/gateway"
)

func (h *Router) showCatalog(ctx context.Context, ev gateway.Event) {
	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		h.storeFailure(ctx, ev, err)
		return
	}

	kb := categoriesKeyboard(categories, "", []string{btnAllProducts, btnMainMenu})
	h.send(ctx, ev.ChatID, gateway.Message{Text: "Выберите категорию:", Reply: kb})
}

// カテゴリ選択。性別タグが2種類以上あればраздел選択を先に出す。
func (h *Router) showCategory(ctx context.Context, ev gateway.Event, category string) {
	genders, err := h.catalog.Subdivisions(ctx, category)
	if err != nil {
		h.storeFailure(ctx, ev, err)
		return
	}

	if len(genders) > 1 {
		h.sessions.SetBrowseCategory(ev.UserID, category)
		h.send(ctx, ev.ChatID, gateway.Message{Text: "Выберите раздел:", Reply: subdivisionKeyboard()})
		return
	}

	h.showProducts(ctx, ev, category, nil)
}

func (h *Router) showProducts(ctx context.Context, ev gateway.Event, category string, gender *model.Gender) {
	products, err := h.catalog.Products(ctx, category, gender)
	if err != nil {
		h.storeFailure(ctx, ev, err)
		return
	}

	if len(products) == 0 {
		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "Товаров в этой категории пока нет.",
			Reply: backKeyboard(),
		})
		return
	}

	// 写真のある最初の商品は写真付きで先に送る
	for _, p := range products {
		if p.Photo != nil {
			status := "❌ Нет в наличии"
			if p.Available() {
				status = "✅ В наличии"
			}
			h.send(ctx, ev.ChatID, gateway.Message{
				PhotoID: *p.Photo,
				Text:    fmt.Sprintf("📦 %s\n💰 Цена: %s сом\n%s", p.Name, p.Price.String(), status),
			})
			break
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📦 Товары (%d шт.):\n\n", len(products))

	var rows [][]string
	anyAvailable := false
	for _, p := range products {
		if p.Available() {
			anyAvailable = true
			fmt.Fprintf(&b, "✅ %s — %s сом\n", p.Name, p.Price.String())
			rows = append(rows, []string{fmt.Sprintf("%s%s — %s сом", addPrefix, p.Name, p.Price.String())})
		} else {
			fmt.Fprintf(&b, "❌ %s — %s сом (нет в наличии)\n", p.Name, p.Price.String())
		}
	}
	if !anyAvailable {
		b.WriteString("\nВсе товары временно отсутствуют.")
	}

	if h.isAdmin(ev.UserID) {
		rows = append(rows, []string{btnEditProduct, btnDeleteProduct})
	}
	rows = append(rows, []string{btnCart, btnBackToMenu})

	h.send(ctx, ev.ChatID, gateway.Message{
		Text:  b.String(),
		Reply: &gateway.ReplyKeyboard{Rows: rows},
	})
}

// 「Все товары」：カテゴリ順に全商品をまとめて出す。
func (h *Router) showAllProducts(ctx context.Context, ev gateway.Event) {
	products, err := h.catalog.AllProducts(ctx)
	if err != nil {
		h.storeFailure(ctx, ev, err)
		return
	}

	if len(products) == 0 {
		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "В магазине пока нет товаров.",
			Reply: backKeyboard(),
		})
		return
	}

	var b strings.Builder
	b.WriteString("📦 Все товары в магазине:\n")

	currentCategory := ""
	for _, p := range products {
		if p.Category != currentCategory {
			fmt.Fprintf(&b, "\n📂 %s:\n", p.Category)
			currentCategory = p.Category
		}
		status := "❌"
		if p.Available() {
			status = "✅"
		}
		fmt.Fprintf(&b, "%s %s — %s сом\n", status, p.Name, p.Price.String())
	}

	var rows [][]string
	if h.isAdmin(ev.UserID) {
		rows = append(rows, []string{btnEditProduct, btnDeleteProduct})
	}
	rows = append(rows, []string{btnCart, btnBackToMenu})

	h.send(ctx, ev.ChatID, gateway.Message{
		Text:  b.String(),
		Reply: &gateway.ReplyKeyboard{Rows: rows},
	})
}
