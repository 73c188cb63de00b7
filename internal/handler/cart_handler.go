package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopbot/internal/gateway"
	"shopbot/internal/usecase"
)

// "➕ Название — цена" から商品名を取り出して1点追加する。
func (h *Router) addToCart(ctx context.Context, ev gateway.Event) {
	name := strings.TrimPrefix(ev.Text, addPrefix)
	if i := strings.Index(name, " — "); i >= 0 {
		name = name[:i]
	}

	out, err := h.cart.Add(ctx, ev.UserID, name)

	var capErr *usecase.CapacityError
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		h.sendText(ctx, ev.ChatID, "Товар не найден!")
		return
	case errors.Is(err, usecase.ErrOutOfStock):
		h.sendText(ctx, ev.ChatID, "Этот товар закончился!")
		return
	case errors.As(err, &capErr):
		h.sendText(ctx, ev.ChatID, fmt.Sprintf("❌ Нельзя добавить больше %d шт. этого товара!", capErr.InStock))
		return
	case err != nil:
		h.storeFailure(ctx, ev, err)
		return
	}

	h.sendText(ctx, ev.ChatID, fmt.Sprintf("✅ %s добавлен в корзину!", out.ProductName))
	if out.Units > 0 {
		h.sendText(ctx, ev.ChatID, fmt.Sprintf("🛒 В корзине: %d товар(ов)", out.Units))
	}
}

func (h *Router) showCart(ctx context.Context, ev gateway.Event) {
	rows, err := h.cart.List(ctx, ev.UserID)
	if err != nil {
		h.storeFailure(ctx, ev, err)
		return
	}

	if len(rows) == 0 {
		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "🛒 Ваша корзина пуста!",
			Reply: mainKeyboard(h.isAdmin(ev.UserID)),
		})
		return
	}

	var b strings.Builder
	b.WriteString("🛒 Ваша корзина:\n\n")

	hasUnavailable := false
	for _, r := range rows {
		status := "✅"
		if !r.WithinStock() {
			status = "⚠️"
			hasUnavailable = true
		}

		fmt.Fprintf(&b, "%s %s\n", status, r.Name)
		fmt.Fprintf(&b, "   Цена: %s сом x %d = %s сом\n", r.Price.String(), r.Quantity, r.LineTotal().String())
		fmt.Fprintf(&b, "   [ID:%d]", r.CartItemID)
		if !r.WithinStock() {
			fmt.Fprintf(&b, " (максимум %d шт.)\n", r.InStock)
		} else {
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\n💵 Итого: %s сом", usecase.Subtotal(rows).String())

	if hasUnavailable {
		b.WriteString("\n\n⚠️ Некоторые товары недоступны в выбранном количестве!")
	}

	h.send(ctx, ev.ChatID, gateway.Message{Text: b.String(), Reply: cartKeyboard()})
}

func (h *Router) clearCart(ctx context.Context, ev gateway.Event) {
	if err := h.cart.Clear(ctx, ev.UserID); err != nil {
		h.storeFailure(ctx, ev, err)
		return
	}

	h.send(ctx, ev.ChatID, gateway.Message{
		Text:  "✅ Корзина очищена!",
		Reply: mainKeyboard(h.isAdmin(ev.UserID)),
	})
}
