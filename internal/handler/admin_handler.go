package handler

import (
	"context"
	"fmt"
	"strings"

	"shopbot/internal/domain/model"
	"shopbot/internal/gateway"
)

func (h *Router) adminPanel(ctx context.Context, ev gateway.Event) {
	if !h.isAdmin(ev.UserID) {
		h.sendText(ctx, ev.ChatID, "⛔ У вас нет прав администратора.")
		return
	}

	h.send(ctx, ev.ChatID, gateway.Message{
		Text:  "👑 АДМИН-ПАНЕЛЬ\n\nВыберите действие:",
		Reply: adminKeyboard(),
	})
}

var auditActionTitles = map[model.AuditAction]string{
	model.AuditActionCreateProduct:     "добавил товар",
	model.AuditActionUpdateProduct:     "изменил товар",
	model.AuditActionDeleteProduct:     "удалил товар",
	model.AuditActionUpdateOrderStatus: "обновил статус заказа",
}

func (h *Router) showAuditLog(ctx context.Context, ev gateway.Event) {
	if !h.isAdmin(ev.UserID) {
		h.sendText(ctx, ev.ChatID, "⛔ У вас нет прав администратора.")
		return
	}

	entries, err := h.products.RecentActions(ctx, 15)
	if err != nil {
		h.storeFailure(ctx, ev, err)
		return
	}

	if len(entries) == 0 {
		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "📋 Журнал действий пуст.",
			Reply: adminKeyboard(),
		})
		return
	}

	var b strings.Builder
	b.WriteString("📋 ЖУРНАЛ ДЕЙСТВИЙ\n\n")
	for _, e := range entries {
		title := auditActionTitles[e.Action]
		if title == "" {
			title = string(e.Action)
		}
		fmt.Fprintf(&b, "• %s: админ %d %s (ID:%d)\n",
			e.CreatedAt.Format("02.01 15:04"), e.ActorUserID, title, e.ResourceID)
	}

	h.send(ctx, ev.ChatID, gateway.Message{Text: b.String(), Reply: adminKeyboard()})
}

func (h *Router) showStats(ctx context.Context, ev gateway.Event) {
	if !h.isAdmin(ev.UserID) {
		h.sendText(ctx, ev.ChatID, "⛔ У вас нет прав администратора.")
		return
	}

	stats, err := h.stats.Report(ctx)
	if err != nil {
		h.storeFailure(ctx, ev, err)
		return
	}

	var b strings.Builder
	b.WriteString("📊 СТАТИСТИКА МАГАЗИНА\n\n")
	fmt.Fprintf(&b, "📦 Всего товаров: %d\n", stats.TotalProducts)
	fmt.Fprintf(&b, "✅ В наличии: %d\n", stats.AvailableProducts)
	fmt.Fprintf(&b, "📊 Общий запас: %d шт.\n", stats.TotalStock)
	fmt.Fprintf(&b, "💰 Стоимость запасов: %s сом\n\n", stats.InventoryValue.String())
	fmt.Fprintf(&b, "🛍️ Всего заказов: %d\n", stats.TotalOrders)
	fmt.Fprintf(&b, "💵 Сумма продаж: %s сом\n\n", stats.TotalSales.String())

	if len(stats.Categories) > 0 {
		b.WriteString("📂 По категориям:\n")
		for _, c := range stats.Categories {
			fmt.Fprintf(&b, "• %s: %d товаров, %d шт., средняя цена %s сом\n",
				c.Category, c.Count, c.Stock, c.AvgPrice.StringFixed(2))
		}
		b.WriteString("\n")
	}

	if stats.ReviewCount > 0 {
		fmt.Fprintf(&b, "⭐ Отзывы: %d (средняя оценка %.1f)\n", stats.ReviewCount, stats.AvgRating)
	} else {
		b.WriteString("⭐ Отзывов пока нет\n")
	}

	h.send(ctx, ev.ChatID, gateway.Message{Text: b.String(), Reply: adminKeyboard()})
}
