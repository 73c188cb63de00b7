package handler

import (
	"context"
	"errors"
	"fmt"

	"shopbot/internal/domain/model"
	"shopbot/internal/gateway"
	"shopbot/internal/usecase"
)

var statusLabels = map[model.OrderStatus]string{
	model.OrderStatusPending:   "⏳ Ожидает подтверждения",
	model.OrderStatusConfirmed: "✅ Подтвержден",
	model.OrderStatusShipped:   "🚚 Отправлен",
	model.OrderStatusCompleted: "🎉 Завершен",
	model.OrderStatusCancelled: "❌ Отменен",
}

// 購入者に届くステータス別の文面。キーに無いステータスは通知しない。
var buyerStatusTexts = map[model.OrderStatus]string{
	model.OrderStatusConfirmed: "✅ Ваш заказ #%d подтвержден! Мы начали его собирать.",
	model.OrderStatusShipped:   "🚚 Ваш заказ #%d передан в доставку!",
	model.OrderStatusCompleted: "🎉 Ваш заказ #%d доставлен! Спасибо за покупку!",
	model.OrderStatusCancelled: "❌ Ваш заказ #%d отменен. Свяжитесь с нами, если остались вопросы.",
}

// インラインボタン経由の注文アクション。
// 成功時：元メッセージを書き換え、購入者へ1通だけ通知する。
func (h *Router) handleOrderAction(ctx context.Context, ev gateway.Event) {
	if !h.isAdmin(ev.UserID) {
		h.sendText(ctx, ev.ChatID, "⛔ У вас нет прав администратора.")
		return
	}

	action := usecase.OrderAction(ev.Callback.Action)
	orderID := ev.Callback.ID

	out, err := h.orders.ApplyAction(ctx, ev.UserID, action, orderID)
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		h.sendText(ctx, ev.ChatID, fmt.Sprintf("❌ Заказ #%d не найден.", orderID))
		return
	case errors.Is(err, usecase.ErrIllegalTransition):
		h.sendText(ctx, ev.ChatID, fmt.Sprintf(
			"❌ Недопустимое действие для текущего статуса заказа #%d.", orderID))
		return
	case errors.Is(err, usecase.ErrValidation):
		h.logger.Warn().Str("action", ev.Callback.Action).Msg("unknown order action")
		return
	case err != nil:
		h.logger.Error().Err(err).Int64("order_id", orderID).Msg("order action failed")
		h.sendText(ctx, ev.ChatID, "Ошибка базы данных. Попробуйте позже.")
		return
	}

	// 元の通知メッセージを更新結果で置き換える。
	// 写真付き等で編集できないことがあるが、その場合は新規送信で代替。
	edited := fmt.Sprintf("📦 Заказ #%d\n📌 Статус обновлен: %s", orderID, statusLabels[out.Order.Status])
	if err := h.sender.EditText(ctx, ev.ChatID, ev.MessageID, edited); err != nil {
		h.logger.Warn().Err(err).Int64("order_id", orderID).Msg("edit failed, sending new message")
		h.sendText(ctx, ev.ChatID, edited)
	}

	if tmpl, ok := buyerStatusTexts[out.Order.Status]; ok {
		h.notifier.NotifyUser(ctx, out.Order.UserID, gateway.Message{
			Text: fmt.Sprintf(tmpl, orderID),
		})
	}
}
