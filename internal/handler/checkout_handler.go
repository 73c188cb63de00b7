package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopbot/internal/gateway"
	"shopbot/internal/session"
	"shopbot/internal/usecase"
)

// 入口ガード：空でなく全行が在庫内のときだけウィザードを開始する。
func (h *Router) startCheckout(ctx context.Context, ev gateway.Event) {
	_, err := h.checkout.CheckCart(ctx, ev.UserID)

	var unavail *usecase.UnavailableError
	switch {
	case errors.Is(err, usecase.ErrCartEmpty):
		h.sendText(ctx, ev.ChatID, "Ваша корзина пуста!")
		return
	case errors.As(err, &unavail):
		var b strings.Builder
		b.WriteString("⚠️ Некоторые товары недоступны в выбранном количестве:\n")
		for _, r := range unavail.Rows {
			fmt.Fprintf(&b, "• %s (доступно: %d шт.)\n", r.Name, r.InStock)
		}
		b.WriteString("\nПожалуйста, измените количество в корзине.")
		h.sendText(ctx, ev.ChatID, b.String())
		return
	case err != nil:
		h.storeFailure(ctx, ev, err)
		return
	}

	if err := h.sessions.Begin(ev.UserID, session.Checkout{Step: session.CheckoutStepPayment}); err != nil {
		h.sendText(ctx, ev.ChatID, "Сначала завершите или отмените текущую операцию.")
		return
	}

	h.send(ctx, ev.ChatID, gateway.Message{
		Text:  "💳 Выберите способ оплаты:",
		Reply: paymentKeyboard(),
	})
}

// 1イベントで1ステップだけ進む。
func (h *Router) checkoutStep(ctx context.Context, ev gateway.Event, s session.Checkout) {
	switch s.Step {
	case session.CheckoutStepPayment:
		// ボタンの他に自由入力も受け付ける
		method := strings.TrimSpace(ev.Text)
		if method == "" {
			h.send(ctx, ev.ChatID, gateway.Message{Text: "💳 Выберите способ оплаты:", Reply: paymentKeyboard()})
			return
		}
		s.Draft.PaymentMethod = method
		s.Step = session.CheckoutStepPhone
		h.sessions.Set(ev.UserID, s)

		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "📱 Введите ваш номер телефона:",
			Reply: backKeyboard(),
		})

	case session.CheckoutStepPhone:
		s.Draft.Phone = strings.TrimSpace(ev.Text)
		s.Step = session.CheckoutStepAddress
		h.sessions.Set(ev.UserID, s)

		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "📍 Введите адрес доставки:",
			Reply: backKeyboard(),
		})

	case session.CheckoutStepAddress:
		h.finalizeCheckout(ctx, ev, s, strings.TrimSpace(ev.Text))
	}
}

func (h *Router) finalizeCheckout(ctx context.Context, ev gateway.Event, s session.Checkout, address string) {
	out, err := h.checkout.Finalize(ctx, usecase.FinalizeInput{
		UserID:        ev.UserID,
		CustomerName:  ev.UserName,
		Phone:         s.Draft.Phone,
		PaymentMethod: s.Draft.PaymentMethod,
		Address:       address,
	})

	var unavail *usecase.UnavailableError
	switch {
	case errors.Is(err, usecase.ErrCartEmpty):
		h.sessions.Reset(ev.UserID)
		h.sendText(ctx, ev.ChatID, "Ваша корзина пуста!")
		return
	case errors.As(err, &unavail):
		// ガード通過後に在庫が変わった
		h.sessions.Reset(ev.UserID)
		var b strings.Builder
		b.WriteString("⚠️ Некоторые товары недоступны в выбранном количестве:\n")
		for _, r := range unavail.Rows {
			fmt.Fprintf(&b, "• %s (доступно: %d шт.)\n", r.Name, r.InStock)
		}
		b.WriteString("\nПожалуйста, измените количество в корзине.")
		h.sendText(ctx, ev.ChatID, b.String())
		return
	case err != nil:
		h.storeFailure(ctx, ev, err)
		return
	}

	h.sessions.Reset(ev.UserID)

	feeLine := fmt.Sprintf("🚚 Доставка: %s сом\n", out.Fee.String())
	if out.Fee.IsZero() {
		feeLine = "🚚 Доставка: бесплатно\n"
	}

	h.send(ctx, ev.ChatID, gateway.Message{
		Text: "✅ Заказ оформлен!\n\n" +
			fmt.Sprintf("Ваш заказ #%d\n\n", out.OrderID) +
			fmt.Sprintf("Товары:\n%s\n\n", out.Snapshot) +
			feeLine +
			fmt.Sprintf("💵 Общая сумма: %s сом\n\n", out.Total.String()) +
			"📞 С вами свяжется наш менеджер для подтверждения заказа.\n" +
			"Спасибо за покупку! 🛍️",
		Reply: mainKeyboard(h.isAdmin(ev.UserID)),
	})

	//管理者へは操作ボタン付きで通知（宛先ごとに独立）
	adminText := fmt.Sprintf("🛒 Новый заказ #%d\n", out.OrderID) +
		fmt.Sprintf("👤 Пользователь: %s (ID: %d)\n", ev.UserName, ev.UserID) +
		fmt.Sprintf("📱 Телефон: %s\n", s.Draft.Phone) +
		fmt.Sprintf("💳 Оплата: %s\n", s.Draft.PaymentMethod) +
		fmt.Sprintf("📍 Адрес: %s\n", address) +
		fmt.Sprintf("📦 Товары:\n%s\n", out.Snapshot) +
		fmt.Sprintf("💰 Сумма: %s сом", out.Total.String())

	h.notifier.NotifyAdmins(ctx, gateway.Message{
		Text:   adminText,
		Inline: orderActionsKeyboard(out.OrderID),
	})
}
