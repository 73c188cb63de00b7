package handler

import (
	"context"
	"strings"

	"shopbot/internal/gateway"
	"shopbot/internal/session"
	"shopbot/internal/usecase"

	"github.com/rs/zerolog"
)

// 受信イベントの振り分け。
// ウィザード進行中ならそのステップへ、そうでなければフラットコマンドへ。
type Router struct {
	sender   gateway.Sender
	sessions *session.Manager

	// 管理者の許可リスト（静的）。
	admins map[int64]struct{}

	catalog  *usecase.CatalogUsecase
	cart     *usecase.CartUsecase
	checkout *usecase.CheckoutUsecase
	products *usecase.ProductAdminUsecase
	orders   *usecase.OrderAdminUsecase
	reviews  *usecase.ReviewUsecase
	stats    *usecase.StatsUsecase

	notifier *Notifier
	logger   zerolog.Logger
}

func NewRouter(
	sender gateway.Sender,
	sessions *session.Manager,
	adminIDs []int64,
	catalog *usecase.CatalogUsecase,
	cart *usecase.CartUsecase,
	checkout *usecase.CheckoutUsecase,
	products *usecase.ProductAdminUsecase,
	orders *usecase.OrderAdminUsecase,
	reviews *usecase.ReviewUsecase,
	stats *usecase.StatsUsecase,
	notifier *Notifier,
	logger zerolog.Logger,
) *Router {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Router{
		sender:   sender,
		sessions: sessions,
		admins:   admins,
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
		products: products,
		orders:   orders,
		reviews:  reviews,
		stats:    stats,
		notifier: notifier,
		logger:   logger,
	}
}

func (h *Router) isAdmin(userID int64) bool {
	_, ok := h.admins[userID]
	return ok
}

func (h *Router) Handle(ctx context.Context, ev gateway.Event) {
	if ev.Callback != nil {
		h.handleOrderAction(ctx, ev)
		return
	}

	st := h.sessions.Get(ev.UserID)
	if _, idle := st.(session.Idle); !idle {
		// 万能キャンセル：どのステップでもIdleへ戻し下書きを破棄
		if ev.Text == btnBack || ev.Text == btnCancelDelete {
			h.cancelWizard(ctx, ev)
			return
		}

		switch s := st.(type) {
		case session.AddProduct:
			h.addProductStep(ctx, ev, s)
		case session.EditProduct:
			h.editProductStep(ctx, ev, s)
		case session.DeleteProduct:
			h.deleteProductStep(ctx, ev)
		case session.Checkout:
			h.checkoutStep(ctx, ev, s)
		case session.LeaveReview:
			h.reviewStep(ctx, ev, s)
		}
		return
	}

	h.handleCommand(ctx, ev)
}

// Idle中のフラットコマンド照合。
func (h *Router) handleCommand(ctx context.Context, ev gateway.Event) {
	text := ev.Text

	switch {
	case text == "/start":
		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "Привет, " + ev.UserName + "! 👋\nДобро пожаловать в наш магазин!",
			Reply: mainKeyboard(h.isAdmin(ev.UserID)),
		})

	case text == btnMainMenu || text == btnBackToMenu:
		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "Главное меню:",
			Reply: mainKeyboard(h.isAdmin(ev.UserID)),
		})

	case text == btnCatalog || text == btnContinueShopping:
		h.showCatalog(ctx, ev)

	case text == btnCart:
		h.showCart(ctx, ev)

	case text == btnContacts:
		h.sendText(ctx, ev.ChatID,
			"📞 Наши контакты:\n\n"+
				"📍 Адрес: г. Бишкек, ул. Примерная, 123\n"+
				"📱 Телефон: +996 (555) 123-456\n"+
				"✉️ Email: info@shop.kg\n"+
				"⏰ Время работы: 9:00 - 21:00\n\n"+
				"Мы всегда на связи! 😊")

	case text == btnAbout:
		h.sendText(ctx, ev.ChatID,
			"ℹ️ О нашем магазине:\n\n"+
				"Мы - лучший магазин в Кыргызстане!\n"+
				"✅ Гарантия качества\n"+
				"✅ Быстрая доставка\n"+
				"✅ Приемлемые цены\n"+
				"✅ Отзывчивая поддержка\n\n"+
				"С нами удобно и выгодно! 🛍️")

	case text == btnReviews:
		h.showReviews(ctx, ev)

	case text == btnLeaveReview:
		h.startReview(ctx, ev)

	case text == btnAdminPanel:
		h.adminPanel(ctx, ev)

	case text == btnAddProduct:
		h.startAddProduct(ctx, ev)

	case text == btnEditProduct:
		h.startEditProduct(ctx, ev)

	case text == btnDeleteProduct:
		h.startDeleteProduct(ctx, ev)

	case text == btnStats:
		h.showStats(ctx, ev)

	case text == btnAuditLog:
		h.showAuditLog(ctx, ev)

	case text == btnAllProducts:
		h.showAllProducts(ctx, ev)

	case text == btnCheckout:
		h.startCheckout(ctx, ev)

	case text == btnClearCart:
		h.clearCart(ctx, ev)

	case text == btnBack:
		if h.isAdmin(ev.UserID) {
			h.adminPanel(ctx, ev)
		} else {
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "Главное меню:",
				Reply: mainKeyboard(false),
			})
		}

	case strings.HasPrefix(text, addPrefix):
		h.addToCart(ctx, ev)

	default:
		// 性別サブメニュー（直前に選んだカテゴリに対して）
		if gender, ok := genderLabels[text]; ok {
			if category, found := h.sessions.BrowseCategory(ev.UserID); found {
				h.showProducts(ctx, ev, category, &gender)
				return
			}
		}

		// 動的なカテゴリ名との照合
		exists, err := h.catalog.CategoryExists(ctx, text)
		if err != nil {
			h.storeFailure(ctx, ev, err)
			return
		}
		if exists {
			h.showCategory(ctx, ev, text)
		}
		// 一致しなければ黙って無視（元実装どおり）
	}
}

// 万能キャンセル。下書きは無条件で破棄。
func (h *Router) cancelWizard(ctx context.Context, ev gateway.Event) {
	h.sessions.Reset(ev.UserID)

	var kb *gateway.ReplyKeyboard
	if h.isAdmin(ev.UserID) {
		kb = adminKeyboard()
	} else {
		kb = mainKeyboard(false)
	}
	h.send(ctx, ev.ChatID, gateway.Message{Text: "Операция отменена.", Reply: kb})
}

// ==================== 送信ヘルパ ====================

func (h *Router) send(ctx context.Context, chatID int64, msg gateway.Message) {
	if err := h.sender.Send(ctx, chatID, msg); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

func (h *Router) sendText(ctx context.Context, chatID int64, text string) {
	h.send(ctx, chatID, gateway.Message{Text: text})
}

// ストア障害：詳細をログ、ユーザーには汎用メッセージ、状態はIdleへ。
func (h *Router) storeFailure(ctx context.Context, ev gateway.Event, err error) {
	h.logger.Error().Err(err).Int64("user_id", ev.UserID).Msg("store failure")
	h.sessions.Reset(ev.UserID)
	h.sendText(ctx, ev.ChatID, "Ошибка базы данных. Попробуйте позже.")
}
