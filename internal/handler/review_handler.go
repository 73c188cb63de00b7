package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"shopbot/internal/gateway"
	"shopbot/internal/session"
)

func reviewsKeyboard() *gateway.ReplyKeyboard {
	return &gateway.ReplyKeyboard{Rows: [][]string{
		{btnLeaveReview},
		{btnMainMenu},
	}}
}

func (h *Router) showReviews(ctx context.Context, ev gateway.Event) {
	out, err := h.reviews.Recent(ctx, 10)
	if err != nil {
		h.storeFailure(ctx, ev, err)
		return
	}

	if out.Count == 0 {
		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "⭐ Отзывов пока нет. Будьте первым!",
			Reply: reviewsKeyboard(),
		})
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⭐ ОТЗЫВЫ О МАГАЗИНЕ\n\nСредняя оценка: %.1f (%d отзывов)\n\n", out.AvgRating, out.Count)
	for _, r := range out.Reviews {
		fmt.Fprintf(&b, "%s %s, %s\n", strings.Repeat("⭐", r.Rating), r.AuthorName, r.CreatedAt.Format("02.01.2006"))
		if r.Comment != "" {
			fmt.Fprintf(&b, "💬 %s\n", r.Comment)
		}
		b.WriteString("\n")
	}

	h.send(ctx, ev.ChatID, gateway.Message{Text: b.String(), Reply: reviewsKeyboard()})
}

func (h *Router) startReview(ctx context.Context, ev gateway.Event) {
	if err := h.sessions.Begin(ev.UserID, session.LeaveReview{Step: session.ReviewStepRating}); err != nil {
		h.sendText(ctx, ev.ChatID, "Сначала завершите или отмените текущую операцию.")
		return
	}

	h.send(ctx, ev.ChatID, gateway.Message{
		Text:  "✍️ Оцените наш магазин:",
		Reply: ratingKeyboard(),
	})
}

func (h *Router) reviewStep(ctx context.Context, ev gateway.Event, s session.LeaveReview) {
	switch s.Step {
	case session.ReviewStepRating:
		rating, err := strconv.Atoi(strings.TrimSuffix(ev.Text, "⭐"))
		if err != nil || rating < 1 || rating > 5 {
			h.send(ctx, ev.ChatID, gateway.Message{
				Text:  "❌ Выберите оценку от 1 до 5:",
				Reply: ratingKeyboard(),
			})
			return
		}

		s.Draft.Rating = rating
		s.Step = session.ReviewStepComment
		h.sessions.Set(ev.UserID, s)

		h.send(ctx, ev.ChatID, gateway.Message{
			Text: "💬 Напишите комментарий к отзыву или нажмите 'Пропустить':",
			Reply: &gateway.ReplyKeyboard{Rows: [][]string{
				{btnSkip},
				{btnBack},
			}},
		})

	case session.ReviewStepComment:
		comment := strings.TrimSpace(ev.Text)
		if ev.Text == btnSkip {
			comment = ""
		}

		if _, err := h.reviews.Leave(ctx, ev.UserID, ev.UserName, s.Draft.Rating, comment); err != nil {
			h.storeFailure(ctx, ev, err)
			return
		}

		h.sessions.Reset(ev.UserID)
		h.send(ctx, ev.ChatID, gateway.Message{
			Text:  "✅ Спасибо за ваш отзыв!",
			Reply: mainKeyboard(h.isAdmin(ev.UserID)),
		})
	}
}
