package handler

import (
	"context"

	"shopbot/internal/gateway"

	"github.com/rs/zerolog"
)

// Notifier は管理者・購入者への通知を担う。
// 一人への送信失敗は記録するだけで、残りの宛先への配送は続行する。
type Notifier struct {
	sender   gateway.Sender
	adminIDs []int64
	logger   zerolog.Logger
}

func NewNotifier(sender gateway.Sender, adminIDs []int64, logger zerolog.Logger) *Notifier {
	return &Notifier{sender: sender, adminIDs: adminIDs, logger: logger}
}

func (n *Notifier) NotifyAdmins(ctx context.Context, msg gateway.Message) {
	for _, id := range n.adminIDs {
		if err := n.sender.Send(ctx, id, msg); err != nil {
			n.logger.Error().Err(err).Int64("admin_id", id).Msg("admin notification failed")
		}
	}
}

// 個人チャットではチャットIDとユーザーIDは一致する。
func (n *Notifier) NotifyUser(ctx context.Context, userID int64, msg gateway.Message) {
	if err := n.sender.Send(ctx, userID, msg); err != nil {
		n.logger.Error().Err(err).Int64("user_id", userID).Msg("user notification failed")
	}
}
