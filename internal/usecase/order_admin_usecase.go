package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"shopbot/internal/domain/model"
	repo "shopbot/internal/repository"
)

// 管理者がインラインボタンで起こす注文アクション。
type OrderAction string

const (
	OrderActionConfirm  OrderAction = "confirm"
	OrderActionShip     OrderAction = "ship"
	OrderActionComplete OrderAction = "complete"
	OrderActionCancel   OrderAction = "cancel"
)

// アクション→適用後ステータス。
var actionStatus = map[OrderAction]model.OrderStatus{
	OrderActionConfirm:  model.OrderStatusConfirmed,
	OrderActionShip:     model.OrderStatusShipped,
	OrderActionComplete: model.OrderStatusCompleted,
	OrderActionCancel:   model.OrderStatusCancelled,
}

// 現在ステータス→許可される次ステータス。
var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:   {model.OrderStatusConfirmed, model.OrderStatusCancelled},
	model.OrderStatusConfirmed: {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped:   {model.OrderStatusCompleted, model.OrderStatusCancelled},
}

func transitionAllowed(from, to model.OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// 注文ライフサイクル（管理者トリガのステータス遷移）。
type OrderAdminUsecase struct {
	tx repo.TransactionManager

	// trueなら旧実装互換：遷移表を無視して無条件に適用する。
	allowJumps bool
}

func NewOrderAdminUsecase(tx repo.TransactionManager, allowJumps bool) *OrderAdminUsecase {
	return &OrderAdminUsecase{tx: tx, allowJumps: allowJumps}
}

type ApplyActionOutput struct {
	Order      model.Order
	FromStatus model.OrderStatus
}

// アクションを適用してステータスを書き換える。
// 成功時は更新後の注文を返す（購入者通知は呼び出し側）。
func (u *OrderAdminUsecase) ApplyAction(ctx context.Context, adminID int64, action OrderAction, orderID int64) (ApplyActionOutput, error) {
	target, ok := actionStatus[action]
	if !ok {
		return ApplyActionOutput{}, ErrValidation
	}

	var out ApplyActionOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if !u.allowJumps && !transitionAllowed(o.Status, target) {
			return ErrIllegalTransition
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, target); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		before, _ := json.Marshal(map[string]string{"status": string(o.Status)})
		after, _ := json.Marshal(map[string]string{"status": string(target)})
		entry := model.AuditLog{
			ActorUserID:  adminID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   string(before),
			AfterJSON:    string(after),
		}
		//監査ログは遷移を失敗させない
		_ = r.AuditLogs().Create(ctx, entry)

		out.FromStatus = o.Status
		o.Status = target
		out.Order = o
		return nil
	})

	if err != nil {
		return ApplyActionOutput{}, err
	}
	return out, nil
}
