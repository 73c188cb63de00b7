package usecase_test

import (
	"context"
	"testing"

	"shopbot/internal/domain/model"
	repo "shopbot/internal/repository"
	"shopbot/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderAdminFixture(allowJumps bool) (*usecase.OrderAdminUsecase, *OrderRepoMock, *AuditRepoMock) {
	tx := new(TxManagerMock)
	orders := new(OrderRepoMock)
	audits := new(AuditRepoMock)

	tx.Repos = &TxReposMock{orders: orders, audits: audits}
	tx.On("WithinTx", mock.Anything).Return(nil)

	return usecase.NewOrderAdminUsecase(tx, allowJumps), orders, audits
}

func TestOrderAdminUsecase_ApplyAction_Confirm(t *testing.T) {
	uc, orders, audits := newOrderAdminFixture(false)

	orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{
		ID:     7,
		UserID: 100,
		Status: model.OrderStatusPending,
	}, nil)
	orders.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusConfirmed).Return(nil)
	audits.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.ApplyAction(context.Background(), 1, usecase.OrderActionConfirm, 7)
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, out.FromStatus)
	assert.Equal(t, model.OrderStatusConfirmed, out.Order.Status)
	assert.Equal(t, int64(100), out.Order.UserID)

	orders.AssertExpectations(t)
}

func TestOrderAdminUsecase_ApplyAction_IllegalJump(t *testing.T) {
	uc, orders, _ := newOrderAdminFixture(false)

	// pendingからcompleteへは飛べない
	orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{
		ID:     7,
		Status: model.OrderStatusPending,
	}, nil)

	_, err := uc.ApplyAction(context.Background(), 1, usecase.OrderActionComplete, 7)
	assert.ErrorIs(t, err, usecase.ErrIllegalTransition)

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderAdminUsecase_ApplyAction_TerminalStatusLocked(t *testing.T) {
	uc, orders, _ := newOrderAdminFixture(false)

	orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{
		ID:     7,
		Status: model.OrderStatusCancelled,
	}, nil)

	_, err := uc.ApplyAction(context.Background(), 1, usecase.OrderActionConfirm, 7)
	assert.ErrorIs(t, err, usecase.ErrIllegalTransition)
}

func TestOrderAdminUsecase_ApplyAction_CancelFromAnyNonTerminal(t *testing.T) {
	for _, from := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusConfirmed,
		model.OrderStatusShipped,
	} {
		t.Run(string(from), func(t *testing.T) {
			uc, orders, audits := newOrderAdminFixture(false)

			orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{ID: 7, Status: from}, nil)
			orders.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusCancelled).Return(nil)
			audits.On("Create", mock.Anything, mock.Anything).Return(nil)

			out, err := uc.ApplyAction(context.Background(), 1, usecase.OrderActionCancel, 7)
			assert.NoError(t, err)
			assert.Equal(t, model.OrderStatusCancelled, out.Order.Status)
		})
	}
}

func TestOrderAdminUsecase_ApplyAction_AllowJumpsBypassesTable(t *testing.T) {
	uc, orders, audits := newOrderAdminFixture(true)

	orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{
		ID:     7,
		Status: model.OrderStatusPending,
	}, nil)
	orders.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusCompleted).Return(nil)
	audits.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.ApplyAction(context.Background(), 1, usecase.OrderActionComplete, 7)
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, out.Order.Status)
}

func TestOrderAdminUsecase_ApplyAction_NotFound(t *testing.T) {
	uc, orders, _ := newOrderAdminFixture(false)

	orders.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.ApplyAction(context.Background(), 1, usecase.OrderActionConfirm, 99)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestOrderAdminUsecase_ApplyAction_UnknownAction(t *testing.T) {
	uc, orders, _ := newOrderAdminFixture(false)

	_, err := uc.ApplyAction(context.Background(), 1, usecase.OrderAction("explode"), 7)
	assert.ErrorIs(t, err, usecase.ErrValidation)

	orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, model.OrderStatusCompleted.Terminal())
	assert.True(t, model.OrderStatusCancelled.Terminal())
	assert.False(t, model.OrderStatusPending.Terminal())
	assert.False(t, model.OrderStatusShipped.Terminal())
}
