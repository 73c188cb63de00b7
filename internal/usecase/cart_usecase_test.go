package usecase_test

import (
	"context"
	"testing"

	"shopbot/internal/domain/model"
	repo "shopbot/internal/repository"
	"shopbot/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCartUsecase_Add_ProductNotFound(t *testing.T) {
	products := new(ProductRepoMock)
	carts := new(CartRepoMock)

	products.On("FindByName", mock.Anything, "Несуществующий").Return(model.Product{}, repo.ErrNotFound)

	uc := usecase.NewCartUsecase(carts, products)

	_, err := uc.Add(context.Background(), 1, "Несуществующий")
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	products.AssertExpectations(t)
}

func TestCartUsecase_Add_OutOfStock(t *testing.T) {
	products := new(ProductRepoMock)
	carts := new(CartRepoMock)

	products.On("FindByName", mock.Anything, "Кроссовки").Return(model.Product{
		ID:      5,
		Name:    "Кроссовки",
		InStock: 0,
	}, nil)

	uc := usecase.NewCartUsecase(carts, products)

	_, err := uc.Add(context.Background(), 1, "Кроссовки")
	assert.ErrorIs(t, err, usecase.ErrOutOfStock)
}

func TestCartUsecase_Add_NewItem(t *testing.T) {
	ctx := context.Background()

	products := new(ProductRepoMock)
	carts := new(CartRepoMock)

	products.On("FindByName", mock.Anything, "Футболка").Return(model.Product{
		ID:      7,
		Name:    "Футболка",
		InStock: 3,
	}, nil)
	carts.On("FindItem", mock.Anything, int64(1), int64(7)).Return(model.CartItem{}, repo.ErrNotFound)
	carts.On("Insert", mock.Anything, model.CartItem{UserID: 1, ProductID: 7, Quantity: 1}).Return(nil)
	carts.On("CountUnits", mock.Anything, int64(1)).Return(int64(1), nil)

	uc := usecase.NewCartUsecase(carts, products)

	out, err := uc.Add(ctx, 1, "Футболка")
	assert.NoError(t, err)
	assert.Equal(t, "Футболка", out.ProductName)
	assert.Equal(t, int64(1), out.Units)

	carts.AssertExpectations(t)
}

func TestCartUsecase_Add_IncrementExisting(t *testing.T) {
	ctx := context.Background()

	products := new(ProductRepoMock)
	carts := new(CartRepoMock)

	products.On("FindByName", mock.Anything, "Футболка").Return(model.Product{
		ID:      7,
		Name:    "Футболка",
		InStock: 3,
	}, nil)
	carts.On("FindItem", mock.Anything, int64(1), int64(7)).Return(model.CartItem{ID: 42, Quantity: 2}, nil)
	carts.On("IncrementIfWithin", mock.Anything, int64(42), int64(3)).Return(true, nil)
	carts.On("CountUnits", mock.Anything, int64(1)).Return(int64(3), nil)

	uc := usecase.NewCartUsecase(carts, products)

	out, err := uc.Add(ctx, 1, "Футболка")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.Units)

	carts.AssertExpectations(t)
}

func TestCartUsecase_Add_CapacityExceeded(t *testing.T) {
	ctx := context.Background()

	products := new(ProductRepoMock)
	carts := new(CartRepoMock)

	products.On("FindByName", mock.Anything, "Футболка").Return(model.Product{
		ID:      7,
		Name:    "Футболка",
		InStock: 3,
	}, nil)
	carts.On("FindItem", mock.Anything, int64(1), int64(7)).Return(model.CartItem{ID: 42, Quantity: 3}, nil)
	// quantity+1 > 在庫なのでSQL側が弾く
	carts.On("IncrementIfWithin", mock.Anything, int64(42), int64(3)).Return(false, nil)

	uc := usecase.NewCartUsecase(carts, products)

	_, err := uc.Add(ctx, 1, "Футболка")

	var capErr *usecase.CapacityError
	assert.ErrorAs(t, err, &capErr)
	assert.Equal(t, "Футболка", capErr.ProductName)
	assert.Equal(t, int64(3), capErr.InStock)

	// 数量は変えない＝CountUnitsも呼ばれない
	carts.AssertNotCalled(t, "CountUnits", mock.Anything, mock.Anything)
}

func TestSubtotal(t *testing.T) {
	rows := []repo.CartRow{
		{Price: decimal.NewFromInt(300), Quantity: 2},
		{Price: decimal.NewFromInt(150), Quantity: 1},
	}
	assert.True(t, usecase.Subtotal(rows).Equal(decimal.NewFromInt(750)))
	assert.True(t, usecase.Subtotal(nil).Equal(decimal.Zero))
}

func TestUnavailable(t *testing.T) {
	rows := []repo.CartRow{
		{ProductID: 1, Quantity: 2, InStock: 2},
		{ProductID: 2, Quantity: 3, InStock: 1},
		{ProductID: 3, Quantity: 1, InStock: 0},
	}
	bad := usecase.Unavailable(rows)
	assert.Len(t, bad, 2)
	assert.Equal(t, int64(2), bad[0].ProductID)
	assert.Equal(t, int64(3), bad[1].ProductID)
}
