package usecase_test

import (
	"context"
	"errors"
	"testing"

	"shopbot/internal/domain/model"
	repo "shopbot/internal/repository"
	"shopbot/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testPolicy() usecase.DeliveryPolicy {
	return usecase.DeliveryPolicy{
		CityToken:     "Бишкек",
		InCityFee:     decimal.NewFromInt(150),
		OutOfCityFee:  decimal.NewFromInt(250),
		FreeThreshold: decimal.NewFromInt(1000),
	}
}

func TestDeliveryPolicy_Fee(t *testing.T) {
	p := testPolicy()

	tests := []struct {
		name     string
		address  string
		subtotal int64
		want     int64
	}{
		{"市内・閾値未満", "г. Бишкек, ул. Киевская 95", 500, 150},
		{"市内・閾値ちょうど", "Бишкек, мкр. Джал", 1000, 0},
		{"市内・閾値超", "Бишкек", 2500, 0},
		{"市外", "г. Ош, ул. Ленина 1", 5000, 250},
		{"市外・少額", "с. Беловодское", 100, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Fee(tt.address, decimal.NewFromInt(tt.subtotal))
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s want %d", got, tt.want)
		})
	}
}

func TestDeliveryPolicy_Fee_CaseInsensitive(t *testing.T) {
	p := testPolicy()
	got := p.Fee("г. бишкек, ул. Манаса 20", decimal.NewFromInt(500))
	assert.True(t, got.Equal(decimal.NewFromInt(150)))
}

func TestCheckoutUsecase_CheckCart_Empty(t *testing.T) {
	tx := new(TxManagerMock)
	carts := new(CartRepoMock)

	carts.On("ListRows", mock.Anything, int64(1)).Return([]repo.CartRow{}, nil)

	uc := usecase.NewCheckoutUsecase(tx, carts, testPolicy(), false)

	_, err := uc.CheckCart(context.Background(), 1)
	assert.ErrorIs(t, err, usecase.ErrCartEmpty)
}

func TestCheckoutUsecase_CheckCart_UnavailableLineBlocksAll(t *testing.T) {
	tx := new(TxManagerMock)
	carts := new(CartRepoMock)

	rows := []repo.CartRow{
		{ProductID: 1, Name: "Футболка", Quantity: 1, InStock: 5, Price: decimal.NewFromInt(300)},
		{ProductID: 2, Name: "Кроссовки", Quantity: 3, InStock: 1, Price: decimal.NewFromInt(2000)},
	}
	carts.On("ListRows", mock.Anything, int64(1)).Return(rows, nil)

	uc := usecase.NewCheckoutUsecase(tx, carts, testPolicy(), false)

	_, err := uc.CheckCart(context.Background(), 1)

	// 1行でも超過があれば全体をブロック。部分確定はしない。
	var unavail *usecase.UnavailableError
	assert.ErrorAs(t, err, &unavail)
	assert.Len(t, unavail.Rows, 1)
	assert.Equal(t, "Кроссовки", unavail.Rows[0].Name)
}

func TestCheckoutUsecase_Finalize_Success(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	carts := new(CartRepoMock)
	products := new(ProductRepoMock)
	orders := new(OrderRepoMock)

	tx.Repos = &TxReposMock{products: products, carts: carts, orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	rows := []repo.CartRow{
		{CartItemID: 1, ProductID: 10, Name: "Футболка", Price: decimal.NewFromInt(300), Quantity: 2, InStock: 5},
		{CartItemID: 2, ProductID: 11, Name: "Кепка", Price: decimal.NewFromInt(150), Quantity: 1, InStock: 3},
	}
	carts.On("ListRows", mock.Anything, int64(1)).Return(rows, nil)
	products.On("LockByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, InStock: 5}, nil)
	products.On("LockByID", mock.Anything, int64(11)).Return(model.Product{ID: 11, InStock: 3}, nil)

	var created model.Order
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		created = o
		return o.Status == model.OrderStatusPending && o.UserID == 1
	})).Return(int64(77), nil)

	carts.On("Clear", mock.Anything, int64(1)).Return(nil)

	uc := usecase.NewCheckoutUsecase(tx, carts, testPolicy(), false)

	out, err := uc.Finalize(ctx, usecase.FinalizeInput{
		UserID:        1,
		CustomerName:  "Айбек",
		Phone:         "+996555123456",
		PaymentMethod: "💵 Наличные",
		Address:       "г. Бишкек, ул. Киевская 95",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(77), out.OrderID)

	// 小計750、市内・閾値未満なので配送料150
	assert.True(t, out.Subtotal.Equal(decimal.NewFromInt(750)))
	assert.True(t, out.Fee.Equal(decimal.NewFromInt(150)))
	assert.True(t, out.Total.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, "Футболка x2 = 600 сом; Кепка x1 = 150 сом", out.Snapshot)

	assert.True(t, created.TotalPrice.Equal(decimal.NewFromInt(900)))
	assert.NotEmpty(t, created.IdempotencyKey)

	carts.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestCheckoutUsecase_Finalize_StockChangedUnderLock(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	carts := new(CartRepoMock)
	products := new(ProductRepoMock)
	orders := new(OrderRepoMock)

	tx.Repos = &TxReposMock{products: products, carts: carts, orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	rows := []repo.CartRow{
		{CartItemID: 1, ProductID: 10, Name: "Футболка", Price: decimal.NewFromInt(300), Quantity: 2, InStock: 5},
	}
	carts.On("ListRows", mock.Anything, int64(1)).Return(rows, nil)

	// 入口ガードとの間に在庫が1に落ちた
	products.On("LockByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, InStock: 1}, nil)

	uc := usecase.NewCheckoutUsecase(tx, carts, testPolicy(), false)

	_, err := uc.Finalize(ctx, usecase.FinalizeInput{UserID: 1, Address: "Бишкек"})

	var unavail *usecase.UnavailableError
	assert.ErrorAs(t, err, &unavail)
	assert.Equal(t, int64(1), unavail.Rows[0].InStock)

	// 注文は作らず、カートも消さない
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_Finalize_OrderInsertFailureLeavesCart(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	carts := new(CartRepoMock)
	products := new(ProductRepoMock)
	orders := new(OrderRepoMock)

	tx.Repos = &TxReposMock{products: products, carts: carts, orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	rows := []repo.CartRow{
		{CartItemID: 1, ProductID: 10, Name: "Футболка", Price: decimal.NewFromInt(300), Quantity: 2, InStock: 5},
	}
	carts.On("ListRows", mock.Anything, int64(1)).Return(rows, nil)
	products.On("LockByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, InStock: 5}, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(int64(0), errors.New("insert failed"))

	uc := usecase.NewCheckoutUsecase(tx, carts, testPolicy(), false)

	_, err := uc.Finalize(ctx, usecase.FinalizeInput{UserID: 1, Address: "Бишкек"})
	assert.Error(t, err)

	carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_Finalize_EmptyCart(t *testing.T) {
	tx := new(TxManagerMock)
	carts := new(CartRepoMock)

	tx.Repos = &TxReposMock{carts: carts}
	tx.On("WithinTx", mock.Anything).Return(nil)

	carts.On("ListRows", mock.Anything, int64(1)).Return([]repo.CartRow{}, nil)

	uc := usecase.NewCheckoutUsecase(tx, carts, testPolicy(), false)

	_, err := uc.Finalize(context.Background(), usecase.FinalizeInput{UserID: 1})
	assert.ErrorIs(t, err, usecase.ErrCartEmpty)
}

func TestCheckoutUsecase_Finalize_DeductStockEnabled(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	carts := new(CartRepoMock)
	products := new(ProductRepoMock)
	orders := new(OrderRepoMock)

	tx.Repos = &TxReposMock{products: products, carts: carts, orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	rows := []repo.CartRow{
		{CartItemID: 1, ProductID: 10, Name: "Футболка", Price: decimal.NewFromInt(300), Quantity: 2, InStock: 5},
	}
	carts.On("ListRows", mock.Anything, int64(1)).Return(rows, nil)
	products.On("LockByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, InStock: 5}, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(int64(5), nil)
	products.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(2)).Return(true, nil)
	carts.On("Clear", mock.Anything, int64(1)).Return(nil)

	uc := usecase.NewCheckoutUsecase(tx, carts, testPolicy(), true)

	_, err := uc.Finalize(ctx, usecase.FinalizeInput{UserID: 1, Address: "Бишкек"})
	assert.NoError(t, err)

	products.AssertExpectations(t)
}

func TestCheckoutUsecase_Finalize_DeductStockDisabledByDefault(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	carts := new(CartRepoMock)
	products := new(ProductRepoMock)
	orders := new(OrderRepoMock)

	tx.Repos = &TxReposMock{products: products, carts: carts, orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	rows := []repo.CartRow{
		{CartItemID: 1, ProductID: 10, Name: "Футболка", Price: decimal.NewFromInt(300), Quantity: 2, InStock: 5},
	}
	carts.On("ListRows", mock.Anything, int64(1)).Return(rows, nil)
	products.On("LockByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, InStock: 5}, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(int64(5), nil)
	carts.On("Clear", mock.Anything, int64(1)).Return(nil)

	uc := usecase.NewCheckoutUsecase(tx, carts, testPolicy(), false)

	_, err := uc.Finalize(ctx, usecase.FinalizeInput{UserID: 1, Address: "Бишкек"})
	assert.NoError(t, err)

	// 既定では在庫は減らさない
	products.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}
