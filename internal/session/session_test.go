package session_test

import (
	"testing"

	"shopbot/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestManager_GetDefaultsToIdle(t *testing.T) {
	m := session.NewManager()

	st := m.Get(1)
	assert.IsType(t, session.Idle{}, st)
	assert.False(t, m.Active(1))
}

func TestManager_BeginRejectsWhenActive(t *testing.T) {
	m := session.NewManager()

	err := m.Begin(1, session.AddProduct{Step: session.AddStepCategory})
	assert.NoError(t, err)
	assert.True(t, m.Active(1))

	// 進行中の別ウィザードは開始できない
	err = m.Begin(1, session.Checkout{Step: session.CheckoutStepPayment})
	assert.ErrorIs(t, err, session.ErrWizardActive)

	// 元の状態はそのまま
	assert.IsType(t, session.AddProduct{}, m.Get(1))
}

func TestManager_BeginIsPerUser(t *testing.T) {
	m := session.NewManager()

	assert.NoError(t, m.Begin(1, session.AddProduct{}))
	assert.NoError(t, m.Begin(2, session.Checkout{}))

	assert.IsType(t, session.AddProduct{}, m.Get(1))
	assert.IsType(t, session.Checkout{}, m.Get(2))
}

func TestManager_ResetDiscardsDraft(t *testing.T) {
	m := session.NewManager()

	assert.NoError(t, m.Begin(1, session.AddProduct{Step: session.AddStepPrice, Draft: session.ProductDraft{
		Category: "Одежда",
		Name:     "Футболка",
		Price:    decimal.NewFromInt(300),
	}}))

	m.Reset(1)
	assert.False(t, m.Active(1))

	// 再開すると下書きは空から
	assert.NoError(t, m.Begin(1, session.AddProduct{Step: session.AddStepCategory}))
	s := m.Get(1).(session.AddProduct)
	assert.Empty(t, s.Draft.Name)
}

func TestManager_SetAdvancesStep(t *testing.T) {
	m := session.NewManager()

	assert.NoError(t, m.Begin(1, session.Checkout{Step: session.CheckoutStepPayment}))

	m.Set(1, session.Checkout{
		Step:  session.CheckoutStepPhone,
		Draft: session.CheckoutDraft{PaymentMethod: "💵 Наличные"},
	})

	s := m.Get(1).(session.Checkout)
	assert.Equal(t, session.CheckoutStepPhone, s.Step)
	assert.Equal(t, "💵 Наличные", s.Draft.PaymentMethod)
}

func TestManager_BrowseCategory(t *testing.T) {
	m := session.NewManager()

	_, found := m.BrowseCategory(1)
	assert.False(t, found)

	m.SetBrowseCategory(1, "Одежда")

	category, found := m.BrowseCategory(1)
	assert.True(t, found)
	assert.Equal(t, "Одежда", category)
}
