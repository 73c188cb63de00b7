package session

import (
	"errors"
	"sync"

	"shopbot/internal/domain/model"
	"shopbot/internal/repository"

	"github.com/shopspring/decimal"
)

// すでに別のウィザードが進行中。
var ErrWizardActive = errors.New("wizard already active")

// ==================== ウィザード状態（閉じたタグ付き合併） ====================

// ユーザーごとのウィザード状態。1ユーザーにつき同時に1つだけ。
type State interface {
	state()
}

type Idle struct{}

// 商品追加ウィザードのステップ。
type AddStep int

const (
	AddStepCategory AddStep = iota
	AddStepGender
	AddStepName
	AddStepPrice
	AddStepStock
	AddStepPhoto
	AddStepConfirm
)

// 商品追加の下書き。確定までDBには書かない。
type ProductDraft struct {
	Category string
	Gender   *model.Gender
	Name     string
	Price    decimal.Decimal
	InStock  int64
	Photo    *string
}

type AddProduct struct {
	Step  AddStep
	Draft ProductDraft
}

// 商品編集ウィザードのステップ。
type EditStep int

const (
	EditStepChooseCategory EditStep = iota
	EditStepChooseProduct
	EditStepChooseField
	EditStepEnterValue
)

// 1回の実行で編集できるのは1項目だけ。
type EditDraft struct {
	Category  string
	ProductID int64
	Field     repository.ProductField
}

type EditProduct struct {
	Step  EditStep
	Draft EditDraft
}

// 商品削除。一覧からの選択待ちのみ（二段確認は無い）。
type DeleteProduct struct{}

// 注文確定ウィザードのステップ。
type CheckoutStep int

const (
	CheckoutStepPayment CheckoutStep = iota
	CheckoutStepPhone
	CheckoutStepAddress
)

type CheckoutDraft struct {
	PaymentMethod string
	Phone         string
}

type Checkout struct {
	Step  CheckoutStep
	Draft CheckoutDraft
}

// レビュー投稿ウィザードのステップ。
type ReviewStep int

const (
	ReviewStepRating ReviewStep = iota
	ReviewStepComment
)

type ReviewDraft struct {
	Rating int
}

type LeaveReview struct {
	Step  ReviewStep
	Draft ReviewDraft
}

func (Idle) state()          {}
func (AddProduct) state()    {}
func (EditProduct) state()   {}
func (DeleteProduct) state() {}
func (Checkout) state()      {}
func (LeaveReview) state()   {}

// ==================== マネージャ ====================

// ユーザーID→状態。プロセス内メモリのみで、永続化も期限切れも無い。
type Manager struct {
	mu     sync.RWMutex
	states map[int64]State

	// Idle中のカテゴリ閲覧コンテキスト（性別サブメニュー用）。
	browse map[int64]string
}

func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]State),
		browse: make(map[int64]string),
	}
}

// 現在の状態。未登録ならIdle。
func (m *Manager) Get(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.states[userID]
	if !ok {
		return Idle{}
	}
	return s
}

// ウィザード進行中か。
func (m *Manager) Active(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.states[userID]
	if !ok {
		return false
	}
	_, idle := s.(Idle)
	return !idle
}

// ウィザード開始。進行中ならErrWizardActive。
func (m *Manager) Begin(userID int64, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.states[userID]; ok {
		if _, idle := cur.(Idle); !idle {
			return ErrWizardActive
		}
	}
	m.states[userID] = s
	return nil
}

// ステップ遷移。下書きごと差し替える。
func (m *Manager) Set(userID int64, s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = s
}

// Idleへ戻し、下書きを破棄する。
func (m *Manager) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
}

// カテゴリ閲覧コンテキストを覚える（Idle中の性別サブメニュー用）。
func (m *Manager) SetBrowseCategory(userID int64, category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.browse[userID] = category
}

func (m *Manager) BrowseCategory(userID int64) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.browse[userID]
	return c, ok
}
