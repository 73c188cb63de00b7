package handler

import (
	"context"
	"errors"
	"testing"

	"shopbot/internal/gateway"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// 記録だけするSender。failForのチャットには失敗を返す。
type senderStub struct {
	sent    []int64
	failFor map[int64]bool
}

func (s *senderStub) Send(ctx context.Context, chatID int64, msg gateway.Message) error {
	if s.failFor[chatID] {
		return errors.New("send failed")
	}
	s.sent = append(s.sent, chatID)
	return nil
}

func (s *senderStub) EditText(ctx context.Context, chatID int64, messageID int64, text string) error {
	return nil
}

func TestNotifier_NotifyAdmins_FanOut(t *testing.T) {
	sender := &senderStub{}
	n := NewNotifier(sender, []int64{10, 20, 30}, zerolog.Nop())

	n.NotifyAdmins(context.Background(), gateway.Message{Text: "Новый заказ"})

	assert.Equal(t, []int64{10, 20, 30}, sender.sent)
}

func TestNotifier_NotifyAdmins_FailureDoesNotAbortBatch(t *testing.T) {
	sender := &senderStub{failFor: map[int64]bool{20: true}}
	n := NewNotifier(sender, []int64{10, 20, 30}, zerolog.Nop())

	n.NotifyAdmins(context.Background(), gateway.Message{Text: "Новый заказ"})

	// 20への失敗があっても30には届く
	assert.Equal(t, []int64{10, 30}, sender.sent)
}

func TestParseIDLabel(t *testing.T) {
	tests := []struct {
		text   string
		wantID int64
		wantOK bool
	}{
		{"🔄 ID:5 - Футболка", 5, true},
		{"🗑️ ID:12 - Кроссовки Nike", 12, true},
		{"ID:7", 7, true},
		{"Футболка", 0, false},
		{"ID:abc - Футболка", 0, false},
	}

	for _, tt := range tests {
		id, ok := parseIDLabel(tt.text)
		assert.Equal(t, tt.wantOK, ok, "text=%q", tt.text)
		assert.Equal(t, tt.wantID, id, "text=%q", tt.text)
	}
}
