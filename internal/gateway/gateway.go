package gateway

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// チャット基盤から届く1イベント。
// テキスト／ボタン押下はTextに、写真はPhotoIDに、
// インラインボタン押下はCallbackに入る。
type Event struct {
	UserID    int64
	ChatID    int64
	MessageID int64

	// 表示名。注文通知などに使う。
	UserName string

	Text string

	// 添付写真のファイル参照（不透明トークン）。無ければ空。
	PhotoID string

	// インラインボタンのペイロード。無ければnil。
	Callback *Callback
}

// インラインボタンに載せるペイロード（action:id）。
type Callback struct {
	Action string
	ID     int64
}

func EncodeCallback(action string, id int64) string {
	return fmt.Sprintf("%s:%d", action, id)
}

func ParseCallback(data string) (Callback, error) {
	action, idPart, ok := strings.Cut(data, ":")
	if !ok || action == "" {
		return Callback{}, fmt.Errorf("malformed callback data: %q", data)
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return Callback{}, fmt.Errorf("malformed callback id: %q", data)
	}
	return Callback{Action: action, ID: id}, nil
}

// 入力欄を置き換えるラベルボタンの行列。
type ReplyKeyboard struct {
	Rows [][]string
}

type InlineButton struct {
	Label string
	Data  string
}

// メッセージに付くコールバック付きボタンの行列。
type InlineKeyboard struct {
	Rows [][]InlineButton
}

// 送信メッセージ。PhotoIDがあれば写真＋キャプションで送る。
// ReplyとInlineは同時に使わない。
type Message struct {
	Text    string
	PhotoID string
	Reply   *ReplyKeyboard
	Inline  *InlineKeyboard
}

// 送信側の約束。実装はTelegram Bot APIクライアント。
type Sender interface {
	Send(ctx context.Context, chatID int64, msg Message) error
	EditText(ctx context.Context, chatID int64, messageID int64, text string) error
}

// 受信イベントを処理する側の約束。
type Handler interface {
	Handle(ctx context.Context, ev Event)
}
