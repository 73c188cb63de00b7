package webhook

import (
	"net/http"

	"shopbot/internal/gateway"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Telegram Webhook更新の必要な部分だけを受ける。
type update struct {
	UpdateID int64          `json:"update_id"`
	Message  *message       `json:"message"`
	Callback *callbackQuery `json:"callback_query"`
}

type message struct {
	MessageID int64       `json:"message_id"`
	From      *user       `json:"from"`
	Chat      chat        `json:"chat"`
	Text      string      `json:"text"`
	Photo     []photoSize `json:"photo"`
}

type user struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type chat struct {
	ID int64 `json:"id"`
}

type photoSize struct {
	FileID string `json:"file_id"`
}

type callbackQuery struct {
	From    *user    `json:"from"`
	Message *message `json:"message"`
	Data    string   `json:"data"`
}

// Webhook受け口。更新をgateway.Eventに変換してhandlerへ渡す。
type Server struct {
	e       *echo.Echo
	handler gateway.Handler
	logger  zerolog.Logger
}

func NewServer(token string, handler gateway.Handler, logger zerolog.Logger) *Server {
	s := &Server{
		e:       echo.New(),
		handler: handler,
		logger:  logger,
	}
	s.e.HideBanner = true

	// パスにbotトークンを含めるのがTelegram流の認証。
	s.e.POST("/webhook/"+token, s.receive)
	s.e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return s
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) receive(c echo.Context) error {
	var upd update
	if err := c.Bind(&upd); err != nil {
		s.logger.Warn().Err(err).Msg("webhook: malformed update")
		return c.NoContent(http.StatusBadRequest)
	}

	ev, ok := toEvent(upd)
	if !ok {
		// 対応しない更新種別は黙って捨てる
		return c.NoContent(http.StatusOK)
	}

	// 同一ユーザーの順序はTelegram側の配送に依存する：
	// Webhookは既定で更新を1件ずつ順にPOSTし、200を返すまで次を送らない。
	// ここでは並べ替えや待ち行列は持たない。
	s.handler.Handle(c.Request().Context(), ev)
	return c.NoContent(http.StatusOK)
}

func toEvent(upd update) (gateway.Event, bool) {
	if upd.Callback != nil && upd.Callback.From != nil && upd.Callback.Message != nil {
		cb, err := gateway.ParseCallback(upd.Callback.Data)
		if err != nil {
			return gateway.Event{}, false
		}
		return gateway.Event{
			UserID:    upd.Callback.From.ID,
			ChatID:    upd.Callback.Message.Chat.ID,
			MessageID: upd.Callback.Message.MessageID,
			UserName:  fullName(upd.Callback.From),
			Callback:  &cb,
		}, true
	}

	if upd.Message != nil && upd.Message.From != nil {
		ev := gateway.Event{
			UserID:    upd.Message.From.ID,
			ChatID:    upd.Message.Chat.ID,
			MessageID: upd.Message.MessageID,
			UserName:  fullName(upd.Message.From),
			Text:      upd.Message.Text,
		}
		if len(upd.Message.Photo) > 0 {
			// 一番大きいサイズが末尾に来る
			ev.PhotoID = upd.Message.Photo[len(upd.Message.Photo)-1].FileID
		}
		return ev, true
	}

	return gateway.Event{}, false
}

func fullName(u *user) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
