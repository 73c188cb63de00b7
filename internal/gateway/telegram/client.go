package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shopbot/internal/gateway"
)

// Telegram Bot APIの薄いクライアント。
// 送信系（sendMessage / sendPhoto / editMessageText）だけを実装する。
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		baseURL: "https://api.telegram.org/bot" + token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type replyKeyboardPayload struct {
	Keyboard       [][]keyButton `json:"keyboard"`
	ResizeKeyboard bool          `json:"resize_keyboard"`
}

type keyButton struct {
	Text string `json:"text"`
}

type inlineKeyboardPayload struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

func buildMarkup(msg gateway.Message) any {
	if msg.Reply != nil {
		rows := make([][]keyButton, 0, len(msg.Reply.Rows))
		for _, r := range msg.Reply.Rows {
			row := make([]keyButton, 0, len(r))
			for _, label := range r {
				row = append(row, keyButton{Text: label})
			}
			rows = append(rows, row)
		}
		return replyKeyboardPayload{Keyboard: rows, ResizeKeyboard: true}
	}
	if msg.Inline != nil {
		rows := make([][]inlineButton, 0, len(msg.Inline.Rows))
		for _, r := range msg.Inline.Rows {
			row := make([]inlineButton, 0, len(r))
			for _, b := range r {
				row = append(row, inlineButton{Text: b.Label, CallbackData: b.Data})
			}
			rows = append(rows, row)
		}
		return inlineKeyboardPayload{InlineKeyboard: rows}
	}
	return nil
}

func (c *Client) Send(ctx context.Context, chatID int64, msg gateway.Message) error {
	if msg.PhotoID != "" {
		payload := map[string]any{
			"chat_id": chatID,
			"photo":   msg.PhotoID,
			"caption": msg.Text,
		}
		if m := buildMarkup(msg); m != nil {
			payload["reply_markup"] = m
		}
		return c.call(ctx, "sendPhoto", payload)
	}

	payload := map[string]any{
		"chat_id": chatID,
		"text":    msg.Text,
	}
	if m := buildMarkup(msg); m != nil {
		payload["reply_markup"] = m
	}
	return c.call(ctx, "sendMessage", payload)
}

func (c *Client) EditText(ctx context.Context, chatID int64, messageID int64, text string) error {
	return c.call(ctx, "editMessageText", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	})
}

func (c *Client) call(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("telegram %s: status %d: %s", method, resp.StatusCode, detail)
	}
	return nil
}
