package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string // Webhookサーバーのポート（8080）
	BotToken string // Bot APIトークン

	AdminIDs []int64 // 管理者の許可リスト（カンマ区切り）

	CityToken             string          // 市内判定トークン（Бишкек）
	InCityFee             decimal.Decimal // 市内配送料
	OutOfCityFee          decimal.Decimal // 市外配送料
	FreeDeliveryThreshold decimal.Decimal // 市内無料になる小計閾値

	StockDeductOnCheckout bool // 注文確定時に在庫を減らすか
	AllowStatusJumps      bool // 注文ステータスの遷移表を無視するか（旧互換）
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port:     getenv("PORT", "8080"),
		BotToken: os.Getenv("BOT_TOKEN"),

		CityToken: getenv("CITY_TOKEN", "Бишкек"),

		StockDeductOnCheckout: getenvBool("STOCK_DEDUCT_ON_CHECKOUT"),
		AllowStatusJumps:      getenvBool("ALLOW_STATUS_JUMPS"),
	}

	//必須チェック
	if cfg.BotToken == "" {
		return Config{}, fmt.Errorf("BOT_TOKEN is required")
	}

	adminIDs, err := parseAdminIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return Config{}, err
	}
	if len(adminIDs) == 0 {
		return Config{}, fmt.Errorf("ADMIN_IDS is required")
	}
	cfg.AdminIDs = adminIDs

	if cfg.InCityFee, err = getenvDecimal("IN_CITY_FEE", "150"); err != nil {
		return Config{}, err
	}
	if cfg.OutOfCityFee, err = getenvDecimal("OUT_OF_CITY_FEE", "250"); err != nil {
		return Config{}, err
	}
	if cfg.FreeDeliveryThreshold, err = getenvDecimal("FREE_DELIVERY_THRESHOLD", "1000"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parseAdminIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_IDS must be comma-separated numbers: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func getenvDecimal(key string, def string) (decimal.Decimal, error) {
	v := getenv(key, def)
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s must be number: %w", key, err)
	}
	return d, nil
}
