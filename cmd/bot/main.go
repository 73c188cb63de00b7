package main

import (
	"os"

	"shopbot/internal/config"
	"shopbot/internal/domain/model"
	"shopbot/internal/gateway/telegram"
	"shopbot/internal/gateway/webhook"
	"shopbot/internal/handler"
	"shopbot/internal/infra/db"
	infraRepo "shopbot/internal/infra/repository"
	"shopbot/internal/session"
	"shopbot/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	//環境変数（.envは無くてもよい）
	_ = godotenv.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.Review{},
		&model.AuditLog{},
	); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	statsRepo := infraRepo.NewStatsGormRepository(gormDB)
	tx := infraRepo.NewTxManagerGorm(gormDB)

	policy := usecase.DeliveryPolicy{
		CityToken:     cfg.CityToken,
		InCityFee:     cfg.InCityFee,
		OutOfCityFee:  cfg.OutOfCityFee,
		FreeThreshold: cfg.FreeDeliveryThreshold,
	}

	catalogUC := usecase.NewCatalogUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(tx, cartRepo, policy, cfg.StockDeductOnCheckout)
	productsUC := usecase.NewProductAdminUsecase(productRepo, auditRepo)
	ordersUC := usecase.NewOrderAdminUsecase(tx, cfg.AllowStatusJumps)
	reviewsUC := usecase.NewReviewUsecase(reviewRepo)
	statsUC := usecase.NewStatsUsecase(statsRepo, reviewRepo)

	sender := telegram.NewClient(cfg.BotToken)
	notifier := handler.NewNotifier(sender, cfg.AdminIDs, logger)
	sessions := session.NewManager()

	router := handler.NewRouter(
		sender, sessions, cfg.AdminIDs,
		catalogUC, cartUC, checkoutUC,
		productsUC, ordersUC, reviewsUC, statsUC,
		notifier, logger,
	)

	srv := webhook.NewServer(cfg.BotToken, router, logger)

	logger.Info().Str("port", cfg.Port).Msg("bot started")
	if err := srv.Start(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
