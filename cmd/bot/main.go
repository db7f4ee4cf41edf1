package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/SummitSummer/Botishe/internal/config"
	"github.com/SummitSummer/Botishe/internal/database"
	"github.com/SummitSummer/Botishe/internal/infrastructure/payment"
	"github.com/SummitSummer/Botishe/internal/logger"
	"github.com/SummitSummer/Botishe/internal/repo"
	"github.com/SummitSummer/Botishe/internal/service"
	"github.com/SummitSummer/Botishe/internal/transport/telegram"
	"github.com/SummitSummer/Botishe/internal/transport/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger.Init(cfg.LogLevel, cfg.LogToFile)

	snap := database.New(cfg.DataFile)
	orders := repo.NewOrderRepo(snap)
	states := repo.NewConversationRepo()

	var gateway payment.Gateway
	if cfg.GatewayMock {
		gateway = payment.NewMockGateway()
		logger.Logger.Warn().Msg("running with the mock payment gateway")
	} else {
		gateway = payment.NewPlategaGateway(payment.Config{
			ShopID:          cfg.ShopID,
			Secret:          cfg.APISecret,
			CreateEndpoints: cfg.CreateEndpoints,
			StatusBases:     cfg.StatusBases,
			WebhookURL:      cfg.WebhookURL(),
			SuccessURL:      cfg.SuccessURL,
			FailURL:         cfg.FailURL,
			Description:     cfg.Description,
			Timeout:         cfg.GatewayTimeout,
		})
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal(err)
	}

	present := telegram.NewPresenter(api, cfg.AdminChatID, cfg.Price)
	checkout := service.NewCheckoutService(orders, gateway, present, cfg.Price, cfg.Currency)
	conversation := service.NewConversationService(states, checkout, present, cfg.AdminChatID)
	reconciler := service.NewReconcileService(orders, conversation, present)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: webhook.NewServer(cfg.ShopID, cfg.APISecret, reconciler, snap).Handler(),
	}
	go func() {
		logger.Logger.Info().Str("port", cfg.Port).Msg("webhook server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("webhook server failed")
		}
	}()

	bot := telegram.NewBot(api, conversation)
	go bot.Run(ctx)

	<-ctx.Done()
	logger.Logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("webhook server shutdown failed")
	}
	if err := snap.Close(); err != nil {
		logger.Logger.Error().Err(err).Msg("snapshot close failed")
	}
}
