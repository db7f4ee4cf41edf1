package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SummitSummer/Botishe/internal/domain"
	"github.com/SummitSummer/Botishe/internal/infrastructure/payment"
	"github.com/SummitSummer/Botishe/internal/logger"
	"github.com/SummitSummer/Botishe/internal/repo"
)

type CheckoutService interface {
	// StartPayment creates a gateway transaction for the buyer, records the
	// pending order and shows the payment link. Single product, single
	// price: amount and currency are fixed at construction.
	StartPayment(ctx context.Context, chatID int64)
}

type checkoutService struct {
	orders   repo.OrderRepo
	gateway  payment.Gateway
	present  Presenter
	amount   int64
	currency string
}

func NewCheckoutService(
	orders repo.OrderRepo,
	gateway payment.Gateway,
	present Presenter,
	amount int64,
	currency string,
) CheckoutService {
	return &checkoutService{
		orders:   orders,
		gateway:  gateway,
		present:  present,
		amount:   amount,
		currency: currency,
	}
}

func (s *checkoutService) StartPayment(ctx context.Context, chatID int64) {
	s.present.ShowPaymentPending(chatID)

	now := time.Now()
	order := &domain.Order{
		LocalID:   fmt.Sprintf("order_%d_%d", chatID, now.UnixMilli()),
		ChatID:    chatID,
		Amount:    s.amount,
		Currency:  s.currency,
		Status:    domain.OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := s.gateway.CreateTransaction(ctx, order)
	if err != nil {
		logger.Logger.Error().Err(err).
			Int64("chat_id", chatID).
			Str("order", order.LocalID).
			Msg("transaction creation failed")
		s.present.ReportPaymentError(chatID)
		s.present.AlertAdmin(fmt.Sprintf("Не удалось создать платёж для %d (%s): %v", chatID, order.LocalID, err))
		return
	}

	order.RemoteID = result.RemoteID
	order.RawCreateResponse = result.Raw
	s.orders.Put(order.LocalID, order)
	if result.RemoteID != "" {
		s.orders.PutAlias(result.RemoteID, order.LocalID)
	}

	link := result.PaymentURL
	if link == "" && result.RemoteID != "" {
		link, err = s.gateway.LookupTransaction(ctx, result.RemoteID)
		if err != nil {
			logger.Logger.Warn().Err(err).
				Str("remote_id", result.RemoteID).
				Msg("transaction lookup failed")
		}
	}

	if link == "" {
		s.present.ReportPaymentError(chatID)
		s.present.AlertAdmin(fmt.Sprintf("Платёж %s создан (id %s), но ссылка на оплату недоступна", order.LocalID, result.RemoteID))
		return
	}

	logger.Logger.Info().
		Int64("chat_id", chatID).
		Str("order", order.LocalID).
		Str("remote_id", result.RemoteID).
		Msg("payment link issued")
	s.present.ShowPaymentLink(chatID, link)
}
