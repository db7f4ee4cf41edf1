package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SummitSummer/Botishe/internal/domain"
	"github.com/SummitSummer/Botishe/internal/logger"
	"github.com/SummitSummer/Botishe/internal/repo"
)

const statusConfirmed = "CONFIRMED"

// ReconcileService matches inbound gateway notifications to pending orders
// and applies the status transition exactly once.
type ReconcileService interface {
	HandleNotification(n *domain.Notification)
}

type reconcileService struct {
	// mu serializes notification handling. The webhook server delivers on
	// concurrent handler goroutines, and the status check plus transition
	// below is the sole guard against double-processing; without the lock
	// two racing duplicates both observe pending and both fire the paid
	// side effects.
	mu        sync.Mutex
	orders    repo.OrderRepo
	collector CredentialCollector
	present   Presenter
}

func NewReconcileService(orders repo.OrderRepo, collector CredentialCollector, present Presenter) ReconcileService {
	return &reconcileService{orders: orders, collector: collector, present: present}
}

func (s *reconcileService) HandleNotification(n *domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.resolve(n)
	if order == nil {
		s.handleUnmatched(n)
		return
	}

	now := time.Now()
	switch n.Status {
	case statusConfirmed:
		if order.Status == domain.OrderPaid {
			// Gateway redelivery: acknowledge, no side effects.
			logger.Logger.Info().
				Str("order", order.LocalID).
				Msg("duplicate confirmation ignored")
			return
		}
		if order.Status.Terminal() {
			logger.Logger.Warn().
				Str("order", order.LocalID).
				Str("status", string(order.Status)).
				Msg("confirmation for already terminal order ignored")
			return
		}
		order.Status = domain.OrderPaid
		order.PaidAt = &now
		order.UpdatedAt = now
		s.orders.Put(order.LocalID, order)
		logger.Logger.Info().
			Str("order", order.LocalID).
			Int64("chat_id", order.ChatID).
			Msg("payment confirmed")
		s.collector.BeginCollection(order.ChatID, order.LocalID)

	case "CANCELED", "FAILED", "EXPIRED":
		if order.Status.Terminal() {
			logger.Logger.Info().
				Str("order", order.LocalID).
				Str("status", n.Status).
				Msg("duplicate terminal notification ignored")
			return
		}
		order.Status = domain.OrderStatus(strings.ToLower(n.Status))
		order.UpdatedAt = now
		s.orders.Put(order.LocalID, order)
		logger.Logger.Info().
			Str("order", order.LocalID).
			Str("status", string(order.Status)).
			Msg("payment did not complete")
		if order.ChatID != 0 {
			s.present.ReportPaymentFailed(order.ChatID)
		}

	default:
		// Intermediate or unknown status: persist as observed, nothing
		// buyer-visible happens.
		if order.Status.Terminal() {
			return
		}
		order.Status = domain.OrderStatus(strings.ToLower(n.Status))
		order.UpdatedAt = now
		s.orders.Put(order.LocalID, order)
	}
}

// resolve runs the matching strategies in strict priority order:
//  1. direct store lookup by the candidate transaction id;
//  2. correlation payload decode, adopting the buyer's pending order when
//     the transaction id is unknown;
//  3. pending order with equal amount, first match (ambiguous when several
//     equal-amount orders are pending concurrently; kept as a documented
//     limitation);
//  4. lookup by an alternate remote id distinct from the candidate.
func (s *reconcileService) resolve(n *domain.Notification) *domain.Order {
	if n.TxID != "" {
		if order, ok := s.orders.Get(n.TxID); ok {
			return order
		}
	}

	if chatID, ok := n.ChatID(); ok && chatID != 0 {
		pending := s.orders.Scan(func(o *domain.Order) bool {
			return o.Status == domain.OrderPending && o.ChatID == chatID
		})
		if len(pending) > 0 {
			return s.adopt(pending[0], n)
		}
		// The correlation names a buyer we have no pending order for. The
		// payment is real, so record it under the notification's id rather
		// than dropping it.
		if n.TxID != "" {
			now := time.Now()
			order := &domain.Order{
				LocalID:   n.TxID,
				ChatID:    chatID,
				Amount:    n.Amount,
				Status:    domain.OrderPending,
				CreatedAt: now,
				UpdatedAt: now,
			}
			s.orders.Put(order.LocalID, order)
			return order
		}
	}

	if n.Amount > 0 {
		pending := s.orders.Scan(func(o *domain.Order) bool {
			return o.Status == domain.OrderPending && o.Amount == n.Amount
		})
		if len(pending) > 0 {
			return s.adopt(pending[0], n)
		}
	}

	if n.AltID != "" {
		if order, ok := s.orders.Get(n.AltID); ok {
			return order
		}
	}
	return nil
}

// adopt indexes the notification's transaction id as an alias of the matched
// order so a redelivery resolves directly.
func (s *reconcileService) adopt(order *domain.Order, n *domain.Notification) *domain.Order {
	if n.TxID != "" && n.TxID != order.LocalID {
		if order.RemoteID == "" {
			order.RemoteID = n.TxID
		}
		s.orders.PutAlias(n.TxID, order.LocalID)
	}
	return order
}

// handleUnmatched quarantines confirmations that resolved to no buyer and
// escalates every unmatched notification; money with unclear attribution is
// never silently swallowed.
func (s *reconcileService) handleUnmatched(n *domain.Notification) {
	if n.Status == statusConfirmed {
		now := time.Now()
		anomaly := &domain.Order{
			LocalID:         "unmapped_" + uuid.NewString(),
			RemoteID:        n.TxID,
			Amount:          n.Amount,
			Status:          domain.OrderConfirmedUnmapped,
			CreatedAt:       now,
			UpdatedAt:       now,
			RawNotification: n.Raw,
		}
		s.orders.Put(anomaly.LocalID, anomaly)
		logger.Logger.Error().
			Str("anomaly", anomaly.LocalID).
			Str("tx_id", n.TxID).
			Msg("confirmed payment could not be mapped to any order")
		s.present.AlertAdmin(fmt.Sprintf(
			"⚠️ Подтверждённый платёж не сопоставлен ни с одним заказом (%s).\nРазберитесь вручную:\n%s",
			anomaly.LocalID, string(n.Raw)))
		return
	}

	logger.Logger.Warn().
		Str("tx_id", n.TxID).
		Str("status", n.Status).
		Msg("notification could not be mapped to any order")
	s.present.AlertAdmin(fmt.Sprintf(
		"⚠️ Уведомление со статусом %s не сопоставлено ни с одним заказом:\n%s",
		n.Status, string(n.Raw)))
}
