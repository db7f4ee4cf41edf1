package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/SummitSummer/Botishe/internal/domain"
	"github.com/SummitSummer/Botishe/internal/logger"
	"github.com/SummitSummer/Botishe/internal/repo"
)

const completePrefix = "complete_"

// ConversationService drives the buyer dialog: menu navigation, checkout,
// and the credential collection machine none → awaiting_login →
// awaiting_password → none. Collection is entered only through
// BeginCollection, i.e. only after reconciliation confirmed a payment.
type ConversationService interface {
	CredentialCollector

	HandleStart(chatID int64)
	HandleCallback(ctx context.Context, chatID int64, data string)
	HandleMessage(chatID int64, contact, text string)
}

type conversationService struct {
	states   repo.ConversationRepo
	checkout CheckoutService
	present  Presenter
	adminID  int64
}

func NewConversationService(
	states repo.ConversationRepo,
	checkout CheckoutService,
	present Presenter,
	adminID int64,
) ConversationService {
	return &conversationService{
		states:   states,
		checkout: checkout,
		present:  present,
		adminID:  adminID,
	}
}

func (s *conversationService) HandleStart(chatID int64) {
	s.states.Clear(chatID)
	s.present.ShowMainMenu(chatID)
}

func (s *conversationService) HandleCallback(ctx context.Context, chatID int64, data string) {
	switch data {
	case "buy":
		s.present.ShowBuyInfo(chatID)
	case "pay":
		s.checkout.StartPayment(ctx, chatID)
	case "support":
		s.present.ShowSupport(chatID)
	case "faq":
		s.present.ShowFAQ(chatID)
	case "menu":
		s.states.Clear(chatID)
		s.present.ShowMainMenu(chatID)
	default:
		if strings.HasPrefix(data, completePrefix) {
			s.handleComplete(chatID, data)
		}
	}
}

// handleComplete is the admin's one-tap fulfillment acknowledgment.
func (s *conversationService) handleComplete(chatID int64, data string) {
	if chatID != s.adminID {
		logger.Logger.Warn().
			Int64("chat_id", chatID).
			Msg("complete action denied for non-admin")
		s.present.PermissionDenied(chatID)
		return
	}

	buyerID, err := strconv.ParseInt(strings.TrimPrefix(data, completePrefix), 10, 64)
	if err != nil {
		logger.Logger.Warn().Str("data", data).Msg("malformed complete action")
		return
	}

	s.present.NotifySubscriptionReady(buyerID)
	s.present.ConfirmCompletion(chatID, buyerID)
}

func (s *conversationService) HandleMessage(chatID int64, contact, text string) {
	// Commands are never consumed as credential data.
	if strings.HasPrefix(text, "/") {
		return
	}

	state, ok := s.states.Get(chatID)
	if !ok || state.Step == domain.StepNone {
		return
	}

	switch state.Step {
	case domain.StepAwaitingLogin:
		state.Login = text
		state.Step = domain.StepAwaitingPassword
		s.states.Set(chatID, state)
		s.present.AskPassword(chatID)

	case domain.StepAwaitingPassword:
		// Forwarded opaquely to the admin, never stored.
		s.present.NotifyAdminCredentials(AdminCredentials{
			ChatID:   chatID,
			Contact:  contact,
			Login:    state.Login,
			Password: text,
		})
		s.present.ConfirmCredentials(chatID)
		s.states.Clear(chatID)
		logger.Logger.Info().
			Int64("chat_id", chatID).
			Str("order", state.OrderID).
			Msg("credentials forwarded to admin")
	}
}

func (s *conversationService) BeginCollection(chatID int64, orderID string) {
	s.states.Set(chatID, domain.ConversationState{
		Step:    domain.StepAwaitingLogin,
		OrderID: orderID,
	})
	s.present.AskLogin(chatID)
}
