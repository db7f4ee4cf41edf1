package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/SummitSummer/Botishe/internal/database"
	"github.com/SummitSummer/Botishe/internal/domain"
	"github.com/SummitSummer/Botishe/internal/infrastructure/payment"
	"github.com/SummitSummer/Botishe/internal/repo"
)

func newTestOrders(t *testing.T) repo.OrderRepo {
	t.Helper()
	return repo.NewOrderRepo(database.New(filepath.Join(t.TempDir(), "data.json")))
}

// spyPresenter records every intent the core emits.
type spyPresenter struct {
	mainMenu       []int64
	buyInfo        []int64
	support        []int64
	faq            []int64
	paymentPending []int64
	linkChats      []int64
	links          []string
	paymentErrors  []int64
	paymentFailed  []int64
	askLogin       []int64
	askPassword    []int64
	confirmCred    []int64
	ready          []int64
	denied         []int64
	adminCreds     []AdminCredentials
	completions    [][2]int64
	alerts         []string
}

func (s *spyPresenter) ShowMainMenu(chatID int64)       { s.mainMenu = append(s.mainMenu, chatID) }
func (s *spyPresenter) ShowBuyInfo(chatID int64)        { s.buyInfo = append(s.buyInfo, chatID) }
func (s *spyPresenter) ShowSupport(chatID int64)        { s.support = append(s.support, chatID) }
func (s *spyPresenter) ShowFAQ(chatID int64)            { s.faq = append(s.faq, chatID) }
func (s *spyPresenter) ShowPaymentPending(chatID int64) { s.paymentPending = append(s.paymentPending, chatID) }
func (s *spyPresenter) ShowPaymentLink(chatID int64, url string) {
	s.linkChats = append(s.linkChats, chatID)
	s.links = append(s.links, url)
}
func (s *spyPresenter) ReportPaymentError(chatID int64)  { s.paymentErrors = append(s.paymentErrors, chatID) }
func (s *spyPresenter) ReportPaymentFailed(chatID int64) { s.paymentFailed = append(s.paymentFailed, chatID) }
func (s *spyPresenter) AskLogin(chatID int64)            { s.askLogin = append(s.askLogin, chatID) }
func (s *spyPresenter) AskPassword(chatID int64)         { s.askPassword = append(s.askPassword, chatID) }
func (s *spyPresenter) ConfirmCredentials(chatID int64)  { s.confirmCred = append(s.confirmCred, chatID) }
func (s *spyPresenter) NotifySubscriptionReady(chatID int64) { s.ready = append(s.ready, chatID) }
func (s *spyPresenter) PermissionDenied(chatID int64)        { s.denied = append(s.denied, chatID) }
func (s *spyPresenter) NotifyAdminCredentials(cred AdminCredentials) {
	s.adminCreds = append(s.adminCreds, cred)
}
func (s *spyPresenter) ConfirmCompletion(adminChatID, buyerChatID int64) {
	s.completions = append(s.completions, [2]int64{adminChatID, buyerChatID})
}
func (s *spyPresenter) AlertAdmin(text string) { s.alerts = append(s.alerts, text) }

// spyCollector records BeginCollection calls from the reconciler.
type spyCollector struct {
	chats  []int64
	orders []string
}

func (s *spyCollector) BeginCollection(chatID int64, orderID string) {
	s.chats = append(s.chats, chatID)
	s.orders = append(s.orders, orderID)
}

// stubGateway returns canned results.
type stubGateway struct {
	result      *payment.CreateResult
	err         error
	lookupURL   string
	lookupErr   error
	lookupCalls int
	created     []*domain.Order
}

func (g *stubGateway) CreateTransaction(_ context.Context, order *domain.Order) (*payment.CreateResult, error) {
	g.created = append(g.created, order)
	return g.result, g.err
}

func (g *stubGateway) LookupTransaction(_ context.Context, _ string) (string, error) {
	g.lookupCalls++
	return g.lookupURL, g.lookupErr
}
