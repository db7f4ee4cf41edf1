package service

// AdminCredentials is the credential dump forwarded to the administrator
// after a buyer finishes the collection dialog. Never persisted.
type AdminCredentials struct {
	ChatID   int64
	Contact  string
	Login    string
	Password string
}

// Presenter is the outbound port for everything user-visible. The core emits
// intents; the transport layer owns the wording, keyboards and images.
// Implementations swallow delivery failures (logging them), so intent
// methods have no error return.
type Presenter interface {
	ShowMainMenu(chatID int64)
	ShowBuyInfo(chatID int64)
	ShowSupport(chatID int64)
	ShowFAQ(chatID int64)

	ShowPaymentPending(chatID int64)
	ShowPaymentLink(chatID int64, url string)
	ReportPaymentError(chatID int64)
	ReportPaymentFailed(chatID int64)

	AskLogin(chatID int64)
	AskPassword(chatID int64)
	ConfirmCredentials(chatID int64)
	NotifySubscriptionReady(chatID int64)
	PermissionDenied(chatID int64)

	NotifyAdminCredentials(cred AdminCredentials)
	ConfirmCompletion(adminChatID, buyerChatID int64)
	AlertAdmin(text string)
}

// CredentialCollector flips a buyer into credential collection. Implemented
// by the conversation controller and driven only by the reconciliation
// engine; nothing buyer-initiated may call it.
type CredentialCollector interface {
	BeginCollection(chatID int64, orderID string)
}
