package domain

type ConversationStep string

const (
	StepNone             ConversationStep = "none"
	StepAwaitingLogin    ConversationStep = "awaiting_login"
	StepAwaitingPassword ConversationStep = "awaiting_password"
)

// ConversationState is the per-buyer credential collection state. It exists
// only between a confirmed payment and the hand-off to the admin and is
// never persisted.
type ConversationState struct {
	Step    ConversationStep
	Login   string
	OrderID string
}
