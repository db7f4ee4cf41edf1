package repo

import (
	"sync"

	"github.com/SummitSummer/Botishe/internal/domain"
)

// ConversationRepo holds the per-buyer credential collection state. The
// state is ephemeral: it never reaches the snapshot.
type ConversationRepo interface {
	Get(chatID int64) (domain.ConversationState, bool)
	Set(chatID int64, state domain.ConversationState)
	Clear(chatID int64)
}

type conversationRepo struct {
	mu     sync.RWMutex
	states map[int64]domain.ConversationState
}

func NewConversationRepo() ConversationRepo {
	return &conversationRepo{states: make(map[int64]domain.ConversationState)}
}

func (r *conversationRepo) Get(chatID int64) (domain.ConversationState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.states[chatID]
	return state, ok
}

func (r *conversationRepo) Set(chatID int64, state domain.ConversationState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[chatID] = state
}

func (r *conversationRepo) Clear(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, chatID)
}
