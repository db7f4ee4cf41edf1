package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/SummitSummer/Botishe/internal/domain"
)

// mockGateway is a deterministic in-process stand-in for the real gateway,
// used for local runs without Platega credentials (GATEWAY_MOCK=true).
type mockGateway struct {
	mu    sync.RWMutex
	links map[string]string
}

func NewMockGateway() Gateway {
	return &mockGateway{links: make(map[string]string)}
}

func (g *mockGateway) CreateTransaction(_ context.Context, order *domain.Order) (*CreateResult, error) {
	remoteID := "mock-" + order.LocalID
	link := fmt.Sprintf("https://pay.example.test/%s", remoteID)

	g.mu.Lock()
	g.links[remoteID] = link
	g.mu.Unlock()

	raw, _ := json.Marshal(map[string]string{
		"id":          remoteID,
		"payment_url": link,
		"status":      "PENDING",
	})
	return &CreateResult{RemoteID: remoteID, PaymentURL: link, Raw: raw}, nil
}

func (g *mockGateway) LookupTransaction(_ context.Context, remoteID string) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.links[remoteID], nil
}
