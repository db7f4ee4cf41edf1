package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/SummitSummer/Botishe/internal/domain"
	"github.com/SummitSummer/Botishe/internal/logger"
)

// ErrGatewayUnavailable means every creation endpoint failed, or none of
// them produced either a payment URL or a remote transaction id.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

type CreateResult struct {
	// RemoteID is the gateway-assigned transaction id, possibly empty.
	RemoteID string
	// PaymentURL is the redirect the buyer must open, possibly empty when
	// the gateway only returned an id.
	PaymentURL string
	// Raw is the creation response body, retained on the order for
	// diagnostics.
	Raw json.RawMessage
}

type Gateway interface {
	CreateTransaction(ctx context.Context, order *domain.Order) (*CreateResult, error)
	// LookupTransaction probes the status bases for a redirect-like field.
	// An empty string with nil error means "payment link unavailable",
	// which the caller must not treat as a hard failure.
	LookupTransaction(ctx context.Context, remoteID string) (string, error)
}

type Config struct {
	ShopID string
	Secret string
	// CreateEndpoints are full creation URLs tried in priority order.
	CreateEndpoints []string
	// StatusBases are URL prefixes the remote id is appended to.
	StatusBases []string
	WebhookURL  string
	SuccessURL  string
	FailURL     string
	Description string
	Timeout     time.Duration
}

type plategaGateway struct {
	cfg    Config
	client *resty.Client
}

func NewPlategaGateway(cfg Config) Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-MerchantId", cfg.ShopID).
		SetHeader("X-Secret", cfg.Secret)
	return &plategaGateway{cfg: cfg, client: client}
}

type createRequest struct {
	ShopID      string `json:"shop_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	OrderID     string `json:"order_id"`
	Description string `json:"description"`
	SuccessURL  string `json:"success_url"`
	FailURL     string `json:"fail_url"`
	WebhookURL  string `json:"webhook_url"`
	Custom      string `json:"custom"`
}

type createResponse struct {
	ID            string `json:"id"`
	TransactionID string `json:"transactionId"`
	TxID          string `json:"transaction_id"`
	PaymentURL    string `json:"payment_url"`
	URL           string `json:"url"`
	RedirectURL   string `json:"redirect_url"`
	Link          string `json:"link"`
}

func (r *createResponse) remoteID() string {
	return firstNonEmpty(r.ID, r.TransactionID, r.TxID)
}

func (r *createResponse) paymentURL() string {
	return firstNonEmpty(r.PaymentURL, r.URL, r.RedirectURL, r.Link)
}

// CreateTransaction walks the creation endpoints in order and stops at the
// first response carrying a usable payment URL. A response with only a
// remote id is remembered; it is returned if no later endpoint does better.
func (g *plategaGateway) CreateTransaction(ctx context.Context, order *domain.Order) (*CreateResult, error) {
	correlation, err := json.Marshal(map[string]int64{"chatId": order.ChatID})
	if err != nil {
		return nil, err
	}

	body := createRequest{
		ShopID:      g.cfg.ShopID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		OrderID:     order.LocalID,
		Description: g.cfg.Description,
		SuccessURL:  g.cfg.SuccessURL,
		FailURL:     g.cfg.FailURL,
		WebhookURL:  g.cfg.WebhookURL,
		Custom:      string(correlation),
	}

	var attempts []string
	var partial *CreateResult

	for _, endpoint := range g.cfg.CreateEndpoints {
		resp, err := g.client.R().
			SetContext(ctx).
			SetBody(body).
			Post(endpoint)
		if err != nil {
			// A timeout counts the same as any other transport failure.
			attempts = append(attempts, fmt.Sprintf("%s: %v", endpoint, err))
			continue
		}
		if resp.IsError() {
			attempts = append(attempts, fmt.Sprintf("%s: status %d", endpoint, resp.StatusCode()))
			continue
		}

		raw := append(json.RawMessage(nil), resp.Body()...)
		var parsed createResponse
		if err := json.Unmarshal(raw, &parsed); err != nil {
			attempts = append(attempts, fmt.Sprintf("%s: %v", endpoint, err))
			continue
		}

		result := &CreateResult{
			RemoteID:   parsed.remoteID(),
			PaymentURL: parsed.paymentURL(),
			Raw:        raw,
		}
		if result.PaymentURL != "" {
			return result, nil
		}
		if result.RemoteID != "" && partial == nil {
			partial = result
		}
		attempts = append(attempts, fmt.Sprintf("%s: response without payment link", endpoint))
	}

	if partial != nil {
		logger.Logger.Warn().
			Str("order", order.LocalID).
			Str("remote_id", partial.RemoteID).
			Msg("gateway returned transaction id but no payment link")
		return partial, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrGatewayUnavailable, strings.Join(attempts, "; "))
}

func (g *plategaGateway) LookupTransaction(ctx context.Context, remoteID string) (string, error) {
	for _, base := range g.cfg.StatusBases {
		url := strings.TrimRight(base, "/") + "/" + remoteID

		resp, err := g.client.R().SetContext(ctx).Get(url)
		if err != nil || resp.IsError() {
			continue
		}

		var parsed createResponse
		if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
			continue
		}
		if link := parsed.paymentURL(); link != "" {
			return link, nil
		}
	}
	return "", nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
