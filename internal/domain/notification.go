package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Notification is the canonical form of a gateway webhook body. The wire
// format is untrusted and inconsistent: identifiers show up at the top level
// or nested one level under "transaction", under several names, and the
// status token arrives in arbitrary casing. ParseNotification is the single
// place that probes raw fields; everything downstream works on this struct.
type Notification struct {
	// TxID is the primary candidate transaction id: first present of the
	// top-level id fields, then the nested ones.
	TxID string
	// AltID is a second identifier distinct from TxID, when the body
	// carries one under the paymentId spellings.
	AltID string
	// Status is the canonical uppercase status token.
	Status string
	// Correlation is the opaque payload handed to the gateway at creation
	// time and echoed back, normally JSON carrying the buyer chat id.
	Correlation string
	Amount      int64
	Raw         json.RawMessage
}

func ParseNotification(body []byte) (*Notification, error) {
	var top map[string]any
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, err
	}
	nested, _ := top["transaction"].(map[string]any)

	n := &Notification{Raw: append(json.RawMessage(nil), body...)}

	idKeys := []string{"id", "transactionId", "transaction_id", "order_id"}
	n.TxID = pickString(top, idKeys...)
	if n.TxID == "" {
		n.TxID = pickString(nested, idKeys...)
	}

	altKeys := []string{"paymentId", "payment_id"}
	alt := pickString(top, altKeys...)
	if alt == "" {
		alt = pickString(nested, altKeys...)
	}
	if alt != n.TxID {
		n.AltID = alt
	}

	status := pickString(top, "status")
	if status == "" {
		status = pickString(nested, "status")
	}
	n.Status = strings.ToUpper(strings.TrimSpace(status))

	n.Correlation = pickCorrelation(top)
	if n.Correlation == "" {
		n.Correlation = pickCorrelation(nested)
	}

	n.Amount = pickAmount(top)
	if n.Amount == 0 {
		n.Amount = pickAmount(nested)
	}
	return n, nil
}

// ChatID extracts the buyer chat id from the correlation payload.
func (n *Notification) ChatID() (int64, bool) {
	if n.Correlation == "" {
		return 0, false
	}
	var payload struct {
		ChatID any `json:"chatId"`
	}
	if err := json.Unmarshal([]byte(n.Correlation), &payload); err != nil {
		return 0, false
	}
	switch v := payload.ChatID.(type) {
	case float64:
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil
	}
	return 0, false
}

func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func pickCorrelation(m map[string]any) string {
	switch v := m["custom"].(type) {
	case string:
		return v
	case map[string]any:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
	return ""
}

func pickAmount(m map[string]any) int64 {
	switch v := m["amount"].(type) {
	case float64:
		return int64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int64(f)
		}
	}
	return 0
}
