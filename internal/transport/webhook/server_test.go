package webhook

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SummitSummer/Botishe/internal/database"
	"github.com/SummitSummer/Botishe/internal/domain"
	"github.com/SummitSummer/Botishe/internal/service"
)

const (
	testShopID = "shop-1"
	testSecret = "s3cret"
)

type spyReconciler struct {
	received []*domain.Notification
	panics   bool
}

func (s *spyReconciler) HandleNotification(n *domain.Notification) {
	if s.panics {
		panic("reconciler exploded")
	}
	s.received = append(s.received, n)
}

func post(t *testing.T, handler http.Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/platega", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func newTestServer(t *testing.T, reconciler service.ReconcileService) *Server {
	t.Helper()
	snap := database.New(filepath.Join(t.TempDir(), "data.json"))
	return NewServer(testShopID, testSecret, reconciler, snap)
}

func validHeaders() map[string]string {
	return map[string]string{
		"X-MerchantId": testShopID,
		"X-Secret":     testSecret,
	}
}

func TestWebhookRejectsMissingCredentials(t *testing.T) {
	reconciler := &spyReconciler{}
	srv := newTestServer(t, reconciler)

	rec := post(t, srv.Handler(), `{"id":"R1","status":"CONFIRMED"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, reconciler.received)
}

func TestWebhookRejectsWrongSecret(t *testing.T) {
	reconciler := &spyReconciler{}
	srv := newTestServer(t, reconciler)

	rec := post(t, srv.Handler(), `{"id":"R1","status":"CONFIRMED"}`, map[string]string{
		"X-MerchantId": testShopID,
		"X-Secret":     "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, reconciler.received)
}

func TestWebhookAcceptsValidDelivery(t *testing.T) {
	reconciler := &spyReconciler{}
	srv := newTestServer(t, reconciler)

	rec := post(t, srv.Handler(), `{"id":"R1","status":"CONFIRMED"}`, validHeaders())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	require.Len(t, reconciler.received, 1)
	assert.Equal(t, "R1", reconciler.received[0].TxID)
	assert.Equal(t, "CONFIRMED", reconciler.received[0].Status)
}

func TestWebhookAcceptsHeaderSpellingVariant(t *testing.T) {
	reconciler := &spyReconciler{}
	srv := newTestServer(t, reconciler)

	rec := post(t, srv.Handler(), `{"id":"R1","status":"CONFIRMED"}`, map[string]string{
		"X-Merchant-Id": testShopID,
		"X-Secret":      testSecret,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, reconciler.received, 1)
}

func TestWebhookAcksUnparseableBody(t *testing.T) {
	reconciler := &spyReconciler{}
	srv := newTestServer(t, reconciler)

	rec := post(t, srv.Handler(), "not json", validHeaders())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, reconciler.received)
}

func TestWebhookAcksDespiteProcessingPanic(t *testing.T) {
	reconciler := &spyReconciler{panics: true}
	srv := newTestServer(t, reconciler)

	rec := post(t, srv.Handler(), `{"id":"R1","status":"CONFIRMED"}`, validHeaders())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &spyReconciler{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")

	// The snapshot backing the store is reported alongside; no order was
	// ever written, so the file does not exist yet.
	assert.Contains(t, rec.Body.String(), `"snapshot"`)
	assert.Contains(t, rec.Body.String(), `"empty"`)
}
