package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventlane/eventlane/internal/config"
	paymentdomain "github.com/eventlane/eventlane/internal/payment/domain"
	taxservice "github.com/eventlane/eventlane/internal/tax/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeWebhookService struct {
	gotPayload []byte
	gotHeaders http.Header
	err        error
}

func (f *fakeWebhookService) HandleWebhook(ctx context.Context, payload []byte, headers http.Header) error {
	f.gotPayload = payload
	f.gotHeaders = headers
	return f.err
}

func newWebhookRouter(svc paymentdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	srv := &Server{
		cfg:        config.Config{},
		log:        zap.NewNop(),
		webhookSvc: svc,
	}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/payments/webhook", srv.HandlePaymentWebhook)
	return router
}

func TestHandlePaymentWebhookAcksValidDelivery(t *testing.T) {
	svc := &fakeWebhookService{}
	router := newWebhookRouter(svc)

	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewBuffer(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !bytes.Equal(svc.gotPayload, body) {
		t.Fatalf("handler must pass raw bytes through, got %q", svc.gotPayload)
	}
	if svc.gotHeaders.Get("Stripe-Signature") != "t=1,v1=abc" {
		t.Fatal("handler must forward the signature header")
	}

	var parsed map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if parsed["received"] != true {
		t.Fatalf("expected received ack, got %v", parsed)
	}
}

func TestHandlePaymentWebhookInvalidSignatureReturns400(t *testing.T) {
	svc := &fakeWebhookService{err: paymentdomain.ErrInvalidSignature}
	router := newWebhookRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewBufferString(`{}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func newTaxRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	srv := &Server{
		cfg:    config.Config{},
		log:    zap.NewNop(),
		taxSvc: taxservice.New(taxservice.Params{Log: zap.NewNop()}),
	}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/tax/calculate", srv.CalculateTax)
	return router
}

func TestCalculateTaxHandler(t *testing.T) {
	router := newTaxRouter()

	req := httptest.NewRequest(http.MethodGet, "/tax/calculate?postalCode=90210&subtotal=10000", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var parsed struct {
		Jurisdiction string  `json:"jurisdiction"`
		Rate         float64 `json:"rate"`
		TaxAmount    int64   `json:"taxAmount"`
		Total        int64   `json:"total"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if parsed.Jurisdiction != "US-CA-LAX" || parsed.Rate != 8.5 {
		t.Fatalf("unexpected jurisdiction %+v", parsed)
	}
	if parsed.TaxAmount != 850 || parsed.Total != 10850 {
		t.Fatalf("unexpected amounts %+v", parsed)
	}
}

func TestCalculateTaxHandlerUnknownPostalCode(t *testing.T) {
	router := newTaxRouter()

	req := httptest.NewRequest(http.MethodGet, "/tax/calculate?postalCode=00001&subtotal=10000", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestCalculateTaxHandlerMissingParams(t *testing.T) {
	router := newTaxRouter()

	req := httptest.NewRequest(http.MethodGet, "/tax/calculate?subtotal=10000", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/tax/calculate?postalCode=90210&subtotal=-5", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for negative subtotal, got %d", resp.Code)
	}
}

func TestCustomerAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{cfg: config.Config{}, log: zap.NewNop()}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/cart", srv.CustomerAuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without header, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-Customer-ID", "not-a-snowflake")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for a bad id, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-Customer-ID", "1234567890123456789")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}
