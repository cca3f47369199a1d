package service_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	checkoutdomain "github.com/eventlane/eventlane/internal/checkout/domain"
	stripeadapter "github.com/eventlane/eventlane/internal/payment/adapters/stripe"
	paymentdomain "github.com/eventlane/eventlane/internal/payment/domain"
	paymentservice "github.com/eventlane/eventlane/internal/payment/service"
	"go.uber.org/zap"
)

const testWebhookSecret = "whsec_test_secret"

type noopAuditService struct{}

func (noopAuditService) AuditLog(ctx context.Context, action string, targetType string, targetID *string, metadata map[string]any) error {
	return nil
}

type fakeCheckoutService struct {
	completed []string
	expired   []string
	lastConf  string
	err       error
}

func (f *fakeCheckoutService) CreateSession(ctx context.Context, req checkoutdomain.CreateSessionRequest) (*checkoutdomain.CreateSessionResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCheckoutService) Complete(ctx context.Context, providerSessionID, confirmationID string) error {
	if f.err != nil {
		return f.err
	}
	f.completed = append(f.completed, providerSessionID)
	f.lastConf = confirmationID
	return nil
}

func (f *fakeCheckoutService) Expire(ctx context.Context, providerSessionID string) error {
	if f.err != nil {
		return f.err
	}
	f.expired = append(f.expired, providerSessionID)
	return nil
}

func (f *fakeCheckoutService) GetByProviderSessionID(ctx context.Context, providerSessionID string) (*checkoutdomain.CheckoutSession, error) {
	return nil, checkoutdomain.ErrSessionNotFound
}

func buildStripeSignatureHeader(secret string, payload []byte, timestamp int64) string {
	signedPayload := fmt.Sprintf("%d.%s", timestamp, string(payload))
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(signedPayload))
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func signedHeaders(payload []byte) http.Header {
	headers := http.Header{}
	headers.Set("Stripe-Signature", buildStripeSignatureHeader(testWebhookSecret, payload, time.Now().Unix()))
	return headers
}

func newWebhookService(t *testing.T, checkout *fakeCheckoutService) paymentdomain.Service {
	t.Helper()
	adapter, err := stripeadapter.NewAdapter(testWebhookSecret)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return paymentservice.New(paymentservice.Params{
		Log:      zap.NewNop(),
		Adapter:  adapter,
		Checkout: checkout,
		Audit:    noopAuditService{},
	})
}

func TestHandleWebhookCompletedEvent(t *testing.T) {
	checkout := &fakeCheckoutService{}
	svc := newWebhookService(t, checkout)

	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_1", "payment_intent": "pi_test_1"}}
	}`)

	if err := svc.HandleWebhook(context.Background(), payload, signedHeaders(payload)); err != nil {
		t.Fatalf("handle webhook: %v", err)
	}
	if len(checkout.completed) != 1 || checkout.completed[0] != "cs_test_1" {
		t.Fatalf("expected completion of cs_test_1, got %v", checkout.completed)
	}
	if checkout.lastConf != "pi_test_1" {
		t.Fatalf("expected confirmation pi_test_1, got %q", checkout.lastConf)
	}
}

func TestHandleWebhookExpiredEvent(t *testing.T) {
	checkout := &fakeCheckoutService{}
	svc := newWebhookService(t, checkout)

	payload := []byte(`{
		"id": "evt_2",
		"type": "checkout.session.expired",
		"data": {"object": {"id": "cs_test_2"}}
	}`)

	if err := svc.HandleWebhook(context.Background(), payload, signedHeaders(payload)); err != nil {
		t.Fatalf("handle webhook: %v", err)
	}
	if len(checkout.expired) != 1 || checkout.expired[0] != "cs_test_2" {
		t.Fatalf("expected expiry of cs_test_2, got %v", checkout.expired)
	}
}

// Signature verification happens before any parsing, so a forged body never
// reaches the checkout flow even when it is well formed JSON.
func TestHandleWebhookRejectsBadSignatureBeforeParsing(t *testing.T) {
	checkout := &fakeCheckoutService{}
	svc := newWebhookService(t, checkout)

	payload := []byte(`{
		"id": "evt_fake",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_forged", "payment_intent": "pi_forged"}}
	}`)
	headers := http.Header{}
	headers.Set("Stripe-Signature", buildStripeSignatureHeader("whsec_wrong", payload, time.Now().Unix()))

	err := svc.HandleWebhook(context.Background(), payload, headers)
	if !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if len(checkout.completed) != 0 || len(checkout.expired) != 0 {
		t.Fatal("forged webhook must not reach checkout")
	}
}

func TestHandleWebhookGarbageBodyBadSignature(t *testing.T) {
	checkout := &fakeCheckoutService{}
	svc := newWebhookService(t, checkout)

	err := svc.HandleWebhook(context.Background(), []byte("not json at all"), http.Header{})
	if !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestHandleWebhookIgnoresUnknownEventType(t *testing.T) {
	checkout := &fakeCheckoutService{}
	svc := newWebhookService(t, checkout)

	payload := []byte(`{"id": "evt_3", "type": "invoice.paid", "data": {"object": {"id": "in_1"}}}`)

	if err := svc.HandleWebhook(context.Background(), payload, signedHeaders(payload)); err != nil {
		t.Fatalf("unknown event types are acknowledged, got %v", err)
	}
	if len(checkout.completed) != 0 || len(checkout.expired) != 0 {
		t.Fatal("ignored events must not reach checkout")
	}
}

func TestHandleWebhookPropagatesCheckoutFailure(t *testing.T) {
	checkout := &fakeCheckoutService{err: errors.New("db down")}
	svc := newWebhookService(t, checkout)

	payload := []byte(`{
		"id": "evt_4",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_4", "payment_intent": "pi_test_4"}}
	}`)

	if err := svc.HandleWebhook(context.Background(), payload, signedHeaders(payload)); err == nil {
		t.Fatal("expected error so the provider retries delivery")
	}
}
