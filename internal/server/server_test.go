package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/craftedcv/craftedcv/internal/auth/token"
	"github.com/craftedcv/craftedcv/internal/observability"
	paymentdomain "github.com/craftedcv/craftedcv/internal/payment/domain"
	"github.com/gin-gonic/gin"
)

type fakeWebhookService struct {
	deliveries int
}

func (f *fakeWebhookService) HandleRazorpay(ctx context.Context, payload []byte, signature string) error {
	_ = ctx
	_ = payload
	if strings.TrimSpace(signature) == "" {
		return paymentdomain.ErrMissingSignature
	}
	if signature != "valid" {
		return paymentdomain.ErrInvalidSignature
	}
	f.deliveries++
	return nil
}

func newTestServer(t *testing.T) (*Server, *fakeWebhookService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := token.NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	webhooks := &fakeWebhookService{}
	s := &Server{
		engine:     NewEngine(observability.Config{}, nil),
		issuer:     issuer,
		webhookSvc: webhooks,
	}
	s.registerWebhookRoutes()
	return s, webhooks
}

func TestWebhookRouteRequiresSignature(t *testing.T) {
	s, webhooks := newTestServer(t)

	body := []byte(`{"event":"payment.captured"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhooks/razorpay", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without signature, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/payments/webhooks/razorpay", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", "forged")
	rec = httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for forged signature, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/payments/webhooks/razorpay", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", "valid")
	rec = httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid signature, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "received") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if webhooks.deliveries != 1 {
		t.Fatalf("expected 1 accepted delivery, got %d", webhooks.deliveries)
	}
}

func TestAuthRequiredValidatesBearerToken(t *testing.T) {
	s, _ := newTestServer(t)

	s.engine.GET("/api/whoami", s.AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": currentUserID(c).String(), "role": currentRole(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rec.Code)
	}

	signed, _, err := s.issuer.Issue("4242", "ada@example.com", "member")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "4242") {
		t.Fatalf("expected subject in response, got %q", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "member") {
		t.Fatalf("expected role in response, got %q", rec.Body.String())
	}
}
