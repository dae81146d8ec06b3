package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestVerifyPaymentSignature(t *testing.T) {
	client := NewClient(Config{KeyID: "key", KeySecret: "secret"}, zap.NewNop())

	valid := hmacHex(t, "secret", "order_123|pay_456")
	if !client.VerifyPaymentSignature("order_123", "pay_456", valid) {
		t.Fatalf("expected valid signature to verify")
	}
	if client.VerifyPaymentSignature("order_123", "pay_456", "deadbeef") {
		t.Fatalf("expected forged signature to fail")
	}
	if client.VerifyPaymentSignature("order_999", "pay_456", valid) {
		t.Fatalf("expected signature for different order to fail")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := NewClient(Config{KeyID: "key", KeySecret: "secret", WebhookSecret: "whsec"}, zap.NewNop())

	payload := []byte(`{"event":"payment.captured"}`)
	valid := hmacHex(t, "whsec", string(payload))
	if !client.VerifyWebhookSignature(payload, valid) {
		t.Fatalf("expected valid webhook signature to verify")
	}

	tampered := []byte(`{"event":"payment.captured","extra":1}`)
	if client.VerifyWebhookSignature(tampered, valid) {
		t.Fatalf("expected tampered payload to fail verification")
	}
}

func TestCreateOrderSendsMinorUnitsAndNotes(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "key" || pass != "secret" {
			t.Errorf("expected basic auth with key id and secret")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(Order{
			ID:       "order_123",
			Amount:   9900,
			Currency: "INR",
			Status:   "created",
		})
	}))
	defer server.Close()

	client := NewClient(Config{KeyID: "key", KeySecret: "secret", BaseURL: server.URL}, zap.NewNop())
	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		Amount:     decimal.NewFromFloat(99.0),
		Currency:   "inr",
		Credits:    decimal.NewFromInt(50),
		UserID:     "12345",
		CouponCode: "LAUNCH",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != "order_123" {
		t.Fatalf("expected order id order_123, got %s", order.ID)
	}

	if amount, _ := captured["amount"].(float64); amount != 9900 {
		t.Fatalf("expected amount 9900 minor units, got %v", captured["amount"])
	}
	if currency, _ := captured["currency"].(string); currency != "INR" {
		t.Fatalf("expected upper-cased currency, got %v", captured["currency"])
	}
	notes, _ := captured["notes"].(map[string]any)
	if notes["credits"] != "50" || notes["user_id"] != "12345" || notes["coupon_code"] != "LAUNCH" {
		t.Fatalf("unexpected notes: %v", notes)
	}
}

func TestRequestFailureMapsToGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount missing"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{KeyID: "key", KeySecret: "secret", BaseURL: server.URL}, zap.NewNop())
	_, err := client.FetchOrder(context.Background(), "order_missing")
	if err != ErrRequestFailed {
		t.Fatalf("expected gateway_request_failed, got %v", err)
	}
}

func hmacHex(t *testing.T, secret, payload string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
