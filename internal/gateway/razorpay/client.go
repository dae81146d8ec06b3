package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Config struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string
}

type Client struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	retry := retryablehttp.NewClient()
	retry.RetryMax = 3
	retry.RetryWaitMin = 200 * time.Millisecond
	retry.RetryWaitMax = 2 * time.Second
	retry.HTTPClient.Timeout = 12 * time.Second
	retry.Logger = nil

	return &Client{
		cfg:    cfg,
		client: retry.StandardClient(),
		log:    log.Named("gateway.razorpay"),
	}
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error) {
	notes := map[string]string{
		"credits": req.Credits.String(),
		"user_id": req.UserID,
	}
	if req.CouponCode != "" {
		notes["coupon_code"] = req.CouponCode
	}
	receipt := req.Receipt
	if strings.TrimSpace(receipt) == "" {
		receipt = fmt.Sprintf("receipt_%d", time.Now().Unix())
	}

	body := map[string]any{
		"amount":          toMinorUnits(req.Amount),
		"currency":        strings.ToUpper(req.Currency),
		"receipt":         receipt,
		"payment_capture": 1,
		"notes":           notes,
	}

	var order Order
	if err := c.doRequest(ctx, http.MethodPost, "/orders", body, &order); err != nil {
		return Order{}, err
	}
	if order.ID == "" {
		return Order{}, ErrInvalidPayload
	}
	return order, nil
}

func (c *Client) FetchOrder(ctx context.Context, orderID string) (Order, error) {
	var order Order
	if err := c.doRequest(ctx, http.MethodGet, "/orders/"+orderID, nil, &order); err != nil {
		return Order{}, err
	}
	if order.ID == "" {
		return Order{}, ErrInvalidPayload
	}
	return order, nil
}

func (c *Client) CreatePlan(ctx context.Context, req CreatePlanRequest) (Plan, error) {
	body := map[string]any{
		"period":   req.Period,
		"interval": req.Interval,
		"item": map[string]any{
			"name":        req.Name,
			"amount":      toMinorUnits(req.Amount),
			"currency":    strings.ToUpper(req.Currency),
			"description": req.Description,
		},
	}

	var plan Plan
	if err := c.doRequest(ctx, http.MethodPost, "/plans", body, &plan); err != nil {
		return Plan{}, err
	}
	if plan.ID == "" {
		return Plan{}, ErrInvalidPayload
	}
	return plan, nil
}

func (c *Client) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (Subscription, error) {
	body := map[string]any{
		"plan_id":         req.PlanID,
		"total_count":     req.TotalCount,
		"customer_notify": 1,
	}

	var sub Subscription
	if err := c.doRequest(ctx, http.MethodPost, "/subscriptions", body, &sub); err != nil {
		return Subscription{}, err
	}
	if sub.ID == "" {
		return Subscription{}, ErrInvalidPayload
	}
	return sub, nil
}

func (c *Client) FetchSubscription(ctx context.Context, subscriptionID string) (Subscription, error) {
	var sub Subscription
	if err := c.doRequest(ctx, http.MethodGet, "/subscriptions/"+subscriptionID, nil, &sub); err != nil {
		return Subscription{}, err
	}
	if sub.ID == "" {
		return Subscription{}, ErrInvalidPayload
	}
	return sub, nil
}

func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) (Subscription, error) {
	var sub Subscription
	if err := c.doRequest(ctx, http.MethodPost, "/subscriptions/"+subscriptionID+"/cancel", map[string]any{}, &sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

func (c *Client) CreateInvoice(ctx context.Context, subscriptionID string, amount decimal.Decimal, description string) (Invoice, error) {
	body := map[string]any{
		"subscription_id": subscriptionID,
		"amount":          toMinorUnits(amount),
		"description":     description,
	}

	var invoice Invoice
	if err := c.doRequest(ctx, http.MethodPost, "/invoices", body, &invoice); err != nil {
		return Invoice{}, err
	}
	return invoice, nil
}

// VerifyPaymentSignature checks the client-confirmed checkout signature,
// an HMAC-SHA256 of "<order_id>|<payment_id>" under the key secret.
func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	expected := signHMAC([]byte(orderID+"|"+paymentID), c.cfg.KeySecret)
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

// VerifyWebhookSignature checks the webhook signature, an HMAC-SHA256 of the
// raw request body under the webhook secret.
func (c *Client) VerifyWebhookSignature(payload []byte, signature string) bool {
	expected := signHMAC(payload, c.cfg.WebhookSecret)
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	if strings.TrimSpace(c.cfg.KeyID) == "" || strings.TrimSpace(c.cfg.KeySecret) == "" {
		return ErrInvalidConfig
	}

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.cfg.BaseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("gateway request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return ErrRequestFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var gatewayErr struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&gatewayErr)
		c.log.Warn("gateway rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", gatewayErr.Error.Code),
			zap.String("description", gatewayErr.Error.Description),
		)
		return ErrRequestFailed
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func signHMAC(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromMinorUnits converts a gateway amount in paise back to a decimal.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(100))
}
