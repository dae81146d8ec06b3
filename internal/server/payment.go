package server

import (
	"net/http"
	"strconv"
	"strings"

	paymentdomain "github.com/craftedcv/craftedcv/internal/payment/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createOrderRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	CreditsToAdd decimal.Decimal `json:"credits_to_add"`
	Receipt      string          `json:"receipt"`
	CouponCode   string          `json:"coupon_code"`
	PlanID       string          `json:"plan_id"`
	UserDomain   string          `json:"user_domain"`
}

type verifyPaymentRequest struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.CreateOrder(c.Request.Context(), paymentdomain.CreateOrderRequest{
		UserID:       currentUserID(c),
		Amount:       req.Amount,
		Currency:     strings.TrimSpace(req.Currency),
		CreditsToAdd: req.CreditsToAdd,
		Receipt:      strings.TrimSpace(req.Receipt),
		CouponCode:   strings.TrimSpace(req.CouponCode),
		PlanID:       strings.TrimSpace(req.PlanID),
		UserDomain:   strings.TrimSpace(req.UserDomain),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.VerifyPayment(c.Request.Context(), paymentdomain.VerifyRequest{
		UserID:            currentUserID(c),
		RazorpayPaymentID: strings.TrimSpace(req.RazorpayPaymentID),
		RazorpayOrderID:   strings.TrimSpace(req.RazorpayOrderID),
		RazorpaySignature: strings.TrimSpace(req.RazorpaySignature),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListPaymentLogs(c *gin.Context) {
	skip, limit := parsePage(c)
	resp, err := s.creditsSvc.ListLogs(c.Request.Context(), currentUserID(c), skip, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parsePage(c *gin.Context) (int, int) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return skip, limit
}
