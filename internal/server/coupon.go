package server

import (
	"net/http"
	"strings"

	coupondomain "github.com/craftedcv/craftedcv/internal/coupon/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type applyCouponRequest struct {
	Code       string          `json:"code"`
	Amount     decimal.Decimal `json:"amount"`
	PlanID     string          `json:"plan_id"`
	UserDomain string          `json:"user_domain"`
}

// ApplyCoupon prices a coupon against an amount. It never records usage;
// usage is recorded when the paid order lands.
func (s *Server) ApplyCoupon(c *gin.Context) {
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.couponSvc.EvaluateCode(
		c.Request.Context(),
		strings.TrimSpace(req.Code),
		req.Amount,
		strings.TrimSpace(req.PlanID),
		strings.TrimSpace(req.UserDomain),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateCoupon(c *gin.Context) {
	var req coupondomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.couponSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListCoupons(c *gin.Context) {
	skip, limit := parsePage(c)
	resp, err := s.couponSvc.List(c.Request.Context(), skip, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCouponByID(c *gin.Context) {
	resp, err := s.couponSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCoupon(c *gin.Context) {
	var req coupondomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.couponSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCoupon(c *gin.Context) {
	if err := s.couponSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
