package server

import (
	"net/http"
	"strings"

	subscriptiondomain "github.com/craftedcv/craftedcv/internal/subscription/domain"
	"github.com/gin-gonic/gin"
)

type createSubscriptionRequest struct {
	PlanID     string `json:"plan_id"`
	TotalCount int    `json:"total_count"`
}

func (s *Server) CreateSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subscriptionSvc.Create(c.Request.Context(), subscriptiondomain.CreateRequest{
		UserID:     currentUserID(c),
		PlanID:     strings.TrimSpace(req.PlanID),
		TotalCount: req.TotalCount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListSubscriptions(c *gin.Context) {
	skip, limit := parsePage(c)
	resp, err := s.subscriptionSvc.ListByUser(c.Request.Context(), currentUserID(c), skip, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSubscriptionByID(c *gin.Context) {
	resp, err := s.subscriptionSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp.UserID != currentUserID(c) {
		AbortWithError(c, subscriptiondomain.ErrForbidden)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelSubscription(c *gin.Context) {
	resp, err := s.subscriptionSvc.Cancel(c.Request.Context(), strings.TrimSpace(c.Param("id")), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
