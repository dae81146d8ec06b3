package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleRazorpayWebhook ingests gateway-delivered payment events. Signature
// failures are rejected; business failures inside an authentic delivery are
// absorbed by the webhook service so the gateway stops retrying.
func (s *Server) HandleRazorpayWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if err := s.webhookSvc.HandleRazorpay(c.Request.Context(), payload, signature); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
