package server

import (
	"errors"
	"net/http"
	"strings"

	authdomain "github.com/craftedcv/craftedcv/internal/auth/domain"
	coupondomain "github.com/craftedcv/craftedcv/internal/coupon/domain"
	creditsdomain "github.com/craftedcv/craftedcv/internal/credits/domain"
	"github.com/craftedcv/craftedcv/internal/gateway/razorpay"
	paymentdomain "github.com/craftedcv/craftedcv/internal/payment/domain"
	plandomain "github.com/craftedcv/craftedcv/internal/plan/domain"
	resumedomain "github.com/craftedcv/craftedcv/internal/resume/domain"
	subscriptiondomain "github.com/craftedcv/craftedcv/internal/subscription/domain"
	userdomain "github.com/craftedcv/craftedcv/internal/user/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware converts errors attached to the gin context into a
// JSON error envelope, once, after the handler chain ran.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return ErrInvalidRequest
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, subscriptiondomain.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, creditsdomain.ErrInsufficientCredits):
		return http.StatusPaymentRequired, errorPayload{
			Type:    "insufficient_credits",
			Message: "insufficient credits",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, authdomain.ErrProviderDisabled):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: err.Error(),
		}
	case errors.Is(err, razorpay.ErrRequestFailed):
		return http.StatusBadGateway, errorPayload{
			Type:    "gateway_error",
			Message: "payment gateway request failed",
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: validationMessage(err),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, userdomain.ErrEmailTaken),
		errors.Is(err, coupondomain.ErrCodeTaken),
		errors.Is(err, resumedomain.ErrTemplateTaken),
		errors.Is(err, resumedomain.ErrSchemaTaken):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, creditsdomain.ErrUserNotFound),
		errors.Is(err, coupondomain.ErrNotFound),
		errors.Is(err, plandomain.ErrNotFound),
		errors.Is(err, subscriptiondomain.ErrNotFound),
		errors.Is(err, resumedomain.ErrNotFound),
		errors.Is(err, resumedomain.ErrTemplateMissing),
		errors.Is(err, resumedomain.ErrSchemaMissing),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, userdomain.ErrInvalidName),
		errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, userdomain.ErrInvalidPassword),
		errors.Is(err, userdomain.ErrInvalidID),
		errors.Is(err, authdomain.ErrInvalidCode),
		errors.Is(err, creditsdomain.ErrInvalidCredits),
		errors.Is(err, creditsdomain.ErrInvalidTransactionID),
		errors.Is(err, creditsdomain.ErrInvalidUser),
		errors.Is(err, coupondomain.ErrInvalidCode),
		errors.Is(err, coupondomain.ErrInvalidID),
		errors.Is(err, coupondomain.ErrInvalidDiscount),
		errors.Is(err, coupondomain.ErrInvalidAmount),
		errors.Is(err, plandomain.ErrInvalidID),
		errors.Is(err, plandomain.ErrInvalidRequest),
		errors.Is(err, subscriptiondomain.ErrInvalidID),
		errors.Is(err, subscriptiondomain.ErrInvalidRequest),
		errors.Is(err, resumedomain.ErrInvalidID),
		errors.Is(err, resumedomain.ErrInvalidRequest),
		errors.Is(err, paymentdomain.ErrInvalidRequest),
		errors.Is(err, paymentdomain.ErrMissingSignature),
		errors.Is(err, paymentdomain.ErrInvalidSignature),
		errors.Is(err, paymentdomain.ErrInvalidPayload):
		return true
	default:
		return false
	}
}

func validationMessage(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "invalid request"
	}
	return strings.ReplaceAll(msg, "_", " ")
}
