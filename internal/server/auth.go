package server

import (
	"net/http"
	"strings"
	"time"

	authdomain "github.com/craftedcv/craftedcv/internal/auth/domain"
	userdomain "github.com/craftedcv/craftedcv/internal/user/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User        userdomain.User `json:"user"`
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

func (s *Server) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authsvc.Register(c.Request.Context(), userdomain.RegisterRequest{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, loginResult(result))
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResult(result))
}

// GoogleRedirect sends the browser to the consent screen.
func (s *Server) GoogleRedirect(c *gin.Context) {
	url, err := s.authsvc.GoogleRedirectURL(uuid.NewString())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (s *Server) GoogleCallback(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authsvc.GoogleLogin(c.Request.Context(), authdomain.GoogleLoginRequest{Code: code})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResult(result))
}

func loginResult(result authdomain.LoginResult) loginResponse {
	return loginResponse{
		User:        result.User,
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   result.ExpiresAt,
	}
}
