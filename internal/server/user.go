package server

import (
	"net/http"
	"strings"

	userdomain "github.com/craftedcv/craftedcv/internal/user/domain"
	"github.com/gin-gonic/gin"
)

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (s *Server) Me(c *gin.Context) {
	resp, err := s.usersvc.GetByID(c.Request.Context(), currentUserID(c).String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.usersvc.UpdateProfile(c.Request.Context(), userdomain.UpdateProfileRequest{
		UserID:    currentUserID(c),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCredits(c *gin.Context) {
	balance, err := s.creditsSvc.Balance(c.Request.Context(), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"credits": balance})
}
