package server

import (
	"fmt"
	"net/http"
	"strings"

	resumedomain "github.com/craftedcv/craftedcv/internal/resume/domain"
	"github.com/gin-gonic/gin"
)

type createResumeRequest struct {
	TemplateID string         `json:"template_id"`
	SchemaID   string         `json:"schema_id"`
	Content    map[string]any `json:"content"`
}

type updateResumeRequest struct {
	Content map[string]any `json:"content"`
}

func (s *Server) CreateResume(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.resumeSvc.CreateResume(c.Request.Context(), resumedomain.CreateResumeRequest{
		UserID:     currentUserID(c),
		TemplateID: strings.TrimSpace(req.TemplateID),
		SchemaID:   strings.TrimSpace(req.SchemaID),
		Content:    req.Content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListResumes(c *gin.Context) {
	skip, limit := parsePage(c)
	resp, err := s.resumeSvc.ListResumes(c.Request.Context(), currentUserID(c), skip, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetResume(c *gin.Context) {
	resp, err := s.resumeSvc.GetResume(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateResume(c *gin.Context) {
	var req updateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.resumeSvc.UpdateResume(c.Request.Context(), resumedomain.UpdateResumeRequest{
		UserID:  currentUserID(c),
		ID:      c.Param("id"),
		Content: req.Content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteResume(c *gin.Context) {
	if err := s.resumeSvc.DeleteResume(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// RenderResume streams the generated PDF. The remaining credit balance rides
// along in a response header since the body is the document itself.
func (s *Server) RenderResume(c *gin.Context) {
	resp, err := s.resumeSvc.Render(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resp.Filename))
	c.Header("X-Credits-Remaining", resp.NewBalance)
	c.Data(http.StatusOK, "application/pdf", resp.PDF)
}

func (s *Server) CreateTemplate(c *gin.Context) {
	var req resumedomain.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.resumeSvc.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListTemplates(c *gin.Context) {
	skip, limit := parsePage(c)
	resp, err := s.resumeSvc.ListTemplates(c.Request.Context(), skip, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTemplate(c *gin.Context) {
	resp, err := s.resumeSvc.GetTemplate(c.Request.Context(), c.Param("templateId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTemplate(c *gin.Context) {
	var req resumedomain.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.TemplateID = c.Param("templateId")

	resp, err := s.resumeSvc.UpdateTemplate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTemplate(c *gin.Context) {
	if err := s.resumeSvc.DeleteTemplate(c.Request.Context(), c.Param("templateId")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) CreateSchema(c *gin.Context) {
	var req resumedomain.CreateSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.resumeSvc.CreateSchema(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListSchemas(c *gin.Context) {
	skip, limit := parsePage(c)
	resp, err := s.resumeSvc.ListSchemas(c.Request.Context(), skip, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSchema(c *gin.Context) {
	resp, err := s.resumeSvc.GetSchema(c.Request.Context(), c.Param("schemaId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteSchema(c *gin.Context) {
	if err := s.resumeSvc.DeleteSchema(c.Request.Context(), c.Param("schemaId")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
