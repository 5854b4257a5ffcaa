package handler

import (
	"context"
	"net/http"
	"time"

	"letrario/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// ContentHandler exposes public work/chapter metadata and signed downloads.
type ContentHandler struct {
	svc service.ContentService
}

func NewContentHandler(svc service.ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

func (h *ContentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/works/:slug", h.GetWork)
	rg.GET("/chapters/:slug", h.GetChapter)
	rg.GET("/chapters/:slug/file", h.SignChapterFile)
}

func (h *ContentHandler) GetWork(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	work, err := h.svc.GetWork(ctx, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "work not found"})
		return
	}
	c.JSON(http.StatusOK, work)
}

func (h *ContentHandler) GetChapter(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	chapter, err := h.svc.GetChapter(ctx, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chapter not found"})
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *ContentHandler) SignChapterFile(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	signed, err := h.svc.SignChapterFile(ctx, c.Param("slug"))
	switch err {
	case nil:
		c.JSON(http.StatusOK, signed)
	case service.ErrContentNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "chapter not found"})
	case service.ErrNoFile:
		c.JSON(http.StatusNotFound, gin.H{"error": "chapter has no file"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
