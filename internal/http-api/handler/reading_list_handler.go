package handler

import (
	"context"
	"net/http"
	"time"

	"letrario/internal/http-api/dto"
	"letrario/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReadingListHandler struct {
	svc service.ReadingListService
}

func NewReadingListHandler(svc service.ReadingListService) *ReadingListHandler {
	return &ReadingListHandler{svc: svc}
}

func (h *ReadingListHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reading-list", h.Save)
	rg.DELETE("/reading-list", h.Remove)
	rg.GET("/reading-list", h.Check)
}

// Save adds an explicit save for a work or a chapter.
func (h *ReadingListHandler) Save(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.SaveReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (req.WorkSlug == "") == (req.ChapterSlug == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of workSlug or chapterSlug is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var err error
	if req.WorkSlug != "" {
		err = h.svc.SaveWork(ctx, userID.(string), req.WorkSlug)
	} else {
		err = h.svc.SaveChapter(ctx, userID.(string), req.ChapterSlug)
	}

	switch err {
	case nil:
		c.JSON(http.StatusCreated, gin.H{"message": "added to reading list"})
	case service.ErrAlreadySaved:
		c.JSON(http.StatusConflict, gin.H{"error": "already in reading list"})
	case service.ErrContentNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Remove unsaves the entity and scrubs its view/progress logs. Idempotent.
func (h *ReadingListHandler) Remove(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	workSlug := c.Query("workSlug")
	chapterSlug := c.Query("chapterSlug")
	if (workSlug == "") == (chapterSlug == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of workSlug or chapterSlug is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var err error
	if workSlug != "" {
		err = h.svc.RemoveWork(ctx, userID.(string), workSlug)
	} else {
		err = h.svc.RemoveChapter(ctx, userID.(string), chapterSlug)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// Check reports whether the entity is already saved, for detail pages.
func (h *ReadingListHandler) Check(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	workSlug := c.Query("workSlug")
	chapterSlug := c.Query("chapterSlug")
	if (workSlug == "") == (chapterSlug == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of workSlug or chapterSlug is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var (
		saved bool
		err   error
	)
	if workSlug != "" {
		saved, err = h.svc.WorkSaved(ctx, userID.(string), workSlug)
	} else {
		saved, err = h.svc.ChapterSaved(ctx, userID.(string), chapterSlug)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.SavedCheckResponse{Saved: saved})
}
