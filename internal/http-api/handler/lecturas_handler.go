package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"letrario/internal/http-api/dto"
	"letrario/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// LecturasHandler serves the aggregated reading list. Its contract is
// "empty-is-safe": the endpoint answers 200 with a data array no matter
// what fails underneath; at worst the array is empty.
type LecturasHandler struct {
	svc    service.LecturasService
	logger *slog.Logger
}

func NewLecturasHandler(svc service.LecturasService, logger *slog.Logger) *LecturasHandler {
	return &LecturasHandler{svc: svc, logger: logger}
}

func (h *LecturasHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/mis-lecturas", h.List)
}

func (h *LecturasHandler) List(c *gin.Context) {
	// OptionalAuth may not have set a user; anonymous callers get an empty
	// list, never a 401.
	userID := c.GetString("userID")
	if userID == "" {
		c.Header("Cache-Control", "private, max-age=10")
		c.JSON(http.StatusOK, dto.ReadingListResponse{Data: []dto.ReadingItem{}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.safeList(ctx, userID)
	if err != nil {
		h.logger.Error("mis_lecturas_failed", "user_id", userID, "error", err)
		// shorter client cache on the degraded path so recovery is quick
		c.Header("Cache-Control", "private, max-age=5")
		c.JSON(http.StatusOK, dto.ReadingListResponse{Data: []dto.ReadingItem{}})
		return
	}

	if items == nil {
		items = []dto.ReadingItem{}
	}
	c.Header("Cache-Control", "private, max-age=10")
	c.JSON(http.StatusOK, dto.ReadingListResponse{Data: items})
}

// safeList shields the HTTP boundary from anything unexpected inside the
// pipeline; a panic surfaces as the degraded empty response.
func (h *LecturasHandler) safeList(ctx context.Context, userID string) (items []dto.ReadingItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("mis_lecturas_panic", "user_id", userID, "panic", r)
			items, err = nil, errPipelinePanic
		}
	}()
	return h.svc.MisLecturas(ctx, userID)
}

var errPipelinePanic = errors.New("reading pipeline panicked")
