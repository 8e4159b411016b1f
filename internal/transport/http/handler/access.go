package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gcaccess/door-gateway/internal/domain"
	"github.com/gcaccess/door-gateway/internal/usecase"
	"github.com/gin-gonic/gin"
)

type AccessHandler struct {
	accessUsecase *usecase.AccessUsecase
	logger        *slog.Logger
}

func NewAccessHandler(accessUsecase *usecase.AccessUsecase, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{accessUsecase: accessUsecase, logger: logger.With("component", "access_handler")}
}

type accessWindowRequest struct {
	Day   int    `json:"day_of_week" binding:"required,min=1,max=7"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type accessWindowResponse struct {
	UserID int64  `json:"user_id"`
	Day    int    `json:"day_of_week"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

func (h *AccessHandler) bindWindow(c *gin.Context, userID int64) (domain.AccessWindow, bool) {
	var req accessWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.AccessWindow{}, false
	}

	start, err := domain.ParseTimeOfDay(req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start time"})
		return domain.AccessWindow{}, false
	}
	end, err := domain.ParseTimeOfDay(req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end time"})
		return domain.AccessWindow{}, false
	}

	return domain.AccessWindow{
		UserID: userID,
		Day:    domain.Weekday(req.Day),
		Start:  start,
		End:    end,
	}, true
}

// POST /users/:id/accesses
func (h *AccessHandler) Create(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	window, ok := h.bindWindow(c, userID)
	if !ok {
		return
	}

	if err := h.accessUsecase.Create(c.Request.Context(), window); err != nil {
		switch {
		case errors.Is(err, domain.ErrWindowInverted), errors.Is(err, domain.ErrInvalidWeekday):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		case errors.Is(err, domain.ErrDuplicateWindow):
			c.JSON(http.StatusConflict, gin.H{"error": errDuplicateWindow})
		default:
			h.logger.ErrorContext(c.Request.Context(), "create access window", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.Status(http.StatusCreated)
}

// GET /users/:id/accesses
func (h *AccessHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	windows, err := h.accessUsecase.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list access windows", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	items := make([]accessWindowResponse, len(windows))
	for i, w := range windows {
		items[i] = accessWindowResponse{
			UserID: w.UserID,
			Day:    int(w.Day),
			Start:  w.Start.String(),
			End:    w.End.String(),
		}
	}
	c.JSON(http.StatusOK, gin.H{"accesses": items})
}

// PUT /users/:id/accesses/:day
func (h *AccessHandler) Update(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	day, ok := pathID(c, "day")
	if !ok {
		return
	}

	var req struct {
		Start string `json:"start" binding:"required"`
		End   string `json:"end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := domain.ParseTimeOfDay(req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start time"})
		return
	}
	end, err := domain.ParseTimeOfDay(req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end time"})
		return
	}

	window := domain.AccessWindow{
		UserID: userID,
		Day:    domain.Weekday(day),
		Start:  start,
		End:    end,
	}

	if err := h.accessUsecase.Update(c.Request.Context(), window); err != nil {
		switch {
		case errors.Is(err, domain.ErrWindowInverted), errors.Is(err, domain.ErrInvalidWeekday):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrWindowNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errWindowNotFound})
		default:
			h.logger.ErrorContext(c.Request.Context(), "update access window", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// DELETE /users/:id/accesses/:day
func (h *AccessHandler) Delete(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	day, ok := pathID(c, "day")
	if !ok {
		return
	}

	err := h.accessUsecase.Delete(c.Request.Context(), userID, domain.Weekday(day))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidWeekday):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrWindowNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errWindowNotFound})
		default:
			h.logger.ErrorContext(c.Request.Context(), "delete access window", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
