package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gcaccess/door-gateway/internal/domain"
	"github.com/gcaccess/door-gateway/internal/metrics"
	"github.com/gcaccess/door-gateway/internal/usecase"
	"github.com/gin-gonic/gin"
)

// doorUsecaser is the subset of DoorUsecase the handler needs.
type doorUsecaser interface {
	Unlock(ctx context.Context, userID int64, creds *usecase.UnlockCredentials) error
}

type DoorHandler struct {
	doorUsecase doorUsecaser
	logger      *slog.Logger
}

func NewDoorHandler(doorUsecase doorUsecaser, logger *slog.Logger) *DoorHandler {
	return &DoorHandler{
		doorUsecase: doorUsecase,
		logger:      logger.With("component", "door_handler"),
	}
}

type unlockRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// POST /validate-password
// Runs behind the bearer-token gate. Some deployments also send
// credentials in the body; when present they are re-verified before the
// access window is evaluated.
//
// The unlock publish is detached from request cancellation: a client
// disconnect after authorization does not abort an in-flight actuation.
func (h *DoorHandler) Unlock(c *gin.Context) {
	var creds *usecase.UnlockCredentials
	if c.Request.ContentLength > 0 {
		var req unlockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		creds = &usecase.UnlockCredentials{Email: req.Email, Password: req.Password}
	}

	ctx := context.WithoutCancel(c.Request.Context())
	start := time.Now()

	err := h.doorUsecase.Unlock(ctx, c.GetInt64("userID"), creds)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.UnlockRequestsTotal.WithLabelValues("unauthorized").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"message": errInvalidCredentials})
		case errors.Is(err, domain.ErrNoAccess):
			metrics.UnlockRequestsTotal.WithLabelValues("denied").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"message": errNoAccess})
		case errors.Is(err, domain.ErrActuation):
			metrics.UnlockRequestsTotal.WithLabelValues("actuation_error").Inc()
			h.logger.ErrorContext(ctx, "unlock actuation", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": errUnlockFailed})
		default:
			metrics.UnlockRequestsTotal.WithLabelValues("error").Inc()
			h.logger.ErrorContext(ctx, "unlock", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		}
		return
	}

	metrics.UnlockRequestsTotal.WithLabelValues("granted").Inc()
	metrics.UnlockPublishDuration.Observe(time.Since(start).Seconds())
	c.JSON(http.StatusOK, gin.H{"message": "Door unlocked"})
}
