package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/veloxpay/payment-service/internal/core/ports/services"
	"github.com/veloxpay/payment-service/internal/dto"
	"github.com/veloxpay/payment-service/internal/middleware"
)

// notificationHandler handles HTTP requests related to notification records.
type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

// newNotificationHandler creates a new notificationHandler.
func newNotificationHandler(ns portssvc.NotificationSvcFacade) *notificationHandler {
	return &notificationHandler{notificationService: ns}
}

// registerNotificationRoutes registers routes related to notifications.
func registerNotificationRoutes(rg *gin.RouterGroup, ns portssvc.NotificationSvcFacade) {
	h := newNotificationHandler(ns)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("/user/:userId", h.listByUser)
	}
}

// listByUser returns the delivery records for a user. An authenticated caller
// may only read their own records.
func (h *notificationHandler) listByUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if subject, ok := middleware.GetUserIDFromContext(c); ok && subject != c.Param("userId") {
		logger.Warn("Subject attempted to read another user's notifications", slog.String("subject", subject))
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot access another user's notifications"})
		return
	}

	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	deliveries, err := h.notificationService.GetNotificationsByUserID(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list notifications", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	details := make([]dto.NotificationDetails, 0, len(deliveries))
	for _, d := range deliveries {
		details = append(details, dto.ToNotificationDetails(d))
	}
	c.JSON(http.StatusOK, details)
}
