package handlers

import (
	"github.com/gin-gonic/gin"
	portssvc "github.com/veloxpay/payment-service/internal/core/ports/services"
)

// RegisterRoutes attaches all API routes to the given router group.
func RegisterRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, notificationService portssvc.NotificationSvcFacade) {
	registerTransactionRoutes(rg, transactionService)
	registerNotificationRoutes(rg, notificationService)
}
