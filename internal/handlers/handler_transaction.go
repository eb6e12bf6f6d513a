package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/veloxpay/payment-service/internal/apperrors"
	"github.com/veloxpay/payment-service/internal/core/domain"
	portssvc "github.com/veloxpay/payment-service/internal/core/ports/services"
	"github.com/veloxpay/payment-service/internal/dto"
	"github.com/veloxpay/payment-service/internal/middleware"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(ts)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/deposit", h.createDeposit)
		transactions.POST("/withdrawal", h.createWithdrawal)
		transactions.POST("/transfer", h.createTransfer)
		transactions.GET("/:transactionReference", h.getByReference)
		transactions.GET("/user/:userId", h.listByUser)
		transactions.GET("/account/:accountId", h.listByAccount)
	}
}

// createDeposit accepts a deposit request and returns 201 with the PENDING
// reference; settlement happens asynchronously.
func (h *transactionHandler) createDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.transactionService.CreateDepositTransaction(c.Request.Context(), req)
	if err != nil {
		h.writeIssuanceError(c, err, "deposit")
		return
	}

	c.JSON(http.StatusCreated, dto.TransactionResponse{
		Message:              "Deposit transaction received for processing",
		TransactionReference: txn.TransactionReference,
		Status:               txn.Status,
	})
}

// createWithdrawal accepts a withdrawal request and returns 201 with the
// PENDING reference.
func (h *transactionHandler) createWithdrawal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for withdrawal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.transactionService.CreateWithdrawalTransaction(c.Request.Context(), req)
	if err != nil {
		h.writeIssuanceError(c, err, "withdrawal")
		return
	}

	c.JSON(http.StatusCreated, dto.TransactionResponse{
		Message:              "Withdrawal transaction received for processing",
		TransactionReference: txn.TransactionReference,
		Status:               txn.Status,
	})
}

// createTransfer accepts a transfer request and returns 201 with the PENDING
// reference.
func (h *transactionHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.transactionService.CreateTransferTransaction(c.Request.Context(), req)
	if err != nil {
		h.writeIssuanceError(c, err, "transfer")
		return
	}

	c.JSON(http.StatusCreated, dto.TransactionResponse{
		Message:              "Transfer transaction received for processing",
		TransactionReference: txn.TransactionReference,
		Status:               txn.Status,
	})
}

// getByReference returns the read-only projection of one transaction.
func (h *transactionHandler) getByReference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reference := c.Param("transactionReference")

	txn, err := h.transactionService.GetTransactionByReference(c.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found: " + reference})
			return
		}
		logger.Error("Failed to get transaction", slog.String("reference", reference), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionDetails(*txn))
}

// listByUser returns all transactions initiated by a user. An authenticated
// caller may only read their own transactions.
func (h *transactionHandler) listByUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if subject, ok := middleware.GetUserIDFromContext(c); ok && subject != c.Param("userId") {
		logger.Warn("Subject attempted to read another user's transactions", slog.String("subject", subject))
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot access another user's transactions"})
		return
	}

	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	transactions, err := h.transactionService.GetTransactionsByUserID(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list transactions by user", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}

	c.JSON(http.StatusOK, toDetailsList(transactions))
}

// listByAccount returns all transactions where the account is source or destination.
func (h *transactionHandler) listByAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, err := strconv.ParseInt(c.Param("accountId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	transactions, err := h.transactionService.GetTransactionsByAccountID(c.Request.Context(), accountID)
	if err != nil {
		logger.Error("Failed to list transactions by account", slog.Int64("account_id", accountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}

	c.JSON(http.StatusOK, toDetailsList(transactions))
}

// writeIssuanceError maps issuance failures onto HTTP statuses: validation
// errors are 400, lock conflicts are 409, everything else is 500.
func (h *transactionHandler) writeIssuanceError(c *gin.Context, err error, kind string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error creating transaction", slog.String("type", kind), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConcurrentTransaction):
		logger.Warn("Concurrent transaction conflict", slog.String("type", kind), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": "A transaction for this account is already in progress. Please try again."})
	default:
		logger.Error("Failed to create transaction", slog.String("type", kind), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create " + kind + " transaction"})
	}
}

func toDetailsList(transactions []domain.Transaction) []dto.TransactionDetails {
	details := make([]dto.TransactionDetails, 0, len(transactions))
	for _, txn := range transactions {
		details = append(details, dto.ToTransactionDetails(txn))
	}
	return details
}
