package mapping

import (
	"github.com/veloxpay/payment-service/internal/core/domain"
	"github.com/veloxpay/payment-service/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	var failureReason *string
	if d.FailureReason != "" {
		fr := d.FailureReason
		failureReason = &fr
	}
	var metadata *string
	if d.Metadata != "" {
		md := d.Metadata
		metadata = &md
	}
	return models.Transaction{
		ID:                   d.ID,
		TransactionReference: d.TransactionReference,
		Type:                 string(d.Type),
		Amount:               d.Amount,
		Currency:             d.Currency,
		SourceAccountID:      d.SourceAccountID,
		DestinationAccountID: d.DestinationAccountID,
		Status:               string(d.Status),
		Description:          d.Description,
		FailureReason:        failureReason,
		UserID:               d.UserID,
		Metadata:             metadata,
		CreatedAt:            d.CreatedAt,
		CompletedAt:          d.CompletedAt,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	failureReason := ""
	if m.FailureReason != nil {
		failureReason = *m.FailureReason
	}
	metadata := ""
	if m.Metadata != nil {
		metadata = *m.Metadata
	}
	return domain.Transaction{
		ID:                   m.ID,
		TransactionReference: m.TransactionReference,
		Type:                 domain.TransactionType(m.Type),
		Amount:               m.Amount,
		Currency:             m.Currency,
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		Status:               domain.TransactionStatus(m.Status),
		Description:          m.Description,
		FailureReason:        failureReason,
		UserID:               m.UserID,
		Metadata:             metadata,
		CreatedAt:            m.CreatedAt,
		CompletedAt:          m.CompletedAt,
	}
}
