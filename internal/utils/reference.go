package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewTransactionReference generates an externally-addressable transaction
// reference of the form TXN-XXXXXXXX (8 uppercase hex characters).
func NewTransactionReference() string {
	return "TXN-" + strings.ToUpper(uuid.NewString()[:8])
}
