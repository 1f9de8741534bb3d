package utils

import "github.com/google/uuid"

// NewPaymentReference returns an opaque reference for a payment
// record.  The reference is handed to external payment tooling and
// must not leak internal row IDs.
func NewPaymentReference() string {
	return uuid.NewString()
}
