package model

import (
    "errors"
    "fmt"
    "time"

    "github.com/shopspring/decimal"
)

// Payment statuses stored in payments.status.
const (
    PaymentPaid      = "paid"
    PaymentPending   = "pending"
    PaymentCancelled = "cancelled"
    PaymentFailed    = "failed"
)

// ErrSameStatus is returned when a transition targets the payment's
// current status.  No-op transitions are rejected rather than
// silently accepted so callers notice redundant updates.
var ErrSameStatus = errors.New("old and new status is the same")

// ErrUnlinkedPaid is returned when a payment without a reservation
// reference is transitioned to paid.
var ErrUnlinkedPaid = errors.New("cannot set payment status to 'paid' if payment is not assigned to a reservation")

// ValidPaymentStatus reports whether s is one of the four known statuses.
func ValidPaymentStatus(s string) bool {
    switch s {
    case PaymentPaid, PaymentPending, PaymentCancelled, PaymentFailed:
        return true
    }
    return false
}

// Payment is a monetary record associated with at most one
// reservation.  At reservation-creation time the payment is inserted
// first without a reservation reference and linked after the
// reservation row exists; both writes share one transaction.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – back-reference to the reservation (nullable).
//  Status        – one of paid, pending, cancelled, failed.
//  Price         – charge amount, exact decimal with 2 fractional digits.
//  Reference     – opaque external reference (UUID).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Payment struct {
    ID            uint64          // payments.id
    ReservationID *uint64         // payments.reservation_id (nullable)
    Status        string          // payments.status
    Price         decimal.Decimal // payments.price
    Reference     string          // payments.reference
    CreatedAt     time.Time       // payments.created_at
    UpdatedAt     time.Time       // payments.updated_at
}

// CanTransition validates a status change without applying it.
// Rules: the new status must differ from the current one; paid
// requires a reservation link; paid is unreachable from cancelled
// and failed.
func (p *Payment) CanTransition(newStatus string) error {
    if p.Status == newStatus {
        return ErrSameStatus
    }
    if newStatus == PaymentPaid {
        if p.ReservationID == nil {
            return ErrUnlinkedPaid
        }
        if p.Status == PaymentCancelled || p.Status == PaymentFailed {
            return fmt.Errorf("cannot change status from %q to 'paid'", p.Status)
        }
    }
    return nil
}

// SetStatus applies a validated transition.
func (p *Payment) SetStatus(newStatus string) error {
    if err := p.CanTransition(newStatus); err != nil {
        return err
    }
    p.Status = newStatus
    return nil
}
