package model

import (
    "testing"

    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func linkedPayment(status string) *Payment {
    resID := uint64(7)
    return &Payment{ID: 1, ReservationID: &resID, Status: status, Price: decimal.RequireFromString("20.00")}
}

func TestValidPaymentStatus(t *testing.T) {
    for _, s := range []string{PaymentPaid, PaymentPending, PaymentCancelled, PaymentFailed} {
        assert.True(t, ValidPaymentStatus(s), s)
    }
    assert.False(t, ValidPaymentStatus("refunded"))
    assert.False(t, ValidPaymentStatus(""))
    assert.False(t, ValidPaymentStatus("PAID"))
}

func TestPaymentSameStatusRejected(t *testing.T) {
    for _, s := range []string{PaymentPaid, PaymentPending, PaymentCancelled, PaymentFailed} {
        p := linkedPayment(s)
        assert.ErrorIs(t, p.SetStatus(s), ErrSameStatus, s)
        assert.Equal(t, s, p.Status)
    }
}

func TestPaymentPaidRequiresReservation(t *testing.T) {
    p := &Payment{ID: 1, Status: PaymentPending}
    assert.ErrorIs(t, p.SetStatus(PaymentPaid), ErrUnlinkedPaid)
    assert.Equal(t, PaymentPending, p.Status)
}

func TestPaymentPaidUnreachableFromTerminal(t *testing.T) {
    for _, from := range []string{PaymentCancelled, PaymentFailed} {
        p := linkedPayment(from)
        err := p.SetStatus(PaymentPaid)
        require.Error(t, err, from)
        assert.Contains(t, err.Error(), "to 'paid'")
        assert.Equal(t, from, p.Status)
    }
}

func TestPaymentAllowedTransitions(t *testing.T) {
    cases := []struct{ from, to string }{
        {PaymentPending, PaymentPaid},
        {PaymentPending, PaymentCancelled},
        {PaymentPending, PaymentFailed},
        {PaymentPaid, PaymentCancelled},
        {PaymentPaid, PaymentFailed},
        {PaymentCancelled, PaymentPending},
        {PaymentFailed, PaymentPending},
    }
    for _, tc := range cases {
        p := linkedPayment(tc.from)
        require.NoError(t, p.SetStatus(tc.to), "%s -> %s", tc.from, tc.to)
        assert.Equal(t, tc.to, p.Status)
    }
}
