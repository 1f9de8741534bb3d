// Package booking implements the reservation admission core: interval
// validation, the overlap predicate and ceil-hour pricing.  Everything
// here is pure; persistence and transport stay in the repository and
// handler layers.
package booking

import (
    "errors"
    "time"

    "github.com/shopspring/decimal"
)

// Duration bounds for a single reservation.
const (
    MinDuration = 30 * time.Minute
    MaxDuration = 24 * time.Hour
)

// ErrOverlap signals that a candidate interval conflicts with an
// existing reservation for the same facility.  Handlers translate it
// into an HTTP 409 response.
var ErrOverlap = errors.New("reservation overlaps with another reservation")

// ValidationError describes a rejected admission input.  The message
// names the violated rule so a client can reconstruct it.
type ValidationError struct {
    Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
    var ve *ValidationError
    return errors.As(err, &ve)
}

// Overlaps applies the half-open interval predicate: [aStart, aEnd)
// and [bStart, bEnd) overlap iff aStart < bEnd && bStart < aEnd.
// Intervals that merely touch at an endpoint do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
    return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// BilledHours returns the whole hours charged for the interval.
// Partial hours round up, so a 61-minute reservation bills as 2 hours.
func BilledHours(start, end time.Time) int64 {
    secs := int64(end.Sub(start).Seconds())
    hours := secs / 3600
    if secs%3600 != 0 {
        hours++
    }
    return hours
}

// Price computes the total charge for the interval at the given
// hourly rate.  All arithmetic is exact decimal; binary floats never
// touch currency values.
func Price(hourlyRate decimal.Decimal, start, end time.Time) decimal.Decimal {
    return hourlyRate.Mul(decimal.NewFromInt(BilledHours(start, end)))
}

// ValidateInterval checks a candidate interval against the admission
// rules in order; the first violated rule wins.  All comparisons are
// performed in UTC.
func ValidateInterval(now, start, end time.Time) error {
    now = now.UTC()
    start = start.UTC()
    end = end.UTC()
    if !start.After(now) {
        return &ValidationError{Msg: "start time must be in the future"}
    }
    if !end.After(start) {
        return &ValidationError{Msg: "end time must be after start time"}
    }
    d := end.Sub(start)
    if d < MinDuration {
        return &ValidationError{Msg: "reservation must be at least 30 minutes"}
    }
    if d > MaxDuration {
        return &ValidationError{Msg: "reservation cannot exceed 24 hours"}
    }
    return nil
}
