package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Reservation records a user's booking of a facility for a UTC time
// interval.  Intervals are half-open [StartTime, EndTime): a
// reservation ending exactly when another starts does not conflict
// with it.  Price is computed at admission time from the facility's
// hourly rate and stays fixed afterwards.
//
// Fields:
//  ID         – primary key identifier.
//  FacilityID – facility being reserved.
//  UserID     – user who made the reservation.
//  PaymentID  – payment created alongside the reservation.
//  StartTime  – interval start, UTC.
//  EndTime    – interval end, UTC.
//  Price      – total charge, exact decimal with 2 fractional digits.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
    ID         uint64          // reservations.id
    FacilityID uint64          // reservations.facility_id
    UserID     uint64          // reservations.user_id
    PaymentID  uint64          // reservations.payment_id
    StartTime  time.Time       // reservations.start_time
    EndTime    time.Time       // reservations.end_time
    Price      decimal.Decimal // reservations.price
    CreatedAt  time.Time       // reservations.created_at
    UpdatedAt  time.Time       // reservations.updated_at
}
