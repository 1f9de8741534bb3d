// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published after a reservation has been
// admitted and committed.  It carries everything the notification
// consumer needs to render a confirmation for the user without
// querying the primary database.  Price is a 2-digit decimal string;
// timestamps are RFC 3339 in UTC.
type ReservationConfirmedEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    UserID        uint64 `json:"user_id"`
    UserEmail     string `json:"user_email"`
    FirstName     string `json:"first_name"`
    FacilityID    uint64 `json:"facility_id"`
    FacilityName  string `json:"facility_name"`
    StartTime     string `json:"start_time"`
    EndTime       string `json:"end_time"`
    Price         string `json:"price"`
    ConfirmedAt   string `json:"confirmed_at"`
}
