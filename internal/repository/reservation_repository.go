package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/facility-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations.  All
// timestamp columns are stored and compared in UTC.  The overlap and
// future-existence queries mirror the predicates of the booking core
// so the database and the pure functions always agree.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, facility_id, user_id, payment_id, start_time, end_time, price, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.FacilityID, &res.UserID, &res.PaymentID,
		&res.StartTime, &res.EndTime, &res.Price, &res.CreatedAt, &res.UpdatedAt)
	if err == nil {
		res.StartTime = res.StartTime.UTC()
		res.EndTime = res.EndTime.UTC()
	}
	return res, err
}

// CreateTx inserts a reservation within an open transaction and reads
// the stored row back so generated timestamps are populated.  The
// caller must commit or roll back.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (facility_id, user_id, payment_id, start_time, end_time, price) VALUES (?,?,?,?,?,?)`,
		res.FacilityID, res.UserID, res.PaymentID, res.StartTime.UTC(), res.EndTime.UTC(), res.Price)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	stored, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, res.ID))
	if err != nil {
		return err
	}
	*res = stored
	return nil
}

// ExistsOverlappingTx reports whether any reservation for the
// facility overlaps the half-open interval [start, end).  Intervals
// that merely touch at an endpoint do not count: the predicate is
// existing.start < end AND existing.end > start.
func (r *ReservationRepo) ExistsOverlappingTx(ctx context.Context, tx *sql.Tx, facilityID uint64, start, end time.Time) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reservations WHERE facility_id = ? AND start_time < ? AND end_time > ?)`,
		facilityID, end.UTC(), start.UTC()).Scan(&exists)
	return exists, err
}

// FutureExists reports whether the facility has any reservation with
// start_time strictly after now.  The facility-deletion flow refuses
// deletion while this is true.
func (r *ReservationRepo) FutureExists(ctx context.Context, facilityID uint64, now time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reservations WHERE facility_id = ? AND start_time > ?)`,
		facilityID, now.UTC()).Scan(&exists)
	return exists, err
}

// GetByID fetches a single reservation.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	return scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id))
}

// ListAll returns every reservation whose interval is contained in
// [start, end], newest first.
func (r *ReservationRepo) ListAll(ctx context.Context, start, end time.Time) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations
		 WHERE start_time >= ? AND end_time <= ?
		 ORDER BY created_at DESC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ListByUser returns the reservations of one user inside a window,
// newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64, start, end time.Time) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations
		 WHERE user_id = ? AND start_time >= ? AND end_time <= ?
		 ORDER BY created_at DESC`, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ListByFacility returns every reservation for a facility ordered by
// start time.
func (r *ReservationRepo) ListByFacility(ctx context.Context, facilityID uint64) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE facility_id = ? ORDER BY start_time`, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Delete removes a reservation.  The payments.reservation_id FK is
// SET NULL, so the payment record survives unlinked.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	return err
}
