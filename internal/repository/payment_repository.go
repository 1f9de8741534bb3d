package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/facility-reservation/internal/model"
)

// PaymentRepo provides persistence for payments.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentCols = `id, reservation_id, status, price, reference, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (model.Payment, error) {
	var p model.Payment
	var resID sql.NullInt64
	err := row.Scan(&p.ID, &resID, &p.Status, &p.Price, &p.Reference, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	if resID.Valid {
		id := uint64(resID.Int64)
		p.ReservationID = &id
	}
	return p, nil
}

// CreateTx inserts a payment within an open transaction and populates
// the generated ID and timestamps.  Reservation admission inserts the
// payment first without a reservation reference and links it after
// the reservation row exists; both writes share the transaction so a
// failed second phase never leaves an orphan.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, price decimal.Decimal, status, reference string) (model.Payment, error) {
	var p model.Payment
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payments (status, price, reference) VALUES (?,?,?)`,
		status, price, reference)
	if err != nil {
		return p, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return p, err
	}
	return scanPayment(tx.QueryRowContext(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE id = ?`, uint64(id)))
}

// LinkReservationTx sets the reservation back-reference within the
// same transaction that created reservation and payment.
func (r *PaymentRepo) LinkReservationTx(ctx context.Context, tx *sql.Tx, paymentID, reservationID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE payments SET reservation_id = ? WHERE id = ?`, reservationID, paymentID)
	return err
}

// GetByID fetches a single payment.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	return scanPayment(r.db.QueryRowContext(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE id = ?`, id))
}

// ListAll returns every payment, newest first.
func (r *PaymentRepo) ListAll(ctx context.Context) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentCols+` FROM payments ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateStatus persists a status already validated by the model's
// transition rules.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = ? WHERE id = ?`, status, id)
	return err
}
