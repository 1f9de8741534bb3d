package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/facility-reservation/internal/model"
)

// FacilityRepo provides persistence for facilities and their owner
// set.  The owner set lives in the facility_owners association table
// and is loaded only by the explicit query methods below; nothing is
// lazily fetched.
type FacilityRepo struct {
	db *sql.DB
}

// NewFacilityRepo returns a new FacilityRepo bound to the given database.
func NewFacilityRepo(db *sql.DB) *FacilityRepo { return &FacilityRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *FacilityRepo) DB() *sql.DB { return r.db }

const facilityCols = `id, type_id, name, description, address, lat, lon, price_per_hour, image_url, created_at, updated_at`

func scanFacility(row interface{ Scan(...any) error }) (model.Facility, error) {
	var f model.Facility
	var desc sql.NullString
	err := row.Scan(&f.ID, &f.TypeID, &f.Name, &desc, &f.Address, &f.Lat, &f.Lon, &f.PricePerHour, &f.ImageURL, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return f, err
	}
	if desc.Valid {
		d := desc.String
		f.Description = &d
	}
	return f, nil
}

// Create inserts a facility and returns the stored row.
func (r *FacilityRepo) Create(ctx context.Context, f *model.Facility) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO facilities (type_id, name, description, address, lat, lon, price_per_hour, image_url) VALUES (?,?,?,?,?,?,?,?)`,
		f.TypeID, f.Name, f.Description, f.Address, f.Lat, f.Lon, f.PricePerHour, f.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	stored, err := r.GetByID(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = stored
	return nil
}

// GetByID fetches a facility by id.  Returns ErrFacilityNotFound when
// no row exists.
func (r *FacilityRepo) GetByID(ctx context.Context, id uint64) (model.Facility, error) {
	f, err := scanFacility(r.db.QueryRowContext(ctx,
		`SELECT `+facilityCols+` FROM facilities WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return f, ErrFacilityNotFound
	}
	return f, err
}

// GetByIDForUpdateTx fetches a facility inside a transaction with a
// row lock.  Concurrent reservation admissions for the same facility
// serialize on this lock, which is what makes the overlap check safe
// without a database-level exclusion constraint.
func (r *FacilityRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Facility, error) {
	f, err := scanFacility(tx.QueryRowContext(ctx,
		`SELECT `+facilityCols+` FROM facilities WHERE id = ? FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return f, ErrFacilityNotFound
	}
	return f, err
}

// ListAll returns every facility ordered by name.
func (r *FacilityRepo) ListAll(ctx context.Context) ([]model.Facility, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+facilityCols+` FROM facilities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFacilities(rows)
}

// ListByOwner returns the facilities owned by the given user.
func (r *FacilityRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Facility, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT f.id, f.type_id, f.name, f.description, f.address, f.lat, f.lon, f.price_per_hour, f.image_url, f.created_at, f.updated_at
		 FROM facilities f
		 JOIN facility_owners fo ON fo.facility_id = f.id
		 WHERE fo.user_id = ?
		 ORDER BY f.name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFacilities(rows)
}

func collectFacilities(rows *sql.Rows) ([]model.Facility, error) {
	out := make([]model.Facility, 0)
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns of a facility.
func (r *FacilityRepo) Update(ctx context.Context, f *model.Facility) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE facilities SET type_id=?, name=?, description=?, address=?, lat=?, lon=?, price_per_hour=?, image_url=? WHERE id=?`,
		f.TypeID, f.Name, f.Description, f.Address, f.Lat, f.Lon, f.PricePerHour, f.ImageURL, f.ID)
	return err
}

// Delete removes a facility.  The future-reservation guard is checked
// by the caller before this runs; owner rows cascade via FK.
func (r *FacilityRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM facilities WHERE id = ?`, id)
	return err
}

// IsOwner reports whether the user appears in the facility's owner set.
func (r *FacilityRepo) IsOwner(ctx context.Context, facilityID, userID uint64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM facility_owners WHERE facility_id = ? AND user_id = ?)`,
		facilityID, userID).Scan(&exists)
	return exists, err
}

// ListOwners returns the users owning a facility.
func (r *FacilityRepo) ListOwners(ctx context.Context, facilityID uint64) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.role, u.is_active, u.created_at, u.updated_at
		 FROM users u
		 JOIN facility_owners fo ON fo.user_id = u.id
		 WHERE fo.facility_id = ?
		 ORDER BY u.email`, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// AddOwnerTx inserts an ownership pair inside a transaction.  A
// duplicate pair maps to ErrConflict so handlers can report 409.
func (r *FacilityRepo) AddOwnerTx(ctx context.Context, tx *sql.Tx, facilityID, userID uint64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO facility_owners (user_id, facility_id) VALUES (?,?)`, userID, facilityID)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrConflict
	}
	return err
}

// RemoveOwnerTx deletes an ownership pair inside a transaction and
// reports whether a row was actually removed.
func (r *FacilityRepo) RemoveOwnerTx(ctx context.Context, tx *sql.Tx, facilityID, userID uint64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM facility_owners WHERE user_id = ? AND facility_id = ?`, userID, facilityID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountOwnedTx counts the facilities still owned by a user inside a
// transaction.  Role recomputation after a grant or revoke reads this.
func (r *FacilityRepo) CountOwnedTx(ctx context.Context, tx *sql.Tx, userID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM facility_owners WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}
