package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/facility-reservation/internal/model"
)

// FacilityTypeRepo provides persistence for facility types.
type FacilityTypeRepo struct {
	db *sql.DB
}

func NewFacilityTypeRepo(db *sql.DB) *FacilityTypeRepo { return &FacilityTypeRepo{db: db} }

// Create inserts a type.  A duplicate name maps to ErrConflict.
func (r *FacilityTypeRepo) Create(ctx context.Context, name string) (model.FacilityType, error) {
	var t model.FacilityType
	res, err := r.db.ExecContext(ctx, `INSERT INTO facility_types (name) VALUES (?)`, name)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return t, ErrConflict
		}
		return t, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return t, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a single type.
func (r *FacilityTypeRepo) GetByID(ctx context.Context, id uint64) (model.FacilityType, error) {
	var t model.FacilityType
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM facility_types WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	return t, err
}

// ListAll returns every type ordered by name.
func (r *FacilityTypeRepo) ListAll(ctx context.Context) ([]model.FacilityType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM facility_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.FacilityType, 0)
	for rows.Next() {
		var t model.FacilityType
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete removes a type.  The RESTRICT foreign key from facilities
// surfaces as ErrConflict when the type is still in use.
func (r *FacilityTypeRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM facility_types WHERE id = ?`, id)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1451") {
		return ErrConflict
	}
	return err
}
