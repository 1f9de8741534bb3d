package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/facility-reservation/internal/model"
	"github.com/iliyamo/facility-reservation/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user with the NORMAL role and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, firstName, lastName string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, first_name, last_name, role) VALUES (?,?,?,?,?)",
		email, hash, firstName, lastName, model.RoleNormal)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,first_name,last_name,role,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,first_name,last_name,role,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// ListAll returns every user ordered by id.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,email,password_hash,first_name,last_name,role,is_active,created_at,updated_at FROM users ORDER BY id")
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

// UpdateProfile rewrites the caller-editable name fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, firstName, lastName string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET first_name=?, last_name=? WHERE id=?", firstName, lastName, id)
	return err
}

// UpdatePassword stores a freshly derived bcrypt hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}

// GetByIDTx fetches a user inside an open transaction.
func (r *UserRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.User, error) {
	var u model.User
	err := tx.QueryRowContext(ctx,
		"SELECT id,email,password_hash,first_name,last_name,role,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// UpdateRoleTx persists a recomputed role within a transaction.  Role
// derivation itself lives in model.DeriveRole; this method only writes
// the result.
func (r *UserRepo) UpdateRoleTx(ctx context.Context, tx *sql.Tx, userID uint64, role string) error {
	_, err := tx.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", role, userID)
	return err
}
