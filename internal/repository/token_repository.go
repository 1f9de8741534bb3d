package repository

import (
    "context"
    "database/sql"
    "time"
)

// TokenRepo persists refresh-token hashes.  Only the SHA-256 digest of
// a token ever reaches the database; validation and revocation both
// key on the digest.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh records a new refresh-token hash for a user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
    _, err := r.DB.ExecContext(ctx,
        `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)`,
        userID, tokenHash, expiresAt.UTC())
    return err
}

// ValidateRefresh resolves a hash to its user.  Revoked and expired
// rows are filtered in SQL, so an invalid token surfaces uniformly as
// sql.ErrNoRows.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
    var userID uint64
    err := r.DB.QueryRowContext(ctx,
        `SELECT user_id FROM refresh_tokens
         WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()`,
        tokenHash).Scan(&userID)
    if err != nil {
        return 0, err
    }
    return userID, nil
}

// RevokeByHash revokes one session.  Already-revoked rows are left
// untouched so the revocation timestamp stays honest.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE token_hash = ? AND revoked_at IS NULL`,
        tokenHash)
    return err
}

// RevokeAllForUser ends every active session of a user at once.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE user_id = ? AND revoked_at IS NULL`,
        userID)
    return err
}
