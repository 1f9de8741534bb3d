package model

import "time"

// Role names stored in users.role.  NORMAL users can only book; OWNER is
// derived from facility ownership; ADMIN is a separate elevated tier that
// ownership transitions never touch.
const (
    RoleNormal = "NORMAL"
    RoleOwner  = "OWNER"
    RoleAdmin  = "ADMIN"
)

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column.  Handlers
// define separate response types with JSON tags; these structs are
// used by the repository layer only.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name, used in confirmation notifications.
//  LastName     – family name.
//  Role         – one of NORMAL, OWNER, ADMIN.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// DeriveRole recomputes a user's role from the number of facilities they
// currently own.  The role is a pure function of the ownership count:
// granting a second facility is a no-op, revoking one of two keeps OWNER.
// ADMIN is orthogonal and is returned unchanged.
func DeriveRole(current string, ownedCount int) string {
    if current == RoleAdmin {
        return RoleAdmin
    }
    if ownedCount > 0 {
        return RoleOwner
    }
    return RoleNormal
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
