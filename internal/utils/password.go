package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash at the configured cost.  A cost
// below the library minimum falls back to the bcrypt default rather
// than silently producing weak hashes.
func HashPassword(plain string, cost int) (string, error) {
    if cost < bcrypt.MinCost {
        cost = bcrypt.DefaultCost
    }
    b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
    if err != nil {
        return "", err
    }
    return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash.  The
// comparison is constant time inside bcrypt.
func VerifyPassword(hash, plain string) bool {
    return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
