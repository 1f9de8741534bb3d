package repository

import (
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

// The repositories and the DDL drift independently; these checks pin
// the columns the queries depend on to what the migration declares.
func loadSchema(t *testing.T) string {
    t.Helper()
    bs, err := os.ReadFile(filepath.Join("..", "..", "migrations", "schema.sql"))
    require.NoError(t, err)
    return string(bs)
}

func TestSchemaDeclaresRefreshTokenColumns(t *testing.T) {
    ddl := loadSchema(t)
    // ValidateRefresh/RevokeByHash filter on revoked_at; a boolean
    // revoked flag would break every refresh and logout with error 1054.
    assert.Contains(t, ddl, "revoked_at DATETIME")
    assert.NotContains(t, ddl, "revoked    TINYINT")
    for _, col := range []string{"token_hash", "expires_at", "user_id"} {
        assert.Contains(t, ddl, col)
    }
}

func TestSchemaDeclaresQueriedColumns(t *testing.T) {
    ddl := loadSchema(t)
    for _, col := range strings.Split(facilityCols, ", ") {
        assert.Contains(t, ddl, col, "facilities.%s", col)
    }
    for _, col := range strings.Split(reservationCols, ", ") {
        assert.Contains(t, ddl, col, "reservations.%s", col)
    }
    for _, col := range strings.Split(paymentCols, ", ") {
        assert.Contains(t, ddl, col, "payments.%s", col)
    }
}

func TestSchemaCoordinateAndMoneyPrecision(t *testing.T) {
    ddl := loadSchema(t)
    assert.Contains(t, ddl, "lat            DECIMAL(10,8)")
    assert.Contains(t, ddl, "lon            DECIMAL(11,8)")
    assert.Contains(t, ddl, "price_per_hour DECIMAL(12,2)")
    assert.Contains(t, ddl, "ENUM('NORMAL','OWNER','ADMIN')")
    assert.Contains(t, ddl, "ENUM('paid','pending','cancelled','failed')")
}
