// Package database opens and configures the MySQL connection pool.
package database

import (
    "context"
    "database/sql"
    "time"

    "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection with a bounded
// ping.  ParseTime and Loc=UTC make DATETIME columns come back as UTC
// time.Time values, which keeps reservation interval comparisons
// consistent everywhere.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
    cfg := mysql.NewConfig()
    cfg.User = user
    cfg.Passwd = pass
    cfg.Net = "tcp"
    cfg.Addr = host + ":" + port
    cfg.DBName = name
    cfg.ParseTime = true
    cfg.Loc = time.UTC
    cfg.Params = map[string]string{"charset": "utf8mb4"}

    db, err := sql.Open("mysql", cfg.FormatDSN())
    if err != nil {
        return nil, err
    }

    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(25)
    db.SetConnMaxLifetime(30 * time.Minute)

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, err
    }
    return db, nil
}
