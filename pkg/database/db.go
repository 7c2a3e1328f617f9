package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Config struct {
	DSN            string
	MaxConns       int
	Timeout        time.Duration
	TimeZone       string
	ClientEncoding string
}

// ConfigFromEnv reads DB config from environment variables. An empty DSN
// means no database is configured.
func ConfigFromEnv() Config {
	return Config{
		DSN:            os.Getenv("DATABASE_URL"),
		MaxConns:       2,
		Timeout:        5 * time.Second,
		TimeZone:       os.Getenv("DATABASE_TIMEZONE"),
		ClientEncoding: os.Getenv("DATABASE_CLIENT_ENCODING"),
	}
}

// Enabled reports whether a DSN was provided.
func (c Config) Enabled() bool {
	return c.DSN != ""
}

// Connect opens a postgres connection pool and verifies connectivity with a
// ping. Session settings from cfg are applied to every pooled connection.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	connector, err := pq.NewConnector(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db := sqlx.NewDb(sql.OpenDB(sessionConnector{Connector: connector, stmts: sessionSettings(cfg)}), "postgres")
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// sessionConnector runs stmts on each new connection before the pool hands
// it out.
type sessionConnector struct {
	driver.Connector
	stmts []string
}

func (c sessionConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := c.Connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if len(c.stmts) == 0 {
		return conn, nil
	}
	execer, ok := conn.(driver.ExecerContext)
	if !ok {
		conn.Close()
		return nil, errors.New("driver connection does not support ExecContext")
	}
	for _, stmt := range c.stmts {
		if _, err := execer.ExecContext(ctx, stmt, nil); err != nil {
			conn.Close()
			return nil, fmt.Errorf("apply %q: %w", stmt, err)
		}
	}
	return conn, nil
}

// sessionSettings returns the SET statements implied by cfg. SET does not take
// bind parameters, so values are quoted as literals.
func sessionSettings(cfg Config) []string {
	var stmts []string
	if cfg.TimeZone != "" {
		stmts = append(stmts, "SET TIME ZONE "+pq.QuoteLiteral(cfg.TimeZone))
	}
	if cfg.ClientEncoding != "" {
		stmts = append(stmts, "SET client_encoding = "+pq.QuoteLiteral(cfg.ClientEncoding))
	}
	return stmts
}
