// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema migration and the Postgres implementation of the
// notification store.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/booking-notifier/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// Migrate applies the embedded schema, including the change-feed triggers.
// It opens its own connection so it can run before any table the prepared
// statements reference exists.
func Migrate(ctx context.Context, databaseURL string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const serviceRecordColumns = `id, COALESCE(user_id, ''), COALESCE(customer_name, ''), service_type,
	service_date, status, modified_by_admin, reminder_sent, cost::float8, description,
	COALESCE(vehicle_id, ''), COALESCE(vehicle_make, ''), COALESCE(vehicle_model, '')`

// registerPreparedStatements registers every statement the store uses.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Users
		"user_by_id":       "SELECT id, name, COALESCE(push_token, ''), is_admin FROM users WHERE id = $1",
		"admin_users":      "SELECT id, name, COALESCE(push_token, ''), is_admin FROM users WHERE is_admin ORDER BY id",
		"clear_push_token": "UPDATE users SET push_token = NULL WHERE id = $1",

		// Orders
		"order_by_id": "SELECT id, COALESCE(user_id, ''), COALESCE(customer_name, ''), total_amount::float8, status FROM orders WHERE id = $1",

		// Service records
		"service_record_by_id":    "SELECT " + serviceRecordColumns + " FROM service_records WHERE id = $1",
		"clear_modified_by_admin": "UPDATE service_records SET modified_by_admin = false WHERE id = $1",
		"due_reminders":           "SELECT " + serviceRecordColumns + " FROM service_records WHERE service_date >= $1 AND service_date <= $2 AND NOT reminder_sent ORDER BY service_date",
		"claim_reminder":          "UPDATE service_records SET reminder_sent = true WHERE id = $1 AND NOT reminder_sent RETURNING id",

		// Vehicles
		"vehicle_by_id": "SELECT id, make, model FROM vehicles WHERE id = $1",

		// Notifications
		"insert_notification": `INSERT INTO notifications (user_id, title, message, category, related_id)
			VALUES ($1, $2, $3, $4, $5) RETURNING id, is_read, created_at`,
		"purge_read_notifications": "DELETE FROM notifications WHERE is_read AND created_at < $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
