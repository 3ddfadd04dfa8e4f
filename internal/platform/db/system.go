package db

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	SystemIDKey contextKey = "system_id"
	DBConnKey   contextKey = "db_conn"
)

var systemIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// SystemMiddleware resolves the hospital system for a request and pins a
// connection with the system's schema on the search_path. Each hospital
// system (a network of hospitals sharing one deployment) gets its own
// schema; hospitals within a system are scoped by hospital_id columns.
func SystemMiddleware(pool *pgxpool.Pool, defaultSystem string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			systemID := extractSystemID(c, defaultSystem)

			if !systemIDPattern.MatchString(systemID) {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid system identifier")
			}

			ctx := c.Request().Context()
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
			defer conn.Release()

			schema := fmt.Sprintf("system_%s", systemID)
			_, err = conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s, public", schema))
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "system resolution failed")
			}

			ctx = context.WithValue(ctx, SystemIDKey, systemID)
			ctx = context.WithValue(ctx, DBConnKey, conn)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("system_id", systemID)

			return next(c)
		}
	}
}

func extractSystemID(c echo.Context, defaultSystem string) string {
	// 1. JWT claim (set by auth middleware)
	if sid, ok := c.Get("jwt_system_id").(string); ok && sid != "" {
		return sid
	}

	// 2. X-System-ID header
	if sid := c.Request().Header.Get("X-System-ID"); sid != "" {
		return sid
	}

	// 3. Query parameter
	if sid := c.QueryParam("system_id"); sid != "" {
		return sid
	}

	return defaultSystem
}

// ConnFromContext retrieves the system-scoped database connection from context.
func ConnFromContext(ctx context.Context) *pgxpool.Conn {
	conn, _ := ctx.Value(DBConnKey).(*pgxpool.Conn)
	return conn
}

// SystemFromContext retrieves the hospital system ID from context.
func SystemFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(SystemIDKey).(string)
	return sid
}

// CreateSystemSchema creates a new schema for a hospital system and runs all
// migrations against it. If migrationsDir is empty, migrations are skipped.
func CreateSystemSchema(ctx context.Context, pool *pgxpool.Pool, systemID string, migrationsDir string) error {
	if !systemIDPattern.MatchString(systemID) {
		return fmt.Errorf("invalid system identifier: %s", systemID)
	}

	schema := fmt.Sprintf("system_%s", systemID)

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema))
	if err != nil {
		return fmt.Errorf("create schema %s: %w", schema, err)
	}

	if migrationsDir != "" {
		migrator := NewMigrator(pool, migrationsDir)
		if _, err := migrator.Up(ctx, schema); err != nil {
			return fmt.Errorf("run migrations for %s: %w", schema, err)
		}
	}

	return nil
}
