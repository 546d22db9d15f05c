// Package repository contains the Postgres-backed persistence layer. Each
// repository is an interface plus a pgxpool implementation using raw SQL.
// Absent rows surface as pgx.ErrNoRows; unique-constraint violations are
// translated to conflict errors so the storage-layer constraint, not the
// service-level pre-check, remains the real uniqueness guarantee.
package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/commerce-services/internal/domain"
)

const pgUniqueViolation = "23505"

// uniqueConstraint extracts the violated constraint name from a unique
// violation, if err is one.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// orderClause renders a safe ORDER BY from a caller-supplied sort field.
// Unknown fields fall back to the default column.
func orderClause(allowed map[string]string, req domain.PageRequest, fallback string) string {
	column, ok := allowed[req.SortBy]
	if !ok {
		column = fallback
	}
	direction := "ASC"
	if req.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}
