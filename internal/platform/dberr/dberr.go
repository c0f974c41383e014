// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ngocdq/truyenhay/internal/platform/apperr"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique-constraint failures.
const pgUniqueViolation = "23505"

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Không tìm thấy dữ liệu")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// The unique-violation mapping matters: the slug generator's existence
// pre-check is only an optimization, and the UNIQUE index on stories.slug is
// the authoritative guard. A losing concurrent insert must surface as a
// 400-class rejection, never a 500.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique constraint mapping (slug collisions under concurrent creates)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperr.BadRequestWithCause(msg, err)
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}
