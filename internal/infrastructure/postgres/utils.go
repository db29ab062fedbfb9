package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/estoque-api/internal/domain"
)

// SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeNumericOverflow      = "22003"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// isConstraintViolation: clase 23 (integrity constraint) y desbordes numéricos contra NUMERIC(p,s).
func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == codeNumericOverflow || (len(pgErr.Code) == 5 && pgErr.Code[:2] == "23")
}

// isRetryable indica fallas de concurrencia tras las cuales la transacción completa puede reintentarse.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
}

// classifyError traduce un error del driver: violaciones de restricción a domain.Constraint
// con el mensaje del motor, fallas de serialización o deadlock a domain.Retryable y el
// resto envuelto con la operación.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isRetryable(err) {
		return domain.Retryable(fmt.Errorf("%s: %w", op, err))
	}
	if isConstraintViolation(err) {
		var pgErr *pgconn.PgError
		errors.As(err, &pgErr)
		return domain.Constraint(pgErr)
	}
	return fmt.Errorf("%s: %w", op, err)
}
