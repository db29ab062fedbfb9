package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo implementan *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual
// con el pool (lecturas sueltas) o atados a una transacción del TxRunner.
// Begin sobre una pgx.Tx abre un savepoint.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// withSavepoint ejecuta fn en un savepoint: si fn falla se revierte solo el savepoint
// y la transacción externa sigue utilizable.
func withSavepoint(ctx context.Context, q Querier, fn func(q Querier) error) error {
	sp, err := q.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sp.Rollback(ctx) }()

	if err := fn(sp); err != nil {
		return err
	}
	return sp.Commit(ctx)
}
