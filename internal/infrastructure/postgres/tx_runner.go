package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Ante serialization_failure
// o deadlock reintenta el callback completo con una transacción nueva.
type TxRunner struct {
	pool     *pgxpool.Pool
	isoLevel pgx.TxIsoLevel
	retries  int
	log      zerolog.Logger
}

// NewTxRunner construye el runner. isolation: read_committed | repeatable_read | serializable.
func NewTxRunner(pool *pgxpool.Pool, isolation string, retries int, log zerolog.Logger) (*TxRunner, error) {
	lvl, err := parseIsoLevel(isolation)
	if err != nil {
		return nil, err
	}
	if retries < 0 {
		retries = 0
	}
	return &TxRunner{pool: pool, isoLevel: lvl, retries: retries, log: log}, nil
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	positionRepo repository.StockPositionRepository,
	movementRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) || attempt >= r.retries {
			return err
		}
		r.log.Debug().Err(err).Int("attempt", attempt+1).Msg("reintentando transacción")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 10 * time.Millisecond):
		}
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	positionRepo repository.StockPositionRepository,
	movementRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.isoLevel})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewStockPositionRepository(tx),
		NewStockMovementRepository(tx),
		NewProductRepository(tx),
		NewAuditRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func parseIsoLevel(s string) (pgx.TxIsoLevel, error) {
	switch s {
	case "", "read_committed":
		return pgx.ReadCommitted, nil
	case "repeatable_read":
		return pgx.RepeatableRead, nil
	case "serializable":
		return pgx.Serializable, nil
	}
	return "", fmt.Errorf("nivel de aislamiento desconocido: %q", s)
}
