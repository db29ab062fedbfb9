// Package memory implementa los puertos de repositorio en memoria, con transacciones
// serializables (un mutex por transacción y restauración de snapshot ante error).
// Se usa en tests y en ejecuciones locales sin Postgres.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// Store guarda todas las tablas. Las fallas inyectadas no forman parte del snapshot.
type Store struct {
	mu sync.Mutex

	products      map[int64]entity.Product
	positions     map[int64]entity.StockPosition
	movements     map[int64]entity.StockMovement
	audit         []entity.AuditEntry
	users         map[int64]entity.User
	nextProductID int64
	nextMoveID    int64
	nextAuditID   int64
	nextUserID    int64

	failPositionUpdate error
	failMovementDelete error
	failAudit          error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[int64]entity.Product),
		positions: make(map[int64]entity.StockPosition),
		movements: make(map[int64]entity.StockMovement),
		users:     make(map[int64]entity.User),
	}
}

type snapshot struct {
	products      map[int64]entity.Product
	positions     map[int64]entity.StockPosition
	movements     map[int64]entity.StockMovement
	audit         []entity.AuditEntry
	users         map[int64]entity.User
	nextProductID int64
	nextMoveID    int64
	nextAuditID   int64
	nextUserID    int64
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		products:      cloneMap(s.products),
		positions:     cloneMap(s.positions),
		movements:     cloneMap(s.movements),
		audit:         append([]entity.AuditEntry(nil), s.audit...),
		users:         cloneMap(s.users),
		nextProductID: s.nextProductID,
		nextMoveID:    s.nextMoveID,
		nextAuditID:   s.nextAuditID,
		nextUserID:    s.nextUserID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.positions = snap.positions
	s.movements = snap.movements
	s.audit = snap.audit
	s.users = snap.users
	s.nextProductID = snap.nextProductID
	s.nextMoveID = snap.nextMoveID
	s.nextAuditID = snap.nextAuditID
	s.nextUserID = snap.nextUserID
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// FailNextPositionUpdate hace que la próxima actualización de posición falle con err.
func (s *Store) FailNextPositionUpdate(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPositionUpdate = err
}

// FailNextMovementDelete hace que el próximo borrado de movimiento falle con err.
func (s *Store) FailNextMovementDelete(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMovementDelete = err
}

// FailAudit hace que toda escritura de auditoría falle con err hasta que se llame con nil.
func (s *Store) FailAudit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAudit = err
}

// RemoveProduct borra el producto del catálogo sin tocar su posición, dejando una
// posición huérfana como la que deja un borrado directo en la base.
func (s *Store) RemoveProduct(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

// TxRunner ejecuta fn con el store bloqueado; si fn devuelve error se restaura el snapshot.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner transaccional del store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn dentro de una transacción serializable.
func (r *TxRunner) Run(ctx context.Context, fn func(
	positionRepo repository.StockPositionRepository,
	movementRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap := r.s.snapshot()
	tx := &txScope{s: r.s, locked: true}
	if err := fn(
		&StockPositionRepository{tx},
		&StockMovementRepository{tx},
		&ProductRepository{tx},
		&AuditRepository{tx},
	); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// txScope indica si el llamador ya tiene el mutex del store (dentro de Run).
type txScope struct {
	s      *Store
	locked bool
}

func (t *txScope) do(fn func(s *Store)) {
	if !t.locked {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
	}
	fn(t.s)
}

// Repositorios fuera de transacción (lecturas y escrituras sueltas).

func (s *Store) Positions() *StockPositionRepository {
	return &StockPositionRepository{&txScope{s: s}}
}

func (s *Store) Movements() *StockMovementRepository {
	return &StockMovementRepository{&txScope{s: s}}
}

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{&txScope{s: s}}
}

func (s *Store) Audit() *AuditRepository {
	return &AuditRepository{&txScope{s: s}}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{&txScope{s: s}}
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
