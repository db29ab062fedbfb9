package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockPositionRepository implementa repository.StockPositionRepository.
type StockPositionRepository struct{ tx *txScope }

func (r *StockPositionRepository) Get(_ context.Context, productID int64) (*entity.StockPosition, error) {
	var out *entity.StockPosition
	r.tx.do(func(s *Store) {
		if p, ok := s.positions[productID]; ok {
			out = &p
		}
	})
	return out, nil
}

// GetForUpdate no necesita bloqueo propio: la transacción ya tiene el store entero.
func (r *StockPositionRepository) GetForUpdate(ctx context.Context, productID int64) (*entity.StockPosition, error) {
	return r.Get(ctx, productID)
}

func (r *StockPositionRepository) Insert(_ context.Context, position *entity.StockPosition) (*entity.StockPosition, error) {
	var (
		out *entity.StockPosition
		err error
	)
	r.tx.do(func(s *Store) {
		if _, ok := s.products[position.ProductID]; !ok {
			err = domain.Constraint(fmt.Errorf("foreign key violation: product %d", position.ProductID))
			return
		}
		if _, ok := s.positions[position.ProductID]; ok {
			err = domain.Constraint(fmt.Errorf("duplicate key: stock position for product %d", position.ProductID))
			return
		}
		if err = checkPosition(position.Quantity, position.UnitPrice); err != nil {
			return
		}
		p := *position
		s.positions[p.ProductID] = p
		out = &p
	})
	return out, err
}

func (r *StockPositionRepository) Update(_ context.Context, productID int64, quantity, unitPrice decimal.Decimal) (*entity.StockPosition, error) {
	var (
		out *entity.StockPosition
		err error
	)
	r.tx.do(func(s *Store) {
		if s.failPositionUpdate != nil {
			err, s.failPositionUpdate = s.failPositionUpdate, nil
			return
		}
		p, ok := s.positions[productID]
		if !ok {
			err = domain.NotFound("posição de estoque do produto %d não encontrada", productID)
			return
		}
		if err = checkPosition(quantity, unitPrice); err != nil {
			return
		}
		p.Quantity = quantity
		p.UnitPrice = unitPrice
		s.positions[productID] = p
		out = &p
	})
	return out, err
}

func (r *StockPositionRepository) ListWithProducts(_ context.Context, limit int) ([]*entity.PositionView, error) {
	var out []*entity.PositionView
	r.tx.do(func(s *Store) {
		for _, id := range sortedKeys(s.positions) {
			if len(out) >= limit {
				break
			}
			prod, ok := s.products[id]
			if !ok {
				continue
			}
			p := s.positions[id]
			out = append(out, &entity.PositionView{
				ProductID:   id,
				Description: prod.Description,
				OutputUnit:  prod.OutputUnit,
				Quantity:    p.Quantity,
				UnitPrice:   p.UnitPrice,
			})
		}
	})
	return out, nil
}

// checkPosition emula los CHECK de la tabla stock_positions.
func checkPosition(quantity, unitPrice decimal.Decimal) error {
	if quantity.IsNegative() {
		return domain.Constraint(fmt.Errorf("check constraint violated: quantity %s < 0", quantity))
	}
	if !unitPrice.IsPositive() {
		return domain.Constraint(fmt.Errorf("check constraint violated: unit_price %s <= 0", unitPrice))
	}
	return nil
}

// StockMovementRepository implementa repository.StockMovementRepository.
type StockMovementRepository struct{ tx *txScope }

func (r *StockMovementRepository) Insert(_ context.Context, movement *entity.StockMovement) (*entity.StockMovement, error) {
	var (
		out *entity.StockMovement
		err error
	)
	r.tx.do(func(s *Store) {
		if _, ok := s.positions[movement.ProductID]; !ok {
			err = domain.Constraint(fmt.Errorf("foreign key violation: no stock position for product %d", movement.ProductID))
			return
		}
		s.nextMoveID++
		m := *movement
		m.ID = s.nextMoveID
		s.movements[m.ID] = m
		out = &m
	})
	return out, err
}

func (r *StockMovementRepository) Delete(_ context.Context, id int64) error {
	var err error
	r.tx.do(func(s *Store) {
		if s.failMovementDelete != nil {
			err, s.failMovementDelete = s.failMovementDelete, nil
			return
		}
		if _, ok := s.movements[id]; !ok {
			err = domain.NotFound("movimento de estoque %d não encontrado", id)
			return
		}
		delete(s.movements, id)
	})
	return err
}

func (r *StockMovementRepository) List(_ context.Context, filter entity.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	r.tx.do(func(s *Store) {
		for _, m := range s.movements {
			m := m
			if filter.Matches(&m) {
				out = append(out, &m)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// ProductRepository implementa repository.ProductRepository.
type ProductRepository struct{ tx *txScope }

func (r *ProductRepository) Exists(_ context.Context, id int64) (bool, error) {
	var ok bool
	r.tx.do(func(s *Store) { _, ok = s.products[id] })
	return ok, nil
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	r.tx.do(func(s *Store) {
		if p, ok := s.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *ProductRepository) Create(_ context.Context, product *entity.Product) (*entity.Product, error) {
	var out *entity.Product
	r.tx.do(func(s *Store) {
		s.nextProductID++
		p := *product
		p.ID = s.nextProductID
		s.products[p.ID] = p
		out = &p
	})
	return out, nil
}

func (r *ProductRepository) List(_ context.Context, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	r.tx.do(func(s *Store) {
		for _, id := range sortedKeys(s.products) {
			if len(out) >= limit {
				break
			}
			p := s.products[id]
			out = append(out, &p)
		}
	})
	return out, nil
}

// AuditRepository implementa repository.AuditRepository.
type AuditRepository struct{ tx *txScope }

func (r *AuditRepository) Record(_ context.Context, entry *entity.AuditEntry) (int64, error) {
	var (
		id  int64
		err error
	)
	r.tx.do(func(s *Store) {
		if s.failAudit != nil {
			err = s.failAudit
			return
		}
		s.nextAuditID++
		e := *entry
		e.ID = s.nextAuditID
		s.audit = append(s.audit, e)
		id = e.ID
	})
	return id, err
}

// List devuelve las entradas más recientes primero.
func (r *AuditRepository) List(_ context.Context, limit int) ([]*entity.AuditEntry, error) {
	var out []*entity.AuditEntry
	r.tx.do(func(s *Store) {
		for i := len(s.audit) - 1; i >= 0 && len(out) < limit; i-- {
			e := s.audit[i]
			out = append(out, &e)
		}
	})
	return out, nil
}

// UserRepository implementa repository.UserRepository.
type UserRepository struct{ tx *txScope }

func (r *UserRepository) Create(_ context.Context, user *entity.User) (*entity.User, error) {
	var (
		out *entity.User
		err error
	)
	r.tx.do(func(s *Store) {
		for _, u := range s.users {
			if u.Login == user.Login {
				err = domain.Constraint(fmt.Errorf("duplicate key: login %q", user.Login))
				return
			}
		}
		s.nextUserID++
		u := *user
		u.ID = s.nextUserID
		s.users[u.ID] = u
		out = &u
	})
	return out, err
}

func (r *UserRepository) FindByLogin(_ context.Context, login string) (*entity.User, error) {
	var out *entity.User
	r.tx.do(func(s *Store) {
		for _, u := range s.users {
			if u.Login == login {
				u := u
				out = &u
				return
			}
		}
	})
	return out, nil
}

func (r *UserRepository) Count(_ context.Context) (int, error) {
	var n int
	r.tx.do(func(s *Store) { n = len(s.users) })
	return n, nil
}
