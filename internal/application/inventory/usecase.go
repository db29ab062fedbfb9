package inventory

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Mensajes de usuario. Se devuelven tal cual en la respuesta HTTP.
const (
	msgProductNotFound      = "Produto não encontrado"
	msgAlreadyInitiated     = "Já foi realizado início de estoque para o produto %d"
	msgStockNotInitiated    = "Necessário efetuar início de estoque para o produto %d"
	msgUnitPriceNotPositive = "O preço unitário deve ser maior que zero"
	msgQuantityNegative     = "A quantidade não pode ser negativa"
	msgFreightNegative      = "Preço do frete não pode ser negativo"
	msgStockWouldBeNegative = "Movimentações de estoque não podem torná-lo negativo! Estoque atual: %s"
	msgScale                = "O campo %s admite no máximo %d casas decimais"
	msgInvalidDirection     = "Direção de movimentação inválida: %q"

	msgInitiateInternal = "Erro interno ao realizar início de estoque. Contate o suporte para mais informações."
	msgMovementInternal = "Erro interno ao realizar movimentação de estoque. Contate o suporte para mais informações."
	msgUpdateInternal   = "Erro interno ao atualizar estoque. Contate o suporte para mais informações."
	msgReadInternal     = "Erro interno ao consultar estoque. Contate o suporte para mais informações."
)

// Límites de listado.
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// DefaultCacheReinvalidateDelay es la espera del segundo borrado de caché tras un commit.
const DefaultCacheReinvalidateDelay = 500 * time.Millisecond

// StockControlUseCase es el motor de inventario: inicio de stock, movimientos validados
// y consistencia entre la posición y el libro de movimientos. Cada escritura corre en
// una transacción con la fila de posición bloqueada (SELECT FOR UPDATE).
type StockControlUseCase struct {
	txRunner     TxRunner
	positionRepo repository.StockPositionRepository
	movementRepo repository.StockMovementRepository
	cache        PositionCache
	publisher    EventPublisher
	log          zerolog.Logger
	group        singleflight.Group
	now          func() time.Time

	reinvalidateAfter time.Duration
}

// NewStockControlUseCase construye el caso de uso. positionRepo y movementRepo se usan solo
// para lecturas fuera de transacción; cache y publisher pueden ser nil.
func NewStockControlUseCase(
	txRunner TxRunner,
	positionRepo repository.StockPositionRepository,
	movementRepo repository.StockMovementRepository,
	cache PositionCache,
	publisher EventPublisher,
	log zerolog.Logger,
) *StockControlUseCase {
	if cache == nil {
		cache = noopCache{}
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &StockControlUseCase{
		txRunner:     txRunner,
		positionRepo: positionRepo,
		movementRepo: movementRepo,
		cache:        cache,
		publisher:    publisher,
		log:          log,
		now:          time.Now,

		reinvalidateAfter: DefaultCacheReinvalidateDelay,
	}
}

// SetCacheReinvalidateDelay ajusta la espera del segundo borrado de caché; d <= 0 lo desactiva.
func (uc *StockControlUseCase) SetCacheReinvalidateDelay(d time.Duration) {
	uc.reinvalidateAfter = d
}

// InitiateStockInput entrada para el inicio de stock de un producto.
type InitiateStockInput struct {
	Actor     string
	ProductID int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// ApplyMovementInput entrada para una movimentación. Quantity negativa = salida.
// FreightPrice nil equivale a cero.
type ApplyMovementInput struct {
	Actor        string
	ProductID    int64
	Document     string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	FreightPrice *decimal.Decimal
}

// InitiateStock crea la posición inicial de stock de un producto. Falla si el producto no
// existe, si ya hubo inicio de stock o si los valores iniciales son inválidos.
func (uc *StockControlUseCase) InitiateStock(ctx context.Context, in InitiateStockInput) (*entity.StockPosition, error) {
	var created *entity.StockPosition

	err := uc.txRunner.Run(ctx, func(
		positionRepo repository.StockPositionRepository,
		_ repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		auditRepo repository.AuditRepository,
	) error {
		created = nil

		// 1. El producto debe existir en el catálogo.
		if err := ensureProduct(ctx, productRepo, in.ProductID); err != nil {
			return err
		}
		// 2. No puede haber inicio de stock previo.
		current, err := positionRepo.Get(ctx, in.ProductID)
		if err != nil {
			return domain.Internal(msgInitiateInternal, err)
		}
		if current != nil {
			return domain.Semantic(msgAlreadyInitiated, in.ProductID)
		}
		// 3. y 4. Precio unitario positivo, cantidad no negativa.
		if err := validateUnitPrice(in.UnitPrice); err != nil {
			return err
		}
		if in.Quantity.IsNegative() {
			return domain.Semantic(msgQuantityNegative)
		}
		if err := validateScales(in.Quantity, in.UnitPrice, nil); err != nil {
			return err
		}

		pos, err := positionRepo.Insert(ctx, &entity.StockPosition{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		})
		if err != nil {
			return classifyWrite(err, msgInitiateInternal)
		}
		uc.audit(ctx, auditRepo, entity.NewAuditEntry(
			entity.AuditTableStock, in.Actor, entity.OperationInsert,
			fmt.Sprintf("Início de estoque do produto %d", pos.ProductID),
		))
		created = pos
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, msgInitiateInternal)
	}

	uc.invalidate(ctx, created.ProductID)
	if err := uc.publisher.PublishStockInitiated(ctx, created); err != nil {
		uc.log.Warn().Err(err).Int64("product_id", created.ProductID).Msg("publicar inicio de stock")
	}
	return created, nil
}

// ApplyMovement registra una movimentación y actualiza la posición en la misma transacción.
// Si la actualización de la posición falla, el movimiento recién insertado se borra
// (rollback por borrado) y la transacción se confirma igual para que el intento y su
// reversión queden en la bitácora. Si el propio borrado falla, la transacción se aborta.
func (uc *StockControlUseCase) ApplyMovement(ctx context.Context, in ApplyMovementInput) (*entity.StockMovement, error) {
	var (
		applied *entity.StockMovement
		outcome error
	)

	err := uc.txRunner.Run(ctx, func(
		positionRepo repository.StockPositionRepository,
		movementRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		auditRepo repository.AuditRepository,
	) error {
		applied, outcome = nil, nil

		// 1. El producto debe existir.
		if err := ensureProduct(ctx, productRepo, in.ProductID); err != nil {
			return err
		}
		// 2. Debe haber inicio de stock. Bloquea la fila hasta el fin de la transacción.
		current, err := positionRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return domain.Internal(msgMovementInternal, err)
		}
		if current == nil {
			return domain.NotFound(msgStockNotInitiated, in.ProductID)
		}
		// 3. Precio unitario positivo.
		if err := validateUnitPrice(in.UnitPrice); err != nil {
			return err
		}
		// 4. Flete, cuando se informa, no negativo.
		freight := decimal.Zero
		if in.FreightPrice != nil {
			if in.FreightPrice.IsNegative() {
				return domain.Semantic(msgFreightNegative)
			}
			freight = *in.FreightPrice
		}
		// 5. La posición resultante no puede quedar negativa.
		newQty := current.Quantity.Add(in.Quantity)
		if newQty.IsNegative() {
			return domain.Semantic(msgStockWouldBeNegative, current.Quantity.String())
		}
		if err := validateScales(in.Quantity, in.UnitPrice, &freight); err != nil {
			return err
		}

		// a. Registra el movimiento.
		mov, err := movementRepo.Insert(ctx, &entity.StockMovement{
			ProductID:    in.ProductID,
			Document:     in.Document,
			Quantity:     in.Quantity,
			UnitPrice:    in.UnitPrice,
			FreightPrice: freight,
			Timestamp:    uc.now().UTC(),
		})
		if err != nil {
			return classifyWrite(err, msgMovementInternal)
		}
		uc.audit(ctx, auditRepo, entity.NewAuditEntry(
			entity.AuditTableStockMovement, in.Actor, entity.OperationInsert,
			fmt.Sprintf("Movimento de estoque %d", mov.ID),
		))

		// c. Actualiza la posición.
		pos, err := positionRepo.Update(ctx, in.ProductID, newQty, in.UnitPrice)
		if err != nil {
			// Un conflicto de concurrencia aborta la transacción para que el runner la repita.
			if domain.KindOf(err) == domain.KindRetryable {
				return err
			}
			return uc.rollbackMovement(ctx, movementRepo, auditRepo, in.Actor, mov, err, &outcome)
		}
		uc.audit(ctx, auditRepo, entity.NewAuditEntry(
			entity.AuditTableStock, in.Actor, entity.OperationUpdate,
			fmt.Sprintf("Altera estoque do produto %d", pos.ProductID),
		))
		applied = mov
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, msgMovementInternal)
	}
	if outcome != nil {
		return nil, outcome
	}

	uc.invalidate(ctx, applied.ProductID)
	if err := uc.publisher.PublishMovementApplied(ctx, applied); err != nil {
		uc.log.Warn().Err(err).Int64("movement_id", applied.ID).Msg("publicar movimiento")
	}
	return applied, nil
}

// rollbackMovement borra el movimiento cuya actualización de posición falló y deja el error
// clasificado en outcome. Devuelve nil para que la transacción confirme el rastro de
// auditoría; devuelve error (abortando todo) solo si el borrado compensatorio falla.
func (uc *StockControlUseCase) rollbackMovement(
	ctx context.Context,
	movementRepo repository.StockMovementRepository,
	auditRepo repository.AuditRepository,
	actor string,
	mov *entity.StockMovement,
	updateErr error,
	outcome *error,
) error {
	if err := movementRepo.Delete(ctx, mov.ID); err != nil {
		uc.log.Error().Err(err).
			AnErr("update_error", updateErr).
			Int64("movement_id", mov.ID).
			Int64("product_id", mov.ProductID).
			Msg("rollback de movimiento falló, abortando transacción")
		return domain.Internal(msgMovementInternal,
			fmt.Errorf("compensating delete of movement %d: %w (update: %v)", mov.ID, err, updateErr))
	}
	uc.audit(ctx, auditRepo, entity.NewAuditEntry(
		entity.AuditTableStockMovement, actor, entity.OperationDelete,
		fmt.Sprintf("Rollback de movimento de estoque %d", mov.ID),
	))
	uc.log.Warn().Err(updateErr).
		Int64("movement_id", mov.ID).
		Int64("product_id", mov.ProductID).
		Msg("actualización de posición falló, movimiento revertido")
	*outcome = classifyWrite(updateErr, msgUpdateInternal)
	return nil
}

// GetPosition devuelve la posición del producto o nil si no hubo inicio de stock.
// No valida el producto contra el catálogo: una posición huérfana es un estado admitido.
func (uc *StockControlUseCase) GetPosition(ctx context.Context, productID int64) (*entity.StockPosition, error) {
	pos, ok, err := uc.cache.Get(ctx, productID)
	if err != nil {
		uc.log.Warn().Err(err).Int64("product_id", productID).Msg("leer caché de posición")
	} else if ok {
		return pos, nil
	}

	// singleflight colapsa misses concurrentes del mismo producto en una sola consulta.
	v, err, _ := uc.group.Do(strconv.FormatInt(productID, 10), func() (interface{}, error) {
		pos, err := uc.positionRepo.Get(ctx, productID)
		if err != nil {
			return nil, err
		}
		if pos != nil {
			if err := uc.cache.Set(ctx, pos); err != nil {
				uc.log.Warn().Err(err).Int64("product_id", productID).Msg("escribir caché de posición")
			}
		}
		return pos, nil
	})
	if err != nil {
		return nil, domain.Internal(msgReadInternal, err)
	}
	pos, _ = v.(*entity.StockPosition)
	return pos, nil
}

// ListPositions lista posiciones unidas al catálogo.
func (uc *StockControlUseCase) ListPositions(ctx context.Context, limit int) ([]*entity.PositionView, error) {
	list, err := uc.positionRepo.ListWithProducts(ctx, NormalizeLimit(limit))
	if err != nil {
		return nil, domain.Internal(msgReadInternal, err)
	}
	return list, nil
}

// ListMovements lista movimientos del más reciente al más antiguo.
func (uc *StockControlUseCase) ListMovements(ctx context.Context, filter entity.MovementFilter) ([]*entity.StockMovement, error) {
	if !filter.Direction.Valid() {
		return nil, domain.Semantic(msgInvalidDirection, string(filter.Direction))
	}
	filter.Limit = NormalizeLimit(filter.Limit)
	list, err := uc.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, domain.Internal(msgReadInternal, err)
	}
	return list, nil
}

// NormalizeLimit aplica el límite por defecto y el máximo.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func (uc *StockControlUseCase) audit(ctx context.Context, repo repository.AuditRepository, entry *entity.AuditEntry) {
	if _, err := repo.Record(ctx, entry); err != nil {
		uc.log.Warn().Err(err).
			Str("table", entry.Table).
			Str("operation", entry.Operation.String()).
			Msg("registrar auditoría")
	}
}

// invalidate borra la posición de la caché tras el commit y repite el borrado después de
// reinvalidateAfter: un lector que consultó la BD antes del commit puede haber escrito el
// valor viejo después del primer borrado.
func (uc *StockControlUseCase) invalidate(ctx context.Context, productID int64) {
	if _, ok := uc.cache.(noopCache); ok {
		return
	}
	if err := uc.cache.Invalidate(ctx, productID); err != nil {
		uc.log.Warn().Err(err).Int64("product_id", productID).Msg("invalidar caché de posición")
	}
	if uc.reinvalidateAfter <= 0 {
		return
	}
	bg := context.WithoutCancel(ctx)
	time.AfterFunc(uc.reinvalidateAfter, func() {
		if err := uc.cache.Invalidate(bg, productID); err != nil {
			uc.log.Warn().Err(err).Int64("product_id", productID).Msg("reinvalidar caché de posición")
		}
	})
}

func ensureProduct(ctx context.Context, productRepo repository.ProductRepository, productID int64) error {
	ok, err := productRepo.Exists(ctx, productID)
	if err != nil {
		return domain.Internal(msgReadInternal, err)
	}
	if !ok {
		return domain.NotFound(msgProductNotFound)
	}
	return nil
}

func validateUnitPrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return domain.Semantic(msgUnitPriceNotPositive)
	}
	return nil
}

func validateScales(quantity, unitPrice decimal.Decimal, freight *decimal.Decimal) error {
	if !entity.FitsScale(quantity, entity.QuantityScale) {
		return domain.Semantic(msgScale, "quantidade", entity.QuantityScale)
	}
	if !entity.FitsScale(unitPrice, entity.PriceScale) {
		return domain.Semantic(msgScale, "preço unitário", entity.PriceScale)
	}
	if freight != nil && !entity.FitsScale(*freight, entity.PriceScale) {
		return domain.Semantic(msgScale, "preço do frete", entity.PriceScale)
	}
	return nil
}

// classifyWrite traduce la falla de una escritura: violaciones de restricción pasan como
// error semántico con el mensaje del motor; el resto es interno.
func classifyWrite(err error, internalMsg string) error {
	if domain.KindOf(err) == domain.KindConstraint {
		return &domain.Error{Kind: domain.KindSemantic, Message: domain.MessageOf(err), Err: err}
	}
	return domain.Internal(internalMsg, err)
}

// asDomainError deja pasar errores de dominio y envuelve el resto (begin/commit) como internos.
// Un conflicto que agotó los reintentos también se informa como interno.
func asDomainError(err error, internalMsg string) error {
	if domain.KindOf(err) == domain.KindRetryable {
		return domain.Internal(internalMsg, err)
	}
	if domain.MessageOf(err) != "" {
		return err
	}
	return domain.Internal(internalMsg, err)
}
