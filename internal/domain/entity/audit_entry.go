package entity

import (
	"time"

	"github.com/jhoicas/estoque-api/internal/domain"
)

// Tablas registradas en la bitácora.
const (
	AuditTableStock         = "ESTOQUE"
	AuditTableStockMovement = "MOV_ESTOQUE"
	AuditTableProduct       = "PRODUTO"
	AuditTableUser          = "USUARIO"
)

// ActorSystem se usa cuando no hay usuario autenticado (procesos internos).
const ActorSystem = "sistema"

// OperationKind naturaleza de la operación registrada. Se persiste como SMALLINT.
type OperationKind int16

const (
	OperationInsert OperationKind = 0
	OperationUpdate OperationKind = 1
	OperationDelete OperationKind = 2
)

func (o OperationKind) String() string {
	switch o {
	case OperationInsert:
		return "insert"
	case OperationUpdate:
		return "update"
	case OperationDelete:
		return "delete"
	}
	return "unknown"
}

// ParseOperationKind decodifica el valor almacenado; cualquier otro valor es corrupción.
func ParseOperationKind(v int16) (OperationKind, error) {
	switch OperationKind(v) {
	case OperationInsert, OperationUpdate, OperationDelete:
		return OperationKind(v), nil
	}
	return 0, domain.StorageCorruption("operación de auditoría desconocida: %d", v)
}

// AuditEntry registro de la bitácora de cambios.
type AuditEntry struct {
	ID          int64
	Table       string
	Actor       string
	Operation   OperationKind
	Timestamp   time.Time
	Description *string
}

// NewAuditEntry arma una entrada con timestamp actual (UTC).
func NewAuditEntry(table, actor string, op OperationKind, description string) *AuditEntry {
	if actor == "" {
		actor = ActorSystem
	}
	e := &AuditEntry{Table: table, Actor: actor, Operation: op, Timestamp: time.Now().UTC()}
	if description != "" {
		e.Description = &description
	}
	return e
}
