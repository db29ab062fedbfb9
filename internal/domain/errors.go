package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores de dominio. La capa HTTP traduce cada Kind a un
// status y un código estable; el resto de capas solo lo propaga.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindSemantic
	KindConstraint
	KindStorageCorruption
	KindUnauthorized
	// KindRetryable: conflicto de concurrencia (serialización, deadlock); la transacción
	// completa puede repetirse.
	KindRetryable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindSemantic:
		return "semantic"
	case KindConstraint:
		return "constraint_violation"
	case KindStorageCorruption:
		return "storage_corruption"
	case KindUnauthorized:
		return "unauthorized"
	case KindRetryable:
		return "retryable"
	default:
		return "internal"
	}
}

// Errores centinela, uno por Kind, para usar con errors.Is.
var (
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "recurso no encontrado"}
	ErrSemantic          = &Error{Kind: KindSemantic, Message: "regla de negocio violada"}
	ErrConstraint        = &Error{Kind: KindConstraint, Message: "restricción de base de datos violada"}
	ErrInternal          = &Error{Kind: KindInternal, Message: "error interno"}
	ErrStorageCorruption = &Error{Kind: KindStorageCorruption, Message: "dato almacenado inválido"}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Message: "no autorizado"}
	ErrRetryable         = &Error{Kind: KindRetryable, Message: "conflicto de concurrencia"}
)

// Error es el error de dominio: un Kind, un mensaje apto para el usuario
// (salvo KindInternal, cuyo mensaje nunca sale de la API) y la causa opcional.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is hace que errors.Is(err, domain.ErrNotFound) compare por Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == e.Message || isSentinel(t))
}

func isSentinel(e *Error) bool {
	switch e {
	case ErrNotFound, ErrSemantic, ErrConstraint, ErrInternal, ErrStorageCorruption, ErrUnauthorized, ErrRetryable:
		return true
	}
	return false
}

// NotFound construye un error de recurso inexistente.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Semantic construye un error de regla de negocio.
func Semantic(format string, args ...any) *Error {
	return &Error{Kind: KindSemantic, Message: fmt.Sprintf(format, args...)}
}

// Constraint envuelve una violación de restricción reportada por el almacenamiento.
// El mensaje es el del motor de base de datos.
func Constraint(err error) *Error {
	return &Error{Kind: KindConstraint, Message: err.Error(), Err: err}
}

// Retryable envuelve una falla de concurrencia del almacenamiento tras la cual la
// transacción debe abortarse y repetirse, nunca compensarse.
func Retryable(err error) *Error {
	return &Error{Kind: KindRetryable, Message: "conflito de concorrência", Err: err}
}

// Internal envuelve una falla de infraestructura.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// StorageCorruption indica un valor persistido que no se puede decodificar.
func StorageCorruption(format string, args ...any) *Error {
	return &Error{Kind: KindStorageCorruption, Message: fmt.Sprintf(format, args...)}
}

// KindOf devuelve el Kind del primer *Error en la cadena; KindInternal si no hay ninguno.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf devuelve el mensaje de usuario del primer *Error en la cadena.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
