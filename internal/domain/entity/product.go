package entity

import "strings"

// Product es el registro mínimo del catálogo que consume el motor de inventario.
type Product struct {
	ID          int64
	Description string
	OutputUnit  string // unidad de salida en mayúsculas: UN, KG, FD, L...
}

// NormalizeOutputUnit deja la unidad de salida en mayúsculas y sin espacios.
func NormalizeOutputUnit(unit string) string {
	return strings.ToUpper(strings.TrimSpace(unit))
}
