package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	maxDescription = 255
	maxOutputUnit  = 6
)

// catalogItem fila del catálogo. Quantity y UnitPrice solo valen si HasStock.
type catalogItem struct {
	Description string
	OutputUnit  string
	HasStock    bool
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// parseCatalog lee filas "descrição;unidade[;quantidade;preço]". La primera fila es el
// encabezado. Los números aceptan coma decimal.
func parseCatalog(r io.Reader) ([]catalogItem, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("encabezado: %w", err)
	}

	var items []catalogItem
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		it, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func parseRecord(rec []string) (catalogItem, error) {
	if len(rec) != 2 && len(rec) != 4 {
		return catalogItem{}, fmt.Errorf("se esperaban 2 o 4 columnas, hay %d", len(rec))
	}
	it := catalogItem{
		Description: strings.TrimSpace(rec[0]),
		OutputUnit:  strings.ToUpper(strings.TrimSpace(rec[1])),
	}
	if it.Description == "" || len([]rune(it.Description)) > maxDescription {
		return catalogItem{}, fmt.Errorf("descripción vacía o mayor a %d caracteres", maxDescription)
	}
	if it.OutputUnit == "" || len([]rune(it.OutputUnit)) > maxOutputUnit {
		return catalogItem{}, fmt.Errorf("unidad vacía o mayor a %d caracteres", maxOutputUnit)
	}
	if len(rec) == 2 {
		return it, nil
	}

	var err error
	if it.Quantity, err = parseNumber(rec[2]); err != nil {
		return catalogItem{}, fmt.Errorf("cantidad: %w", err)
	}
	if it.UnitPrice, err = parseNumber(rec[3]); err != nil {
		return catalogItem{}, fmt.Errorf("precio: %w", err)
	}
	if it.Quantity.IsNegative() || it.Quantity.Exponent() < -3 {
		return catalogItem{}, fmt.Errorf("cantidad inválida: %s", it.Quantity)
	}
	if !it.UnitPrice.IsPositive() || it.UnitPrice.Exponent() < -4 {
		return catalogItem{}, fmt.Errorf("precio inválido: %s", it.UnitPrice)
	}
	it.HasStock = true
	return it, nil
}

// parseNumber acepta "1.234,50" y "1234.50".
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// writeSQL escribe una transacción con un INSERT por producto. Los productos con stock
// encadenan la posición y la entrada de auditoría con un CTE sobre el id generado.
func writeSQL(w io.Writer, items []catalogItem) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de productos\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")
	b.WriteString("BEGIN;\n\n")
	for _, it := range items {
		desc := escapeSQL(it.Description)
		unit := escapeSQL(it.OutputUnit)
		if !it.HasStock {
			fmt.Fprintf(&b, "INSERT INTO products (description, output_unit) VALUES ('%s', '%s');\n", desc, unit)
			continue
		}
		fmt.Fprintf(&b, "WITH p AS (\n  INSERT INTO products (description, output_unit) VALUES ('%s', '%s') RETURNING id\n), s AS (\n", desc, unit)
		fmt.Fprintf(&b, "  INSERT INTO stock_positions (product_id, quantity, unit_price) SELECT id, %s, %s FROM p RETURNING product_id\n)\n",
			it.Quantity.String(), it.UnitPrice.String())
		b.WriteString("INSERT INTO audit_log (table_name, actor, operation, created_at, description)\n")
		b.WriteString("SELECT 'ESTOQUE', 'sistema', 0, now(), 'Início de estoque do produto ' || product_id FROM s;\n")
	}
	b.WriteString("\nCOMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
