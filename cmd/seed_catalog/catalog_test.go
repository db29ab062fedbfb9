package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestParseCatalog_Latin1(t *testing.T) {
	src := "descricao;unidade;quantidade;preco\nFeijão carioca;kg;1.234,500;7,25\nSabão em pó;cx\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(src)
	require.NoError(t, err)

	items, err := parseCatalog(transform.NewReader(strings.NewReader(latin1), charmap.ISO8859_1.NewDecoder()))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Feijão carioca", items[0].Description)
	assert.Equal(t, "KG", items[0].OutputUnit)
	assert.True(t, items[0].HasStock)
	assert.Equal(t, "1234.5", items[0].Quantity.String())
	assert.Equal(t, "7.25", items[0].UnitPrice.String())

	assert.Equal(t, "Sabão em pó", items[1].Description)
	assert.False(t, items[1].HasStock)
}

func TestParseCatalog_FilasInvalidas(t *testing.T) {
	cases := map[string]string{
		"columnas":          "a;b;c\nX;UN;1\n",
		"unidad larga":      "a;b\nX;UNIDADE\n",
		"precio cero":       "a;b;c;d\nX;UN;1;0\n",
		"cantidad negativa": "a;b;c;d\nX;UN;-1;1\n",
		"escala cantidad":   "a;b;c;d\nX;UN;1.0001;1\n",
		"escala precio":     "a;b;c;d\nX;UN;1;1.00001\n",
		"número":            "a;b;c;d\nX;UN;abc;1\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCatalog(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestParseCatalog_Vacio(t *testing.T) {
	items, err := parseCatalog(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWriteSQL(t *testing.T) {
	items, err := parseCatalog(strings.NewReader("d;u;q;p\nPão d'água;un;10;0,5\nÁgua;L\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, items))
	sql := buf.String()

	assert.True(t, strings.HasPrefix(sql, "-- Catálogo inicial"))
	assert.Contains(t, sql, "VALUES ('Pão d''água', 'UN') RETURNING id")
	assert.Contains(t, sql, "SELECT id, 10, 0.5 FROM p")
	assert.Contains(t, sql, "INSERT INTO products (description, output_unit) VALUES ('Água', 'L');")
	assert.Contains(t, sql, "COMMIT;")
}
