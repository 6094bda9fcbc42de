package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, isNoRows(errors.New("otro")))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("3f1c2a9e-2b7d-4c1e-9a55-0d2f8e6b1c11"))
	assert.False(t, validID("producto-1"))
	assert.False(t, validID(""))
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"producto", "contenedor", "detalle_contenedor", "motivo_movimiento", "movimiento"} {
		assert.True(t, strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}
	assert.Contains(t, schemaSQL, "UNIQUE (nombre, tipo)")
}

func TestSchemaQuantitiesKeepFullScale(t *testing.T) {
	for _, col := range []string{"cantidad ", "cantidad_por_empaque ", "stock_anterior ", "stock_nuevo "} {
		for _, line := range strings.Split(schemaSQL, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), col) {
				assert.NotContains(t, line, "NUMERIC(", col)
			}
		}
	}
	assert.Contains(t, schemaSQL, "ALTER COLUMN cantidad_por_empaque TYPE NUMERIC;")
}
