package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Almacen-api/pkg/jwt"
)

type harness struct {
	app   *fiber.App
	store *memory.Store
	now   time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store: memory.NewStore(),
		now:   time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
	}
	upc := 24
	h.store.PutProduct(&entity.Product{ID: "P1", Name: "Arroz", UnitMeasure: "kg", EstimatedPrice: decimal.NewFromInt(3000)})
	h.store.PutProduct(&entity.Product{ID: "BEB", Name: "Gaseosa", UnitMeasure: "unidad", UnitsPerCase: &upc})
	h.store.PutContainer(&entity.Container{ID: "C1", Name: "Bodega"})
	h.store.PutContainer(&entity.Container{ID: "C2", Name: "Cuarto frío"})

	opts := inventory.MovementOptions{
		LegacyLotFallback: true,
		Clock:             func() time.Time { return h.now },
		Logger:            zerolog.Nop(),
	}
	repos := h.store.Repos()
	h.app = fiber.New()
	apphttp.Router(h.app, apphttp.RouterDeps{
		Movements: inventory.NewMovementUseCase(h.store, repos, opts),
		Transfers: inventory.NewTransferUseCase(h.store, opts),
		Lots:      inventory.NewLotUseCase(h.store, repos, opts),
		Kardex:    inventory.NewKardexUseCase(repos, pdf.NewKardexPDFGenerator()),
		JWTSecret: testJWTSecret,
		Logger:    zerolog.Nop(),
	})
	return h
}

func (h *harness) do(t *testing.T, method, path, role string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (h *harness) entry(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	body["type"] = "entrada"
	if _, ok := body["reason"]; !ok {
		body["reason"] = "Compra"
	}
	status, out := h.do(t, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleBodeguero, body)
	require.Equal(t, http.StatusCreated, status, out)
	return out
}

func TestMovements_EntryThenExitKeepsSnapshots(t *testing.T) {
	h := newHarness(t)
	in := h.entry(t, map[string]any{
		"product_id": "P1", "container_id": "C1", "quantity": "100", "packages": 5, "expiry_date": "2025-01-01",
	})
	assert.Equal(t, "0", in["stock_anterior"])
	assert.Equal(t, "100", in["stock_nuevo"])
	lotID := in["lot_id"].(string)

	status, out := h.do(t, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleBodeguero, map[string]any{
		"product_id": "P1", "container_id": "C1", "type": "salida", "reason": "Retiro de contenedor",
		"quantity": "40", "lot_id": lotID,
	})
	require.Equal(t, http.StatusCreated, status, out)
	assert.Equal(t, "100", out["stock_anterior"])
	assert.Equal(t, "60", out["stock_nuevo"])

	status, lots := h.do(t, http.MethodGet, "/api/inventory/lots?product_id=P1&container_id=C1", pkgjwt.RoleConsulta, nil)
	require.Equal(t, http.StatusOK, status)
	items := lots["items"].([]any)
	require.Len(t, items, 1)
	lot := items[0].(map[string]any)
	assert.Equal(t, "60", lot["quantity"])
	assert.Equal(t, "20", lot["packaging_unit_size"])
	assert.Equal(t, float64(3), lot["packages"])
	assert.Equal(t, "2025-01-01", lot["expiry_date"])
}

func TestMovements_EditAndCancel(t *testing.T) {
	h := newHarness(t)
	in := h.entry(t, map[string]any{"product_id": "P1", "container_id": "C1", "quantity": "100"})
	lotID := in["lot_id"].(string)

	_, exit := h.do(t, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleAdmin, map[string]any{
		"product_id": "P1", "container_id": "C1", "type": "salida", "reason": "Retiro de contenedor",
		"quantity": "40", "lot_id": lotID,
	})
	id := exit["id"].(string)

	status, edited := h.do(t, http.MethodPut, "/api/inventory/movements/"+id, pkgjwt.RoleAdmin, map[string]any{"quantity": "20"})
	require.Equal(t, http.StatusOK, status, edited)
	assert.Equal(t, "20", edited["quantity"])
	assert.Equal(t, "100", edited["stock_anterior"])
	assert.Equal(t, "80", edited["stock_nuevo"])

	status, cancelled := h.do(t, http.MethodPost, "/api/inventory/movements/"+id+"/cancel", pkgjwt.RoleAdmin, map[string]any{"reason": "error de digitación"})
	require.Equal(t, http.StatusOK, status, cancelled)
	assert.Equal(t, true, cancelled["cancelled"])

	status, again := h.do(t, http.MethodPost, "/api/inventory/movements/"+id+"/cancel", pkgjwt.RoleAdmin, map[string]any{"reason": "otra vez"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_CANCELLED", again["code"])

	_, lots := h.do(t, http.MethodGet, "/api/inventory/lots?product_id=P1&container_id=C1", pkgjwt.RoleConsulta, nil)
	assert.Equal(t, "100", lots["items"].([]any)[0].(map[string]any)["quantity"])
}

func TestMovements_ErrorMapping(t *testing.T) {
	h := newHarness(t)
	h.entry(t, map[string]any{"product_id": "P1", "container_id": "C1", "quantity": "10", "expiry_date": "2025-02-01"})
	h.entry(t, map[string]any{"product_id": "P1", "container_id": "C1", "quantity": "10", "expiry_date": "2025-03-01"})

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"motivo de otra dirección", map[string]any{"product_id": "P1", "container_id": "C1", "type": "salida", "reason": "Compra", "quantity": "1"}, http.StatusBadRequest, "VALIDATION"},
		{"producto inexistente", map[string]any{"product_id": "X", "container_id": "C1", "type": "entrada", "reason": "Compra", "quantity": "1"}, http.StatusNotFound, "NOT_FOUND"},
		{"varios lotes sin selección", map[string]any{"product_id": "P1", "container_id": "C1", "type": "salida", "reason": "Retiro de contenedor", "quantity": "1"}, http.StatusConflict, "NO_LOT_SELECTED"},
		{"sin stock", map[string]any{"product_id": "P1", "container_id": "C2", "type": "salida", "reason": "Retiro de contenedor", "quantity": "1"}, http.StatusConflict, "INSUFFICIENT_STOCK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := h.do(t, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleBodeguero, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, out["code"])
		})
	}
}

func TestMovements_CancelAfterWindow(t *testing.T) {
	h := newHarness(t)
	in := h.entry(t, map[string]any{"product_id": "P1", "container_id": "C1", "quantity": "5"})

	h.now = h.now.Add(24*time.Hour + time.Minute)
	status, out := h.do(t, http.MethodPost, "/api/inventory/movements/"+in["id"].(string)+"/cancel", pkgjwt.RoleAdmin, map[string]any{"reason": "tarde"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "CANCELLATION_WINDOW_EXPIRED", out["code"])
}

func TestMovements_ReadOnlyRoleCannotWrite(t *testing.T) {
	h := newHarness(t)
	status, out := h.do(t, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleConsulta, map[string]any{
		"product_id": "P1", "container_id": "C1", "type": "entrada", "reason": "Compra", "quantity": "5",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", out["code"])
}

func TestMovements_GetAndList(t *testing.T) {
	h := newHarness(t)
	in := h.entry(t, map[string]any{"product_id": "P1", "container_id": "C1", "quantity": "5"})

	status, got := h.do(t, http.MethodGet, "/api/inventory/movements/"+in["id"].(string), pkgjwt.RoleConsulta, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, in["id"], got["id"])

	status, missing := h.do(t, http.MethodGet, "/api/inventory/movements/no-existe", pkgjwt.RoleConsulta, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", missing["code"])

	status, list := h.do(t, http.MethodGet, "/api/inventory/movements?product_id=P1&from=2025-01-10&to=2025-01-10", pkgjwt.RoleConsulta, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list["items"].([]any), 1)

	status, bad := h.do(t, http.MethodGet, "/api/inventory/movements?from=ayer", pkgjwt.RoleConsulta, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", bad["code"])
}

func TestTransfers_MovesStockBetweenContainers(t *testing.T) {
	h := newHarness(t)
	h.entry(t, map[string]any{"product_id": "BEB", "container_id": "C1", "packages": 10, "unit_price": "1500"})

	status, out := h.do(t, http.MethodPost, "/api/inventory/transfers", pkgjwt.RoleBodeguero, map[string]any{
		"product_id": "BEB", "from_container_id": "C1", "to_container_id": "C2", "packages": 2,
	})
	require.Equal(t, http.StatusCreated, status, out)
	exit := out["exit"].(map[string]any)
	entry := out["entry"].(map[string]any)
	assert.Equal(t, "48", exit["quantity"])
	assert.Equal(t, "192", exit["stock_nuevo"])
	assert.Equal(t, "48", entry["stock_nuevo"])
	assert.Equal(t, "Transferencia-entrada", entry["reason"])

	_, lots := h.do(t, http.MethodGet, "/api/inventory/lots?product_id=BEB&container_id=C2", pkgjwt.RoleConsulta, nil)
	lot := lots["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "24", lot["packaging_unit_size"])
	assert.Equal(t, float64(2), lot["packages"])
	assert.Equal(t, "1500", lot["unit_price"])
}

func TestLots_RemoveAndExpiring(t *testing.T) {
	h := newHarness(t)
	in := h.entry(t, map[string]any{"product_id": "P1", "container_id": "C1", "quantity": "7", "expiry_date": "2025-01-20"})
	h.entry(t, map[string]any{"product_id": "P1", "container_id": "C2", "quantity": "3", "expiry_date": "2025-06-01"})

	status, expiring := h.do(t, http.MethodGet, "/api/inventory/lots/expiring?days=30", pkgjwt.RoleConsulta, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), expiring["total"])

	status, removed := h.do(t, http.MethodDelete, "/api/inventory/lots/"+in["lot_id"].(string), pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, status, removed)
	assert.Equal(t, "salida", removed["type"])
	assert.Equal(t, "7", removed["quantity"])
	assert.Equal(t, "0", removed["stock_nuevo"])

	_, lots := h.do(t, http.MethodGet, "/api/inventory/lots?product_id=P1&container_id=C1", pkgjwt.RoleConsulta, nil)
	assert.Equal(t, float64(0), lots["total"])
}

func TestKardex_RunningBalanceAndPDF(t *testing.T) {
	h := newHarness(t)
	in := h.entry(t, map[string]any{"product_id": "P1", "container_id": "C1", "quantity": "100"})
	h.now = h.now.Add(time.Hour)
	status, _ := h.do(t, http.MethodPost, "/api/inventory/movements", pkgjwt.RoleBodeguero, map[string]any{
		"product_id": "P1", "container_id": "C1", "type": "salida", "reason": "Retiro de contenedor",
		"quantity": "30", "lot_id": in["lot_id"],
	})
	require.Equal(t, http.StatusCreated, status)

	status, k := h.do(t, http.MethodGet, "/api/inventory/kardex?product_id=P1", pkgjwt.RoleConsulta, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "70", k["saldo"])
	entries := k["entries"].([]any)
	require.Len(t, entries, 2)
	assert.Equal(t, "100", entries[0].(map[string]any)["saldo"])

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/kardex/pdf?product_id=P1&container_id=C1", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleConsulta))
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	status, missing := h.do(t, http.MethodGet, "/api/inventory/kardex?product_id=NOPE", pkgjwt.RoleConsulta, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", missing["code"])
}
