package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/estoque-api/internal/interfaces/http"
)

const adminPassword = "senha-inicial"

type apiEnv struct {
	app   *fiber.App
	store *memory.Store
	token string
}

// newAPI arma la API completa sobre el store en memoria y hace login como admin.
func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	store := memory.NewStore()
	authUC := auth.NewAuthUseCase(store.Users(), store.Audit(),
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, zerolog.Nop())
	created, err := authUC.EnsureInitialUser(context.Background(), adminPassword)
	require.NoError(t, err)
	require.True(t, created)

	app := fiber.New()
	app.Use(apphttp.RequestLogger())
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		ProductUC: usecase.NewProductUseCase(store.Products(), store.Audit(), zerolog.Nop()),
		StockUC: inventory.NewStockControlUseCase(memory.NewTxRunner(store), store.Positions(), store.Movements(),
			nil, nil, zerolog.Nop()),
		AuditUC:   usecase.NewAuditUseCase(store.Audit()),
		JWTSecret: testJWTSecret,
	})

	env := &apiEnv{app: app, store: store}
	resp := env.do(t, http.MethodPost, "/api/auth/login", `{"login":"admin","password":"`+adminPassword+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	require.NotEmpty(t, out.Token)
	env.token = out.Token
	return env
}

func (e *apiEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func (e *apiEnv) createProduct(t *testing.T, description string) int64 {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/products", `{"description":"`+description+`","output_unit":"kg"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p dto.ProductResponse
	decode(t, resp, &p)
	assert.Equal(t, "KG", p.OutputUnit)
	return p.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_PasswordIncorrecto_Retorna401(t *testing.T) {
	env := newAPI(t)
	env.token = ""
	resp := env.do(t, http.MethodPost, "/api/auth/login", `{"login":"admin","password":"errada"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "Usuário ou senha inválidos", body.Message)
}

func TestRutasProtegidas_SinToken_Retorna401(t *testing.T) {
	env := newAPI(t)
	env.token = ""
	resp := env.do(t, http.MethodGet, "/api/stock", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_FlujoCompleto(t *testing.T) {
	env := newAPI(t)
	id := env.createProduct(t, "Arroz")

	resp := env.do(t, http.MethodPost, "/api/stock", `{"product_id":1,"quantity":"100","unit_price":"1.50"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var pos dto.StockPositionResponse
	decode(t, resp, &pos)
	assert.Equal(t, id, pos.ProductID)
	assert.Equal(t, "100", pos.Quantity.String())

	resp = env.do(t, http.MethodPost, "/api/stock/movements",
		`{"product_id":1,"document":"NF-10","quantity":"-30","unit_price":"2","freight_price":"1.25"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var mov dto.StockMovementResponse
	decode(t, resp, &mov)
	assert.Equal(t, "NF-10", mov.Document)
	assert.Equal(t, "1.25", mov.FreightPrice.String())

	resp = env.do(t, http.MethodGet, "/api/stock/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &pos)
	assert.Equal(t, "70", pos.Quantity.String())
	assert.Equal(t, "2", pos.UnitPrice.String())

	resp = env.do(t, http.MethodGet, "/api/stock", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var views []dto.PositionViewResponse
	decode(t, resp, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "Arroz", views[0].Description)

	resp = env.do(t, http.MethodGet, "/api/stock/movements/out", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var movs []dto.StockMovementResponse
	decode(t, resp, &movs)
	assert.Len(t, movs, 1)

	resp = env.do(t, http.MethodGet, "/api/stock/movements/in", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &movs)
	assert.Empty(t, movs)

	resp = env.do(t, http.MethodGet, "/api/audit?limit=10", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var audit []dto.AuditEntryResponse
	decode(t, resp, &audit)
	require.NotEmpty(t, audit)
	assert.Equal(t, "admin", audit[0].Actor)
}

func TestStock_PosicionInexistente_Retorna404(t *testing.T) {
	env := newAPI(t)
	env.createProduct(t, "Arroz")

	resp := env.do(t, http.MethodGet, "/api/stock/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "Produto não encontrado", body.Message)

	resp = env.do(t, http.MethodGet, "/api/stock/99", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestStock_SalidaMayorQueStock_Retorna422(t *testing.T) {
	env := newAPI(t)
	env.createProduct(t, "Arroz")
	resp := env.do(t, http.MethodPost, "/api/stock", `{"product_id":1,"quantity":"5","unit_price":"1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/stock/movements", `{"product_id":1,"quantity":"-6","unit_price":"1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "SEMANTIC_ERROR", body.Code)
	assert.NotEmpty(t, body.Message)
}

func TestStock_InicioDuplicado_Retorna422(t *testing.T) {
	env := newAPI(t)
	env.createProduct(t, "Arroz")
	for i, want := range []int{http.StatusCreated, http.StatusUnprocessableEntity} {
		resp := env.do(t, http.MethodPost, "/api/stock", `{"product_id":1,"quantity":"1","unit_price":"1"}`)
		assert.Equal(t, want, resp.StatusCode, "intento %d", i)
		resp.Body.Close()
	}
}

func TestStock_ProductoInexistente_Retorna404(t *testing.T) {
	env := newAPI(t)
	resp := env.do(t, http.MethodPost, "/api/stock", `{"product_id":99,"quantity":"1","unit_price":"1"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestStock_BodyInvalido_Retorna400(t *testing.T) {
	env := newAPI(t)
	cases := map[string]struct {
		body string
		code string
	}{
		"json roto":          {body: `{"product_id":`, code: "INVALID_BODY"},
		"product_id ausente": {body: `{"quantity":"1","unit_price":"1"}`, code: "VALIDATION"},
		"product_id cero":    {body: `{"product_id":0,"quantity":"1","unit_price":"1"}`, code: "VALIDATION"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/stock", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body dto.ErrorResponse
			decode(t, resp, &body)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestStock_ValidacionReportaCampoJSON(t *testing.T) {
	env := newAPI(t)
	resp := env.do(t, http.MethodPost, "/api/stock/movements", `{"quantity":"1","unit_price":"1"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ValidationErrorResponse
	decode(t, resp, &body)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "product_id", body.Fields[0].Field)
	assert.Equal(t, "required", body.Fields[0].Tag)
}

func TestStock_DireccionInvalidaEnQuery_Retorna400(t *testing.T) {
	env := newAPI(t)
	resp := env.do(t, http.MethodGet, "/api/stock/movements?direction=lado", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestStock_ParametroNoNumerico_Retorna400(t *testing.T) {
	env := newAPI(t)
	resp := env.do(t, http.MethodGet, "/api/stock/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRequestLogger_PropagaRequestID(t *testing.T) {
	env := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))

	resp = env.do(t, http.MethodGet, "/api/products", "")
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestProducts_GetByID(t *testing.T) {
	env := newAPI(t)
	id := env.createProduct(t, "Feijão")

	resp := env.do(t, http.MethodGet, "/api/products/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p dto.ProductResponse
	decode(t, resp, &p)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "Feijão", p.Description)

	resp = env.do(t, http.MethodGet, "/api/products/2", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
