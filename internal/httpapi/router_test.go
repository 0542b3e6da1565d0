package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nikolayk812/cartsim/internal/app"
	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/httpapi"
	"github.com/nikolayk812/cartsim/internal/pricing"
	"github.com/nikolayk812/cartsim/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

var ars = currency.MustParseISO("ARS")

type staticSource []domain.Product

func (s staticSource) LoadProducts(context.Context) ([]domain.Product, error) {
	return append([]domain.Product(nil), s...), nil
}

type fixture struct {
	handler http.Handler
	mate    domain.Product
	yerba   domain.Product
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	f := fixture{
		mate:  product(3000, 10),
		yerba: product(2500, 3),
	}

	sim := app.New(t.Context(), app.Options{
		CartKey: "pp_cart",
		Catalog: staticSource{f.mate, f.yerba},
		Carts:   repository.NewMemoryCart(),
		Rules:   pricing.DefaultRules(ars),
		Locale:  language.MustParse("es-AR"),
	})

	f.handler = httpapi.NewRouter(sim, httpapi.Config{RequestTimeout: 5 * time.Second}, zap.NewNop())
	return f
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	f.handler.ServeHTTP(recorder, request)

	return recorder
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestListProducts(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(t, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	products := decode[[]app.ProductView](t, recorder)
	require.Len(t, products, 2)
	assert.Equal(t, f.mate.ID, products[0].ID)
	assert.Equal(t, "3000", products[0].Price.Value)

	recorder = f.do(t, http.MethodPost, "/api/v1/catalog/reload", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name       string
		body       func(f fixture) string
		wantStatus int
		wantCode   string
		wantLines  int
	}{
		{
			name:       "add with quantity: ok",
			body:       func(f fixture) string { return `{"product_id":"` + f.mate.ID.String() + `","quantity":2}` },
			wantStatus: http.StatusOK,
			wantLines:  1,
		},
		{
			name:       "quantity defaults to one: ok",
			body:       func(f fixture) string { return `{"product_id":"` + f.mate.ID.String() + `"}` },
			wantStatus: http.StatusOK,
			wantLines:  1,
		},
		{
			name:       "unknown product: cart unchanged",
			body:       func(f fixture) string { return `{"product_id":"` + uuid.NewString() + `","quantity":1}` },
			wantStatus: http.StatusOK,
			wantLines:  0,
		},
		{
			name:       "bad product id: error",
			body:       func(f fixture) string { return `{"product_id":"abc","quantity":1}` },
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_product_id",
		},
		{
			name:       "zero quantity: error",
			body:       func(f fixture) string { return `{"product_id":"` + f.mate.ID.String() + `","quantity":0}` },
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_quantity",
		},
		{
			name:       "malformed json: error",
			body:       func(f fixture) string { return `{"product_id":` },
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "unknown field: error",
			body:       func(f fixture) string { return `{"sku":"x"}` },
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			recorder := f.do(t, http.MethodPost, "/api/v1/cart/items", tt.body(f))
			require.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode[httpapi.ErrorResponse](t, recorder).Code)
				return
			}

			view := decode[app.View](t, recorder)
			assert.Len(t, view.Lines, tt.wantLines)
		})
	}
}

func TestCartLifecycle(t *testing.T) {
	f := newFixture(t)
	itemPath := "/api/v1/cart/items/" + f.yerba.ID.String()

	recorder := f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":"`+f.yerba.ID.String()+`","quantity":9}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 3, decode[app.View](t, recorder).Lines[0].Quantity)

	recorder = f.do(t, http.MethodPut, itemPath, `{"quantity":2}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	view := decode[app.View](t, recorder)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, "5000", view.Subtotal.Value)
	assert.Equal(t, "500", view.Shipping.Value)

	recorder = f.do(t, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "5500", decode[app.View](t, recorder).Total.Value)

	recorder = f.do(t, http.MethodDelete, itemPath, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, decode[app.View](t, recorder).Lines)

	f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":"`+f.mate.ID.String()+`"}`)
	recorder = f.do(t, http.MethodDelete, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, decode[app.View](t, recorder).Lines)
}

func TestUpdateQuantity_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode string
	}{
		{name: "bad product id", path: "/api/v1/cart/items/nope", body: `{"quantity":1}`, wantCode: "invalid_product_id"},
		{name: "missing quantity", path: "/api/v1/cart/items/" + uuid.NewString(), body: `{}`, wantCode: "invalid_quantity"},
		{name: "negative quantity", path: "/api/v1/cart/items/" + uuid.NewString(), body: `{"quantity":-1}`, wantCode: "invalid_quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			recorder := f.do(t, http.MethodPut, tt.path, tt.body)

			require.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, tt.wantCode, decode[httpapi.ErrorResponse](t, recorder).Code)
		})
	}
}

func TestCheckout(t *testing.T) {
	sampleBuyer, err := json.Marshal(app.SampleBuyer())
	require.NoError(t, err)

	t.Run("success: 201 and cart cleared", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":"`+f.mate.ID.String()+`","quantity":2}`)

		recorder := f.do(t, http.MethodPost, "/api/v1/checkout", string(sampleBuyer))
		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

		order := decode[app.OrderView](t, recorder)
		assert.True(t, strings.HasPrefix(order.ID, "PP-"))
		assert.Equal(t, "6500", order.Total.Value)
		assert.Equal(t, "Martin Perez Romero", order.Buyer.Name)

		recorder = f.do(t, http.MethodGet, "/api/v1/cart", "")
		assert.Empty(t, decode[app.View](t, recorder).Lines)
	})

	t.Run("empty cart: 409", func(t *testing.T) {
		f := newFixture(t)

		recorder := f.do(t, http.MethodPost, "/api/v1/checkout", string(sampleBuyer))

		require.Equal(t, http.StatusConflict, recorder.Code)
		assert.Equal(t, "cart_empty", decode[httpapi.ErrorResponse](t, recorder).Code)
	})

	t.Run("missing fields: 422 with field names", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":"`+f.mate.ID.String()+`"}`)

		recorder := f.do(t, http.MethodPost, "/api/v1/checkout", `{"name":"Ana","email":"","dni":"1","address":" ","payment":"card"}`)

		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		resp := decode[httpapi.ErrorResponse](t, recorder)
		assert.Equal(t, "validation_failed", resp.Code)
		assert.Equal(t, []string{"email", "address"}, resp.Fields)
	})

	t.Run("sample buyer", func(t *testing.T) {
		f := newFixture(t)

		recorder := f.do(t, http.MethodGet, "/api/v1/checkout/sample-buyer", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, string(sampleBuyer), recorder.Body.String())
	})

	t.Run("demo purchase without body", func(t *testing.T) {
		f := newFixture(t)

		recorder := f.do(t, http.MethodPost, "/api/v1/checkout/demo", "")

		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
		order := decode[app.OrderView](t, recorder)
		assert.Equal(t, "3500", order.Total.Value)
		assert.Equal(t, []domain.CartLine{{ProductID: f.mate.ID, Quantity: 1}}, order.Lines)
	})
}

func TestCartStream(t *testing.T) {
	f := newFixture(t)

	server := httptest.NewServer(f.handler)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/cart/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var initial app.View
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Empty(t, initial.Lines)

	body := `{"product_id":"` + f.mate.ID.String() + `","quantity":2}`
	postResp, err := http.Post(server.URL+"/api/v1/cart/items", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	require.NoError(t, postResp.Body.Close())

	var updated app.View
	require.NoError(t, conn.ReadJSON(&updated))
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, 2, updated.Lines[0].Quantity)
}

func product(price int64, stock int) domain.Product {
	return domain.Product{
		ID:          uuid.MustParse(gofakeit.UUID()),
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Price:       domain.NewMoney(decimal.NewFromInt(price), ars),
		Stock:       stock,
	}
}
