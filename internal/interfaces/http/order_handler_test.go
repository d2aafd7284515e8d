package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowtrellis/farmstand-api/internal/application/dto"
	"github.com/willowtrellis/farmstand-api/internal/application/order"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
	apphttp "github.com/willowtrellis/farmstand-api/internal/interfaces/http"
	"github.com/willowtrellis/farmstand-api/pkg/logger"
)

// emptyOrders has no orders and counts lookups.
type emptyOrders struct {
	repository.OrderRepository
	lookups atomic.Int32
}

func (e *emptyOrders) GetByID(context.Context, string) (*entity.Order, error) {
	e.lookups.Add(1)
	return nil, nil
}

type noTx struct{}

func (noTx) Run(context.Context, func(repository.ProductRepository, repository.OrderRepository) error) error {
	return nil
}

type silentNotifier struct{}

func (silentNotifier) OrderPlaced(*entity.Order) {}
func (silentNotifier) OrderReady(*entity.Order)  {}

type noReceipts struct{}

func (noReceipts) Generate(*entity.Order) ([]byte, error) { return nil, nil }

func newOrderApp(t *testing.T, orders *emptyOrders) *fiber.App {
	t.Helper()
	uc := order.NewUseCase(noTx{}, orders, silentNotifier{}, noReceipts{}, logger.Nop())
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{OrderUC: uc, JWTSecret: testJWTSecret})
	return app
}

func TestOrders_MalformedIDIsNotFound(t *testing.T) {
	orders := &emptyOrders{}
	app := newOrderApp(t, orders)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		role   string
	}{
		{"get", http.MethodGet, "/api/orders/abc", "", "CUSTOMER"},
		{"receipt", http.MethodGet, "/api/orders/abc/receipt", "", "CUSTOMER"},
		{"patch", http.MethodPatch, "/api/orders/abc", `{"status":"CONFIRMED"}`, "ADMIN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", tokenForRole(t, tc.role))
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusNotFound, resp.StatusCode)

			var e dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.Equal(t, "NOT_FOUND", e.Code)
		})
	}
	assert.Zero(t, orders.lookups.Load(), "malformed ids never reach the database")
}

func TestOrders_UnknownIDIsNotFound(t *testing.T) {
	orders := &emptyOrders{}
	app := newOrderApp(t, orders)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/33333333-3333-4333-8333-333333333333", nil)
	req.Header.Set("Authorization", tokenForRole(t, "CUSTOMER"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.EqualValues(t, 1, orders.lookups.Load())
}
