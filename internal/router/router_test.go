package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innoventory-ws/internal/model"
	"innoventory-ws/internal/repository"
	"innoventory-ws/internal/service"
	"innoventory-ws/internal/testdb"
	"innoventory-ws/internal/ws"
	"innoventory-ws/pkg/jwt"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testdb.Open(t)
	ctx := context.Background()
	hub := ws.NewHub()

	privRepo := repository.NewPrivilegeRepo(db)
	require.NoError(t, privRepo.SeedDefaults(ctx))
	all, err := privRepo.FindAll(ctx)
	require.NoError(t, err)

	users := repository.NewUserRepo(db)
	admin := &model.User{Email: "admin@example.com", FullName: "Admin", IsActive: true, Privileges: all}
	require.NoError(t, admin.SetPassword("admin123"))
	require.NoError(t, users.Create(ctx, admin))

	var viewOnly []model.Privilege
	for _, p := range all {
		if p.Code == model.PrivProductView {
			viewOnly = append(viewOnly, p)
		}
	}
	viewer := &model.User{Email: "viewer@example.com", FullName: "Viewer", IsActive: true, Privileges: viewOnly}
	require.NoError(t, viewer.SetPassword("viewer123"))
	require.NoError(t, users.Create(ctx, viewer))

	var settingsOnly []model.Privilege
	for _, p := range all {
		if p.Code == model.PrivSettingsUpdate {
			settingsOnly = append(settingsOnly, p)
		}
	}
	tuner := &model.User{Email: "tuner@example.com", FullName: "Tuner", IsActive: true, Privileges: settingsOnly}
	require.NoError(t, tuner.SetPassword("tuner123"))
	require.NoError(t, users.Create(ctx, tuner))

	products := repository.NewProductRepo(db)
	txs := repository.NewTransactionRepo(db)
	cats := repository.NewCategoryRepo(db)
	sups := repository.NewSupplierRepo(db)
	tokens := jwt.NewManager("router-test", time.Hour)
	settings := service.NewSettingsService(repository.NewSettingsRepo(db), nil, hub)

	app := fiber.New()
	Setup(app, Deps{
		Auth:      service.NewAuthService(users, tokens),
		Inventory: service.NewInventoryService(products, cats, sups, settings, db, hub),
		Ledger:    service.NewLedgerService(products, txs, db, hub),
		Settings:  settings,
		Reference: service.NewReferenceService(cats, sups, products, db),
		Dashboard: service.NewDashboardService(txs, settings),
		Tokens:    tokens,
		Users:     users,
		Hub:       hub,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status)
	return body["token"].(string)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app := newApp(t)

	status, _ := call(t, app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = call(t, app, http.MethodGet, "/api/v1/products", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPrivilegeChecks(t *testing.T) {
	app := newApp(t)
	token := login(t, app, "viewer@example.com", "viewer123")

	status, _ := call(t, app, http.MethodGet, "/api/v1/products", token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, http.MethodPost, "/api/v1/transactions", token, map[string]interface{}{})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, app, http.MethodPut, "/api/v1/settings", token, map[string]interface{}{})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestReadRoutesAcceptAnyListedPrivilege(t *testing.T) {
	app := newApp(t)
	viewer := login(t, app, "viewer@example.com", "viewer123")
	tuner := login(t, app, "tuner@example.com", "tuner123")

	status, _ := call(t, app, http.MethodGet, "/api/v1/settings", viewer, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, http.MethodGet, "/api/v1/settings", tuner, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, http.MethodGet, "/api/v1/categories", viewer, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, http.MethodGet, "/api/v1/categories", tuner, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, app, http.MethodGet, "/api/v1/products", tuner, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestStockFlow(t *testing.T) {
	app := newApp(t)
	token := login(t, app, "admin@example.com", "admin123")

	status, body := call(t, app, http.MethodPost, "/api/v1/categories", token, map[string]string{"name": "Tools"})
	require.Equal(t, http.StatusCreated, status)
	categoryID := body["data"].(map[string]interface{})["id"]

	status, _ = call(t, app, http.MethodPut, "/api/v1/settings", token, map[string]int{"low_percentage": 20, "medium_percentage": 50})
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name": "Hammer", "category_id": categoryID, "price": 12.5, "stock_quantity": 10,
	})
	require.Equal(t, http.StatusCreated, status)
	productID := body["data"].(map[string]interface{})["id"].(string)

	status, _ = call(t, app, http.MethodPost, "/api/v1/transactions", token, map[string]interface{}{
		"product_id": productID, "type": "OUT", "quantity": 9,
	})
	require.Equal(t, http.StatusCreated, status)

	status, body = call(t, app, http.MethodGet, "/api/v1/products/"+productID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["stock_quantity"])
	assert.Equal(t, "low", body["status"])
	assert.Equal(t, "danger", body["display_category"])

	status, body = call(t, app, http.MethodGet, "/api/v1/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["low_stock_count"])

	status, _ = call(t, app, http.MethodDelete, "/api/v1/categories/"+categoryID.(string), token, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestWebsocketRequiresUpgrade(t *testing.T) {
	app := newApp(t)

	status, _ := call(t, app, http.MethodGet, "/ws", "", nil)
	assert.Equal(t, http.StatusUpgradeRequired, status)
}
