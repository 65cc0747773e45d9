package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogapp "github.com/bizdesk/backend/internal/application/catalog"
	exportapp "github.com/bizdesk/backend/internal/application/export"
	financeapp "github.com/bizdesk/backend/internal/application/finance"
	identityapp "github.com/bizdesk/backend/internal/application/identity"
	partnerapp "github.com/bizdesk/backend/internal/application/partner"
	reportapp "github.com/bizdesk/backend/internal/application/report"
	tradeapp "github.com/bizdesk/backend/internal/application/trade"
	"github.com/bizdesk/backend/internal/infrastructure/auth"
	"github.com/bizdesk/backend/internal/infrastructure/config"
	"github.com/bizdesk/backend/internal/infrastructure/mail"
	"github.com/bizdesk/backend/internal/infrastructure/persistence"
	"github.com/bizdesk/backend/internal/interfaces/http/dto"
	"github.com/bizdesk/backend/internal/interfaces/http/handler"
	"github.com/bizdesk/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
	db     *persistence.Database
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithAuth(t, identityapp.AuthServiceConfig{AutoVerifyEmail: true})
}

func newTestAPIWithAuth(t *testing.T, authCfg identityapp.AuthServiceConfig) *testAPI {
	t.Helper()

	db := testutil.NewSQLiteDatabase(t)
	log := zap.NewNop()
	cfg := &config.Config{
		App: config.AppConfig{Name: "bizdesk-test", Env: "test", FrontendURL: "http://localhost:3000"},
		JWT: config.JWTConfig{
			Secret:     "router-test-secret-that-is-long-enough",
			Expiration: time.Hour,
			Issuer:     "bizdesk",
		},
		Auth: config.AuthConfig{
			RequireEmailVerification: authCfg.RequireEmailVerification,
			AutoVerifyEmail:          authCfg.AutoVerifyEmail,
		},
		HTTP: config.HTTPConfig{MaxBodySize: 1 << 20},
	}

	mailer, err := mail.New(config.MailConfig{}, log)
	require.NoError(t, err)

	userRepo := persistence.NewGormUserRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	bankOpRepo := persistence.NewGormBankOperationRepository(db.DB)
	accountRepo := persistence.NewGormChartOfAccountRepository(db.DB)
	settlementRepo := persistence.NewGormDocSettlementRepository(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewInMemoryTokenBlacklist()
	statsService := reportapp.NewStatsService(persistence.NewGormStatsRepository(db.DB), db)

	base := handler.NewBaseHandler(log, true)
	h := Handlers{
		System: handler.NewSystemHandler(base, statsService, "test"),
		Auth: handler.NewAuthHandler(base, identityapp.NewAuthService(userRepo, jwtService, blacklist, mailer,
			mail.NewTemplates(cfg.App.FrontendURL), authCfg, log)),
		Clients:        handler.NewClientHandler(base, partnerapp.NewClientService(clientRepo)),
		Products:       handler.NewProductHandler(base, catalogapp.NewProductService(productRepo)),
		Sales:          handler.NewSaleHandler(base, tradeapp.NewSaleService(saleRepo, clientRepo, warehouseRepo)),
		Purchases:      handler.NewPurchaseHandler(base, tradeapp.NewPurchaseService(purchaseRepo, clientRepo, warehouseRepo)),
		Warehouses:     handler.NewWarehouseHandler(base, partnerapp.NewWarehouseService(warehouseRepo, clientRepo, productRepo, userRepo)),
		BankOperations: handler.NewBankOperationHandler(base, financeapp.NewBankOperationService(bankOpRepo, accountRepo, clientRepo)),
		Accounts:       handler.NewAccountHandler(base, financeapp.NewAccountService(accountRepo)),
		Settlements:    handler.NewSettlementHandler(base, financeapp.NewSettlementService(settlementRepo, clientRepo)),
		Stats:          handler.NewStatsHandler(base, statsService),
		Exports: handler.NewExportHandler(base, exportapp.NewService(exportapp.Repositories{
			Clients:        clientRepo,
			Products:       productRepo,
			Sales:          saleRepo,
			Purchases:      purchaseRepo,
			BankOperations: bankOpRepo,
			Settlements:    settlementRepo,
		}, nil, 0, log)),
	}

	engine := NewEngine(Dependencies{
		Config:         cfg,
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
	}, h)
	return &testAPI{t: t, engine: engine, db: db}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	return testutil.Do(a.t, a.engine, method, path, token, body)
}

func (a *testAPI) register(email string) string {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"username": "tester",
		"password": "secret123",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeSession(a.t, w.Body.Bytes()).Token
}

// decodeSession reads a register or login body, where token and user are
// top-level members
func decodeSession(t *testing.T, body []byte) identityapp.AuthResult {
	t.Helper()

	var resp handler.SessionResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.True(t, resp.Success, string(body))
	require.NotEmpty(t, resp.Token, string(body))
	return resp.AuthResult
}

func (a *testAPI) createClient(token, name string) partnerapp.ClientResponse {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/clients", token, map[string]any{"name": name, "type": "company"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.EnvelopeData[partnerapp.ClientResponse](a.t, w.Body.Bytes())
}

func TestNewEngine_Health(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/health", "/api/health"} {
		t.Run(path, func(t *testing.T) {
			w := api.do(http.MethodGet, path, "", nil)
			require.Equal(t, http.StatusOK, w.Code)

			var resp handler.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, handler.StatusHealthy, resp.Status)
			require.NotNil(t, resp.Database)
			assert.True(t, resp.Database.Connected)
		})
	}
}

func TestNewEngine_SecurityHeadersAndRequestID(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/system/info", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestNewEngine_ProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	paths := []string{
		"/api/clients",
		"/api/products",
		"/api/sales",
		"/api/purchases",
		"/api/warehouses",
		"/api/bank-operations",
		"/api/chart-of-accounts",
		"/api/doc-settlements",
		"/api/stats/database-stats",
		"/api/exports/clients",
		"/api/auth/me",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := api.do(http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, dto.ErrCodeUnauthorized, testutil.EnvelopeErrorCode(t, w.Body.Bytes()))
		})
	}
}

func TestNewEngine_AuthFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.register("Owner@Example.com")

	t.Run("register puts token and user at the top level", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "a@b.com", "password": "secret123", "username": "a",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body["token"])
		assert.NotContains(t, body, "data")
		user, ok := body["user"].(map[string]any)
		require.True(t, ok, w.Body.String())
		assert.Equal(t, "a@b.com", user["email"])
		assert.Equal(t, "USER", user["role"])
	})

	t.Run("login returns the same session shape", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "OWNER@example.com", "password": "secret123",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		session := decodeSession(t, w.Body.Bytes())
		assert.Equal(t, "owner@example.com", session.User.Email)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "owner@example.com", "username": "again", "password": "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeEmailRegistered, testutil.EnvelopeErrorCode(t, w.Body.Bytes()))
	})

	t.Run("login with wrong password", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "owner@example.com", "password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidCredentials, testutil.EnvelopeErrorCode(t, w.Body.Bytes()))
	})

	t.Run("me returns the normalized account", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		me := testutil.EnvelopeData[identityapp.UserInfo](t, w.Body.Bytes())
		assert.Equal(t, "owner@example.com", me.Email)
		assert.True(t, me.EmailVerified)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "owner@example.com", "password": "secret123",
		})
		require.Equal(t, http.StatusOK, w.Code)
		session := decodeSession(t, w.Body.Bytes()).Token

		w = api.do(http.MethodPost, "/api/auth/logout", session, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = api.do(http.MethodGet, "/api/auth/me", session, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, testutil.EnvelopeErrorCode(t, w.Body.Bytes()))
	})

	t.Run("register validates the body", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, testutil.EnvelopeErrorCode(t, w.Body.Bytes()))
	})
}

func TestNewEngine_PasswordResetIsSingleUse(t *testing.T) {
	api := newTestAPI(t)
	api.register("reset@example.com")

	w := api.do(http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "reset@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	user, err := persistence.NewGormUserRepository(api.db.DB).FindByEmail(context.Background(), "reset@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.ResetToken)
	resetToken := *user.ResetToken

	reset := map[string]string{"token": resetToken, "password": "brandnew1"}
	w = api.do(http.MethodPost, "/api/auth/reset-password", "", reset)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/api/auth/reset-password", "", reset)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidResetToken, testutil.EnvelopeErrorCode(t, w.Body.Bytes()))

	w = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "reset@example.com", "password": "brandnew1",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/api/auth/reset-password", "", map[string]string{"token": "unknown", "password": "brandnew2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidResetToken, testutil.EnvelopeErrorCode(t, w.Body.Bytes()))
}

func TestNewEngine_UnverifiedLoginIsForbidden(t *testing.T) {
	api := newTestAPIWithAuth(t, identityapp.AuthServiceConfig{RequireEmailVerification: true})
	api.register("pending@example.com")

	w := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "pending@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeEmailNotVerified, testutil.EnvelopeErrorCode(t, w.Body.Bytes()))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotContains(t, body, "token")
	assert.NotContains(t, body, "data")
}

func TestNewEngine_OwnerIsolation(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("alice@example.com")
	bob := api.register("bob@example.com")

	client := api.createClient(alice, "Acme")
	path := fmt.Sprintf("/api/clients/%s", client.ID)

	t.Run("owner reads the client", func(t *testing.T) {
		w := api.do(http.MethodGet, path, alice, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other owner gets not found", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			w := api.do(method, path, bob, nil)
			assert.Equal(t, http.StatusNotFound, w.Code, method)
			assert.Equal(t, dto.ErrCodeNotFound, testutil.EnvelopeErrorCode(t, w.Body.Bytes()))
		}
		w := api.do(http.MethodPut, path, bob, map[string]string{"name": "Stolen"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("lists are owner scoped", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/clients", bob, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, testutil.EnvelopeData[[]partnerapp.ClientResponse](t, w.Body.Bytes()))

		w = api.do(http.MethodGet, "/api/clients", alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, testutil.EnvelopeData[[]partnerapp.ClientResponse](t, w.Body.Bytes()), 1)
	})

	t.Run("foreign client cannot be referenced", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/sales", bob, map[string]any{
			"doc_number": "S-1",
			"doc_date":   "2024-03-01",
			"client_id":  client.ID,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("foreign account cannot be a responsible person", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/auth/me", alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
		aliceID := testutil.EnvelopeData[identityapp.UserInfo](t, w.Body.Bytes()).ID

		w = api.do(http.MethodPost, "/api/warehouses", bob, map[string]any{
			"name":                  "Depot",
			"responsible_person_id": aliceID,
		})
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
		assert.Equal(t, dto.ErrCodeNotFound, testutil.EnvelopeErrorCode(t, w.Body.Bytes()))

		w = api.do(http.MethodPost, "/api/warehouses", bob, map[string]any{"name": "Depot"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		depot := testutil.EnvelopeData[partnerapp.WarehouseResponse](t, w.Body.Bytes())

		w = api.do(http.MethodPut, fmt.Sprintf("/api/warehouses/%s", depot.ID), bob, map[string]any{
			"responsible_person_id": aliceID.String(),
		})
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

		w = api.do(http.MethodGet, "/api/stats/warehouse-detailed", bob, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "alice@example.com")
	})
}

func TestNewEngine_RequestValidation(t *testing.T) {
	api := newTestAPI(t)
	token := api.register("owner@example.com")

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		wantCode string
	}{
		{"missing required field", http.MethodPost, "/api/clients", map[string]any{}, dto.ErrCodeValidation},
		{"bad enum value", http.MethodPost, "/api/clients", map[string]any{"name": "A", "type": "robot"}, dto.ErrCodeValidation},
		{"malformed id", http.MethodGet, "/api/clients/not-a-uuid", nil, dto.ErrCodeInvalidInput},
		{"bad date filter", http.MethodGet, "/api/sales?start_date=yesterday", nil, dto.ErrCodeValidation},
		{"bad uuid filter", http.MethodGet, "/api/sales?client_id=nope", nil, dto.ErrCodeValidation},
		{"bad page size", http.MethodGet, "/api/products?page_size=1000", nil, dto.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(tt.method, tt.path, token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, testutil.EnvelopeErrorCode(t, w.Body.Bytes()))
		})
	}
}

func TestNewEngine_SaleStatusTransitions(t *testing.T) {
	api := newTestAPI(t)
	token := api.register("owner@example.com")
	client := api.createClient(token, "Acme")

	w := api.do(http.MethodPost, "/api/sales", token, map[string]any{
		"doc_number":   "S-100",
		"doc_date":     "2024-03-01",
		"client_id":    client.ID,
		"total_amount": "150.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := testutil.EnvelopeData[tradeapp.SaleResponse](t, w.Body.Bytes())
	assert.Equal(t, "draft", sale.Status)

	statusPath := fmt.Sprintf("/api/sales/%s/status", sale.ID)
	w = api.do(http.MethodPatch, statusPath, token, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPatch, statusPath, token, map[string]string{"status": "draft"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidTransition, testutil.EnvelopeErrorCode(t, w.Body.Bytes()))

	w = api.do(http.MethodGet, "/api/sales?status=completed&start_date=2024-03-01&end_date=2024-03-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.EnvelopeData[[]tradeapp.SaleResponse](t, w.Body.Bytes()), 1)

	w = api.do(http.MethodGet, "/api/stats/sales-stats", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewEngine_Stats(t *testing.T) {
	api := newTestAPI(t)
	token := api.register("owner@example.com")
	api.createClient(token, "Acme")

	paths := []string{
		"/api/stats/database-stats",
		"/api/stats/sales-stats",
		"/api/stats/purchase-stats",
		"/api/stats/bank-stats",
		"/api/stats/warehouse-stats",
		"/api/stats/top-clients",
		"/api/stats/financial-summary",
		"/api/stats/documents-summary",
		"/api/stats/warehouse-detailed",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := api.do(http.MethodGet, path, token, nil)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		})
	}

	t.Run("global scope requires admin", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/stats/database-stats?scope=all", token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, dto.ErrCodeForbidden, testutil.EnvelopeErrorCode(t, w.Body.Bytes()))
	})

	t.Run("own counts include the client", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/stats/database-stats", token, nil)
		stats := testutil.EnvelopeData[reportapp.DatabaseStatsResponse](t, w.Body.Bytes())
		assert.True(t, stats.Connected)
		assert.GreaterOrEqual(t, stats.TotalRecords, int64(1))
	})
}

func TestNewEngine_Export(t *testing.T) {
	api := newTestAPI(t)
	token := api.register("owner@example.com")
	api.createClient(token, "Acme")

	w := api.do(http.MethodGet, "/api/exports/clients", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, exportapp.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	// XLSX files are zip archives
	assert.Equal(t, "PK", w.Body.String()[:2])

	w = api.do(http.MethodGet, "/api/exports/unicorns", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
