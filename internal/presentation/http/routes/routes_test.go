package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/application/service"
	"github.com/sangkips/gstbill-api/internal/config"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/tax"
	"github.com/sangkips/gstbill-api/internal/infrastructure/render"
	"github.com/sangkips/gstbill-api/internal/infrastructure/repository"
	"github.com/sangkips/gstbill-api/internal/presentation/http/handler"
	"github.com/sangkips/gstbill-api/internal/presentation/http/middleware"
	"github.com/sangkips/gstbill-api/pkg/docstore"
	"github.com/sangkips/gstbill-api/pkg/oauth"
	"github.com/sangkips/gstbill-api/pkg/utils"
	"github.com/sangkips/gstbill-api/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Company{},
		&entity.Receiver{},
		&entity.Product{},
		&entity.Bill{},
		&entity.BillingSettings{},
		&entity.IdempotencyKey{},
	))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	log := zap.NewNop()
	cfg := &config.Config{
		App:     config.AppConfig{Name: "gstbill-api", Env: "test"},
		Storage: config.StorageConfig{PublicPrefix: "/bills"},
	}
	jwtManager := utils.NewJWTManager("test-secret", 15*time.Minute, time.Hour)
	store := docstore.NewLocalStore(filepath.Join(t.TempDir(), "bills"), cfg.Storage.PublicPrefix)

	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	receiverRepo := repository.NewReceiverRepository(db)
	billRepo := repository.NewBillRepository(db)
	settings := service.NewSettingsService(repository.NewSettingsRepository(db), tax.DefaultRates())
	google := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{FrontendURL: "http://app.test"})

	handlers := &Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(userRepo, jwtManager, google), google, false, log),
		Company:  handler.NewCompanyHandler(service.NewCompanyService(companyRepo)),
		Receiver: handler.NewReceiverHandler(service.NewReceiverService(receiverRepo, billRepo)),
		Product:  handler.NewProductHandler(service.NewProductService(repository.NewProductRepository(db))),
		Bill: handler.NewBillHandler(service.NewBillService(
			billRepo, receiverRepo, companyRepo, settings,
			render.NewInvoiceRenderer(render.NewQRGenerator(), log),
			store, validation.New(), log,
		), log),
		Settings:  handler.NewSettingsHandler(settings),
		Analytics: handler.NewAnalyticsHandler(service.NewAnalyticsService(billRepo, companyRepo, render.NewReportRenderer())),
	}

	limiter := middleware.NewOwnerRateLimiter(middleware.RateLimiterConfig{RequestsPerSecond: 1000, BurstSize: 1000})
	t.Cleanup(limiter.Stop)

	router := Setup(handlers, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		RateLimiter:     limiter,
		Logger:          log,
	})
	return &testServer{t: t, router: router, db: db}
}

func (s *testServer) do(method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// signUp registers an owner with a company and a receiver, returning the
// access token and the receiver id.
func (s *testServer) signUp(email string) (string, string) {
	t := s.t
	t.Helper()

	w := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"first_name": "Asha", "last_name": "Rao", "email": email,
		"password": "secret123", "password_confirm": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &login)

	w = s.do(http.MethodPost, "/api/v1/company", login.AccessToken, gin.H{
		"company_name": "Rao Traders", "address": "12 MG Road, Pune", "gst_number": "27ABCDE1234F1Z5",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/receivers", login.AccessToken, gin.H{"name": "Kumar Stores", "address": "Market Yard"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var receiver struct {
		ID string `json:"id"`
	}
	decode(t, w, &receiver)

	return login.AccessToken, receiver.ID
}

func billBody(receiverID string, number int) gin.H {
	return gin.H{
		"receiver_id": receiverID,
		"bill_number": number,
		"date":        "2024-03-15",
		"items": []gin.H{
			{"description": "Basmati Rice", "hsn_code": "1006", "quantity": 2, "rate": 100},
			{"description": "Toor Dal", "quantity": 1, "rate": 50},
		},
	}
}

type billView struct {
	ID         string        `json:"id"`
	BillNumber int64         `json:"bill_number"`
	PDFURL     string        `json:"pdf_url"`
	Tax        tax.Breakdown `json:"tax"`
}

func TestBillFlow(t *testing.T) {
	s := newTestServer(t)
	token, receiverID := s.signUp("asha@example.com")

	w := s.do(http.MethodGet, "/api/v1/bills/next-number", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var next struct {
		BillNumber int64 `json:"bill_number"`
	}
	decode(t, w, &next)
	assert.Equal(t, int64(1), next.BillNumber)

	w = s.do(http.MethodPost, "/api/v1/bills", token, billBody(receiverID, 1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var bill billView
	decode(t, w, &bill)
	assert.Equal(t, 263.0, bill.Tax.TotalAfterTax)
	assert.Equal(t, 0.5, bill.Tax.RoundOff)
	assert.Equal(t, "Two Hundred and Sixty Three Rupees", bill.Tax.TotalInWords)
	assert.Equal(t, "/bills/"+bill.ID+".pdf", bill.PDFURL)

	w = s.do(http.MethodGet, "/api/v1/bills/"+bill.ID+"/pdf", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = s.do(http.MethodPost, "/api/v1/bills", token, billBody(receiverID, 1))
	assert.Equal(t, http.StatusConflict, w.Code)

	update := billBody(receiverID, 1)
	update["items"] = []gin.H{{"description": "Sugar", "quantity": 10, "rate": 40}}
	w = s.do(http.MethodPut, "/api/v1/bills/"+bill.ID, token, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &bill)
	assert.Equal(t, 420.0, bill.Tax.TotalAfterTax)

	w = s.do(http.MethodGet, "/api/v1/bills?search=kumar", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items      []billView `json:"items"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	decode(t, w, &page)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Pagination.Total)

	w = s.do(http.MethodGet, "/api/v1/analytics/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary map[string]float64
	decode(t, w, &summary)
	assert.Equal(t, map[string]float64{"totalBills": 1, "totalAmount": 420, "totalTax": 20}, summary)

	w = s.do(http.MethodGet, "/api/v1/analytics/monthly", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var monthly map[string]map[string]float64
	decode(t, w, &monthly)
	assert.Equal(t, map[string]map[string]float64{"2024-03": {"total": 420, "count": 1}}, monthly)

	w = s.do(http.MethodGet, "/api/v1/analytics/monthly/pdf", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = s.do(http.MethodDelete, "/api/v1/receivers/"+receiverID, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/bills/"+bill.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/bills/"+bill.ID+"/pdf", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoredDocumentReference(t *testing.T) {
	s := newTestServer(t)
	token, receiverID := s.signUp("asha@example.com")
	other, _ := s.signUp("ravi@example.com")

	w := s.do(http.MethodPost, "/api/v1/bills", token, billBody(receiverID, 1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var bill billView
	decode(t, w, &bill)
	require.Equal(t, "/bills/"+bill.ID+".pdf", bill.PDFURL)

	w = s.do(http.MethodGet, bill.PDFURL, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = s.do(http.MethodGet, bill.PDFURL, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, bill.PDFURL, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	for _, path := range []string{"/bills/" + bill.ID, "/bills/not-a-bill.pdf", "/bills/" + uuid.NewString() + ".pdf"} {
		w = s.do(http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestBillValidation(t *testing.T) {
	s := newTestServer(t)
	token, receiverID := s.signUp("asha@example.com")

	body := billBody(receiverID, 1)
	body["items"] = []gin.H{{"description": "Rice", "quantity": 0, "rate": 10}}
	w := s.do(http.MethodPost, "/api/v1/bills", token, body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w, nil)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "items[0].quantity", env.Errors[0].Field)

	body = billBody(receiverID, 1)
	body["date"] = "15/03/2024"
	w = s.do(http.MethodPost, "/api/v1/bills", token, body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// text longer than one invoice page can hold is refused before rendering
	body = billBody(receiverID, 1)
	body["items"] = []gin.H{{"description": strings.Repeat("a", 501), "quantity": 1, "rate": 10}}
	w = s.do(http.MethodPost, "/api/v1/bills", token, body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env = decode(t, w, nil)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "items[0].description", env.Errors[0].Field)

	w = s.do(http.MethodPost, "/api/v1/receivers", token, gin.H{"name": "Long Address", "address": strings.Repeat("a", 501)})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodGet, "/api/v1/bills/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillDateKeepsCalendarDay(t *testing.T) {
	s := newTestServer(t)
	token, receiverID := s.signUp("asha@example.com")

	// 02:00 in India is still the previous day in UTC
	body := billBody(receiverID, 1)
	body["date"] = "2024-02-01T02:00:00+05:30"
	w := s.do(http.MethodPost, "/api/v1/bills", token, body)
	require.Equal(t, http.StatusCreated, w.Code)
	var bill struct {
		Date time.Time `json:"date"`
	}
	decode(t, w, &bill)
	assert.True(t, bill.Date.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)), bill.Date.String())

	w = s.do(http.MethodGet, "/api/v1/analytics/monthly", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var monthly map[string]map[string]float64
	decode(t, w, &monthly)
	assert.Contains(t, monthly, "2024-02")
	assert.NotContains(t, monthly, "2024-01")
}

func TestOwnerIsolation(t *testing.T) {
	s := newTestServer(t)
	tokenA, receiverA := s.signUp("a@example.com")
	tokenB, _ := s.signUp("b@example.com")

	w := s.do(http.MethodPost, "/api/v1/bills", tokenA, billBody(receiverA, 1))
	require.Equal(t, http.StatusCreated, w.Code)
	var bill billView
	decode(t, w, &bill)

	for _, path := range []string{"/api/v1/bills/" + bill.ID, "/api/v1/bills/" + bill.ID + "/pdf", "/api/v1/receivers/" + receiverA} {
		w = s.do(http.MethodGet, path, tokenB, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	// B cannot bill A's receiver
	w = s.do(http.MethodPost, "/api/v1/bills", tokenB, billBody(receiverA, 1))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/bills/"+bill.ID, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIdempotentBillCreation(t *testing.T) {
	s := newTestServer(t)
	token, receiverID := s.signUp("asha@example.com")

	first := s.do(http.MethodPost, "/api/v1/bills", token, billBody(receiverID, 7), middleware.IdempotencyKeyHeader, "key-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	replay := s.do(http.MethodPost, "/api/v1/bills", token, billBody(receiverID, 7), middleware.IdempotencyKeyHeader, "key-1")
	require.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get(middleware.IdempotencyReplayedHeader))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())

	var count int64
	require.NoError(t, s.db.Model(&entity.Bill{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	mismatch := s.do(http.MethodPost, "/api/v1/bills", token, billBody(receiverID, 8), middleware.IdempotencyKeyHeader, "key-1")
	assert.Equal(t, http.StatusUnprocessableEntity, mismatch.Code)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/bills", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/bills", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCompanyUpsertAndSettings(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp("asha@example.com")

	w := s.do(http.MethodPost, "/api/v1/company", token, gin.H{
		"company_name": "Rao & Sons", "address": "New Road", "gst_number": "27ABCDE1234F1Z5",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/company", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var company entity.Company
	decode(t, w, &company)
	assert.Equal(t, "Rao & Sons", company.CompanyName)

	w = s.do(http.MethodPut, "/api/v1/settings", token, gin.H{"default_cgst_rate": 9, "default_sgst_rate": 9})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPut, "/api/v1/settings", token, gin.H{"default_cgst_rate": -1, "default_sgst_rate": 9})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGoogleSignInDisabled(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/auth/google", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(http.MethodGet, "/api/v1/auth/google/callback?state=x&code=y", "", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://app.test/login?error=invalid_state", w.Header().Get("Location"))
}
