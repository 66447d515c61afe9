package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/tax"
	"github.com/sangkips/gstbill-api/internal/infrastructure/render"
	infraRepo "github.com/sangkips/gstbill-api/internal/infrastructure/repository"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/sangkips/gstbill-api/pkg/docstore"
	"github.com/sangkips/gstbill-api/pkg/utils"
	"github.com/sangkips/gstbill-api/pkg/validation"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	dir       string
	store     docstore.Store
	renderer  *switchableRenderer
	auth      *AuthService
	company   *CompanyService
	receivers *ReceiverService
	products  *ProductService
	settings  *SettingsService
	bills     *BillService
	analytics *AnalyticsService
}

// switchableRenderer delegates to the real renderer unless failWith is set
type switchableRenderer struct {
	real     *render.InvoiceRenderer
	failWith error
	calls    int
}

func (r *switchableRenderer) Render(ctx context.Context, inv *render.Invoice) (*render.Document, error) {
	r.calls++
	if r.failWith != nil {
		return nil, r.failWith
	}
	return r.real.Render(ctx, inv)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
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

	dir := filepath.Join(t.TempDir(), "bills")
	store := docstore.NewLocalStore(dir, "bills")
	log := zap.NewNop()

	userRepo := infraRepo.NewUserRepository(db)
	companyRepo := infraRepo.NewCompanyRepository(db)
	receiverRepo := infraRepo.NewReceiverRepository(db)
	productRepo := infraRepo.NewProductRepository(db)
	billRepo := infraRepo.NewBillRepository(db)
	settingsRepo := infraRepo.NewSettingsRepository(db)

	renderer := &switchableRenderer{real: render.NewInvoiceRenderer(render.NewQRGenerator(), log)}
	settings := NewSettingsService(settingsRepo, tax.DefaultRates())

	return &testEnv{
		db:        db,
		dir:       dir,
		store:     store,
		renderer:  renderer,
		auth:      NewAuthService(userRepo, newTestJWT(), nil),
		company:   NewCompanyService(companyRepo),
		receivers: NewReceiverService(receiverRepo, billRepo),
		products:  NewProductService(productRepo),
		settings:  settings,
		bills:     NewBillService(billRepo, receiverRepo, companyRepo, settings, renderer, store, validation.New(), log),
		analytics: NewAnalyticsService(billRepo, companyRepo, render.NewReportRenderer()),
	}
}

func newTestJWT() *utils.JWTManager {
	return utils.NewJWTManager("test-secret", 15*time.Minute, time.Hour)
}

// owner registers a user with a company profile and one receiver
type owner struct {
	id       uuid.UUID
	receiver *entity.Receiver
}

func (e *testEnv) newOwner(t *testing.T, email string) owner {
	t.Helper()
	ctx := context.Background()

	user := &entity.User{FirstName: "Asha", LastName: "Rao", Email: email}
	require.NoError(t, infraRepo.NewUserRepository(e.db).Create(ctx, user))

	_, _, err := e.company.SaveCompany(ctx, &SaveCompanyInput{
		UserID:      user.ID,
		CompanyName: "Rao Traders",
		Address:     "12 MG Road, Pune",
		GSTNumber:   "27ABCDE1234F1Z5",
	})
	require.NoError(t, err)

	receiver, err := e.receivers.CreateReceiver(ctx, &ReceiverInput{UserID: user.ID, Name: "Kumar Stores", Address: "Market Yard"})
	require.NoError(t, err)

	return owner{id: user.ID, receiver: receiver}
}

func billInput(o owner, number int64, date time.Time) *BillInput {
	return &BillInput{
		UserID:     o.id,
		ReceiverID: o.receiver.ID,
		BillNumber: number,
		Date:       date,
		Items: []BillItemInput{
			{Description: "Basmati Rice", HSNCode: "1006", Quantity: 2, Rate: 100},
			{Description: "Toor Dal", HSNCode: "0713", Quantity: 1, Rate: 50},
		},
	}
}

func (e *testEnv) documentExists(bill *entity.Bill) bool {
	_, err := os.Stat(filepath.Join(e.dir, bill.DocumentKey()))
	return err == nil
}

func (e *testEnv) stagingEmpty(t *testing.T) bool {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(e.dir, ".staging"))
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	require.NoError(t, err)
	return len(entries) == 0
}

func appCode(err error) int {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}
