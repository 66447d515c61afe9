package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

// ownerFixture holds an owner with a company and one receiver
type ownerFixture struct {
	user     *entity.User
	company  *entity.Company
	receiver *entity.Receiver
}

func seedOwner(t *testing.T, db *gorm.DB, email, receiverName string) ownerFixture {
	t.Helper()
	ctx := context.Background()

	user := &entity.User{FirstName: "Asha", LastName: "Rao", Email: email, Password: "x"}
	require.NoError(t, NewUserRepository(db).Create(ctx, user))

	company := &entity.Company{
		UserID:      user.ID,
		CompanyName: "Rao Traders",
		Address:     "12 MG Road, Pune",
		GSTNumber:   "27ABCDE1234F1Z5",
	}
	require.NoError(t, NewCompanyRepository(db).Create(ctx, company))

	receiver := &entity.Receiver{UserID: user.ID, Name: receiverName, Address: "Market Yard"}
	require.NoError(t, NewReceiverRepository(db).Create(ctx, receiver))

	return ownerFixture{user: user, company: company, receiver: receiver}
}

func newBill(f ownerFixture, number int64, date time.Time) *entity.Bill {
	return &entity.Bill{
		UserID:     f.user.ID,
		CompanyID:  f.company.ID,
		ReceiverID: f.receiver.ID,
		BillNumber: number,
		Date:       date,
		CGSTRate:   2.5,
		SGSTRate:   2.5,
	}
}
