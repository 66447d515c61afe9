package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/internal/domain/tax"
	"github.com/sangkips/gstbill-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedOwner(t, db, "a@example.com", "Kumar Stores")
	repo := NewBillRepository(db)

	bill := newBill(f, 1, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	bill.Items = []tax.LineItem{{Description: "Rice", Quantity: 2, Rate: 100, Amount: 200}}
	bill.Tax = tax.Breakdown{TotalBeforeTax: 200, CGST: 5, SGST: 5, RawTotalAfterTax: 210, TotalAfterTax: 210, TotalInWords: "Two Hundred and Ten Rupees"}

	published := false
	require.NoError(t, repo.Create(ctx, bill, func() error {
		published = true
		return nil
	}))
	assert.True(t, published)

	got, err := repo.GetByID(ctx, f.user.ID, bill.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.BillNumber)
	require.Len(t, got.LineItems(), 1)
	assert.Equal(t, "Rice", got.LineItems()[0].Description)
	assert.Equal(t, 210.0, got.Tax.TotalAfterTax)
	assert.Equal(t, "Two Hundred and Ten Rupees", got.Tax.TotalInWords)
	require.NotNil(t, got.Company)
	assert.Equal(t, "Rao Traders", got.Company.CompanyName)
	require.NotNil(t, got.Receiver)
	assert.Equal(t, "Kumar Stores", got.Receiver.Name)
}

func TestBillRepository_CreateRollsBackWhenPublishFails(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedOwner(t, db, "a@example.com", "Kumar Stores")
	repo := NewBillRepository(db)

	bill := newBill(f, 1, time.Now())
	err := repo.Create(ctx, bill, func() error { return errors.New("disk full") })
	require.Error(t, err)

	got, err := repo.GetByNumber(ctx, f.user.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBillRepository_DuplicateNumber(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedOwner(t, db, "a@example.com", "Kumar Stores")
	other := seedOwner(t, db, "b@example.com", "Mehta & Sons")
	repo := NewBillRepository(db)

	require.NoError(t, repo.Create(ctx, newBill(f, 7, time.Now()), nil))

	err := repo.Create(ctx, newBill(f, 7, time.Now()), nil)
	assert.ErrorIs(t, err, domainRepo.ErrDuplicate)

	// numbers are unique per owner only
	assert.NoError(t, repo.Create(ctx, newBill(other, 7, time.Now()), nil))
}

func TestBillRepository_OwnerIsolation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := seedOwner(t, db, "a@example.com", "Kumar Stores")
	b := seedOwner(t, db, "b@example.com", "Mehta & Sons")
	repo := NewBillRepository(db)

	bill := newBill(a, 1, time.Now())
	require.NoError(t, repo.Create(ctx, bill, nil))

	got, err := repo.GetByID(ctx, b.user.ID, bill.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByID(ctx, uuid.Nil, bill.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Delete(ctx, b.user.ID, bill.ID))
	got, err = repo.GetByID(ctx, a.user.ID, bill.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "another owner cannot delete the bill")

	hijack := *bill
	hijack.UserID = b.user.ID
	hijack.BillNumber = 99
	err = repo.Update(ctx, &hijack, nil)
	assert.ErrorIs(t, err, domainRepo.ErrNotFound)
}

func TestBillRepository_Update(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedOwner(t, db, "a@example.com", "Kumar Stores")
	repo := NewBillRepository(db)

	bill := newBill(f, 1, time.Now())
	require.NoError(t, repo.Create(ctx, bill, nil))

	bill.BillNumber = 2
	bill.CGSTRate = 0
	bill.Items = []tax.LineItem{{Description: "Dal", Quantity: 1, Rate: 80, Amount: 80}}
	require.NoError(t, repo.Update(ctx, bill, nil))

	got, err := repo.GetByID(ctx, f.user.ID, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.BillNumber)
	assert.Equal(t, 0.0, got.CGSTRate)
	assert.Equal(t, "Dal", got.LineItems()[0].Description)

	err = repo.Update(ctx, bill, func() error { return errors.New("rename failed") })
	require.Error(t, err)
}

func TestBillRepository_ListSearchAndPaging(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedOwner(t, db, "a@example.com", "Kumar Stores")
	repo := NewBillRepository(db)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 12; i++ {
		require.NoError(t, repo.Create(ctx, newBill(f, i, base.AddDate(0, 0, int(i))), nil))
	}

	bills, total, err := repo.List(ctx, f.user.ID, &domainRepo.BillFilterParams{
		Pagination: pagination.Params{Page: 1, PerPage: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, bills, 5)
	assert.Equal(t, int64(12), bills[0].BillNumber, "newest first")
	require.NotNil(t, bills[0].Receiver)

	bills, total, err = repo.List(ctx, f.user.ID, &domainRepo.BillFilterParams{Search: "kumar"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, bills, 12)

	bills, total, err = repo.List(ctx, f.user.ID, &domainRepo.BillFilterParams{Search: "11"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, bills, 1)
	assert.Equal(t, int64(11), bills[0].BillNumber)
}

func TestBillRepository_Aggregates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedOwner(t, db, "a@example.com", "Kumar Stores")
	repo := NewBillRepository(db)

	max, err := repo.MaxBillNumber(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), max)

	require.NoError(t, repo.Create(ctx, newBill(f, 3, time.Now()), nil))
	require.NoError(t, repo.Create(ctx, newBill(f, 9, time.Now()), nil))

	max, err = repo.MaxBillNumber(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), max)

	count, err := repo.CountByReceiver(ctx, f.user.ID, f.receiver.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	all, err := repo.ListAll(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReceiverRepository_SearchAndSoftDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedOwner(t, db, "a@example.com", "Kumar Stores")
	repo := NewReceiverRepository(db)

	require.NoError(t, repo.Create(ctx, &entity.Receiver{UserID: f.user.ID, Name: "Patel Agencies", Address: "Surat"}))

	list, err := repo.List(ctx, f.user.ID, "PATEL")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Patel Agencies", list[0].Name)

	require.NoError(t, repo.Delete(ctx, f.user.ID, list[0].ID))
	got, err := repo.GetByID(ctx, f.user.ID, list[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	f.receiver.Name = "Kumar General Stores"
	require.NoError(t, repo.Update(ctx, f.receiver))
	got, err = repo.GetByID(ctx, f.user.ID, f.receiver.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kumar General Stores", got.Name)
}

func TestCompanyRepository_OnePerOwner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedOwner(t, db, "a@example.com", "Kumar Stores")
	repo := NewCompanyRepository(db)

	err := repo.Create(ctx, &entity.Company{UserID: f.user.ID, CompanyName: "Second", Address: "x", GSTNumber: "y"})
	assert.ErrorIs(t, err, domainRepo.ErrDuplicate)

	f.company.CompanyName = "Rao & Co"
	require.NoError(t, repo.Update(ctx, f.company))

	got, err := repo.GetByOwner(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rao & Co", got.CompanyName)
}

func TestProductRepository_List(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	f := seedOwner(t, db, "a@example.com", "Kumar Stores")
	repo := NewProductRepository(db)

	for _, d := range []string{"Basmati Rice", "Toor Dal", "Rice Bran Oil"} {
		require.NoError(t, repo.Create(ctx, &entity.Product{UserID: f.user.ID, Description: d, Rate: 10}))
	}

	list, err := repo.List(ctx, f.user.ID, "rice", 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = repo.List(ctx, f.user.ID, "", 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	other, err := repo.List(ctx, uuid.New(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}
