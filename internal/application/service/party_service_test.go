package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompany_SaveIsUpsert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	o := env.newOwner(t, "a@example.com")

	company, created, err := env.company.SaveCompany(ctx, &SaveCompanyInput{
		UserID:      o.id,
		CompanyName: "Rao & Co",
		Address:     "New address",
		GSTNumber:   "27ABCDE1234F1Z5",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Rao & Co", company.CompanyName)

	got, err := env.company.GetCompany(ctx, o.id)
	require.NoError(t, err)
	assert.Equal(t, company.ID, got.ID)
	assert.Equal(t, "New address", got.Address)
}

func TestReceiver_DeleteBlockedByBills(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	o := env.newOwner(t, "a@example.com")

	bill, err := env.bills.CreateBill(ctx, billInput(o, 1, time.Now()))
	require.NoError(t, err)

	err = env.receivers.DeleteReceiver(ctx, o.id, o.receiver.ID)
	assert.Equal(t, http.StatusConflict, appCode(err))

	require.NoError(t, env.bills.DeleteBill(ctx, o.id, bill.ID))
	require.NoError(t, env.receivers.DeleteReceiver(ctx, o.id, o.receiver.ID))

	_, err = env.receivers.GetReceiver(ctx, o.id, o.receiver.ID)
	assert.Equal(t, http.StatusNotFound, appCode(err))
}

func TestReceiver_UpdateAndSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	o := env.newOwner(t, "a@example.com")
	other := env.newOwner(t, "b@example.com")

	updated, err := env.receivers.UpdateReceiver(ctx, o.receiver.ID, &ReceiverInput{UserID: o.id, Name: "Kumar General", Address: "Shop 4"})
	require.NoError(t, err)
	assert.Equal(t, "Kumar General", updated.Name)

	_, err = env.receivers.UpdateReceiver(ctx, o.receiver.ID, &ReceiverInput{UserID: other.id, Name: "x", Address: "y"})
	assert.Equal(t, http.StatusNotFound, appCode(err))

	list, err := env.receivers.ListReceivers(ctx, o.id, "general")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProduct_CreateListDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	o := env.newOwner(t, "a@example.com")

	p, err := env.products.CreateProduct(ctx, &CreateProductInput{UserID: o.id, Description: "Basmati Rice", Rate: 100, IsSuggestion: true})
	require.NoError(t, err)

	list, err := env.products.ListProducts(ctx, o.id, "rice", 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	other := env.newOwner(t, "b@example.com")
	err = env.products.DeleteProduct(ctx, other.id, p.ID)
	assert.Equal(t, http.StatusNotFound, appCode(err))

	require.NoError(t, env.products.DeleteProduct(ctx, o.id, p.ID))
	list, err = env.products.ListProducts(ctx, o.id, "", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSettings_DefaultsAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	o := env.newOwner(t, "a@example.com")

	settings, err := env.settings.GetSettings(ctx, o.id)
	require.NoError(t, err)
	assert.Equal(t, 2.5, settings.DefaultCGSTRate)
	assert.Equal(t, 2.5, settings.DefaultSGSTRate)

	_, err = env.settings.UpdateSettings(ctx, &UpdateSettingsInput{UserID: o.id, DefaultCGSTRate: 6, DefaultSGSTRate: 6})
	require.NoError(t, err)

	rates, err := env.settings.Rates(ctx, o.id)
	require.NoError(t, err)
	assert.Equal(t, 6.0, rates.CGSTPercent)
}
