package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalytics_SummaryAndMonthly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	o := env.newOwner(t, "a@example.com")
	other := env.newOwner(t, "b@example.com")

	// late on the last day of March in UTC stays in March
	dates := []time.Time{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 23, 30, 0, 0, time.UTC),
		time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		_, err := env.bills.CreateBill(ctx, billInput(o, int64(i+1), d))
		require.NoError(t, err)
	}
	_, err := env.bills.CreateBill(ctx, billInput(other, 1, dates[0]))
	require.NoError(t, err)

	summary, err := env.analytics.Summary(ctx, o.id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalBills)
	assert.Equal(t, 789.0, summary.TotalAmount)
	assert.InDelta(t, 37.5, summary.TotalTax, 1e-9)

	months, err := env.analytics.Monthly(ctx, o.id)
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.Equal(t, MonthlyStat{Total: 526, Count: 2}, months["2024-03"])
	assert.Equal(t, MonthlyStat{Total: 263, Count: 1}, months["2024-04"])
}

func TestAnalytics_Empty(t *testing.T) {
	env := newTestEnv(t)
	o := env.newOwner(t, "a@example.com")

	summary, err := env.analytics.Summary(context.Background(), o.id)
	require.NoError(t, err)
	assert.Equal(t, &AnalyticsSummary{}, summary)

	months, err := env.analytics.Monthly(context.Background(), o.id)
	require.NoError(t, err)
	assert.Empty(t, months)
}

func TestAnalytics_MonthlyReportPDF(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	o := env.newOwner(t, "a@example.com")

	_, err := env.bills.CreateBill(ctx, billInput(o, 1, time.Now()))
	require.NoError(t, err)

	out, err := env.analytics.MonthlyReportPDF(ctx, o.id)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
