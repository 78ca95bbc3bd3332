package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAnalyticsService(db *gorm.DB) AnalyticsService {
	return NewAnalyticsService(repository.NewAnalyticsRepository(db))
}

func TestSalesSummaryBucketsByDay(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	product := seedProduct(t, db, "Fan", "FN-01", "50.00", 30, 5)
	seedCustomer(t, db, "Kiran", "Surat")

	// today, earlier this month, and a year-old order
	seedOrder(t, db, time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC), nil, lineItem{product, 2, "50.00"})
	seedOrder(t, db, time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC), nil, lineItem{product, 1, "50.00"})
	seedOrder(t, db, time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC), nil, lineItem{product, 1, "25.00"})

	seedExpense(t, db, "Rent", "30.00", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

	summary, err := svc.SalesSummary(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, "100.00", summary.TodaySales)
	assert.Equal(t, "150.00", summary.MonthSales)
	assert.Equal(t, "175.00", summary.TotalRevenue)
	assert.Equal(t, "30.00", summary.TotalExpense)
	assert.Equal(t, "145.00", summary.TotalProfit)
	assert.EqualValues(t, 3, summary.TotalOrders)
	assert.EqualValues(t, 1, summary.TotalCustomers)
}

func TestSalesSummaryEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)

	summary, err := svc.SalesSummary(context.Background(), time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "0.00", summary.TodaySales)
	assert.Equal(t, "0.00", summary.MonthSales)
	assert.Equal(t, "0.00", summary.TotalRevenue)
	assert.Equal(t, "0.00", summary.TotalExpense)
	assert.Equal(t, "0.00", summary.TotalProfit)
	assert.Zero(t, summary.TotalOrders)
	assert.Zero(t, summary.TotalCustomers)
}

func TestMonthlySalesGroupsTrailingYear(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	product := seedProduct(t, db, "Kettle", "KT-01", "10.00", 100, 5)

	seedOrder(t, db, time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC), nil, lineItem{product, 1, "10.00"})
	seedOrder(t, db, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), nil, lineItem{product, 2, "10.00"})
	seedOrder(t, db, time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC), nil, lineItem{product, 4, "10.00"})
	// just inside and just outside the trailing-year window
	seedOrder(t, db, time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC), nil, lineItem{product, 1, "10.00"})
	seedOrder(t, db, time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC), nil, lineItem{product, 9, "10.00"})

	sales, err := svc.MonthlySales(context.Background(), now)
	require.NoError(t, err)

	require.Len(t, sales, 3)
	assert.Equal(t, "2025-08", sales[0].Month)
	assert.Equal(t, "10.00", sales[0].TotalSales)
	assert.Equal(t, "2026-07", sales[1].Month)
	assert.Equal(t, "40.00", sales[1].TotalSales)
	assert.Equal(t, "2026-08", sales[2].Month)
	assert.Equal(t, "30.00", sales[2].TotalSales)
}

func TestTopProductsRanksByQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)

	a := seedProduct(t, db, "Alpha", "A-01", "10.00", 100, 5)
	b := seedProduct(t, db, "Beta", "B-01", "10.00", 100, 5)
	c := seedProduct(t, db, "Gamma", "C-01", "10.00", 100, 5)

	seedOrder(t, db, time.Now().UTC(), nil,
		lineItem{a, 5, "10.00"},
		lineItem{b, 2, "10.00"},
		lineItem{c, 4, "10.00"},
	)
	seedOrder(t, db, time.Now().UTC(), nil, lineItem{c, 5, "10.00"})

	top, err := svc.TopProducts(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Gamma", top[0].Name)
	assert.Equal(t, 9, top[0].TotalQuantity)

	// non-positive limit falls back to the default of five
	all, err := svc.TopProducts(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Gamma", all[0].Name)
	assert.Equal(t, "Alpha", all[1].Name)
	assert.Equal(t, "Beta", all[2].Name)
}

func TestExpensesSummaryGroupsAndSorts(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)

	seedExpense(t, db, "Rent", "400.00", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	seedExpense(t, db, "Rent", "200.00", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
	seedExpense(t, db, "Ads", "50.00", time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))

	summary, err := svc.ExpensesSummary(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, summary, 2)
	assert.Equal(t, "Rent", summary[0].Category)
	assert.Equal(t, "600.00", summary[0].TotalAmount)
	assert.Equal(t, "Ads", summary[1].Category)
	assert.Equal(t, "50.00", summary[1].TotalAmount)
}

func TestExpensesSummaryHonorsDateRange(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)

	seedExpense(t, db, "Rent", "400.00", time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	seedExpense(t, db, "Rent", "200.00", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))

	summary, err := svc.ExpensesSummary(context.Background(), "2026-08-01", "2026-08-31")
	require.NoError(t, err)

	require.Len(t, summary, 1)
	assert.Equal(t, "200.00", summary[0].TotalAmount)
}

func TestExpensesSummaryRejectsBadDates(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)

	_, err := svc.ExpensesSummary(context.Background(), "08-01-2026", "")
	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "start", ve.Field)
}
