package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/shopspring/decimal"
)

// AnalyticsService computes read-only projections over orders, expenses, and
// customers. Nothing is cached; every call recomputes from the current rows.
type AnalyticsService interface {
	SalesSummary(ctx context.Context, now time.Time) (model.SalesSummary, error)
	MonthlySales(ctx context.Context, now time.Time) ([]model.MonthlySales, error)
	TopProducts(ctx context.Context, limit int) ([]model.ProductSales, error)
	ExpensesSummary(ctx context.Context, start, end string) ([]model.CategoryExpense, error)
}

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{analyticsRepo: analyticsRepo}
}

// dateOnly strips the time-of-day so orders bucket by calendar date
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *analyticsService) SalesSummary(ctx context.Context, now time.Time) (model.SalesSummary, error) {
	orders, err := s.analyticsRepo.ListOrdersWithItems(ctx, nil)
	if err != nil {
		return model.SalesSummary{}, err
	}

	today := dateOnly(now)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	todaySales := decimal.Zero
	monthSales := decimal.Zero
	totalRevenue := decimal.Zero

	for i := range orders {
		orderTotal := orders[i].TotalAmount()
		totalRevenue = totalRevenue.Add(orderTotal)

		orderDay := dateOnly(orders[i].OrderDate)
		if orderDay.Equal(today) {
			todaySales = todaySales.Add(orderTotal)
		}
		if !orderDay.Before(startOfMonth) {
			monthSales = monthSales.Add(orderTotal)
		}
	}

	expenses, err := s.analyticsRepo.ListExpenses(ctx, nil, nil)
	if err != nil {
		return model.SalesSummary{}, err
	}
	totalExpense := decimal.Zero
	for i := range expenses {
		totalExpense = totalExpense.Add(expenses[i].Amount)
	}

	totalOrders, err := s.analyticsRepo.CountOrders(ctx)
	if err != nil {
		return model.SalesSummary{}, fmt.Errorf("failed to count orders: %w", err)
	}
	totalCustomers, err := s.analyticsRepo.CountCustomers(ctx)
	if err != nil {
		return model.SalesSummary{}, fmt.Errorf("failed to count customers: %w", err)
	}

	return model.SalesSummary{
		TodaySales:     todaySales.StringFixed(2),
		MonthSales:     monthSales.StringFixed(2),
		TotalRevenue:   totalRevenue.StringFixed(2),
		TotalExpense:   totalExpense.StringFixed(2),
		TotalProfit:    totalRevenue.Sub(totalExpense).StringFixed(2),
		TotalOrders:    totalOrders,
		TotalCustomers: totalCustomers,
	}, nil
}

// MonthlySales groups the trailing year of orders by the YYYY-MM of their
// order date, ascending by month key. Time-of-day is ignored.
func (s *analyticsService) MonthlySales(ctx context.Context, now time.Time) ([]model.MonthlySales, error) {
	oneYearAgo := dateOnly(now).AddDate(-1, 0, 0)
	orders, err := s.analyticsRepo.ListOrdersWithItems(ctx, &oneYearAgo)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for i := range orders {
		key := orders[i].OrderDate.Format("2006-01")
		totals[key] = totals[key].Add(orders[i].TotalAmount())
	}

	months := make([]string, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Strings(months)

	result := make([]model.MonthlySales, 0, len(months))
	for _, month := range months {
		result = append(result, model.MonthlySales{
			Month:      month,
			TotalSales: totals[month].StringFixed(2),
		})
	}
	return result, nil
}

func (s *analyticsService) TopProducts(ctx context.Context, limit int) ([]model.ProductSales, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.analyticsRepo.TopProducts(ctx, limit)
}

// ExpensesSummary groups expenses by category over an optional inclusive date
// range, descending by summed amount.
func (s *analyticsService) ExpensesSummary(ctx context.Context, start, end string) ([]model.CategoryExpense, error) {
	var startDate, endDate *time.Time
	if start != "" {
		parsed, err := time.Parse(expenseDateLayout, start)
		if err != nil {
			return nil, &apperror.ValidationError{Field: "start", Message: "expected YYYY-MM-DD"}
		}
		startDate = &parsed
	}
	if end != "" {
		parsed, err := time.Parse(expenseDateLayout, end)
		if err != nil {
			return nil, &apperror.ValidationError{Field: "end", Message: "expected YYYY-MM-DD"}
		}
		endDate = &parsed
	}

	expenses, err := s.analyticsRepo.ListExpenses(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for i := range expenses {
		totals[expenses[i].Category] = totals[expenses[i].Category].Add(expenses[i].Amount)
	}

	result := make([]model.CategoryExpense, 0, len(totals))
	for category, total := range totals {
		result = append(result, model.CategoryExpense{
			Category:    category,
			TotalAmount: total.StringFixed(2),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		a, _ := decimal.NewFromString(result[i].TotalAmount)
		b, _ := decimal.NewFromString(result[j].TotalAmount)
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}
