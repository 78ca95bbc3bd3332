package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

type AnalyticsRepository interface {
	ListOrdersWithItems(ctx context.Context, since *time.Time) ([]model.Order, error)
	CountOrders(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	ListExpenses(ctx context.Context, start, end *time.Time) ([]model.Expense, error)
	TopProducts(ctx context.Context, limit int) ([]model.ProductSales, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) ListOrdersWithItems(ctx context.Context, since *time.Time) ([]model.Order, error) {
	var orders []model.Order
	db := GetDB(ctx, r.db).Preload("Items")
	if since != nil {
		db = db.Where("order_date >= ?", *since)
	}
	if err := db.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}

func (r *analyticsRepository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Order{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Customer{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) ListExpenses(ctx context.Context, start, end *time.Time) ([]model.Expense, error) {
	var expenses []model.Expense
	db := GetDB(ctx, r.db).Model(&model.Expense{})
	if start != nil {
		db = db.Where("date >= ?", *start)
	}
	if end != nil {
		db = db.Where("date <= ?", *end)
	}
	if err := db.Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	return expenses, nil
}

// TopProducts ranks products by total quantity sold across all order items.
// Products with no sales never appear because of the inner join.
func (r *analyticsRepository) TopProducts(ctx context.Context, limit int) ([]model.ProductSales, error) {
	var rankings []model.ProductSales
	if err := GetDB(ctx, r.db).Table("order_items").
		Select("products.id as product_id, products.name as name, products.sku as sku, products.category as category, SUM(order_items.quantity) as total_quantity").
		Joins("JOIN products ON products.id = order_items.product_id").
		Group("products.id, products.name, products.sku, products.category").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	return rankings, nil
}
