package service

import (
	"testing"
	"time"

	"backend/internal/database"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the full schema. A single
// connection keeps the in-memory database alive across transactions.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newOrderService(db *gorm.DB) OrderService {
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
}

func money(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func moneyPtr(t *testing.T, value string) *decimal.Decimal {
	t.Helper()
	d := money(t, value)
	return &d
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func seedProduct(t *testing.T, db *gorm.DB, name, sku, sellPrice string, stock, threshold int) *model.Product {
	t.Helper()
	product := model.Product{
		Name:              name,
		Category:          "General",
		SKU:               sku,
		BuyPrice:          money(t, sellPrice).Div(decimal.NewFromInt(2)).Round(2),
		SellPrice:         money(t, sellPrice),
		Stock:             stock,
		LowStockThreshold: threshold,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func seedCustomer(t *testing.T, db *gorm.DB, name, city string) *model.Customer {
	t.Helper()
	customer := model.Customer{Name: name, City: city}
	require.NoError(t, db.Create(&customer).Error)
	return &customer
}

func seedExpense(t *testing.T, db *gorm.DB, category, amount string, date time.Time) *model.Expense {
	t.Helper()
	expense := model.Expense{Category: category, Amount: money(t, amount), Date: date}
	require.NoError(t, db.Create(&expense).Error)
	return &expense
}

type lineItem struct {
	product  *model.Product
	quantity int
	price    string
}

func seedOrder(t *testing.T, db *gorm.DB, orderDate time.Time, customerID *uuid.UUID, lines ...lineItem) *model.Order {
	t.Helper()
	order := model.Order{
		CustomerID:    customerID,
		OrderDate:     orderDate,
		PaymentMethod: model.PaymentCash,
	}
	require.NoError(t, db.Omit("Items").Create(&order).Error)
	for _, line := range lines {
		item := model.OrderItem{
			OrderID:     order.ID,
			ProductID:   line.product.ID,
			Quantity:    line.quantity,
			PriceAtSale: money(t, line.price),
		}
		require.NoError(t, db.Create(&item).Error)
	}
	return &order
}
