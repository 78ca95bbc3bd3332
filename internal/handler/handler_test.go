package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/database"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRouter wires the full stack over an in-memory SQLite database, the
// same way main assembles it, minus auth and websockets.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	txManager := repository.NewTransactionManager(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	router := gin.New()
	group := router.Group("")
	NewProductHandler(service.NewProductService(productRepo, orderRepo)).RegisterRoutes(group)
	NewCustomerHandler(service.NewCustomerService(customerRepo, orderRepo, txManager)).RegisterRoutes(group)
	NewOrderHandler(service.NewOrderService(orderRepo, productRepo, customerRepo, txManager, nil)).RegisterRoutes(group)
	NewExpenseHandler(service.NewExpenseService(expenseRepo)).RegisterRoutes(group)
	NewAnalyticsHandler(service.NewAnalyticsService(analyticsRepo)).RegisterRoutes(group)

	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return parsed
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func seedTestProduct(t *testing.T, db *gorm.DB, name, sku, sellPrice string, stock int) *model.Product {
	t.Helper()
	product := model.Product{
		Name:              name,
		SKU:               sku,
		BuyPrice:          mustDecimal(t, sellPrice),
		SellPrice:         mustDecimal(t, sellPrice),
		Stock:             stock,
		LowStockThreshold: 5,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func seedTestOrder(t *testing.T, db *gorm.DB, product *model.Product, quantity int) *model.Order {
	t.Helper()
	order := model.Order{
		OrderDate:     time.Now().UTC(),
		PaymentMethod: model.PaymentCash,
	}
	require.NoError(t, db.Omit("Items").Create(&order).Error)
	item := model.OrderItem{
		OrderID:     order.ID,
		ProductID:   product.ID,
		Quantity:    quantity,
		PriceAtSale: product.SellPrice,
	}
	require.NoError(t, db.Create(&item).Error)
	return &order
}
