package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProductService(db *gorm.DB) ProductService {
	return NewProductService(repository.NewProductRepository(db), repository.NewOrderRepository(db))
}

func TestCreateProductAppliesDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)

	res, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:      "Notebook",
		SKU:       "NB-01",
		BuyPrice:  money(t, "20.00"),
		SellPrice: money(t, "35.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Stock)
	assert.Equal(t, 10, res.LowStockThreshold)
	assert.True(t, res.IsLowStock)
	assert.Equal(t, "35.00", res.SellPrice)
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)
	seedProduct(t, db, "Pen", "PN-01", "2.00", 50, 10)

	_, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:      "Another Pen",
		SKU:       "PN-01",
		BuyPrice:  money(t, "1.00"),
		SellPrice: money(t, "2.00"),
	})
	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "sku", ve.Field)
}

func TestCreateProductRejectsNegativeStock(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)

	_, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:      "Eraser",
		SKU:       "ER-01",
		BuyPrice:  money(t, "0.50"),
		SellPrice: money(t, "1.00"),
		Stock:     intPtr(-1),
	})
	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "stock", ve.Field)
}

func TestLowStockFlagFollowsThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)
	product := seedProduct(t, db, "Stapler", "SP-01", "8.00", 11, 10)

	res, err := svc.GetProduct(context.Background(), product.ID.String())
	require.NoError(t, err)
	assert.False(t, res.IsLowStock)

	res, err = svc.UpdateProduct(context.Background(), product.ID.String(), UpdateProductRequest{
		Stock: intPtr(10),
	})
	require.NoError(t, err)
	assert.True(t, res.IsLowStock)
}

func TestUpdateProductLeavesOmittedFieldsAlone(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)
	product := seedProduct(t, db, "Tape", "TP-01", "3.00", 40, 10)

	res, err := svc.UpdateProduct(context.Background(), product.ID.String(), UpdateProductRequest{
		SellPrice: moneyPtr(t, "3.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "3.50", res.SellPrice)
	assert.Equal(t, "Tape", res.Name)
	assert.Equal(t, 40, res.Stock)
}

func TestDeleteProductBlockedByOrderHistory(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)
	product := seedProduct(t, db, "Glue", "GL-01", "4.00", 20, 10)
	seedOrder(t, db, time.Now().UTC(), nil, lineItem{product, 2, "4.00"})

	err := svc.DeleteProduct(context.Background(), product.ID.String())
	var ree *apperror.ReferencedEntityError
	require.ErrorAs(t, err, &ree)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
}

func TestDeleteProductWithoutReferences(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)
	product := seedProduct(t, db, "Scissors", "SC-01", "6.00", 20, 10)

	require.NoError(t, svc.DeleteProduct(context.Background(), product.ID.String()))

	err := db.First(&model.Product{}, "id = ?", product.ID).Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGetProductUnknownIDIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)

	_, err := svc.GetProduct(context.Background(), "definitely-not-a-uuid")
	var nfe *apperror.NotFoundError
	require.ErrorAs(t, err, &nfe)
}

func TestListProductsSearchMatchesCaseInsensitively(t *testing.T) {
	db := newTestDB(t)
	svc := newProductService(db)
	seedProduct(t, db, "USB Hub", "HB-01", "22.00", 5, 2)
	seedProduct(t, db, "Headset", "HS-01", "55.00", 5, 2)

	products, total, err := svc.ListProducts(context.Background(), 1, 20, "usb")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "USB Hub", products[0].Name)
}
