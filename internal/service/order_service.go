package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs

type OrderItemRequest struct {
	ProductID   string           `json:"product" binding:"required"`
	Quantity    int              `json:"quantity" binding:"required,gt=0"`
	PriceAtSale *decimal.Decimal `json:"price_at_sale"` // defaults to the product's current sell price
}

type CreateOrderRequest struct {
	CustomerID    *string            `json:"customer"`
	OrderDate     time.Time          `json:"order_date" binding:"required"`
	PaymentMethod string             `json:"payment_method" binding:"required,oneof=CASH UPI CARD OTHER"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest replaces only what it carries. A nil Items slice keeps
// the existing line items; a non-nil slice replaces them wholesale. Stock is
// not re-adjusted on update.
type UpdateOrderRequest struct {
	CustomerID    *string            `json:"customer"` // empty string clears the reference
	OrderDate     *time.Time         `json:"order_date"`
	PaymentMethod *string            `json:"payment_method" binding:"omitempty,oneof=CASH UPI CARD OTHER"`
	Items         []OrderItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

type OrderItemResponse struct {
	ID              string `json:"id"`
	Product         string `json:"product"`
	ProductName     string `json:"product_name"`
	ProductSKU      string `json:"product_sku"`
	ProductCategory string `json:"product_category"`
	Quantity        int    `json:"quantity"`
	PriceAtSale     string `json:"price_at_sale"`
	TotalPrice      string `json:"total_price"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	Customer      *string             `json:"customer"`
	CustomerName  string              `json:"customer_name"`
	OrderDate     string              `json:"order_date"`
	PaymentMethod string              `json:"payment_method"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   string              `json:"total_amount"`
	CreatedAt     string              `json:"created_at"`
	UpdatedAt     string              `json:"updated_at"`
}

// LowStockAlert is broadcast over the websocket hub when an order leaves a
// product at or below its threshold.
type LowStockAlert struct {
	ProductID         string `json:"product_id"`
	Name              string `json:"name"`
	SKU               string `json:"sku"`
	Stock             int    `json:"stock"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

type OrderService interface {
	ListOrders(ctx context.Context, page, limit int) ([]OrderResponse, int64, error)
	GetOrder(ctx context.Context, id string) (OrderResponse, error)
	CreateOrder(ctx context.Context, req CreateOrderRequest) (OrderResponse, error)
	UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (OrderResponse, error)
	DeleteOrder(ctx context.Context, id string) error
}

type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

func toOrderResponse(o *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	total := decimal.Zero
	for i := range o.Items {
		item := &o.Items[i]
		lineTotal := item.TotalPrice()
		total = total.Add(lineTotal)
		items = append(items, OrderItemResponse{
			ID:              item.ID.String(),
			Product:         item.ProductID.String(),
			ProductName:     item.Product.Name,
			ProductSKU:      item.Product.SKU,
			ProductCategory: item.Product.Category,
			Quantity:        item.Quantity,
			PriceAtSale:     item.PriceAtSale.StringFixed(2),
			TotalPrice:      lineTotal.StringFixed(2),
		})
	}

	res := OrderResponse{
		ID:            o.ID.String(),
		OrderDate:     o.OrderDate.Format(time.RFC3339),
		PaymentMethod: o.PaymentMethod,
		Items:         items,
		TotalAmount:   total.StringFixed(2),
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     o.UpdatedAt.Format(time.RFC3339),
	}
	if o.CustomerID != nil {
		id := o.CustomerID.String()
		res.Customer = &id
	}
	if o.Customer != nil {
		res.CustomerName = o.Customer.Name
	}
	return res
}

func (s *orderService) ListOrders(ctx context.Context, page, limit int) ([]OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	res := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, toOrderResponse(&orders[i]))
	}
	return res, total, nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (OrderResponse, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return OrderResponse{}, err
	}
	return toOrderResponse(order), nil
}

// CreateOrder inserts the order, its line items, and the stock decrements as a
// single transaction. A missing price_at_sale snapshots the product's current
// sell price. Stock is decremented unconditionally and may go negative.
func (s *orderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (OrderResponse, error) {
	if err := validateItems(req.Items); err != nil {
		return OrderResponse{}, err
	}

	customerID, err := s.resolveCustomer(ctx, req.CustomerID)
	if err != nil {
		return OrderResponse{}, err
	}

	order := model.Order{
		CustomerID:    customerID,
		OrderDate:     req.OrderDate,
		PaymentMethod: req.PaymentMethod,
	}

	var alerts []LowStockAlert
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Create(txCtx, &order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, itemReq := range req.Items {
			product, err := s.resolveProduct(txCtx, itemReq.ProductID)
			if err != nil {
				return err
			}

			priceAtSale := product.SellPrice
			if itemReq.PriceAtSale != nil {
				priceAtSale = *itemReq.PriceAtSale
			}

			item := &model.OrderItem{
				OrderID:     order.ID,
				ProductID:   product.ID,
				Quantity:    itemReq.Quantity,
				PriceAtSale: priceAtSale,
			}
			if err := s.orderRepo.CreateItem(txCtx, item); err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}

			if err := s.productRepo.AdjustStock(txCtx, product.ID, -itemReq.Quantity); err != nil {
				return fmt.Errorf("failed to adjust stock for %s: %w", product.SKU, err)
			}

			stockAfter := product.Stock - itemReq.Quantity
			if stockAfter <= product.LowStockThreshold {
				alerts = append(alerts, LowStockAlert{
					ProductID:         product.ID.String(),
					Name:              product.Name,
					SKU:               product.SKU,
					Stock:             stockAfter,
					LowStockThreshold: product.LowStockThreshold,
				})
			}
		}
		return nil
	})
	if err != nil {
		return OrderResponse{}, err
	}

	if s.hub != nil {
		for _, alert := range alerts {
			s.hub.BroadcastEvent("product.low_stock", alert)
		}
	}

	created, err := s.orderRepo.FindByIDWithItems(ctx, order.ID)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("failed to reload order: %w", err)
	}
	return toOrderResponse(created), nil
}

// UpdateOrder rewrites order fields and, when items are supplied, replaces the
// line items. It deliberately does not reconcile stock for changed items.
func (s *orderService) UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (OrderResponse, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return OrderResponse{}, err
	}
	if req.Items != nil {
		if err := validateItems(req.Items); err != nil {
			return OrderResponse{}, err
		}
	}

	if req.CustomerID != nil {
		if *req.CustomerID == "" {
			order.CustomerID = nil
		} else {
			customerID, err := s.resolveCustomer(ctx, req.CustomerID)
			if err != nil {
				return OrderResponse{}, err
			}
			order.CustomerID = customerID
		}
	}
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	}
	if req.PaymentMethod != nil {
		order.PaymentMethod = *req.PaymentMethod
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order.Customer = nil
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		if req.Items == nil {
			return nil
		}

		if err := s.orderRepo.DeleteItemsByOrderID(txCtx, order.ID); err != nil {
			return fmt.Errorf("failed to clear order items: %w", err)
		}
		for _, itemReq := range req.Items {
			product, err := s.resolveProduct(txCtx, itemReq.ProductID)
			if err != nil {
				return err
			}
			priceAtSale := product.SellPrice
			if itemReq.PriceAtSale != nil {
				priceAtSale = *itemReq.PriceAtSale
			}
			item := &model.OrderItem{
				OrderID:     order.ID,
				ProductID:   product.ID,
				Quantity:    itemReq.Quantity,
				PriceAtSale: priceAtSale,
			}
			if err := s.orderRepo.CreateItem(txCtx, item); err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return OrderResponse{}, err
	}

	updated, err := s.orderRepo.FindByIDWithItems(ctx, order.ID)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("failed to reload order: %w", err)
	}
	return toOrderResponse(updated), nil
}

// DeleteOrder removes the order and its items. Decremented stock is not
// restored.
func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.DeleteItemsByOrderID(txCtx, order.ID); err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := s.orderRepo.Delete(txCtx, order.ID); err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

func validateItems(items []OrderItemRequest) error {
	if len(items) == 0 {
		return &apperror.ValidationError{Field: "items", Message: "at least one item is required"}
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return &apperror.ValidationError{Field: "quantity", Message: "must be at least 1"}
		}
	}
	return nil
}

func (s *orderService) resolveCustomer(ctx context.Context, id *string) (*uuid.UUID, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	customerID, err := uuid.Parse(*id)
	if err != nil {
		return nil, &apperror.ValidationError{Field: "customer", Message: "invalid id"}
	}
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Entity: "customer", ID: *id}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &customerID, nil
}

func (s *orderService) resolveProduct(ctx context.Context, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, &apperror.ValidationError{Field: "product", Message: "invalid id"}
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Entity: "product", ID: id}
		}
		return nil, fmt.Errorf("failed to find product %s: %w", id, err)
	}
	return product, nil
}

func (s *orderService) findOrder(ctx context.Context, id string) (*model.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, &apperror.NotFoundError{Entity: "order", ID: id}
	}
	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Entity: "order", ID: id}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return order, nil
}
