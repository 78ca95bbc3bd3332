package model

// SalesSummary carries the high-level dashboard metrics. Monetary figures are
// fixed-point decimal strings with 2 fractional digits.
type SalesSummary struct {
	TodaySales     string `json:"today_sales"`
	MonthSales     string `json:"month_sales"`
	TotalRevenue   string `json:"total_revenue"`
	TotalExpense   string `json:"total_expense"`
	TotalProfit    string `json:"total_profit"`
	TotalOrders    int64  `json:"total_orders"`
	TotalCustomers int64  `json:"total_customers"`
}

// MonthlySales is one month bucket of order totals, keyed by YYYY-MM
type MonthlySales struct {
	Month      string `json:"month"`
	TotalSales string `json:"total_sales"`
}

// ProductSales represents a product ranked by accumulated sold quantity
type ProductSales struct {
	ProductID     string `gorm:"column:product_id" json:"product_id"`
	Name          string `gorm:"column:name" json:"name"`
	SKU           string `gorm:"column:sku" json:"sku"`
	Category      string `gorm:"column:category" json:"category"`
	TotalQuantity int    `gorm:"column:total_quantity" json:"total_quantity"`
}

// CategoryExpense is one expense category with its summed amount
type CategoryExpense struct {
	Category    string `json:"category"`
	TotalAmount string `json:"total_amount"`
}
