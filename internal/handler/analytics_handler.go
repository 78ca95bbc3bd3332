package handler

import (
	"net/http"
	"strconv"
	"time"

	"backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the dashboard aggregations. Unlike the CRUD
// endpoints these return the documented shapes directly, without the response
// envelope, because the dashboard consumes them as-is.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/analytics")
	{
		analytics.GET("/sales-summary", h.SalesSummary)
		analytics.GET("/monthly-sales", h.MonthlySales)
		analytics.GET("/top-products", h.TopProducts)
		analytics.GET("/expenses-summary", h.ExpensesSummary)
	}
}

// SalesSummary reports today/month/all-time revenue, expenses, profit, and counts
// @Summary      Sales summary
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  model.SalesSummary
// @Router       /analytics/sales-summary [get]
func (h *AnalyticsHandler) SalesSummary(c *gin.Context) {
	summary, err := h.analyticsService.SalesSummary(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// MonthlySales reports per-month order totals for the trailing 12 months
// @Summary      Monthly sales
// @Tags         analytics
// @Produce      json
// @Success      200  {array}  model.MonthlySales
// @Router       /analytics/monthly-sales [get]
func (h *AnalyticsHandler) MonthlySales(c *gin.Context) {
	sales, err := h.analyticsService.MonthlySales(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// TopProducts ranks products by total quantity sold
// @Summary      Top products
// @Tags         analytics
// @Produce      json
// @Param        limit  query     int  false  "Number of products to return (default 5)"
// @Success      200    {array}   model.ProductSales
// @Router       /analytics/top-products [get]
func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	products, err := h.analyticsService.TopProducts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// ExpensesSummary groups expenses by category over an optional date range
// @Summary      Expenses summary
// @Tags         analytics
// @Produce      json
// @Param        start  query     string  false  "Start date (YYYY-MM-DD, inclusive)"
// @Param        end    query     string  false  "End date (YYYY-MM-DD, inclusive)"
// @Success      200    {array}   model.CategoryExpense
// @Failure      400    {object}  response.Response  "Unparsable date"
// @Router       /analytics/expenses-summary [get]
func (h *AnalyticsHandler) ExpensesSummary(c *gin.Context) {
	summary, err := h.analyticsService.ExpensesSummary(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
