package api

import (
	"time"

	"navybaby/database"
	"navybaby/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ReportHandler xử lý báo cáo tổng hợp
type ReportHandler struct{}

// NewReportHandler tạo handler báo cáo
func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

// TimelineBucket số liệu một ngày trong dòng thời gian
type TimelineBucket struct {
	Date string `json:"date"`
	models.OrderAggregate
}

// Overview bảng điều khiển tổng quan
// @Summary Tổng quan hệ thống
// @Description Số lượng khách/sản phẩm/đơn, tổng hợp tài chính đơn hàng, thu chi và số dư ví
// @Tags Báo cáo
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Router /api/v1/bao-cao/tong-quan [get]
func (h *ReportHandler) Overview(c *gin.Context) {
	var customerCount, productCount, orderCount int64
	database.DB.Model(&models.Customer{}).Count(&customerCount)
	database.DB.Model(&models.Product{}).Count(&productCount)
	database.DB.Model(&models.Order{}).Count(&orderCount)

	// Số đơn theo từng trạng thái
	type statusRow struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusRows []statusRow
	database.DB.Model(&models.Order{}).
		Select("orders.status AS status, COUNT(orders.id) AS count").
		Group("orders.status").
		Scan(&statusRows)
	statusCounts := map[string]int64{}
	for _, row := range statusRows {
		statusCounts[row.Status] = row.Count
	}

	var totals models.OrderAggregate
	err := database.DB.Model(&models.Order{}).
		Select(models.OrderAggregateSelect).
		Scan(&totals).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tổng hợp đơn hàng thất bại"))
		return
	}

	var income, expense decimal.Decimal
	database.DB.Model(&models.FinanceTransaction{}).
		Joins("JOIN finance_categories ON finance_categories.id = finance_transactions.category_id").
		Where("finance_categories.type = ?", models.FinanceTypeIncome).
		Select("COALESCE(SUM(finance_transactions.amount), 0)").
		Scan(&income)
	database.DB.Model(&models.FinanceTransaction{}).
		Joins("JOIN finance_categories ON finance_categories.id = finance_transactions.category_id").
		Where("finance_categories.type = ?", models.FinanceTypeExpense).
		Select("COALESCE(SUM(finance_transactions.amount), 0)").
		Scan(&expense)

	var wallets []models.Wallet
	database.DB.Find(&wallets)
	walletTotals := map[string]decimal.Decimal{}
	for _, w := range wallets {
		walletTotals[w.Currency] = walletTotals[w.Currency].Add(w.Balance)
	}

	Success(c, gin.H{
		"customer_count": customerCount,
		"product_count":  productCount,
		"order_count":    orderCount,
		"status_counts":  statusCounts,
		"order_totals":   totals,
		"finance": gin.H{
			"total_income":  income,
			"total_expense": expense,
			"net":           income.Sub(expense),
		},
		"wallet_totals": walletTotals,
	})
}

// Timeline dòng thời gian doanh thu theo ngày
// @Summary Dòng thời gian doanh thu
// @Description Số liệu đơn hàng theo từng ngày trong khoảng start..end, ngày không có đơn vẫn trả về 0
// @Tags Báo cáo
// @Produce json
// @Security BearerAuth
// @Param start query string false "Từ ngày (2006-01-02), mặc định 29 ngày trước"
// @Param end query string false "Đến ngày (2006-01-02), mặc định hôm nay"
// @Success 200 {object} Response{data=[]TimelineBucket}
// @Failure 400 {object} Response "Khoảng ngày không hợp lệ"
// @Router /api/v1/bao-cao/dong-thoi-gian [get]
func (h *ReportHandler) Timeline(c *gin.Context) {
	now := time.Now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	start := end.AddDate(0, 0, -29)

	if v := c.Query("start"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			BadRequest(c, "Ngày bắt đầu không hợp lệ, định dạng: 2006-01-02")
			return
		}
		start = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			BadRequest(c, "Ngày kết thúc không hợp lệ, định dạng: 2006-01-02")
			return
		}
		end = t
	}
	if end.Before(start) {
		BadRequest(c, "Ngày kết thúc phải sau ngày bắt đầu")
		return
	}

	type dayRow struct {
		Day string `gorm:"column:day"`
		models.OrderAggregate
	}
	var rows []dayRow
	err := database.DB.Model(&models.Order{}).
		Where("orders.created_at >= ? AND orders.created_at < ?", start, end.AddDate(0, 0, 1)).
		Select("DATE(orders.created_at) AS day, " + models.OrderAggregateSelect).
		Group("DATE(orders.created_at)").
		Scan(&rows).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tổng hợp thất bại"))
		return
	}

	byDay := make(map[string]models.OrderAggregate, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row.OrderAggregate
	}

	// Trả đủ mọi ngày trong khoảng, ngày trống là một dòng toàn 0
	days := int(end.Sub(start).Hours()/24) + 1
	buckets := make([]TimelineBucket, 0, days)
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d).Format("2006-01-02")
		buckets = append(buckets, TimelineBucket{
			Date:           date,
			OrderAggregate: byDay[date],
		})
	}

	Success(c, buckets)
}

// Orders danh sách đơn phục vụ trang báo đơn, mặc định sắp theo lần cập nhật mới nhất
// @Summary Danh sách đơn cho báo cáo
// @Description Như danh sách đơn hàng nhưng mặc định sắp theo updated_desc để đơn vừa thao tác nổi lên đầu
// @Tags Báo cáo
// @Produce json
// @Security BearerAuth
// @Param page query int false "Trang" default(1)
// @Param page_size query int false "Số bản ghi mỗi trang" default(10)
// @Param status query []string false "Lọc theo trạng thái"
// @Param supplier query []int false "Lọc theo nhà cung cấp"
// @Param q query string false "Tìm kiếm"
// @Param sort query string false "Khóa sắp xếp" default(updated_desc)
// @Success 200 {object} Response
// @Router /api/v1/bao-cao/don-hang [get]
func (h *ReportHandler) Orders(c *gin.Context) {
	if c.Query("sort") == "" {
		q := c.Request.URL.Query()
		q.Set("sort", "updated_desc")
		c.Request.URL.RawQuery = q.Encode()
	}
	NewOrderHandler().List(c)
}
