package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"navybaby/database"
	"navybaby/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler xử lý xuất dữ liệu
type ExportHandler struct{}

// NewExportHandler tạo handler xuất dữ liệu
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// queryOrdersForExport lấy đơn hàng trong khoảng ngày kèm bộ lọc chung
func (h *ExportHandler) queryOrdersForExport(c *gin.Context) ([]models.Order, string, string, bool) {
	startStr := c.Query("date_from")
	endStr := c.Query("date_to")
	if startStr == "" || endStr == "" {
		BadRequest(c, "Vui lòng cung cấp date_from và date_to")
		return nil, "", "", false
	}

	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		BadRequest(c, "Ngày bắt đầu không hợp lệ, định dạng: 2006-01-02")
		return nil, "", "", false
	}
	end, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		BadRequest(c, "Ngày kết thúc không hợp lệ, định dạng: 2006-01-02")
		return nil, "", "", false
	}
	end = end.Add(24*time.Hour - time.Second)

	query := applyOrderListFilters(c, database.DB.Model(&models.Order{})).
		Where("orders.created_at >= ? AND orders.created_at <= ?", start, end)

	var orders []models.Order
	err = query.Preload("Customer").Preload("Product").Preload("Color").Preload("Size").
		Order("orders.created_at DESC").
		Find(&orders).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Truy vấn thất bại"))
		return nil, "", "", false
	}
	return orders, startStr, endStr, true
}

// orderExportRow một dòng xuất của đơn hàng
func orderExportRow(order models.Order) []interface{} {
	fin := models.OrderFinancials(order)
	customerName, productName := "", ""
	if order.Customer != nil {
		customerName = order.Customer.Name
	}
	if order.Product != nil {
		productName = order.Product.Name
	}
	colorName, sizeName := "", ""
	if order.Color != nil {
		colorName = order.Color.Name
	}
	if order.Size != nil {
		sizeName = order.Size.Name
	}
	return []interface{}{
		order.Code,
		customerName,
		productName,
		colorName,
		sizeName,
		order.Amount,
		order.SalePrice,
		fin.Revenue,
		fin.Discount,
		fin.NetProfit,
		models.OrderStatusLabels[order.Status],
		order.Note,
		order.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// exportHeaders tiêu đề cột của file xuất đơn hàng
var exportHeaders = []string{
	"Mã đơn", "Khách hàng", "Sản phẩm", "Màu", "Size",
	"Số lượng", "Giá bán", "Doanh thu", "Chiết khấu", "Lợi nhuận ròng",
	"Trạng thái", "Ghi chú", "Ngày tạo",
}

// ExportExcel xuất đơn hàng ra file Excel
// @Summary Xuất đơn hàng ra Excel
// @Description Xuất danh sách đơn hàng trong khoảng ngày ra file .xlsx, áp dụng cùng bộ lọc với danh sách đơn
// @Tags Xuất dữ liệu
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param date_from query string true "Từ ngày (2006-01-02)"
// @Param date_to query string true "Đến ngày (2006-01-02)"
// @Param status query []string false "Lọc theo trạng thái"
// @Param supplier query []int false "Lọc theo nhà cung cấp"
// @Success 200 {file} file "File Excel"
// @Failure 400 {object} Response "Tham số không hợp lệ"
// @Router /api/v1/xuat/don-hang/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	orders, startStr, endStr, ok := h.queryOrdersForExport(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Đơn hàng"
	f.SetSheetName("Sheet1", sheet)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for rowIdx, order := range orders {
		for colIdx, value := range orderExportRow(order) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Tạo file Excel thất bại"))
		return
	}

	filename := fmt.Sprintf("don-hang_%s_%s.xlsx", startStr, endStr)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportCSV xuất đơn hàng ra file CSV
// @Summary Xuất đơn hàng ra CSV
// @Description Xuất danh sách đơn hàng trong khoảng ngày ra file CSV
// @Tags Xuất dữ liệu
// @Produce text/csv
// @Security BearerAuth
// @Param date_from query string true "Từ ngày (2006-01-02)"
// @Param date_to query string true "Đến ngày (2006-01-02)"
// @Success 200 {file} file "File CSV"
// @Failure 400 {object} Response "Tham số không hợp lệ"
// @Router /api/v1/xuat/don-hang/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	orders, startStr, endStr, ok := h.queryOrdersForExport(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// BOM để Excel hiển thị đúng tiếng Việt
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, "Tạo CSV thất bại")
		return
	}
	for _, order := range orders {
		row := orderExportRow(order)
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprintf("%v", v)
		}
		if err := writer.Write(record); err != nil {
			InternalError(c, "Tạo CSV thất bại")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "Tạo CSV thất bại")
		return
	}

	filename := fmt.Sprintf("don-hang_%s_%s.csv", startStr, endStr)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
