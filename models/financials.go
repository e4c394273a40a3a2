package models

// Financials số liệu tài chính của một đơn hàng.
// Đơn đã hủy luôn có cả ba giá trị bằng 0 dù discount/sale_price trong DB giữ nguyên.
type Financials struct {
	Revenue   int64 `json:"revenue"`
	Discount  int64 `json:"discount"`
	NetProfit int64 `json:"net_profit"`
}

// OrderFinancials tính doanh thu, chiết khấu, lợi nhuận ròng của một đơn hàng.
// Đây là nơi duy nhất định nghĩa công thức; mọi danh sách, báo cáo, bill
// đều phải đi qua hàm này hoặc cặp biểu thức SQL tương đương bên dưới.
func OrderFinancials(o Order) Financials {
	if o.Status == OrderStatusCancelled {
		return Financials{}
	}
	revenue := int64(o.Amount) * o.SalePrice
	return Financials{
		Revenue:   revenue,
		Discount:  o.Discount,
		NetProfit: revenue - o.Discount,
	}
}

// Biểu thức SQL tương đương OrderFinancials, dùng trong các truy vấn tổng hợp.
// Phải giữ đồng bộ với OrderFinancials.
const (
	// OrderRevenueSQL doanh thu, đơn hủy tính 0
	OrderRevenueSQL = "CASE WHEN orders.status = 'cancelled' THEN 0 ELSE orders.amount * orders.sale_price END"
	// OrderDiscountSQL chiết khấu, đơn hủy tính 0
	OrderDiscountSQL = "CASE WHEN orders.status = 'cancelled' THEN 0 ELSE orders.discount END"
	// OrderNetProfitSQL lợi nhuận ròng = doanh thu - chiết khấu
	OrderNetProfitSQL = "(" + OrderRevenueSQL + ") - (" + OrderDiscountSQL + ")"
)

// OrderAggregate kết quả tổng hợp trên một tập đơn hàng
type OrderAggregate struct {
	OrderCount     int64 `json:"order_count"`
	TotalAmount    int64 `json:"total_amount"`
	TotalDiscount  int64 `json:"total_discount"`
	TotalRevenue   int64 `json:"total_revenue"`
	TotalNetProfit int64 `json:"total_net_profit"`
}

// OrderAggregateSelect mệnh đề SELECT dùng chung cho mọi truy vấn tổng hợp đơn hàng
const OrderAggregateSelect = "COUNT(orders.id) AS order_count, " +
	"COALESCE(SUM(orders.amount), 0) AS total_amount, " +
	"COALESCE(SUM(" + OrderDiscountSQL + "), 0) AS total_discount, " +
	"COALESCE(SUM(" + OrderRevenueSQL + "), 0) AS total_revenue, " +
	"COALESCE(SUM(" + OrderNetProfitSQL + "), 0) AS total_net_profit"
