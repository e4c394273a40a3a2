package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderFinancials(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  Financials
	}{
		{
			name:  "đơn thường",
			order: Order{Amount: 2, SalePrice: 100, Discount: 10, Status: OrderStatusCreated},
			want:  Financials{Revenue: 200, Discount: 10, NetProfit: 190},
		},
		{
			name:  "đơn hủy tính 0 dù có giá và chiết khấu",
			order: Order{Amount: 3, SalePrice: 500, Discount: 50, Status: OrderStatusCancelled},
			want:  Financials{},
		},
		{
			name:  "không chiết khấu",
			order: Order{Amount: 1, SalePrice: 250000, Status: OrderStatusInStock},
			want:  Financials{Revenue: 250000, Discount: 0, NetProfit: 250000},
		},
		{
			name:  "chiết khấu bằng doanh thu",
			order: Order{Amount: 1, SalePrice: 100, Discount: 100, Status: OrderStatusReconciled},
			want:  Financials{Revenue: 100, Discount: 100, NetProfit: 0},
		},
		{
			name:  "chiết khấu lớn hơn doanh thu cho lợi nhuận âm",
			order: Order{Amount: 1, SalePrice: 100, Discount: 150, Status: OrderStatusReported},
			want:  Financials{Revenue: 100, Discount: 150, NetProfit: -50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderFinancials(tt.order))
		})
	}
}

// Một đơn thường và một đơn hủy: tổng hợp chỉ tính đơn thường
func TestOrderFinancials_MixedWithCancelled(t *testing.T) {
	orders := []Order{
		{Amount: 2, SalePrice: 100, Discount: 10, Status: OrderStatusCreated},
		{Amount: 5, SalePrice: 999, Discount: 99, Status: OrderStatusCancelled},
	}

	var total Financials
	for _, o := range orders {
		f := OrderFinancials(o)
		total.Revenue += f.Revenue
		total.Discount += f.Discount
		total.NetProfit += f.NetProfit
	}

	assert.Equal(t, int64(200), total.Revenue)
	assert.Equal(t, int64(10), total.Discount)
	assert.Equal(t, int64(190), total.NetProfit)
}

func TestIsValidOrderStatus(t *testing.T) {
	for status := range OrderStatusLabels {
		assert.True(t, IsValidOrderStatus(status))
	}
	assert.False(t, IsValidOrderStatus("shipped"))
	assert.False(t, IsValidOrderStatus(""))
	assert.False(t, IsValidOrderStatus("CANCELLED"))
}
