package order

import (
	"errors"
	"testing"
)

func sampleCustomer() Customer {
	return Customer{
		Email:     "lector@example.com",
		FirstName: "Ana",
		LastName:  "García",
		Country:   "ES",
	}
}

func sampleItems() []OrderItem {
	return []OrderItem{
		{BookID: 1, Title: "El Poder de la Mentalidad Positiva", Quantity: 2, Price: 1999},
		{BookID: 2, Title: "Hábitos que Transforman", Quantity: 1, Price: 1699},
	}
}

// TestNewOrder 测试订单工厂方法
func TestNewOrder(t *testing.T) {
	o, err := NewOrder("ORD123", "sess-1", sampleCustomer(), sampleItems(), 5697, 569, 6266)
	if err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}

	if o.Status != OrderStatusPending {
		t.Errorf("初始状态应为待支付,实际%v", o.Status)
	}
	if o.CalculateSubtotal() != 5697 {
		t.Errorf("明细小计错误: %d", o.CalculateSubtotal())
	}
}

// TestNewOrder_Validation 测试工厂方法的参数校验
func TestNewOrder_Validation(t *testing.T) {
	// 空明细
	if _, err := NewOrder("ORD1", "s", sampleCustomer(), nil, 0, 0, 0); !errors.Is(err, ErrInvalidOrderItems) {
		t.Errorf("空明细应返回ErrInvalidOrderItems,实际%v", err)
	}

	// 数量为0
	bad := []OrderItem{{BookID: 1, Quantity: 0, Price: 1999}}
	if _, err := NewOrder("ORD2", "s", sampleCustomer(), bad, 0, 0, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("数量为0应返回ErrInvalidQuantity,实际%v", err)
	}

	// 缺少邮箱
	if _, err := NewOrder("ORD3", "s", Customer{}, sampleItems(), 5697, 569, 6266); !errors.Is(err, ErrInvalidCustomer) {
		t.Errorf("缺少邮箱应返回ErrInvalidCustomer,实际%v", err)
	}

	// 金额与明细不一致
	if _, err := NewOrder("ORD4", "s", sampleCustomer(), sampleItems(), 9999, 999, 10998); !errors.Is(err, ErrTotalMismatch) {
		t.Errorf("金额不一致应返回ErrTotalMismatch,实际%v", err)
	}
}

// TestOrderStatusTransition 测试状态机转换规则
func TestOrderStatusTransition(t *testing.T) {
	o, _ := NewOrder("ORD5", "s", sampleCustomer(), sampleItems(), 5697, 569, 6266)

	// 待支付→已支付: 合法
	if err := o.Pay(); err != nil {
		t.Fatalf("待支付→已支付应成功: %v", err)
	}
	if o.PaidAt == nil {
		t.Error("支付成功后应记录支付时间")
	}

	// 已支付→支付失败: 非法
	if err := o.Fail(); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("已支付订单不应转为支付失败,实际%v", err)
	}

	// 已支付→已交付: 合法
	links := []string{"https://dl.example.com/1", "https://dl.example.com/2"}
	if err := o.Deliver(links); err != nil {
		t.Fatalf("已支付→已交付应成功: %v", err)
	}
	for i, item := range o.Items {
		if item.DownloadURL != links[i] {
			t.Errorf("明细%d下载链接未写入: %s", i, item.DownloadURL)
		}
	}

	// 已交付是终态
	if err := o.Pay(); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("已交付订单不应再次支付,实际%v", err)
	}
}

// TestOrderFail 测试支付失败路径
func TestOrderFail(t *testing.T) {
	o, _ := NewOrder("ORD6", "s", sampleCustomer(), sampleItems(), 5697, 569, 6266)

	if err := o.Fail(); err != nil {
		t.Fatalf("待支付→支付失败应成功: %v", err)
	}

	// 支付失败是终态
	if err := o.Pay(); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("失败订单不应再支付,实际%v", err)
	}
}

// TestDeliver_LinkCountMismatch 测试下载链接数量与明细不符
func TestDeliver_LinkCountMismatch(t *testing.T) {
	o, _ := NewOrder("ORD7", "s", sampleCustomer(), sampleItems(), 5697, 569, 6266)
	_ = o.Pay()

	if err := o.Deliver([]string{"only-one"}); !errors.Is(err, ErrInvalidOrderItems) {
		t.Errorf("链接数量不符应返回错误,实际%v", err)
	}
}

// TestIsOwnedBy 测试会话归属校验
func TestIsOwnedBy(t *testing.T) {
	o, _ := NewOrder("ORD8", "sess-abc", sampleCustomer(), sampleItems(), 5697, 569, 6266)

	if !o.IsOwnedBy("sess-abc") {
		t.Error("订单应属于创建它的会话")
	}
	if o.IsOwnedBy("sess-other") {
		t.Error("订单不应属于其他会话")
	}
}

// TestStatusCode 测试状态的API表示
func TestStatusCode(t *testing.T) {
	cases := map[OrderStatus]string{
		OrderStatusPending:   "pending",
		OrderStatusPaid:      "paid",
		OrderStatusDelivered: "delivered",
		OrderStatusFailed:    "failed",
	}
	for status, expected := range cases {
		if got := status.Code(); got != expected {
			t.Errorf("状态%d: expected=%s, got=%s", status, expected, got)
		}
	}
}
