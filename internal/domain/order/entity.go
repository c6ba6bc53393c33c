package order

import (
	"time"
)

// OrderStatus 订单状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 定义为类型别名,便于添加方法
// 3. 电子书订单没有物流环节,支付成功后直接交付下载链接
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 1 // 待支付
	OrderStatusPaid      OrderStatus = 2 // 已支付
	OrderStatusDelivered OrderStatus = 3 // 已交付(下载链接已生成)
	OrderStatusFailed    OrderStatus = 4 // 支付失败
)

// String 实现Stringer接口(方便日志输出)
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "待支付"
	case OrderStatusPaid:
		return "已支付"
	case OrderStatusDelivered:
		return "已交付"
	case OrderStatusFailed:
		return "支付失败"
	default:
		return "未知状态"
	}
}

// Code 状态的API表示(对外输出英文小写)
func (s OrderStatus) Code() string {
	switch s {
	case OrderStatusPending:
		return "pending"
	case OrderStatusPaid:
		return "paid"
	case OrderStatusDelivered:
		return "delivered"
	case OrderStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Customer 下单人信息(值对象)
// 游客结算不需要注册账号,联系方式随订单保存
type Customer struct {
	Email     string
	FirstName string
	LastName  string
	Country   string
}

// Order 订单实体(聚合根)
// 教学要点:
// 1. Order是聚合根,OrderItem是子实体
// 2. SessionID关联游客会话,游客凭会话查询自己的订单
// 3. Subtotal/Tax/Total冗余存储(下单时刻的金额快照,防止税率调整影响历史订单)
type Order struct {
	ID        uint
	OrderNo   string      // 订单号(业务主键,全局唯一)
	SessionID string      // 游客会话ID
	Customer  Customer    // 下单人信息
	Subtotal  int64       // 税前小计(分)
	Tax       int64       // 税费(分)
	Total     int64       // 总金额(分)
	Status    OrderStatus // 订单状态
	Items     []OrderItem // 订单明细(聚合内的子实体)
	PaidAt    *time.Time  // 支付时间
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem 订单明细项
// 教学要点:
// 1. 不是独立聚合根,必须通过Order访问
// 2. Price字段记录"加入购物车时的价格"(历史价格快照)
// 3. Title冗余存储,目录下架后历史订单仍可展示
// 4. DownloadURL在订单交付时生成,此前为空
type OrderItem struct {
	ID          uint
	OrderID     uint   // 所属订单ID
	BookID      uint   // 图书ID
	Title       string // 下单时的书名快照
	Quantity    int    // 购买数量
	Price       int64  // 下单时的单价(分)
	DownloadURL string // 电子书下载链接(交付后生成)
}

// NewOrder 创建新订单(工厂方法)
// 教学要点:
// 1. 工厂方法封装创建逻辑,保证实体的有效性
// 2. 金额由调用方按统一口径算好传入,这里只做一致性校验
// 3. 初始状态为Pending(待支付)
func NewOrder(orderNo, sessionID string, customer Customer, items []OrderItem, subtotal, tax, total int64) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrInvalidOrderItems
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}
	if customer.Email == "" {
		return nil, ErrInvalidCustomer
	}

	now := time.Now()
	o := &Order{
		OrderNo:   orderNo,
		SessionID: sessionID,
		Customer:  customer,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
		Status:    OrderStatusPending,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 金额一致性校验:明细合计必须等于传入的小计
	if o.CalculateSubtotal() != subtotal {
		return nil, ErrTotalMismatch
	}
	return o, nil
}

// CanTransitionTo 检查是否可以转换到目标状态
// 教学要点:状态机设计,防止非法状态跳转
// 例如:不能从"已交付"退回"待支付"
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusPaid, OrderStatusFailed}, // 待支付→已支付/支付失败
		OrderStatusPaid:      {OrderStatusDelivered},               // 已支付→已交付
		OrderStatusDelivered: {},                                   // 已交付→终态
		OrderStatusFailed:    {},                                   // 支付失败→终态
	}

	allowedTargets, exists := transitions[o.Status]
	if !exists {
		return false
	}

	for _, allowed := range allowedTargets {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
// 教学要点:
// 1. 先检查是否可以转换(业务规则校验)
// 2. 转换成功更新UpdatedAt(审计追踪)
func (o *Order) TransitionTo(target OrderStatus) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// Pay 支付成功(领域行为)
func (o *Order) Pay() error {
	if err := o.TransitionTo(OrderStatusPaid); err != nil {
		return err
	}
	now := time.Now()
	o.PaidAt = &now
	return nil
}

// Deliver 交付订单:为每条明细生成下载链接
// links按明细顺序传入,数量必须一致
func (o *Order) Deliver(links []string) error {
	if len(links) != len(o.Items) {
		return ErrInvalidOrderItems
	}
	if err := o.TransitionTo(OrderStatusDelivered); err != nil {
		return err
	}
	for i := range o.Items {
		o.Items[i].DownloadURL = links[i]
	}
	return nil
}

// Fail 支付失败(领域行为)
func (o *Order) Fail() error {
	return o.TransitionTo(OrderStatusFailed)
}

// CalculateSubtotal 根据明细实时计算税前小计
// 教学要点:用于创建订单时验证调用方传递的金额是否正确
func (o *Order) CalculateSubtotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定会话
// 教学要点:权限校验,防止游客访问他人订单
func (o *Order) IsOwnedBy(sessionID string) bool {
	return o.SessionID == sessionID
}
