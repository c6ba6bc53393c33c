package checkout

import (
	"context"

	"github.com/fernandezlibros/ebookstore/internal/domain/order"
	"github.com/fernandezlibros/ebookstore/internal/domain/pricing"
)

// GetOrderUseCase 订单查询用例
// 游客凭订单号查询,必须校验订单归属当前会话
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建订单查询用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// OrderView 订单视图DTO
type OrderView struct {
	OrderNo     string             `json:"order_no"`
	Status      string             `json:"status"`
	Email       string             `json:"email"`
	Subtotal    int64              `json:"subtotal"`
	Tax         int64              `json:"tax"`
	Total       int64              `json:"total"`
	SubtotalUSD string             `json:"subtotal_usd"`
	TaxUSD      string             `json:"tax_usd"`
	TotalUSD    string             `json:"total_usd"`
	Items       []CheckoutItemView `json:"items"`
	PaidAt      string             `json:"paid_at,omitempty"`
	CreatedAt   string             `json:"created_at"`
}

// Execute 查询单个订单
// 教学要点:订单不属于当前会话时返回"订单不存在"而不是"无权限",
// 避免向外界泄露订单号是否存在
func (uc *GetOrderUseCase) Execute(ctx context.Context, sessionID, orderNo string) (*OrderView, error) {
	ord, err := uc.orderRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}

	if !ord.IsOwnedBy(sessionID) {
		return nil, order.ErrOrderNotFound
	}

	return toOrderView(ord), nil
}

// ListOrdersUseCase 会话订单列表查询用例
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建订单列表查询用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// ListOrdersResponse 订单列表响应DTO
type ListOrdersResponse struct {
	List     []OrderView `json:"list"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// Execute 查询当前会话的订单列表
func (uc *ListOrdersUseCase) Execute(ctx context.Context, sessionID string, page, pageSize int) (*ListOrdersResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	orders, total, err := uc.orderRepo.ListBySession(ctx, sessionID, page, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]OrderView, len(orders))
	for i, ord := range orders {
		list[i] = *toOrderView(ord)
	}

	return &ListOrdersResponse{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// toOrderView 领域实体 → 订单视图DTO
func toOrderView(ord *order.Order) *OrderView {
	items := make([]CheckoutItemView, len(ord.Items))
	for i, item := range ord.Items {
		items[i] = CheckoutItemView{
			BookID:      item.BookID,
			Title:       item.Title,
			Quantity:    item.Quantity,
			Price:       item.Price,
			DownloadURL: item.DownloadURL,
		}
	}

	view := &OrderView{
		OrderNo:     ord.OrderNo,
		Status:      ord.Status.Code(),
		Email:       ord.Customer.Email,
		Subtotal:    ord.Subtotal,
		Tax:         ord.Tax,
		Total:       ord.Total,
		SubtotalUSD: pricing.FormatUSD(ord.Subtotal),
		TaxUSD:      pricing.FormatUSD(ord.Tax),
		TotalUSD:    pricing.FormatUSD(ord.Total),
		Items:       items,
		CreatedAt:   ord.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if ord.PaidAt != nil {
		view.PaidAt = ord.PaidAt.Format("2006-01-02 15:04:05")
	}
	return view
}
