package cart

import (
	"context"

	"github.com/fernandezlibros/ebookstore/internal/domain/book"
	"github.com/fernandezlibros/ebookstore/internal/domain/cart"
	"github.com/fernandezlibros/ebookstore/internal/domain/pricing"
	"github.com/fernandezlibros/ebookstore/pkg/metrics"
)

// CartUseCase 购物车用例
// 教学要点:
// 1. 加购只传bookID,价格/书名等商品信息由服务端从书目读取,
//    防止前端改价(与下单用"数据库价格"是同一个道理)
// 2. 聚合的修改遵循Load → 调用聚合方法 → Save三段式,
//    不变式全部由聚合保证,用例层不重复校验
// 3. 每个操作都打CartOperationsTotal指标,带operation/result标签
type CartUseCase struct {
	store       cart.Store
	bookService book.Service
}

// NewCartUseCase 创建购物车用例
func NewCartUseCase(store cart.Store, bookService book.Service) *CartUseCase {
	return &CartUseCase{
		store:       store,
		bookService: bookService,
	}
}

// CartItemView 购物车明细视图
type CartItemView struct {
	BookID       uint   `json:"book_id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Cover        string `json:"cover"`
	Category     string `json:"category"`
	Pages        int    `json:"pages"`
	Price        int64  `json:"price"` // 加购时锁定的单价(分)
	PriceUSD     string `json:"price_usd"`
	Quantity     int    `json:"quantity"`
	LineTotal    int64  `json:"line_total"` // 单价 × 数量(分)
	LineTotalUSD string `json:"line_total_usd"`
}

// CartView 购物车视图
// 小计/税费/总计三行由pricing统一计算,与结算页口径一致
type CartView struct {
	Items          []CartItemView `json:"items"`
	TotalItemCount int            `json:"total_item_count"`
	Subtotal       int64          `json:"subtotal"`
	Tax            int64          `json:"tax"`
	Total          int64          `json:"total"`
	SubtotalUSD    string         `json:"subtotal_usd"`
	TaxUSD         string         `json:"tax_usd"`
	TotalUSD       string         `json:"total_usd"`
	PanelOpen      bool           `json:"panel_open"`
}

// AddItem 加购一本书
// 同一本书重复加购时数量+1,单价保持首次加购时的价格
func (uc *CartUseCase) AddItem(ctx context.Context, sessionID string, bookID uint) (*CartView, error) {
	view, err := uc.mutate(ctx, sessionID, "add", func(c *cart.Cart) error {
		b, err := uc.bookService.GetBookByID(ctx, bookID)
		if err != nil {
			return err
		}

		_, err = c.Add(cart.Product{
			ID:       b.ID,
			Title:    b.Title,
			Author:   b.Author,
			Cover:    b.Cover,
			Category: b.Category,
			Price:    b.Price,
			Pages:    b.Pages,
		})
		return err
	})
	return view, err
}

// UpdateQuantity 调整某本书的数量
// quantity ≤ 0等价于移除该行
func (uc *CartUseCase) UpdateQuantity(ctx context.Context, sessionID string, bookID uint, quantity int) (*CartView, error) {
	return uc.mutate(ctx, sessionID, "set_quantity", func(c *cart.Cart) error {
		c.SetQuantity(bookID, quantity)
		return nil
	})
}

// RemoveItem 移除某本书
func (uc *CartUseCase) RemoveItem(ctx context.Context, sessionID string, bookID uint) (*CartView, error) {
	return uc.mutate(ctx, sessionID, "remove", func(c *cart.Cart) error {
		c.Remove(bookID)
		return nil
	})
}

// Clear 清空购物车
func (uc *CartUseCase) Clear(ctx context.Context, sessionID string) (*CartView, error) {
	return uc.mutate(ctx, sessionID, "clear", func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// GetCart 查询购物车
func (uc *CartUseCase) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	c, err := uc.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return uc.buildView(ctx, sessionID, c)
}

// SetPanelOpen 设置迷你购物车面板开关
func (uc *CartUseCase) SetPanelOpen(ctx context.Context, sessionID string, open bool) error {
	return uc.store.SetPanelOpen(ctx, sessionID, open)
}

// mutate 购物车修改三段式:Load → 修改 → Save
// 统一在这里打操作指标,成功/失败都有记录
func (uc *CartUseCase) mutate(ctx context.Context, sessionID, operation string, fn func(c *cart.Cart) error) (*CartView, error) {
	c, err := uc.store.Load(ctx, sessionID)
	if err != nil {
		uc.record(operation, "failure")
		return nil, err
	}

	if err := fn(c); err != nil {
		uc.record(operation, "failure")
		return nil, err
	}

	if err := uc.store.Save(ctx, sessionID, c); err != nil {
		uc.record(operation, "failure")
		return nil, err
	}

	uc.record(operation, "success")
	if metrics.CartItemCount != nil {
		metrics.ObserveHistogram(metrics.CartItemCount, float64(c.TotalItemCount()))
	}

	return uc.buildView(ctx, sessionID, c)
}

// record 记录购物车操作指标
func (uc *CartUseCase) record(operation, result string) {
	if metrics.CartOperationsTotal == nil {
		return
	}
	metrics.IncCounterVec(metrics.CartOperationsTotal, map[string]string{
		"operation": operation,
		"result":    result,
	})
}

// buildView 组装购物车视图
func (uc *CartUseCase) buildView(ctx context.Context, sessionID string, c *cart.Cart) (*CartView, error) {
	panelOpen, err := uc.store.IsPanelOpen(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lines := c.Items()
	items := make([]CartItemView, len(lines))
	for i, line := range lines {
		lineTotal := line.Price * int64(line.Quantity)
		items[i] = CartItemView{
			BookID:       line.ID,
			Title:        line.Title,
			Author:       line.Author,
			Cover:        line.Cover,
			Category:     line.Category,
			Pages:        line.Pages,
			Price:        line.Price,
			PriceUSD:     pricing.FormatUSD(line.Price),
			Quantity:     line.Quantity,
			LineTotal:    lineTotal,
			LineTotalUSD: pricing.FormatUSD(lineTotal),
		}
	}

	summary := pricing.Summarize(c.Subtotal())

	return &CartView{
		Items:          items,
		TotalItemCount: c.TotalItemCount(),
		Subtotal:       summary.Subtotal,
		Tax:            summary.Tax,
		Total:          summary.Total,
		SubtotalUSD:    pricing.FormatUSD(summary.Subtotal),
		TaxUSD:         pricing.FormatUSD(summary.Tax),
		TotalUSD:       pricing.FormatUSD(summary.Total),
		PanelOpen:      panelOpen,
	}, nil
}
