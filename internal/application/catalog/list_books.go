package catalog

import (
	"context"

	"github.com/fernandezlibros/ebookstore/internal/domain/book"
	"github.com/fernandezlibros/ebookstore/internal/domain/pricing"
)

// ListBooksUseCase 书目列表查询用例
// 设计说明:
// 1. 支持分页、分类筛选、搜索、排序
// 2. 列表查询不返回description字段(减少数据传输量)
// 3. 价格同时返回"分"和格式化字符串,前端不做金额运算
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Category string // 分类筛选(空表示全部)
	Keyword  string // 搜索关键词(搜索标题、作者、简介)
	SortBy   string // 排序方式(price_asc, price_desc, rating_desc, created_at_desc)
}

// BookListItem 列表项DTO(不含description)
type BookListItem struct {
	ID               uint    `json:"id"`
	Title            string  `json:"title"`
	Author           string  `json:"author"`
	Price            int64   `json:"price"` // 现价(分)
	PriceUSD         string  `json:"price_usd"`
	OriginalPrice    int64   `json:"original_price"`
	OriginalPriceUSD string  `json:"original_price_usd"`
	Discount         int64   `json:"discount"` // 折扣金额(分,0表示无折扣)
	Rating           float64 `json:"rating"`
	ReviewCount      int     `json:"review_count"`
	Cover            string  `json:"cover"`
	Category         string  `json:"category"`
	Pages            int     `json:"pages"`
	Bestseller       bool    `json:"bestseller"`
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List       []BookListItem `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Execute 执行列表查询用例
// 学习要点:
// 1. 参数默认值处理(page默认1, pageSize默认20)
// 2. 参数范围限制(pageSize最大100)
// 3. 分类合法性由领域服务校验
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 1. 参数默认值与范围限制
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20 // 默认每页20条
	}
	if req.PageSize > 100 {
		req.PageSize = 100 // 最大每页100条
	}

	// 2. 构建查询参数
	params := book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Category: req.Category,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	}

	// 3. 调用领域服务查询
	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	// 4. 转换为DTO
	list := make([]BookListItem, len(books))
	for i, b := range books {
		list[i] = toBookListItem(b)
	}

	// 5. 计算总页数
	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// toBookListItem 领域实体 → 列表项DTO
func toBookListItem(b *book.Book) BookListItem {
	return BookListItem{
		ID:               b.ID,
		Title:            b.Title,
		Author:           b.Author,
		Price:            b.Price,
		PriceUSD:         pricing.FormatUSD(b.Price),
		OriginalPrice:    b.OriginalPrice,
		OriginalPriceUSD: pricing.FormatUSD(b.OriginalPrice),
		Discount:         b.Discount(),
		Rating:           b.Rating,
		ReviewCount:      b.ReviewCount,
		Cover:            b.Cover,
		Category:         b.Category,
		Pages:            b.Pages,
		Bestseller:       b.Bestseller,
	}
}
