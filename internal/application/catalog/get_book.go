package catalog

import (
	"context"

	"github.com/fernandezlibros/ebookstore/internal/domain/book"
	"github.com/fernandezlibros/ebookstore/internal/domain/pricing"
)

// GetBookUseCase 图书详情查询用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{
		bookService: bookService,
	}
}

// BookDetail 图书详情DTO(含description)
type BookDetail struct {
	ID               uint    `json:"id"`
	Title            string  `json:"title"`
	Author           string  `json:"author"`
	Price            int64   `json:"price"` // 现价(分)
	PriceUSD         string  `json:"price_usd"`
	OriginalPrice    int64   `json:"original_price"`
	OriginalPriceUSD string  `json:"original_price_usd"`
	Discount         int64   `json:"discount"` // 折扣金额(分)
	HasDiscount      bool    `json:"has_discount"`
	Rating           float64 `json:"rating"`
	ReviewCount      int     `json:"review_count"`
	Cover            string  `json:"cover"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Pages            int     `json:"pages"`
	Bestseller       bool    `json:"bestseller"`
	CreatedAt        string  `json:"created_at"`
}

// Execute 执行详情查询
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDetail, error) {
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &BookDetail{
		ID:               b.ID,
		Title:            b.Title,
		Author:           b.Author,
		Price:            b.Price,
		PriceUSD:         pricing.FormatUSD(b.Price),
		OriginalPrice:    b.OriginalPrice,
		OriginalPriceUSD: pricing.FormatUSD(b.OriginalPrice),
		Discount:         b.Discount(),
		HasDiscount:      b.HasDiscount(),
		Rating:           b.Rating,
		ReviewCount:      b.ReviewCount,
		Cover:            b.Cover,
		Description:      b.Description,
		Category:         b.Category,
		Pages:            b.Pages,
		Bestseller:       b.Bestseller,
		CreatedAt:        b.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
