package book

import (
	"time"
)

// Book 图书实体(目录侧聚合根)
// DDD设计说明:
// 1. Book是电子书目录聚合的根实体,只负责展示与定价
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
//    例:19.99美元存储为1999分
// 3. 电子书没有库存概念,售卖不会售罄
type Book struct {
	ID            uint
	Title         string  // 书名
	Author        string  // 作者
	Price         int64   // 现价(单位:分)
	OriginalPrice int64   // 原价(分),用于展示划线价
	Rating        float64 // 平均评分(0-5)
	ReviewCount   int     // 评价数
	Cover         string  // 封面图片URL
	Description   string  // 图书描述
	Category      string  // 分类(如"Desarrollo Personal")
	Pages         int     // 页数
	Bestseller    bool    // 畅销标记
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 创建新图书(工厂方法)
// 业务规则校验放在工厂里,保证构造不出非法实体
func NewBook(title, author string, price, originalPrice int64, category string) (*Book, error) {
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if price < 1 || price > 99999999 {
		return nil, ErrInvalidPrice
	}
	// 原价低于现价没有展示意义,按现价处理
	if originalPrice < price {
		originalPrice = price
	}

	now := time.Now()
	return &Book{
		Title:         title,
		Author:        author,
		Price:         price,
		OriginalPrice: originalPrice,
		Category:      category,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Discount 折扣金额(分)
// 例:原价2499现价1999,返回500
func (b *Book) Discount() int64 {
	if b.OriginalPrice <= b.Price {
		return 0
	}
	return b.OriginalPrice - b.Price
}

// HasDiscount 是否在打折
func (b *Book) HasDiscount() bool {
	return b.Discount() > 0
}

// AddReview 追加一条评分,增量更新平均分
// 教学要点:avg' = (avg×n + stars) / (n+1),不需要回表重算
func (b *Book) AddReview(stars float64) error {
	if stars < 0 || stars > 5 {
		return ErrInvalidRating
	}
	total := b.Rating*float64(b.ReviewCount) + stars
	b.ReviewCount++
	b.Rating = total / float64(b.ReviewCount)
	b.UpdatedAt = time.Now()
	return nil
}

// MarkBestseller 标记/取消畅销
func (b *Book) MarkBestseller(flag bool) {
	b.Bestseller = flag
	b.UpdatedAt = time.Now()
}

// UpdatePrice 更新现价(领域行为)
// 业务规则:价格必须在合法区间内
func (b *Book) UpdatePrice(newPrice int64) error {
	if newPrice < 1 || newPrice > 99999999 {
		return ErrInvalidPrice
	}
	// 调价前的现价变成原价,前端自动出现划线价
	if newPrice < b.Price {
		b.OriginalPrice = b.Price
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now()
	return nil
}
