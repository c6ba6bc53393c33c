package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
type Repository interface {
	// Create 创建图书(目录初始化时灌入种子数据)
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// List 分页查询图书列表
	// params包含:page, pageSize, category, keyword, sortBy
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// FindBestsellers 查询畅销图书(按评分降序)
	FindBestsellers(ctx context.Context, limit int) ([]*Book, error)

	// Categories 查询全部分类(去重)
	Categories(ctx context.Context) ([]string, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Category string // 分类过滤,空表示全部
	Keyword  string // 搜索关键词(搜索标题、作者)
	SortBy   string // 排序字段(price_asc, price_desc, rating_desc, created_at_desc)
}
