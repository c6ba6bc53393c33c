package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fernandezlibros/ebookstore/internal/domain/book"
	apperrors "github.com/fernandezlibros/ebookstore/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 数据库特定的错误在这一层转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := toBookModel(b)

	// 2. 插入数据库
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrDuplicateEntry
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 3. 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// Update 更新图书信息(评分、价格、畅销标记等)
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	// 使用Save更新所有字段
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新图书失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// List 分页查询图书列表
// 支持分类筛选、关键词搜索和多种排序
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	// 构建查询
	query := r.db.WithContext(ctx).Model(&BookModel{})

	// 分类筛选
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	// 关键词搜索(搜索标题、作者、简介)
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("title LIKE ? OR author LIKE ? OR description LIKE ?", keyword, keyword, keyword)
	}

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	// 排序
	switch params.SortBy {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	case "rating_desc":
		query = query.Order("rating DESC")
	case "created_at_desc":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("created_at DESC") // 默认按上架时间降序
	}

	// 分页
	offset := (params.Page - 1) * params.PageSize
	query = query.Limit(params.PageSize).Offset(offset)

	// 查询数据
	if err := query.Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	// 转换为领域实体
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}

	return books, total, nil
}

// FindBestsellers 查询畅销书
// 按评分降序,limit由service层裁剪到合理范围
func (r *bookRepository) FindBestsellers(ctx context.Context, limit int) ([]*book.Book, error) {
	var models []BookModel

	err := r.db.WithContext(ctx).
		Where("bestseller = ?", true).
		Order("rating DESC").
		Limit(limit).
		Find(&models).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询畅销书失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}

	return books, nil
}

// Categories 查询全部分类
// 教学要点:用Distinct+Pluck取单列去重,比SELECT *再去重省流量
func (r *bookRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string

	err := r.db.WithContext(ctx).
		Model(&BookModel{}).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询分类失败")
	}

	return categories, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Price:       b.Price,
		OrigPrice:   b.OriginalPrice,
		Rating:      b.Rating,
		ReviewCount: b.ReviewCount,
		Cover:       b.Cover,
		Description: b.Description,
		Category:    b.Category,
		Pages:       b.Pages,
		Bestseller:  b.Bestseller,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		Price:         model.Price,
		OriginalPrice: model.OrigPrice,
		Rating:        model.Rating,
		ReviewCount:   model.ReviewCount,
		Cover:         model.Cover,
		Description:   model.Description,
		Category:      model.Category,
		Pages:         model.Pages,
		Bestseller:    model.Bestseller,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
