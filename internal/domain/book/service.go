package book

import (
	"context"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// ListBooks 分页查询图书列表
	// 业务规则:category非空时必须是已知分类
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// ListBestsellers 查询畅销图书
	ListBestsellers(ctx context.Context, limit int) ([]*Book, error)

	// ListCategories 查询全部分类
	ListCategories(ctx context.Context) ([]string, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	// 分类过滤前先校验分类是否存在,避免把"分类拼错"误解为"没有书"
	if params.Category != "" {
		categories, err := s.repo.Categories(ctx)
		if err != nil {
			return nil, 0, err
		}
		known := false
		for _, c := range categories {
			if c == params.Category {
				known = true
				break
			}
		}
		if !known {
			return nil, 0, ErrInvalidCategory
		}
	}

	return s.repo.List(ctx, params)
}

// ListBestsellers 查询畅销图书
func (s *service) ListBestsellers(ctx context.Context, limit int) ([]*Book, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.repo.FindBestsellers(ctx, limit)
}

// ListCategories 查询全部分类
func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}
