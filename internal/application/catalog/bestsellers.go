package catalog

import (
	"context"

	"github.com/fernandezlibros/ebookstore/internal/domain/book"
)

// BestsellersUseCase 畅销书查询用例
// 首页"Bestsellers"栏目使用,按评分降序返回
type BestsellersUseCase struct {
	bookService book.Service
}

// NewBestsellersUseCase 创建畅销书查询用例
func NewBestsellersUseCase(bookService book.Service) *BestsellersUseCase {
	return &BestsellersUseCase{
		bookService: bookService,
	}
}

// Execute 查询畅销书
// limit范围限制由领域服务负责(非法值回落到默认10本)
func (uc *BestsellersUseCase) Execute(ctx context.Context, limit int) ([]BookListItem, error) {
	books, err := uc.bookService.ListBestsellers(ctx, limit)
	if err != nil {
		return nil, err
	}

	list := make([]BookListItem, len(books))
	for i, b := range books {
		list[i] = toBookListItem(b)
	}
	return list, nil
}

// CategoriesUseCase 分类列表查询用例
// 列表页的分类下拉框使用
type CategoriesUseCase struct {
	bookService book.Service
}

// NewCategoriesUseCase 创建分类查询用例
func NewCategoriesUseCase(bookService book.Service) *CategoriesUseCase {
	return &CategoriesUseCase{
		bookService: bookService,
	}
}

// Execute 查询全部分类
func (uc *CategoriesUseCase) Execute(ctx context.Context) ([]string, error) {
	return uc.bookService.ListCategories(ctx)
}
