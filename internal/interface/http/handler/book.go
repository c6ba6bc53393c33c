package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fernandezlibros/ebookstore/internal/application/catalog"
	"github.com/fernandezlibros/ebookstore/internal/interface/http/dto"
	apperrors "github.com/fernandezlibros/ebookstore/pkg/errors"
	"github.com/fernandezlibros/ebookstore/pkg/response"
)

// BookHandler 书目HTTP处理器
type BookHandler struct {
	listBooksUseCase   *catalog.ListBooksUseCase
	getBookUseCase     *catalog.GetBookUseCase
	bestsellersUseCase *catalog.BestsellersUseCase
	categoriesUseCase  *catalog.CategoriesUseCase
}

// NewBookHandler 创建书目处理器
func NewBookHandler(
	listBooksUseCase *catalog.ListBooksUseCase,
	getBookUseCase *catalog.GetBookUseCase,
	bestsellersUseCase *catalog.BestsellersUseCase,
	categoriesUseCase *catalog.CategoriesUseCase,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase:   listBooksUseCase,
		getBookUseCase:     getBookUseCase,
		bestsellersUseCase: bestsellersUseCase,
		categoriesUseCase:  categoriesUseCase,
	}
}

// ListBooks 书目列表
// @Summary      书目列表
// @Description  分页查询在售电子书,支持分类筛选、搜索和排序
// @Tags         书目
// @Produce      json
// @Param        page query int false "页码(默认1)"
// @Param        page_size query int false "每页数量(默认20,最大100)"
// @Param        category query string false "分类筛选"
// @Param        keyword query string false "搜索关键词"
// @Param        sort_by query string false "排序(price_asc/price_desc/rating_desc/created_at_desc)"
// @Success      200 {object} response.Response{data=catalog.ListBooksResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	result, err := h.listBooksUseCase.Execute(c.Request.Context(), catalog.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Category: req.Category,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBook 图书详情
// @Summary      图书详情
// @Description  查询单本电子书的完整信息(含简介)
// @Tags         书目
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=catalog.BookDetail}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return
	}

	result, err := h.getBookUseCase.Execute(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Bestsellers 畅销书
// @Summary      畅销书列表
// @Description  首页畅销栏目,按评分降序
// @Tags         书目
// @Produce      json
// @Param        limit query int false "数量(默认10,最大50)"
// @Success      200 {object} response.Response{data=[]catalog.BookListItem}
// @Router       /api/v1/books/bestsellers [get]
func (h *BookHandler) Bestsellers(c *gin.Context) {
	var req dto.BestsellersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.bestsellersUseCase.Execute(c.Request.Context(), req.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Categories 分类列表
// @Summary      分类列表
// @Description  返回全部图书分类,供列表页下拉框使用
// @Tags         书目
// @Produce      json
// @Success      200 {object} response.Response{data=[]string}
// @Router       /api/v1/books/categories [get]
func (h *BookHandler) Categories(c *gin.Context) {
	result, err := h.categoriesUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
