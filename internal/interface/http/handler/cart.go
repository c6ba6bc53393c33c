package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appcart "github.com/fernandezlibros/ebookstore/internal/application/cart"
	"github.com/fernandezlibros/ebookstore/internal/interface/http/dto"
	"github.com/fernandezlibros/ebookstore/internal/interface/http/middleware"
	apperrors "github.com/fernandezlibros/ebookstore/pkg/errors"
	"github.com/fernandezlibros/ebookstore/pkg/response"
)

// CartHandler 购物车HTTP处理器
// 所有接口都要求会话中间件先行,会话ID从Context取
type CartHandler struct {
	cartUseCase *appcart.CartUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(cartUseCase *appcart.CartUseCase) *CartHandler {
	return &CartHandler{
		cartUseCase: cartUseCase,
	}
}

// GetCart 查询购物车
// @Summary      查询购物车
// @Description  返回当前会话的购物车(明细+小计/税费/总计+面板状态)
// @Tags         购物车
// @Produce      json
// @Success      200 {object} response.Response{data=cart.CartView}
// @Router       /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := middleware.MustGetSessionID(c)

	result, err := h.cartUseCase.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AddItem 加购
// @Summary      加购一本书
// @Description  同一本书重复加购数量+1,单价保持首次加购时的价格
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Param        request body dto.AddCartItemRequest true "图书ID"
// @Success      200 {object} response.Response{data=cart.CartView}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	sessionID := middleware.MustGetSessionID(c)

	result, err := h.cartUseCase.AddItem(c.Request.Context(), sessionID, req.BookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateItem 调整数量
// @Summary      调整某本书的数量
// @Description  quantity为0等价于移除该行
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateCartItemRequest true "目标数量"
// @Success      200 {object} response.Response{data=cart.CartView}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/cart/items/{id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || bookID == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	sessionID := middleware.MustGetSessionID(c)

	result, err := h.cartUseCase.UpdateQuantity(c.Request.Context(), sessionID, uint(bookID), *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RemoveItem 移除某本书
// @Summary      移除某本书
// @Tags         购物车
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=cart.CartView}
// @Router       /api/v1/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || bookID == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return
	}

	sessionID := middleware.MustGetSessionID(c)

	result, err := h.cartUseCase.RemoveItem(c.Request.Context(), sessionID, uint(bookID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Clear 清空购物车
// @Summary      清空购物车
// @Tags         购物车
// @Produce      json
// @Success      200 {object} response.Response{data=cart.CartView}
// @Router       /api/v1/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	sessionID := middleware.MustGetSessionID(c)

	result, err := h.cartUseCase.Clear(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SetPanel 设置迷你购物车面板开关
// @Summary      设置购物车面板开关
// @Description  面板开关状态随会话保存,刷新页面后保持
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Param        request body dto.SetPanelRequest true "开关状态"
// @Success      200 {object} response.Response
// @Router       /api/v1/cart/panel [put]
func (h *CartHandler) SetPanel(c *gin.Context) {
	var req dto.SetPanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	sessionID := middleware.MustGetSessionID(c)

	if err := h.cartUseCase.SetPanelOpen(c.Request.Context(), sessionID, *req.Open); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
