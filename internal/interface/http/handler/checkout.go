package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fernandezlibros/ebookstore/internal/application/checkout"
	"github.com/fernandezlibros/ebookstore/internal/interface/http/dto"
	"github.com/fernandezlibros/ebookstore/internal/interface/http/middleware"
	apperrors "github.com/fernandezlibros/ebookstore/pkg/errors"
	"github.com/fernandezlibros/ebookstore/pkg/response"
)

// CheckoutHandler 结算HTTP处理器
type CheckoutHandler struct {
	checkoutUseCase   *checkout.CheckoutUseCase
	getOrderUseCase   *checkout.GetOrderUseCase
	listOrdersUseCase *checkout.ListOrdersUseCase
}

// NewCheckoutHandler 创建结算处理器
func NewCheckoutHandler(
	checkoutUseCase *checkout.CheckoutUseCase,
	getOrderUseCase *checkout.GetOrderUseCase,
	listOrdersUseCase *checkout.ListOrdersUseCase,
) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUseCase:   checkoutUseCase,
		getOrderUseCase:   getOrderUseCase,
		listOrdersUseCase: listOrdersUseCase,
	}
}

// Checkout 结算
// @Summary      结算购物车
// @Description  对当前会话的购物车下单、支付并交付下载链接,金额以服务端购物车为准
// @Tags         结算
// @Accept       json
// @Produce      json
// @Param        request body dto.CheckoutRequest true "联系信息"
// @Success      200 {object} response.Response{data=checkout.CheckoutResponse}
// @Failure      400 {object} response.Response "购物车为空/参数错误"
// @Failure      402 {object} response.Response "支付失败"
// @Router       /api/v1/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	// 2. 获取当前会话ID(由会话中间件注入)
	sessionID := middleware.MustGetSessionID(c)

	// 3. 调用应用层用例
	result, err := h.checkoutUseCase.Execute(c.Request.Context(), checkout.CheckoutRequest{
		SessionID: sessionID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Country:   req.Country,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetOrder 订单详情
// @Summary      订单详情
// @Description  凭订单号查询,只能查到本会话的订单
// @Tags         结算
// @Produce      json
// @Param        order_no path string true "订单号"
// @Success      200 {object} response.Response{data=checkout.OrderView}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{order_no} [get]
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	orderNo := c.Param("order_no")
	if orderNo == "" {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的订单号")
		return
	}

	sessionID := middleware.MustGetSessionID(c)

	result, err := h.getOrderUseCase.Execute(c.Request.Context(), sessionID, orderNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListOrders 订单列表
// @Summary      订单列表
// @Description  查询当前会话的历史订单
// @Tags         结算
// @Produce      json
// @Param        page query int false "页码(默认1)"
// @Param        page_size query int false "每页数量(默认20)"
// @Success      200 {object} response.Response{data=checkout.ListOrdersResponse}
// @Router       /api/v1/orders [get]
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	sessionID := middleware.MustGetSessionID(c)

	result, err := h.listOrdersUseCase.Execute(c.Request.Context(), sessionID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
