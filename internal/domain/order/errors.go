package order

import (
	apperrors "github.com/fernandezlibros/ebookstore/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeBusinessError, "订单状态不允许此操作")

	// ErrInvalidOrderItems 订单明细不合法
	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrInvalidCustomer 下单人信息不完整
	ErrInvalidCustomer = apperrors.New(apperrors.ErrCodeInvalidParams, "下单人邮箱不能为空")

	// ErrTotalMismatch 金额不一致(明细合计与传入小计不符)
	ErrTotalMismatch = apperrors.New(apperrors.ErrCodeBusinessError, "订单金额与明细不一致")

	// ErrEmptyCart 购物车为空,无法结算
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeBusinessError, "购物车为空,无法结算")

	// ErrPaymentFailed 支付失败
	ErrPaymentFailed = apperrors.New(apperrors.ErrCodePaymentFailed, "支付失败,请稍后重试")
)
