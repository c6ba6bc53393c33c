package cart

import (
	apperrors "github.com/fernandezlibros/ebookstore/pkg/errors"
)

// 购物车领域错误定义
var (
	// ErrInvalidProduct 商品入参不合法(缺少ID或价格为负)
	// 设计说明:其余操作都是全函数(未知ID按无操作处理),
	// 只有Add在边界上做校验,防止脏明细混进金额统计
	ErrInvalidProduct = apperrors.New(apperrors.ErrCodeInvalidParams, "商品信息不完整,无法加入购物车")

	// ErrSessionNotFound 会话不存在(存储层找不到该会话的购物车)
	ErrSessionNotFound = apperrors.New(apperrors.ErrCodeSessionNotFound, "会话不存在或已过期")
)
