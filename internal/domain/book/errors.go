package book

import (
	apperrors "github.com/fernandezlibros/ebookstore/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeNotFound, "图书不存在")

	// ErrInvalidTitle 标题为空
	ErrInvalidTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "图书标题不能为空")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须在合法区间内")

	// ErrInvalidRating 无效的评分
	ErrInvalidRating = apperrors.New(apperrors.ErrCodeInvalidParams, "评分必须在0-5之间")

	// ErrInvalidCategory 未知分类
	ErrInvalidCategory = apperrors.New(apperrors.ErrCodeInvalidParams, "未知的图书分类")
)
