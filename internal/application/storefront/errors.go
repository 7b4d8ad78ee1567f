package storefront

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 视图动作错误定义
var (
	// ErrPageOutOfRange 页码不在 [1, totalPages] 之内
	ErrPageOutOfRange = apperrors.New(apperrors.ErrCodePageOutOfRange, "页码超出范围")

	// ErrUnknownFilter 不是预定义的快捷筛选
	ErrUnknownFilter = apperrors.New(apperrors.ErrCodeUnknownFilter, "未知的快捷筛选")

	// ErrProductNotListed 按ID加购时商品不在当前结果页中
	ErrProductNotListed = apperrors.New(apperrors.ErrCodeNotFound, "商品不在当前列表中")
)
