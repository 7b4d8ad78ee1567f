package product

import (
	"context"
)

// Fetcher 商品搜索端口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(Searchspring HTTP客户端)
// 2. 便于在视图编排的测试中替换为假实现
//
// 错误约定:
// - 网络失败: ErrNetwork
// - 非2xx: ErrRequestFailed (可通过errors.As取出*RequestFailedError)
// - 非JSON响应: ErrMalformedResponse
// - 字段缺失不算错误: results缺失→空, totalPages缺失→1
type Fetcher interface {
	Search(ctx context.Context, query string, page int) (*Page, error)
}

// FetcherFunc 函数适配器
type FetcherFunc func(ctx context.Context, query string, page int) (*Page, error)

// Search 实现Fetcher
func (f FetcherFunc) Search(ctx context.Context, query string, page int) (*Page, error) {
	return f(ctx, query, page)
}
