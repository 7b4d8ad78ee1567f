package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/storefront/internal/domain/cart"
)

// SearchTermRequest 搜索框输入（不触发搜索）
type SearchTermRequest struct {
	Term string `json:"term" binding:"max=200" example:"sungl"`
}

// SubmitSearchRequest 提交搜索
// term可以为空字符串，表示不带关键字的搜索
type SubmitSearchRequest struct {
	Term string `json:"term" binding:"max=200" example:"jeans"`
}

// QuickFilterRequest 快捷筛选
// label取值范围由应用层校验（未知标签返回40011）
type QuickFilterRequest struct {
	Label string `json:"label" binding:"required" example:"hats"`
}

// GoToPageRequest 跳转页码
type GoToPageRequest struct {
	Page int `json:"page" binding:"required,min=1" example:"2"`
}

// AddCartItemRequest 加购请求
// 只传id时按当前结果页中的商品加购；同时传name、price时按请求内容加购
type AddCartItemRequest struct {
	ID    string `json:"id" binding:"required,max=64" example:"182146"`
	Name  string `json:"name" binding:"max=200" example:"Wayfarer Sunglasses"`
	Price string `json:"price" binding:"omitempty,max=20" example:"19.99"` // 十进制字符串
	Image string `json:"image" binding:"omitempty,max=500" example:"https://example.com/thumb.jpg"`
}

// ByID 是否只按商品ID加购
func (r AddCartItemRequest) ByID() bool {
	return r.Name == "" && r.Price == ""
}

// ToLine 转换为购物车行项目，价格必须是>=0的十进制数
func (r AddCartItemRequest) ToLine() (cart.Line, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return cart.Line{}, fmt.Errorf("price格式错误: %q", r.Price)
	}
	if price.IsNegative() {
		return cart.Line{}, fmt.Errorf("price不能为负数")
	}
	if r.Name == "" {
		return cart.Line{}, fmt.Errorf("name不能为空")
	}

	return cart.Line{
		ID:    r.ID,
		Name:  r.Name,
		Price: price,
		Image: r.Image,
	}, nil
}
