package product

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PlaceholderImage 商品没有图片或图片加载失败时使用的占位图
const PlaceholderImage = "/no-image-available.png"

// Product 外部搜索API返回的商品(只读)
// 设计说明:
// 1. 原样消费外部数据,不做校验和归一化
// 2. MSRP可选(NullDecimal.Valid=false表示缺失)
// 3. 图片字段可为空,展示层自行替换占位图
type Product struct {
	ID                ID                  `json:"id"`
	Name              string              `json:"name"`
	Price             decimal.Decimal     `json:"price"`
	MSRP              decimal.NullDecimal `json:"msrp"`
	ImageURL          string              `json:"imageUrl,omitempty"`
	ThumbnailImageURL string              `json:"thumbnailImageUrl,omitempty"`
}

// Image 加购时使用的图片: 缩略图优先,其次大图,可能为空
func (p Product) Image() string {
	if p.ThumbnailImageURL != "" {
		return p.ThumbnailImageURL
	}
	return p.ImageURL
}

// DisplayImage 展示用图片,缺失时返回占位图
func (p Product) DisplayImage() string {
	if img := p.Image(); img != "" {
		return img
	}
	return PlaceholderImage
}

// OnSale 是否展示划线价(MSRP存在且高于售价)
func (p Product) OnSale() bool {
	return p.MSRP.Valid && p.MSRP.Decimal.GreaterThan(p.Price)
}

// Page 一页搜索结果
type Page struct {
	Results    []Product
	TotalPages int
}

// ID 商品ID
// 搜索API通常返回字符串,也兼容数字
type ID string

// UnmarshalJSON 同时接受 "123" 和 123
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}
