package cart

import (
	"github.com/shopspring/decimal"
)

// Line 购物车行项目
// 设计说明:
// 1. 同一个ID在购物车中只出现一次(重复加购只增加数量)
// 2. 价格使用decimal存储(避免19.99*2这类浮点误差)
// 3. Quantity始终>=1,减到0时整行被移除
type Line struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"` // 可为空,展示层使用占位图
	Quantity int             `json:"quantity"`
}

// Subtotal 行小计(单价×数量)
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart 购物车(按加购顺序排列,变更时不重排)
type Cart []Line

// Count 商品总件数(各行数量之和)
// 派生值,每次调用重新计算,不缓存
func (c Cart) Count() int {
	count := 0
	for _, l := range c {
		count += l.Quantity
	}
	return count
}

// Total 购物车总金额(Σ单价×数量)
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Find 按ID查找行项目
func (c Cart) Find(id string) (Line, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c[i], true
	}
	return Line{}, false
}

func (c Cart) indexOf(id string) int {
	for i, l := range c {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// FormatMoney 金额格式化为两位小数
// 例如:39.98 → "39.98", 5 → "5.00"
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
