package storefront

import (
	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/domain/search"
)

// View 页面视图快照DTO(只读)
// 所有派生值(购物车件数、总金额、分页窗口)在生成快照时现算
type View struct {
	SessionID    string        `json:"session_id"`
	Search       SearchView    `json:"search"`
	Products     []ProductItem `json:"products"`
	Loading      bool          `json:"loading"`
	Cart         CartView      `json:"cart"`
	QuickFilters []string      `json:"quick_filters"`
}

// SearchView 搜索区和分页条
type SearchView struct {
	SearchTerm     string `json:"search_term"`
	EffectiveQuery string `json:"effective_query"`
	CurrentPage    int    `json:"current_page"`
	TotalPages     int    `json:"total_pages"`
	Signal         uint64 `json:"search_signal"`
	Pages          []int  `json:"pages"`
	HasPrev        bool   `json:"has_prev"`
	HasNext        bool   `json:"has_next"`
}

// ProductItem 商品卡片
type ProductItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    string  `json:"price"`
	MSRP     *string `json:"msrp,omitempty"` // 仅在划线价需要展示时返回
	Image    string  `json:"image"`          // 已替换占位图
	InCart   bool    `json:"in_cart"`
	Quantity int     `json:"quantity"` // 购物车中的数量
}

// CartView 购物车抽屉
type CartView struct {
	Open  bool       `json:"open"`
	Lines []CartLine `json:"lines"`
	Count int        `json:"count"`
	Total string     `json:"total"`
}

// CartLine 购物车行
type CartLine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

// Snapshot 需要跨进程保存的会话状态
// 商品列表和loading不保存,重新挂载时重新拉取
type Snapshot struct {
	// 每次状态变更递增,保存时旧版本不会覆盖新版本
	Version  uint64       `json:"version"`
	Cart     cart.Cart    `json:"cart"`
	Search   search.State `json:"search"`
	CartOpen bool         `json:"cart_open"`
}

func buildView(sessionID string, c cart.Cart, st search.State, products []product.Product, loading, cartOpen bool) View {
	items := make([]ProductItem, len(products))
	for i, p := range products {
		item := ProductItem{
			ID:    string(p.ID),
			Name:  p.Name,
			Price: cart.FormatMoney(p.Price),
			Image: p.DisplayImage(),
		}
		if p.OnSale() {
			msrp := cart.FormatMoney(p.MSRP.Decimal)
			item.MSRP = &msrp
		}
		if line, ok := c.Find(item.ID); ok {
			item.InCart = true
			item.Quantity = line.Quantity
		}
		items[i] = item
	}

	lines := make([]CartLine, len(c))
	for i, l := range c {
		img := l.Image
		if img == "" {
			img = product.PlaceholderImage
		}
		lines[i] = CartLine{
			ID:       l.ID,
			Name:     l.Name,
			Price:    cart.FormatMoney(l.Price),
			Image:    img,
			Quantity: l.Quantity,
			Subtotal: cart.FormatMoney(l.Subtotal()),
		}
	}

	return View{
		SessionID: sessionID,
		Search: SearchView{
			SearchTerm:     st.SearchTerm,
			EffectiveQuery: st.EffectiveQuery,
			CurrentPage:    st.CurrentPage,
			TotalPages:     st.TotalPages,
			Signal:         st.Signal,
			Pages:          search.PageWindow(st.CurrentPage, st.TotalPages),
			HasPrev:        st.HasPrev(),
			HasNext:        st.HasNext(),
		},
		Products: items,
		Loading:  loading,
		Cart: CartView{
			Open:  cartOpen,
			Lines: lines,
			Count: c.Count(),
			Total: cart.FormatMoney(c.Total()),
		},
		QuickFilters: append([]string(nil), search.QuickFilters...),
	}
}
