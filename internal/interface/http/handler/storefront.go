package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// StorefrontHandler 店铺页面HTTP处理器
// 每个接口对应页面上的一个用户动作，动作完成后返回最新的页面视图
// 商品拉取失败不会以错误返回：视图中的商品列表为空
type StorefrontHandler struct {
	sessions *middleware.SessionMiddleware
}

// NewStorefrontHandler 创建店铺处理器
func NewStorefrontHandler(sessions *middleware.SessionMiddleware) *StorefrontHandler {
	return &StorefrontHandler{sessions: sessions}
}

// view 返回当前会话的视图
func view(c *gin.Context) {
	response.Success(c, middleware.MustGetSession(c).View.Snapshot())
}

// Mount 页面加载/重新挂载
// @Summary      挂载页面
// @Description  页面加载时调用，按当前搜索状态拉取商品；5秒内的重复挂载不会重复请求搜索服务
// @Tags         页面
// @Produce      json
// @Success      200 {object} response.Response{data=storefront.View}
// @Router       /api/v1/storefront/mount [post]
func (h *StorefrontHandler) Mount(c *gin.Context) {
	middleware.MustGetSession(c).View.Mount(c.Request.Context())
	view(c)
}

// GetView 读取当前页面视图
// @Summary      页面视图
// @Tags         页面
// @Produce      json
// @Success      200 {object} response.Response{data=storefront.View}
// @Router       /api/v1/storefront [get]
func (h *StorefrontHandler) GetView(c *gin.Context) {
	view(c)
}

// NewSession 开启新的页面会话
// @Summary      新会话
// @Description  丢弃当前会话（购物车、搜索状态），下发新的会话Cookie并挂载页面
// @Tags         页面
// @Produce      json
// @Success      200 {object} response.Response{data=storefront.View}
// @Router       /api/v1/sessions [post]
func (h *StorefrontHandler) NewSession(c *gin.Context) {
	ctx := c.Request.Context()
	manager := h.sessions.Manager()

	if old := middleware.GetSession(c); old != nil {
		manager.Delete(ctx, old.ID)
	}

	s := manager.Create(ctx)
	h.sessions.Bind(c, s)
	s.View.Mount(ctx)
	view(c)
}

// SetSearchTerm 搜索框输入
// @Summary      更新搜索框
// @Description  只更新搜索框显示的文字，不触发搜索
// @Tags         搜索
// @Accept       json
// @Produce      json
// @Param        request body dto.SearchTermRequest true "搜索框文字"
// @Success      200 {object} response.Response{data=storefront.View}
// @Failure      200 {object} response.Response "40900 参数错误"
// @Router       /api/v1/search/term [put]
func (h *StorefrontHandler) SetSearchTerm(c *gin.Context) {
	var req dto.SearchTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	middleware.MustGetSession(c).View.SetSearchTerm(c.Request.Context(), req.Term)
	view(c)
}

// SubmitSearch 提交搜索
// @Summary      提交搜索
// @Description  以term作为搜索词并回到第1页；term可以为空，重复提交同一个词也会重新搜索
// @Tags         搜索
// @Accept       json
// @Produce      json
// @Param        request body dto.SubmitSearchRequest true "搜索词"
// @Success      200 {object} response.Response{data=storefront.View}
// @Failure      200 {object} response.Response "40900 参数错误"
// @Router       /api/v1/search [post]
func (h *StorefrontHandler) SubmitSearch(c *gin.Context) {
	var req dto.SubmitSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	middleware.MustGetSession(c).View.SubmitSearch(c.Request.Context(), req.Term)
	view(c)
}

// SelectQuickFilter 快捷筛选
// @Summary      快捷筛选
// @Tags         搜索
// @Accept       json
// @Produce      json
// @Param        request body dto.QuickFilterRequest true "shoes | sunglasses | jeans | hats"
// @Success      200 {object} response.Response{data=storefront.View}
// @Failure      200 {object} response.Response "40011 未知的快捷筛选"
// @Router       /api/v1/search/quick-filter [post]
func (h *StorefrontHandler) SelectQuickFilter(c *gin.Context) {
	var req dto.QuickFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	if err := middleware.MustGetSession(c).View.SelectQuickFilter(c.Request.Context(), req.Label); err != nil {
		response.Error(c, err)
		return
	}
	view(c)
}

// GoToPage 跳转到指定页
// @Summary      跳转页码
// @Tags         搜索
// @Accept       json
// @Produce      json
// @Param        request body dto.GoToPageRequest true "页码"
// @Success      200 {object} response.Response{data=storefront.View}
// @Failure      200 {object} response.Response "40010 页码超出范围"
// @Router       /api/v1/search/page [put]
func (h *StorefrontHandler) GoToPage(c *gin.Context) {
	var req dto.GoToPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	if err := middleware.MustGetSession(c).View.GoToPage(c.Request.Context(), req.Page); err != nil {
		response.Error(c, err)
		return
	}
	view(c)
}

// PrevPage 上一页
// @Summary      上一页
// @Tags         搜索
// @Produce      json
// @Success      200 {object} response.Response{data=storefront.View}
// @Failure      200 {object} response.Response "40010 已经是第一页"
// @Router       /api/v1/search/page/prev [post]
func (h *StorefrontHandler) PrevPage(c *gin.Context) {
	if err := middleware.MustGetSession(c).View.PrevPage(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	view(c)
}

// NextPage 下一页
// @Summary      下一页
// @Tags         搜索
// @Produce      json
// @Success      200 {object} response.Response{data=storefront.View}
// @Failure      200 {object} response.Response "40010 已经是最后一页"
// @Router       /api/v1/search/page/next [post]
func (h *StorefrontHandler) NextPage(c *gin.Context) {
	if err := middleware.MustGetSession(c).View.NextPage(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	view(c)
}

// AddToCart 加购一件
// @Summary      加入购物车
// @Description  已在购物车中的商品数量+1，否则新增一行
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Param        request body dto.AddCartItemRequest true "商品"
// @Success      200 {object} response.Response{data=storefront.View}
// @Failure      200 {object} response.Response "40900 参数错误 / 40400 商品不在当前列表中"
// @Router       /api/v1/cart/items [post]
func (h *StorefrontHandler) AddToCart(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	ctx := c.Request.Context()
	v := middleware.MustGetSession(c).View

	if req.ByID() {
		if err := v.AddProductToCart(ctx, req.ID); err != nil {
			response.Error(c, err)
			return
		}
		view(c)
		return
	}

	line, err := req.ToLine()
	if err != nil {
		response.InvalidParams(c, err)
		return
	}
	v.AddToCart(ctx, line)
	view(c)
}

// RemoveFromCart 减少一件
// @Summary      减少一件
// @Description  数量为1时整行移除；商品不在购物车中时不做任何改变
// @Tags         购物车
// @Produce      json
// @Param        id path string true "商品ID"
// @Success      200 {object} response.Response{data=storefront.View}
// @Router       /api/v1/cart/items/{id}/decrement [post]
func (h *StorefrontHandler) RemoveFromCart(c *gin.Context) {
	middleware.MustGetSession(c).View.RemoveFromCart(c.Request.Context(), c.Param("id"))
	view(c)
}

// DeleteFromCart 删除整行
// @Summary      删除购物车行
// @Tags         购物车
// @Produce      json
// @Param        id path string true "商品ID"
// @Success      200 {object} response.Response{data=storefront.View}
// @Router       /api/v1/cart/items/{id} [delete]
func (h *StorefrontHandler) DeleteFromCart(c *gin.Context) {
	middleware.MustGetSession(c).View.DeleteFromCart(c.Request.Context(), c.Param("id"))
	view(c)
}

// OpenCart 打开购物车抽屉
// @Summary      打开购物车
// @Tags         购物车
// @Produce      json
// @Success      200 {object} response.Response{data=storefront.View}
// @Router       /api/v1/cart/drawer/open [post]
func (h *StorefrontHandler) OpenCart(c *gin.Context) {
	middleware.MustGetSession(c).View.OpenCart(c.Request.Context())
	view(c)
}

// CloseCart 关闭购物车抽屉
// @Summary      关闭购物车
// @Tags         购物车
// @Produce      json
// @Success      200 {object} response.Response{data=storefront.View}
// @Router       /api/v1/cart/drawer/close [post]
func (h *StorefrontHandler) CloseCart(c *gin.Context) {
	middleware.MustGetSession(c).View.CloseCart(c.Request.Context())
	view(c)
}
