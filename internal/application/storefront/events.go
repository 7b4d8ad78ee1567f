package storefront

import (
	"context"
	"time"

	"github.com/xiebiao/storefront/internal/domain/cart"
)

// 购物车事件的Routing Key
const (
	EventItemAdded   = "cart.item_added"
	EventItemRemoved = "cart.item_removed"
	EventItemDeleted = "cart.item_deleted"
)

// CartEvent 购物车变更事件
// Quantity是该商品变更后的数量(删除或减到0时为0)
type CartEvent struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CartCount int       `json:"cart_count"`
	CartTotal string    `json:"cart_total"`
	At        time.Time `json:"at"`
}

// EventPublisher 购物车事件发布端口
// 发布是尽力而为的: 失败只记日志,不影响购物车状态
type EventPublisher interface {
	PublishCartEvent(ctx context.Context, event CartEvent) error
}

// NoopPublisher 不发布任何事件(默认)
type NoopPublisher struct{}

// PublishCartEvent 实现EventPublisher
func (NoopPublisher) PublishCartEvent(context.Context, CartEvent) error {
	return nil
}

// eventType 动作对应的事件类型,未知动作返回空
func eventType(t cart.ActionType) string {
	switch t {
	case cart.ActionAddItem:
		return EventItemAdded
	case cart.ActionRemoveItem:
		return EventItemRemoved
	case cart.ActionDeleteItem:
		return EventItemDeleted
	default:
		return ""
	}
}
