package events

import (
	"context"

	"github.com/xiebiao/storefront/internal/application/storefront"
)

// Publisher 消息发布能力(由pkg/mq.Publisher实现)
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// CartPublisher 把购物车事件发布到RabbitMQ
// Routing Key即事件类型(cart.item_added等),下游可以按前缀cart.#订阅
type CartPublisher struct {
	pub Publisher
}

// NewCartPublisher 创建购物车事件发布器
func NewCartPublisher(pub Publisher) *CartPublisher {
	return &CartPublisher{pub: pub}
}

var _ storefront.EventPublisher = (*CartPublisher)(nil)

// PublishCartEvent 实现storefront.EventPublisher
func (p *CartPublisher) PublishCartEvent(ctx context.Context, event storefront.CartEvent) error {
	if event.Type == "" {
		return nil
	}
	return p.pub.Publish(ctx, event.Type, event)
}
