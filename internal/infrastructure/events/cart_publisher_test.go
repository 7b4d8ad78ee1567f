package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/application/storefront"
	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/pkg/fetchguard"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/mq"
)

type fakeChannel struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.bodies = append(f.bodies, msg.Body)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestCartPublisher_PublishCartEvent(t *testing.T) {
	ch := &fakeChannel{}
	p := NewCartPublisher(mq.NewPublisherWithChannel(ch, "storefront.events", logger.Discard()))

	event := storefront.CartEvent{
		Type:      storefront.EventItemAdded,
		SessionID: "s-1",
		ProductID: "p1",
		Quantity:  1,
		CartCount: 1,
		CartTotal: "19.99",
		At:        time.Unix(1700000000, 0).UTC(),
	}
	require.NoError(t, p.PublishCartEvent(context.Background(), event))

	require.Equal(t, []string{"cart.item_added"}, ch.keys)
	var got storefront.CartEvent
	require.NoError(t, json.Unmarshal(ch.bodies[0], &got))
	assert.Equal(t, event, got)
}

func TestCartPublisher_SkipsUntypedEvent(t *testing.T) {
	ch := &fakeChannel{}
	p := NewCartPublisher(mq.NewPublisherWithChannel(ch, "storefront.events", logger.Discard()))

	require.NoError(t, p.PublishCartEvent(context.Background(), storefront.CartEvent{}))
	assert.Empty(t, ch.keys)
}

// 发布失败不影响购物车状态
func TestCartPublisher_FailureDoesNotAffectCart(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := NewCartPublisher(mq.NewPublisherWithChannel(ch, "storefront.events", logger.Discard()))

	fetcher := product.FetcherFunc(func(context.Context, string, int) (*product.Page, error) {
		return &product.Page{TotalPages: 1}, nil
	})
	view := storefront.NewViewState("s-1", fetcher, fetchguard.New(fetchguard.DefaultWindow),
		storefront.WithEvents(p), storefront.WithLogger(logger.Discard()))

	ctx := context.Background()
	view.AddToCart(ctx, cart.Line{ID: "p1", Name: "Hat", Price: decimal.RequireFromString("19.99")})
	view.AddToCart(ctx, cart.Line{ID: "p1", Name: "Hat", Price: decimal.RequireFromString("19.99")})
	view.RemoveFromCart(ctx, "p1")

	snap := view.Snapshot()
	assert.Equal(t, 1, snap.Cart.Count)
	assert.Equal(t, "19.99", snap.Cart.Total)
}

func TestCartPublisher_RoutingKeys(t *testing.T) {
	ch := &fakeChannel{}
	p := NewCartPublisher(mq.NewPublisherWithChannel(ch, "storefront.events", logger.Discard()))
	view := storefront.NewViewState("s-1", nil, fetchguard.New(0), storefront.WithEvents(p), storefront.WithLogger(logger.Discard()))

	ctx := context.Background()
	view.AddToCart(ctx, cart.Line{ID: "p1", Price: decimal.NewFromInt(5)})
	view.RemoveFromCart(ctx, "p1")
	view.AddToCart(ctx, cart.Line{ID: "p2", Price: decimal.NewFromInt(5)})
	view.DeleteFromCart(ctx, "p2")
	view.DeleteFromCart(ctx, "missing")

	assert.Equal(t, []string{
		"cart.item_added",
		"cart.item_removed",
		"cart.item_added",
		"cart.item_deleted",
	}, ch.keys)
}
