package service

import (
	"context"
	"sync"

	"github.com/Skotchmaster/storefront/internal/transport"
)

func ptr[T any](v T) *T { return &v }

type recordedEvent struct {
	key   string
	event map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakePublisher) PublishEvent(_ context.Context, key string, event map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{key: key, event: event})
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.event["type"].(string))
	}
	return out
}

func orderRequest(productIDs ...string) transport.CreateOrderRequest {
	req := transport.CreateOrderRequest{
		User: &transport.Recipient{
			Name:    ptr("王小明"),
			Tel:     ptr("0912345678"),
			Address: ptr("台北市信義區"),
		},
		PaymentMethods: ptr(1.0),
	}
	for _, id := range productIDs {
		req.Orders = append(req.Orders, transport.OrderLineRequest{
			ProductID: ptr(id),
			Quantity:  ptr(2.0),
			Spec:      ptr("s1"),
			Colors:    ptr("c1"),
		})
	}
	return req
}

func productRequest(categoryID string, tagIDs ...string) transport.ProductRequest {
	return transport.ProductRequest{
		CategoryID:  ptr(categoryID),
		TagsID:      tagIDs,
		Name:        ptr("北歐沙發"),
		Price:       ptr(1200.0),
		Description: ptr("三人座布沙發"),
		ImageURL:    ptr("https://img.example.com/sofa.png"),
		OriginPrice: ptr(1500.0),
		Colors:      []string{"米白", "灰色"},
		Spec:        []string{"三人座", "雙人座"},
		Enable:      ptr(true),
	}
}
