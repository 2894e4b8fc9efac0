package core

import (
	"context"
	"fmt"
	"strings"
)

func (s *Service) GetDelivery(ctx context.Context, id string) (WebhookDelivery, error) {
	if s == nil || s.deliveryStore == nil {
		return WebhookDelivery{}, s.mapError(fmt.Errorf("core: delivery store is required"))
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return WebhookDelivery{}, s.mapError(fmt.Errorf("core: delivery id is required"))
	}
	delivery, err := s.deliveryStore.Get(ctx, id)
	if err != nil {
		return WebhookDelivery{}, s.mapError(err)
	}
	return delivery, nil
}

func (s *Service) ListDeliveries(ctx context.Context, filter DeliveryFilter) ([]WebhookDelivery, error) {
	if s == nil || s.deliveryStore == nil {
		return nil, s.mapError(fmt.Errorf("core: delivery store is required"))
	}
	deliveries, err := s.deliveryStore.List(ctx, filter)
	if err != nil {
		return nil, s.mapError(err)
	}
	return deliveries, nil
}
