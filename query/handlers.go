package query

import (
	"context"

	"github.com/goliatone/go-ecm-events/core"
)

type NotificationReader interface {
	GetNotification(ctx context.Context, id string) (core.Notification, error)
	ListNotifications(ctx context.Context, filter core.NotificationFilter) ([]core.Notification, error)
	UnreadNotificationCount(ctx context.Context, personID string) (int, error)
}

type EndpointReader interface {
	GetEndpoint(ctx context.Context, id string) (core.WebhookEndpoint, error)
	ListEndpoints(ctx context.Context, filter core.EndpointFilter) ([]core.WebhookEndpoint, error)
}

type DeliveryReader interface {
	GetDelivery(ctx context.Context, id string) (core.WebhookDelivery, error)
	ListDeliveries(ctx context.Context, filter core.DeliveryFilter) ([]core.WebhookDelivery, error)
}

type ListNotificationsQuery struct {
	reader NotificationReader
}

func NewListNotificationsQuery(reader NotificationReader) *ListNotificationsQuery {
	return &ListNotificationsQuery{reader: reader}
}

func (q *ListNotificationsQuery) Query(
	ctx context.Context,
	msg ListNotificationsMessage,
) ([]core.Notification, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: notification reader is required")
	}
	return q.reader.ListNotifications(ctx, msg.Filter)
}

type UnreadCountQuery struct {
	reader NotificationReader
}

func NewUnreadCountQuery(reader NotificationReader) *UnreadCountQuery {
	return &UnreadCountQuery{reader: reader}
}

func (q *UnreadCountQuery) Query(ctx context.Context, msg UnreadCountMessage) (int, error) {
	if q == nil || q.reader == nil {
		return 0, queryDependencyError("query: notification reader is required")
	}
	return q.reader.UnreadNotificationCount(ctx, msg.PersonID)
}

type ListEndpointsQuery struct {
	reader EndpointReader
}

func NewListEndpointsQuery(reader EndpointReader) *ListEndpointsQuery {
	return &ListEndpointsQuery{reader: reader}
}

func (q *ListEndpointsQuery) Query(
	ctx context.Context,
	msg ListEndpointsMessage,
) ([]core.WebhookEndpoint, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: endpoint reader is required")
	}
	return q.reader.ListEndpoints(ctx, msg.Filter)
}

type GetDeliveryQuery struct {
	reader DeliveryReader
}

func NewGetDeliveryQuery(reader DeliveryReader) *GetDeliveryQuery {
	return &GetDeliveryQuery{reader: reader}
}

func (q *GetDeliveryQuery) Query(ctx context.Context, msg GetDeliveryMessage) (core.WebhookDelivery, error) {
	if q == nil || q.reader == nil {
		return core.WebhookDelivery{}, queryDependencyError("query: delivery reader is required")
	}
	return q.reader.GetDelivery(ctx, msg.DeliveryID)
}

type ListDeliveriesQuery struct {
	reader DeliveryReader
}

func NewListDeliveriesQuery(reader DeliveryReader) *ListDeliveriesQuery {
	return &ListDeliveriesQuery{reader: reader}
}

func (q *ListDeliveriesQuery) Query(
	ctx context.Context,
	msg ListDeliveriesMessage,
) ([]core.WebhookDelivery, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: delivery reader is required")
	}
	return q.reader.ListDeliveries(ctx, msg.Filter)
}
