package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-ecm-events/core"
)

var (
	_ gocmd.Querier[ListNotificationsMessage, []core.Notification] = (*ListNotificationsQuery)(nil)
	_ gocmd.Querier[UnreadCountMessage, int]                       = (*UnreadCountQuery)(nil)
	_ gocmd.Querier[ListEndpointsMessage, []core.WebhookEndpoint]  = (*ListEndpointsQuery)(nil)
	_ gocmd.Querier[GetDeliveryMessage, core.WebhookDelivery]      = (*GetDeliveryQuery)(nil)
	_ gocmd.Querier[ListDeliveriesMessage, []core.WebhookDelivery] = (*ListDeliveriesQuery)(nil)
)
