package query

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-ecm-events/core"
)

const (
	TypeListNotifications = "ecm.query.notification.list"
	TypeUnreadCount       = "ecm.query.notification.unread_count"
	TypeListEndpoints     = "ecm.query.endpoint.list"
	TypeGetDelivery       = "ecm.query.delivery.get"
	TypeListDeliveries    = "ecm.query.delivery.list"
)

type ListNotificationsMessage struct {
	Filter core.NotificationFilter
}

func (ListNotificationsMessage) Type() string { return TypeListNotifications }

func (m ListNotificationsMessage) Validate() error {
	if m.Filter.Limit < 0 {
		return fmt.Errorf("query: limit must be >= 0")
	}
	if m.Filter.Offset < 0 {
		return fmt.Errorf("query: offset must be >= 0")
	}
	return nil
}

type UnreadCountMessage struct {
	PersonID string
}

func (UnreadCountMessage) Type() string { return TypeUnreadCount }

func (m UnreadCountMessage) Validate() error {
	if strings.TrimSpace(m.PersonID) == "" {
		return fmt.Errorf("query: person id is required")
	}
	return nil
}

type ListEndpointsMessage struct {
	Filter core.EndpointFilter
}

func (ListEndpointsMessage) Type() string { return TypeListEndpoints }

func (m ListEndpointsMessage) Validate() error {
	if m.Filter.Limit < 0 {
		return fmt.Errorf("query: limit must be >= 0")
	}
	if m.Filter.Offset < 0 {
		return fmt.Errorf("query: offset must be >= 0")
	}
	return nil
}

type GetDeliveryMessage struct {
	DeliveryID string
}

func (GetDeliveryMessage) Type() string { return TypeGetDelivery }

func (m GetDeliveryMessage) Validate() error {
	if strings.TrimSpace(m.DeliveryID) == "" {
		return fmt.Errorf("query: delivery id is required")
	}
	return nil
}

type ListDeliveriesMessage struct {
	Filter core.DeliveryFilter
}

func (ListDeliveriesMessage) Type() string { return TypeListDeliveries }

func (m ListDeliveriesMessage) Validate() error {
	if m.Filter.Limit < 0 {
		return fmt.Errorf("query: limit must be >= 0")
	}
	if m.Filter.Offset < 0 {
		return fmt.Errorf("query: offset must be >= 0")
	}
	return nil
}
