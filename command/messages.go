package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-ecm-events/core"
)

const (
	TypePublishEvent             = "ecm.command.event.publish"
	TypeSubscribe                = "ecm.command.subscription.subscribe"
	TypeUnsubscribe              = "ecm.command.subscription.unsubscribe"
	TypeRegisterEndpoint         = "ecm.command.endpoint.register"
	TypeUpdateEndpoint           = "ecm.command.endpoint.update"
	TypeDeactivateEndpoint       = "ecm.command.endpoint.deactivate"
	TypeMarkNotificationsRead    = "ecm.command.notification.mark_read"
	TypeMarkAllNotificationsRead = "ecm.command.notification.mark_all_read"
	TypeDismissNotification      = "ecm.command.notification.dismiss"
)

type PublishEventMessage struct {
	Event core.Envelope
}

func (PublishEventMessage) Type() string { return TypePublishEvent }

func (m PublishEventMessage) Validate() error {
	if err := m.Event.Validate(); err != nil {
		return fmt.Errorf("command: %w", err)
	}
	return nil
}

type SubscribeMessage struct {
	Input core.UpsertSubscriptionInput
}

func (SubscribeMessage) Type() string { return TypeSubscribe }

func (m SubscribeMessage) Validate() error {
	if strings.TrimSpace(m.Input.DocumentID) == "" {
		return fmt.Errorf("command: document id is required")
	}
	if strings.TrimSpace(m.Input.PersonID) == "" {
		return fmt.Errorf("command: person id is required")
	}
	return nil
}

type UnsubscribeMessage struct {
	DocumentID string
	PersonID   string
}

func (UnsubscribeMessage) Type() string { return TypeUnsubscribe }

func (m UnsubscribeMessage) Validate() error {
	if strings.TrimSpace(m.DocumentID) == "" {
		return fmt.Errorf("command: document id is required")
	}
	if strings.TrimSpace(m.PersonID) == "" {
		return fmt.Errorf("command: person id is required")
	}
	return nil
}

type RegisterEndpointMessage struct {
	Input core.RegisterEndpointInput
}

func (RegisterEndpointMessage) Type() string { return TypeRegisterEndpoint }

func (m RegisterEndpointMessage) Validate() error {
	if strings.TrimSpace(m.Input.Name) == "" {
		return fmt.Errorf("command: endpoint name is required")
	}
	if strings.TrimSpace(m.Input.URL) == "" {
		return fmt.Errorf("command: endpoint url is required")
	}
	if strings.TrimSpace(m.Input.CreatedBy) == "" {
		return fmt.Errorf("command: endpoint creator is required")
	}
	return nil
}

type UpdateEndpointMessage struct {
	EndpointID string
	Input      core.UpdateEndpointInput
}

func (UpdateEndpointMessage) Type() string { return TypeUpdateEndpoint }

func (m UpdateEndpointMessage) Validate() error {
	if strings.TrimSpace(m.EndpointID) == "" {
		return fmt.Errorf("command: endpoint id is required")
	}
	return nil
}

type DeactivateEndpointMessage struct {
	EndpointID string
}

func (DeactivateEndpointMessage) Type() string { return TypeDeactivateEndpoint }

func (m DeactivateEndpointMessage) Validate() error {
	if strings.TrimSpace(m.EndpointID) == "" {
		return fmt.Errorf("command: endpoint id is required")
	}
	return nil
}

type MarkNotificationsReadMessage struct {
	NotificationIDs []string
}

func (MarkNotificationsReadMessage) Type() string { return TypeMarkNotificationsRead }

func (m MarkNotificationsReadMessage) Validate() error {
	if len(m.NotificationIDs) == 0 {
		return fmt.Errorf("command: notification ids are required")
	}
	return nil
}

type MarkAllNotificationsReadMessage struct {
	PersonID string
}

func (MarkAllNotificationsReadMessage) Type() string { return TypeMarkAllNotificationsRead }

func (m MarkAllNotificationsReadMessage) Validate() error {
	if strings.TrimSpace(m.PersonID) == "" {
		return fmt.Errorf("command: person id is required")
	}
	return nil
}

type DismissNotificationMessage struct {
	NotificationID string
}

func (DismissNotificationMessage) Type() string { return TypeDismissNotification }

func (m DismissNotificationMessage) Validate() error {
	if strings.TrimSpace(m.NotificationID) == "" {
		return fmt.Errorf("command: notification id is required")
	}
	return nil
}
