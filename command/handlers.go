package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-ecm-events/core"
)

type MutatingService interface {
	Publish(ctx context.Context, event core.Envelope)
	Subscribe(ctx context.Context, in core.UpsertSubscriptionInput) (core.DocumentSubscription, error)
	Unsubscribe(ctx context.Context, documentID string, personID string) error
	RegisterEndpoint(ctx context.Context, in core.RegisterEndpointInput) (core.WebhookEndpoint, error)
	UpdateEndpoint(ctx context.Context, id string, in core.UpdateEndpointInput) (core.WebhookEndpoint, error)
	DeactivateEndpoint(ctx context.Context, id string) error
	MarkNotificationsRead(ctx context.Context, ids []string) (int, error)
	MarkAllNotificationsRead(ctx context.Context, personID string) (int, error)
	DismissNotification(ctx context.Context, id string) error
}

type PublishEventCommand struct {
	service MutatingService
}

func NewPublishEventCommand(service MutatingService) *PublishEventCommand {
	return &PublishEventCommand{service: service}
}

// Execute never fails on enqueue trouble; the publisher swallows it. Only a
// missing dependency surfaces as an error.
func (c *PublishEventCommand) Execute(ctx context.Context, msg PublishEventMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: publish service is required")
	}
	c.service.Publish(ctx, msg.Event)
	return nil
}

type SubscribeCommand struct {
	service MutatingService
}

func NewSubscribeCommand(service MutatingService) *SubscribeCommand {
	return &SubscribeCommand{service: service}
}

func (c *SubscribeCommand) Execute(ctx context.Context, msg SubscribeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: subscribe service is required")
	}
	out, err := c.service.Subscribe(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UnsubscribeCommand struct {
	service MutatingService
}

func NewUnsubscribeCommand(service MutatingService) *UnsubscribeCommand {
	return &UnsubscribeCommand{service: service}
}

func (c *UnsubscribeCommand) Execute(ctx context.Context, msg UnsubscribeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: unsubscribe service is required")
	}
	return c.service.Unsubscribe(ctx, msg.DocumentID, msg.PersonID)
}

type RegisterEndpointCommand struct {
	service MutatingService
}

func NewRegisterEndpointCommand(service MutatingService) *RegisterEndpointCommand {
	return &RegisterEndpointCommand{service: service}
}

func (c *RegisterEndpointCommand) Execute(ctx context.Context, msg RegisterEndpointMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: endpoint service is required")
	}
	out, err := c.service.RegisterEndpoint(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UpdateEndpointCommand struct {
	service MutatingService
}

func NewUpdateEndpointCommand(service MutatingService) *UpdateEndpointCommand {
	return &UpdateEndpointCommand{service: service}
}

func (c *UpdateEndpointCommand) Execute(ctx context.Context, msg UpdateEndpointMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: endpoint service is required")
	}
	out, err := c.service.UpdateEndpoint(ctx, msg.EndpointID, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DeactivateEndpointCommand struct {
	service MutatingService
}

func NewDeactivateEndpointCommand(service MutatingService) *DeactivateEndpointCommand {
	return &DeactivateEndpointCommand{service: service}
}

func (c *DeactivateEndpointCommand) Execute(ctx context.Context, msg DeactivateEndpointMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: endpoint service is required")
	}
	return c.service.DeactivateEndpoint(ctx, msg.EndpointID)
}

type MarkNotificationsReadCommand struct {
	service MutatingService
}

func NewMarkNotificationsReadCommand(service MutatingService) *MarkNotificationsReadCommand {
	return &MarkNotificationsReadCommand{service: service}
}

func (c *MarkNotificationsReadCommand) Execute(ctx context.Context, msg MarkNotificationsReadMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: notification service is required")
	}
	out, err := c.service.MarkNotificationsRead(ctx, msg.NotificationIDs)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type MarkAllNotificationsReadCommand struct {
	service MutatingService
}

func NewMarkAllNotificationsReadCommand(service MutatingService) *MarkAllNotificationsReadCommand {
	return &MarkAllNotificationsReadCommand{service: service}
}

func (c *MarkAllNotificationsReadCommand) Execute(ctx context.Context, msg MarkAllNotificationsReadMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: notification service is required")
	}
	out, err := c.service.MarkAllNotificationsRead(ctx, msg.PersonID)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DismissNotificationCommand struct {
	service MutatingService
}

func NewDismissNotificationCommand(service MutatingService) *DismissNotificationCommand {
	return &DismissNotificationCommand{service: service}
}

func (c *DismissNotificationCommand) Execute(ctx context.Context, msg DismissNotificationMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: notification service is required")
	}
	return c.service.DismissNotification(ctx, msg.NotificationID)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
