package ecmevents

import (
	"fmt"

	ecmcommand "github.com/goliatone/go-ecm-events/command"
	ecmquery "github.com/goliatone/go-ecm-events/query"
)

type CommandQueryService interface {
	ecmcommand.MutatingService
	ecmquery.NotificationReader
	ecmquery.EndpointReader
	ecmquery.DeliveryReader
}

type Commands struct {
	PublishEvent             *ecmcommand.PublishEventCommand
	Subscribe                *ecmcommand.SubscribeCommand
	Unsubscribe              *ecmcommand.UnsubscribeCommand
	RegisterEndpoint         *ecmcommand.RegisterEndpointCommand
	UpdateEndpoint           *ecmcommand.UpdateEndpointCommand
	DeactivateEndpoint       *ecmcommand.DeactivateEndpointCommand
	MarkNotificationsRead    *ecmcommand.MarkNotificationsReadCommand
	MarkAllNotificationsRead *ecmcommand.MarkAllNotificationsReadCommand
	DismissNotification      *ecmcommand.DismissNotificationCommand
}

type Queries struct {
	ListNotifications *ecmquery.ListNotificationsQuery
	UnreadCount       *ecmquery.UnreadCountQuery
	ListEndpoints     *ecmquery.ListEndpointsQuery
	GetDelivery       *ecmquery.GetDeliveryQuery
	ListDeliveries    *ecmquery.ListDeliveriesQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("ecmevents: command/query service is required")
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		PublishEvent:             ecmcommand.NewPublishEventCommand(service),
		Subscribe:                ecmcommand.NewSubscribeCommand(service),
		Unsubscribe:              ecmcommand.NewUnsubscribeCommand(service),
		RegisterEndpoint:         ecmcommand.NewRegisterEndpointCommand(service),
		UpdateEndpoint:           ecmcommand.NewUpdateEndpointCommand(service),
		DeactivateEndpoint:       ecmcommand.NewDeactivateEndpointCommand(service),
		MarkNotificationsRead:    ecmcommand.NewMarkNotificationsReadCommand(service),
		MarkAllNotificationsRead: ecmcommand.NewMarkAllNotificationsReadCommand(service),
		DismissNotification:      ecmcommand.NewDismissNotificationCommand(service),
	}
	facade.queries = Queries{
		ListNotifications: ecmquery.NewListNotificationsQuery(service),
		UnreadCount:       ecmquery.NewUnreadCountQuery(service),
		ListEndpoints:     ecmquery.NewListEndpointsQuery(service),
		GetDelivery:       ecmquery.NewGetDeliveryQuery(service),
		ListDeliveries:    ecmquery.NewListDeliveriesQuery(service),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}
