package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[PublishEventMessage]             = (*PublishEventCommand)(nil)
	_ gocmd.Commander[SubscribeMessage]                = (*SubscribeCommand)(nil)
	_ gocmd.Commander[UnsubscribeMessage]              = (*UnsubscribeCommand)(nil)
	_ gocmd.Commander[RegisterEndpointMessage]         = (*RegisterEndpointCommand)(nil)
	_ gocmd.Commander[UpdateEndpointMessage]           = (*UpdateEndpointCommand)(nil)
	_ gocmd.Commander[DeactivateEndpointMessage]       = (*DeactivateEndpointCommand)(nil)
	_ gocmd.Commander[MarkNotificationsReadMessage]    = (*MarkNotificationsReadCommand)(nil)
	_ gocmd.Commander[MarkAllNotificationsReadMessage] = (*MarkAllNotificationsReadCommand)(nil)
	_ gocmd.Commander[DismissNotificationMessage]      = (*DismissNotificationCommand)(nil)
)
