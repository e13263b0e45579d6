package notify

import (
	"context"
	"fmt"
)

// ChannelType keys the dispatcher registry. Dispatch is selected over
// a closed set of channels, not an inheritance hierarchy.
type ChannelType string

const (
	ChannelEmail ChannelType = "EMAIL"
)

// TicketNotice is one dispatch request produced by the batch issuer.
type TicketNotice struct {
	Recipient    string
	AttendeeName string
	EventName    string
	LinkToken    string
	TicketLink   string
	ScheduleDate string
	StartTime    string
	EndTime      string
}

type Dispatcher interface {
	Send(ctx context.Context, notice TicketNotice) error
}

// Registry maps channel types to dispatchers.
type Registry struct {
	dispatchers map[ChannelType]Dispatcher
}

func NewRegistry() *Registry {
	return &Registry{dispatchers: make(map[ChannelType]Dispatcher)}
}

func (r *Registry) Register(channel ChannelType, d Dispatcher) {
	r.dispatchers[channel] = d
}

func (r *Registry) Send(ctx context.Context, channel ChannelType, notice TicketNotice) error {
	d, ok := r.dispatchers[channel]
	if !ok {
		return fmt.Errorf("no dispatcher registered for channel %s", channel)
	}
	return d.Send(ctx, notice)
}
