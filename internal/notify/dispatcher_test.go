package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	sent []TicketNotice
	err  error
}

func (d *recordingDispatcher) Send(_ context.Context, notice TicketNotice) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, notice)
	return nil
}

func TestRegistryDispatchesByChannel(t *testing.T) {
	registry := NewRegistry()
	email := &recordingDispatcher{}
	registry.Register(ChannelEmail, email)

	notice := TicketNotice{Recipient: "hong@example.com", EventName: "연말 콘서트"}
	err := registry.Send(context.Background(), ChannelEmail, notice)

	require.NoError(t, err)
	require.Len(t, email.sent, 1)
	assert.Equal(t, "hong@example.com", email.sent[0].Recipient)
}

func TestRegistryUnknownChannel(t *testing.T) {
	registry := NewRegistry()

	err := registry.Send(context.Background(), ChannelType("SMS"), TicketNotice{})

	assert.Error(t, err)
}

func TestRegistryPropagatesDispatchError(t *testing.T) {
	registry := NewRegistry()
	registry.Register(ChannelEmail, &recordingDispatcher{err: errors.New("smtp: refused")})

	err := registry.Send(context.Background(), ChannelEmail, TicketNotice{Recipient: "hong@example.com"})

	assert.Error(t, err)
}
