package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusPublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	var got []*Event
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		got = append(got, event)
		return nil
	})

	payload := BookingEventPayload{
		BookingID: 1,
		ItemID:    10,
		ItemName:  "drill",
		OwnerID:   1,
		BookerID:  2,
		Status:    "WAITING",
		Start:     time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC),
		End:       time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC),
		ChangedBy: 2,
	}
	require.NoError(t, bus.PublishJSON(EventBookingCreated, payload))

	require.Len(t, got, 1)
	assert.Equal(t, EventBookingCreated, got[0].Type)

	var decoded BookingEventPayload
	require.NoError(t, json.Unmarshal(got[0].Payload, &decoded))
	assert.Equal(t, payload.BookingID, decoded.BookingID)
	assert.Equal(t, payload.ItemName, decoded.ItemName)
}

func TestEventBusUnrelatedType(t *testing.T) {
	bus := NewEventBus()

	called := false
	bus.Subscribe(EventBookingApproved, func(event *Event) error {
		called = true
		return nil
	})

	require.NoError(t, bus.PublishJSON(EventBookingRejected, BookingEventPayload{BookingID: 1}))
	assert.False(t, called)
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()

	count := 0
	for i := 0; i < 3; i++ {
		bus.Subscribe(EventBookingCanceled, func(event *Event) error {
			count++
			return nil
		})
	}

	require.NoError(t, bus.PublishJSON(EventBookingCanceled, BookingEventPayload{BookingID: 1}))
	assert.Equal(t, 3, count)
}

func TestNilBusPublish(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventBookingCreated, BookingEventPayload{}))
}
