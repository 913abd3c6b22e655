package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudEventRoundTrip(t *testing.T) {
	payload := BookingCreatedEvent{
		BookingID:         uuid.New(),
		RouteID:           uuid.New(),
		PassengerFullName: "Иванов Иван",
		OccurredAt:        time.Date(2030, 9, 10, 8, 0, 0, 0, time.UTC),
	}

	event, err := NewCloudEvent("service-reservation", BookingCreated, payload)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "1.0", event.SpecVersion)
	assert.Equal(t, BookingCreated, event.Type)

	// The envelope survives the wire encoding.
	raw, err := json.Marshal(event)
	require.NoError(t, err)
	var decoded CloudEvent
	require.NoError(t, json.Unmarshal(raw, &decoded))

	var got BookingCreatedEvent
	require.NoError(t, decoded.ParseData(&got))
	assert.Equal(t, payload, got)
}
