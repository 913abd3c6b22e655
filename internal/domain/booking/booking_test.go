package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intercity-transit/service-reservation/internal/domain"
)

func TestNewBooking_Valid(t *testing.T) {
	routeID := uuid.New()
	before := time.Now().UTC()

	b, err := NewBooking(routeID, "Иванов Иван Иванович", "+7 904 123-45-67", "ivan@mail.ru")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Equal(t, routeID, b.RouteID())
	assert.Equal(t, "Иванов Иван Иванович", b.PassengerFullName())
	assert.Equal(t, "+7 904 123-45-67", b.PassengerPhone())
	assert.Equal(t, "ivan@mail.ru", b.PassengerEmail())
	assert.False(t, b.BookedAt().Before(before))
}

func TestNewBooking_Invalid(t *testing.T) {
	routeID := uuid.New()

	tests := []struct {
		name     string
		routeID  uuid.UUID
		fullName string
		phone    string
		email    string
	}{
		{"nil route ID", uuid.Nil, "Иванов Иван", "+7 904 123-45-67", "ivan@mail.ru"},
		{"empty full name", routeID, "", "+7 904 123-45-67", "ivan@mail.ru"},
		{"bad phone", routeID, "Иванов Иван", "12345", "ivan@mail.ru"},
		{"bad email domain", routeID, "Иванов Иван", "+7 904 123-45-67", "ivan@unknown.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBooking(tt.routeID, tt.fullName, tt.phone, tt.email)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}
