package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseServiceStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want ServiceStatus
	}{
		{"Booking Confirmed", StatusConfirmed},
		{"Completed", StatusCompleted},
		{"Booking Canceled", StatusCanceled},
		{"  Booking Confirmed ", StatusOther},
		{"booking confirmed", StatusOther},
		{"confirmed", StatusOther},
		{"COMPLETED", StatusOther},
		{"Booking Cancelled", StatusOther},
		{"BOOKING CANCELED", StatusOther},
		{"cancelled", StatusOther},
		{"canceled", StatusOther},
		{"In Progress", StatusOther},
		{"", StatusOther},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseServiceStatus(tt.raw))
		})
	}
}

func TestIsTerminalStatus(t *testing.T) {
	for _, raw := range []string{"Completed", "COMPLETED", "Booking Canceled", " booking cancelled ", "canceled", "cancelled"} {
		assert.True(t, IsTerminalStatus(raw), raw)
	}
	for _, raw := range []string{"Booking Confirmed", "confirmed", "In Progress", ""} {
		assert.False(t, IsTerminalStatus(raw), raw)
	}
}

func TestServiceStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusOther.IsTerminal())
	assert.Equal(t, StatusCanceledText, StatusCanceled.String())
}

func TestServiceType_Names(t *testing.T) {
	tests := []struct {
		in          ServiceType
		label, full string
	}{
		{ServiceCarPlay, "CarPlay", "CarPlay Installation"},
		{ServiceGearbox, "Gearbox", "Gearbox Service"},
		{ServiceXHPRemap, "XHP Remap", "BMW XHP Gearbox Remap"},
		{ServiceRegular, "Regular Service", "Regular Service"},
		{"", "Service", "Service"},
		{"tyre_swap", "Service", "tyre_swap"},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.label, tt.in.Label())
			assert.Equal(t, tt.full, tt.in.FullName())
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, OrderDelivered.IsTerminal())
	assert.True(t, OrderCancelled.IsTerminal())
	assert.False(t, OrderShipped.IsTerminal())
}

func TestVehicle_Label(t *testing.T) {
	assert.Equal(t, "BMW 330i", Vehicle{Make: "BMW", Model: "330i"}.Label())
}
