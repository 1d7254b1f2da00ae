package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleForEmail(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleForEmail(AdminEmail))
	assert.Equal(t, RoleUser, RoleForEmail("jane@example.com"))
	assert.Equal(t, RoleUser, RoleForEmail(""))
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		assert.True(t, ValidStatus(status), status)
	}
	assert.False(t, ValidStatus("limbo"))
	assert.False(t, ValidStatus(""))
}

func TestDefaultCatalog(t *testing.T) {
	tours := DefaultTours()
	assert.Len(t, tours, 3)
	assert.Equal(t, "tour-1", tours[0].ID)
	assert.InDelta(t, 399.0, tours[2].Price, 0.001)

	destinations := DefaultDestinations()
	assert.Len(t, destinations, 3)
	assert.Equal(t, "Mountain Peaks", destinations[0].Name)
}
