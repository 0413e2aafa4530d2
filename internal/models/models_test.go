package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"USER", "ORGANIZER", "ADMIN"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	for _, invalid := range []string{"", "user", "SUPERUSER", "Admin"} {
		_, err := ParseRole(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestCanManageEvents(t *testing.T) {
	t.Parallel()

	assert.False(t, RoleUser.CanManageEvents())
	assert.True(t, RoleOrganizer.CanManageEvents())
	assert.True(t, RoleAdmin.CanManageEvents())
}

func TestParseEventStatus(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"DRAFT", "PENDING_APPROVAL", "PUBLISHED", "REJECTED"} {
		status, err := ParseEventStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, EventStatus(valid), status)
	}

	for _, invalid := range []string{"", "draft", "LIVE"} {
		_, err := ParseEventStatus(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestOrganizerEditable(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusDraft.OrganizerEditable())
	assert.True(t, StatusRejected.OrganizerEditable())
	assert.False(t, StatusPendingApproval.OrganizerEditable())
	assert.False(t, StatusPublished.OrganizerEditable())
}

func TestEventIsFull(t *testing.T) {
	t.Parallel()

	assert.False(t, (&Event{Capacity: 10, TicketsSold: 9}).IsFull())
	assert.True(t, (&Event{Capacity: 10, TicketsSold: 10}).IsFull())
}

func TestEventSoldRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.5, (&Event{Capacity: 10, TicketsSold: 5}).SoldRatio())
	assert.Equal(t, 0.0, (&Event{Capacity: 0, TicketsSold: 5}).SoldRatio())
}

func TestEventTagList(t *testing.T) {
	t.Parallel()

	assert.Nil(t, (&Event{}).TagList())
	assert.Equal(t, []string{"go", "meetup"}, (&Event{Tags: "go, meetup"}).TagList())
	assert.Equal(t, []string{"go"}, (&Event{Tags: "go,,  "}).TagList())
}
