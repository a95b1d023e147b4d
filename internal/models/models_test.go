package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeStateToggle(t *testing.T) {
	assert.Equal(t, Liked, Unliked.Toggle())
	assert.Equal(t, Unliked, Liked.Toggle())
	assert.Equal(t, Unliked, Unliked.Toggle().Toggle())
}

func TestMilestoneApplyStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := &Milestone{Status: MilestonePlanned}

	require.True(t, m.ApplyStatus(MilestoneCompleted, now))
	require.NotNil(t, m.CompletedAt)
	assert.Equal(t, now, *m.CompletedAt)

	// Re-applying completed keeps the original timestamp
	assert.False(t, m.ApplyStatus(MilestoneCompleted, now.Add(time.Hour)))
	assert.Equal(t, now, *m.CompletedAt)

	require.True(t, m.ApplyStatus(MilestoneBlocked, now))
	assert.Nil(t, m.CompletedAt)
	assert.Equal(t, MilestoneBlocked, m.Status)
}

func TestMilestoneTransitionTable(t *testing.T) {
	all := []MilestoneStatus{MilestonePlanned, MilestoneInProgress, MilestoneCompleted, MilestoneBlocked}
	for _, from := range all {
		assert.True(t, from.Valid())
		for _, to := range all {
			assert.Equal(t, from != to, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, MilestoneStatus("archived").Valid())
	assert.False(t, MilestoneStatus("archived").CanTransitionTo(MilestonePlanned))
}

func TestNotificationReadState(t *testing.T) {
	n := &Notification{}
	assert.Equal(t, Unread, n.ReadState())
	n.IsRead = true
	assert.Equal(t, Read, n.ReadState())
}
