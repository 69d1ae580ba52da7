package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLookupTransition(t *testing.T) {
	tests := []struct {
		from   SwapStatus
		event  SwapEvent
		wantOK bool
		to     SwapStatus
		by     Participant
	}{
		{SwapStatusPending, SwapEventAccept, true, SwapStatusAccepted, ParticipantReceiver},
		{SwapStatusPending, SwapEventReject, true, SwapStatusRejected, ParticipantReceiver},
		{SwapStatusPending, SwapEventCancel, true, SwapStatusCancelled, ParticipantSender},
		{SwapStatusAccepted, SwapEventComplete, true, SwapStatusCompleted, ParticipantEither},
		{SwapStatusPending, SwapEventComplete, false, "", 0},
		{SwapStatusAccepted, SwapEventCancel, false, "", 0},
		{SwapStatusRejected, SwapEventAccept, false, "", 0},
		{SwapStatusCancelled, SwapEventAccept, false, "", 0},
		{SwapStatusCompleted, SwapEventComplete, false, "", 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			got, ok := LookupTransition(tt.from, tt.event)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.to, got.To)
				assert.Equal(t, tt.by, got.By)
			}
		})
	}
}

func TestNoTransitionLeavesTerminalStates(t *testing.T) {
	for _, status := range []SwapStatus{SwapStatusRejected, SwapStatusCancelled, SwapStatusCompleted} {
		assert.True(t, status.Terminal())
		for _, event := range []SwapEvent{SwapEventAccept, SwapEventReject, SwapEventCancel, SwapEventComplete} {
			_, ok := LookupTransition(status, event)
			assert.False(t, ok, "%s via %s", status, event)
		}
	}
}

func TestParticipantAllows(t *testing.T) {
	assert.True(t, ParticipantSender.Allows(SideFrom))
	assert.False(t, ParticipantSender.Allows(SideTo))
	assert.True(t, ParticipantReceiver.Allows(SideTo))
	assert.False(t, ParticipantReceiver.Allows(SideFrom))
	assert.True(t, ParticipantEither.Allows(SideFrom))
	assert.True(t, ParticipantEither.Allows(SideTo))
}

func TestSwapRequest_Sides(t *testing.T) {
	from, to := uuid.New(), uuid.New()
	r := &SwapRequest{FromUserID: from, ToUserID: to}

	side, ok := r.SideOf(from)
	assert.True(t, ok)
	assert.Equal(t, SideFrom, side)
	side, ok = r.SideOf(to)
	assert.True(t, ok)
	assert.Equal(t, SideTo, side)
	_, ok = r.SideOf(uuid.New())
	assert.False(t, ok)

	r.SetRating(SideFrom, 5, "great teacher")
	r.SetRating(SideTo, 3, "")
	assert.Equal(t, 5, *r.ReceivedRating(to))
	assert.Equal(t, 3, *r.ReceivedRating(from))
	assert.Nil(t, r.ReceivedRating(uuid.New()))
}

func TestProfilePatch(t *testing.T) {
	p := NewProfile("Alex", "alex@example.com")
	name := "Alex Doe"
	banned := true

	assert.True(t, ProfilePatch{}.Empty())
	assert.False(t, ProfilePatch{Banned: &banned}.TouchesOwnerFields())

	patch := ProfilePatch{Name: &name, Banned: &banned}
	assert.True(t, patch.TouchesOwnerFields())
	patch.Apply(p)
	assert.Equal(t, "Alex Doe", p.Name)
	assert.True(t, p.Banned)
	assert.Equal(t, DefaultInterests, p.Interests)
}
