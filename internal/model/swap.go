package model

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// SwapStatus represents the lifecycle state of a swap request.
type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCancelled SwapStatus = "cancelled"
	SwapStatusCompleted SwapStatus = "completed"
)

// Valid reports whether s is a known status.
func (s SwapStatus) Valid() bool {
	switch s {
	case SwapStatusPending, SwapStatusAccepted, SwapStatusRejected, SwapStatusCancelled, SwapStatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no status transition leaves s.
func (s SwapStatus) Terminal() bool {
	return s == SwapStatusRejected || s == SwapStatusCancelled || s == SwapStatusCompleted
}

// SwapEvent is an action that moves a swap request between states.
type SwapEvent string

const (
	SwapEventAccept   SwapEvent = "accept"
	SwapEventReject   SwapEvent = "reject"
	SwapEventCancel   SwapEvent = "cancel"
	SwapEventComplete SwapEvent = "complete"
)

// Side identifies a participant's position on a swap request.
type Side string

const (
	SideFrom Side = "from"
	SideTo   Side = "to"
)

// Participant says which participants may fire an event.
type Participant int

const (
	ParticipantSender Participant = iota + 1
	ParticipantReceiver
	ParticipantEither
)

// Allows reports whether a participant on side may fire the event.
func (p Participant) Allows(side Side) bool {
	switch p {
	case ParticipantEither:
		return true
	case ParticipantSender:
		return side == SideFrom
	case ParticipantReceiver:
		return side == SideTo
	}
	return false
}

// Transition is one row of the swap state machine.
type Transition struct {
	From  SwapStatus
	Event SwapEvent
	By    Participant
	To    SwapStatus
}

var transitions = []Transition{
	{From: SwapStatusPending, Event: SwapEventAccept, By: ParticipantReceiver, To: SwapStatusAccepted},
	{From: SwapStatusPending, Event: SwapEventReject, By: ParticipantReceiver, To: SwapStatusRejected},
	{From: SwapStatusPending, Event: SwapEventCancel, By: ParticipantSender, To: SwapStatusCancelled},
	{From: SwapStatusAccepted, Event: SwapEventComplete, By: ParticipantEither, To: SwapStatusCompleted},
}

// LookupTransition returns the transition for (from, event), if one is listed.
func LookupTransition(from SwapStatus, event SwapEvent) (Transition, bool) {
	for _, t := range transitions {
		if t.From == from && t.Event == event {
			return t, true
		}
	}
	return Transition{}, false
}

// SwapRequest is a proposed exchange of one offered skill for one wanted skill.
type SwapRequest struct {
	ID               snowflake.ID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	FromUserID       uuid.UUID    `json:"from_user_id" gorm:"type:char(36);not null;index"`
	ToUserID         uuid.UUID    `json:"to_user_id" gorm:"type:char(36);not null;index"`
	OfferedSkill     Skill        `json:"offered_skill" gorm:"serializer:json;type:json"`
	WantedSkill      Skill        `json:"wanted_skill" gorm:"serializer:json;type:json"`
	Status           SwapStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	Message          string       `json:"message,omitempty" gorm:"type:text"`
	FromUserRating   *int         `json:"from_user_rating,omitempty"`
	FromUserFeedback string       `json:"from_user_feedback,omitempty" gorm:"type:text"`
	ToUserRating     *int         `json:"to_user_rating,omitempty"`
	ToUserFeedback   string       `json:"to_user_feedback,omitempty" gorm:"type:text"`
	CreatedAt        time.Time    `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// TableName pins the table name used by the relational backend.
func (SwapRequest) TableName() string { return "swap_requests" }

// SideOf returns the side userID is on, or false for non-participants.
func (r *SwapRequest) SideOf(userID uuid.UUID) (Side, bool) {
	switch userID {
	case r.FromUserID:
		return SideFrom, true
	case r.ToUserID:
		return SideTo, true
	}
	return "", false
}

// Involves reports whether userID is the sender or receiver.
func (r *SwapRequest) Involves(userID uuid.UUID) bool {
	_, ok := r.SideOf(userID)
	return ok
}

// Rating returns the rating written by side, if any.
func (r *SwapRequest) Rating(side Side) *int {
	if side == SideFrom {
		return r.FromUserRating
	}
	return r.ToUserRating
}

// SetRating fills the rating slot owned by side.
func (r *SwapRequest) SetRating(side Side, rating int, feedback string) {
	if side == SideFrom {
		r.FromUserRating = &rating
		r.FromUserFeedback = feedback
		return
	}
	r.ToUserRating = &rating
	r.ToUserFeedback = feedback
}

// ReceivedRating returns the rating the given participant received from the
// other side.
func (r *SwapRequest) ReceivedRating(userID uuid.UUID) *int {
	switch userID {
	case r.ToUserID:
		return r.FromUserRating
	case r.FromUserID:
		return r.ToUserRating
	}
	return nil
}

// Clone returns a deep copy of r.
func (r *SwapRequest) Clone() *SwapRequest {
	if r == nil {
		return nil
	}
	c := *r
	if r.FromUserRating != nil {
		v := *r.FromUserRating
		c.FromUserRating = &v
	}
	if r.ToUserRating != nil {
		v := *r.ToUserRating
		c.ToUserRating = &v
	}
	return &c
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)
