package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "skillhub/internal/errors"
	"skillhub/internal/metrics"
	"skillhub/internal/model"
	"skillhub/internal/repository"
)

// Metric event names that are not status transitions.
const (
	eventCreate = "create"
	eventRate   = "rate"
)

// CreateSwapInput describes a new swap request from the acting profile.
type CreateSwapInput struct {
	ToUserID       uuid.UUID
	OfferedSkillID string
	WantedSkillID  string
	Message        string
}

// Inbox groups an actor's swap requests the way the requests page shows them.
type Inbox struct {
	Incoming []model.SwapRequest `json:"incoming"`
	Outgoing []model.SwapRequest `json:"outgoing"`
	Active   []model.SwapRequest `json:"active"`
	History  []model.SwapRequest `json:"history"`
}

// RatingSummary is the average rating a profile received from swap partners.
type RatingSummary struct {
	UserID  uuid.UUID       `json:"user_id"`
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`
}

// SwapService drives swap requests through their lifecycle.
type SwapService interface {
	CreateRequest(ctx context.Context, actor model.Actor, in CreateSwapInput) (*model.SwapRequest, error)
	Accept(ctx context.Context, actor model.Actor, id snowflake.ID) (*model.SwapRequest, error)
	Reject(ctx context.Context, actor model.Actor, id snowflake.ID) (*model.SwapRequest, error)
	Cancel(ctx context.Context, actor model.Actor, id snowflake.ID) (*model.SwapRequest, error)
	Complete(ctx context.Context, actor model.Actor, id snowflake.ID) (*model.SwapRequest, error)
	Rate(ctx context.Context, actor model.Actor, id snowflake.ID, rating int, feedback string) (*model.SwapRequest, error)
	Get(ctx context.Context, actor model.Actor, id snowflake.ID) (*model.SwapRequest, error)
	List(ctx context.Context, actor model.Actor, statuses ...model.SwapStatus) ([]model.SwapRequest, error)
	Inbox(ctx context.Context, actor model.Actor) (*Inbox, error)
	RatingSummary(ctx context.Context, userID uuid.UUID) (*RatingSummary, error)
}

type swapService struct {
	profileRepo repository.ProfileRepository
	swapRepo    repository.SwapRepository
	metrics     *metrics.Recorder
	logger      *slog.Logger
}

// NewSwapService creates a new swap service.
func NewSwapService(
	profileRepo repository.ProfileRepository,
	swapRepo repository.SwapRepository,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) SwapService {
	if logger == nil {
		logger = slog.Default()
	}
	return &swapService{
		profileRepo: profileRepo,
		swapRepo:    swapRepo,
		metrics:     recorder,
		logger:      logger.With("component", "swap_service"),
	}
}

// CreateRequest proposes a swap of one of the actor's offered skills for one
// of the receiver's offered skills. Both skills are copied into the request.
func (s *swapService) CreateRequest(ctx context.Context, actor model.Actor, in CreateSwapInput) (req *model.SwapRequest, err error) {
	defer func() { s.record(ctx, eventCreate, actor, req, err) }()

	if actor.Banned {
		return nil, apperrors.ErrActorBanned
	}
	if actor.UserID == in.ToUserID {
		return nil, apperrors.ErrInvalidParticipants
	}

	sender, err := s.profileRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("find sender: %w", err)
	}
	if sender == nil {
		return nil, apperrors.ErrProfileNotFound
	}
	receiver, err := s.profileRepo.FindByID(ctx, in.ToUserID)
	if err != nil {
		return nil, fmt.Errorf("find receiver: %w", err)
	}
	if receiver == nil {
		return nil, apperrors.ErrProfileNotFound
	}
	if receiver.Banned {
		return nil, apperrors.ErrForbidden
	}

	offered, ok := model.FindSkill(sender.SkillsOffered, in.OfferedSkillID)
	if !ok {
		return nil, apperrors.ErrSkillNotOffered
	}
	wanted, ok := model.FindSkill(receiver.SkillsOffered, in.WantedSkillID)
	if !ok {
		return nil, apperrors.ErrSkillNotOffered
	}

	req = &model.SwapRequest{
		FromUserID:   sender.ID,
		ToUserID:     receiver.ID,
		OfferedSkill: offered,
		WantedSkill:  wanted,
		Message:      in.Message,
	}
	if err := s.swapRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Accept moves a pending request to accepted. Receiver only.
func (s *swapService) Accept(ctx context.Context, actor model.Actor, id snowflake.ID) (*model.SwapRequest, error) {
	return s.transition(ctx, actor, id, model.SwapEventAccept)
}

// Reject moves a pending request to rejected. Receiver only.
func (s *swapService) Reject(ctx context.Context, actor model.Actor, id snowflake.ID) (*model.SwapRequest, error) {
	return s.transition(ctx, actor, id, model.SwapEventReject)
}

// Cancel moves a pending request to cancelled. Sender only.
func (s *swapService) Cancel(ctx context.Context, actor model.Actor, id snowflake.ID) (*model.SwapRequest, error) {
	return s.transition(ctx, actor, id, model.SwapEventCancel)
}

// Complete moves an accepted request to completed. Either participant.
func (s *swapService) Complete(ctx context.Context, actor model.Actor, id snowflake.ID) (*model.SwapRequest, error) {
	return s.transition(ctx, actor, id, model.SwapEventComplete)
}

func (s *swapService) transition(ctx context.Context, actor model.Actor, id snowflake.ID, event model.SwapEvent) (req *model.SwapRequest, err error) {
	defer func() { s.record(ctx, string(event), actor, req, err) }()

	current, side, err := s.participantRequest(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	t, ok := model.LookupTransition(current.Status, event)
	if !ok {
		return nil, apperrors.ErrInvalidTransition
	}
	if !t.By.Allows(side) {
		return nil, apperrors.ErrForbidden
	}

	// The ledger only writes if the status is still t.From.
	return s.swapRepo.UpdateStatus(ctx, id, t.From, t.To)
}

// Rate attaches the actor's rating and feedback to a completed request. Each
// participant fills only their own slot.
func (s *swapService) Rate(ctx context.Context, actor model.Actor, id snowflake.ID, rating int, feedback string) (req *model.SwapRequest, err error) {
	defer func() { s.record(ctx, eventRate, actor, req, err) }()

	_, side, err := s.participantRequest(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.swapRepo.AttachRating(ctx, id, side, rating, feedback)
}

// participantRequest loads a request on behalf of a mutating actor and
// resolves the actor's side.
func (s *swapService) participantRequest(ctx context.Context, actor model.Actor, id snowflake.ID) (*model.SwapRequest, model.Side, error) {
	if actor.Banned {
		return nil, "", apperrors.ErrActorBanned
	}
	req, err := s.swapRepo.FindByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("find swap request: %w", err)
	}
	if req == nil {
		return nil, "", apperrors.ErrSwapNotFound
	}
	side, ok := req.SideOf(actor.UserID)
	if !ok {
		return nil, "", apperrors.ErrForbidden
	}
	return req, side, nil
}

// Get returns a request visible to its participants and to admins.
func (s *swapService) Get(ctx context.Context, actor model.Actor, id snowflake.ID) (*model.SwapRequest, error) {
	req, err := s.swapRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find swap request: %w", err)
	}
	if req == nil {
		return nil, apperrors.ErrSwapNotFound
	}
	if !req.Involves(actor.UserID) && !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return req, nil
}

// List returns the actor's requests, newest first.
func (s *swapService) List(ctx context.Context, actor model.Actor, statuses ...model.SwapStatus) ([]model.SwapRequest, error) {
	for _, st := range statuses {
		if !st.Valid() {
			return nil, apperrors.ErrInvalidState
		}
	}
	return s.swapRepo.ListByParticipant(ctx, actor.UserID, statuses...)
}

// Inbox splits the actor's requests into incoming and outgoing pending
// requests, accepted ones, and finished ones.
func (s *swapService) Inbox(ctx context.Context, actor model.Actor) (*Inbox, error) {
	all, err := s.swapRepo.ListByParticipant(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	inbox := &Inbox{
		Incoming: []model.SwapRequest{},
		Outgoing: []model.SwapRequest{},
		Active:   []model.SwapRequest{},
		History:  []model.SwapRequest{},
	}
	for _, r := range all {
		switch {
		case r.Status == model.SwapStatusPending && r.ToUserID == actor.UserID:
			inbox.Incoming = append(inbox.Incoming, r)
		case r.Status == model.SwapStatusPending:
			inbox.Outgoing = append(inbox.Outgoing, r)
		case r.Status == model.SwapStatusAccepted:
			inbox.Active = append(inbox.Active, r)
		default:
			inbox.History = append(inbox.History, r)
		}
	}
	return inbox, nil
}

// RatingSummary averages the ratings userID received across completed swaps,
// rounded to one decimal place.
func (s *swapService) RatingSummary(ctx context.Context, userID uuid.UUID) (*RatingSummary, error) {
	completed, err := s.swapRepo.ListByParticipant(ctx, userID, model.SwapStatusCompleted)
	if err != nil {
		return nil, err
	}

	summary := &RatingSummary{UserID: userID, Average: decimal.Zero}
	total := decimal.Zero
	for i := range completed {
		if r := completed[i].ReceivedRating(userID); r != nil {
			total = total.Add(decimal.NewFromInt(int64(*r)))
			summary.Count++
		}
	}
	if summary.Count > 0 {
		summary.Average = total.Div(decimal.NewFromInt(int64(summary.Count))).Round(1)
	}
	return summary, nil
}

func (s *swapService) record(ctx context.Context, event string, actor model.Actor, req *model.SwapRequest, err error) {
	if s.metrics != nil {
		s.metrics.SwapEvent(event, err)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "swap request refused",
			"event", event,
			"actor_id", actor.UserID,
			"error", err,
		)
		return
	}
	s.logger.InfoContext(ctx, "swap request updated",
		"event", event,
		"actor_id", actor.UserID,
		"swap_id", req.ID.String(),
		"status", req.Status,
	)
}
