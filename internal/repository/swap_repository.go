package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "skillhub/internal/errors"
	"skillhub/internal/model"
)

// SwapRepository is the ledger of swap requests. It checks record-level
// invariants only; status legality belongs to the lifecycle service.
type SwapRepository interface {
	// Create assigns an ID, CreatedAt and pending status, then stores the
	// request. It fails with ErrInvalidParticipants when sender == receiver.
	Create(ctx context.Context, request *model.SwapRequest) error
	// FindByID returns nil, nil when no request has the ID.
	FindByID(ctx context.Context, id snowflake.ID) (*model.SwapRequest, error)
	// UpdateStatus moves the request from expected to next. It fails with
	// ErrSwapNotFound for unknown IDs and ErrConflict when the stored status
	// is no longer expected.
	UpdateStatus(ctx context.Context, id snowflake.ID, expected, next model.SwapStatus) (*model.SwapRequest, error)
	// AttachRating fills the rating slot of side once the swap is completed.
	AttachRating(ctx context.Context, id snowflake.ID, side model.Side, rating int, feedback string) (*model.SwapRequest, error)
	// ListByParticipant returns requests sent or received by userID, newest
	// first with ties in insertion order, optionally filtered by status.
	ListByParticipant(ctx context.Context, userID uuid.UUID, statuses ...model.SwapStatus) ([]model.SwapRequest, error)
}

// NewIDGenerator returns the snowflake node used to number swap requests.
func NewIDGenerator(node int64) (*snowflake.Node, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", node, err)
	}
	return n, nil
}

// prepareSwap applies the ledger's creation defaults.
func prepareSwap(request *model.SwapRequest, ids *snowflake.Node, now time.Time) error {
	if request.FromUserID == request.ToUserID {
		return apperrors.ErrInvalidParticipants
	}
	request.ID = ids.Generate()
	request.Status = model.SwapStatusPending
	request.CreatedAt = now
	request.UpdatedAt = now
	request.FromUserRating, request.ToUserRating = nil, nil
	request.FromUserFeedback, request.ToUserFeedback = "", ""
	return nil
}

// checkRating validates a rating against the request's current state.
func checkRating(request *model.SwapRequest, side model.Side, rating int) error {
	if rating < model.MinRating || rating > model.MaxRating {
		return apperrors.ErrInvalidRating
	}
	if request.Status != model.SwapStatusCompleted {
		return apperrors.ErrInvalidState
	}
	if request.Rating(side) != nil {
		return apperrors.ErrAlreadyRated
	}
	return nil
}

type swapRepository struct {
	db  *gorm.DB
	ids *snowflake.Node
	now func() time.Time
}

// NewSwapRepository creates a GORM-backed swap ledger.
func NewSwapRepository(db *gorm.DB, ids *snowflake.Node) SwapRepository {
	return &swapRepository{db: db, ids: ids, now: time.Now}
}

// Create creates a new swap request record.
func (r *swapRepository) Create(ctx context.Context, request *model.SwapRequest) error {
	if err := prepareSwap(request, r.ids, r.now().UTC()); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return fmt.Errorf("insert swap request: %w", err)
	}
	return nil
}

// FindByID finds a swap request by ID.
func (r *swapRepository) FindByID(ctx context.Context, id snowflake.ID) (*model.SwapRequest, error) {
	var request model.SwapRequest
	err := r.db.WithContext(ctx).Where("id = ?", id.Int64()).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query swap request: %w", err)
	}
	return &request, nil
}

// UpdateStatus writes the new status only if the row still holds expected.
func (r *swapRepository) UpdateStatus(ctx context.Context, id snowflake.ID, expected, next model.SwapStatus) (*model.SwapRequest, error) {
	res := r.db.WithContext(ctx).Model(&model.SwapRequest{}).
		Where("id = ? AND status = ?", id.Int64(), expected).
		Updates(map[string]interface{}{
			"status":     next,
			"updated_at": r.now().UTC(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update swap status: %w", res.Error)
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperrors.ErrSwapNotFound
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrConflict
	}
	return current, nil
}

// AttachRating sets one side's rating under a row lock.
func (r *swapRepository) AttachRating(ctx context.Context, id snowflake.ID, side model.Side, rating int, feedback string) (*model.SwapRequest, error) {
	var request model.SwapRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id.Int64()).First(&request).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrSwapNotFound
		}
		if err != nil {
			return err
		}
		if err := checkRating(&request, side, rating); err != nil {
			return err
		}
		request.SetRating(side, rating, feedback)
		request.UpdatedAt = r.now().UTC()
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListByParticipant lists requests where the user is sender or receiver.
func (r *swapRepository) ListByParticipant(ctx context.Context, userID uuid.UUID, statuses ...model.SwapStatus) ([]model.SwapRequest, error) {
	q := r.db.WithContext(ctx).Where("(from_user_id = ? OR to_user_id = ?)", userID, userID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	var requests []model.SwapRequest
	if err := q.Order("created_at DESC").Order("id ASC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	return requests, nil
}
