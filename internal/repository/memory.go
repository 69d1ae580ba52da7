package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"

	apperrors "skillhub/internal/errors"
	"skillhub/internal/model"
)

// The in-memory implementations satisfy the same contracts as the GORM ones.
// Every call runs under one mutex, so writes apply fully or not at all, and
// records are deep-copied in and out so callers never share state with the
// store.

type memoryProfileRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*model.Profile
	byEmail map[string]uuid.UUID
	order   []uuid.UUID
	now     func() time.Time
}

// NewMemoryProfileRepository creates an in-memory profile directory.
func NewMemoryProfileRepository() ProfileRepository {
	return &memoryProfileRepository{
		byID:    make(map[uuid.UUID]*model.Profile),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func (r *memoryProfileRepository) Create(_ context.Context, profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := model.EmailKey(profile.Email)
	if _, exists := r.byEmail[key]; exists {
		return apperrors.ErrDuplicateEmail
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if _, exists := r.byID[profile.ID]; exists {
		return fmt.Errorf("profile %s already exists", profile.ID)
	}

	now := r.now().UTC()
	profile.EmailKey = key
	profile.CreatedAt = now
	profile.UpdatedAt = now

	r.byID[profile.ID] = profile.Clone()
	r.byEmail[key] = profile.ID
	r.order = append(r.order, profile.ID)
	return nil
}

func (r *memoryProfileRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id].Clone(), nil
}

func (r *memoryProfileRepository) FindByEmail(_ context.Context, email string) (*model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[model.EmailKey(email)]
	if !ok {
		return nil, nil
	}
	return r.byID[id].Clone(), nil
}

func (r *memoryProfileRepository) Update(ctx context.Context, id uuid.UUID, patch model.ProfilePatch) (*model.Profile, error) {
	return r.Mutate(ctx, id, func(profile *model.Profile) error {
		patch.Apply(profile)
		return nil
	})
}

func (r *memoryProfileRepository) Mutate(_ context.Context, id uuid.UUID, fn func(*model.Profile) error) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	updated := current.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	updated.UpdatedAt = r.now().UTC()
	r.byID[id] = updated
	return updated.Clone(), nil
}

func (r *memoryProfileRepository) List(_ context.Context) ([]model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]model.Profile, 0, len(r.order))
	for _, id := range r.order {
		profiles = append(profiles, *r.byID[id].Clone())
	}
	return profiles, nil
}

type memorySwapRepository struct {
	mu    sync.RWMutex
	byID  map[snowflake.ID]*model.SwapRequest
	order []snowflake.ID
	ids   *snowflake.Node
	now   func() time.Time
}

// NewMemorySwapRepository creates an in-memory swap ledger.
func NewMemorySwapRepository(ids *snowflake.Node) SwapRepository {
	return &memorySwapRepository{
		byID: make(map[snowflake.ID]*model.SwapRequest),
		ids:  ids,
		now:  time.Now,
	}
}

func (r *memorySwapRepository) Create(_ context.Context, request *model.SwapRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := prepareSwap(request, r.ids, r.now().UTC()); err != nil {
		return err
	}
	r.byID[request.ID] = request.Clone()
	r.order = append(r.order, request.ID)
	return nil
}

func (r *memorySwapRepository) FindByID(_ context.Context, id snowflake.ID) (*model.SwapRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id].Clone(), nil
}

func (r *memorySwapRepository) UpdateStatus(_ context.Context, id snowflake.ID, expected, next model.SwapStatus) (*model.SwapRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrSwapNotFound
	}
	if current.Status != expected {
		return nil, apperrors.ErrConflict
	}
	updated := current.Clone()
	updated.Status = next
	updated.UpdatedAt = r.now().UTC()
	r.byID[id] = updated
	return updated.Clone(), nil
}

func (r *memorySwapRepository) AttachRating(_ context.Context, id snowflake.ID, side model.Side, rating int, feedback string) (*model.SwapRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrSwapNotFound
	}
	if err := checkRating(current, side, rating); err != nil {
		return nil, err
	}
	updated := current.Clone()
	updated.SetRating(side, rating, feedback)
	updated.UpdatedAt = r.now().UTC()
	r.byID[id] = updated
	return updated.Clone(), nil
}

func (r *memorySwapRepository) ListByParticipant(_ context.Context, userID uuid.UUID, statuses ...model.SwapStatus) ([]model.SwapRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requests := make([]model.SwapRequest, 0)
	for _, id := range r.order {
		req := r.byID[id]
		if !req.Involves(userID) || !statusIn(req.Status, statuses) {
			continue
		}
		requests = append(requests, *req.Clone())
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func statusIn(status model.SwapStatus, statuses []model.SwapStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
