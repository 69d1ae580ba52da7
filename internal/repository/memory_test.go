package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "skillhub/internal/errors"
	"skillhub/internal/model"
)

func newNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := NewIDGenerator(1)
	require.NoError(t, err)
	return node
}

func TestMemoryProfileRepository_CreateAndFind(t *testing.T) {
	repo := NewMemoryProfileRepository()
	ctx := context.Background()

	profile := model.NewProfile("Jane Smith", "Jane@Example.com")
	profile.Location = "New York, NY"
	profile.SkillsOffered = []model.Skill{{ID: "s1", Name: "Guitar", Category: model.SkillCategoryLifestyle}}
	require.NoError(t, repo.Create(ctx, profile))
	require.NotEqual(t, uuid.Nil, profile.ID)

	byID, err := repo.FindByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profile, byID)

	byEmail, err := repo.FindByEmail(ctx, "jane@EXAMPLE.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, profile.ID, byEmail.ID)
	assert.Equal(t, "Jane@Example.com", byEmail.Email)
}

func TestMemoryProfileRepository_AbsentIsNotAnError(t *testing.T) {
	repo := NewMemoryProfileRepository()
	ctx := context.Background()

	p, err := repo.FindByID(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, p)

	p, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestMemoryProfileRepository_DuplicateEmail(t *testing.T) {
	repo := NewMemoryProfileRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, model.NewProfile("Alex", "alex@example.com")))
	err := repo.Create(ctx, model.NewProfile("Other Alex", "ALEX@example.com "))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryProfileRepository_Update(t *testing.T) {
	repo := NewMemoryProfileRepository()
	ctx := context.Background()

	profile := model.NewProfile("Alex", "alex@example.com")
	require.NoError(t, repo.Create(ctx, profile))

	name := "Alex Doe"
	private := false
	banned := true
	updated, err := repo.Update(ctx, profile.ID, model.ProfilePatch{Name: &name, IsPublic: &private, Banned: &banned})
	require.NoError(t, err)
	assert.Equal(t, "Alex Doe", updated.Name)
	assert.False(t, updated.IsPublic)
	assert.True(t, updated.Banned)
	assert.Equal(t, model.DefaultAvailability, updated.Availability, "unset fields are kept")

	_, err = repo.Update(ctx, uuid.New(), model.ProfilePatch{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestMemoryProfileRepository_Mutate(t *testing.T) {
	repo := NewMemoryProfileRepository()
	ctx := context.Background()

	profile := model.NewProfile("Alex", "alex@example.com")
	require.NoError(t, repo.Create(ctx, profile))

	updated, err := repo.Mutate(ctx, profile.ID, func(p *model.Profile) error {
		p.Location = "Lisbon"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", updated.Location)

	stop := errors.New("stop")
	_, err = repo.Mutate(ctx, profile.ID, func(p *model.Profile) error {
		p.Location = "Porto"
		return stop
	})
	assert.ErrorIs(t, err, stop)
	got, _ := repo.FindByID(ctx, profile.ID)
	assert.Equal(t, "Lisbon", got.Location, "failed mutation writes nothing")

	_, err = repo.Mutate(ctx, uuid.New(), func(*model.Profile) error { return nil })
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestMemoryProfileRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryProfileRepository()
	ctx := context.Background()

	profile := model.NewProfile("Alex", "alex@example.com")
	profile.SkillsOffered = []model.Skill{{ID: "s1", Name: "React", Category: model.SkillCategoryTech}}
	require.NoError(t, repo.Create(ctx, profile))

	profile.SkillsOffered[0].Name = "mutated"
	got, _ := repo.FindByID(ctx, profile.ID)
	got.Name = "also mutated"

	again, _ := repo.FindByID(ctx, profile.ID)
	assert.Equal(t, "React", again.SkillsOffered[0].Name)
	assert.Equal(t, "Alex", again.Name)
}

func TestMemoryProfileRepository_ListKeepsCreationOrder(t *testing.T) {
	repo := NewMemoryProfileRepository()
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, repo.Create(ctx, model.NewProfile(email, email)))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a@example.com", all[0].Email)
	assert.Equal(t, "c@example.com", all[2].Email)
}

func newSwap(from, to uuid.UUID) *model.SwapRequest {
	return &model.SwapRequest{
		FromUserID:   from,
		ToUserID:     to,
		OfferedSkill: model.Skill{ID: "o", Name: "Guitar", Category: model.SkillCategoryLifestyle},
		WantedSkill:  model.Skill{ID: "w", Name: "Excel", Category: model.SkillCategoryBusiness},
	}
}

func TestMemorySwapRepository_CreateDefaults(t *testing.T) {
	repo := NewMemorySwapRepository(newNode(t))
	ctx := context.Background()

	req := newSwap(uuid.New(), uuid.New())
	req.Status = model.SwapStatusCompleted
	require.NoError(t, repo.Create(ctx, req))

	assert.NotZero(t, req.ID)
	assert.Equal(t, model.SwapStatusPending, req.Status)
	assert.False(t, req.CreatedAt.IsZero())

	stored, err := repo.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req, stored)
}

func TestMemorySwapRepository_InvalidParticipants(t *testing.T) {
	repo := NewMemorySwapRepository(newNode(t))
	ctx := context.Background()
	user := uuid.New()

	err := repo.Create(ctx, newSwap(user, user))
	assert.ErrorIs(t, err, apperrors.ErrInvalidParticipants)

	list, err := repo.ListByParticipant(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemorySwapRepository_UpdateStatus(t *testing.T) {
	repo := NewMemorySwapRepository(newNode(t))
	ctx := context.Background()

	req := newSwap(uuid.New(), uuid.New())
	require.NoError(t, repo.Create(ctx, req))

	updated, err := repo.UpdateStatus(ctx, req.ID, model.SwapStatusPending, model.SwapStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusAccepted, updated.Status)

	_, err = repo.UpdateStatus(ctx, req.ID, model.SwapStatusPending, model.SwapStatusRejected)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, _ := repo.FindByID(ctx, req.ID)
	assert.Equal(t, model.SwapStatusAccepted, stored.Status)

	_, err = repo.UpdateStatus(ctx, snowflake.ID(42), model.SwapStatusPending, model.SwapStatusAccepted)
	assert.ErrorIs(t, err, apperrors.ErrSwapNotFound)
}

func TestMemorySwapRepository_ConcurrentTransitionsOneWins(t *testing.T) {
	repo := NewMemorySwapRepository(newNode(t))
	ctx := context.Background()

	req := newSwap(uuid.New(), uuid.New())
	require.NoError(t, repo.Create(ctx, req))

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, next := range []model.SwapStatus{model.SwapStatusAccepted, model.SwapStatusRejected} {
		wg.Add(1)
		go func(next model.SwapStatus) {
			defer wg.Done()
			_, err := repo.UpdateStatus(ctx, req.ID, model.SwapStatusPending, next)
			results <- err
		}(next)
	}
	wg.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		if err == nil {
			ok++
		} else if assert.ErrorIs(t, err, apperrors.ErrConflict) {
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)
}

func TestMemorySwapRepository_AttachRating(t *testing.T) {
	repo := NewMemorySwapRepository(newNode(t))
	ctx := context.Background()

	req := newSwap(uuid.New(), uuid.New())
	require.NoError(t, repo.Create(ctx, req))

	_, err := repo.AttachRating(ctx, req.ID, model.SideTo, 5, "great")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = repo.UpdateStatus(ctx, req.ID, model.SwapStatusPending, model.SwapStatusAccepted)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, req.ID, model.SwapStatusAccepted, model.SwapStatusCompleted)
	require.NoError(t, err)

	_, err = repo.AttachRating(ctx, req.ID, model.SideTo, 6, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRating)

	rated, err := repo.AttachRating(ctx, req.ID, model.SideTo, 5, "great")
	require.NoError(t, err)
	require.NotNil(t, rated.ToUserRating)
	assert.Equal(t, 5, *rated.ToUserRating)
	assert.Nil(t, rated.FromUserRating)

	_, err = repo.AttachRating(ctx, req.ID, model.SideTo, 1, "changed my mind")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRated)

	stored, _ := repo.FindByID(ctx, req.ID)
	assert.Equal(t, 5, *stored.ToUserRating)
	assert.Equal(t, "great", stored.ToUserFeedback)

	_, err = repo.AttachRating(ctx, req.ID, model.SideFrom, 4, "")
	assert.NoError(t, err, "the other side rates independently")
}

func TestMemorySwapRepository_ListByParticipant(t *testing.T) {
	repo := NewMemorySwapRepository(newNode(t)).(*memorySwapRepository)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	repo.now = func() time.Time { return clock }

	alex, jane, sam := uuid.New(), uuid.New(), uuid.New()

	older := newSwap(alex, jane)
	require.NoError(t, repo.Create(ctx, older))

	clock = base.Add(time.Hour)
	tieFirst := newSwap(jane, alex)
	require.NoError(t, repo.Create(ctx, tieFirst))
	tieSecond := newSwap(alex, sam)
	require.NoError(t, repo.Create(ctx, tieSecond))

	unrelated := newSwap(jane, sam)
	require.NoError(t, repo.Create(ctx, unrelated))

	list, err := repo.ListByParticipant(ctx, alex)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, tieFirst.ID, list[0].ID)
	assert.Equal(t, tieSecond.ID, list[1].ID)
	assert.Equal(t, older.ID, list[2].ID)

	_, err = repo.UpdateStatus(ctx, older.ID, model.SwapStatusPending, model.SwapStatusAccepted)
	require.NoError(t, err)

	accepted, err := repo.ListByParticipant(ctx, alex, model.SwapStatusAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, older.ID, accepted[0].ID)
}
