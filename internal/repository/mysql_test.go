package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"skillhub/internal/db"
	apperrors "skillhub/internal/errors"
	"skillhub/internal/model"
)

// testMySQL connects to the database named by SKILLHUB_TEST_MYSQL_DSN and
// recreates the tables. The database is wiped, so never point it at real data.
func testMySQL(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("SKILLHUB_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("SKILLHUB_TEST_MYSQL_DSN not set")
	}
	conn, err := db.NewMySQL(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn, true))
	return conn
}

func TestMySQLProfileRepository(t *testing.T) {
	repo := NewProfileRepository(testMySQL(t))
	ctx := context.Background()

	profile := model.NewProfile("Alex", "Alex@Example.com")
	profile.SkillsOffered = []model.Skill{{ID: "s1", Name: "React", Category: model.SkillCategoryTech}}
	require.NoError(t, repo.Create(ctx, profile))

	err := repo.Create(ctx, model.NewProfile("Other Alex", "alex@example.com"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	found, err := repo.FindByEmail(ctx, "ALEX@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, profile.ID, found.ID)
	assert.Equal(t, "React", found.SkillsOffered[0].Name)

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.Update(ctx, uuid.New(), model.ProfilePatch{})
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestMySQLProfileRepository_ConcurrentMutate(t *testing.T) {
	repo := NewProfileRepository(testMySQL(t))
	ctx := context.Background()

	profile := model.NewProfile("Alex", "alex@example.com")
	require.NoError(t, repo.Create(ctx, profile))

	names := []string{"Go", "Rust", "Elixir", "Zig"}
	var wg sync.WaitGroup
	errs := make([]error, len(names))
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			_, errs[i] = repo.Mutate(ctx, profile.ID, func(p *model.Profile) error {
				p.SkillsOffered = append(p.SkillsOffered, model.Skill{ID: name, Name: name, Category: model.SkillCategoryTech})
				return nil
			})
		}(i, name)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	stored, err := repo.FindByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, names, model.SkillNames(stored.SkillsOffered))
}

func TestMySQLSwapRepository_OrderingAndConflicts(t *testing.T) {
	repo := NewSwapRepository(testMySQL(t), newNode(t)).(*swapRepository)
	ctx := context.Background()

	alex, jane := uuid.New(), uuid.New()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	repo.now = func() time.Time { return base }
	first := newSwap(alex, jane)
	second := newSwap(jane, alex)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	repo.now = func() time.Time { return base.Add(time.Minute) }
	newest := newSwap(alex, jane)
	require.NoError(t, repo.Create(ctx, newest))

	list, err := repo.ListByParticipant(ctx, alex)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, newest.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID, "ties keep insertion order")
	assert.Equal(t, second.ID, list[2].ID)

	accepted, err := repo.UpdateStatus(ctx, first.ID, model.SwapStatusPending, model.SwapStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusAccepted, accepted.Status)

	_, err = repo.UpdateStatus(ctx, first.ID, model.SwapStatusPending, model.SwapStatusRejected)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = repo.UpdateStatus(ctx, snowflake.ID(42), model.SwapStatusPending, model.SwapStatusAccepted)
	assert.ErrorIs(t, err, apperrors.ErrSwapNotFound)

	pending, err := repo.ListByParticipant(ctx, alex, model.SwapStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = repo.AttachRating(ctx, first.ID, model.SideFrom, 5, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}
