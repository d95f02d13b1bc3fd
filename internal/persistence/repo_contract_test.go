package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixbrock/ideaspark/internal/app"
	"github.com/felixbrock/ideaspark/internal/domain"
)

var (
	_ app.IdeaRepo = (*MemoryRepo)(nil)
	_ app.IdeaRepo = (*SQLRepo)(nil)
	_ app.IdeaRepo = (*RedisRepo)(nil)
	_ app.IdeaRepo = (*RestRepo)(nil)
)

func newIdea(text string, createdAt time.Time) domain.Idea {
	return domain.Idea{
		Id:                uuid.New().String(),
		Idea:              text,
		Tagline:           "tagline for " + text,
		Improvement:       "improvement for " + text,
		CreatedAt:         createdAt.UTC(),
		FollowUpQuestions: []domain.FollowUpQuestion{},
	}
}

// testIdeaRepoContract runs the behaviour every IdeaRepo backend must share.
// The repo must be empty when passed in.
func testIdeaRepoContract(t *testing.T, repo app.IdeaRepo) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("List empty", func(t *testing.T) {
		ideas, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, ideas)
	})

	middle := newIdea("middle", base.Add(time.Hour))
	oldest := newIdea("oldest", base)
	newest := newIdea("newest", base.Add(2*time.Hour))

	t.Run("List orders by createdAt descending", func(t *testing.T) {
		for _, idea := range []domain.Idea{middle, oldest, newest} {
			require.NoError(t, repo.Insert(ctx, idea))
		}

		ideas, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, ideas, 3)
		assert.Equal(t, newest.Id, ideas[0].Id)
		assert.Equal(t, middle.Id, ideas[1].Id)
		assert.Equal(t, oldest.Id, ideas[2].Id)
		assert.True(t, ideas[0].CreatedAt.Equal(newest.CreatedAt))
		assert.NotNil(t, ideas[0].FollowUpQuestions)
	})

	t.Run("GetByID", func(t *testing.T) {
		idea, err := repo.GetByID(ctx, middle.Id)
		require.NoError(t, err)
		assert.Equal(t, middle.Idea, idea.Idea)
		assert.Equal(t, middle.Tagline, idea.Tagline)
		assert.Equal(t, middle.Improvement, idea.Improvement)
		assert.Empty(t, idea.FollowUpQuestions)
	})

	t.Run("GetByID unknown", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New().String())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("AppendFollowUp keeps submission order", func(t *testing.T) {
		const n = 4
		for i := 0; i < n; i++ {
			q := domain.FollowUpQuestion{
				Id:        uuid.New().String(),
				Question:  fmt.Sprintf("question %d", i),
				Answer:    fmt.Sprintf("answer %d", i),
				CreatedAt: base.Add(3 * time.Hour).UTC(),
			}
			require.NoError(t, repo.AppendFollowUp(ctx, oldest.Id, q))
		}

		idea, err := repo.GetByID(ctx, oldest.Id)
		require.NoError(t, err)
		require.Len(t, idea.FollowUpQuestions, n)
		for i := 0; i < n; i++ {
			assert.Equal(t, fmt.Sprintf("question %d", i), idea.FollowUpQuestions[i].Question)
			assert.Equal(t, fmt.Sprintf("answer %d", i), idea.FollowUpQuestions[i].Answer)
		}

		ideas, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, ideas[2].FollowUpQuestions, n)
		assert.Empty(t, ideas[0].FollowUpQuestions)
	})

	t.Run("AppendFollowUp unknown idea", func(t *testing.T) {
		before, err := repo.List(ctx)
		require.NoError(t, err)

		err = repo.AppendFollowUp(ctx, uuid.New().String(), domain.FollowUpQuestion{Id: uuid.New().String(), Question: "q", Answer: "a", CreatedAt: base})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		after, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestMemoryRepo(t *testing.T) {
	testIdeaRepoContract(t, NewMemoryRepo())
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	idea := newIdea("copy", time.Now())
	require.NoError(t, repo.Insert(ctx, idea))

	got, err := repo.GetByID(ctx, idea.Id)
	require.NoError(t, err)
	got.Tagline = "mutated"
	got.FollowUpQuestions = append(got.FollowUpQuestions, domain.FollowUpQuestion{Id: "x"})

	again, err := repo.GetByID(ctx, idea.Id)
	require.NoError(t, err)
	assert.Equal(t, idea.Tagline, again.Tagline)
	assert.Empty(t, again.FollowUpQuestions)
}

func TestMemoryRepoConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	idea := newIdea("busy", time.Now())
	require.NoError(t, repo.Insert(ctx, idea))

	const n = 50
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			done <- repo.AppendFollowUp(ctx, idea.Id, domain.FollowUpQuestion{Id: fmt.Sprint(i)})
		}(i)
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-done)
	}

	got, err := repo.GetByID(ctx, idea.Id)
	require.NoError(t, err)
	assert.Len(t, got.FollowUpQuestions, n)
}
