package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/felixbrock/ideaspark/internal/domain"
)

// MemoryRepo keeps ideas in insertion order for the lifetime of the process.
type MemoryRepo struct {
	mu    sync.RWMutex
	ideas []domain.Idea
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Insert(ctx context.Context, idea domain.Idea) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ideas = append(r.ideas, idea.Clone())

	return nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]domain.Idea, error) {
	r.mu.RLock()
	ideas := make([]domain.Idea, len(r.ideas))
	for i := range r.ideas {
		ideas[i] = r.ideas[i].Clone()
	}
	r.mu.RUnlock()

	sort.SliceStable(ideas, func(i, j int) bool {
		return ideas[i].CreatedAt.After(ideas[j].CreatedAt)
	})

	return ideas, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (*domain.Idea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.ideas {
		if r.ideas[i].Id == id {
			idea := r.ideas[i].Clone()
			return &idea, nil
		}
	}

	return nil, fmt.Errorf("idea %s: %w", id, domain.ErrNotFound)
}

func (r *MemoryRepo) AppendFollowUp(ctx context.Context, ideaId string, question domain.FollowUpQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.ideas {
		if r.ideas[i].Id == ideaId {
			r.ideas[i].FollowUpQuestions = append(r.ideas[i].FollowUpQuestions, question)
			return nil
		}
	}

	return fmt.Errorf("idea %s: %w", ideaId, domain.ErrNotFound)
}
