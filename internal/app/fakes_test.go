package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/felixbrock/ideaspark/internal/domain"
)

type fakeRepo struct {
	mu    sync.Mutex
	ideas []domain.Idea
	calls int

	insertErr error
	listErr   error
}

func (f *fakeRepo) Insert(ctx context.Context, idea domain.Idea) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.ideas = append(f.ideas, idea.Clone())
	return nil
}

func (f *fakeRepo) List(ctx context.Context) ([]domain.Idea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	ideas := make([]domain.Idea, 0, len(f.ideas))
	for _, i := range f.ideas {
		ideas = append(ideas, i.Clone())
	}
	sort.SliceStable(ideas, func(a, b int) bool { return ideas[a].CreatedAt.After(ideas[b].CreatedAt) })
	return ideas, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*domain.Idea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	for _, i := range f.ideas {
		if i.Id == id {
			c := i.Clone()
			return &c, nil
		}
	}
	return nil, fmt.Errorf("idea %s: %w", id, domain.ErrNotFound)
}

func (f *fakeRepo) AppendFollowUp(ctx context.Context, ideaId string, q domain.FollowUpQuestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	for n := range f.ideas {
		if f.ideas[n].Id == ideaId {
			f.ideas[n].FollowUpQuestions = append(f.ideas[n].FollowUpQuestions, q)
			return nil
		}
	}
	return fmt.Errorf("idea %s: %w", ideaId, domain.ErrNotFound)
}

func (f *fakeRepo) snapshot() []domain.Idea {
	f.mu.Lock()
	defer f.mu.Unlock()

	ideas := make([]domain.Idea, 0, len(f.ideas))
	for _, i := range f.ideas {
		ideas = append(ideas, i.Clone())
	}
	return ideas
}

func (f *fakeRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const (
	modelTagline     = "Purrfect coffee, purrfect company"
	modelImprovement = "Host adoption evenings with local shelters."
	modelAnswer      = "Partner with local pet influencers."
)

// fakeGenerator answers analysis prompts with JSON and follow-up prompts with
// plain text, told apart by their token budget.
type fakeGenerator struct {
	calls atomic.Int32
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}

	if maxTokens >= 1000 {
		return fmt.Sprintf(`{"tagline": %q, "improvement": %q}`, modelTagline, modelImprovement), nil
	}
	return modelAnswer, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, event)
	return f.err
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	types := make([]string, 0, len(f.events))
	for _, e := range f.events {
		types = append(types, e.Type)
	}
	return types
}

// tickingClock hands out strictly increasing timestamps.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func sequentialIds() func() string {
	var n atomic.Int32
	return func() string {
		return fmt.Sprintf("id-%d", n.Add(1))
	}
}

var errStorage = errors.New("disk on fire")
