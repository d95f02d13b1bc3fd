package app

import (
	"context"

	"github.com/felixbrock/ideaspark/internal/analysis"
	"github.com/felixbrock/ideaspark/internal/domain"
)

// IdeaRepo stores ideas and their follow-up threads. GetByID and AppendFollowUp
// report a missing idea with domain.ErrNotFound.
type IdeaRepo interface {
	Insert(ctx context.Context, idea domain.Idea) error
	List(ctx context.Context) ([]domain.Idea, error)
	GetByID(ctx context.Context, id string) (*domain.Idea, error)
	AppendFollowUp(ctx context.Context, ideaId string, question domain.FollowUpQuestion) error
}

type Analyzer interface {
	Analyze(ctx context.Context, idea string) analysis.Result[analysis.Analysis]
	AnswerFollowUp(ctx context.Context, idea string, question string) analysis.Result[string]
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
