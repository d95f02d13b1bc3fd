package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/felixbrock/ideaspark/internal/analysis"
	"github.com/felixbrock/ideaspark/internal/domain"
	"github.com/google/uuid"
)

// ValidationError carries a message that is safe to show to the client.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

func (e ValidationError) Unwrap() error { return domain.ErrValidation }

var (
	errIdeaRequired     = ValidationError{Msg: "Idea is required"}
	errQuestionRequired = ValidationError{Msg: "Question is required"}
)

// IdeaService is the single path through which ideas and follow-ups are
// created and read. The JSON and HTML handlers both sit on top of it.
type IdeaService struct {
	Repo       IdeaRepo
	Analyzer   Analyzer
	Publishers []EventPublisher
	Metrics    *Metrics

	Now   func() time.Time
	NewId func() string
}

func NewIdeaService(repo IdeaRepo, analyzer Analyzer, publishers ...EventPublisher) *IdeaService {
	return &IdeaService{
		Repo:       repo,
		Analyzer:   analyzer,
		Publishers: publishers,
		Metrics:    NewMetrics(),
		Now:        func() time.Time { return time.Now().UTC() },
		NewId:      func() string { return uuid.New().String() },
	}
}

// Create analyzes text and stores the resulting idea. Text that is empty after
// trimming is rejected before the analyzer or the repo are touched. The stored
// idea keeps text exactly as submitted.
func (s *IdeaService) Create(ctx context.Context, text string) (*domain.Idea, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errIdeaRequired
	}

	ctx, span := tracer.Start(ctx, "IdeaService.Create")
	defer span.End()

	res := s.Analyzer.Analyze(ctx, text)
	s.observeAnalysis("analyze", res.Source, res.Err)

	idea := domain.Idea{
		Id:                s.NewId(),
		Idea:              text,
		Tagline:           res.Value.Tagline,
		Improvement:       res.Value.Improvement,
		CreatedAt:         s.Now(),
		FollowUpQuestions: []domain.FollowUpQuestion{},
	}

	if err := s.Repo.Insert(ctx, idea); err != nil {
		return nil, fmt.Errorf("inserting idea: %w", err)
	}
	s.Metrics.IdeasCreated.Inc()

	s.publish(ctx, domain.Event{Type: domain.EventIdeaCreated, IdeaId: idea.Id, At: idea.CreatedAt})

	return &idea, nil
}

func (s *IdeaService) List(ctx context.Context) ([]domain.Idea, error) {
	ideas, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing ideas: %w", err)
	}

	if ideas == nil {
		ideas = []domain.Idea{}
	}

	return ideas, nil
}

func (s *IdeaService) Get(ctx context.Context, id string) (*domain.Idea, error) {
	idea, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading idea %s: %w", id, err)
	}

	return idea, nil
}

// AskFollowUp answers question in the context of the idea and appends the
// exchange to its thread. A blank question is rejected before any lookup; an
// unknown idea yields domain.ErrNotFound and leaves storage untouched.
func (s *IdeaService) AskFollowUp(ctx context.Context, ideaId string, question string) (*domain.FollowUpQuestion, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errQuestionRequired
	}

	ctx, span := tracer.Start(ctx, "IdeaService.AskFollowUp")
	defer span.End()

	idea, err := s.Repo.GetByID(ctx, ideaId)
	if err != nil {
		return nil, fmt.Errorf("reading idea %s: %w", ideaId, err)
	}

	res := s.Analyzer.AnswerFollowUp(ctx, idea.Idea, question)
	s.observeAnalysis("answer", res.Source, res.Err)

	followUp := domain.FollowUpQuestion{
		Id:        s.NewId(),
		Question:  question,
		Answer:    res.Value,
		CreatedAt: s.Now(),
	}

	if err := s.Repo.AppendFollowUp(ctx, ideaId, followUp); err != nil {
		return nil, fmt.Errorf("appending follow-up to %s: %w", ideaId, err)
	}
	s.Metrics.FollowUpsCreated.Inc()

	s.publish(ctx, domain.Event{
		Type:       domain.EventFollowUpCreated,
		IdeaId:     ideaId,
		FollowUpId: followUp.Id,
		At:         followUp.CreatedAt,
	})

	return &followUp, nil
}

func (s *IdeaService) observeAnalysis(operation string, source analysis.Source, err error) {
	s.Metrics.AnalysisResults.WithLabelValues(operation, string(source)).Inc()

	if source == analysis.SourceFallback && err != nil {
		slog.Warn("analysis fell back", "operation", operation, "error", err)
	}
}

// publish hands event to every publisher. Failures are only logged.
func (s *IdeaService) publish(ctx context.Context, event domain.Event) {
	for _, p := range s.Publishers {
		err := p.Publish(ctx, event)
		s.Metrics.EventsPublished.WithLabelValues(event.Type, fmt.Sprint(err == nil)).Inc()

		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: publishing %s: %s", event.Type, err.Error()))
		}
	}
}

func isValidation(err error) (string, bool) {
	var verr ValidationError
	if errors.As(err, &verr) {
		return verr.Msg, true
	}
	return "", false
}
