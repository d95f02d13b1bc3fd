package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/felixbrock/ideaspark/internal/domain"
)

const embedSelect = "select=*,follow_up_question(*)"

type followUpRecord struct {
	Id        string    `json:"id"`
	IdeaId    string    `json:"idea_id"`
	Seq       int       `json:"seq"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

type ideaRecord struct {
	Id          string           `json:"id"`
	Idea        string           `json:"idea"`
	Tagline     string           `json:"tagline"`
	Improvement string           `json:"improvement"`
	CreatedAt   time.Time        `json:"created_at"`
	FollowUps   []followUpRecord `json:"follow_up_question,omitempty"`
}

func (rec ideaRecord) toIdea() domain.Idea {
	idea := domain.Idea{
		Id:                rec.Id,
		Idea:              rec.Idea,
		Tagline:           rec.Tagline,
		Improvement:       rec.Improvement,
		CreatedAt:         rec.CreatedAt.UTC(),
		FollowUpQuestions: make([]domain.FollowUpQuestion, len(rec.FollowUps)),
	}

	for i, f := range rec.FollowUps {
		idea.FollowUpQuestions[i] = domain.FollowUpQuestion{
			Id:        f.Id,
			Question:  f.Question,
			Answer:    f.Answer,
			CreatedAt: f.CreatedAt.UTC(),
		}
	}

	return idea
}

// RestRepo stores ideas through a PostgREST API such as Supabase's
// /rest/v1 endpoint, using the idea and follow_up_question tables.
type RestRepo struct {
	BaseHeaders []string
	BaseUrl     string
}

func NewRestRepo(baseUrl string, apiKey string) RestRepo {
	return RestRepo{
		BaseHeaders: []string{
			fmt.Sprintf("apikey: %s", apiKey),
			fmt.Sprintf("Authorization: Bearer %s", apiKey)},
		BaseUrl: baseUrl,
	}
}

func (r RestRepo) writeHeaders() []string {
	headers := make([]string, 0, len(r.BaseHeaders)+2)
	headers = append(headers, r.BaseHeaders...)
	return append(headers, "Content-Type:application/json", "Prefer:return=minimal")
}

func (r RestRepo) Insert(ctx context.Context, idea domain.Idea) error {
	body, err := json.Marshal(ideaRecord{
		Id:          idea.Id,
		Idea:        idea.Idea,
		Tagline:     idea.Tagline,
		Improvement: idea.Improvement,
		CreatedAt:   idea.CreatedAt,
	})

	if err != nil {
		return err
	}

	_, err = request[struct{}](ctx, reqConfig{
		Method:  "POST",
		Url:     fmt.Sprintf("%s/idea", r.BaseUrl),
		Body:    body,
		Headers: r.writeHeaders()},
		201)

	if err != nil {
		return err
	}

	for i, q := range idea.FollowUpQuestions {
		if err := r.insertFollowUp(ctx, idea.Id, i+1, q); err != nil {
			return err
		}
	}

	return nil
}

func (r RestRepo) read(ctx context.Context, params ...string) ([]ideaRecord, error) {
	params = append(params, embedSelect, "order=created_at.desc", "follow_up_question.order=seq.asc")

	records, err := request[[]ideaRecord](ctx, reqConfig{
		Method:    "GET",
		Url:       fmt.Sprintf("%s/idea", r.BaseUrl),
		UrlParams: params,
		Headers:   r.BaseHeaders},
		200)

	if err != nil {
		return nil, err
	}

	return *records, nil
}

func (r RestRepo) List(ctx context.Context) ([]domain.Idea, error) {
	records, err := r.read(ctx)

	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}

	ideas := make([]domain.Idea, len(records))
	for i := range records {
		ideas[i] = records[i].toIdea()
	}

	return ideas, nil
}

func (r RestRepo) GetByID(ctx context.Context, id string) (*domain.Idea, error) {
	records, err := r.read(ctx, fmt.Sprintf("id=eq.%s", url.QueryEscape(id)))

	if err != nil {
		return nil, fmt.Errorf("get idea %s: %w", id, err)
	} else if len(records) == 0 {
		return nil, fmt.Errorf("idea %s: %w", id, domain.ErrNotFound)
	}

	idea := records[0].toIdea()
	return &idea, nil
}

func (r RestRepo) AppendFollowUp(ctx context.Context, ideaId string, question domain.FollowUpQuestion) error {
	idea, err := r.GetByID(ctx, ideaId)

	if err != nil {
		return err
	}

	return r.insertFollowUp(ctx, ideaId, len(idea.FollowUpQuestions)+1, question)
}

func (r RestRepo) insertFollowUp(ctx context.Context, ideaId string, seq int, q domain.FollowUpQuestion) error {
	body, err := json.Marshal(followUpRecord{
		Id:        q.Id,
		IdeaId:    ideaId,
		Seq:       seq,
		Question:  q.Question,
		Answer:    q.Answer,
		CreatedAt: q.CreatedAt,
	})

	if err != nil {
		return err
	}

	_, err = request[struct{}](ctx, reqConfig{
		Method:  "POST",
		Url:     fmt.Sprintf("%s/follow_up_question", r.BaseUrl),
		Body:    body,
		Headers: r.writeHeaders()},
		201)

	return err
}
