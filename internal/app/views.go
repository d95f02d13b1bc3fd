package app

import (
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/felixbrock/ideaspark/internal/domain"
	"github.com/felixbrock/ideaspark/internal/rotator"
)

type ComponentBuilder struct {
	Page             func(title string, content templ.Component) templ.Component
	Input            func(example string, pollEvery time.Duration) templ.Component
	Placeholder      func(example string, pollEvery time.Duration) templ.Component
	Result           func(idea domain.Idea) templ.Component
	FollowUpAppended func(ideaId string, q domain.FollowUpQuestion, count int) templ.Component
	Dashboard        func() templ.Component
	IdeaList         func(ideas []domain.Idea) templ.Component
	Error            func(code int, title string, msg string) templ.Component
}

func (cb ComponentBuilder) errResponse(err error) *ComponentResponse {
	ec := errCtxFor(err)

	resp := &ComponentResponse{Code: ec.Code, Component: cb.Error(ec.Code, ec.Title, ec.Msg)}
	if ec.Code >= 500 {
		resp.Error = err
	}
	return resp
}

func (cb ComponentBuilder) errPage(err error) *ComponentResponse {
	resp := cb.errResponse(err)
	resp.Component = cb.Page("Error", resp.Component)
	return resp
}

func index(cb ComponentBuilder, examples *rotator.Rotator, pollEvery time.Duration) ComponentHandler {
	return func(w http.ResponseWriter, r *http.Request) *ComponentResponse {
		return &ComponentResponse{
			Code:      http.StatusOK,
			Component: cb.Page("Home", cb.Input(examples.Current(), pollEvery)),
		}
	}
}

func placeholder(cb ComponentBuilder, examples *rotator.Rotator, pollEvery time.Duration) ComponentHandler {
	return func(w http.ResponseWriter, r *http.Request) *ComponentResponse {
		return &ComponentResponse{
			Code:      http.StatusOK,
			Component: cb.Placeholder(examples.Current(), pollEvery),
		}
	}
}

func submitIdea(cb ComponentBuilder, s *IdeaService) ComponentHandler {
	return func(w http.ResponseWriter, r *http.Request) *ComponentResponse {
		if err := r.ParseForm(); err != nil {
			return cb.errResponse(errIdeaRequired)
		}

		idea, err := s.Create(r.Context(), r.PostFormValue("idea"))
		if err != nil {
			return cb.errResponse(err)
		}

		return &ComponentResponse{Code: http.StatusOK, Component: cb.Result(*idea)}
	}
}

func ideaPage(cb ComponentBuilder, s *IdeaService) ComponentHandler {
	return func(w http.ResponseWriter, r *http.Request) *ComponentResponse {
		idea, err := s.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			return cb.errPage(err)
		}

		return &ComponentResponse{Code: http.StatusOK, Component: cb.Page("Your idea", cb.Result(*idea))}
	}
}

func ideaFragment(cb ComponentBuilder, s *IdeaService) ComponentHandler {
	return func(w http.ResponseWriter, r *http.Request) *ComponentResponse {
		idea, err := s.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			return cb.errResponse(err)
		}

		return &ComponentResponse{Code: http.StatusOK, Component: cb.Result(*idea)}
	}
}

func askFollowUp(cb ComponentBuilder, s *IdeaService) ComponentHandler {
	return func(w http.ResponseWriter, r *http.Request) *ComponentResponse {
		if err := r.ParseForm(); err != nil {
			return cb.errResponse(errQuestionRequired)
		}

		ideaId := r.PathValue("id")

		followUp, err := s.AskFollowUp(r.Context(), ideaId, r.PostFormValue("question"))
		if err != nil {
			return cb.errResponse(err)
		}

		idea, err := s.Get(r.Context(), ideaId)
		if err != nil {
			return cb.errResponse(err)
		}

		return &ComponentResponse{
			Code:      http.StatusOK,
			Component: cb.FollowUpAppended(ideaId, *followUp, len(idea.FollowUpQuestions)),
		}
	}
}

func dashboard(cb ComponentBuilder) ComponentHandler {
	return func(w http.ResponseWriter, r *http.Request) *ComponentResponse {
		return &ComponentResponse{Code: http.StatusOK, Component: cb.Page("My Ideas", cb.Dashboard())}
	}
}

func ideaList(cb ComponentBuilder, s *IdeaService) ComponentHandler {
	return func(w http.ResponseWriter, r *http.Request) *ComponentResponse {
		ideas, err := s.List(r.Context())
		if err != nil {
			return cb.errResponse(err)
		}

		return &ComponentResponse{Code: http.StatusOK, Component: cb.IdeaList(ideas)}
	}
}
