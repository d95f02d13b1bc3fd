package app

import (
	"errors"
	"net/http"

	"github.com/felixbrock/ideaspark/internal/domain"
)

const (
	msgIdeaNotFound     = "Idea not found"
	msgCreateIdeaFailed = "Failed to create idea"
	msgListIdeasFailed  = "Failed to fetch ideas"
	msgGetIdeaFailed    = "Failed to fetch idea"
	msgFollowUpFailed   = "Failed to create follow-up question"
)

type createIdeaReq struct {
	Idea *string `json:"idea"`
}

type followUpReq struct {
	Question *string `json:"question"`
}

// errResponse maps service errors onto the JSON error contract. fallback is the
// generic message used for anything unexpected.
func errResponse(err error, fallback string) *APIResponse {
	if msg, ok := isValidation(err); ok {
		return &APIResponse{Error: err, Message: msg, Code: http.StatusBadRequest}
	}

	if errors.Is(err, domain.ErrNotFound) {
		return &APIResponse{Error: err, Message: msgIdeaNotFound, Code: http.StatusNotFound}
	}

	return &APIResponse{Error: err, Message: fallback, Code: http.StatusInternalServerError}
}

// decodeField reads a JSON body and returns the string behind field. A body
// that is not a JSON object or a field that is absent or not a string yields
// ok == false.
func decodeField[T any](r *http.Request, field func(*T) *string) (string, bool) {
	content, err := Read(r.Body)
	if err != nil {
		return "", false
	}

	req, err := ReadJSON[T](content)
	if err != nil {
		return "", false
	}

	v := field(req)
	if v == nil {
		return "", false
	}

	return *v, true
}

func createIdea(s *IdeaService) APIHandler {
	return func(w http.ResponseWriter, r *http.Request) *APIResponse {
		text, ok := decodeField(r, func(req *createIdeaReq) *string { return req.Idea })
		if !ok {
			return errResponse(errIdeaRequired, msgCreateIdeaFailed)
		}

		idea, err := s.Create(r.Context(), text)
		if err != nil {
			return errResponse(err, msgCreateIdeaFailed)
		}

		return &APIResponse{Code: http.StatusCreated, Body: idea}
	}
}

func listIdeas(s *IdeaService) APIHandler {
	return func(w http.ResponseWriter, r *http.Request) *APIResponse {
		ideas, err := s.List(r.Context())
		if err != nil {
			return errResponse(err, msgListIdeasFailed)
		}

		return &APIResponse{Code: http.StatusOK, Body: ideas}
	}
}

func getIdea(s *IdeaService) APIHandler {
	return func(w http.ResponseWriter, r *http.Request) *APIResponse {
		idea, err := s.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			return errResponse(err, msgGetIdeaFailed)
		}

		return &APIResponse{Code: http.StatusOK, Body: idea}
	}
}

func createFollowUp(s *IdeaService) APIHandler {
	return func(w http.ResponseWriter, r *http.Request) *APIResponse {
		question, ok := decodeField(r, func(req *followUpReq) *string { return req.Question })
		if !ok {
			return errResponse(errQuestionRequired, msgFollowUpFailed)
		}

		followUp, err := s.AskFollowUp(r.Context(), r.PathValue("id"), question)
		if err != nil {
			return errResponse(err, msgFollowUpFailed)
		}

		return &APIResponse{Code: http.StatusOK, Body: followUp}
	}
}
