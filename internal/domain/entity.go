package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

type FollowUpQuestion struct {
	Id        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

type Idea struct {
	Id                string             `json:"id"`
	Idea              string             `json:"idea"`
	Tagline           string             `json:"tagline"`
	Improvement       string             `json:"improvement"`
	CreatedAt         time.Time          `json:"createdAt"`
	FollowUpQuestions []FollowUpQuestion `json:"followUpQuestions"`
}

// Clone returns a copy that shares no follow-up backing array with i.
func (i Idea) Clone() Idea {
	c := i
	c.FollowUpQuestions = make([]FollowUpQuestion, len(i.FollowUpQuestions))
	copy(c.FollowUpQuestions, i.FollowUpQuestions)
	return c
}

const (
	EventIdeaCreated     = "idea.created"
	EventFollowUpCreated = "followup.created"
)

type Event struct {
	Type       string    `json:"type"`
	IdeaId     string    `json:"ideaId"`
	FollowUpId string    `json:"followUpId,omitempty"`
	At         time.Time `json:"at"`
}
