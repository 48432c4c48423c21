package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/teampulse/internal/period"
)

type CreateQuestionRequest struct {
	Period period.Period
	Text   string
}

type ListQuestionsRequest struct {
	Period period.Period
}

type Service interface {
	Create(context.Context, CreateQuestionRequest) (Question, error)
	List(context.Context, ListQuestionsRequest) ([]Question, error)
}

var (
	ErrInvalidText = errors.New("invalid_text")
	ErrNotFound    = errors.New("not_found")
)
