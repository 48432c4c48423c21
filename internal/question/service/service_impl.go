package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/teampulse/internal/period"
	"github.com/smallbiznis/teampulse/internal/question/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("question.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateQuestionRequest) (domain.Question, error) {
	if err := req.Period.Validate(); err != nil {
		return domain.Question{}, period.ErrInvalidPeriod
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return domain.Question{}, domain.ErrInvalidText
	}

	question := domain.Question{
		ID:        s.genID.Generate(),
		PeriodKey: req.Period.Key(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &question); err != nil {
		return domain.Question{}, err
	}

	return question, nil
}

func (s *Service) List(ctx context.Context, req domain.ListQuestionsRequest) ([]domain.Question, error) {
	if err := req.Period.Validate(); err != nil {
		return nil, period.ErrInvalidPeriod
	}

	items, err := s.repo.ListByPeriod(ctx, s.db, req.Period.Key())
	if err != nil {
		return nil, err
	}

	questions := make([]domain.Question, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		questions = append(questions, *item)
	}
	return questions, nil
}
