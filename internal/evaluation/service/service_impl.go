package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/teampulse/internal/evaluation/domain"
	"github.com/smallbiznis/teampulse/internal/observability/metrics"
	questiondomain "github.com/smallbiznis/teampulse/internal/question/domain"
	teamdomain "github.com/smallbiznis/teampulse/internal/team/domain"
	"github.com/smallbiznis/teampulse/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Teams     teamdomain.Repository
	Questions questiondomain.Repository
	Metrics   *metrics.Metrics
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	teams     teamdomain.Repository
	questions questiondomain.Repository
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("evaluation.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		teams:     p.Teams,
		questions: p.Questions,
		metrics:   p.Metrics,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitAnswerRequest) (domain.Answer, error) {
	if err := req.Period.Validate(); err != nil {
		return domain.Answer{}, err
	}
	if !domain.ValidScore(req.Score) {
		return domain.Answer{}, domain.ErrInvalidScore
	}
	source, ok := domain.ParseSource(req.Source)
	if !ok {
		return domain.Answer{}, domain.ErrInvalidSource
	}
	if source == domain.SourceSelf && req.SubjectID != req.RaterID {
		return domain.Answer{}, domain.ErrSelfSubjectMismatch
	}

	periodKey := req.Period.Key()

	question, err := s.questions.Find(ctx, s.db, req.QuestionID)
	if err != nil {
		return domain.Answer{}, err
	}
	if question == nil || question.PeriodKey != periodKey {
		return domain.Answer{}, domain.ErrQuestionNotFound
	}

	subjectMembership, err := s.teams.FindMembership(ctx, s.db, periodKey, req.SubjectID)
	if err != nil {
		return domain.Answer{}, err
	}
	if subjectMembership == nil {
		return domain.Answer{}, domain.ErrSubjectNotInTeam
	}

	if source == domain.SourcePeer {
		if req.RaterID == req.SubjectID {
			return domain.Answer{}, domain.ErrInvalidSource
		}
		raterMembership, err := s.teams.FindMembership(ctx, s.db, periodKey, req.RaterID)
		if err != nil {
			return domain.Answer{}, err
		}
		if raterMembership == nil || raterMembership.TeamID != subjectMembership.TeamID {
			return domain.Answer{}, domain.ErrRaterNotInTeam
		}
	}

	answer := domain.Answer{
		ID:         s.genID.Generate(),
		PeriodKey:  periodKey,
		RaterID:    req.RaterID,
		QuestionID: req.QuestionID,
		SubjectID:  req.SubjectID,
		Source:     source,
		TeamID:     subjectMembership.TeamID,
		Score:      req.Score,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &answer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Answer{}, domain.ErrDuplicateAnswer
		}
		return domain.Answer{}, err
	}

	s.log.Debug("answer recorded",
		zap.String("period", periodKey),
		zap.String("source", string(source)),
		zap.Int64("rater_id", int64(req.RaterID)),
		zap.Int64("subject_id", int64(req.SubjectID)),
	)
	s.metrics.RecordAnswer(ctx, string(source))
	return answer, nil
}

func (s *Service) ListForSubject(ctx context.Context, req domain.ListAnswersRequest) ([]domain.Answer, error) {
	if err := req.Period.Validate(); err != nil {
		return nil, err
	}
	items, err := s.repo.ListBySubject(ctx, s.db, req.Period.Key(), req.SubjectID)
	if err != nil {
		return nil, err
	}
	answers := make([]domain.Answer, 0, len(items))
	for _, item := range items {
		answers = append(answers, *item)
	}
	return answers, nil
}
