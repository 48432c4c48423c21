package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	evaldomain "github.com/smallbiznis/teampulse/internal/evaluation/domain"
	"github.com/smallbiznis/teampulse/internal/observability/metrics"
	"github.com/smallbiznis/teampulse/internal/ranking/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Answers evaldomain.Repository
	Scorer  evaldomain.Scorer
	Metrics *metrics.Metrics
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	answers evaldomain.Repository
	scorer  evaldomain.Scorer
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("ranking.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		answers: p.Answers,
		scorer:  p.Scorer,
		metrics: p.Metrics,
	}
}

func (s *Service) GetRanking(ctx context.Context, req domain.GetRankingRequest) (domain.RankedResult, error) {
	if err := req.Period.Validate(); err != nil {
		return domain.RankedResult{}, err
	}
	periodKey := req.Period.Key()

	snapshots, err := s.repo.ListByPeriod(ctx, s.db, periodKey)
	if err != nil {
		return domain.RankedResult{}, err
	}
	if len(snapshots) > 0 {
		return s.fromCache(ctx, periodKey, snapshots)
	}
	return s.compute(ctx, req)
}

func (s *Service) Recompute(ctx context.Context, req domain.GetRankingRequest) (domain.RankedResult, error) {
	if err := req.Period.Validate(); err != nil {
		return domain.RankedResult{}, err
	}
	return s.compute(ctx, req)
}

// fromCache serves cached totals but refreshes answer counts and first
// submission times from live data, since those feed the visible ordering.
func (s *Service) fromCache(ctx context.Context, periodKey string, snapshots []*domain.ScoreSnapshot) (domain.RankedResult, error) {
	scores := make([]evaldomain.TeamScore, 0, len(snapshots))
	computedAt := time.Time{}
	for _, snap := range snapshots {
		count, earliest, err := s.answers.TeamStats(ctx, s.db, periodKey, snap.TeamID)
		if err != nil {
			return domain.RankedResult{}, err
		}
		scores = append(scores, evaldomain.TeamScore{
			TeamID:             snap.TeamID,
			TeamName:           snap.TeamName,
			TotalScore:         snap.TotalScore,
			AnswerCount:        int(count),
			QuestionCount:      snap.QuestionCount,
			Weighted:           snap.Weighted,
			EarliestSubmission: earliest,
		})
		if snap.ComputedAt.After(computedAt) {
			computedAt = snap.ComputedAt
		}
	}

	ordered, winner := rank(scores)
	return domain.RankedResult{
		PeriodKey:  periodKey,
		Cached:     true,
		ComputedAt: computedAt,
		Ordered:    ordered,
		Winner:     winner,
	}, nil
}

func (s *Service) compute(ctx context.Context, req domain.GetRankingRequest) (domain.RankedResult, error) {
	periodKey := req.Period.Key()

	scores, err := s.scorer.ScorePeriod(ctx, req.Period)
	if err != nil {
		return domain.RankedResult{}, err
	}

	now := time.Now().UTC()
	snapshots := make([]*domain.ScoreSnapshot, 0, len(scores))
	for _, score := range scores {
		snapshots = append(snapshots, &domain.ScoreSnapshot{
			ID:            s.genID.Generate(),
			PeriodKey:     periodKey,
			TeamID:        score.TeamID,
			TeamName:      score.TeamName,
			TotalScore:    score.TotalScore,
			AnswerCount:   score.AnswerCount,
			QuestionCount: score.QuestionCount,
			Weighted:      score.Weighted,
			ComputedAt:    now,
		})
	}

	// Replace-all inside one transaction so readers never observe a mix
	// of old and new rows.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteByPeriod(ctx, tx, periodKey); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, snapshots)
	})
	if err != nil {
		return domain.RankedResult{}, err
	}

	s.log.Info("ranking computed",
		zap.String("period", periodKey),
		zap.Int("teams", len(scores)),
	)
	s.metrics.RecordRankingComputed(ctx, periodKey)

	ordered, winner := rank(scores)
	return domain.RankedResult{
		PeriodKey:  periodKey,
		Cached:     false,
		ComputedAt: now,
		Ordered:    ordered,
		Winner:     winner,
	}, nil
}
