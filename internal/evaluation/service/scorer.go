package service

import (
	"context"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/teampulse/internal/config"
	"github.com/smallbiznis/teampulse/internal/evaluation/domain"
	"github.com/smallbiznis/teampulse/internal/period"
	questiondomain "github.com/smallbiznis/teampulse/internal/question/domain"
	teamdomain "github.com/smallbiznis/teampulse/internal/team/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ScorerParams struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Scoring   config.ScoringConfig
	Repo      domain.Repository
	Teams     teamdomain.Repository
	Questions questiondomain.Repository
}

type scorer struct {
	db        *gorm.DB
	log       *zap.Logger
	scoring   config.ScoringConfig
	repo      domain.Repository
	teams     teamdomain.Repository
	questions questiondomain.Repository
}

func NewScorer(p ScorerParams) domain.Scorer {
	return &scorer{
		db:        p.DB,
		log:       p.Log.Named("evaluation.scorer"),
		scoring:   p.Scoring,
		repo:      p.Repo,
		teams:     p.Teams,
		questions: p.Questions,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// blend computes the weighted score for one subject on one question from the
// subject's answer rows for that question.
func (s *scorer) blend(subjectID, questionID snowflake.ID, answers []*domain.Answer) domain.UserScore {
	score := domain.UserScore{SubjectID: subjectID, QuestionID: questionID}

	var latestManager *domain.Answer
	peerSum, peerCount := 0.0, 0
	for _, a := range answers {
		if !domain.ValidScore(a.Score) {
			continue
		}
		switch a.Source {
		case domain.SourceSelf:
			if a.RaterID == subjectID {
				score.Self = float64(a.Score)
			}
		case domain.SourcePeer:
			peerSum += float64(a.Score)
			peerCount++
		case domain.SourceManager:
			// Multiple manager rows are a data condition the schema
			// allows (different rater IDs). Latest one wins.
			if latestManager == nil || a.CreatedAt.After(latestManager.CreatedAt) {
				latestManager = a
			}
		}
	}
	if peerCount > 0 {
		score.PeerAvg = peerSum / float64(peerCount)
	}
	if latestManager != nil {
		score.Manager = float64(latestManager.Score)
	}

	score.Weighted = score.Self*s.scoring.WeightSelf +
		score.PeerAvg*s.scoring.WeightPeer +
		score.Manager*s.scoring.WeightManager
	score.Display = round2(score.Weighted)
	return score
}

func (s *scorer) ScoreUser(ctx context.Context, p period.Period, subjectID, teamID, questionID snowflake.ID) (domain.UserScore, error) {
	if err := p.Validate(); err != nil {
		return domain.UserScore{}, err
	}
	answers, err := s.repo.ListBySubject(ctx, s.db, p.Key(), subjectID)
	if err != nil {
		return domain.UserScore{}, err
	}
	relevant := make([]*domain.Answer, 0, len(answers))
	for _, a := range answers {
		if a.QuestionID == questionID && a.TeamID == teamID {
			relevant = append(relevant, a)
		}
	}
	return s.blend(subjectID, questionID, relevant), nil
}

// weightedMode reports whether any answer in the system carries a source.
// A single sourceless sample row switches the whole computation to
// unweighted mode.
func (s *scorer) weightedMode(ctx context.Context) (bool, error) {
	sample, err := s.repo.SampleOne(ctx, s.db)
	if err != nil {
		return false, err
	}
	return sample == nil || sample.Source != "", nil
}

func (s *scorer) ScoreTeam(ctx context.Context, p period.Period, teamID snowflake.ID) (domain.TeamScore, error) {
	if err := p.Validate(); err != nil {
		return domain.TeamScore{}, err
	}
	team, err := s.teams.FindTeam(ctx, s.db, teamID)
	if err != nil {
		return domain.TeamScore{}, err
	}
	if team == nil {
		return domain.TeamScore{}, teamdomain.ErrNotFound
	}
	weighted, err := s.weightedMode(ctx)
	if err != nil {
		return domain.TeamScore{}, err
	}
	questionCount, err := s.questionCount(ctx, p)
	if err != nil {
		return domain.TeamScore{}, err
	}
	return s.scoreTeam(ctx, p, team, weighted, questionCount)
}

func (s *scorer) ScorePeriod(ctx context.Context, p period.Period) ([]domain.TeamScore, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	weighted, err := s.weightedMode(ctx)
	if err != nil {
		return nil, err
	}
	teams, err := s.teams.ListByPeriod(ctx, s.db, p.Key())
	if err != nil {
		return nil, err
	}
	questionCount, err := s.questionCount(ctx, p)
	if err != nil {
		return nil, err
	}

	scores := make([]domain.TeamScore, 0, len(teams))
	for _, team := range teams {
		score, err := s.scoreTeam(ctx, p, team, weighted, questionCount)
		if err != nil {
			if !weighted {
				return nil, err
			}
			// Degrade this team only rather than refusing the whole
			// ranking.
			s.log.Warn("weighted scoring failed, falling back to unweighted",
				zap.String("period", p.Key()),
				zap.Int64("team_id", int64(team.ID)),
				zap.Error(err),
			)
			score, err = s.scoreTeam(ctx, p, team, false, questionCount)
			if err != nil {
				return nil, err
			}
		}
		scores = append(scores, score)
	}
	return scores, nil
}

func (s *scorer) questionCount(ctx context.Context, p period.Period) (int, error) {
	questions, err := s.questions.ListByPeriod(ctx, s.db, p.Key())
	if err != nil {
		return 0, err
	}
	return len(questions), nil
}

func (s *scorer) scoreTeam(ctx context.Context, p period.Period, team *teamdomain.Team, weighted bool, questionCount int) (domain.TeamScore, error) {
	if weighted {
		return s.scoreTeamWeighted(ctx, p, team, questionCount)
	}
	return s.scoreTeamUnweighted(ctx, p, team, questionCount)
}

func (s *scorer) scoreTeamWeighted(ctx context.Context, p period.Period, team *teamdomain.Team, questionCount int) (domain.TeamScore, error) {
	answers, err := s.repo.ListByTeam(ctx, s.db, p.Key(), team.ID)
	if err != nil {
		return domain.TeamScore{}, err
	}

	// subject -> question -> answer rows
	bySubject := make(map[snowflake.ID]map[snowflake.ID][]*domain.Answer)
	for _, a := range answers {
		if bySubject[a.SubjectID] == nil {
			bySubject[a.SubjectID] = make(map[snowflake.ID][]*domain.Answer)
		}
		bySubject[a.SubjectID][a.QuestionID] = append(bySubject[a.SubjectID][a.QuestionID], a)
	}

	total := 0.0
	for subjectID, byQuestion := range bySubject {
		for questionID, rows := range byQuestion {
			total += s.blend(subjectID, questionID, rows).Weighted
		}
	}

	return domain.TeamScore{
		TeamID:             team.ID,
		TeamName:           team.Name,
		TotalScore:         total,
		AnswerCount:        len(answers),
		QuestionCount:      questionCount,
		Weighted:           true,
		EarliestSubmission: earliest(answers),
	}, nil
}

func (s *scorer) scoreTeamUnweighted(ctx context.Context, p period.Period, team *teamdomain.Team, questionCount int) (domain.TeamScore, error) {
	members, err := s.teams.ListMembers(ctx, s.db, team.ID)
	if err != nil {
		return domain.TeamScore{}, err
	}
	raterIDs := make([]snowflake.ID, 0, len(members))
	for _, m := range members {
		raterIDs = append(raterIDs, m.UserID)
	}
	answers, err := s.repo.ListByRaters(ctx, s.db, p.Key(), raterIDs)
	if err != nil {
		return domain.TeamScore{}, err
	}

	total := 0.0
	for _, a := range answers {
		total += float64(a.Score)
	}

	return domain.TeamScore{
		TeamID:             team.ID,
		TeamName:           team.Name,
		TotalScore:         total,
		AnswerCount:        len(answers),
		QuestionCount:      questionCount,
		Weighted:           false,
		EarliestSubmission: earliest(answers),
	}, nil
}

func earliest(answers []*domain.Answer) *time.Time {
	var min *time.Time
	for _, a := range answers {
		t := a.CreatedAt
		if min == nil || t.Before(*min) {
			min = &t
		}
	}
	return min
}
