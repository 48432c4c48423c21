package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/teampulse/internal/config"
	evaldomain "github.com/smallbiznis/teampulse/internal/evaluation/domain"
	evalrepo "github.com/smallbiznis/teampulse/internal/evaluation/repository"
	evalservice "github.com/smallbiznis/teampulse/internal/evaluation/service"
	"github.com/smallbiznis/teampulse/internal/period"
	questiondomain "github.com/smallbiznis/teampulse/internal/question/domain"
	questionrepo "github.com/smallbiznis/teampulse/internal/question/repository"
	"github.com/smallbiznis/teampulse/internal/ranking/domain"
	rankingrepo "github.com/smallbiznis/teampulse/internal/ranking/repository"
	teamdomain "github.com/smallbiznis/teampulse/internal/team/domain"
	teamrepo "github.com/smallbiznis/teampulse/internal/team/repository"
	userdomain "github.com/smallbiznis/teampulse/internal/user/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type rankingFixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	svc      domain.Service
	period   period.Period
	teams    []teamdomain.Team
	members  map[snowflake.ID][]userdomain.User
	question questiondomain.Question
}

func setupRanking(t *testing.T) *rankingFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&userdomain.User{},
		&teamdomain.Team{},
		&teamdomain.TeamMembership{},
		&questiondomain.Question{},
		&evaldomain.Answer{},
		&domain.ScoreSnapshot{},
	)
	assert.NoError(t, err)

	node, _ := snowflake.NewNode(1)
	f := &rankingFixture{
		db:      db,
		node:    node,
		period:  period.Period{Month: 8, Year: 2026},
		members: make(map[snowflake.ID][]userdomain.User),
	}
	periodKey := f.period.Key()

	for i := 0; i < 2; i++ {
		team := teamdomain.Team{
			ID:        node.Generate(),
			PeriodKey: periodKey,
			Name:      fmt.Sprintf("team-%d", i),
			Size:      3,
		}
		assert.NoError(t, db.Create(&team).Error)
		f.teams = append(f.teams, team)

		for j := 0; j < 3; j++ {
			user := userdomain.User{
				ID:          node.Generate(),
				Email:       fmt.Sprintf("user%d-%d@example.com", i, j),
				DisplayName: fmt.Sprintf("User %d-%d", i, j),
				Role:        userdomain.RoleMember,
				Active:      true,
			}
			assert.NoError(t, db.Create(&user).Error)
			assert.NoError(t, db.Create(&teamdomain.TeamMembership{
				ID:        node.Generate(),
				TeamID:    team.ID,
				UserID:    user.ID,
				PeriodKey: periodKey,
			}).Error)
			f.members[team.ID] = append(f.members[team.ID], user)
		}
	}

	f.question = questiondomain.Question{
		ID:        node.Generate(),
		PeriodKey: periodKey,
		Text:      "How effective was this person?",
		CreatedAt: time.Now().UTC(),
	}
	assert.NoError(t, db.Create(&f.question).Error)

	answers := evalrepo.Provide()
	scorer := evalservice.NewScorer(evalservice.ScorerParams{
		DB:        db,
		Log:       zap.NewNop(),
		Scoring:   config.DefaultScoringConfig(),
		Repo:      answers,
		Teams:     teamrepo.Provide(),
		Questions: questionrepo.Provide(),
	})
	f.svc = New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Repo:    rankingrepo.Provide(),
		Answers: answers,
		Scorer:  scorer,
	})
	return f
}

func (f *rankingFixture) selfRate(t *testing.T, teamIdx, memberIdx, score int) {
	t.Helper()
	user := f.members[f.teams[teamIdx].ID][memberIdx]
	assert.NoError(t, f.db.Create(&evaldomain.Answer{
		ID:         f.node.Generate(),
		PeriodKey:  f.period.Key(),
		RaterID:    user.ID,
		QuestionID: f.question.ID,
		SubjectID:  user.ID,
		Source:     evaldomain.SourceSelf,
		TeamID:     f.teams[teamIdx].ID,
		Score:      score,
	}).Error)
}

func TestGetRanking_ComputesAndCaches(t *testing.T) {
	f := setupRanking(t)
	ctx := context.Background()

	f.selfRate(t, 0, 0, 5)

	result, err := f.svc.GetRanking(ctx, domain.GetRankingRequest{Period: f.period})
	assert.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Len(t, result.Ordered, 2)
	assert.Equal(t, f.teams[0].ID, result.Ordered[0].TeamID)
	assert.NotNil(t, result.Winner)
	assert.Equal(t, f.teams[0].ID, result.Winner.TeamID)

	var count int64
	assert.NoError(t, f.db.Model(&domain.ScoreSnapshot{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	again, err := f.svc.GetRanking(ctx, domain.GetRankingRequest{Period: f.period})
	assert.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, result.Ordered[0].TeamID, again.Ordered[0].TeamID)
}

func TestGetRanking_CacheHitKeepsStaleTotals(t *testing.T) {
	f := setupRanking(t)
	ctx := context.Background()

	f.selfRate(t, 0, 0, 5)
	first, err := f.svc.GetRanking(ctx, domain.GetRankingRequest{Period: f.period})
	assert.NoError(t, err)

	// New answers after caching: totals stay frozen, but the live answer
	// count shows up on the next read.
	f.selfRate(t, 0, 1, 5)

	second, err := f.svc.GetRanking(ctx, domain.GetRankingRequest{Period: f.period})
	assert.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Ordered[0].TotalScore, second.Ordered[0].TotalScore)
	assert.Equal(t, 2, second.Ordered[0].AnswerCount)
}

func TestRecompute_RefreshesTotals(t *testing.T) {
	f := setupRanking(t)
	ctx := context.Background()

	f.selfRate(t, 0, 0, 5)
	first, err := f.svc.GetRanking(ctx, domain.GetRankingRequest{Period: f.period})
	assert.NoError(t, err)

	f.selfRate(t, 0, 1, 5)

	result, err := f.svc.Recompute(ctx, domain.GetRankingRequest{Period: f.period})
	assert.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Greater(t, result.Ordered[0].TotalScore, first.Ordered[0].TotalScore)
}

func TestRecompute_ReplacesSnapshotSetAtomically(t *testing.T) {
	f := setupRanking(t)
	ctx := context.Background()

	_, err := f.svc.GetRanking(ctx, domain.GetRankingRequest{Period: f.period})
	assert.NoError(t, err)

	var before []domain.ScoreSnapshot
	assert.NoError(t, f.db.Find(&before).Error)
	assert.Len(t, before, 2)

	_, err = f.svc.Recompute(ctx, domain.GetRankingRequest{Period: f.period})
	assert.NoError(t, err)

	var after []domain.ScoreSnapshot
	assert.NoError(t, f.db.Find(&after).Error)
	assert.Len(t, after, 2)
	for _, snap := range after {
		for _, old := range before {
			assert.NotEqual(t, old.ID, snap.ID, "old snapshot row survived the replace")
		}
	}
}

func TestGetRanking_NoWinnerWithoutAnswers(t *testing.T) {
	f := setupRanking(t)

	result, err := f.svc.GetRanking(context.Background(), domain.GetRankingRequest{Period: f.period})
	assert.NoError(t, err)
	assert.Len(t, result.Ordered, 2)
	assert.Nil(t, result.Winner)
	for i, entry := range result.Ordered {
		assert.Equal(t, i+1, entry.Rank)
		assert.Zero(t, entry.TotalScore)
	}
}
