package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/teampulse/internal/evaluation/domain"
	"github.com/stretchr/testify/assert"
)

func TestScorer_WeightedBlendExample(t *testing.T) {
	f := setupEval(t)
	subject := f.members[0]

	// self=4, peers 3 and 5 (avg 4), manager=5 with weights
	// 0.2/0.5/0.3 blends to 4.3.
	f.submit(t, subject.ID, subject.ID, "self", 4)
	f.submit(t, f.members[1].ID, subject.ID, "peer", 3)
	f.submit(t, f.members[2].ID, subject.ID, "peer", 5)
	f.submit(t, f.manager.ID, subject.ID, "manager", 5)

	score, err := f.scorer.ScoreUser(context.Background(), f.period, subject.ID, f.team.ID, f.question.ID)
	assert.NoError(t, err)
	assert.Equal(t, 4.0, score.Self)
	assert.Equal(t, 4.0, score.PeerAvg)
	assert.Equal(t, 5.0, score.Manager)
	assert.InDelta(t, 4.3, score.Display, 0.0001)
}

func TestScorer_MissingSourcesScoreZero(t *testing.T) {
	f := setupEval(t)
	subject := f.members[0]

	// Only a single peer rating: self and manager contribute 0.
	f.submit(t, f.members[1].ID, subject.ID, "peer", 4)

	score, err := f.scorer.ScoreUser(context.Background(), f.period, subject.ID, f.team.ID, f.question.ID)
	assert.NoError(t, err)
	assert.Zero(t, score.Self)
	assert.Zero(t, score.Manager)
	assert.InDelta(t, 2.0, score.Display, 0.0001)
}

func TestScorer_LatestManagerRatingWins(t *testing.T) {
	f := setupEval(t)
	subject := f.members[0]

	first := f.submit(t, f.manager.ID, subject.ID, "manager", 2)
	assert.NoError(t, f.db.Model(&domain.Answer{}).
		Where("id = ?", first.ID).
		Update("created_at", time.Now().UTC().Add(-time.Hour)).Error)

	// A second manager (admin) rates later; the newer row wins.
	second := domain.Answer{
		ID:         f.node.Generate(),
		PeriodKey:  f.period.Key(),
		RaterID:    f.node.Generate(),
		QuestionID: f.question.ID,
		SubjectID:  subject.ID,
		Source:     domain.SourceManager,
		TeamID:     f.team.ID,
		Score:      5,
		CreatedAt:  time.Now().UTC(),
	}
	assert.NoError(t, f.db.Create(&second).Error)

	score, err := f.scorer.ScoreUser(context.Background(), f.period, subject.ID, f.team.ID, f.question.ID)
	assert.NoError(t, err)
	assert.Equal(t, 5.0, score.Manager)
}

func TestScorer_TeamWithNoAnswersScoresZero(t *testing.T) {
	f := setupEval(t)

	score, err := f.scorer.ScoreTeam(context.Background(), f.period, f.team.ID)
	assert.NoError(t, err)
	assert.Zero(t, score.TotalScore)
	assert.Zero(t, score.AnswerCount)
	assert.Nil(t, score.EarliestSubmission)
	assert.Equal(t, 1, score.QuestionCount)
}

func TestScorer_TeamTotalSumsMembers(t *testing.T) {
	f := setupEval(t)

	// Two members each record a self rating of 5: weight 0.2 apiece.
	f.submit(t, f.members[0].ID, f.members[0].ID, "self", 5)
	f.submit(t, f.members[1].ID, f.members[1].ID, "self", 5)

	score, err := f.scorer.ScoreTeam(context.Background(), f.period, f.team.ID)
	assert.NoError(t, err)
	assert.True(t, score.Weighted)
	assert.InDelta(t, 2.0, score.TotalScore, 0.0001)
	assert.Equal(t, 2, score.AnswerCount)
	assert.NotNil(t, score.EarliestSubmission)
}

func TestScorer_UnweightedModeWhenNoSourceExists(t *testing.T) {
	f := setupEval(t)

	// Legacy rows without a source flip the whole computation to raw
	// sums.
	for i, score := range []int{3, 5} {
		assert.NoError(t, f.db.Create(&domain.Answer{
			ID:         f.node.Generate(),
			PeriodKey:  f.period.Key(),
			RaterID:    f.members[i].ID,
			QuestionID: f.question.ID,
			SubjectID:  f.members[i].ID,
			Source:     "",
			TeamID:     f.team.ID,
			Score:      score,
		}).Error)
	}

	scores, err := f.scorer.ScorePeriod(context.Background(), f.period)
	assert.NoError(t, err)
	assert.Len(t, scores, 1)
	assert.False(t, scores[0].Weighted)
	assert.InDelta(t, 8.0, scores[0].TotalScore, 0.0001)
	assert.Equal(t, 2, scores[0].AnswerCount)
}

func TestScorer_ScorePeriodCoversEveryTeam(t *testing.T) {
	f := setupEval(t)

	f.submit(t, f.members[0].ID, f.members[0].ID, "self", 4)

	scores, err := f.scorer.ScorePeriod(context.Background(), f.period)
	assert.NoError(t, err)
	assert.Len(t, scores, 1)
	assert.True(t, scores[0].Weighted)
	assert.InDelta(t, 0.8, scores[0].TotalScore, 0.0001)
	assert.InDelta(t, 0.8, scores[0].AverageScore(), 0.0001)
}
