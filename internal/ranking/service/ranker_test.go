package service

import (
	"testing"
	"time"

	evaldomain "github.com/smallbiznis/teampulse/internal/evaluation/domain"
	"github.com/stretchr/testify/assert"
)

func ts(unix int64) *time.Time {
	t := time.Unix(unix, 0).UTC()
	return &t
}

func TestRank_TotalScoreDominates(t *testing.T) {
	ordered, winner := rank([]evaldomain.TeamScore{
		{TeamID: 1, TotalScore: 5, AnswerCount: 2},
		{TeamID: 2, TotalScore: 10, AnswerCount: 4},
	})
	assert.Equal(t, int64(2), int64(ordered[0].TeamID))
	assert.Equal(t, 1, ordered[0].Rank)
	assert.Equal(t, 2, ordered[1].Rank)
	assert.NotNil(t, winner)
	assert.Equal(t, int64(2), int64(winner.TeamID))
}

func TestRank_EarlierSubmissionBreaksTie(t *testing.T) {
	// Identical totals and averages: the team that started rating first
	// wins the tie.
	ordered, winner := rank([]evaldomain.TeamScore{
		{TeamID: 1, TotalScore: 10, AnswerCount: 4, EarliestSubmission: ts(100)},
		{TeamID: 2, TotalScore: 10, AnswerCount: 4, EarliestSubmission: ts(50)},
	})
	assert.Equal(t, int64(2), int64(ordered[0].TeamID))
	assert.Equal(t, int64(1), int64(ordered[1].TeamID))
	assert.NotNil(t, winner)
	assert.Equal(t, int64(2), int64(winner.TeamID))
}

func TestRank_AverageBeforeTiming(t *testing.T) {
	// Same total, fewer answers means a higher average and the better
	// rank, regardless of timing.
	ordered, _ := rank([]evaldomain.TeamScore{
		{TeamID: 1, TotalScore: 10, AnswerCount: 2, EarliestSubmission: ts(100)},
		{TeamID: 2, TotalScore: 10, AnswerCount: 4, EarliestSubmission: ts(50)},
	})
	assert.Equal(t, int64(1), int64(ordered[0].TeamID))
}

func TestRank_TeamIDIsFinalTieBreak(t *testing.T) {
	ordered, _ := rank([]evaldomain.TeamScore{
		{TeamID: 9, TotalScore: 0},
		{TeamID: 3, TotalScore: 0},
	})
	assert.Equal(t, int64(3), int64(ordered[0].TeamID))
	assert.Equal(t, int64(9), int64(ordered[1].TeamID))
}

func TestRank_NoWinnerWhenAllZero(t *testing.T) {
	ordered, winner := rank([]evaldomain.TeamScore{
		{TeamID: 1, TotalScore: 0},
		{TeamID: 2, TotalScore: 0},
	})
	assert.Len(t, ordered, 2)
	assert.Nil(t, winner)
}

func TestRank_TeamsWithSubmissionsSortBeforeSilentOnes(t *testing.T) {
	ordered, _ := rank([]evaldomain.TeamScore{
		{TeamID: 1, TotalScore: 0},
		{TeamID: 2, TotalScore: 0, AnswerCount: 1, EarliestSubmission: ts(10)},
	})
	assert.Equal(t, int64(2), int64(ordered[0].TeamID))
}
