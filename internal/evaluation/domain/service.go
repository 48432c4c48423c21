package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/teampulse/internal/period"
)

type SubmitAnswerRequest struct {
	Period     period.Period
	RaterID    snowflake.ID
	SubjectID  snowflake.ID
	QuestionID snowflake.ID
	Source     string
	Score      int
}

type ListAnswersRequest struct {
	Period    period.Period
	SubjectID snowflake.ID
}

type Service interface {
	Submit(context.Context, SubmitAnswerRequest) (Answer, error)
	ListForSubject(context.Context, ListAnswersRequest) ([]Answer, error)
}

// UserScore is the weighted blend for one subject on one question.
type UserScore struct {
	SubjectID  snowflake.ID `json:"subject_id"`
	QuestionID snowflake.ID `json:"question_id"`
	Self       float64      `json:"self"`
	PeerAvg    float64      `json:"peer_avg"`
	Manager    float64      `json:"manager"`
	// Weighted keeps full precision; Display is rounded to 2 decimals.
	Weighted float64 `json:"weighted"`
	Display  float64 `json:"display"`
}

// TeamScore is one team's aggregate for a period, the Ranker's input.
type TeamScore struct {
	TeamID             snowflake.ID `json:"team_id"`
	TeamName           string       `json:"team_name"`
	TotalScore         float64      `json:"total_score"`
	AnswerCount        int          `json:"answer_count"`
	QuestionCount      int          `json:"question_count"`
	Weighted           bool         `json:"weighted"`
	EarliestSubmission *time.Time   `json:"earliest_submission,omitempty"`
}

// AverageScore is total over answer count, 0 when no answers exist.
func (s TeamScore) AverageScore() float64 {
	if s.AnswerCount == 0 {
		return 0
	}
	return s.TotalScore / float64(s.AnswerCount)
}

// Scorer computes period scores. ScorePeriod picks the weighted or
// unweighted mode exactly once for the whole computation.
type Scorer interface {
	ScoreUser(ctx context.Context, p period.Period, subjectID, teamID, questionID snowflake.ID) (UserScore, error)
	ScoreTeam(ctx context.Context, p period.Period, teamID snowflake.ID) (TeamScore, error)
	ScorePeriod(ctx context.Context, p period.Period) ([]TeamScore, error)
}

var (
	ErrInvalidScore        = errors.New("invalid_score")
	ErrInvalidSource       = errors.New("invalid_source")
	ErrDuplicateAnswer     = errors.New("duplicate_answer")
	ErrSelfSubjectMismatch = errors.New("self_subject_mismatch")
	ErrSubjectNotInTeam    = errors.New("subject_not_in_team")
	ErrRaterNotInTeam      = errors.New("rater_not_in_team")
	ErrQuestionNotFound    = errors.New("question_not_found")
)
