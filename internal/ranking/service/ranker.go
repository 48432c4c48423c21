package service

import (
	"sort"

	evaldomain "github.com/smallbiznis/teampulse/internal/evaluation/domain"
	"github.com/smallbiznis/teampulse/internal/ranking/domain"
)

// rank orders team scores by total desc, average desc, earliest submission
// asc, then team ID asc. Teams without any submission sort after teams with
// one at the timing step. The winner is the first entry only when its total
// is strictly positive.
func rank(scores []evaldomain.TeamScore) ([]domain.RankedTeam, *domain.RankedTeam) {
	ordered := make([]domain.RankedTeam, 0, len(scores))
	for _, s := range scores {
		ordered = append(ordered, domain.RankedTeam{
			TeamID:             s.TeamID,
			TeamName:           s.TeamName,
			TotalScore:         s.TotalScore,
			AverageScore:       s.AverageScore(),
			AnswerCount:        s.AnswerCount,
			QuestionCount:      s.QuestionCount,
			Weighted:           s.Weighted,
			EarliestSubmission: s.EarliestSubmission,
		})
	}

	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		switch {
		case a.EarliestSubmission != nil && b.EarliestSubmission != nil &&
			!a.EarliestSubmission.Equal(*b.EarliestSubmission):
			return a.EarliestSubmission.Before(*b.EarliestSubmission)
		case a.EarliestSubmission != nil && b.EarliestSubmission == nil:
			return true
		case a.EarliestSubmission == nil && b.EarliestSubmission != nil:
			return false
		}
		return a.TeamID < b.TeamID
	})

	for i := range ordered {
		ordered[i].Rank = i + 1
	}

	if len(ordered) > 0 && ordered[0].TotalScore > 0 {
		winner := ordered[0]
		return ordered, &winner
	}
	return ordered, nil
}
