package service

import (
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	userdomain "github.com/smallbiznis/teampulse/internal/user/domain"
)

// defaultSeed derives a stable shuffle seed from the period key so that
// re-running generation for the same period walks the same permutation.
func defaultSeed(periodKey string) int64 {
	h := fnv.New64a()
	h.Write([]byte(periodKey))
	return int64(h.Sum64())
}

// shuffle produces a uniformly random permutation of users without mutating
// the input slice.
func shuffle(users []userdomain.User, seed int64) []userdomain.User {
	out := make([]userdomain.User, len(users))
	copy(out, users)
	rng := rand.New(rand.NewSource(seed))
	// Fisher-Yates: swap each position with a uniform draw from [0, i].
	for i := len(out) - 1; i >= 1; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// partition splits an already-shuffled population into groups: full groups of
// teamSize, then the remainder policy. Remainders of 1 or 2 spread round-robin
// over the full groups, remainders of 3 up to teamSize+1 become one extra
// group, and anything larger first peels off full groups. No group of size 1
// or 2 is ever produced when the population itself allows it.
func partition(shuffled []userdomain.User, teamSize int) [][]userdomain.User {
	full := len(shuffled) / teamSize
	groups := make([][]userdomain.User, 0, full+1)
	for i := 0; i < full; i++ {
		group := make([]userdomain.User, teamSize)
		copy(group, shuffled[i*teamSize:(i+1)*teamSize])
		groups = append(groups, group)
	}

	rest := shuffled[full*teamSize:]
	for len(rest) > teamSize+1 {
		group := make([]userdomain.User, teamSize)
		copy(group, rest[:teamSize])
		groups = append(groups, group)
		rest = rest[teamSize:]
	}

	switch {
	case len(rest) == 0:
	case len(rest) < 3 && len(groups) > 0:
		for i, u := range rest {
			gi := i % len(groups)
			groups[gi] = append(groups[gi], u)
		}
	default:
		groups = append(groups, append([]userdomain.User(nil), rest...))
	}
	return groups
}

// groupRepeats counts pairs within group that shared a team last period.
func groupRepeats(group []userdomain.User, prev map[snowflake.ID]snowflake.ID) int {
	count := 0
	for i := 0; i < len(group); i++ {
		ti, ok := prev[group[i].ID]
		if !ok {
			continue
		}
		for j := i + 1; j < len(group); j++ {
			if tj, ok := prev[group[j].ID]; ok && ti == tj {
				count++
			}
		}
	}
	return count
}

// trySwap exchanges two members across groups and keeps the swap only when it
// strictly reduces repeat pairings.
func trySwap(groups [][]userdomain.User, gi, i, gj, j int, prev map[snowflake.ID]snowflake.ID) bool {
	before := groupRepeats(groups[gi], prev) + groupRepeats(groups[gj], prev)
	groups[gi][i], groups[gj][j] = groups[gj][j], groups[gi][i]
	if groupRepeats(groups[gi], prev)+groupRepeats(groups[gj], prev) < before {
		return true
	}
	groups[gi][i], groups[gj][j] = groups[gj][j], groups[gi][i]
	return false
}

// avoidRepeats runs bounded greedy swap passes against the previous period's
// memberships. Best effort only: it reduces repeat pairings when possible and
// leaves the grouping alone when no improving swap exists.
func avoidRepeats(groups [][]userdomain.User, prev map[snowflake.ID]snowflake.ID) {
	if len(prev) == 0 || len(groups) < 2 {
		return
	}
	const maxPasses = 3
	for pass := 0; pass < maxPasses; pass++ {
		improved := false
		for gi := range groups {
			for i := range groups[gi] {
				for gj := gi + 1; gj < len(groups); gj++ {
					for j := range groups[gj] {
						if trySwap(groups, gi, i, gj, j, prev) {
							improved = true
						}
					}
				}
			}
		}
		if !improved {
			return
		}
	}
}

var (
	nameAdjectives = []string{
		"amber", "bold", "clever", "daring", "eager", "fleet",
		"golden", "honest", "keen", "lively", "nimble", "quiet",
		"rapid", "steady", "true", "vivid",
	}
	nameNouns = []string{
		"falcon", "otter", "cedar", "comet", "delta", "ember",
		"harbor", "lynx", "maple", "orbit", "raven", "ridge",
		"sparrow", "summit", "tide", "wolf",
	}
)

// teamName draws a slug-safe human name, unique within taken.
func teamName(rng *rand.Rand, taken map[string]struct{}) string {
	for attempt := 0; ; attempt++ {
		name := slug.Make(nameAdjectives[rng.Intn(len(nameAdjectives))] + " " + nameNouns[rng.Intn(len(nameNouns))])
		if attempt >= len(nameAdjectives) {
			name = fmt.Sprintf("%s-%d", name, len(taken)+1)
		}
		if _, ok := taken[name]; !ok {
			taken[name] = struct{}{}
			return name
		}
	}
}
