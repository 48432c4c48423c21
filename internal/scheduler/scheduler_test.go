package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/teampulse/internal/clock"
	"github.com/smallbiznis/teampulse/internal/config"
	teamdomain "github.com/smallbiznis/teampulse/internal/team/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type teamServiceStub struct {
	calls   []teamdomain.FormTeamsRequest
	results []error
}

func (s *teamServiceStub) FormTeams(_ context.Context, req teamdomain.FormTeamsRequest) (teamdomain.FormTeamsResult, error) {
	s.calls = append(s.calls, req)
	var err error
	if len(s.results) > 0 {
		err = s.results[0]
		s.results = s.results[1:]
	}
	if err != nil {
		return teamdomain.FormTeamsResult{Skipped: errors.Is(err, teamdomain.ErrAlreadyFormed)}, err
	}
	return teamdomain.FormTeamsResult{TeamCount: 2}, nil
}

func (s *teamServiceStub) List(context.Context, teamdomain.ListTeamsRequest) ([]teamdomain.Team, error) {
	return nil, nil
}

func (s *teamServiceStub) ListMembers(context.Context, teamdomain.ListMembersRequest) ([]teamdomain.TeamMember, error) {
	return nil, nil
}

func (s *teamServiceStub) MoveMember(context.Context, teamdomain.MoveMemberRequest) error {
	return nil
}

func newTestScheduler(t *testing.T, stub *teamServiceStub, fake *clock.FakeClock) *Scheduler {
	t.Helper()
	sched, err := New(Params{
		Log:     zap.NewNop(),
		Clock:   fake,
		Cfg:     config.Config{PeriodResolution: "hourly", SchedulerInterval: time.Minute},
		TeamSvc: stub,
	})
	assert.NoError(t, err)
	return sched
}

func TestRunOnce_FormsTeamsForCurrentPeriod(t *testing.T) {
	stub := &teamServiceStub{}
	fake := clock.NewFakeClock(time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC))
	sched := newTestScheduler(t, stub, fake)

	assert.NoError(t, sched.RunOnce(context.Background()))
	assert.Len(t, stub.calls, 1)
	assert.Equal(t, "2026-08-29T15", stub.calls[0].Period.Key())
	assert.False(t, stub.calls[0].Force)
}

func TestRunOnce_AlreadyFormedIsASkipNotAnError(t *testing.T) {
	stub := &teamServiceStub{results: []error{teamdomain.ErrAlreadyFormed}}
	fake := clock.NewFakeClock(time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC))
	sched := newTestScheduler(t, stub, fake)

	assert.NoError(t, sched.RunOnce(context.Background()))
}

func TestRunOnce_AdvancingTheClockMovesThePeriod(t *testing.T) {
	stub := &teamServiceStub{}
	fake := clock.NewFakeClock(time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC))
	sched := newTestScheduler(t, stub, fake)

	assert.NoError(t, sched.RunOnce(context.Background()))
	fake.Advance(time.Hour)
	assert.NoError(t, sched.RunOnce(context.Background()))

	assert.Len(t, stub.calls, 2)
	assert.Equal(t, "2026-08-29T15", stub.calls[0].Period.Key())
	assert.Equal(t, "2026-08-29T16", stub.calls[1].Period.Key())
}

func TestRunOnce_UnexpectedErrorPropagates(t *testing.T) {
	boom := errors.New("storage down")
	stub := &teamServiceStub{results: []error{boom}}
	fake := clock.NewFakeClock(time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC))
	sched := newTestScheduler(t, stub, fake)

	err := sched.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
}
