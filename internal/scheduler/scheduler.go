// Package scheduler runs the periodic team-generation trigger. The core
// never resolves "now" itself; this is the one place the current period is
// derived from the clock.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallbiznis/teampulse/internal/clock"
	"github.com/smallbiznis/teampulse/internal/config"
	"github.com/smallbiznis/teampulse/internal/period"
	teamdomain "github.com/smallbiznis/teampulse/internal/team/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	Cfg     config.Config
	TeamSvc teamdomain.Service
}

type Scheduler struct {
	log        *zap.Logger
	clock      clock.Clock
	teamSvc    teamdomain.Service
	resolution period.Resolution
	interval   time.Duration
	jobTimeout time.Duration
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.TeamSvc == nil {
		return nil, ErrInvalidConfig
	}
	resolution, err := period.ParseResolution(p.Cfg.PeriodResolution)
	if err != nil {
		return nil, err
	}
	interval := p.Cfg.SchedulerInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		log:        p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		clock:      p.Clock,
		teamSvc:    p.TeamSvc,
		resolution: resolution,
		interval:   interval,
		jobTimeout: interval,
	}, nil
}

// RunOnce forms teams for the current period. Re-running inside the same
// period is a cheap no-op signalled by the partitioner.
func (s *Scheduler) RunOnce(parent context.Context) (err error) {
	ctx, cancel := context.WithTimeout(parent, s.jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation job panic: %v", r)
			s.log.Error("generation job panicked", zap.Any("panic", r))
		}
	}()

	current := period.FromTime(s.clock.Now(), s.resolution)
	result, err := s.teamSvc.FormTeams(ctx, teamdomain.FormTeamsRequest{Period: current})
	switch {
	case errors.Is(err, teamdomain.ErrAlreadyFormed):
		s.log.Debug("teams already formed, skipping", zap.String("period", current.Key()))
		return nil
	case errors.Is(err, teamdomain.ErrInsufficientPopulation):
		s.log.Warn("population too small to form teams", zap.String("period", current.Key()))
		return nil
	case errors.Is(err, teamdomain.ErrConcurrentGeneration):
		s.log.Info("another instance generated teams first", zap.String("period", current.Key()))
		return nil
	case err != nil:
		return fmt.Errorf("form teams: %w", err)
	}

	s.log.Info("scheduled generation complete",
		zap.String("period", current.Key()),
		zap.Int("team_count", result.TeamCount),
	)
	return nil
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
