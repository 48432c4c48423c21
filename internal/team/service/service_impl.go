package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/teampulse/internal/config"
	"github.com/smallbiznis/teampulse/internal/observability/metrics"
	"github.com/smallbiznis/teampulse/internal/period"
	"github.com/smallbiznis/teampulse/internal/team/domain"
	userdomain "github.com/smallbiznis/teampulse/internal/user/domain"
	"github.com/smallbiznis/teampulse/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Cfg     config.Config
	Repo    domain.Repository
	Users   userdomain.Service
	Metrics *metrics.Metrics
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	cfg     config.Config
	repo    domain.Repository
	users   userdomain.Service
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("team.service"),
		genID:   p.GenID,
		cfg:     p.Cfg,
		repo:    p.Repo,
		users:   p.Users,
		metrics: p.Metrics,
	}
}

func (s *Service) FormTeams(ctx context.Context, req domain.FormTeamsRequest) (domain.FormTeamsResult, error) {
	if err := req.Period.Validate(); err != nil {
		return domain.FormTeamsResult{}, err
	}

	teamSize := req.TeamSize
	if teamSize == 0 {
		teamSize = s.cfg.DefaultTeamSize
	}
	if teamSize < 2 {
		return domain.FormTeamsResult{}, domain.ErrInvalidTeamSize
	}

	periodKey := req.Period.Key()
	existing, err := s.repo.CountByPeriod(ctx, s.db, periodKey)
	if err != nil {
		return domain.FormTeamsResult{}, err
	}
	if existing > 0 && !req.Force {
		return domain.FormTeamsResult{Skipped: true}, domain.ErrAlreadyFormed
	}

	population, err := s.users.ActivePopulation(ctx)
	if err != nil {
		return domain.FormTeamsResult{}, err
	}
	if len(population) < 3 {
		return domain.FormTeamsResult{}, domain.ErrInsufficientPopulation
	}

	seed := req.Seed
	if seed == 0 {
		seed = defaultSeed(periodKey)
	}

	groups := partition(shuffle(population, seed), teamSize)
	if req.AvoidRepeats {
		prev, err := s.previousPairings(ctx, req.Period)
		if err != nil {
			return domain.FormTeamsResult{}, err
		}
		avoidRepeats(groups, prev)
	}

	now := time.Now().UTC()
	rng := rand.New(rand.NewSource(seed))
	taken := make(map[string]struct{}, len(groups))
	teams := make([]*domain.Team, 0, len(groups))
	memberships := make([]*domain.TeamMembership, 0, len(population))
	for _, group := range groups {
		team := &domain.Team{
			ID:        s.genID.Generate(),
			PeriodKey: periodKey,
			Name:      teamName(rng, taken),
			Size:      len(group),
			CreatedAt: now,
		}
		teams = append(teams, team)
		for _, member := range group {
			memberships = append(memberships, &domain.TeamMembership{
				ID:        s.genID.Generate(),
				TeamID:    team.ID,
				UserID:    member.ID,
				PeriodKey: periodKey,
				CreatedAt: now,
			})
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Force {
			if err := s.repo.DeleteByPeriod(ctx, tx, periodKey); err != nil {
				return err
			}
		}
		if err := s.repo.InsertTeams(ctx, tx, teams); err != nil {
			return err
		}
		return s.repo.InsertMemberships(ctx, tx, memberships)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.FormTeamsResult{}, domain.ErrConcurrentGeneration
		}
		return domain.FormTeamsResult{}, err
	}

	s.log.Info("teams formed",
		zap.String("period", periodKey),
		zap.Int("population", len(population)),
		zap.Int("team_count", len(teams)),
		zap.Bool("force", req.Force),
	)
	s.metrics.RecordTeamsFormed(ctx, periodKey, len(teams))

	result := domain.FormTeamsResult{TeamCount: len(teams), Teams: make([]domain.Team, 0, len(teams))}
	for _, team := range teams {
		result.Teams = append(result.Teams, *team)
	}
	return result, nil
}

// previousPairings maps each user to the team they sat on in the prior
// period. Empty when there was no prior generation.
func (s *Service) previousPairings(ctx context.Context, p period.Period) (map[snowflake.ID]snowflake.ID, error) {
	memberships, err := s.repo.ListMembershipsByPeriod(ctx, s.db, p.Previous().Key())
	if err != nil {
		return nil, err
	}
	pairings := make(map[snowflake.ID]snowflake.ID, len(memberships))
	for _, m := range memberships {
		pairings[m.UserID] = m.TeamID
	}
	return pairings, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTeamsRequest) ([]domain.Team, error) {
	if err := req.Period.Validate(); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByPeriod(ctx, s.db, req.Period.Key())
	if err != nil {
		return nil, err
	}
	teams := make([]domain.Team, 0, len(items))
	for _, item := range items {
		teams = append(teams, *item)
	}
	return teams, nil
}

func (s *Service) ListMembers(ctx context.Context, req domain.ListMembersRequest) ([]domain.TeamMember, error) {
	team, err := s.repo.FindTeam(ctx, s.db, req.TeamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, domain.ErrNotFound
	}
	items, err := s.repo.ListMemberDetails(ctx, s.db, req.TeamID)
	if err != nil {
		return nil, err
	}
	members := make([]domain.TeamMember, 0, len(items))
	for _, item := range items {
		members = append(members, *item)
	}
	return members, nil
}

func (s *Service) MoveMember(ctx context.Context, req domain.MoveMemberRequest) error {
	if err := req.Period.Validate(); err != nil {
		return err
	}
	periodKey := req.Period.Key()

	from, err := s.repo.FindTeam(ctx, s.db, req.FromTeamID)
	if err != nil {
		return err
	}
	to, err := s.repo.FindTeam(ctx, s.db, req.ToTeamID)
	if err != nil {
		return err
	}
	if from == nil || to == nil {
		return domain.ErrNotFound
	}
	if from.PeriodKey != periodKey || to.PeriodKey != periodKey {
		return domain.ErrCrossPeriodMove
	}

	members, err := s.repo.ListMembers(ctx, s.db, req.FromTeamID)
	if err != nil {
		return err
	}
	var membership *domain.TeamMembership
	for _, m := range members {
		if m.UserID == req.UserID {
			membership = m
			break
		}
	}
	if membership == nil {
		return domain.ErrNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateMembershipTeam(ctx, tx, membership.ID, req.ToTeamID); err != nil {
			return err
		}
		if err := s.repo.UpdateTeamSize(ctx, tx, req.FromTeamID, -1); err != nil {
			return err
		}
		return s.repo.UpdateTeamSize(ctx, tx, req.ToTeamID, 1)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrDuplicateMember
		}
		return err
	}

	s.log.Info("member moved",
		zap.String("period", periodKey),
		zap.Int64("user_id", int64(req.UserID)),
		zap.Int64("from_team", int64(req.FromTeamID)),
		zap.Int64("to_team", int64(req.ToTeamID)),
	)
	return nil
}
