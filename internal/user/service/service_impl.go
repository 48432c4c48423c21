package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/teampulse/internal/auth/password"
	"github.com/smallbiznis/teampulse/internal/user/domain"
	"github.com/smallbiznis/teampulse/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, domain.ErrInvalidEmail
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return domain.User{}, domain.ErrInvalidName
	}

	role := domain.RoleMember
	if strings.TrimSpace(req.Role) != "" {
		parsed, ok := domain.ParseRole(req.Role)
		if !ok {
			return domain.User{}, domain.ErrInvalidRole
		}
		role = parsed
	}

	if existing, err := s.repo.FindByEmail(ctx, s.db, email); err != nil {
		return domain.User{}, err
	} else if existing != nil {
		return domain.User{}, domain.ErrUserExists
	}

	var passwordHash *string
	if pw := strings.TrimSpace(req.Password); pw != "" {
		if len(pw) < minPasswordLength {
			return domain.User{}, domain.ErrInvalidPassword
		}
		hashed, err := password.Hash(pw)
		if err != nil {
			return domain.User{}, err
		}
		passwordHash = &hashed
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		DisplayName:  name,
		Role:         role,
		PasswordHash: passwordHash,
		Active:       true,
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (s *Service) List(ctx context.Context, req domain.ListUsersRequest) (domain.ListUsersResponse, error) {
	filter := domain.ListUserFilter{Active: req.Active}
	if strings.TrimSpace(req.Role) != "" {
		role, ok := domain.ParseRole(req.Role)
		if !ok {
			return domain.ListUsersResponse{}, domain.ErrInvalidRole
		}
		filter.Role = role
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListUsersResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(user *domain.User) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: user.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	users := make([]domain.User, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		users = append(users, *item)
	}

	resp := domain.ListUsersResponse{Users: users}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetUserRequest) (domain.User, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.User{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}
	if item == nil {
		return domain.User{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) ActivePopulation(ctx context.Context) ([]domain.User, error) {
	items, err := s.repo.ActivePopulation(ctx, s.db)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		users = append(users, *item)
	}
	return users, nil
}
