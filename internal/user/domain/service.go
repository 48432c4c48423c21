package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/teampulse/pkg/db/pagination"
)

type CreateUserRequest struct {
	Email       string
	DisplayName string
	Password    string
	Role        string
}

type ListUsersRequest struct {
	PageToken string
	PageSize  int
	Role      string
	Active    *bool
}

type ListUserFilter struct {
	Role   Role
	Active *bool
}

type ListUsersResponse struct {
	pagination.PageInfo
	Users []User `json:"users"`
}

type GetUserRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateUserRequest) (User, error)
	List(context.Context, ListUsersRequest) (ListUsersResponse, error)
	GetByID(context.Context, GetUserRequest) (User, error)
	// ActivePopulation returns every active member account, the input set
	// for team generation. Managers and admins are not shuffled into
	// teams.
	ActivePopulation(context.Context) ([]User, error)
}

var (
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidRole     = errors.New("invalid_role")
	ErrInvalidPassword = errors.New("invalid_password")
	ErrInvalidID       = errors.New("invalid_id")
	ErrUserExists      = errors.New("user_exists")
	ErrNotFound        = errors.New("not_found")
)
