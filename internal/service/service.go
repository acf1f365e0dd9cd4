package service

import (
	"errors"

	"github.com/bcabs/josephs-list/internal/config"
	"github.com/bcabs/josephs-list/internal/db"
	"github.com/bcabs/josephs-list/internal/email"
	"github.com/bcabs/josephs-list/internal/repository"
	"github.com/bcabs/josephs-list/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyMember      = errors.New("user is already a member of this group")
	ErrAlreadyInvited     = errors.New("an invitation for this email is already pending")
	ErrNoMembership       = errors.New("join a group before listing tools")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth       AuthService
	Profile    ProfileService
	Group      GroupService
	Tool       ToolService
	Invitation InvitationService
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config   *config.Config
	Repos    *repository.Repositories
	Cache    *db.RedisDB
	Store    *storage.Store
	EmailSvc *email.Service
}

func NewServices(deps *ServiceDeps) *Services {
	return &Services{
		Auth: NewAuthService(
			deps.Config,
			deps.Repos.ProfileRepo,
			deps.Repos.GroupRepo,
			deps.Repos.InvitationRepo,
		),
		Profile: NewProfileService(deps.Repos.ProfileRepo),
		Group: NewGroupService(
			deps.Config,
			deps.Repos.GroupRepo,
			deps.Repos.ProfileRepo,
			deps.Repos.InvitationRepo,
			deps.EmailSvc,
		),
		Tool: NewToolService(
			deps.Repos.ToolRepo,
			deps.Repos.GroupRepo,
			deps.Cache,
			deps.Store,
		),
		Invitation: NewInvitationService(deps.Repos.InvitationRepo, deps.Repos.GroupRepo),
	}
}
