package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	ProfileRepo    ProfileRepository
	GroupRepo      GroupRepository
	ToolRepo       ToolRepository
	InvitationRepo InvitationRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		ProfileRepo:    NewProfileRepository(pool),
		GroupRepo:      NewGroupRepository(pool),
		ToolRepo:       NewToolRepository(pool),
		InvitationRepo: NewInvitationRepository(pool),
	}
}
