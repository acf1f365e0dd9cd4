package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Invitation is a pending invite for an email address that has no account
// yet. Registration with the invited email claims it into a membership.
type Invitation struct {
	ID        string
	Email     string
	Token     string
	GroupID   string
	InvitedBy string
	Status    string // pending, accepted
	ExpiresAt time.Time
	CreatedAt time.Time
}

type InvitationRepository interface {
	Create(ctx context.Context, invitation *Invitation) error
	FindPendingByEmail(ctx context.Context, email string) ([]*Invitation, error)
	FindPendingByGroup(ctx context.Context, groupID string) ([]*Invitation, error)
	FindPendingByGroupAndEmail(ctx context.Context, groupID, email string) (*Invitation, error)
	MarkAccepted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int, error)
}

type pgInvitationRepository struct {
	pool *pgxpool.Pool
}

func NewInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &pgInvitationRepository{pool: pool}
}

func (r *pgInvitationRepository) Create(ctx context.Context, invitation *Invitation) error {
	invitation.Token = uuid.New().String()
	if invitation.Status == "" {
		invitation.Status = "pending"
	}
	query := `
		INSERT INTO invitations (email, token, group_id, invited_by, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		invitation.Email, invitation.Token, invitation.GroupID,
		invitation.InvitedBy, invitation.Status, invitation.ExpiresAt,
	).Scan(&invitation.ID, &invitation.CreatedAt)
}

func (r *pgInvitationRepository) FindPendingByEmail(ctx context.Context, email string) ([]*Invitation, error) {
	query := `
		SELECT id, email, token, group_id, invited_by, status, expires_at, created_at
		FROM invitations
		WHERE LOWER(email) = LOWER($1) AND status = 'pending' AND expires_at > NOW()
		ORDER BY created_at DESC
	`
	return r.queryInvitations(ctx, query, email)
}

func (r *pgInvitationRepository) FindPendingByGroup(ctx context.Context, groupID string) ([]*Invitation, error) {
	query := `
		SELECT id, email, token, group_id, invited_by, status, expires_at, created_at
		FROM invitations
		WHERE group_id = $1 AND status = 'pending' AND expires_at > NOW()
		ORDER BY created_at DESC
	`
	return r.queryInvitations(ctx, query, groupID)
}

func (r *pgInvitationRepository) FindPendingByGroupAndEmail(ctx context.Context, groupID, email string) (*Invitation, error) {
	query := `
		SELECT id, email, token, group_id, invited_by, status, expires_at, created_at
		FROM invitations
		WHERE group_id = $1 AND LOWER(email) = LOWER($2) AND status = 'pending' AND expires_at > NOW()
	`
	invitation := &Invitation{}
	err := r.pool.QueryRow(ctx, query, groupID, email).Scan(
		&invitation.ID, &invitation.Email, &invitation.Token, &invitation.GroupID,
		&invitation.InvitedBy, &invitation.Status, &invitation.ExpiresAt, &invitation.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

func (r *pgInvitationRepository) MarkAccepted(ctx context.Context, id string) error {
	query := `UPDATE invitations SET status = 'accepted' WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgInvitationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM invitations WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgInvitationRepository) DeleteExpired(ctx context.Context) (int, error) {
	query := `DELETE FROM invitations WHERE expires_at < NOW() AND status = 'pending'`
	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func (r *pgInvitationRepository) queryInvitations(ctx context.Context, query string, args ...interface{}) ([]*Invitation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []*Invitation
	for rows.Next() {
		invitation := &Invitation{}
		if err := rows.Scan(
			&invitation.ID, &invitation.Email, &invitation.Token, &invitation.GroupID,
			&invitation.InvitedBy, &invitation.Status, &invitation.ExpiresAt, &invitation.CreatedAt,
		); err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}
	return invitations, nil
}
