package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Group represents a community of users with one designated admin
type Group struct {
	ID          string
	Name        string
	Description *string
	AdminID     string
	CreatedAt   time.Time
	Members     []*GroupMember
}

// GroupMember represents a (group, user, role) membership row
type GroupMember struct {
	ID       string
	GroupID  string
	UserID   string
	Role     string
	JoinedAt time.Time
	Profile  *MemberProfile
}

// MemberProfile carries the public profile fields joined onto memberships
// and tools.
type MemberProfile struct {
	FullName string
	Email    string
}

// GroupRepository defines group and membership data operations
type GroupRepository interface {
	// CreateWithAdmin inserts the group and its creator's admin membership
	// in one transaction; a failed membership insert leaves no group row.
	CreateWithAdmin(ctx context.Context, group *Group) error
	FindByID(ctx context.Context, id string) (*Group, error)
	FindByUserID(ctx context.Context, userID string) ([]*Group, error)
	Update(ctx context.Context, group *Group) error

	// Member operations
	AddMember(ctx context.Context, member *GroupMember) error
	FindMembers(ctx context.Context, groupID string) ([]*GroupMember, error)
	FindMember(ctx context.Context, groupID, userID string) (*GroupMember, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	ShareGroup(ctx context.Context, userID, otherID string) (bool, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type pgGroupRepository struct {
	pool *pgxpool.Pool
}

func NewGroupRepository(pool *pgxpool.Pool) GroupRepository {
	return &pgGroupRepository{pool: pool}
}

func (r *pgGroupRepository) CreateWithAdmin(ctx context.Context, group *Group) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO groups (name, description, admin_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(ctx, query, group.Name, group.Description, group.AdminID).
		Scan(&group.ID, &group.CreatedAt); err != nil {
		return err
	}

	memberQuery := `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1, $2, 'admin')
	`
	if _, err := tx.Exec(ctx, memberQuery, group.ID, group.AdminID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *pgGroupRepository) FindByID(ctx context.Context, id string) (*Group, error) {
	query := `
		SELECT id, name, description, admin_id, created_at
		FROM groups WHERE id = $1
	`
	group := &Group{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&group.ID, &group.Name, &group.Description, &group.AdminID, &group.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (r *pgGroupRepository) FindByUserID(ctx context.Context, userID string) ([]*Group, error) {
	query := `
		SELECT g.id, g.name, g.description, g.admin_id, g.created_at
		FROM groups g
		INNER JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
		ORDER BY g.name
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(
			&group.ID, &group.Name, &group.Description, &group.AdminID, &group.CreatedAt,
		); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (r *pgGroupRepository) Update(ctx context.Context, group *Group) error {
	query := `
		UPDATE groups SET name = $2, description = $3
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, group.ID, group.Name, group.Description)
	return err
}

func (r *pgGroupRepository) AddMember(ctx context.Context, member *GroupMember) error {
	query := `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at
	`
	return r.pool.QueryRow(ctx, query, member.GroupID, member.UserID, member.Role).
		Scan(&member.ID, &member.JoinedAt)
}

func (r *pgGroupRepository) FindMembers(ctx context.Context, groupID string) ([]*GroupMember, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.role, gm.joined_at,
		       p.full_name, p.email
		FROM group_members gm
		INNER JOIN profiles p ON gm.user_id = p.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at
	`
	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*GroupMember
	for rows.Next() {
		member := &GroupMember{Profile: &MemberProfile{}}
		if err := rows.Scan(
			&member.ID, &member.GroupID, &member.UserID, &member.Role, &member.JoinedAt,
			&member.Profile.FullName, &member.Profile.Email,
		); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func (r *pgGroupRepository) FindMember(ctx context.Context, groupID, userID string) (*GroupMember, error) {
	query := `
		SELECT id, group_id, user_id, role, joined_at
		FROM group_members WHERE group_id = $1 AND user_id = $2
	`
	member := &GroupMember{}
	err := r.pool.QueryRow(ctx, query, groupID, userID).Scan(
		&member.ID, &member.GroupID, &member.UserID, &member.Role, &member.JoinedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (r *pgGroupRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, groupID, userID).Scan(&exists)
	return exists, err
}

func (r *pgGroupRepository) ShareGroup(ctx context.Context, userID, otherID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM group_members a
			INNER JOIN group_members b ON a.group_id = b.group_id
			WHERE a.user_id = $1 AND b.user_id = $2
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, otherID).Scan(&exists)
	return exists, err
}

func (r *pgGroupRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM group_members WHERE user_id = $1`
	var count int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}
