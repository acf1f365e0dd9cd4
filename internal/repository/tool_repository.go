package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Tool represents a listed physical item owned by one user. Visibility is
// derived from group membership: a tool can be seen by everyone who shares
// at least one group with its owner.
type Tool struct {
	ID          string
	Name        string
	Description string
	ImageURL    *string
	OwnerID     string
	CreatedAt   time.Time
	Owner       *MemberProfile
}

// ToolRepository defines tool data operations. All list reads are
// reverse-chronological.
type ToolRepository interface {
	Create(ctx context.Context, tool *Tool) error
	FindByID(ctx context.Context, id string) (*Tool, error)
	FindVisibleToUser(ctx context.Context, userID string) ([]*Tool, error)
	FindByGroup(ctx context.Context, groupID string) ([]*Tool, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Tool, error)
	Update(ctx context.Context, tool *Tool) error
	Delete(ctx context.Context, id string) error
}

type pgToolRepository struct {
	pool *pgxpool.Pool
}

func NewToolRepository(pool *pgxpool.Pool) ToolRepository {
	return &pgToolRepository{pool: pool}
}

func (r *pgToolRepository) Create(ctx context.Context, tool *Tool) error {
	query := `
		INSERT INTO tools (name, description, image_url, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		tool.Name, tool.Description, tool.ImageURL, tool.OwnerID,
	).Scan(&tool.ID, &tool.CreatedAt)
}

func (r *pgToolRepository) FindByID(ctx context.Context, id string) (*Tool, error) {
	query := `
		SELECT t.id, t.name, t.description, t.image_url, t.owner_id, t.created_at,
		       p.full_name, p.email
		FROM tools t
		INNER JOIN profiles p ON t.owner_id = p.id
		WHERE t.id = $1
	`
	tool := &Tool{Owner: &MemberProfile{}}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&tool.ID, &tool.Name, &tool.Description, &tool.ImageURL,
		&tool.OwnerID, &tool.CreatedAt,
		&tool.Owner.FullName, &tool.Owner.Email,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tool, nil
}

// FindVisibleToUser returns the user's own tools plus every tool whose
// owner shares a group with the user.
func (r *pgToolRepository) FindVisibleToUser(ctx context.Context, userID string) ([]*Tool, error) {
	query := `
		SELECT t.id, t.name, t.description, t.image_url, t.owner_id, t.created_at,
		       p.full_name, p.email
		FROM tools t
		INNER JOIN profiles p ON t.owner_id = p.id
		WHERE t.owner_id = $1
		   OR t.owner_id IN (
			SELECT b.user_id
			FROM group_members a
			INNER JOIN group_members b ON a.group_id = b.group_id
			WHERE a.user_id = $1
		)
		ORDER BY t.created_at DESC
	`
	return r.queryTools(ctx, query, userID)
}

func (r *pgToolRepository) FindByGroup(ctx context.Context, groupID string) ([]*Tool, error) {
	query := `
		SELECT t.id, t.name, t.description, t.image_url, t.owner_id, t.created_at,
		       p.full_name, p.email
		FROM tools t
		INNER JOIN profiles p ON t.owner_id = p.id
		WHERE t.owner_id IN (
			SELECT user_id FROM group_members WHERE group_id = $1
		)
		ORDER BY t.created_at DESC
	`
	return r.queryTools(ctx, query, groupID)
}

func (r *pgToolRepository) FindByOwner(ctx context.Context, ownerID string) ([]*Tool, error) {
	query := `
		SELECT t.id, t.name, t.description, t.image_url, t.owner_id, t.created_at,
		       p.full_name, p.email
		FROM tools t
		INNER JOIN profiles p ON t.owner_id = p.id
		WHERE t.owner_id = $1
		ORDER BY t.created_at DESC
	`
	return r.queryTools(ctx, query, ownerID)
}

func (r *pgToolRepository) Update(ctx context.Context, tool *Tool) error {
	query := `
		UPDATE tools SET name = $2, description = $3, image_url = $4
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, tool.ID, tool.Name, tool.Description, tool.ImageURL)
	return err
}

func (r *pgToolRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tools WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgToolRepository) queryTools(ctx context.Context, query string, args ...interface{}) ([]*Tool, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tools []*Tool
	for rows.Next() {
		tool := &Tool{Owner: &MemberProfile{}}
		if err := rows.Scan(
			&tool.ID, &tool.Name, &tool.Description, &tool.ImageURL,
			&tool.OwnerID, &tool.CreatedAt,
			&tool.Owner.FullName, &tool.Owner.Email,
		); err != nil {
			return nil, err
		}
		tools = append(tools, tool)
	}
	return tools, nil
}
