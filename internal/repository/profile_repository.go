package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Profile holds a user's identity and public profile. password_hash is
// never serialized.
type Profile struct {
	ID           string
	Email        string
	PasswordHash string `json:"-"`
	FullName     string
	Bio          *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RefreshToken struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	FindByID(ctx context.Context, id string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error

	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteExpiredRefreshTokens(ctx context.Context) (int, error)
}

type pgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &pgProfileRepository{pool: pool}
}

func (r *pgProfileRepository) Create(ctx context.Context, profile *Profile) error {
	query := `
		INSERT INTO profiles (email, password_hash, full_name, bio)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		profile.Email, profile.PasswordHash, profile.FullName, profile.Bio,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *pgProfileRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	query := `
		SELECT id, email, password_hash, full_name, bio, created_at, updated_at
		FROM profiles WHERE id = $1
	`
	profile := &Profile{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID, &profile.Email, &profile.PasswordHash, &profile.FullName,
		&profile.Bio, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *pgProfileRepository) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	query := `
		SELECT id, email, password_hash, full_name, bio, created_at, updated_at
		FROM profiles WHERE LOWER(email) = LOWER($1)
	`
	profile := &Profile{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&profile.ID, &profile.Email, &profile.PasswordHash, &profile.FullName,
		&profile.Bio, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *pgProfileRepository) Update(ctx context.Context, profile *Profile) error {
	query := `
		UPDATE profiles SET full_name = $2, bio = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query, profile.ID, profile.FullName, profile.Bio).
		Scan(&profile.UpdatedAt)
}

func (r *pgProfileRepository) SaveRefreshToken(ctx context.Context, token *RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, token.Token, token.UserID, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
}

func (r *pgProfileRepository) FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	query := `
		SELECT id, token, user_id, expires_at, created_at
		FROM refresh_tokens WHERE token = $1
	`
	rt := &RefreshToken{}
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&rt.ID, &rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *pgProfileRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`
	_, err := r.pool.Exec(ctx, query, token)
	return err
}

func (r *pgProfileRepository) DeleteExpiredRefreshTokens(ctx context.Context) (int, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at < NOW()`
	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}
