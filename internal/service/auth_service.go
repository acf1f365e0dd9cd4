package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bcabs/josephs-list/internal/config"
	"github.com/bcabs/josephs-list/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ============================================
// Auth Service
// ============================================

type AuthService interface {
	Register(ctx context.Context, fullName, email, password string) (*repository.Profile, string, string, error)
	Login(ctx context.Context, email, password string) (*repository.Profile, string, string, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(token string) (*jwt.Token, error)
	GetUserIDFromToken(token *jwt.Token) (string, error)
}

type authService struct {
	cfg            *config.Config
	profileRepo    repository.ProfileRepository
	groupRepo      repository.GroupRepository
	invitationRepo repository.InvitationRepository
}

func NewAuthService(
	cfg *config.Config,
	profileRepo repository.ProfileRepository,
	groupRepo repository.GroupRepository,
	invitationRepo repository.InvitationRepository,
) AuthService {
	return &authService{
		cfg:            cfg,
		profileRepo:    profileRepo,
		groupRepo:      groupRepo,
		invitationRepo: invitationRepo,
	}
}

func (s *authService) Register(ctx context.Context, fullName, email, password string) (*repository.Profile, string, string, error) {
	existing, _ := s.profileRepo.FindByEmail(ctx, email)
	if existing != nil {
		return nil, "", "", ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &repository.Profile{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     fullName,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, "", "", fmt.Errorf("failed to create profile: %w", err)
	}

	s.claimPendingInvitations(ctx, profile)

	accessToken, refreshToken, err := s.generateTokens(ctx, profile.ID)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return profile, accessToken, refreshToken, nil
}

// claimPendingInvitations converts invitations addressed to the new
// account's email into memberships. Best-effort: a failed claim is logged
// and skipped, registration itself already succeeded.
func (s *authService) claimPendingInvitations(ctx context.Context, profile *repository.Profile) {
	invitations, err := s.invitationRepo.FindPendingByEmail(ctx, profile.Email)
	if err != nil {
		log.Printf("[Auth] Failed to load pending invitations for %s: %v", profile.Email, err)
		return
	}

	for _, inv := range invitations {
		member := &repository.GroupMember{
			GroupID: inv.GroupID,
			UserID:  profile.ID,
			Role:    "member",
		}
		if err := s.groupRepo.AddMember(ctx, member); err != nil && !repository.IsUniqueViolation(err) {
			log.Printf("[Auth] Failed to claim invitation %s: %v", inv.ID, err)
			continue
		}
		s.invitationRepo.MarkAccepted(ctx, inv.ID)
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*repository.Profile, string, string, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil || profile == nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.generateTokens(ctx, profile.ID)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return profile, accessToken, refreshToken, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	rt, err := s.profileRepo.FindRefreshToken(ctx, refreshToken)
	if err != nil || rt == nil {
		return "", "", ErrInvalidToken
	}

	if time.Now().After(rt.ExpiresAt) {
		s.profileRepo.DeleteRefreshToken(ctx, refreshToken)
		return "", "", ErrInvalidToken
	}

	s.profileRepo.DeleteRefreshToken(ctx, refreshToken)

	accessToken, newRefreshToken, err := s.generateTokens(ctx, rt.UserID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return accessToken, newRefreshToken, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.profileRepo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (s *authService) GetUserIDFromToken(token *jwt.Token) (string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, ok := claims["sub"].(string)
	if !ok {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func (s *authService) generateTokens(ctx context.Context, userID string) (string, string, error) {
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour * time.Duration(s.cfg.JWTExpiry)).Unix(),
		"iat": time.Now().Unix(),
	})

	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", err
	}

	refreshTokenString := uuid.New().String()
	refreshTokenExpiry := time.Now().Add(time.Hour * 24 * time.Duration(s.cfg.RefreshExpiry))

	rt := &repository.RefreshToken{
		Token:     refreshTokenString,
		UserID:    userID,
		ExpiresAt: refreshTokenExpiry,
	}

	if err := s.profileRepo.SaveRefreshToken(ctx, rt); err != nil {
		return "", "", err
	}

	return accessTokenString, refreshTokenString, nil
}
