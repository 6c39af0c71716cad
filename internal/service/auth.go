package service

import (
	"errors"

	"edumart/config"
	"edumart/internal/auth"
	"edumart/internal/domain"
	"edumart/internal/models"
	"edumart/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

// Register creates a user. When referralCode names an existing user, the new
// user is recorded as referred by them; plan-purchase commissions flow to the
// referrer later.
func (s *AuthService) Register(name, email, password, referralCode string) (*models.User, error) {
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, domain.Validationf("email %s is already registered", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if referralCode != "" {
		if referrer, err := s.userRepo.GetByReferralCode(referralCode); err == nil {
			u.ReferredBy = &referrer.ID
		}
		// An unknown code registers the user without a referrer.
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(email, password string) (*models.User, auth.TokenPair, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, auth.TokenPair{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, auth.TokenPair{}, ErrInvalidCredentials
	}
	pair, err := auth.IssuePair(&s.cfg.JWT, u.ID, u.Role)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The role is read
// from the store, not the old token, so a role change takes effect here.
func (s *AuthService) Refresh(refreshToken string) (auth.TokenPair, error) {
	claims, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return auth.TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.userRepo.GetByID(claims.UserID())
	if err != nil {
		return auth.TokenPair{}, ErrInvalidCredentials
	}
	return auth.IssuePair(&s.cfg.JWT, u.ID, u.Role)
}
