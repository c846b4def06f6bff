// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/surplusline/marketplace-backend/internal/config"
	"github.com/surplusline/marketplace-backend/internal/models"
	"github.com/surplusline/marketplace-backend/internal/utils"
)

type AuthService struct {
	db             *gorm.DB
	config         *config.Config
	buyerAnalytics *BuyerAnalyticsService
}

func NewAuthService(db *gorm.DB, cfg *config.Config, buyerAnalytics *BuyerAnalyticsService) *AuthService {
	return &AuthService{db: db, config: cfg, buyerAnalytics: buyerAnalytics}
}

type RegisterRequest struct {
	FullName string          `json:"full_name" validate:"required,min=2,max=255"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,strong_password"`
	Role     models.UserRole `json:"role" validate:"omitempty,oneof=buyer seller"`
	Company  string          `json:"company,omitempty"`
	Phone    string          `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// PublicProfile is the open profile card; buyers additionally expose
// their trust score and achievements, computed over all-time records.
type PublicProfile struct {
	User         *models.User      `json:"user"`
	Businesses   []models.Business `json:"businesses,omitempty"`
	TrustScore   *TrustScore       `json:"trust_score,omitempty"`
	Achievements []Achievement     `json:"achievements,omitempty"`
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var existing models.User
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.UserRoleBuyer
	}

	user := models.User{
		FullName:        req.FullName,
		Email:           req.Email,
		Role:            role,
		CompanyName:     req.Company,
		Phone:           req.Phone,
		IsEliteEligible: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(&user)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(&user)
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.FullName, string(user.Role), s.config.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.config.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// GetPublicProfile exposes sellers with their businesses and buyers with
// their all-time trust data.
func (s *AuthService) GetPublicProfile(userID uuid.UUID) (*PublicProfile, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	profile := &PublicProfile{User: user}

	switch user.Role {
	case models.UserRoleSeller:
		if err := s.db.Where("owner_id = ?", user.ID).Find(&profile.Businesses).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch businesses: %w", err)
		}
	case models.UserRoleBuyer:
		overview, err := s.buyerAnalytics.GetBuyerOverview(user.ID, "all")
		if err != nil {
			return nil, err
		}
		profile.TrustScore = &overview.TrustScore
		profile.Achievements = overview.Achievements
	}

	return profile, nil
}
