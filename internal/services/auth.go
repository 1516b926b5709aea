package services

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"fundops/internal/domain"
	"fundops/internal/metrics"
	"fundops/internal/util"
	apperrors "fundops/pkg/errors"

	"gorm.io/gorm"
)

// AuthService implements login, user administration and company-access
// resolution
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// LoginResult carries the issued access token
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login implements the login method
func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	// Trim whitespace from credentials
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	log.Printf("[AUTH] Login attempt for user: %s", username)

	var user domain.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[AUTH] Login failed: user '%s' not found", username)
			metrics.RecordAuthAttempt(false)
			return nil, apperrors.Unauthorized("incorrect username or password")
		}
		log.Printf("[AUTH] Login failed: database error for user '%s': %v", username, err)
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.Store("failed to load user", err)
	}

	if !util.CheckPasswordHash(password, user.HashedPassword) {
		log.Printf("[AUTH] Login failed: invalid password for user '%s'", username)
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.Unauthorized("incorrect username or password")
	}

	if !user.IsActive {
		log.Printf("[AUTH] Login failed: user '%s' is inactive", username)
		metrics.RecordAuthAttempt(false)
		return nil, apperrors.Unauthorized("user account is inactive")
	}

	// Update last login
	now := time.Now()
	user.LastLogin = &now
	s.db.Save(&user)

	token, err := util.GenerateToken(&user)
	if err != nil {
		log.Printf("[AUTH] Login failed: token generation error for user '%s': %v", username, err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "failed to generate token", err)
	}

	log.Printf("[AUTH] Login successful for user '%s' (id=%d, admin=%v, staff=%v)", username, user.ID, user.IsAdmin, user.IsStaff)
	metrics.RecordAuthAttempt(true)

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// GetUserByUsername loads a user by username
func (s *AuthService) GetUserByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Store("failed to load user", err)
	}
	return &user, nil
}

// userAccess implements AccessContext for an authenticated user. Admins have
// access to every company; other users only to companies they are members of.
type userAccess struct {
	user *domain.User
	db   *gorm.DB
}

func (a *userAccess) UserID() string {
	return strconv.FormatUint(uint64(a.user.ID), 10)
}

func (a *userAccess) HasAccessToCompany(companyID string) bool {
	if a.user.IsAdmin {
		return true
	}
	var count int64
	err := a.db.Model(&domain.CompanyMember{}).
		Where("company_id = ? AND user_id = ?", companyID, a.user.ID).
		Count(&count).Error
	if err != nil {
		log.Printf("[AUTH] membership lookup failed: user=%d, company=%s: %v", a.user.ID, companyID, err)
		return false
	}
	return count > 0
}

// AccessFor resolves the authorization context for a user, consulted by the
// lifecycle and CRUD services before any operation.
func (s *AuthService) AccessFor(user *domain.User) AccessContext {
	return &userAccess{user: user, db: s.db}
}

// CreateUser implements the create user method
func (s *AuthService) CreateUser(username, email, password string, fullName *string, isActive, isAdmin, isStaff bool) (*domain.User, error) {
	// Trim and normalize inputs
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	log.Printf("[AUTH] CreateUser request: username=%s, email=%s", username, email)

	if username == "" || email == "" || password == "" {
		return nil, apperrors.Validation("username, email and password are required")
	}

	// Check if username exists
	var existingUser domain.User
	if err := s.db.Where("username = ?", username).First(&existingUser).Error; err == nil {
		log.Printf("[AUTH] CreateUser failed: username '%s' already exists", username)
		return nil, apperrors.Validation("username already registered")
	}

	// Check if email exists
	if err := s.db.Where("email = ?", email).First(&existingUser).Error; err == nil {
		log.Printf("[AUTH] CreateUser failed: email '%s' already exists", email)
		return nil, apperrors.Validation("email already registered")
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		log.Printf("[AUTH] CreateUser failed: password hashing error: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "failed to hash password", err)
	}

	user := domain.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		IsActive:       isActive,
		IsAdmin:        isAdmin,
		IsStaff:        isStaff,
	}
	if fullName != nil {
		trimmed := strings.TrimSpace(*fullName)
		user.FullName = &trimmed
	}

	if err := s.db.Create(&user).Error; err != nil {
		log.Printf("[AUTH] CreateUser failed: database error: %v", err)
		return nil, apperrors.Store("failed to create user", err)
	}

	log.Printf("[AUTH] CreateUser successful: username=%s, id=%d", username, user.ID)
	return &user, nil
}

// ListUsers implements the list users method
func (s *AuthService) ListUsers(skip, limit int) ([]domain.User, error) {
	log.Printf("[AUTH] ListUsers request: skip=%d, limit=%d", skip, limit)

	var users []domain.User
	query := s.db.Order("created_at DESC")

	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	} else {
		query = query.Limit(100)
	}

	if err := query.Find(&users).Error; err != nil {
		log.Printf("[AUTH] ListUsers failed: database error: %v", err)
		return nil, apperrors.Store("failed to list users", err)
	}

	log.Printf("[AUTH] ListUsers successful: returned %d users", len(users))
	return users, nil
}

// SetUserRoles toggles the admin/staff/active flags of a user
func (s *AuthService) SetUserRoles(id uint, isActive, isAdmin, isStaff *bool) (*domain.User, error) {
	log.Printf("[AUTH] SetUserRoles request: id=%d", id)

	var user domain.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[AUTH] SetUserRoles failed: user id=%d not found", id)
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Store("failed to load user", err)
	}

	if isActive != nil {
		user.IsActive = *isActive
	}
	if isAdmin != nil {
		user.IsAdmin = *isAdmin
	}
	if isStaff != nil {
		user.IsStaff = *isStaff
	}

	if err := s.db.Save(&user).Error; err != nil {
		log.Printf("[AUTH] SetUserRoles failed: database error: %v", err)
		return nil, apperrors.Store("failed to update user", err)
	}

	log.Printf("[AUTH] SetUserRoles successful: id=%d, active=%v, admin=%v, staff=%v", user.ID, user.IsActive, user.IsAdmin, user.IsStaff)
	return &user, nil
}

// SetViewMode switches a user's admin view mode
func (s *AuthService) SetViewMode(id uint, viewMode string) (*domain.User, error) {
	log.Printf("[AUTH] SetViewMode request: id=%d, mode=%s", id, viewMode)

	if viewMode != "operator" && viewMode != "readonly" {
		return nil, apperrors.Validation("view mode must be 'operator' or 'readonly'")
	}

	var user domain.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Store("failed to load user", err)
	}

	user.ViewMode = viewMode
	if err := s.db.Save(&user).Error; err != nil {
		return nil, apperrors.Store("failed to update user", err)
	}

	log.Printf("[AUTH] SetViewMode successful: id=%d, mode=%s", user.ID, viewMode)
	return &user, nil
}
