package services

import (
	"errors"
	"log"
	"strings"

	"fundops/internal/domain"
	apperrors "fundops/pkg/errors"

	"gorm.io/gorm"
)

// InvestorService implements per-company investor CRUD
type InvestorService struct {
	db *gorm.DB
}

// NewInvestorService creates a new investor service
func NewInvestorService(db *gorm.DB) *InvestorService {
	return &InvestorService{db: db}
}

// Create implements the create investor method
func (s *InvestorService) Create(access AccessContext, companyID, name string, email, phone, firm *string, notes string) (*domain.Investor, error) {
	name = strings.TrimSpace(name)
	log.Printf("[INVESTOR] Create request: company=%s, name=%s", companyID, name)

	if name == "" {
		return nil, apperrors.Validation("investor name is required")
	}
	if !access.HasAccessToCompany(companyID) {
		return nil, apperrors.Forbidden("no access to the owning company")
	}

	// Normalize email - lowercase, empty becomes nil
	var emailValue *string
	if email != nil && strings.TrimSpace(*email) != "" {
		normalized := strings.ToLower(strings.TrimSpace(*email))
		emailValue = &normalized
	}

	investor := domain.Investor{
		CompanyID: companyID,
		Name:      name,
		Email:     emailValue,
		Phone:     phone,
		Firm:      firm,
		Notes:     notes,
	}
	if err := s.db.Create(&investor).Error; err != nil {
		log.Printf("[INVESTOR] Create failed: database error: %v", err)
		return nil, apperrors.Store("failed to create investor", err)
	}

	log.Printf("[INVESTOR] Create successful: id=%s, name=%s", investor.ID, name)
	return &investor, nil
}

// Get implements the get investor method
func (s *InvestorService) Get(access AccessContext, id string) (*domain.Investor, error) {
	var investor domain.Investor
	if err := s.db.Where("id = ?", id).First(&investor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("investor not found")
		}
		return nil, apperrors.Store("failed to load investor", err)
	}
	if !access.HasAccessToCompany(investor.CompanyID) {
		return nil, apperrors.NotFound("investor not found")
	}
	return &investor, nil
}

// List implements the list investors method for one company
func (s *InvestorService) List(access AccessContext, companyID string, skip, limit int) ([]domain.Investor, error) {
	log.Printf("[INVESTOR] List request: company=%s, skip=%d, limit=%d", companyID, skip, limit)

	if !access.HasAccessToCompany(companyID) {
		return nil, apperrors.Forbidden("no access to the owning company")
	}

	var investors []domain.Investor
	query := s.db.Where("company_id = ?", companyID).Order("created_at DESC")

	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		if limit > 500 {
			limit = 500
		}
		query = query.Limit(limit)
	} else {
		query = query.Limit(100)
	}

	if err := query.Find(&investors).Error; err != nil {
		log.Printf("[INVESTOR] List failed: database error: %v", err)
		return nil, apperrors.Store("failed to list investors", err)
	}

	log.Printf("[INVESTOR] List successful: returned %d investors", len(investors))
	return investors, nil
}

// Update implements the update investor method
func (s *InvestorService) Update(access AccessContext, id string, name *string, email, phone, firm *string, notes *string) (*domain.Investor, error) {
	log.Printf("[INVESTOR] Update request: id=%s", id)

	investor, err := s.Get(access, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.Validation("investor name cannot be empty")
		}
		investor.Name = trimmed
	}
	if email != nil {
		if strings.TrimSpace(*email) == "" {
			investor.Email = nil
		} else {
			normalized := strings.ToLower(strings.TrimSpace(*email))
			investor.Email = &normalized
		}
	}
	if phone != nil {
		investor.Phone = phone
	}
	if firm != nil {
		investor.Firm = firm
	}
	if notes != nil {
		investor.Notes = *notes
	}

	if err := s.db.Save(investor).Error; err != nil {
		log.Printf("[INVESTOR] Update failed: database error: %v", err)
		return nil, apperrors.Store("failed to update investor", err)
	}

	log.Printf("[INVESTOR] Update successful: id=%s", id)
	return investor, nil
}
