package services

import (
	"errors"
	"log"
	"strings"

	"fundops/internal/domain"
	apperrors "fundops/pkg/errors"

	"gorm.io/gorm"
)

// CompanyService implements company CRUD and membership management
type CompanyService struct {
	db *gorm.DB
}

// NewCompanyService creates a new company service
func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

// Create implements the create company method
func (s *CompanyService) Create(name string, website, sector *string, notes string) (*domain.Company, error) {
	name = strings.TrimSpace(name)
	log.Printf("[COMPANY] Create request: name=%s", name)

	if name == "" {
		return nil, apperrors.Validation("company name is required")
	}

	company := domain.Company{
		Name:    name,
		Website: website,
		Sector:  sector,
		Notes:   notes,
	}
	if err := s.db.Create(&company).Error; err != nil {
		log.Printf("[COMPANY] Create failed: database error: %v", err)
		return nil, apperrors.Store("failed to create company", err)
	}

	log.Printf("[COMPANY] Create successful: id=%s, name=%s", company.ID, name)
	return &company, nil
}

// Get implements the get company method
func (s *CompanyService) Get(access AccessContext, id string) (*domain.Company, error) {
	var company domain.Company
	if err := s.db.Where("id = ?", id).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("company not found")
		}
		return nil, apperrors.Store("failed to load company", err)
	}
	if !access.HasAccessToCompany(company.ID) {
		// Same shape as an absent row so tenants cannot probe each other.
		return nil, apperrors.NotFound("company not found")
	}
	return &company, nil
}

// Update implements the update company method
func (s *CompanyService) Update(access AccessContext, id string, name *string, website, sector *string, notes *string) (*domain.Company, error) {
	log.Printf("[COMPANY] Update request: id=%s", id)

	company, err := s.Get(access, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.Validation("company name cannot be empty")
		}
		company.Name = trimmed
	}
	if website != nil {
		company.Website = website
	}
	if sector != nil {
		company.Sector = sector
	}
	if notes != nil {
		company.Notes = *notes
	}

	if err := s.db.Save(company).Error; err != nil {
		log.Printf("[COMPANY] Update failed: database error: %v", err)
		return nil, apperrors.Store("failed to update company", err)
	}

	log.Printf("[COMPANY] Update successful: id=%s", id)
	return company, nil
}

// AddMember grants a user access to a company
func (s *CompanyService) AddMember(access AccessContext, companyID string, userID uint, role string) (*domain.CompanyMember, error) {
	log.Printf("[COMPANY] AddMember request: company=%s, user=%d", companyID, userID)

	if _, err := s.Get(access, companyID); err != nil {
		return nil, err
	}
	if role == "" {
		role = "operator"
	}
	if role != "operator" && role != "viewer" {
		return nil, apperrors.Validation("role must be 'operator' or 'viewer'")
	}

	var existing domain.CompanyMember
	if err := s.db.Where("company_id = ? AND user_id = ?", companyID, userID).First(&existing).Error; err == nil {
		return nil, apperrors.Validation("user is already a member of this company")
	}

	member := domain.CompanyMember{
		CompanyID: companyID,
		UserID:    userID,
		Role:      role,
	}
	if err := s.db.Create(&member).Error; err != nil {
		log.Printf("[COMPANY] AddMember failed: database error: %v", err)
		return nil, apperrors.Store("failed to add member", err)
	}

	log.Printf("[COMPANY] AddMember successful: company=%s, user=%d, role=%s", companyID, userID, role)
	return &member, nil
}

// ListMembers lists a company's members
func (s *CompanyService) ListMembers(access AccessContext, companyID string) ([]domain.CompanyMember, error) {
	if _, err := s.Get(access, companyID); err != nil {
		return nil, err
	}

	var members []domain.CompanyMember
	if err := s.db.Where("company_id = ?", companyID).Order("created_at ASC").Find(&members).Error; err != nil {
		return nil, apperrors.Store("failed to list members", err)
	}
	return members, nil
}
