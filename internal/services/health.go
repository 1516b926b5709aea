package services

import (
	"gorm.io/gorm"

	"fundops/internal/database"
)

// HealthService implements the health service
type HealthService struct {
	db *gorm.DB
}

// NewHealthService creates a new health service
func NewHealthService(db *gorm.DB) *HealthService {
	return &HealthService{db: db}
}

// HealthResult reports service and database health
type HealthResult struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

// Check implements the health check method
func (s *HealthService) Check() *HealthResult {
	result := &HealthResult{
		Status:   "healthy",
		Service:  "FundOps API",
		Database: "ok",
	}
	if err := database.Ping(s.db); err != nil {
		result.Status = "degraded"
		result.Database = err.Error()
	}
	return result
}
