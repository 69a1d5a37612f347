package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alsetso/alsetmaps-backend/internal/database"
	"github.com/alsetso/alsetmaps-backend/internal/models"
	"gorm.io/gorm"
)

type AgentService struct {
	db *database.DB
}

func NewAgentService(db *database.DB) *AgentService {
	return &AgentService{db: db}
}

type AgentFilter struct {
	Page         int
	Limit        int
	LicenseState string
	Status       string
	Query        string
}

type AgentListResponse struct {
	Items      []models.Agent `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type OnboardAgentRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone,omitempty"`
	Brokerage     *string `json:"brokerage,omitempty"`
	LicenseNumber string  `json:"license_number"`
	LicenseState  string  `json:"license_state"`
	ServiceAreas  *string `json:"service_areas,omitempty"`
	Bio           *string `json:"bio,omitempty"`
}

// Onboard registers a new agent in pending state
func (s *AgentService) Onboard(ctx context.Context, userID *uint, req *OnboardAgentRequest) (*models.Agent, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.LicenseNumber) == "" || len(req.LicenseState) != 2 {
		return nil, fmt.Errorf("%w: name, email, license_number and 2-letter license_state are required", ErrInvalidInput)
	}

	agent := models.Agent{
		UserID:        userID,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Brokerage:     req.Brokerage,
		LicenseNumber: req.LicenseNumber,
		LicenseState:  strings.ToUpper(req.LicenseState),
		ServiceAreas:  req.ServiceAreas,
		Bio:           req.Bio,
		Status:        models.AgentStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// List retrieves directory agents with filtering and pagination. The public
// directory only ever sees approved agents; staff can filter by any status.
func (s *AgentService) List(ctx context.Context, filter *AgentFilter) (*AgentListResponse, error) {
	var agents []models.Agent
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Agent{})

	status := filter.Status
	if status == "" {
		status = models.AgentStatusApproved
	}
	query = query.Where("status = ?", status)

	if filter.LicenseState != "" {
		query = query.Where("license_state = ?", strings.ToUpper(filter.LicenseState))
	}
	if filter.Query != "" {
		searchTerm := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(brokerage) LIKE ? OR LOWER(service_areas) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	query.Count(&total)

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	if err := query.Order("name ASC").Offset(offset).Limit(filter.Limit).Find(&agents).Error; err != nil {
		return nil, err
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	return &AgentListResponse{
		Items:      agents,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetByID retrieves an agent by ID
func (s *AgentService) GetByID(ctx context.Context, id uint) (*models.Agent, error) {
	var agent models.Agent
	err := s.db.WithContext(ctx).First(&agent, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// UpdateStatus moves an agent through the onboarding pipeline
func (s *AgentService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Agent, error) {
	switch status {
	case models.AgentStatusPending, models.AgentStatusApproved, models.AgentStatusRejected:
	default:
		return nil, fmt.Errorf("%w: unknown agent status %q", ErrInvalidInput, status)
	}

	res := s.db.WithContext(ctx).Model(&models.Agent{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, id)
}
