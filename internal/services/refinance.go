package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/alsetso/alsetmaps-backend/internal/database"
	"github.com/alsetso/alsetmaps-backend/internal/logger"
	"github.com/alsetso/alsetmaps-backend/internal/models"
)

// RefinanceNotifier sends the new-lead notification email
type RefinanceNotifier interface {
	SendRefinanceNotification(req *models.RefinanceRequest) error
}

// RefinanceService handles refinance lead intake
type RefinanceService struct {
	db       *database.DB
	notifier RefinanceNotifier
}

func NewRefinanceService(db *database.DB, notifier RefinanceNotifier) *RefinanceService {
	return &RefinanceService{db: db, notifier: notifier}
}

type CreateRefinanceRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           *string  `json:"phone,omitempty"`
	PropertyAddress string   `json:"property_address"`
	CurrentBalance  *int64   `json:"current_balance,omitempty"`
	CurrentRate     *float64 `json:"current_rate,omitempty"`
	DesiredRate     *float64 `json:"desired_rate,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

// Create records an inbound refinance lead and notifies the loan desk.
// The notification is best effort; a mail outage never loses the lead.
func (s *RefinanceService) Create(ctx context.Context, userID *uint, req *CreateRefinanceRequest) (*models.RefinanceRequest, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.PropertyAddress) == "" {
		return nil, fmt.Errorf("%w: name, email and property_address are required", ErrInvalidInput)
	}

	lead := models.RefinanceRequest{
		UserID:          userID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		PropertyAddress: req.PropertyAddress,
		CurrentBalance:  req.CurrentBalance,
		CurrentRate:     req.CurrentRate,
		DesiredRate:     req.DesiredRate,
		Notes:           req.Notes,
		Status:          models.RefinanceStatusNew,
	}
	if err := s.db.WithContext(ctx).Create(&lead).Error; err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go func(lead models.RefinanceRequest) {
			if err := s.notifier.SendRefinanceNotification(&lead); err != nil {
				logger.GetLogger("refinance").Warnf("Failed to send lead notification for request %d: %v", lead.ID, err)
			}
		}(lead)
	}

	return &lead, nil
}

// List returns refinance leads for the staff dashboard, newest first
func (s *RefinanceService) List(ctx context.Context, status string) ([]models.RefinanceRequest, error) {
	query := s.db.WithContext(ctx).Model(&models.RefinanceRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var leads []models.RefinanceRequest
	err := query.Order("created_at DESC").Find(&leads).Error
	return leads, err
}

// UpdateStatus moves a lead through the intake pipeline
func (s *RefinanceService) UpdateStatus(ctx context.Context, id uint, status string) error {
	switch status {
	case models.RefinanceStatusNew, models.RefinanceStatusContacted, models.RefinanceStatusClosed:
	default:
		return fmt.Errorf("%w: unknown refinance status %q", ErrInvalidInput, status)
	}

	res := s.db.WithContext(ctx).Model(&models.RefinanceRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
