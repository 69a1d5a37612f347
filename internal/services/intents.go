package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/alsetso/alsetmaps-backend/internal/database"
	"github.com/alsetso/alsetmaps-backend/internal/models"
)

// IntentService manages public buyer-intent listings
type IntentService struct {
	db *database.DB
}

func NewIntentService(db *database.DB) *IntentService {
	return &IntentService{db: db}
}

type CreateIntentRequest struct {
	Location string   `json:"location"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	MinPrice *int64   `json:"min_price,omitempty"`
	MaxPrice *int64   `json:"max_price,omitempty"`
	Bedrooms *int     `json:"bedrooms,omitempty"`
	Timeline *string  `json:"timeline,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

type IntentFilter struct {
	Page     int
	Limit    int
	Location string
	MaxPrice int64
}

type IntentListResponse struct {
	Items      []models.BuyerIntent `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

// Create posts a new buyer intent for the user
func (s *IntentService) Create(ctx context.Context, userID uint, req *CreateIntentRequest) (*models.BuyerIntent, error) {
	if strings.TrimSpace(req.Location) == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, fmt.Errorf("%w: min_price exceeds max_price", ErrInvalidInput)
	}

	intent := models.BuyerIntent{
		UserID:   userID,
		Location: req.Location,
		Lat:      req.Lat,
		Lng:      req.Lng,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Bedrooms: req.Bedrooms,
		Timeline: req.Timeline,
		Notes:    req.Notes,
		Status:   models.IntentStatusActive,
	}
	if err := s.db.WithContext(ctx).Create(&intent).Error; err != nil {
		return nil, err
	}
	return &intent, nil
}

// List returns active buyer intents for the public listing page
func (s *IntentService) List(ctx context.Context, filter *IntentFilter) (*IntentListResponse, error) {
	var intents []models.BuyerIntent
	var total int64

	query := s.db.WithContext(ctx).Model(&models.BuyerIntent{}).
		Where("status = ?", models.IntentStatusActive)

	if filter.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(filter.Location)+"%")
	}
	if filter.MaxPrice > 0 {
		query = query.Where("(max_price IS NULL OR max_price <= ?)", filter.MaxPrice)
	}

	query.Count(&total)

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	if err := query.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&intents).Error; err != nil {
		return nil, err
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	return &IntentListResponse{
		Items:      intents,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// ListMine returns all of the user's intents regardless of status
func (s *IntentService) ListMine(ctx context.Context, userID uint) ([]models.BuyerIntent, error) {
	var intents []models.BuyerIntent
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&intents).Error
	return intents, err
}

// Withdraw marks the user's intent as withdrawn
func (s *IntentService) Withdraw(ctx context.Context, userID, intentID uint) error {
	res := s.db.WithContext(ctx).Model(&models.BuyerIntent{}).
		Where("id = ? AND user_id = ?", intentID, userID).
		Update("status", models.IntentStatusWithdrawn)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user's intent
func (s *IntentService) Delete(ctx context.Context, userID, intentID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", intentID, userID).
		Delete(&models.BuyerIntent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
