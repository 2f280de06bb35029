package webhookrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/webhook"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWebhookRepository implements WebhookRepository using GORM.
type GormWebhookRepository struct {
	db *gorm.DB
}

// NewGormWebhookRepository creates a new GORM webhook repository.
func NewGormWebhookRepository(db *gorm.DB) *GormWebhookRepository {
	return &GormWebhookRepository{db: db}
}

// Add saves a freshly received event record to the database.
func (r *GormWebhookRepository) Add(ctx context.Context, event *webhook.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := fromDomain(event)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves a processing status change to the database.
// Select("status", "last_error") forces both columns through, so clearing a
// prior failure on a successful retry is not dropped as a zero value.
func (r *GormWebhookRepository) Update(ctx context.Context, event *webhook.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := fromDomain(event)
	result := r.db.WithContext(ctx).Model(&EventDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "last_error").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Get retrieves an event by the provider's event id.
func (r *GormWebhookRepository) Get(ctx context.Context, id string) (*webhook.Event, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("webhook event id")
	}

	var dto EventDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("webhook event", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllFailed retrieves events whose processing failed, oldest first.
func (r *GormWebhookRepository) GetAllFailed(ctx context.Context, limit int) ([]*webhook.Event, error) {
	if limit < 1 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, nil)
	}

	var dtos []EventDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", webhook.StatusFailed.String()).
		Order("received_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]*webhook.Event, 0, len(dtos))
	for _, dto := range dtos {
		event, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}
