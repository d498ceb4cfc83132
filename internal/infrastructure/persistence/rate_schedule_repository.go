package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salesops/backend/internal/domain/pricing"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/infrastructure/persistence/models"
)

// GormRateScheduleRepository implements RateScheduleRepository using GORM
type GormRateScheduleRepository struct {
	db *gorm.DB
}

// NewGormRateScheduleRepository creates a new GormRateScheduleRepository
func NewGormRateScheduleRepository(db *gorm.DB) *GormRateScheduleRepository {
	return &GormRateScheduleRepository{db: db}
}

// preloadTiers loads tiers ordered by threshold so resolution can rely on it
func (r *GormRateScheduleRepository) preloadTiers(query *gorm.DB) *gorm.DB {
	return query.Preload("Tiers", func(db *gorm.DB) *gorm.DB {
		return db.Order("min_quantity ASC")
	})
}

// FindByID finds a rate schedule by its ID
func (r *GormRateScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.RateSchedule, error) {
	var model models.RateScheduleModel
	if err := r.preloadTiers(r.db.WithContext(ctx)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySubject finds the schedule for one (subject, kind, variant) triple
func (r *GormRateScheduleRepository) FindBySubject(ctx context.Context, kind pricing.RateKind, subjectID uuid.UUID, variant string) (*pricing.RateSchedule, error) {
	var model models.RateScheduleModel
	if err := r.preloadTiers(r.db.WithContext(ctx)).
		Where("kind = ? AND subject_id = ? AND variant = ?", kind, subjectID, variant).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySubjects finds the schedules of a kind/variant for many subjects at once
func (r *GormRateScheduleRepository) FindBySubjects(ctx context.Context, kind pricing.RateKind, subjectIDs []uuid.UUID, variant string) ([]pricing.RateSchedule, error) {
	if len(subjectIDs) == 0 {
		return []pricing.RateSchedule{}, nil
	}

	var scheduleModels []models.RateScheduleModel
	if err := r.preloadTiers(r.db.WithContext(ctx)).
		Where("kind = ? AND subject_id IN ? AND variant = ?", kind, subjectIDs, variant).
		Find(&scheduleModels).Error; err != nil {
		return nil, err
	}

	schedules := make([]pricing.RateSchedule, len(scheduleModels))
	for i, model := range scheduleModels {
		schedules[i] = *model.ToDomain()
	}
	return schedules, nil
}

// FindByKind lists all schedules of a kind
func (r *GormRateScheduleRepository) FindByKind(ctx context.Context, kind pricing.RateKind) ([]pricing.RateSchedule, error) {
	var scheduleModels []models.RateScheduleModel
	if err := r.preloadTiers(r.db.WithContext(ctx)).
		Where("kind = ?", kind).
		Order("subject_name ASC, variant ASC").
		Find(&scheduleModels).Error; err != nil {
		return nil, err
	}

	schedules := make([]pricing.RateSchedule, len(scheduleModels))
	for i, model := range scheduleModels {
		schedules[i] = *model.ToDomain()
	}
	return schedules, nil
}

// Save persists a rate schedule. Tiers are replaced wholesale with the
// schedule row in one transaction, updating bands in place is not supported.
func (r *GormRateScheduleRepository) Save(ctx context.Context, schedule *pricing.RateSchedule) error {
	model := models.RateScheduleModelFromDomain(schedule)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.RateTierModel{}, "schedule_id = ?", schedule.ID).Error; err != nil {
			return err
		}
		return tx.Save(model).Error
	})
}

// Delete removes a rate schedule and its tiers
func (r *GormRateScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.RateTierModel{}, "schedule_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.RateScheduleModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormRateScheduleRepository implements RateScheduleRepository
var _ pricing.RateScheduleRepository = (*GormRateScheduleRepository)(nil)
