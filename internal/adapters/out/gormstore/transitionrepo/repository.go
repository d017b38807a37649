package transitionrepo

import (
	"context"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormTransitionRepository implements ports.TransitionRepository using GORM.
type GormTransitionRepository struct {
	db *gorm.DB
}

func NewGormTransitionRepository(db *gorm.DB) *GormTransitionRepository {
	return &GormTransitionRepository{db: db}
}

func (r *GormTransitionRepository) Add(ctx context.Context, change order.StatusChange) error {
	if err := change.OrderID.Validate(); err != nil {
		return err
	}
	if err := change.To.Validate(); err != nil {
		return err
	}
	if change.At.IsZero() {
		return errs.NewValueIsRequiredError("occurred at")
	}

	dto := fromDomain(change)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByOrder returns the history oldest first. An unknown order yields an empty slice.
func (r *GormTransitionRepository) GetByOrder(ctx context.Context, id kernel.OrderID) ([]order.StatusChange, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dtos []TransitionDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id.String()).
		Order("occurred_at").Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	changes := make([]order.StatusChange, 0, len(dtos))
	for _, dto := range dtos {
		change, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}

	return changes, nil
}
