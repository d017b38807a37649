package orderrepo

import (
	"context"
	"errors"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order and its items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes status and timestamps. Items and customer data are immutable.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID().String()).
		Updates(stateColumns(aggregate))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive returns undelivered orders in assignment order.
func (r *GormOrderRepository) GetAllActive(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.withItems(ctx).
		Where("status <> ?", int(order.Delivered)).
		Order("assigned_at").Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetAllCompleted returns delivered orders, most recently delivered first. Orders delivered
// at the same instant are ordered by their latest history entry, newest first.
func (r *GormOrderRepository) GetAllCompleted(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.withItems(ctx).
		Where("status = ?", int(order.Delivered)).
		Order("delivered_at DESC").
		Order(latestTransitionDesc).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

const latestTransitionDesc = `(SELECT COALESCE(MAX(t.id), 0) FROM delivery_transitions t
	WHERE t.order_id = delivery_orders.id) DESC`

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
