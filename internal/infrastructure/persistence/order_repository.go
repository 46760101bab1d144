package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabores/backend/internal/domain/ordering"
	"github.com/sabores/backend/internal/domain/shared"
)

// orderNumberRetries bounds the retry loop when concurrent checkouts race
// for the same order number
const orderNumberRetries = 5

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds an order by its customer-facing number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number int64) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "order_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := applyFilter(
		r.db.WithContext(ctx).Model(&ordering.Order{}),
		filter, "customer_name", "customer_email",
	)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds orders in a given status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status ordering.OrderStatus, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := applyFilter(
		r.db.WithContext(ctx).Model(&ordering.Order{}).Where("status = ?", status),
		filter, "customer_name", "customer_email",
	)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByCustomerEmail finds a customer's orders
func (r *GormOrderRepository) FindByCustomerEmail(ctx context.Context, email string, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := applyFilter(
		r.db.WithContext(ctx).Model(&ordering.Order{}).Where("customer_email = ?", email),
		filter,
	)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateWithNumber persists the order and its items, assigning the next
// sequential order number. The number is read as max+1 inside the insert
// transaction; the unique index on order_number catches a concurrent
// checkout taking the same number, in which case the insert retries.
func (r *GormOrderRepository) CreateWithNumber(ctx context.Context, order *ordering.Order) error {
	var lastErr error
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var max int64
			if err := tx.Model(&ordering.Order{}).
				Select("COALESCE(MAX(order_number), 0)").
				Scan(&max).Error; err != nil {
				return err
			}
			order.OrderNumber = max + 1
			return tx.Create(order).Error
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// Save updates an order; items are written through the association
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

// Delete removes an order row only; use DeleteWithItems for a full removal
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ordering.Order{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteWithItems removes the order and its items transactionally
func (r *GormOrderRepository) DeleteWithItems(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ordering.OrderItem{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&ordering.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(
		r.db.WithContext(ctx).Model(&ordering.Order{}),
		filter, "customer_name", "customer_email",
	)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
