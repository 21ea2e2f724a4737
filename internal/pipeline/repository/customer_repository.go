package repository

import (
	"context"
	"time"

	"sentiment-pipeline/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerRepository defines the interface for customer cache operations.
type CustomerRepository interface {
	Upsert(ctx context.Context, customer *entity.Customer) error
	FindAll(ctx context.Context) ([]entity.Customer, error)
	FindByID(ctx context.Context, id uint) (*entity.Customer, error)
	FindByExternalID(ctx context.Context, customerID int64) (*entity.Customer, error)
	FindByIndustry(ctx context.Context, industry string) ([]entity.Customer, error)
	DistinctIndustries(ctx context.Context) ([]string, error)
}

// NewCustomerRepository creates a new GORM-based customer repository.
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

type customerRepository struct {
	db *gorm.DB
}

// Upsert inserts the customer or fully overwrites the cached row matching
// its external id, refreshing synced_at either way.
func (r *customerRepository) Upsert(ctx context.Context, customer *entity.Customer) error {
	customer.SyncedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"company_name", "industry", "contact_person", "phone", "address",
			"city", "state", "country", "postal_code", "is_active",
			"created_at", "updated_at", "synced_at",
		}),
	}).Create(customer).Error
}

// FindAll retrieves every cached customer.
func (r *customerRepository) FindAll(ctx context.Context) ([]entity.Customer, error) {
	var customers []entity.Customer
	if err := r.db.WithContext(ctx).Order("company_name").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// FindByID retrieves a customer by its local primary key.
func (r *customerRepository) FindByID(ctx context.Context, id uint) (*entity.Customer, error) {
	var customer entity.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByExternalID retrieves a customer by the id it carries in the
// source system.
func (r *customerRepository) FindByExternalID(ctx context.Context, customerID int64) (*entity.Customer, error) {
	var customer entity.Customer
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByIndustry retrieves all customers in one industry.
func (r *customerRepository) FindByIndustry(ctx context.Context, industry string) ([]entity.Customer, error) {
	var customers []entity.Customer
	if err := r.db.WithContext(ctx).Where("industry = ?", industry).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// DistinctIndustries lists every industry value present in the cache.
func (r *customerRepository) DistinctIndustries(ctx context.Context) ([]string, error) {
	var industries []string
	err := r.db.WithContext(ctx).
		Model(&entity.Customer{}).
		Distinct("industry").
		Order("industry").
		Pluck("industry", &industries).Error
	if err != nil {
		return nil, err
	}
	return industries, nil
}
