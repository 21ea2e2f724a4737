package entity

import (
	"time"
)

// Customer is a cached copy of a customer record owned by the external
// source system. Rows are created and refreshed by the sync stage and are
// never deleted here.
type Customer struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CustomerID    int64     `json:"customer_id" gorm:"uniqueIndex;not null"`
	CompanyName   string    `json:"company_name" gorm:"not null"`
	Industry      string    `json:"industry" gorm:"index;not null"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Country       string    `json:"country"`
	PostalCode    string    `json:"postal_code"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	SyncedAt      time.Time `json:"synced_at"`
}

func (Customer) TableName() string {
	return "customers"
}
